package merge

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/prismshield/redact/internal/scanner"
)

// precedenceOrder lists labels from highest to lowest priority per
// spec.md §4.5. ADDRESS_LINE only participates at this tier when it was
// not absorbed into an ADDRESS_BLOCK by AddressBlocks.
var precedenceOrder = []scanner.Label{
	scanner.LabelAddressBlock,
	scanner.LabelAccountID,
	scanner.LabelEmail,
	scanner.LabelPhone,
	scanner.LabelDOB,
	scanner.LabelAliasLabel,
	scanner.LabelBankOrg,
	scanner.LabelPerson,
	scanner.LabelGenericOrg,
	scanner.LabelLocation,
	scanner.LabelAddressLine,
	scanner.LabelDateGeneric,
}

var precedenceRank = func() map[scanner.Label]int {
	m := make(map[scanner.Label]int, len(precedenceOrder))
	for i, l := range precedenceOrder {
		m[l] = i
	}
	return m
}()

// minSpanLen is the shortest rune length a truncated span of a given
// label may still be considered "syntactically valid" for, per
// spec.md §4.5's truncate-or-drop rule. Below this, truncation would
// leave a fragment with no plausible resemblance to its label (e.g. a
// single digit left over from an ACCOUNT_ID), so the span is dropped
// instead.
var minSpanLen = map[scanner.Label]int{
	scanner.LabelEmail:        3, // "a@b"
	scanner.LabelPhone:        7,
	scanner.LabelAccountID:    6,
	scanner.LabelBankOrg:      3,
	scanner.LabelGenericOrg:   3,
	scanner.LabelPerson:       2,
	scanner.LabelAddressLine:  4,
	scanner.LabelAddressBlock: 8,
	scanner.LabelDateGeneric:  4,
	scanner.LabelDOB:          4,
	scanner.LabelAliasLabel:   1,
	scanner.LabelLocation:     2,
}

// Resolve implements the global precedence-ordered overlap resolver of
// spec.md §4.5: it takes all spans (already passed through
// AddressBlocks) and returns a non-overlapping set. Spans are
// considered in precedence order, highest tier first; within a tier,
// by length (longer first), then confidence (higher first), then start
// (earlier first), then a deterministic hash of source+label. A span
// that overlaps one already accepted is truncated to the non-overlapping
// remainder if that remainder still meets the label's minimum length,
// otherwise it is dropped entirely. Resolve is a pure function of its
// input: the same spans in any order produce the same output.
func Resolve(spans []scanner.Span) []scanner.Span {
	ordered := make([]scanner.Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := rankOf(ordered[i].Label), rankOf(ordered[j].Label)
		if ri != rj {
			return ri < rj
		}
		if li, lj := ordered[i].Len(), ordered[j].Len(); li != lj {
			return li > lj
		}
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		if ordered[i].Start != ordered[j].Start {
			return ordered[i].Start < ordered[j].Start
		}
		return tieHash(ordered[i]) < tieHash(ordered[j])
	})

	var accepted []scanner.Span
	for _, s := range ordered {
		cur := s
		dropped := false
		for _, a := range accepted {
			if !overlaps(cur, a) {
				continue
			}
			if contains(a, cur) {
				dropped = true
				break
			}
			trimmed, ok := truncate(cur, a)
			if !ok {
				dropped = true
				break
			}
			cur = trimmed
		}
		if !dropped {
			accepted = append(accepted, cur)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		if accepted[i].Start != accepted[j].Start {
			return accepted[i].Start < accepted[j].Start
		}
		return accepted[i].End < accepted[j].End
	})
	return accepted
}

func rankOf(l scanner.Label) int {
	if r, ok := precedenceRank[l]; ok {
		return r
	}
	return len(precedenceOrder) // unknown labels sort last
}

func overlaps(a, b scanner.Span) bool {
	return a.Start < b.End && b.Start < a.End
}

// contains reports whether outer strictly contains or equals inner's range.
func contains(outer, inner scanner.Span) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}

// truncate shrinks cur to the portion of its range not overlapping
// winner, preferring to keep the longer remaining side when winner
// splits cur into a left and right remainder (in which case only the
// longer side survives, per the "truncated only if it still yields a
// syntactically valid span" rule — a split span cannot keep both
// halves as one span).
func truncate(cur, winner scanner.Span) (scanner.Span, bool) {
	leftLen := 0
	if winner.Start > cur.Start {
		leftLen = winner.Start - cur.Start
	}
	rightLen := 0
	if winner.End < cur.End {
		rightLen = cur.End - winner.End
	}

	out := cur
	if leftLen >= rightLen {
		out.End = cur.Start + leftLen
	} else {
		out.Start = cur.End - rightLen
	}

	if out.Len() < minLenFor(out.Label) {
		return scanner.Span{}, false
	}
	return out, true
}

func minLenFor(l scanner.Label) int {
	if n, ok := minSpanLen[l]; ok {
		return n
	}
	return 1
}

// tieHash is the spec's "deterministic hash of source + label" final
// tie-break: a stable ordering key derived from the span's detector
// source name and label so that equal-rank, equal-length,
// equal-confidence, equal-start spans still sort deterministically
// regardless of detector execution order.
func tieHash(s scanner.Span) uint64 {
	h := sha256.Sum256([]byte(s.Source + "|" + string(s.Label)))
	return binary.BigEndian.Uint64(h[:8])
}
