// Package plan builds the ordered set of accepted replacements for a
// document and applies them to normalized text (spec.md §4.8).
package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prismshield/redact/internal/preprocess"
	"github.com/prismshield/redact/internal/scanner"
)

// Entry is one accepted replacement, carrying enough provenance to
// render an audit record without re-walking the pipeline.
type Entry struct {
	Label       scanner.Label
	Subtype     string
	Original    string
	Replacement string
	StartNorm   int
	EndNorm     int
	ClusterID   int
	Confidence  float64
	Detector    string
	Retries     int
	Unsafe      bool
	Reason      string
}

// StartOrig and EndOrig resolve the entry's normalized-text span back to
// offsets in the original document via cm. Entries produced for text that
// was never run through preprocess (e.g. already-sanitized text in a
// second pass) may pass a nil or identity map.
func (e Entry) StartOrig(cm preprocess.CharMap) int {
	return origOffset(cm, e.StartNorm)
}

func (e Entry) EndOrig(cm preprocess.CharMap) int {
	return origOffset(cm, e.EndNorm)
}

func origOffset(cm preprocess.CharMap, idx int) int {
	if cm == nil {
		return idx
	}
	if idx < 0 {
		return 0
	}
	if idx >= len(cm) {
		if len(cm) == 0 {
			return idx
		}
		return cm[len(cm)-1]
	}
	return cm[idx]
}

// Error reports a planner invariant violation. Per spec.md §7 this is
// fatal: it indicates the span merger let an overlap through, and no
// output is written.
type Error struct {
	A, B Entry
}

func (e *Error) Error() string {
	return fmt.Sprintf("plan: overlapping entries after merge: [%d,%d) %s and [%d,%d) %s",
		e.A.StartNorm, e.A.EndNorm, e.A.Label, e.B.StartNorm, e.B.EndNorm, e.B.Label)
}

// ExitCode maps a PlanError to the CLI boundary's exit code.
func (e *Error) ExitCode() int { return 5 }

// Build sorts entries by StartNorm ascending and asserts non-overlap. The
// returned slice is the one the Applier must use; Build never mutates its
// input slice in place (callers may still hold the original order).
func Build(entries []Entry) ([]Entry, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartNorm < sorted[j].StartNorm })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if cur.StartNorm < prev.EndNorm {
			return nil, &Error{A: prev, B: cur}
		}
	}
	return sorted, nil
}

// Apply replaces every entry's span in text with its Replacement,
// working in reverse order of StartNorm so that earlier entries' offsets
// stay valid as later (higher-offset) entries are applied first. text
// and every entry's [StartNorm, EndNorm) are rune offsets, matching
// scanner.Span's convention.
//
// Apply is idempotent: if an entry's span in text already holds exactly
// Replacement, re-applying the (sorted) plan to that text is a no-op for
// that entry.
func Apply(text string, sorted []Entry) (string, error) {
	runes := []rune(text)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if e.StartNorm < 0 || e.EndNorm > len(runes) || e.StartNorm > e.EndNorm {
			return "", fmt.Errorf("plan: entry span [%d,%d) out of bounds for text of length %d", e.StartNorm, e.EndNorm, len(runes))
		}
		if string(runes[e.StartNorm:e.EndNorm]) == e.Replacement {
			continue
		}
		replacement := []rune(e.Replacement)
		tail := append([]rune{}, runes[e.EndNorm:]...)
		runes = append(runes[:e.StartNorm:e.StartNorm], replacement...)
		runes = append(runes, tail...)
	}
	return string(runes), nil
}

// BuildAndApply is the convenience path most callers want: sort, assert
// non-overlap, then apply in a single pass.
func BuildAndApply(text string, entries []Entry) (string, []Entry, error) {
	sorted, err := Build(entries)
	if err != nil {
		return "", nil, err
	}
	sanitized, err := Apply(text, sorted)
	if err != nil {
		return "", nil, err
	}
	return sanitized, sorted, nil
}

// KnownReplacements returns the set of distinct replacement strings in
// the plan, for the Verifier to filter out of residual detection.
func KnownReplacements(sorted []Entry) map[string]bool {
	known := make(map[string]bool, len(sorted))
	for _, e := range sorted {
		if strings.TrimSpace(e.Replacement) == "" {
			continue
		}
		known[e.Replacement] = true
	}
	return known
}
