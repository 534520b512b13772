package merge

import (
	"testing"

	"github.com/prismshield/redact/internal/scanner"
)

func sp(start, end int, label scanner.Label, conf float64, source string, kind string) scanner.Span {
	var attrs map[string]string
	if kind != "" {
		attrs = map[string]string{"line_kind": kind}
	}
	return scanner.Span{Start: start, End: end, Label: label, Confidence: conf, Source: source, Attrs: attrs}
}

func TestAddressBlocksMergesStreetAndCityStateZip(t *testing.T) {
	text := "1600 Pennsylvania Ave NW\nWashington, DC 20500"
	spans := []scanner.Span{
		sp(0, 24, scanner.LabelAddressLine, 0.9, "address_line", "street"),
		sp(25, 46, scanner.LabelAddressLine, 0.9, "address_line", "city_state_zip"),
	}
	out := AddressBlocks(text, spans)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged block, got %d: %+v", len(out), out)
	}
	if out[0].Label != scanner.LabelAddressBlock {
		t.Fatalf("expected ADDRESS_BLOCK, got %+v", out[0])
	}
	if out[0].Start != 0 || out[0].End != 46 {
		t.Errorf("expected block spanning [0,46), got [%d,%d)", out[0].Start, out[0].End)
	}
}

func TestAddressBlocksToleratesOneBlankLine(t *testing.T) {
	text := "123 Main St\n\nSpringfield, IL 62701"
	spans := []scanner.Span{
		sp(0, 11, scanner.LabelAddressLine, 0.9, "address_line", "street"),
		sp(13, 35, scanner.LabelAddressLine, 0.9, "address_line", "city_state_zip"),
	}
	out := AddressBlocks(text, spans)
	if len(out) != 1 || out[0].Label != scanner.LabelAddressBlock {
		t.Fatalf("expected 1 merged block tolerating blank line, got %+v", out)
	}
}

func TestAddressBlocksLeavesNonQualifyingLinesAlone(t *testing.T) {
	text := "PO Box 42"
	spans := []scanner.Span{
		sp(0, 9, scanner.LabelAddressLine, 0.7, "address_line", "street"),
	}
	out := AddressBlocks(text, spans)
	if len(out) != 1 || out[0].Label != scanner.LabelAddressLine {
		t.Fatalf("expected single unpromoted ADDRESS_LINE, got %+v", out)
	}
}

func TestAddressBlocksPassesThroughOtherLabels(t *testing.T) {
	text := "Email jane@acme.com at 123 Main St\nSpringfield, IL 62701"
	spans := []scanner.Span{
		sp(6, 20, scanner.LabelEmail, 0.95, "email", ""),
		sp(24, 35, scanner.LabelAddressLine, 0.9, "address_line", "street"),
		sp(36, 58, scanner.LabelAddressLine, 0.9, "address_line", "city_state_zip"),
	}
	out := AddressBlocks(text, spans)
	var sawEmail, sawBlock bool
	for _, s := range out {
		if s.Label == scanner.LabelEmail {
			sawEmail = true
		}
		if s.Label == scanner.LabelAddressBlock {
			sawBlock = true
		}
	}
	if !sawEmail || !sawBlock {
		t.Fatalf("expected both EMAIL and ADDRESS_BLOCK in output, got %+v", out)
	}
}

func TestResolveNoOverlapKeepsAll(t *testing.T) {
	spans := []scanner.Span{
		sp(0, 5, scanner.LabelEmail, 0.9, "email", ""),
		sp(10, 15, scanner.LabelPhone, 0.9, "phone", ""),
	}
	out := Resolve(spans)
	if len(out) != 2 {
		t.Fatalf("expected 2 non-overlapping spans preserved, got %+v", out)
	}
}

func TestResolveHigherPrecedenceWins(t *testing.T) {
	spans := []scanner.Span{
		sp(0, 20, scanner.LabelAccountID, 0.9, "account_id", ""),
		sp(5, 15, scanner.LabelPerson, 0.9, "person", ""),
	}
	out := Resolve(spans)
	if len(out) != 1 || out[0].Label != scanner.LabelAccountID {
		t.Fatalf("expected ACCOUNT_ID to win over contained PERSON, got %+v", out)
	}
}

func TestResolveIdenticalRangesCollapseToOne(t *testing.T) {
	spans := []scanner.Span{
		sp(0, 10, scanner.LabelEmail, 0.9, "email_v1", ""),
		sp(0, 10, scanner.LabelEmail, 0.95, "email_v2", ""),
	}
	out := Resolve(spans)
	if len(out) != 1 {
		t.Fatalf("expected identical-range duplicate spans to collapse to one entry, got %+v", out)
	}
}

func TestResolveTieBreakByLongerSpan(t *testing.T) {
	spans := []scanner.Span{
		sp(0, 10, scanner.LabelPerson, 0.9, "person_a", ""),
		sp(0, 20, scanner.LabelPerson, 0.9, "person_b", ""),
	}
	out := Resolve(spans)
	if len(out) != 1 || out[0].End != 20 {
		t.Fatalf("expected longer same-tier span to win, got %+v", out)
	}
}

func TestResolveTruncatesPartialOverlapWhenStillValid(t *testing.T) {
	// PHONE [0,20) partially overlaps a lower-precedence DATE_GENERIC
	// [15,30); DATE_GENERIC should be truncated to [20,30), which is
	// still long enough to be a valid DATE_GENERIC remainder.
	spans := []scanner.Span{
		sp(0, 20, scanner.LabelPhone, 0.9, "phone", ""),
		sp(15, 30, scanner.LabelDateGeneric, 0.9, "date", ""),
	}
	out := Resolve(spans)
	if len(out) != 2 {
		t.Fatalf("expected PHONE plus truncated DATE_GENERIC remainder, got %+v", out)
	}
	var date *scanner.Span
	for i := range out {
		if out[i].Label == scanner.LabelDateGeneric {
			date = &out[i]
		}
	}
	if date == nil || date.Start != 20 || date.End != 30 {
		t.Fatalf("expected DATE_GENERIC truncated to [20,30), got %+v", out)
	}
}

func TestResolveDropsPartialOverlapWhenTooShortAfterTruncation(t *testing.T) {
	// ACCOUNT_ID outranks EMAIL. The overlap leaves EMAIL only a 2-rune
	// remainder, below its minimum valid length, so it is dropped
	// rather than kept as a truncated fragment.
	spans := []scanner.Span{
		sp(0, 28, scanner.LabelAccountID, 0.9, "account_id", ""),
		sp(24, 30, scanner.LabelEmail, 0.9, "email", ""),
	}
	out := Resolve(spans)
	if len(out) != 1 || out[0].Label != scanner.LabelAccountID {
		t.Fatalf("expected short remainder to be dropped, got %+v", out)
	}
}

func TestResolveOutputIsNonOverlapping(t *testing.T) {
	spans := []scanner.Span{
		sp(0, 30, scanner.LabelAddressBlock, 0.95, "address_merger", ""),
		sp(5, 10, scanner.LabelPerson, 0.9, "person", ""),
		sp(20, 40, scanner.LabelDateGeneric, 0.8, "date", ""),
		sp(50, 60, scanner.LabelEmail, 0.9, "email", ""),
	}
	out := Resolve(spans)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if overlaps(out[i], out[j]) {
				t.Fatalf("Resolve produced overlapping spans: %+v and %+v", out[i], out[j])
			}
		}
	}
}

func TestResolveIsPureFunctionOfInputOrder(t *testing.T) {
	a := []scanner.Span{
		sp(0, 20, scanner.LabelAccountID, 0.9, "account_id", ""),
		sp(5, 15, scanner.LabelPerson, 0.9, "person", ""),
		sp(30, 40, scanner.LabelEmail, 0.9, "email", ""),
	}
	b := []scanner.Span{a[2], a[0], a[1]}

	outA := Resolve(a)
	outB := Resolve(b)
	if len(outA) != len(outB) {
		t.Fatalf("Resolve not order-independent: %d vs %d spans", len(outA), len(outB))
	}
	for i := range outA {
		if outA[i].Start != outB[i].Start || outA[i].End != outB[i].End || outA[i].Label != outB[i].Label {
			t.Fatalf("Resolve not order-independent at %d: %+v vs %+v", i, outA[i], outB[i])
		}
	}
}
