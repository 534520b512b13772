package scanner

import (
	"context"
	"fmt"
	"testing"
)

// Adapted from the teacher's own adversarial suite
// (other_examples/3b84aecf_svenplb-aegis-core__internal-scanner-adversarial_test.go.go),
// generalized from a flat Entity/Scan API to Span/Run.

const (
	testEmail      = "test@example.com"
	testIBANSpaced = "DE89 3704 0044 0532 0130 00"
	testCreditCard = "4111 1111 1111 1111"
)

func hasLabel(spans []Span, label Label) bool {
	for _, s := range spans {
		if s.Label == label {
			return true
		}
	}
	return false
}

func run(t *testing.T, text string) []Span {
	t.Helper()
	return Run(context.Background(), text, Config{})
}

func TestAdversarial_PIIAtBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType Label
	}{
		{"email at start", testEmail + " is my address", LabelEmail},
		{"email at end", "Contact " + testEmail, LabelEmail},
		{"email is entire text", testEmail, LabelEmail},
		{"iban at end", "Transfer to " + testIBANSpaced, LabelAccountID},
		{"credit card at start", testCreditCard + " was charged.", LabelAccountID},
		{"credit card at end", "Card number: " + testCreditCard, LabelAccountID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := run(t, tc.input)
			if !hasLabel(spans, tc.wantType) {
				t.Errorf("expected %s in %q, got: %+v", tc.wantType, tc.input, spans)
			}
			runes := []rune(tc.input)
			for _, s := range spans {
				if s.Start < 0 || s.End > len(runes) || s.Start > s.End {
					t.Errorf("span %+v has invalid offsets for input len %d", s, len(runes))
				}
			}
		})
	}
}

func TestAdversarial_ConsecutivePII(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTypes []Label
	}{
		{"two emails with space", "test@example.com user@domain.org", []Label{LabelEmail}},
		{"email then card", "test@example.com " + testCreditCard, []Label{LabelEmail, LabelAccountID}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := run(t, tc.input)
			for _, wt := range tc.wantTypes {
				if !hasLabel(spans, wt) {
					t.Errorf("expected %s in %q, got: %+v", wt, tc.input, spans)
				}
			}
		})
	}
}

func TestAdversarial_PIIInBrackets(t *testing.T) {
	brackets := []struct{ left, right string }{
		{"(", ")"}, {"[", "]"}, {"\"", "\""},
	}
	samples := []struct {
		value    string
		wantType Label
	}{
		{testEmail, LabelEmail},
		{testCreditCard, LabelAccountID},
	}
	for _, br := range brackets {
		for _, s := range samples {
			name := fmt.Sprintf("%s in %q/%q", s.wantType, br.left, br.right)
			t.Run(name, func(t *testing.T) {
				input := "Here is " + br.left + s.value + br.right + " for you."
				spans := run(t, input)
				if !hasLabel(spans, s.wantType) {
					t.Errorf("expected %s in %q, got: %+v", s.wantType, input, spans)
				}
			})
		}
	}
}

func TestAdversarial_EmptyAndWhitespaceInput(t *testing.T) {
	if spans := run(t, ""); spans != nil {
		t.Errorf("expected nil spans for empty input, got %+v", spans)
	}
	if spans := run(t, "   \n\t  "); spans != nil {
		t.Errorf("expected nil spans for whitespace-only input, got %+v", spans)
	}
}

func TestAdversarial_BareEmailYieldsOneEmailSpan(t *testing.T) {
	// Only one built-in detector emits EMAIL, so a bare email yields
	// exactly one EMAIL span. Run itself does not dedupe spans that
	// different detectors report over the same range; internal/merge does.
	spans := run(t, testEmail)
	count := 0
	for _, s := range spans {
		if s.Label == LabelEmail {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one EMAIL scanner to match a bare email, got %d", count)
	}
}
