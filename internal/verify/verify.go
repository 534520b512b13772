// Package verify re-runs detection against sanitized text and scores
// whatever PII survives (spec.md §4.9).
package verify

import (
	"context"
	"fmt"

	"github.com/prismshield/redact/internal/plan"
	"github.com/prismshield/redact/internal/scanner"
)

// labelWeight is the leakage-score weight for a residual of that label;
// unlisted labels default to 1.
var labelWeight = map[scanner.Label]int{
	scanner.LabelEmail:        3,
	scanner.LabelPhone:        3,
	scanner.LabelAccountID:    3,
	scanner.LabelDOB:          3,
	scanner.LabelPerson:       2,
	scanner.LabelAddressBlock: 2,
}

func weightOf(l scanner.Label) int {
	if w, ok := labelWeight[l]; ok {
		return w
	}
	return 1
}

// Residual is one PII-shaped span the verifier found in sanitized text
// that does not correspond to a known-generated pseudonym.
type Residual struct {
	Label   scanner.Label
	Text    string
	Start   int
	End     int
	Context string
}

// Report is the verifier's full finding for one document.
type Report struct {
	CountsByLabel map[scanner.Label]int
	LeakageScore  int
	Residuals     []Residual
	SeedPresent   bool
}

// contextRadius is how many runes of surrounding text a residual's
// sample context includes on each side.
const contextRadius = 40

// Run re-detects PII in sanitized using the same detector configuration
// the redaction pass used, discards any span whose exact text matches a
// replacement tracked in sorted (the applied plan), and scores what
// remains. seedPresent reports only whether a secret was configured, per
// spec.md §6 — the secret value itself must never appear in the report.
func Run(ctx context.Context, sanitized string, sorted []plan.Entry, cfg scanner.Config, seedPresent bool) Report {
	known := plan.KnownReplacements(sorted)
	spans := scanner.Run(ctx, sanitized, cfg)

	report := Report{
		CountsByLabel: make(map[scanner.Label]int),
		SeedPresent:   seedPresent,
	}

	runes := []rune(sanitized)
	for _, s := range spans {
		text := s.Text(sanitized)
		if known[text] {
			continue
		}
		report.CountsByLabel[s.Label]++
		report.LeakageScore += weightOf(s.Label)
		report.Residuals = append(report.Residuals, Residual{
			Label:   s.Label,
			Text:    text,
			Start:   s.Start,
			End:     s.End,
			Context: sampleContext(runes, s.Start, s.End),
		})
	}
	return report
}

// HasResidual reports whether any PII survived — the trigger condition
// for strict mode's exit-code-6 failure.
func (r Report) HasResidual() bool {
	return len(r.Residuals) > 0
}

// Error reports a strict-mode verification failure: residuals remain in
// sanitized output after redaction (spec.md §7 VerificationFailure).
type Error struct {
	Report Report
}

func (e *Error) Error() string {
	return fmt.Sprintf("verify: %d residual span(s) remain (leakage_score=%d)",
		len(e.Report.Residuals), e.Report.LeakageScore)
}

// ExitCode maps a strict-mode VerificationFailure to the CLI boundary's
// exit code.
func (e *Error) ExitCode() int { return 6 }

func sampleContext(runes []rune, start, end int) string {
	lo := start - contextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + contextRadius
	if hi > len(runes) {
		hi = len(runes)
	}
	return string(runes[lo:hi])
}
