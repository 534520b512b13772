package verify

import (
	"context"
	"testing"

	"github.com/prismshield/redact/internal/plan"
	"github.com/prismshield/redact/internal/scanner"
)

func TestRunFindsNoResidualOnCleanText(t *testing.T) {
	text := "Someone called about the quarterly report."
	report := Run(context.Background(), text, nil, scanner.Config{}, true)
	if report.HasResidual() {
		t.Fatalf("expected no residuals, got %+v", report.Residuals)
	}
	if report.LeakageScore != 0 {
		t.Errorf("expected zero leakage score, got %d", report.LeakageScore)
	}
}

func TestRunFlagsPlantedResidualEmail(t *testing.T) {
	text := "Contact abcd@evil-leftover.com for details."
	report := Run(context.Background(), text, nil, scanner.Config{}, true)
	if !report.HasResidual() {
		t.Fatal("expected a residual email to be detected")
	}
	if report.CountsByLabel[scanner.LabelEmail] != 1 {
		t.Errorf("expected 1 email residual, got %d", report.CountsByLabel[scanner.LabelEmail])
	}
	if report.LeakageScore != 3 {
		t.Errorf("expected leakage score 3 for an EMAIL residual, got %d", report.LeakageScore)
	}
}

func TestRunFiltersKnownPseudonymMatches(t *testing.T) {
	text := "Contact abcd@example.com for details."
	sorted := []plan.Entry{{Label: scanner.LabelEmail, Replacement: "abcd@example.com"}}
	report := Run(context.Background(), text, sorted, scanner.Config{}, true)
	if report.HasResidual() {
		t.Fatalf("expected the known-pseudonym email to be filtered out, got %+v", report.Residuals)
	}
}

func TestRunLeakageScoreWeightsLabelsDifferently(t *testing.T) {
	text := "Call 415-867-5309 about the account." // PHONE, weight 3
	report := Run(context.Background(), text, nil, scanner.Config{}, true)
	if report.LeakageScore != 3*report.CountsByLabel[scanner.LabelPhone] {
		t.Errorf("expected weighted score for PHONE, got score=%d counts=%+v", report.LeakageScore, report.CountsByLabel)
	}
}

func TestRunProducesSampleContext(t *testing.T) {
	text := "Please reach out to abcd@evil-leftover.com as soon as possible today."
	report := Run(context.Background(), text, nil, scanner.Config{}, true)
	if len(report.Residuals) == 0 {
		t.Fatal("expected at least one residual")
	}
	for _, r := range report.Residuals {
		if r.Context == "" {
			t.Errorf("expected non-empty sample context for residual %+v", r)
		}
	}
}

func TestRunSeedPresentReflectsArgumentNotSecretValue(t *testing.T) {
	report := Run(context.Background(), "no pii here", nil, scanner.Config{}, false)
	if report.SeedPresent {
		t.Error("expected SeedPresent to mirror the passed-in flag")
	}
}
