// Package auditlog provides the structured, non-PII operational logger
// for the redaction pipeline. It never receives original or replacement
// PII values — only counts, labels, and durations — so its output can be
// shipped off-box without the sensitivity Audit JSON carries.
package auditlog

import (
	"github.com/cybergodev/dd"
)

// Logger wraps a dd logger scoped to one redaction run.
type Logger struct {
	l *dd.Logger
}

// New builds a JSON-formatted operational logger writing to path. An
// empty path logs to stdout only.
func New(path string) (*Logger, error) {
	cfg := dd.JSONConfig()
	if path != "" {
		var err error
		cfg, err = cfg.WithFileOnly(path, dd.FileWriterConfig{})
		if err != nil {
			return nil, err
		}
	}
	l, err := dd.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Logger{l: l}, nil
}

// Close releases the underlying writer(s).
func (lg *Logger) Close() error {
	return lg.l.Close()
}

// PipelineStarted logs the start of a redaction run.
func (lg *Logger) PipelineStarted(docLen int, crossDoc bool) {
	lg.l.InfoWith("redaction pipeline started",
		dd.Int("document_runes", docLen),
		dd.Bool("cross_doc_consistency", crossDoc),
	)
}

// DetectorsCompleted logs detector-stage span counts by label, never the
// matched text itself.
func (lg *Logger) DetectorsCompleted(countsByLabel map[string]int) {
	lg.l.InfoWith("detectors completed",
		dd.Any("counts_by_label", countsByLabel),
	)
}

// SafetyRetried logs a regeneration event: label, subtype, and how many
// retries it took, never the candidate value.
func (lg *Logger) SafetyRetried(label, subtype string, retries int, unsafe bool) {
	lg.l.WarnWith("safety guard regenerated a candidate",
		dd.String("label", label),
		dd.String("subtype", subtype),
		dd.Int("retries", retries),
		dd.Bool("unsafe_fallback", unsafe),
	)
}

// VerificationCompleted logs the verifier's summary counts and score.
func (lg *Logger) VerificationCompleted(leakageScore int, residualCount int) {
	lg.l.InfoWith("verification completed",
		dd.Int("leakage_score", leakageScore),
		dd.Int("residual_count", residualCount),
	)
}

// Failed logs a fatal pipeline error with its stage name.
func (lg *Logger) Failed(stage string, err error) {
	lg.l.ErrorWith("pipeline failed",
		dd.String("stage", stage),
		dd.Err(err),
	)
}
