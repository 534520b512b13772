// Package audit renders the pipeline's plan, audit, and verification
// records into the JSON shapes external collaborators consume (spec.md
// §6). Audit records carry original PII and must be treated by callers
// as sensitive; Verification and Plan records do not.
package audit

import (
	"github.com/prismshield/redact/internal/plan"
	"github.com/prismshield/redact/internal/preprocess"
	"github.com/prismshield/redact/internal/verify"
)

// Record is one audit entry, the sensitive per-replacement record that
// pairs original and replacement text with its provenance.
type Record struct {
	Label       string  `json:"label"`
	Original    string  `json:"original"`
	Replacement string  `json:"replacement"`
	StartOrig   int     `json:"start_orig"`
	EndOrig     int     `json:"end_orig"`
	StartNorm   int     `json:"start_norm"`
	EndNorm     int     `json:"end_norm"`
	ClusterID   int     `json:"cluster_id"`
	Confidence  float64 `json:"confidence"`
	Detector    string  `json:"detector"`
	Retries     int     `json:"retries"`
	Reason      string  `json:"reason,omitempty"`
}

// Warning is a non-fatal, pipeline-level event the caller should surface
// to an operator even though the run completed (e.g. an optional
// detector provider was configured but unusable for this document).
type Warning struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// Bundle is the full audit file for one document.
type Bundle struct {
	Records  []Record  `json:"records"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// BuildBundle renders a sorted plan into its sensitive Audit JSON form.
func BuildBundle(sorted []plan.Entry, cm preprocess.CharMap) Bundle {
	records := make([]Record, 0, len(sorted))
	for _, e := range sorted {
		records = append(records, Record{
			Label:       string(e.Label),
			Original:    e.Original,
			Replacement: e.Replacement,
			StartOrig:   e.StartOrig(cm),
			EndOrig:     e.EndOrig(cm),
			StartNorm:   e.StartNorm,
			EndNorm:     e.EndNorm,
			ClusterID:   e.ClusterID,
			Confidence:  e.Confidence,
			Detector:    e.Detector,
			Retries:     e.Retries,
			Reason:      e.Reason,
		})
	}
	return Bundle{Records: records}
}

// PlanRecord is the minimal, non-sensitive form of one plan entry:
// enough to reconstruct what changed and where, without original text or
// sample context.
type PlanRecord struct {
	Label     string `json:"label"`
	StartNorm int    `json:"start_norm"`
	EndNorm   int    `json:"end_norm"`
	ClusterID int    `json:"cluster_id"`
}

// PlanBundle is the Plan JSON file.
type PlanBundle struct {
	Entries []PlanRecord `json:"entries"`
}

// BuildPlanBundle renders a sorted plan into its minimal, non-sensitive
// form.
func BuildPlanBundle(sorted []plan.Entry) PlanBundle {
	entries := make([]PlanRecord, 0, len(sorted))
	for _, e := range sorted {
		entries = append(entries, PlanRecord{
			Label:     string(e.Label),
			StartNorm: e.StartNorm,
			EndNorm:   e.EndNorm,
			ClusterID: e.ClusterID,
		})
	}
	return PlanBundle{Entries: entries}
}

// ResidualRecord is one entry in the Verification JSON's residuals list.
type ResidualRecord struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
	Context string `json:"context"`
}

// VerificationBundle is the Verification JSON file. It never contains
// the secret value, only SeedPresent.
type VerificationBundle struct {
	CountsByLabel map[string]int   `json:"counts_by_label"`
	LeakageScore  int              `json:"leakage_score"`
	Residuals     []ResidualRecord `json:"residuals"`
	SeedPresent   bool             `json:"seed_present"`
}

// BuildVerificationBundle renders a verify.Report into its JSON form.
func BuildVerificationBundle(r verify.Report) VerificationBundle {
	counts := make(map[string]int, len(r.CountsByLabel))
	for label, n := range r.CountsByLabel {
		counts[string(label)] = n
	}
	residuals := make([]ResidualRecord, 0, len(r.Residuals))
	for _, res := range r.Residuals {
		residuals = append(residuals, ResidualRecord{
			Label:   string(res.Label),
			Text:    res.Text,
			Start:   res.Start,
			End:     res.End,
			Context: res.Context,
		})
	}
	return VerificationBundle{
		CountsByLabel: counts,
		LeakageScore:  r.LeakageScore,
		Residuals:     residuals,
		SeedPresent:   r.SeedPresent,
	}
}
