package scanner

import (
	"context"
	"sort"
)

// Config controls which detectors run. NER is a capability-bearing
// optional provider per SPEC_FULL.md §4.2 / §9 — the pipeline must
// function correctly when it is nil.
type Config struct {
	NER NERProvider
}

// NERProvider is the optional ML named-entity-recognition provider
// contract. Detect must only ever be called after a successful Probe.
type NERProvider interface {
	Probe(ctx context.Context) (bool, error)
	Detect(ctx context.Context, text string) ([]Span, error)
}

// builtinDetectors are the closed set of pattern-based detectors that
// always run, independent of any optional ML provider, per spec.md's
// requirement that "the core must function correctly when the ML
// providers are absent".
func builtinDetectors() []Detector {
	return []Detector{
		Email(),
		Phone(),
		AccountID(),
		BankOrg(),
		AddressLine(),
		Date(),
		AliasLabel(),
		Location(),
		Person(),
	}
}

// Run executes every built-in detector plus, when cfg.NER is present and
// probes successfully, the optional NER provider, merges results in
// deterministic (start, end, label) order (so that running detectors in
// parallel — which Run does not itself do, but callers processing
// disjoint chunks may — never affects output order), and applies the DOB
// upgrade pass over the combined DATE_GENERIC spans.
func Run(ctx context.Context, text string, cfg Config) []Span {
	var spans []Span
	for _, d := range builtinDetectors() {
		spans = append(spans, d(text)...)
	}

	if cfg.NER != nil {
		if ok, err := cfg.NER.Probe(ctx); ok && err == nil {
			if nerSpans, err := cfg.NER.Detect(ctx, text); err == nil {
				spans = append(spans, nerSpans...)
			}
		}
	}

	spans = UpgradeDOB(text, spans)
	sortSpans(spans)
	return spans
}

// sortSpans orders spans by (start, end, label) so detector output is
// deterministic regardless of detector execution order, per spec.md §5.
func sortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		return a.Label < b.Label
	})
}
