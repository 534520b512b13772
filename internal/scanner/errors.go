package scanner

import "fmt"

// DetectorError wraps a failure from an optional capability-bearing
// detector (the NER or coref provider). The pipeline recovers from it
// locally — the provider is skipped for the document and a warning is
// recorded — unless the provider was configured as required, in which
// case the caller escalates it to a fatal pipeline error (spec.md §7).
type DetectorError struct {
	Provider string // "ner" or "coref"
	Err      error
}

func (e *DetectorError) Error() string {
	return fmt.Sprintf("scanner: %s provider failed: %v", e.Provider, e.Err)
}

func (e *DetectorError) Unwrap() error { return e.Err }
