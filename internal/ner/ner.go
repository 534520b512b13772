// Package ner defines the shared vocabulary between the core pipeline
// and its optional machine-learning named-entity-recognition providers.
// The core only ever depends on scanner.NERProvider's Probe/Detect
// contract; this package exists so concrete providers (onnxprovider and
// any future backend) share one mapping from a model's native output
// labels to the closed PII taxonomy.
package ner

import "github.com/prismshield/redact/internal/scanner"

// TagToLabel maps a token-classification model's native entity tags
// (the common CoNLL-style set) to the taxonomy labels the core
// understands. Tags the model emits that have no mapping here (e.g. a
// MISC tag) are dropped rather than guessed at.
var TagToLabel = map[string]scanner.Label{
	"PER":    scanner.LabelPerson,
	"PERSON": scanner.LabelPerson,
	"ORG":    scanner.LabelGenericOrg,
	"LOC":    scanner.LabelLocation,
	"GPE":    scanner.LabelLocation,
}

// MinConfidence is the NER confidence floor; onnxprovider reports every
// span at MinConfidence + 0.3. No pipeline stage filters NER spans by
// confidence: scanner.Run keeps every span a provider returns.
const MinConfidence = 0.55
