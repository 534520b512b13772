// Package coref defines the optional coreference-chain provider
// interface the linker can ingest to merge chains with its own
// surname/head-noun and alias-based clustering. No model-backed
// implementation ships in this module; NoOp satisfies the interface
// for the common case where no coref model is configured.
package coref

import "context"

// Mention is a single coreference mention, given as a rune offset
// range over the same normalized text the scanner operates on.
type Mention struct {
	Start int
	End   int
}

// Chain is a set of mentions a coref model believes refer to the same
// entity.
type Chain struct {
	Mentions []Mention
}

// Provider is the capability-gated interface a coref backend
// implements. Probe reports whether the provider is usable in the
// current environment (e.g. a model file is configured and loads
// successfully); Chains returns its coreference chains over text.
type Provider interface {
	Probe(ctx context.Context) (bool, error)
	Chains(ctx context.Context, text string) ([]Chain, error)
}

// NoOp is a Provider that is never usable. It is the default when no
// coref backend is configured, so the linker falls back entirely to
// its own surname/head-noun and alias-term clustering.
type NoOp struct{}

func (NoOp) Probe(ctx context.Context) (bool, error) { return false, nil }

func (NoOp) Chains(ctx context.Context, text string) ([]Chain, error) {
	return nil, nil
}
