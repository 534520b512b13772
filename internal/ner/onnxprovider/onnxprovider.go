// Package onnxprovider wraps an ONNX token-classification model as the
// pipeline's optional NER provider (scanner.NERProvider), generalized
// from the teacher go.mod's onnxruntime_go dependency. It runs a
// word-level BIO tagger: each whitespace-delimited token is mapped to an
// input id through the caller-supplied Vocab, classified, and
// contiguous same-entity tags are merged back into character spans.
package onnxprovider

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/prismshield/redact/internal/ner"
	"github.com/prismshield/redact/internal/scanner"
)

// maxTokens bounds a single inference call; longer documents are
// windowed by Detect, the same way the scanner package's own parallel
// chunking splits rule-based detection.
const maxTokens = 256

var tokenPattern = regexp.MustCompile(`\S+`)

// Vocab maps a lowercased token to the model's input vocabulary index.
// Tokens absent from Vocab map to the reserved unknown index 1.
type Vocab map[string]int64

const unknownTokenID int64 = 1
const padTokenID int64 = 0

func (v Vocab) lookup(tok string) int64 {
	if id, ok := v[strings.ToLower(tok)]; ok {
		return id
	}
	return unknownTokenID
}

// token is one whitespace-delimited run in the original text, with its
// rune-offset span.
type token struct {
	start, end int
	text       string
}

// Provider wraps one loaded ONNX session as a scanner.NERProvider.
type Provider struct {
	modelPath string
	vocab     Vocab
	tagNames  []string // index -> native tag ("O", "B-PER", "I-PER", ...)

	mu     sync.Mutex
	probed bool
	ok     bool
}

// New builds a Provider bound to an ONNX model on disk. Opening the
// session is deferred to the first Probe so that constructing a Provider
// never fails solely because the runtime library or model file is
// absent — Probe reports that instead, letting the core degrade to
// pattern-only detection per spec.md §1.
func New(modelPath string, vocab Vocab, tagNames []string) *Provider {
	return &Provider{modelPath: modelPath, vocab: vocab, tagNames: tagNames}
}

// Probe initializes the ONNX runtime environment (once, process-wide)
// and does a throwaway session open to confirm the model loads. It
// returns (false, nil) — not an error — when the runtime or model isn't
// available, since that is an expected deployment configuration rather
// than a failure.
func (p *Provider) Probe(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.probed {
		return p.ok, nil
	}
	p.probed = true

	if p.modelPath == "" {
		return false, nil
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return false, nil
		}
	}

	session, inputTensor, outputTensor, err := p.newSession()
	if err != nil {
		return false, nil
	}
	inputTensor.Destroy()
	outputTensor.Destroy()
	session.Destroy()

	p.ok = true
	return true, nil
}

// newSession opens a fresh AdvancedSession bound to a maxTokens-wide
// input/output tensor pair. onnxruntime_go sessions are bound to fixed
// tensor shapes at construction, so each inference window gets its own
// session rather than reusing one across calls.
func (p *Provider) newSession() (*ort.AdvancedSession, *ort.Tensor[int64], *ort.Tensor[float32], error) {
	inputTensor, err := ort.NewEmptyTensor[int64](ort.NewShape(1, maxTokens))
	if err != nil {
		return nil, nil, nil, err
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, maxTokens, int64(len(p.tagNames))))
	if err != nil {
		inputTensor.Destroy()
		return nil, nil, nil, err
	}
	session, err := ort.NewAdvancedSession(p.modelPath,
		[]string{"input_ids"}, []string{"logits"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, nil, nil, err
	}
	return session, inputTensor, outputTensor, nil
}

// Detect tokenizes text on whitespace, runs the BIO tagger in
// maxTokens-sized windows, and merges contiguous B-/I- runs of the same
// entity type into a single Span covering the original token range.
func (p *Provider) Detect(ctx context.Context, text string) ([]scanner.Span, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ok {
		return nil, fmt.Errorf("onnxprovider: Detect called before a successful Probe")
	}

	var tokens []token
	runePos, bytePos := 0, 0
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		runePos += utf8.RuneCountInString(text[bytePos:loc[0]])
		start := runePos
		runePos += utf8.RuneCountInString(text[loc[0]:loc[1]])
		tokens = append(tokens, token{start: start, end: runePos, text: text[loc[0]:loc[1]]})
		bytePos = loc[1]
	}

	var spans []scanner.Span
	for base := 0; base < len(tokens); base += maxTokens {
		window := tokens[base:min(base+maxTokens, len(tokens))]

		session, inputTensor, outputTensor, err := p.newSession()
		if err != nil {
			return nil, err
		}

		ids := inputTensor.GetData()
		for i := range ids {
			ids[i] = padTokenID
		}
		for i, tok := range window {
			ids[i] = p.vocab.lookup(tok.text)
		}

		runErr := session.Run()
		logits := append([]float32{}, outputTensor.GetData()...)
		inputTensor.Destroy()
		outputTensor.Destroy()
		session.Destroy()
		if runErr != nil {
			return nil, runErr
		}

		tags := decodeTags(logits, len(window), len(p.tagNames), p.tagNames)
		spans = append(spans, mergeEntitySpans(window, tags)...)
	}

	return spans, nil
}

func decodeTags(logits []float32, numTokens, numTags int, tagNames []string) []string {
	tags := make([]string, numTokens)
	for i := 0; i < numTokens; i++ {
		best, bestScore := 0, logits[i*numTags]
		for t := 1; t < numTags; t++ {
			if score := logits[i*numTags+t]; score > bestScore {
				best, bestScore = t, score
			}
		}
		tags[i] = tagNames[best]
	}
	return tags
}

// mergeEntitySpans walks a window's per-token BIO tags and coalesces
// contiguous B-X followed by I-X tags into one Span per entity run.
func mergeEntitySpans(window []token, tags []string) []scanner.Span {
	var spans []scanner.Span
	var runStart, runEnd int
	var runTag string

	flush := func() {
		if runTag == "" {
			return
		}
		label, ok := ner.TagToLabel[runTag]
		if !ok {
			return
		}
		spans = append(spans, scanner.Span{
			Start:      runStart,
			End:        runEnd,
			Label:      label,
			Confidence: ner.MinConfidence + 0.3,
			Source:     "ner.onnx",
		})
	}

	for i, tag := range tags {
		if bare, isBegin := strings.CutPrefix(tag, "B-"); isBegin {
			flush()
			runTag, runStart, runEnd = bare, window[i].start, window[i].end
			continue
		}
		if inside, isInside := strings.CutPrefix(tag, "I-"); isInside && inside == runTag {
			runEnd = window[i].end
			continue
		}
		flush()
		runTag = ""
	}
	flush()
	return spans
}

