package scanner

import "regexp"

// Detector is the uniform contract every scanner implements: a pure
// function from normalized text to candidate spans. New detectors extend
// this closed variant set; there is no dynamic dispatch.
type Detector func(text string) []Span

// RegexScanner is a single compiled pattern bound to a label, confidence,
// and source name, generalized from the teacher's NewRegexScanner /
// WithValidator / WithExtractGroup idiom (internal/scanner/patterns.go in
// the retrieval pack) to emit Span instead of a flat Entity, and to carry
// a Source name and an attribute extractor.
type RegexScanner struct {
	re               *regexp.Regexp
	label            Label
	confidence       float64
	source           string
	extractGroup     int
	validator        func(string) bool
	contextValidator func(fullText string, start, end int) bool
	attrs            func(match string) map[string]string
	groupAttrs       func(groups []string) map[string]string
}

// Option configures a RegexScanner.
type Option func(*RegexScanner)

// WithExtractGroup selects capture group n (n >= 1) as the span's text
// instead of the whole match; offsets are adjusted to that group's range.
func WithExtractGroup(n int) Option {
	return func(s *RegexScanner) { s.extractGroup = n }
}

// WithValidator rejects a match whose matched text fails f (e.g. a
// checksum).
func WithValidator(f func(string) bool) Option {
	return func(s *RegexScanner) { s.validator = f }
}

// WithContextValidator rejects a match based on the full text and the
// match's rune offsets, for checks that need surrounding context (e.g.
// "is this digit run actually inside an IBAN").
func WithContextValidator(f func(fullText string, start, end int) bool) Option {
	return func(s *RegexScanner) { s.contextValidator = f }
}

// WithAttrs attaches label-specific attributes derived from the matched
// text (e.g. ACCOUNT_ID's subtype).
func WithAttrs(f func(match string) map[string]string) Option {
	return func(s *RegexScanner) { s.attrs = f }
}

// WithGroupAttrs attaches attributes derived from every capture group of
// the match (groups[0] is the whole match, groups[1] the first capture
// group, and so on), for scanners where WithExtractGroup narrows the
// span to a single group but an attribute needs a sibling group (e.g. a
// title that precedes the extracted name).
func WithGroupAttrs(f func(groups []string) map[string]string) Option {
	return func(s *RegexScanner) { s.groupAttrs = f }
}

// NewRegexScanner builds a RegexScanner bound to re, label, confidence and
// a source name (the detector family this scanner belongs to, recorded on
// every emitted Span).
func NewRegexScanner(re *regexp.Regexp, label Label, confidence float64, source string, opts ...Option) *RegexScanner {
	s := &RegexScanner{re: re, label: label, confidence: confidence, source: source, extractGroup: 0}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detect runs the scanner over text, converting byte offsets from the
// underlying regexp engine to rune offsets (Span is defined over rune
// indices so it aligns with preprocess.CharMap and Unicode name matching).
func (s *RegexScanner) Detect(text string) []Span {
	idx := s.re.FindAllStringSubmatchIndex(text, -1)
	if idx == nil {
		return nil
	}
	toRune := newByteToRuneIndex(text)

	var spans []Span
	for _, m := range idx {
		startByte, endByte := m[0], m[1]
		if s.extractGroup > 0 {
			gi := s.extractGroup * 2
			if gi+1 >= len(m) || m[gi] < 0 {
				continue
			}
			startByte, endByte = m[gi], m[gi+1]
		}
		matched := text[startByte:endByte]

		if s.validator != nil && !s.validator(matched) {
			continue
		}
		startRune, endRune := toRune(startByte), toRune(endByte)
		if s.contextValidator != nil && !s.contextValidator(text, startRune, endRune) {
			continue
		}

		var attrs map[string]string
		switch {
		case s.attrs != nil:
			attrs = s.attrs(matched)
		case s.groupAttrs != nil:
			groups := make([]string, len(m)/2)
			for gi := range groups {
				lo, hi := m[2*gi], m[2*gi+1]
				if lo >= 0 && hi >= 0 {
					groups[gi] = text[lo:hi]
				}
			}
			attrs = s.groupAttrs(groups)
		}

		spans = append(spans, Span{
			Start:      startRune,
			End:        endRune,
			Label:      s.label,
			Confidence: s.confidence,
			Source:     s.source,
			Attrs:      attrs,
		})
	}
	return spans
}

// Scanners bundles multiple RegexScanners into a single Detector, as the
// teacher's BuiltinScanners does for its flat Scanner slice.
func Scanners(scanners ...*RegexScanner) Detector {
	return func(text string) []Span {
		var out []Span
		for _, s := range scanners {
			out = append(out, s.Detect(text)...)
		}
		return out
	}
}

// newByteToRuneIndex returns a function mapping a byte offset in text to
// its rune index, in O(1) after an O(n) precompute.
func newByteToRuneIndex(text string) func(byteOffset int) int {
	offsets := make([]int, 0, len(text)+1)
	runeIdx := 0
	for b := range text {
		for len(offsets) <= b {
			offsets = append(offsets, runeIdx)
		}
		runeIdx++
	}
	for len(offsets) <= len(text) {
		offsets = append(offsets, runeIdx)
	}
	return func(byteOffset int) int {
		if byteOffset < 0 {
			return 0
		}
		if byteOffset >= len(offsets) {
			return offsets[len(offsets)-1]
		}
		return offsets[byteOffset]
	}
}
