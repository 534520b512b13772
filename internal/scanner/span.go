// Package scanner implements the detector layer: independent, pure
// scanners over normalized text that each emit candidate Spans. Overlaps
// across detectors and across labels are expected and are resolved later
// by internal/merge, not here.
package scanner

// Label is the closed PII category taxonomy.
type Label string

const (
	LabelEmail        Label = "EMAIL"
	LabelPhone        Label = "PHONE"
	LabelAccountID    Label = "ACCOUNT_ID"
	LabelBankOrg      Label = "BANK_ORG"
	LabelGenericOrg   Label = "GENERIC_ORG"
	LabelPerson       Label = "PERSON"
	LabelAddressLine  Label = "ADDRESS_LINE"
	LabelAddressBlock Label = "ADDRESS_BLOCK"
	LabelDateGeneric  Label = "DATE_GENERIC"
	LabelDOB          Label = "DOB"
	LabelAliasLabel   Label = "ALIAS_LABEL"
	LabelLocation     Label = "LOCATION"

	// LabelSecret is not part of the PII taxonomy proper (spec.md's
	// closed label set). Only the standalone Secret detector emits it;
	// no pipeline stage, the verifier included, runs that detector.
	LabelSecret Label = "SECRET"
)

// Span is a half-open character range [Start, End) over normalized text,
// labeled by a detector.
type Span struct {
	Start      int
	End        int
	Label      Label
	Confidence float64
	Source     string
	Attrs      map[string]string
}

// Text returns the substring of text covered by the span.
func (s Span) Text(text string) string {
	r := []rune(text)
	if s.Start < 0 || s.End > len(r) || s.Start > s.End {
		return ""
	}
	return string(r[s.Start:s.End])
}

// Attr returns attribute key, or "" if unset.
func (s Span) Attr(key string) string {
	if s.Attrs == nil {
		return ""
	}
	return s.Attrs[key]
}

// WithAttr returns a copy of s with key=value set.
func (s Span) WithAttr(key, value string) Span {
	attrs := make(map[string]string, len(s.Attrs)+1)
	for k, v := range s.Attrs {
		attrs[k] = v
	}
	attrs[key] = value
	s.Attrs = attrs
	return s
}

// Len returns the span's rune length.
func (s Span) Len() int { return s.End - s.Start }
