package scanner

import "regexp"

// aliasTriggerPattern matches the legal-alias introduction idioms spec.md
// §4.2 enumerates, plus a parenthesised quoted defined term such as
// (the "Buyer") or ("Morgan"), capturing only the alias term itself —
// either a quoted phrase or a title-cased token run — and, where present,
// the preceding subject name on the same line (recorded as the span's
// alias_subject attribute).
var aliasTriggerPattern = regexp.MustCompile(
	`(?:(?:([A-Z][a-zA-Z.]+(?:[ \t]+[A-Z][a-zA-Z.]+){0,3})[ \t]*\()?` +
		`(?:hereinafter(?:[ \t]+referred[ \t]+to[ \t]+as)?|a/k/a|f/k/a|d/b/a|also[ \t]+known[ \t]+as)` +
		`[ \t]*(?:"([A-Za-z][A-Za-z .\-]*)"|\("([A-Za-z][A-Za-z .\-]*)"\)|([A-Z][a-zA-Z]*(?:[ \t]+[A-Z][a-zA-Z]*){0,3})))` +
		`|(?:(?:([A-Z][a-zA-Z.]+(?:[ \t]+[A-Z][a-zA-Z.]+){0,3})[ \t]*)?\((?:the[ \t]+)?"([A-Za-z][A-Za-z .\-]*)"\))`,
)

// AliasLabel returns the ALIAS_LABEL detector. Because the alias term can
// land in any of several capture groups depending on which idiom matched
// (hereinafter/a-k-a/quoted/bare), detection is done with a dedicated
// post-match pass rather than the single-group WithExtractGroup helper.
func AliasLabel() Detector {
	return func(text string) []Span {
		idx := aliasTriggerPattern.FindAllStringSubmatchIndex(text, -1)
		if idx == nil {
			return nil
		}
		toRune := newByteToRuneIndex(text)
		var spans []Span
		for _, m := range idx {
			// Groups: 1=preceding subject name, 2=quoted alias,
			// 3=paren-quoted alias, 4=bare title-case alias;
			// 5=subject and 6=term of a parenthesised defined term.
			var termStart, termEnd int
			switch {
			case m[4] >= 0:
				termStart, termEnd = m[4], m[5]
			case m[6] >= 0:
				termStart, termEnd = m[6], m[7]
			case m[8] >= 0:
				termStart, termEnd = m[8], m[9]
			case m[12] >= 0:
				termStart, termEnd = m[12], m[13]
			default:
				continue
			}
			attrs := map[string]string{}
			if m[2] >= 0 {
				attrs["alias_subject"] = text[m[2]:m[3]]
			} else if m[10] >= 0 {
				attrs["alias_subject"] = text[m[10]:m[11]]
			}
			spans = append(spans, Span{
				Start:      toRune(termStart),
				End:        toRune(termEnd),
				Label:      LabelAliasLabel,
				Confidence: 0.90,
				Source:     "alias_label",
				Attrs:      attrs,
			})
		}
		return spans
	}
}
