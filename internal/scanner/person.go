package scanner

import (
	"regexp"
	"strings"
)

// nameComponent is a Unicode-aware capitalized name token, generalized
// from the teacher's own nameComponent/namePattern (patterns.go personScanners)
// to the Latin diacritic set relevant to legal/correspondence English text.
const nameComponent = `[A-ZÀÁÂÃÄÅÆÇÈÉÊËÌÍÎÏÐÑÒÓÔÕÖØÙÚÛÜÝÞ][a-zàáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ]+`

var namePattern = nameComponent + `(?:-` + nameComponent + `)?`
var fullNamePattern = namePattern + `(?:[ \t]+` + namePattern + `){1,3}`

// personTriggers are title/role words whose presence immediately before a
// capitalized name run marks it as a PERSON mention with high confidence,
// mirroring the teacher's trigger-word list (English subset; the
// teacher's DACH/FR/IT/ES/NL variants are dropped as out of scope for an
// English-correspondence deployment, see DESIGN.md).
var personTriggers = []string{
	`Mr\.?`, `Mrs\.?`, `Ms\.?`, `Dr\.?`, `Prof\.?`,
	`Attn\.?`, `Attention`,
}

var personTitlePattern = regexp.MustCompile(
	`(` + strings.Join(personTriggers, `|`) + `)[ \t]+(` + fullNamePattern + `)`,
)

// personTitleAttrs records the honorific that triggered the match as the
// span's "title" attribute (normalized: lowercased, trailing "." dropped),
// so a surname-sharing linker key can still tell "Dr. Smith" apart from
// "Mr. Smith" (spec.md §4.4 point 2, "unless titles disambiguate").
// group[1] is the title capture, group[2] the extracted name.
func personTitleAttrs(groups []string) map[string]string {
	if len(groups) < 2 || groups[1] == "" {
		return nil
	}
	return map[string]string{"title": normalizeTitle(groups[1])}
}

func normalizeTitle(raw string) string {
	return strings.ToLower(strings.TrimSuffix(raw, "."))
}

// personVerbPattern matches verb-triggered mentions: "told/asked/called
// Jane Doe", generalized from the teacher's verb-trigger idiom.
var personVerbPattern = regexp.MustCompile(
	`(?i:told|asked|called|emailed|contacted|met|visited|informed|notified)[ \t]+(` + fullNamePattern + `)`,
)

// personBillingPattern matches billing/shipping address blocks' named
// recipient line, generalized from the teacher's billingPattern.
var personBillingPattern = regexp.MustCompile(
	`(?i:Bill\s+to|Billed\s+to|Invoice\s+to|Sold\s+to|Ship\s+to|Deliver\s+to)[ \t:]+(` + fullNamePattern + `)`,
)

// personBarePattern is a lower-confidence fallback matching any bare
// 2-4 token capitalized run, eligible for clustering only when its score
// meets the person-name heuristic threshold recorded in DESIGN.md (≥0.60).
var personBarePattern = regexp.MustCompile(`\b(` + fullNamePattern + `)\b`)

// Person returns the PERSON detector.
func Person() Detector {
	return Scanners(
		NewRegexScanner(personTitlePattern, LabelPerson, 0.95, "person.title", WithExtractGroup(2), WithGroupAttrs(personTitleAttrs)),
		NewRegexScanner(personVerbPattern, LabelPerson, 0.85, "person.verb", WithExtractGroup(1)),
		NewRegexScanner(personBillingPattern, LabelPerson, 0.90, "person.billing", WithExtractGroup(1)),
		NewRegexScanner(personBarePattern, LabelPerson, 0.60, "person.bare", WithExtractGroup(1)),
	)
}
