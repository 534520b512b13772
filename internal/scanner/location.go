package scanner

import "regexp"

// cityStatePattern catches a bare "City, ST" or "City, State" mention that
// doesn't carry a ZIP and so isn't a full address line — e.g. "our office
// in Austin, Texas" — supplementing spec.md's address/PERSON/ORG set with
// the LOCATION label spec.md's taxonomy already reserves but whose
// detector spec.md's distillation omitted (see SPEC_FULL.md §4.2).
var cityStatePattern = regexp.MustCompile(
	`\b[A-Z][a-zA-Z]+(?:[ \t]+[A-Z][a-zA-Z]+)*,[ \t]+(?:` + usStateAbbr + `|[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*)\b`,
)

// countryPattern recognizes a small fixed list of country names, which in
// legal correspondence most often appear in a signature block or venue
// clause rather than as part of a postal address.
var countryPattern = regexp.MustCompile(
	`\b(?:United States|United Kingdom|Germany|Austria|Switzerland|France|Italy|Spain|Netherlands|Canada|Ireland)\b`,
)

// Location returns the LOCATION detector.
func Location() Detector {
	return Scanners(
		NewRegexScanner(cityStatePattern, LabelLocation, 0.70, "location.city_state"),
		NewRegexScanner(countryPattern, LabelLocation, 0.60, "location.country"),
	)
}
