package scanner

import "regexp"

// Street/unit/city-state-ZIP/PO-Box grammar for US postal conventions, per
// spec.md §4.2, generalized from the teacher's own multi-region address
// patterns (internal/scanner/patterns.go addressScanners) down to the US
// subset spec.md calls for; each matching line is emitted as ADDRESS_LINE
// on its own, later promoted to ADDRESS_BLOCK by internal/merge.
var (
	usStreetType = `(?:Ave(?:nue)?|Blvd|Boulevard|Cir(?:cle)?|Ct|Court|Dr(?:ive)?|Expy|Expressway|Hwy|Highway|Ln|Lane|Pkwy|Parkway|Pl(?:ace)?|Rd|Road|St(?:reet)?|Ter(?:r(?:ace)?)?|Trl|Trail|Way)\.?`
	usDir        = `(?:[NESW]\.?|NE|NW|SE|SW)`

	usStreetPattern = regexp.MustCompile(
		`(?m)^\d{1,5}[ \t]+(?:` + usDir + `[ \t]+)?[A-Z][a-zA-Z]*(?:[ \t]+[A-Z][a-zA-Z]*)*[ \t]+` + usStreetType +
			`(?:[ \t]+` + usDir + `)?(?:[ \t]+(?:#|Apt\.?|Suite|Ste\.?|Unit|Fl\.?)[ \t]*[A-Za-z0-9]+)?[ \t]*$`,
	)

	usStateAbbr = `(?:AL|AK|AZ|AR|CA|CO|CT|DE|FL|GA|HI|ID|IL|IN|IA|KS|KY|LA|ME|MD|MA|MI|MN|MS|MO|MT|NE|NV|NH|NJ|NM|NY|NC|ND|OH|OK|OR|PA|RI|SC|SD|TN|TX|UT|VT|VA|WA|WV|WI|WY|DC)`

	usCityStateZipPattern = regexp.MustCompile(
		`(?m)^[A-Z][a-zA-Z]*(?:[ \t]+[A-Z][a-zA-Z]*)*,[ \t]+` + usStateAbbr + `[ \t]+\d{5}(?:-\d{4})?[ \t]*$`,
	)

	poBoxPattern = regexp.MustCompile(`(?m)^P\.?O\.?[ \t]*Box[ \t]+\d+[ \t]*$`)

	unitLinePattern = regexp.MustCompile(`(?m)^(?:#|Apt\.?|Suite|Ste\.?|Unit|Fl\.?)[ \t]*[A-Za-z0-9]+[ \t]*$`)
)

// AddressLine returns the ADDRESS_LINE detector.
func AddressLine() Detector {
	return Scanners(
		NewRegexScanner(usStreetPattern, LabelAddressLine, 0.85, "address_line.street",
			WithAttrs(func(string) map[string]string { return map[string]string{"line_kind": "street"} })),
		NewRegexScanner(usCityStateZipPattern, LabelAddressLine, 0.90, "address_line.city_state_zip",
			WithAttrs(func(string) map[string]string { return map[string]string{"line_kind": "city_state_zip"} })),
		NewRegexScanner(poBoxPattern, LabelAddressLine, 0.90, "address_line.po_box",
			WithAttrs(func(string) map[string]string { return map[string]string{"line_kind": "po_box"} })),
		NewRegexScanner(unitLinePattern, LabelAddressLine, 0.60, "address_line.unit",
			WithAttrs(func(string) map[string]string { return map[string]string{"line_kind": "unit"} })),
	)
}
