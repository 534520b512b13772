package scanner

import (
	"regexp"

	"github.com/prismshield/redact/internal/checksum"
)

var (
	ccPattern  = regexp.MustCompile(`\b(?:\d[ \t\-]?){12,18}\d\b`)
	abaPattern = regexp.MustCompile(`\b\d{9}\b`)
	ibanPattern = regexp.MustCompile(
		`\b[A-Z]{2}\d{2}[ \t\-]?[A-Za-z0-9]{4}(?:[ \t\-]?[A-Za-z0-9]{4}){1,7}(?:[ \t\-]?[A-Za-z0-9]{1,4})?\b`,
	)
	ssnPattern = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
	einPattern = regexp.MustCompile(`\b\d{2}-\d{7}\b`)
	bicPattern = regexp.MustCompile(`\b[A-Z]{6}[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`)
)

func subtypeAttrs(subtype string) func(string) map[string]string {
	return func(string) map[string]string {
		return map[string]string{"account_subtype": subtype}
	}
}

// AccountID returns the ACCOUNT_ID detector covering all six subtypes
// spec.md enumerates: cc (Luhn), aba (routing checksum), iban (mod-97),
// ssn (forbidden-prefix), ein (shape), bic (shape + country position).
// Each scanner's checksum validator is generalized from the teacher's own
// validateLuhn/validateIBAN (internal/scanner/patterns.go) plus
// internal/checksum's ABA/SSN/BIC additions per spec.md §4.2.
func AccountID() Detector {
	return Scanners(
		NewRegexScanner(ccPattern, LabelAccountID, 0.95, "account_id.cc",
			WithValidator(checksum.Luhn), WithAttrs(subtypeAttrs("cc"))),
		NewRegexScanner(abaPattern, LabelAccountID, 0.80, "account_id.aba",
			WithValidator(checksum.ABA), WithAttrs(subtypeAttrs("aba"))),
		NewRegexScanner(ibanPattern, LabelAccountID, 0.97, "account_id.iban",
			WithValidator(checksum.IBAN), WithAttrs(subtypeAttrs("iban"))),
		NewRegexScanner(ssnPattern, LabelAccountID, 0.93, "account_id.ssn",
			WithValidator(checksum.SSN), WithAttrs(subtypeAttrs("ssn"))),
		NewRegexScanner(einPattern, LabelAccountID, 0.70, "account_id.ein",
			WithValidator(checksum.EIN), WithAttrs(subtypeAttrs("ein"))),
		NewRegexScanner(bicPattern, LabelAccountID, 0.75, "account_id.bic",
			WithValidator(checksum.BIC), WithAttrs(subtypeAttrs("bic"))),
	)
}
