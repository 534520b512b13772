package scanner

import (
	"regexp"
	"strings"
)

// legalSuffixes are corporate legal-form designators; a proper-noun run
// followed by one of these yields GENERIC_ORG unless a bank-indicative
// keyword is also present, in which case BANK_ORG wins (spec.md §4.2).
var legalSuffixes = []string{
	`Inc\.?`, `LLC`, `L\.L\.C\.`, `Ltd\.?`, `N\.A\.`, `GmbH`, `S\.A\.`,
	`Co\.?`, `Corp(?:oration)?\.?`, `PLC`, `AG`, `S\.p\.A\.`, `S\.r\.l\.`,
	`B\.V\.`, `N\.V\.`,
}

// bankKeywords are tokens that, appearing anywhere in the matched org
// name, indicate a financial institution rather than a generic business.
var bankKeywords = []string{
	"bank", "trust", "savings", "credit union", "banque", "sparkasse",
	"bausparkasse", "volksbank", "raiffeisen",
}

var orgPattern = regexp.MustCompile(
	`\b(?:[A-Z][a-zA-Z&'\-]*,?[ \t]+){1,5}(?:` + strings.Join(legalSuffixes, `|`) + `)`,
)

func classifyOrg(match string) map[string]string {
	lower := strings.ToLower(match)
	for _, kw := range bankKeywords {
		if strings.Contains(lower, kw) {
			return map[string]string{"org_kind": "bank"}
		}
	}
	return map[string]string{"org_kind": "generic"}
}

func isBank(match string) bool {
	return classifyOrg(match)["org_kind"] == "bank"
}

func isGenericOrg(match string) bool {
	return !isBank(match)
}

// BankOrg returns the BANK_ORG / GENERIC_ORG detector. A single lexicon
// pattern (proper-noun run + legal suffix) feeds two scanners that split
// on the presence of a bank-indicative keyword, per spec.md §4.2's
// "Bank/Org" rule.
func BankOrg() Detector {
	return Scanners(
		NewRegexScanner(orgPattern, LabelBankOrg, 0.88, "bank_org",
			WithValidator(isBank), WithAttrs(classifyOrg)),
		NewRegexScanner(orgPattern, LabelGenericOrg, 0.82, "bank_org",
			WithValidator(isGenericOrg), WithAttrs(classifyOrg)),
	)
}
