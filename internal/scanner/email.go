package scanner

import "regexp"

// emailPattern is an RFC-5322-compatible simplification requiring a dot in
// the domain, grounded on the teacher's own Unicode-aware local-part
// pattern (internal/scanner/patterns.go emailScanners), generalized to the
// full taxonomy's EMAIL label rather than a flat "EMAIL" string.
var emailPattern = regexp.MustCompile(
	`[a-zA-Z0-9._%+\-àáâãäåæçèéêëìíîïðñòóôõöøùúûüýþÿ]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`,
)

// Email returns the EMAIL detector.
func Email() Detector {
	return Scanners(
		NewRegexScanner(emailPattern, LabelEmail, 0.99, "email"),
	)
}
