package scanner

import "regexp"

// secretPatterns recognize API-key/token shapes, ported directly from the
// teacher's secretScanners (internal/scanner/patterns.go). These are not
// part of spec.md's PII label taxonomy. Secret is a standalone detector:
// it is not among builtinDetectors, and neither Run, RunParallel nor
// internal/verify calls it.
var secretPatterns = []string{
	`sk-proj-[A-Za-z0-9_\-]{20,}`,
	`sk-[A-Za-z0-9]{20,}`,
	`sk-ant-[A-Za-z0-9_\-]{20,}`,
	`AKIA[0-9A-Z]{16}`,
	`gh[patos]_[A-Za-z0-9]{30,}`,
	`xox[bp]-[0-9]{10,}-[A-Za-z0-9\-]+`,
	`Bearer\s+[A-Za-z0-9._~+/=\-]{20,}`,
	`-----BEGIN (?:RSA |EC |DSA )?PRIVATE KEY-----`,
}

// Secret returns the auxiliary SECRET detector.
func Secret() Detector {
	scanners := make([]*RegexScanner, 0, len(secretPatterns))
	for _, p := range secretPatterns {
		scanners = append(scanners, NewRegexScanner(regexp.MustCompile(p), LabelSecret, 0.99, "secret"))
	}
	return Scanners(scanners...)
}
