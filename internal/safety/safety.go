// Package safety implements the pre-acceptance checks a candidate
// pseudonym replacement must pass before a plan entry is finalized
// (spec.md §4.7).
package safety

import (
	"strings"

	"github.com/prismshield/redact/internal/checksum"
)

// Config holds the operator-supplied safety lists.
type Config struct {
	// SensitiveValues are known real values (emails, bank names,
	// person names) that must never appear in a replacement.
	SensitiveValues []string
	// IssuerPrefixes are real-world checksummed-ID issuer prefixes a
	// generated ID's leading digits must not match (e.g. real bank
	// routing-number prefixes, real BIN ranges).
	IssuerPrefixes []string
}

// Candidate is one proposed replacement awaiting validation.
type Candidate struct {
	Label       string // taxonomy label
	Subtype     string // account_id subtype, empty otherwise
	Original    string
	Replacement string
}

// Verdict reports whether a candidate passed, and if not, why.
type Verdict struct {
	OK     bool
	Reason string
}

var allowedEmailDomains = map[string]bool{
	"example.org": true, "example.com": true, "example.net": true,
}

// Check runs every applicable rule from spec.md §4.7 against candidate
// and returns the first failure, or an OK verdict if all pass.
func Check(c Candidate, cfg Config) Verdict {
	if strings.EqualFold(c.Original, c.Replacement) {
		return Verdict{false, "replacement equals original (case-insensitive)"}
	}
	for _, sv := range cfg.SensitiveValues {
		if strings.EqualFold(sv, c.Replacement) {
			return Verdict{false, "replacement matches a configured sensitive value"}
		}
	}

	switch c.Label {
	case "EMAIL":
		if v := checkEmailDomain(c.Replacement); !v.OK {
			return v
		}
	case "PHONE":
		if v := checkPhoneAreaCode(c.Replacement); !v.OK {
			return v
		}
	case "ACCOUNT_ID":
		if v := checkAccountID(c, cfg); !v.OK {
			return v
		}
	}

	if c.Label == "ACCOUNT_ID" {
		if v := checkFirstHalfDiffers(c.Original, c.Replacement); !v.OK {
			return v
		}
	}

	return Verdict{OK: true}
}

func checkEmailDomain(replacement string) Verdict {
	parts := strings.SplitN(replacement, "@", 2)
	if len(parts) != 2 {
		return Verdict{false, "replacement is not a valid email shape"}
	}
	if !allowedEmailDomains[parts[1]] {
		return Verdict{false, "email domain not in the allowed set"}
	}
	return Verdict{OK: true}
}

func checkPhoneAreaCode(replacement string) Verdict {
	digits := onlyDigits(replacement)
	if len(digits) < 3 || digits[:3] != "555" {
		return Verdict{false, "phone area code not in the 555 family"}
	}
	return Verdict{OK: true}
}

func checkAccountID(c Candidate, cfg Config) Verdict {
	valid := false
	switch c.Subtype {
	case "cc":
		valid = checksum.Luhn(c.Replacement)
	case "aba":
		valid = checksum.ABA(c.Replacement)
	case "iban":
		valid = checksum.IBAN(c.Replacement)
	case "ssn":
		valid = checksum.SSN(c.Replacement)
	case "ein":
		valid = checksum.EIN(c.Replacement)
	case "bic":
		valid = checksum.BIC(c.Replacement)
	default:
		valid = true
	}
	if !valid {
		return Verdict{false, "replacement fails its subtype checksum"}
	}
	for _, prefix := range cfg.IssuerPrefixes {
		if strings.HasPrefix(onlyDigits(c.Replacement), prefix) {
			return Verdict{false, "replacement's issuer prefix matches a real issuer"}
		}
	}
	return Verdict{OK: true}
}

// checkFirstHalfDiffers requires at least one digit in the first half
// of the original's digit run to differ from the replacement's digit
// run at the same position.
func checkFirstHalfDiffers(original, replacement string) Verdict {
	od := onlyDigits(original)
	rd := onlyDigits(replacement)
	half := (len(od) + 1) / 2
	if half > len(rd) {
		half = len(rd)
	}
	for i := 0; i < half; i++ {
		if i >= len(od) {
			break
		}
		if od[i] != rd[i] {
			return Verdict{OK: true}
		}
	}
	return Verdict{false, "no digit differs from the original in the first half"}
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaxRetries is the number of times the generator is re-invoked with an
// incremented retry salt before the entry is marked UNSAFE.
const MaxRetries = 2

// Outcome is the terminal result of retrying a candidate through Check.
type Outcome struct {
	Replacement string
	Retries     int
	Unsafe      bool
	Reason      string
}

// Retry drives generate (which must produce a fresh candidate for a
// given retry salt) through up to MaxRetries+1 attempts, returning the
// first passing candidate or an Unsafe outcome.
func Retry(original, label, subtype string, cfg Config, generate func(retrySalt int) (string, error)) (Outcome, error) {
	var lastReason string
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		replacement, err := generate(attempt)
		if err != nil {
			return Outcome{}, err
		}
		v := Check(Candidate{Label: label, Subtype: subtype, Original: original, Replacement: replacement}, cfg)
		if v.OK {
			return Outcome{Replacement: replacement, Retries: attempt}, nil
		}
		lastReason = v.Reason
	}
	return Outcome{
		Replacement: "[REDACTED_" + label + "]",
		Retries:     MaxRetries + 1,
		Unsafe:      true,
		Reason:      lastReason,
	}, nil
}

// FormatPlaceholder is exposed for callers that need the opaque
// fallback string independent of a Retry call (e.g. strict-mode error
// messages).
func FormatPlaceholder(label string) string {
	return "[REDACTED_" + label + "]"
}
