package pseudonym

import (
	"strings"
	"unicode"
)

// CasingClass classifies a name token's capitalization pattern so a
// replacement token can be rendered the same way.
type CasingClass int

const (
	CasingLower CasingClass = iota
	CasingTitle             // "John"
	CasingUpper             // "JOHN"
	CasingInitial           // "J." (one or two letters followed by a period)
)

// ClassifyCasing inspects a single token (no surrounding whitespace)
// and reports its casing class.
func ClassifyCasing(token string) CasingClass {
	letters := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, token)
	if letters == "" {
		return CasingTitle
	}
	if len(letters) <= 2 && strings.HasSuffix(token, ".") {
		return CasingInitial
	}
	if strings.ToUpper(letters) == letters && len([]rune(letters)) > 1 {
		return CasingUpper
	}
	if strings.ToLower(letters) == letters {
		return CasingLower
	}
	// Title case: first letter upper, rest lower.
	runes := []rune(letters)
	if unicode.IsUpper(runes[0]) && strings.ToLower(string(runes[1:])) == string(runes[1:]) {
		return CasingTitle
	}
	return CasingTitle
}

// ApplyCasing renders word in the given casing class, preserving a
// trailing "." for initials.
func ApplyCasing(word string, class CasingClass) string {
	if word == "" {
		return word
	}
	switch class {
	case CasingUpper:
		return strings.ToUpper(word)
	case CasingLower:
		return strings.ToLower(word)
	case CasingInitial:
		r := []rune(word)
		return strings.ToUpper(string(r[:1])) + "."
	default: // CasingTitle
		r := []rune(word)
		return strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
	}
}

// tokenize splits a name/org surface form into word tokens and the
// separator runs between them (spaces, hyphens, apostrophes), so a
// replacement can reassemble the same punctuation skeleton.
func tokenize(s string) (tokens []string, seps []string) {
	var cur strings.Builder
	var sep strings.Builder
	inWord := false
	flushWord := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	flushSep := func() {
		if sep.Len() > 0 || len(tokens) > 0 {
			seps = append(seps, sep.String())
			sep.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord && cur.Len() == 0 && len(tokens) > 0 {
				flushSep()
			}
			cur.WriteRune(r)
			inWord = true
		} else {
			if inWord {
				flushWord()
			}
			sep.WriteRune(r)
			inWord = false
		}
	}
	flushWord()
	if sep.Len() > 0 {
		seps = append(seps, sep.String())
	}
	return tokens, seps
}

// digitCount returns the number of ASCII digits in s.
func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ShapeSignature computes the mention_shape_signature fed into the key
// schedule: a compact description of the structural features a
// generator must reproduce (token count, casing classes, punctuation
// skeleton, digit count), so that two mentions with different surface
// shapes never accidentally derive the same generator seed.
func ShapeSignature(surface string) string {
	tokens, seps := tokenize(surface)
	var b strings.Builder
	for _, t := range tokens {
		switch ClassifyCasing(t) {
		case CasingUpper:
			b.WriteByte('U')
		case CasingLower:
			b.WriteByte('l')
		case CasingInitial:
			b.WriteByte('I')
		default:
			b.WriteByte('T')
		}
	}
	b.WriteByte('|')
	for _, s := range seps {
		b.WriteString(s)
	}
	b.WriteByte('|')
	b.WriteString(string(rune('0' + digitCount(surface)%10)))
	return b.String()
}
