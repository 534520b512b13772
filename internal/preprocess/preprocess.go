// Package preprocess normalizes raw document text before detection and
// builds the char-map back to original byte offsets so audit entries can
// report original-document positions while the rest of the pipeline
// operates entirely on normalized text.
package preprocess

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CharMap maps a normalized rune index to the offset, in the original
// string, of the first byte that produced it.
type CharMap []int

// zeroWidth are characters stripped entirely (they occupy no normalized
// position, so the char-map simply skips them).
var zeroWidth = map[rune]bool{
	'​': true, // zero width space
	'‌': true, // zero width non-joiner
	'‍': true, // zero width joiner
	'﻿': true, // byte order mark / zero width no-break space
}

// spaceFolds maps assorted Unicode space variants to ASCII space. Line
// breaks are deliberately excluded so they survive normalization.
var spaceFolds = map[rune]rune{
	' ': ' ', // no-break space
	' ': ' ', // ogham space mark
	' ': ' ', // en quad
	' ': ' ', // em quad
	' ': ' ', // en space
	' ': ' ', // em space
	' ': ' ', // three-per-em space
	' ': ' ', // four-per-em space
	' ': ' ', // six-per-em space
	' ': ' ', // figure space
	' ': ' ', // punctuation space
	' ': ' ', // thin space
	' ': ' ', // hair space
	' ': ' ', // narrow no-break space
	' ': ' ', // medium mathematical space
	'　': ' ', // ideographic space
}

// quoteFolds maps "smart" quotes and hyphen variants to ASCII equivalents.
var quoteFolds = map[rune]rune{
	'‘': '\'', // left single quote
	'’': '\'', // right single quote
	'‚': '\'', // single low-9 quote
	'‛': '\'', // single high-reversed-9 quote
	'“': '"',  // left double quote
	'”': '"',  // right double quote
	'„': '"',  // double low-9 quote
	'‟': '"',  // double high-reversed-9 quote
	'‐': '-',  // hyphen
	'‑': '-',  // non-breaking hyphen
	'‒': '-',  // figure dash
	'–': '-',  // en dash
	'—': '-',  // em dash
	'―': '-',  // horizontal bar
}

// Normalize composes s into NFC, strips zero-width characters, folds
// Unicode space/quote/hyphen variants to ASCII equivalents, and preserves
// all line breaks. It returns the normalized text together with a
// char-map of equal rune-length mapping back to original byte offsets.
//
// Invariant: len([]rune(normalized)) == len(charMap), and charMap is
// non-decreasing.
func Normalize(s string) (string, CharMap) {
	composed := norm.NFC.String(s)
	origOffsets := alignToOriginal(composed, s)

	var out strings.Builder
	out.Grow(len(composed))
	charMap := make(CharMap, 0, len(composed))

	i := 0
	for _, r := range composed {
		if !zeroWidth[r] {
			mapped := r
			if folded, ok := spaceFolds[r]; ok {
				mapped = folded
			} else if folded, ok := quoteFolds[r]; ok {
				mapped = folded
			}
			out.WriteRune(mapped)
			charMap = append(charMap, origOffsets[i])
		}
		i++
	}

	return out.String(), charMap
}

// alignToOriginal walks composed and original in lockstep, returning, per
// rune index in composed, the byte offset in original that rune
// corresponds to. The two strings march forward together rune-for-rune
// while they agree; NFC composition only ever merges a small, local run
// of original runes (a base letter plus combining marks) into fewer
// composed runes, so whenever the runes diverge the original cursor is
// advanced past the combining-mark run that just got folded into the
// single composed rune already emitted, keeping the cursors back in sync.
func alignToOriginal(composed, original string) []int {
	origRunes := []rune(original)
	origByteOffset := make([]int, 0, len(origRunes))
	b := 0
	for _, r := range original {
		origByteOffset = append(origByteOffset, b)
		b += utf8RuneLen(r)
	}

	offsets := make([]int, 0, len(composed))
	oi := 0
	for _, cr := range composed {
		if oi >= len(origRunes) {
			if len(origByteOffset) > 0 {
				offsets = append(offsets, origByteOffset[len(origByteOffset)-1])
			} else {
				offsets = append(offsets, 0)
			}
			continue
		}
		offsets = append(offsets, origByteOffset[oi])
		if origRunes[oi] == cr {
			oi++
			continue
		}
		// Composition collapsed one or more original runes into cr:
		// consume the base rune plus any trailing combining marks.
		oi++
		for oi < len(origRunes) && isCombining(origRunes[oi]) {
			oi++
		}
	}
	return offsets
}

func isCombining(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

func utf8RuneLen(r rune) int {
	switch {
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r < 0x10000:
		return 3
	default:
		return 4
	}
}

// OriginalOffset resolves a normalized rune index to its original string
// offset via the char-map, clamping to the map's bounds.
func (m CharMap) OriginalOffset(normIdx int) int {
	if len(m) == 0 {
		return 0
	}
	if normIdx < 0 {
		normIdx = 0
	}
	if normIdx >= len(m) {
		normIdx = len(m) - 1
	}
	return m[normIdx]
}
