// Package merge resolves overlapping spans: first by promoting adjacent
// ADDRESS_LINE spans into ADDRESS_BLOCK spans (spec.md §4.3), then by a
// global precedence-ordered overlap resolver (spec.md §4.5).
package merge

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prismshield/redact/internal/scanner"
)

// AddressBlocks consumes all spans, merging ADDRESS_LINE spans that sit on
// consecutive lines (tolerating one blank line between them) into a
// single ADDRESS_BLOCK span spanning from the first line's start to the
// last line's end, per spec.md §4.3. A block requires at least one
// "street" line plus one "city_state_zip" line, or a "po_box" line.
// Constituent ADDRESS_LINE spans that were absorbed are dropped from the
// returned slice; spans of other labels pass through unchanged.
func AddressBlocks(text string, spans []scanner.Span) []scanner.Span {
	lineStarts := lineStartIndex(text)
	runes := []rune(text)
	isBlankLine := func(n int) bool {
		end := len(runes)
		if n+1 < len(lineStarts) {
			end = lineStarts[n+1]
		}
		return strings.TrimSpace(string(runes[lineStarts[n]:end])) == ""
	}

	var addressLines []scanner.Span
	var other []scanner.Span
	for _, s := range spans {
		if s.Label == scanner.LabelAddressLine {
			addressLines = append(addressLines, s)
		} else {
			other = append(other, s)
		}
	}
	if len(addressLines) == 0 {
		return spans
	}

	sort.Slice(addressLines, func(i, j int) bool { return addressLines[i].Start < addressLines[j].Start })

	var blocks []scanner.Span
	used := make([]bool, len(addressLines))

	i := 0
	for i < len(addressLines) {
		if used[i] {
			i++
			continue
		}
		group := []scanner.Span{addressLines[i]}
		lastLine := lineOf(lineStarts, addressLines[i].Start)
		j := i + 1
		for j < len(addressLines) {
			line := lineOf(lineStarts, addressLines[j].Start)
			gap := line - lastLine
			if gap == 1 || (gap == 2 && isBlankLine(lastLine+1)) { // consecutive, or one blank line between
				group = append(group, addressLines[j])
				lastLine = line
				used[j] = true
				j++
				continue
			}
			break
		}
		used[i] = true

		if qualifiesAsBlock(group) {
			start := group[0].Start
			end := group[len(group)-1].End
			blocks = append(blocks, scanner.Span{
				Start:      start,
				End:        end,
				Label:      scanner.LabelAddressBlock,
				Confidence: maxConfidence(group),
				Source:     "address_merger",
				Attrs:      map[string]string{"line_count": strconv.Itoa(len(group))},
			})
		} else {
			// Not a qualifying block: constituent lines remain as
			// ADDRESS_LINE spans for the global merger to consider.
			blocks = append(blocks, group...)
		}
		i = j
	}

	return append(other, blocks...)
}

func qualifiesAsBlock(group []scanner.Span) bool {
	var hasStreet, hasCityStateZip, hasPOBox bool
	for _, s := range group {
		switch s.Attr("line_kind") {
		case "street":
			hasStreet = true
		case "city_state_zip":
			hasCityStateZip = true
		case "po_box":
			hasPOBox = true
		}
	}
	return (hasStreet && hasCityStateZip) || hasPOBox
}

func maxConfidence(spans []scanner.Span) float64 {
	m := 0.0
	for _, s := range spans {
		if s.Confidence > m {
			m = s.Confidence
		}
	}
	return m
}

// lineStartIndex returns the rune index of the start of each line in text.
func lineStartIndex(text string) []int {
	starts := []int{0}
	for i, r := range []rune(text) {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineOf returns the 0-based line number containing rune index pos.
func lineOf(lineStarts []int, pos int) int {
	// lineStarts is sorted ascending; find the last start <= pos.
	lo, hi := 0, len(lineStarts)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if lineStarts[mid] <= pos {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return line
}
