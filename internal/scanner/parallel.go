package scanner

import (
	"context"
	"sync"
)

// RunParallel is the optional concurrent-chunking optimization spec.md §5
// allows: detectors run independently over disjoint, non-overlapping rune
// ranges of text and are merged by the same deterministic (start, end,
// label) sort Run uses, so output order does not depend on goroutine
// scheduling. Because chunks do not overlap, a match that straddles a
// chunk boundary is not found, and the NER provider is not consulted.
// chunkLen is a rune count; the final chunk may be shorter. A chunkLen of
// 0 or a text no longer than chunkLen runs single-threaded via Run.
//
// Detectors that depend on cross-chunk context (DOB's trigger-word
// window, in particular) are re-applied once over the full text after
// chunk results are merged, since a trigger word and its date can straddle
// a chunk boundary.
func RunParallel(text string, chunkLen int) []Span {
	runes := []rune(text)
	if chunkLen <= 0 || len(runes) <= chunkLen {
		return Run(context.Background(), text, Config{})
	}

	type chunkResult struct {
		offset int
		spans  []Span
	}

	var chunks []string
	var offsets []int
	for start := 0; start < len(runes); start += chunkLen {
		end := start + chunkLen
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		offsets = append(offsets, start)
	}

	results := make([]chunkResult, len(chunks))
	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var spans []Span
			for _, d := range builtinDetectors() {
				spans = append(spans, d(chunks[i])...)
			}
			shifted := make([]Span, len(spans))
			for j, s := range spans {
				s.Start += offsets[i]
				s.End += offsets[i]
				shifted[j] = s
			}
			results[i] = chunkResult{offset: offsets[i], spans: shifted}
		}(i)
	}
	wg.Wait()

	var merged []Span
	for _, r := range results {
		merged = append(merged, r.spans...)
	}
	merged = UpgradeDOB(text, merged)
	sortSpans(merged)
	return merged
}
