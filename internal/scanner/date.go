package scanner

import (
	"regexp"
	"strings"
)

var (
	dateMDY = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	dateISO = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

	months = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`

	dateMonthDY = regexp.MustCompile(months + `[ \t]+\d{1,2},[ \t]+\d{4}`)
	dateDMonthY = regexp.MustCompile(`\d{1,2}[ \t]+` + months + `[ \t]+\d{4}`)
)

func dateFormatAttr(format string) func(string) map[string]string {
	return func(string) map[string]string {
		return map[string]string{"date_format": format}
	}
}

// Date returns the DATE_GENERIC detector recognizing M/D/YYYY,
// YYYY-MM-DD, "Month D, YYYY", and "D Month YYYY" per spec.md §4.2.
func Date() Detector {
	return Scanners(
		NewRegexScanner(dateMDY, LabelDateGeneric, 0.85, "date.mdy", WithAttrs(dateFormatAttr("M/D/YYYY"))),
		NewRegexScanner(dateISO, LabelDateGeneric, 0.90, "date.iso", WithAttrs(dateFormatAttr("YYYY-MM-DD"))),
		NewRegexScanner(dateMonthDY, LabelDateGeneric, 0.90, "date.month_d_y", WithAttrs(dateFormatAttr("Month D, YYYY"))),
		NewRegexScanner(dateDMonthY, LabelDateGeneric, 0.90, "date.d_month_y", WithAttrs(dateFormatAttr("D Month YYYY"))),
	)
}

// dobTriggers are case-insensitive phrases that, found within dobWindow
// runes of a DATE_GENERIC span, promote it to DOB (spec.md §4.2 "DOB
// upgrade").
var dobTriggers = []string{
	"dob", "d.o.b.", "date of birth", "born on", "born:",
}

// dobWindow is the ± character window spec.md specifies for the trigger
// search.
const dobWindow = 40

// UpgradeDOB promotes DATE_GENERIC spans to DOB when a trigger phrase
// appears within dobWindow runes before or after the span, case
// insensitively. Spans not adjacent to a trigger are returned unchanged.
func UpgradeDOB(text string, spans []Span) []Span {
	if len(spans) == 0 {
		return spans
	}
	runes := []rune(strings.ToLower(text))
	out := make([]Span, len(spans))
	copy(out, spans)

	for i, s := range out {
		if s.Label != LabelDateGeneric {
			continue
		}
		from := s.Start - dobWindow
		if from < 0 {
			from = 0
		}
		to := s.End + dobWindow
		if to > len(runes) {
			to = len(runes)
		}
		window := string(runes[from:to])
		for _, trig := range dobTriggers {
			if strings.Contains(window, trig) {
				upgraded := s
				upgraded.Label = LabelDOB
				upgraded.Source = "date.dob_upgrade"
				out[i] = upgraded
				break
			}
		}
	}
	return out
}
