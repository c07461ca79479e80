package normalize

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// MaxAcronymLength is the longest acronym accepted as a department key
const MaxAcronymLength = 8

// DefaultSummaryLabels are the name fragments of subtotal and annotation rows.
var DefaultSummaryLabels = []string{"sum of", "cummulative", "each quarter", "planned", "remaining", "need"}

// Header lowercases s and strips everything but [a-z0-9]
func Header(s string) string {
	return keep(strings.ToLower(strings.TrimSpace(s)), 'a', 'z')
}

// Acronym uppercases s and strips everything but [A-Z0-9]. Values that end up
// empty or longer than MaxAcronymLength normalize to "".
func Acronym(s string) string {
	text := keep(strings.ToUpper(s), 'A', 'Z')
	if text == "" || len(text) > MaxAcronymLength {
		return ""
	}
	return text
}

func keep(s string, lo, hi rune) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= lo && r <= hi) || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var quarterPatterns = []*regexp.Regexp{
	regexp.MustCompile(`q\s*([1-4])`),
	regexp.MustCompile(`quarter\s*([1-4])`),
	regexp.MustCompile(`^([1-4])$`),
}

// Quarter maps labels like "Q3", "FY24 q 2", "Quarter 4" or "1" to Q1..Q4.
// Unrecognized labels return "".
func Quarter(s string) string {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return ""
	}
	for _, re := range quarterPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return "Q" + m[1]
		}
	}
	return ""
}

// Percent turns a fraction (<=1) or a percentage into a value in [0,100].
// Missing, non-finite and non-positive inputs are unknown (nil).
func Percent(v float64, ok bool) *float64 {
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return nil
	}
	if v <= 1 {
		v *= 100
	}
	v = math.Max(0, math.Min(100, v))
	return &v
}

// QuarterFromDate returns the calendar quarter of t
func QuarterFromDate(t time.Time) string {
	switch m := t.Month(); {
	case m <= time.March:
		return "Q1"
	case m <= time.June:
		return "Q2"
	case m <= time.September:
		return "Q3"
	default:
		return "Q4"
	}
}

var quarterLabel = regexp.MustCompile(`^Q([1-4])$`)

// QuarterSortValue orders Q1..Q4 by number and everything else last.
func QuarterSortValue(q string) int {
	m := quarterLabel.FindStringSubmatch(strings.ToUpper(q))
	if m == nil {
		return 99
	}
	return int(m[1][0] - '0')
}

// ContainsAny reports whether text contains any keyword, case-insensitively.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// LabelFilter recognizes spreadsheet subtotal/annotation rows by their name.
// The pattern list is a heuristic and is not assumed to be exhaustive.
type LabelFilter struct {
	patterns []string
}

// NewLabelFilter creates a filter; a nil slice selects DefaultSummaryLabels.
func NewLabelFilter(patterns []string) LabelFilter {
	if patterns == nil {
		patterns = DefaultSummaryLabels
	}
	return LabelFilter{patterns: patterns}
}

// Matches reports whether name looks like a summary label
func (f LabelFilter) Matches(name string) bool {
	return ContainsAny(name, f.patterns)
}
