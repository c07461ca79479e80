// Package report turns a snapshot into display-ready values: the dashboard
// view model shared by the HTML page and the CLI, and the Markdown status report.
package report

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"roadmapboard/domain/roadmap"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Placeholder is shown for missing values
const Placeholder = "-"

// FormatNumber rounds v and groups thousands ("12,345")
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatInt groups thousands of n
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders v with one decimal and a percent sign
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatDate renders a calendar date as "Jul 10, 2024"
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// FormatOptionalDate renders t or the placeholder when t is nil
func FormatOptionalDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return FormatDate(*t)
}

// StatusClass is the CSS class of a status badge
func StatusClass(status roadmap.Status) string {
	switch status {
	case roadmap.StatusAtRisk:
		return "at-risk"
	case roadmap.StatusWatch:
		return "watch"
	case roadmap.StatusComplete:
		return "complete"
	}
	return "on-track"
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
