package report

import (
	"fmt"
	"strings"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/aggregate"
)

// Title heads the Markdown report
const Title = "Mobile Credentials Rollout Report"

// Markdown renders the status report for snap. A nil snapshot renders the
// status line and an empty-state note.
func Markdown(snap *roadmap.Snapshot, statusLine string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", Title)
	if statusLine != "" {
		fmt.Fprintf(&b, "_%s_\n\n", escape(statusLine))
	}
	if snap == nil {
		b.WriteString("Roadmap data is not available yet.\n")
		return b.String()
	}

	view := NewView(snap, statusLine, aggregate.SortAcronym, aggregate.Asc)

	b.WriteString("## Key metrics\n\n")
	b.WriteString("| Metric | Value | Detail |\n|---|---:|---|\n")
	for _, k := range view.KPIs {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", k.Label, k.Value, escape(k.Trend))
	}
	fmt.Fprintf(&b, "| Median headcount | %s | Per department |\n", FormatNumber(snap.Summary.MedianHeadcount))
	mean := Placeholder
	if snap.Summary.ConversionDeptCount > 0 {
		mean = FormatPercent(snap.Summary.MeanDeptConversion)
	}
	fmt.Fprintf(&b, "| Mean department conversion | %s | %d departments report a rate |\n", mean, snap.Summary.ConversionDeptCount)

	b.WriteString("\n## Forecast\n\n")
	writeLabelValues(&b, "Window", view.Forecast)

	b.WriteString("\n## Health\n\n")
	if len(view.Health) == 0 {
		b.WriteString("No health distribution available.\n")
	} else {
		writeLabelValues(&b, "Status", view.Health)
	}

	b.WriteString("\n## Timeline\n\n")
	if len(view.Timeline) == 0 {
		b.WriteString("No rollout dates found.\n")
	} else {
		fmt.Fprintf(&b, "%s\n\n", view.TimelineWindow)
		b.WriteString("| Date | Department | Milestone | Status |\n|---|---|---|---|\n")
		for _, item := range view.Timeline {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", item.Date, escape(item.Department), escape(item.Milestone), item.Status)
		}
	}

	b.WriteString("\n## Phases\n\n")
	if len(view.Phases) == 0 {
		b.WriteString("No quarter/phase data found.\n")
	} else {
		b.WriteString("| Phase | Departments | Headcount |\n|---|---:|---:|\n")
		for _, p := range view.Phases {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", escape(p.Phase), p.Total, p.Headcount)
		}
	}

	return b.String()
}

func writeLabelValues(b *strings.Builder, heading string, rows []LabelValue) {
	fmt.Fprintf(b, "| %s | Value |\n|---|---:|\n", heading)
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", escape(r.Label), escape(r.Value))
	}
}

// escape keeps workbook text from breaking table cells
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
