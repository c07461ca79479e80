package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"roadmapboard/internal/report"
	"roadmapboard/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			MarginRight(1)
	cardValueStyle = lipgloss.NewStyle().Bold(true)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)

	statusColors = map[string]lipgloss.Color{
		"at-risk":  lipgloss.Color("196"),
		"watch":    lipgloss.Color("214"),
		"complete": lipgloss.Color("42"),
		"on-track": lipgloss.Color("39"),
	}
)

func statusStyle(class string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(statusColors[class])
}

func renderSummary(view *report.View) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(report.Title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(view.StatusLine))
	b.WriteString("\n\n")

	cards := make([]string, 0, len(view.KPIs))
	for _, k := range view.KPIs {
		cards = append(cards, cardStyle.Render(
			lipgloss.JoinVertical(lipgloss.Left,
				mutedStyle.Render(k.Label),
				cardValueStyle.Render(k.Value),
			)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")
	if view.CoverageNote != "" {
		b.WriteString(mutedStyle.Render(view.CoverageNote))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderPanel("Forecast", view.Forecast))
	b.WriteString("\n")
	b.WriteString(renderPanel("Health", view.Health))
	return b.String()
}

func renderPanel(title string, rows []report.LabelValue) string {
	lines := []string{titleStyle.Render(title)}
	if len(rows) == 0 {
		lines = append(lines, mutedStyle.Render("  none"))
	}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("  %-18s %s", r.Label, r.Value))
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderDepartments(view *report.View) string {
	headers := make([]string, 0, len(view.Columns))
	for _, c := range view.Columns {
		label := c.Label
		if c.Arrow != "" {
			label += " " + c.Arrow
		}
		headers = append(headers, label)
	}

	rows := make([][]string, 0, len(view.Rows))
	for _, r := range view.Rows {
		status := statusStyle(r.StatusClass).Render(string(r.Status))
		rows = append(rows, []string{r.Acronym, r.Headcount, r.BadgeUsers, r.ConversionRate, r.Quarter, r.RolloutDate, status})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
	return t.String()
}

func renderTimeline(view *report.View) string {
	if len(view.Timeline) == 0 {
		return mutedStyle.Render("No rollout dates found.")
	}
	lines := []string{titleStyle.Render("Timeline") + " " + mutedStyle.Render(view.TimelineWindow)}
	for _, item := range view.Timeline {
		lines = append(lines, fmt.Sprintf("  %-13s %-8s %-24s %s",
			item.Date, item.Department, item.Milestone, statusStyle(item.StatusClass).Render(string(item.Status))))
	}
	return strings.Join(lines, "\n")
}

func renderHistory(records []*models.LoadRecord) string {
	if len(records) == 0 {
		return mutedStyle.Render("No loads recorded yet.")
	}
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		outcome := okStyle.Render(rec.Outcome)
		if !rec.Succeeded() {
			outcome = errorStyle.Render(rec.Outcome)
		}
		lines = append(lines, fmt.Sprintf("%s  %-9s %s  %s",
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"), rec.Trigger, outcome, rec.Message))
	}
	return strings.Join(lines, "\n")
}
