package ui

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"go.uber.org/zap"

	"roadmapboard/internal/aggregate"
	"roadmapboard/internal/report"
)

// reportPage is the data of report.html
type reportPage struct {
	StatusLine string
	Body       template.HTML
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap, _ := a.dashboard.Current()
	key := aggregate.ParseSortKey(r.URL.Query().Get("sort"))
	dir := aggregate.ParseDirection(r.URL.Query().Get("dir"))

	a.renderTemplate(w, "index.html", report.NewView(snap, a.dashboard.StatusLine(), key, dir))
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, _ := a.dashboard.Current()
	status := a.dashboard.StatusLine()
	a.renderTemplate(w, "report.html", reportPage{
		StatusLine: status,
		Body:       renderMarkdown(report.Markdown(snap, status)),
	})
}

func (a *App) handleReportMarkdown(w http.ResponseWriter, r *http.Request) {
	snap, _ := a.dashboard.Current()
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if _, err := w.Write([]byte(report.Markdown(snap, a.dashboard.StatusLine()))); err != nil {
		a.logger.Warn("Error writing report", zap.Error(err))
	}
}

func (a *App) handleHealthz(w http.ResponseWriter, r *http.Request) {
	_, loaded := a.dashboard.Current()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"loaded": loaded,
	})
}

// renderMarkdown converts the generated report to HTML. Raw HTML in the
// source is escaped so workbook text cannot inject markup.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
