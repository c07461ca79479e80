package ui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"roadmapboard/domain/roadmap"
)

type stubDashboard struct {
	snap   *roadmap.Snapshot
	status string
}

func (s *stubDashboard) Current() (*roadmap.Snapshot, bool) { return s.snap, s.snap != nil }
func (s *stubDashboard) StatusLine() string                { return s.status }

func fixtureSnapshot() *roadmap.Snapshot {
	july := time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)
	rate := 40.0
	return &roadmap.Snapshot{
		Departments: []roadmap.DepartmentRecord{
			{Acronym: "DOT", Name: "Transportation", Headcount: 1250, Quarter: "Q3 2024", RolloutDate: &july, ConversionRate: &rate, Status: roadmap.StatusWatch, BadgeUsers: 500, MilestoneTheme: "Pilot"},
			{Acronym: "HR", Name: "Human <Resources>", Headcount: 120, Status: roadmap.StatusWatch, MilestoneTheme: "-"},
		},
		Timeline: []roadmap.TimelineEntry{{Department: "DOT", Date: july, Milestone: "Pilot", Status: roadmap.StatusWatch}},
		Phases:   []roadmap.PhaseStat{{Phase: "Q3 2024", Total: 1, Headcount: 1250}},
		Health:   []roadmap.HealthStat{{Label: roadmap.StatusWatch, Count: 2}},
		Forecast: roadmap.Forecast{Next30: 1, Next30Headcount: 1250, Next90: 1, Unscheduled: 1},
		Summary:  roadmap.Summary{Departments: 2, TotalHeadcount: 1370, WithDates: 1, ConversionDeptCount: 1, TotalBadgeUsers: 500, ConversionRate: 40},
		Meta:     roadmap.Meta{Source: "book.xlsx", SheetsScanned: 3},
	}
}

func newTestApp(t *testing.T, dash *stubDashboard, api http.Handler) *App {
	t.Helper()
	app, err := NewApp(Config{Dashboard: dash, API: api})
	require.NoError(t, err)
	return app
}

func get(t *testing.T, h http.Handler, path string) (int, string, http.Header) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(w.Result().Body)
	require.NoError(t, err)
	return w.Code, string(body), w.Header()
}

func TestIndexLoaded(t *testing.T) {
	app := newTestApp(t, &stubDashboard{snap: fixtureSnapshot(), status: "Live data loaded (3 sheets) • Updated Jun 15, 9:00 AM"}, nil)

	code, body, header := get(t, app, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "text/html; charset=utf-8", header.Get("Content-Type"))
	assert.Contains(t, body, "Live data loaded (3 sheets) • Updated Jun 15, 9:00 AM")
	assert.Contains(t, body, `<p class="kpi-value">1,370</p>`)
	assert.Contains(t, body, "40.0% enterprise conversion")
	assert.Contains(t, body, "<strong>Jul 10, 2024</strong> - DOT")
	assert.Contains(t, body, "Human &lt;Resources&gt;")
	assert.NotContains(t, body, "Human <Resources>")
	assert.Contains(t, body, "Department ▲")
	assert.Less(t, strings.Index(body, ">DOT</td>"), strings.Index(body, ">HR</td>"))
}

func TestIndexSorting(t *testing.T) {
	app := newTestApp(t, &stubDashboard{snap: fixtureSnapshot()}, nil)

	_, body, _ := get(t, app, "/?sort=headcount&dir=asc")
	assert.Less(t, strings.Index(body, ">HR</td>"), strings.Index(body, ">DOT</td>"))
	assert.Contains(t, body, "Headcount ▲")
	assert.Contains(t, body, "/?sort=headcount&amp;dir=desc")
}

func TestIndexEmptyState(t *testing.T) {
	app := newTestApp(t, &stubDashboard{status: "Data load error: Unable to load book.xlsx (404)"}, nil)

	code, body, _ := get(t, app, "/")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Data load error: Unable to load book.xlsx (404)")
	assert.Contains(t, body, "Roadmap data is not available yet.")
	assert.Contains(t, body, "No department data available.")
	assert.Contains(t, body, "No forecast available.")
	assert.NotContains(t, body, "kpi-card")
}

func TestReportPages(t *testing.T) {
	app := newTestApp(t, &stubDashboard{snap: fixtureSnapshot(), status: "Live data loaded (3 sheets)"}, nil)

	code, body, _ := get(t, app, "/report")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "Mobile Credentials Rollout Report")
	assert.Contains(t, body, "<table>")

	code, body, header := get(t, app, "/report.md")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "text/markdown; charset=utf-8", header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "# Mobile Credentials Rollout Report"))
	assert.Contains(t, body, "| Q3 2024 | 1 | 1,250 |")
}

func TestHealthzAndStatic(t *testing.T) {
	app := newTestApp(t, &stubDashboard{}, nil)

	code, body, _ := get(t, app, "/healthz")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", gjson.Get(body, "status").String())
	assert.False(t, gjson.Get(body, "loaded").Bool())

	code, body, _ = get(t, app, "/static/css/dashboard.css")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, ".kpi-card")

	code, _, _ = get(t, app, "/static/js/dashboard.js")
	assert.Equal(t, http.StatusOK, code)
}

func TestAPIMounted(t *testing.T) {
	var seen string
	api := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path
		w.WriteHeader(http.StatusTeapot)
	})
	app := newTestApp(t, &stubDashboard{}, api)

	code, _, _ := get(t, app, "/api/summary")
	assert.Equal(t, http.StatusTeapot, code)
	assert.Equal(t, "/api/summary", seen)
}
