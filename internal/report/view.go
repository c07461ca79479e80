package report

import (
	"fmt"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/aggregate"
)

// KPICard is one headline number
type KPICard struct {
	Label string
	Value string
	Trend string
}

// CoverageItem is one department's conversion bar
type CoverageItem struct {
	Acronym string
	Rate    string
	Width   string
}

// PhaseBar is one quarter's department count bar
type PhaseBar struct {
	Phase     string
	Total     int
	Headcount string
	Width     string
}

// TimelineItem is one rendered milestone
type TimelineItem struct {
	Date        string
	Department  string
	Milestone   string
	Status      roadmap.Status
	StatusClass string
}

// LabelValue is a row of the health and forecast panels
type LabelValue struct {
	Label string
	Value string
}

// TableRow is one row of the readiness table
type TableRow struct {
	Acronym        string
	Name           string
	Headcount      string
	BadgeUsers     string
	ConversionRate string
	Quarter        string
	RolloutDate    string
	Status         roadmap.Status
	StatusClass    string
}

// TableColumn is a sortable column header
type TableColumn struct {
	Key   aggregate.SortKey
	Label string
	// Arrow is "▲" or "▼" on the active column
	Arrow string
	// NextDir is the direction a click on the header requests
	NextDir aggregate.Direction
}

// View is everything the dashboard renders for one snapshot
type View struct {
	Loaded         bool
	StatusLine     string
	KPIs           []KPICard
	Coverage       []CoverageItem
	CoverageNote   string
	Phases         []PhaseBar
	Timeline       []TimelineItem
	TimelineWindow string
	Health         []LabelValue
	Forecast       []LabelValue
	Columns        []TableColumn
	Rows           []TableRow
	SortKey        aggregate.SortKey
	SortDir        aggregate.Direction
}

var tableColumns = []struct {
	key   aggregate.SortKey
	label string
}{
	{aggregate.SortAcronym, "Department"},
	{aggregate.SortHeadcount, "Headcount"},
	{aggregate.SortBadgeUsers, "Digital Badge"},
	{aggregate.SortConversionRate, "Conversion"},
	{aggregate.SortQuarter, "Quarter"},
	{aggregate.SortRolloutDate, "Rollout Date"},
	{aggregate.SortStatus, "Status"},
}

// NewView builds the view model. snap may be nil, which yields the empty state.
func NewView(snap *roadmap.Snapshot, statusLine string, key aggregate.SortKey, dir aggregate.Direction) *View {
	v := &View{
		StatusLine: statusLine,
		SortKey:    key,
		SortDir:    dir,
		Columns:    columns(key, dir),
	}
	if snap == nil {
		return v
	}

	v.Loaded = true
	v.KPIs = kpis(snap.Summary)
	v.Coverage, v.CoverageNote = coverage(snap)
	v.Phases = phaseBars(snap.Phases)
	v.Timeline, v.TimelineWindow = timeline(snap.Timeline)
	v.Health = health(snap.Health)
	v.Forecast = forecast(snap.Forecast)
	v.Rows = rows(aggregate.SortTable(snap.Departments, key, dir))
	return v
}

func columns(key aggregate.SortKey, dir aggregate.Direction) []TableColumn {
	cols := make([]TableColumn, 0, len(tableColumns))
	for _, c := range tableColumns {
		col := TableColumn{Key: c.key, Label: c.label, NextDir: aggregate.Asc}
		if c.key == key {
			if dir == aggregate.Desc {
				col.Arrow = "▼"
			} else {
				col.Arrow = "▲"
				col.NextDir = aggregate.Desc
			}
		}
		cols = append(cols, col)
	}
	return cols
}

func kpis(s roadmap.Summary) []KPICard {
	rate := Placeholder
	if s.TotalHeadcount > 0 {
		rate = FormatPercent(s.ConversionRate)
	}
	return []KPICard{
		{"Departments", FormatInt(s.Departments), "Using acronym-keyed department records"},
		{"Total Headcount", FormatInt(s.TotalHeadcount), "Headcount from roadmap sheets"},
		{"With Rollout Dates", FormatInt(s.WithDates), "Departments with a scheduled rollout date"},
		{"Digital Badge", FormatInt(s.TotalBadgeUsers), "Derived from Excel conversion rates"},
		{"Conversion Rate", rate, fmt.Sprintf("%s / %s across all depts", FormatInt(s.TotalBadgeUsers), FormatInt(s.TotalHeadcount))},
	}
}

func coverage(snap *roadmap.Snapshot) ([]CoverageItem, string) {
	ordered := aggregate.CoverageOrder(snap.Departments)
	items := make([]CoverageItem, 0, len(ordered))
	for _, d := range ordered {
		rate := 0.0
		if d.ConversionRate != nil {
			rate = *d.ConversionRate
		}
		items = append(items, CoverageItem{
			Acronym: d.Acronym,
			Rate:    FormatPercent(rate),
			Width:   fmt.Sprintf("%.1f%%", clamp(rate, 0, 100)),
		})
	}

	note := "No conversion-rate data found in workbook"
	if snap.Summary.TotalHeadcount > 0 {
		note = FormatPercent(snap.Summary.ConversionRate) + " enterprise conversion"
	}
	return items, note
}

func phaseBars(phases []roadmap.PhaseStat) []PhaseBar {
	maxTotal := 1
	for _, p := range phases {
		if p.Total > maxTotal {
			maxTotal = p.Total
		}
	}
	bars := make([]PhaseBar, 0, len(phases))
	for _, p := range phases {
		bars = append(bars, PhaseBar{
			Phase:     p.Phase,
			Total:     p.Total,
			Headcount: FormatInt(p.Headcount),
			Width:     fmt.Sprintf("%.1f%%", float64(p.Total)/float64(maxTotal)*100),
		})
	}
	return bars
}

func timeline(entries []roadmap.TimelineEntry) ([]TimelineItem, string) {
	if len(entries) == 0 {
		return nil, ""
	}
	items := make([]TimelineItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, TimelineItem{
			Date:        FormatDate(e.Date),
			Department:  e.Department,
			Milestone:   e.Milestone,
			Status:      e.Status,
			StatusClass: StatusClass(e.Status),
		})
	}
	window := FormatDate(entries[0].Date) + " to " + FormatDate(entries[len(entries)-1].Date)
	return items, window
}

func health(stats []roadmap.HealthStat) []LabelValue {
	out := make([]LabelValue, 0, len(stats))
	for _, h := range stats {
		out = append(out, LabelValue{Label: string(h.Label), Value: FormatInt(h.Count)})
	}
	return out
}

func forecast(f roadmap.Forecast) []LabelValue {
	return []LabelValue{
		{"Next 30 Days", fmt.Sprintf("%d depts", f.Next30)},
		{"30-Day Headcount", FormatInt(f.Next30Headcount)},
		{"Next 90 Days", fmt.Sprintf("%d depts", f.Next90)},
		{"Unscheduled", fmt.Sprintf("%d depts", f.Unscheduled)},
	}
}

func rows(records []roadmap.DepartmentRecord) []TableRow {
	out := make([]TableRow, 0, len(records))
	for _, d := range records {
		row := TableRow{
			Acronym:        d.Acronym,
			Name:           d.Name,
			Headcount:      FormatInt(d.Headcount),
			BadgeUsers:     Placeholder,
			ConversionRate: Placeholder,
			Quarter:        orPlaceholder(d.Quarter),
			RolloutDate:    FormatOptionalDate(d.RolloutDate),
			Status:         d.Status,
			StatusClass:    StatusClass(d.Status),
		}
		if d.ConversionRate != nil {
			row.BadgeUsers = FormatInt(d.BadgeUsers)
			row.ConversionRate = FormatPercent(*d.ConversionRate)
		}
		out = append(out, row)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
