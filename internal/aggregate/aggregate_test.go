package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmapboard/domain/roadmap"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func rate(v float64) *float64 { return &v }

func acronyms[T any](items []T, get func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = get(it)
	}
	return out
}

func recAcronym(r roadmap.DepartmentRecord) string { return r.Acronym }

func TestSortDepartments(t *testing.T) {
	in := []roadmap.DepartmentRecord{
		{Acronym: "IT", Headcount: 50},
		{Acronym: "HR", Headcount: 120},
		{Acronym: "FIN", Headcount: 50},
		{Acronym: "OPS", Headcount: 0},
	}

	out := SortDepartments(in)
	assert.Equal(t, []string{"HR", "FIN", "IT", "OPS"}, acronyms(out, recAcronym))
	assert.Equal(t, "IT", in[0].Acronym, "input untouched")

	assert.Equal(t, []string{"FIN", "HR", "IT", "OPS"}, acronyms(CoverageOrder(in), recAcronym))
}

func TestTimelinePrefersUpcoming(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "PAST", RolloutDate: date(2024, 5, 1), Quarter: "Q2", MilestoneTheme: "-"},
		{Acronym: "LATE", RolloutDate: date(2024, 9, 1), Quarter: "Q3", MilestoneTheme: "Campus wave"},
		{Acronym: "SOON", RolloutDate: date(2024, 6, 20), MilestoneTheme: "-", Status: roadmap.StatusWatch},
		{Acronym: "NODATE"},
	}

	entries := Timeline(records, today, 0)
	require.Len(t, entries, 2)
	assert.Equal(t, "SOON", entries[0].Department)
	assert.Equal(t, "Unspecified rollout", entries[0].Milestone)
	assert.Equal(t, roadmap.StatusWatch, entries[0].Status)
	assert.Equal(t, "LATE", entries[1].Department)
	assert.Equal(t, "Campus wave", entries[1].Milestone)
}

func TestTimelineFallsBackToPast(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "B", RolloutDate: date(2024, 5, 1), Quarter: "Q2", MilestoneTheme: "-"},
		{Acronym: "A", RolloutDate: date(2024, 2, 1), Quarter: "Q1", MilestoneTheme: "-"},
	}

	entries := Timeline(records, today, 0)
	require.Len(t, entries, 2)
	assert.Equal(t, "A", entries[0].Department)
	assert.Equal(t, "Q1 rollout", entries[0].Milestone)
}

func TestTimelineLimit(t *testing.T) {
	var records []roadmap.DepartmentRecord
	for i := 0; i < 20; i++ {
		records = append(records, roadmap.DepartmentRecord{
			Acronym:     string(rune('A' + i)),
			RolloutDate: date(2024, 7, 1+i),
		})
	}

	entries := Timeline(records, today, 0)
	require.Len(t, entries, DefaultTimelineLimit)
	assert.Equal(t, "A", entries[0].Department)
	assert.Equal(t, "L", entries[11].Department)

	assert.Len(t, Timeline(records, today, 5), 5)
	assert.Empty(t, Timeline(nil, today, 0))
}

func TestPhases(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "A", Quarter: "Q3", Headcount: 10},
		{Acronym: "B", Quarter: "", Headcount: 5},
		{Acronym: "C", Quarter: "Q1", Headcount: 7},
		{Acronym: "D", Quarter: "Q3", Headcount: 3},
	}

	phases := Phases(records)
	assert.Equal(t, []roadmap.PhaseStat{
		{Phase: "Q1", Total: 1, Headcount: 7},
		{Phase: "Q3", Total: 2, Headcount: 13},
		{Phase: "Unspecified", Total: 1, Headcount: 5},
	}, phases)
}

func TestHealth(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Status: roadmap.StatusComplete},
		{Status: roadmap.StatusWatch},
		{Status: roadmap.StatusAtRisk},
		{Status: roadmap.StatusWatch},
	}

	assert.Equal(t, []roadmap.HealthStat{
		{Label: roadmap.StatusAtRisk, Count: 1},
		{Label: roadmap.StatusWatch, Count: 2},
		{Label: roadmap.StatusComplete, Count: 1},
	}, Health(records))
	assert.Empty(t, Health(nil))
}

func TestForecast(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "SOON", RolloutDate: date(2024, 7, 10), Headcount: 40},
		{Acronym: "PAST", RolloutDate: date(2024, 6, 1), Headcount: 99},
		{Acronym: "LATER", RolloutDate: date(2024, 8, 20), Headcount: 10},
		{Acronym: "FAR", RolloutDate: date(2025, 1, 1), Headcount: 10},
		{Acronym: "NONE"},
	}

	f := Forecast(records, today)
	assert.Equal(t, roadmap.Forecast{Next30: 1, Next30Headcount: 40, Next90: 2, Unscheduled: 1}, f)
}

func TestSummary(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "A", Headcount: 100, ConversionRate: rate(50), BadgeUsers: 50, RolloutDate: date(2024, 7, 1)},
		{Acronym: "B", Headcount: 50},
	}

	s := Summary(records)
	assert.Equal(t, 2, s.Departments)
	assert.Equal(t, 150, s.TotalHeadcount)
	assert.Equal(t, 50, s.TotalBadgeUsers)
	assert.Equal(t, 1, s.WithDates)
	assert.Equal(t, 1, s.ConversionDeptCount)
	assert.InDelta(t, 33.333, s.ConversionRate, 0.001)
	assert.Equal(t, 75.0, s.MedianHeadcount)
	assert.Equal(t, 50.0, s.MeanDeptConversion)
}

func TestSummaryEmpty(t *testing.T) {
	assert.Equal(t, roadmap.Summary{}, Summary(nil))
}

func TestSortTable(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "IT", ConversionRate: rate(20), Quarter: "Q10"},
		{Acronym: "hr", ConversionRate: nil, Quarter: "Q2"},
		{Acronym: "FIN", ConversionRate: rate(80), Quarter: "q1"},
	}

	asc := SortTable(records, SortConversionRate, Asc)
	assert.Equal(t, []string{"IT", "FIN", "hr"}, acronyms(asc, recAcronym))

	desc := SortTable(records, SortConversionRate, Desc)
	assert.Equal(t, []string{"hr", "FIN", "IT"}, acronyms(desc, recAcronym))

	byQuarter := SortTable(records, SortQuarter, Asc)
	assert.Equal(t, []string{"FIN", "hr", "IT"}, acronyms(byQuarter, recAcronym))

	byAcronym := SortTable(records, ParseSortKey("bogus"), ParseDirection(""))
	assert.Equal(t, []string{"FIN", "hr", "IT"}, acronyms(byAcronym, recAcronym))
}

func TestSortTableRolloutDate(t *testing.T) {
	records := []roadmap.DepartmentRecord{
		{Acronym: "A"},
		{Acronym: "B", RolloutDate: date(2024, 9, 1)},
		{Acronym: "C", RolloutDate: date(2024, 7, 1)},
	}

	assert.Equal(t, []string{"C", "B", "A"}, acronyms(SortTable(records, SortRolloutDate, Asc), recAcronym))
	assert.Equal(t, []string{"A", "B", "C"}, acronyms(SortTable(records, SortRolloutDate, Desc), recAcronym))
}

func TestParseSortKeyAndDirection(t *testing.T) {
	assert.Equal(t, SortBadgeUsers, ParseSortKey("BadgeUsers"))
	assert.Equal(t, SortAcronym, ParseSortKey(""))
	assert.Equal(t, Desc, ParseDirection("DESC"))
	assert.Equal(t, Asc, ParseDirection("sideways"))
}

func TestNaturalCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"Q2", "Q10", -1},
		{"abc", "ABC", 0},
		{"a", "ab", -1},
		{"x01", "x1", 0},
		{"Watch", "Complete", 1},
		{"", "", 0},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, NaturalCompare(test.a, test.b), "%q vs %q", test.a, test.b)
	}
}
