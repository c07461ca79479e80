package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/normalize"
)

// DefaultTimelineLimit caps the number of timeline entries
const DefaultTimelineLimit = 12

// SortDepartments orders records by descending headcount, then ascending acronym.
// The input is not modified.
func SortDepartments(records []roadmap.DepartmentRecord) []roadmap.DepartmentRecord {
	out := append([]roadmap.DepartmentRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Headcount != out[j].Headcount {
			return out[i].Headcount > out[j].Headcount
		}
		return out[i].Acronym < out[j].Acronym
	})
	return out
}

// CoverageOrder orders records by ascending acronym
func CoverageOrder(records []roadmap.DepartmentRecord) []roadmap.DepartmentRecord {
	out := append([]roadmap.DepartmentRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Acronym < out[j].Acronym
	})
	return out
}

// Timeline selects dated records in ascending date order, preferring those on
// or after today, and keeps at most limit entries.
func Timeline(records []roadmap.DepartmentRecord, today time.Time, limit int) []roadmap.TimelineEntry {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}

	var dated []roadmap.DepartmentRecord
	for _, r := range records {
		if r.HasRolloutDate() {
			dated = append(dated, r)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].RolloutDate.Before(*dated[j].RolloutDate)
	})

	var upcoming []roadmap.DepartmentRecord
	for _, r := range dated {
		if !r.RolloutDate.Before(today) {
			upcoming = append(upcoming, r)
		}
	}
	source := dated
	if len(upcoming) > 0 {
		source = upcoming
	}
	if len(source) > limit {
		source = source[:limit]
	}

	entries := make([]roadmap.TimelineEntry, 0, len(source))
	for _, r := range source {
		entries = append(entries, roadmap.TimelineEntry{
			Department: r.Acronym,
			Date:       *r.RolloutDate,
			Milestone:  milestone(r),
			Status:     r.Status,
		})
	}
	return entries
}

func milestone(r roadmap.DepartmentRecord) string {
	if r.MilestoneTheme != "" && r.MilestoneTheme != roadmap.NoMilestoneTheme {
		return r.MilestoneTheme
	}
	return phaseLabel(r.Quarter) + " rollout"
}

func phaseLabel(quarter string) string {
	if quarter == "" {
		return roadmap.UnspecifiedPhase
	}
	return quarter
}

// Phases groups records by quarter, ordered Q1..Q4 with everything else last.
func Phases(records []roadmap.DepartmentRecord) []roadmap.PhaseStat {
	out := []roadmap.PhaseStat{}
	index := make(map[string]int)
	for _, r := range records {
		label := phaseLabel(r.Quarter)
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, roadmap.PhaseStat{Phase: label})
		}
		out[i].Total++
		out[i].Headcount += r.Headcount
	}
	sort.SliceStable(out, func(i, j int) bool {
		return normalize.QuarterSortValue(out[i].Phase) < normalize.QuarterSortValue(out[j].Phase)
	})
	return out
}

// Health counts records per status in the fixed health order, omitting empty buckets.
func Health(records []roadmap.DepartmentRecord) []roadmap.HealthStat {
	counts := make(map[roadmap.Status]int)
	for _, r := range records {
		counts[r.Status]++
	}
	out := []roadmap.HealthStat{}
	for _, s := range roadmap.HealthOrder {
		if counts[s] > 0 {
			out = append(out, roadmap.HealthStat{Label: s, Count: counts[s]})
		}
	}
	return out
}

// Forecast counts dated records falling within 30 and 90 days of today
// (both ends inclusive) and the records without a date.
func Forecast(records []roadmap.DepartmentRecord, today time.Time) roadmap.Forecast {
	end30 := today.Add(30 * 24 * time.Hour)
	end90 := today.Add(90 * 24 * time.Hour)

	var f roadmap.Forecast
	for _, r := range records {
		if !r.HasRolloutDate() {
			f.Unscheduled++
			continue
		}
		d := *r.RolloutDate
		if d.Before(today) {
			continue
		}
		if !d.After(end30) {
			f.Next30++
			f.Next30Headcount += r.Headcount
		}
		if !d.After(end90) {
			f.Next90++
		}
	}
	return f
}

// Summary computes the dashboard KPIs
func Summary(records []roadmap.DepartmentRecord) roadmap.Summary {
	s := roadmap.Summary{Departments: len(records)}

	headcounts := make(stats.Float64Data, 0, len(records))
	var rates []float64
	for _, r := range records {
		s.TotalHeadcount += r.Headcount
		s.TotalBadgeUsers += r.BadgeUsers
		headcounts = append(headcounts, float64(r.Headcount))
		if r.HasRolloutDate() {
			s.WithDates++
		}
		if r.ConversionRate != nil && r.Headcount > 0 {
			s.ConversionDeptCount++
			rates = append(rates, *r.ConversionRate)
		}
	}

	if s.TotalHeadcount > 0 {
		s.ConversionRate = float64(s.TotalBadgeUsers) / float64(s.TotalHeadcount) * 100
	}
	if median, err := stats.Median(headcounts); err == nil {
		s.MedianHeadcount = median
	}
	if len(rates) > 0 {
		s.MeanDeptConversion = stat.Mean(rates, nil)
	}
	return s
}

// SortKey is a column of the readiness table
type SortKey string

const (
	SortAcronym        SortKey = "acronym"
	SortHeadcount      SortKey = "headcount"
	SortBadgeUsers     SortKey = "badgeUsers"
	SortConversionRate SortKey = "conversionRate"
	SortQuarter        SortKey = "quarter"
	SortRolloutDate    SortKey = "rolloutDate"
	SortStatus         SortKey = "status"
)

// SortKeys lists the accepted table sort keys
var SortKeys = []SortKey{SortAcronym, SortHeadcount, SortBadgeUsers, SortConversionRate, SortQuarter, SortRolloutDate, SortStatus}

// ParseSortKey returns the key named s, or SortAcronym when unknown.
func ParseSortKey(s string) SortKey {
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), s) {
			return k
		}
	}
	return SortAcronym
}

// Direction is ascending or descending
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns Desc for "desc" (any case) and Asc otherwise.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// sortValue is a table cell value; ok is false when the value is missing.
type sortValue struct {
	num   float64
	text  string
	isNum bool
	ok    bool
}

func valueOf(r roadmap.DepartmentRecord, key SortKey) sortValue {
	switch key {
	case SortHeadcount:
		return sortValue{num: float64(r.Headcount), isNum: true, ok: true}
	case SortBadgeUsers:
		return sortValue{num: float64(r.BadgeUsers), isNum: true, ok: true}
	case SortConversionRate:
		if r.ConversionRate == nil {
			return sortValue{}
		}
		return sortValue{num: *r.ConversionRate, isNum: true, ok: true}
	case SortRolloutDate:
		if !r.HasRolloutDate() {
			return sortValue{}
		}
		return sortValue{num: float64(r.RolloutDate.UnixMilli()), isNum: true, ok: true}
	case SortQuarter:
		return sortValue{text: r.Quarter, ok: true}
	case SortStatus:
		return sortValue{text: string(r.Status), ok: true}
	default:
		return sortValue{text: r.Acronym, ok: true}
	}
}

// SortTable orders records for the readiness table. Missing values sort last
// ascending and first descending; text compares case-insensitively with
// digit runs compared by value.
func SortTable(records []roadmap.DepartmentRecord, key SortKey, dir Direction) []roadmap.DepartmentRecord {
	sign := 1
	if dir == Desc {
		sign = -1
	}

	out := append([]roadmap.DepartmentRecord(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return compareValues(valueOf(out[i], key), valueOf(out[j], key))*sign < 0
	})
	return out
}

func compareValues(a, b sortValue) int {
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		return 1
	case !b.ok:
		return -1
	case a.isNum && b.isNum:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	}
	return NaturalCompare(a.text, b.text)
}
