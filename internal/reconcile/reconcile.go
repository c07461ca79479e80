package reconcile

import (
	"math"
	"time"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/normalize"
)

// DefaultRiskKeywords flag a department as at risk when found in its note
var DefaultRiskKeywords = []string{"missed", "delay", "overdue", "risk"}

// DefaultWatchWindowDays is how close a future rollout must be to be watched
const DefaultWatchWindowDays = 30

// Options tune status derivation
type Options struct {
	Location        *time.Location
	RiskKeywords    []string
	WatchWindowDays int
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.RiskKeywords == nil {
		o.RiskKeywords = DefaultRiskKeywords
	}
	if o.WatchWindowDays <= 0 {
		o.WatchWindowDays = DefaultWatchWindowDays
	}
	return o
}

// Reconciler merges extracted rows into one record per acronym
type Reconciler struct {
	opts Options
}

// New creates a reconciler
func New(opts Options) *Reconciler {
	return &Reconciler{opts: opts.withDefaults()}
}

// Reconcile applies department-count rows, then timeline rows, each in file
// order, and finalizes the derived fields against now. Records are returned
// in first-seen order.
func (r *Reconciler) Reconcile(ex roadmap.Extraction, now time.Time) []roadmap.DepartmentRecord {
	var order []string
	byAcronym := make(map[string]*roadmap.DepartmentRecord)
	get := func(acronym string) *roadmap.DepartmentRecord {
		rec, ok := byAcronym[acronym]
		if !ok {
			rec = roadmap.NewDepartmentRecord(acronym)
			byAcronym[acronym] = rec
			order = append(order, acronym)
		}
		return rec
	}

	for _, row := range ex.DeptRows {
		rec := get(row.Acronym)
		mergeName(rec, row.Name)
		rec.Headcount = max(rec.Headcount, row.Headcount)
		mergeQuarter(rec, row.Quarter)
		mergeRate(rec, row.ConversionRate)
	}

	for _, row := range ex.TimelineRows {
		rec := get(row.Acronym)
		mergeName(rec, row.Name)
		if row.Count > 0 {
			rec.Headcount = max(rec.Headcount, row.Count)
		}
		mergeQuarter(rec, row.Quarter)
		if row.Owner != "" {
			rec.Owner = row.Owner
		}
		if row.Note != "" {
			rec.Note = row.Note
		}
		mergeRate(rec, row.ConversionRate)
		if row.RolloutDate != nil && (rec.RolloutDate == nil || row.RolloutDate.Before(*rec.RolloutDate)) {
			d := *row.RolloutDate
			rec.RolloutDate = &d
		}
	}

	today := roadmap.StartOfDay(now, r.opts.Location)
	out := make([]roadmap.DepartmentRecord, 0, len(order))
	for _, acronym := range order {
		rec := byAcronym[acronym]
		r.finalize(rec, ex, today)
		out = append(out, *rec)
	}
	return out
}

func mergeName(rec *roadmap.DepartmentRecord, name string) {
	if name != "" {
		rec.Name = name
	}
}

func mergeQuarter(rec *roadmap.DepartmentRecord, quarter string) {
	if rec.Quarter == "" {
		rec.Quarter = quarter
	}
}

func mergeRate(rec *roadmap.DepartmentRecord, rate *float64) {
	if rate != nil {
		v := *rate
		rec.ConversionRate = &v
	}
}

func (r *Reconciler) finalize(rec *roadmap.DepartmentRecord, ex roadmap.Extraction, today time.Time) {
	if rec.Name == "" {
		rec.Name = ex.CorrectedNames[rec.Acronym]
	}
	if rec.Quarter == "" && rec.HasRolloutDate() {
		rec.Quarter = normalize.QuarterFromDate(*rec.RolloutDate)
	}

	rec.MilestoneTheme = roadmap.NoMilestoneTheme
	if theme, ok := ex.QuarterThemes[rec.Quarter]; ok && theme != "" {
		rec.MilestoneTheme = theme
	}

	rec.Status = r.DeriveStatus(rec.RolloutDate, rec.Note, today)

	rec.BadgeUsers = 0
	if rec.ConversionRate != nil && rec.Headcount > 0 {
		rec.BadgeUsers = int(math.Round(*rec.ConversionRate / 100 * float64(rec.Headcount)))
	}
}

// DeriveStatus classifies a rollout. First match wins: risk keyword in the
// note, no date, date before today, date within the watch window, otherwise
// on track.
func (r *Reconciler) DeriveStatus(rollout *time.Time, note string, today time.Time) roadmap.Status {
	if normalize.ContainsAny(note, r.opts.RiskKeywords) {
		return roadmap.StatusAtRisk
	}
	if rollout == nil || rollout.IsZero() {
		return roadmap.StatusWatch
	}
	if rollout.Before(today) {
		return roadmap.StatusComplete
	}
	if roadmap.DaysBetween(today, *rollout) <= float64(r.opts.WatchWindowDays) {
		return roadmap.StatusWatch
	}
	return roadmap.StatusOnTrack
}
