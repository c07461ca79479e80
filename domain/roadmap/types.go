package roadmap

import (
	"time"
)

// Status is the derived health classification of a department rollout
type Status string

const (
	StatusAtRisk   Status = "At Risk"
	StatusWatch    Status = "Watch"
	StatusComplete Status = "Complete"
	StatusOnTrack  Status = "On Track"
	StatusNoData   Status = "No Data"
)

// HealthOrder is the fixed bucket order of the health histogram.
var HealthOrder = []Status{StatusAtRisk, StatusWatch, StatusOnTrack, StatusComplete, StatusNoData}

const (
	// NoMilestoneTheme marks a record whose quarter has no theme
	NoMilestoneTheme = "-"
	// UnspecifiedPhase labels records without a quarter
	UnspecifiedPhase = "Unspecified"
)

// DepartmentRecord is the single reconciled record per department acronym.
type DepartmentRecord struct {
	Acronym        string     `json:"acronym"`
	Name           string     `json:"name"`
	Headcount      int        `json:"headcount"`
	Quarter        string     `json:"quarter"`
	RolloutDate    *time.Time `json:"rolloutDate"`
	Owner          string     `json:"owner"`
	Note           string     `json:"note"`
	ConversionRate *float64   `json:"conversionRate"`
	MilestoneTheme string     `json:"milestoneTheme"`
	Status         Status     `json:"status"`
	BadgeUsers     int        `json:"badgeUsers"`
}

// NewDepartmentRecord creates an empty record for acronym
func NewDepartmentRecord(acronym string) *DepartmentRecord {
	return &DepartmentRecord{
		Acronym:        acronym,
		MilestoneTheme: NoMilestoneTheme,
		Status:         StatusNoData,
	}
}

// HasRolloutDate reports whether a valid rollout date is known
func (d DepartmentRecord) HasRolloutDate() bool {
	return d.RolloutDate != nil && !d.RolloutDate.IsZero()
}

// TimelineEntry is one upcoming (or most recent) rollout milestone.
type TimelineEntry struct {
	Department string    `json:"department"`
	Date       time.Time `json:"date"`
	Milestone  string    `json:"milestone"`
	Status     Status    `json:"status"`
}

// PhaseStat aggregates departments sharing a quarter
type PhaseStat struct {
	Phase     string `json:"phase"`
	Total     int    `json:"total"`
	Headcount int    `json:"headcount"`
}

// HealthStat is one non-empty bucket of the status histogram
type HealthStat struct {
	Label Status `json:"label"`
	Count int    `json:"count"`
}

// Forecast partitions scheduled departments into look-ahead windows.
type Forecast struct {
	Next30          int `json:"next30"`
	Next30Headcount int `json:"next30Headcount"`
	Next90          int `json:"next90"`
	Unscheduled     int `json:"unscheduled"`
}

// Summary holds the dashboard KPIs
type Summary struct {
	Departments         int     `json:"departments"`
	TotalHeadcount      int     `json:"totalHeadcount"`
	WithDates           int     `json:"withDates"`
	ConversionDeptCount int     `json:"conversionDeptCount"`
	TotalBadgeUsers     int     `json:"totalBadgeUsers"`
	ConversionRate      float64 `json:"conversionRate"`
	MedianHeadcount     float64 `json:"medianHeadcount"`
	MeanDeptConversion  float64 `json:"meanDeptConversion"`
}

// Meta describes where a snapshot came from
type Meta struct {
	Source        string    `json:"source"`
	SheetsScanned int       `json:"sheetsScanned"`
	DeptRows      int       `json:"deptRows"`
	TimelineRows  int       `json:"timelineRows"`
	LoadedAt      time.Time `json:"lastLoadedAt"`
}

// Snapshot is the complete derived state of one load. It is never mutated
// after construction; a reload builds a new one.
type Snapshot struct {
	Departments []DepartmentRecord `json:"departments"`
	Timeline    []TimelineEntry    `json:"timeline"`
	Phases      []PhaseStat        `json:"phases"`
	Health      []HealthStat       `json:"health"`
	Forecast    Forecast           `json:"forecast"`
	Summary     Summary            `json:"summary"`
	Meta        Meta               `json:"meta"`
}
