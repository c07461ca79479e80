package roadmap

import "time"

// NameRow maps an acronym to its corrected department name
type NameRow struct {
	Acronym string
	Name    string
}

// ThemeRow maps a quarter to its milestone theme
type ThemeRow struct {
	Quarter string
	Theme   string
}

// DeptCountRow is one row of a department-count sheet
type DeptCountRow struct {
	Acronym        string
	Name           string
	Headcount      int
	Quarter        string
	ConversionRate *float64
}

// TimelineRow is one row of the communication timeline sheet
type TimelineRow struct {
	Acronym        string
	Name           string
	Quarter        string
	RolloutDate    *time.Time
	Owner          string
	Note           string
	Count          int
	ConversionRate *float64
}

// Extraction is everything the sheet extractors produced for one workbook,
// in file order.
type Extraction struct {
	CorrectedNames map[string]string
	QuarterThemes  map[string]string
	DeptRows       []DeptCountRow
	TimelineRows   []TimelineRow
	SheetsScanned  int
}
