package extract

import (
	"math"
	"time"

	"roadmapboard/domain/cell"
	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/normalize"
)

// Extractor turns sheet matrices into typed rows. Malformed rows are skipped,
// never reported.
type Extractor struct {
	locator *Locator
	labels  normalize.LabelFilter
	loc     *time.Location
}

// NewExtractor creates an extractor; dates are placed in loc.
func NewExtractor(locator *Locator, labels normalize.LabelFilter, loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.Local
	}
	return &Extractor{locator: locator, labels: labels, loc: loc}
}

// Result holds the rows one job produced
type Result struct {
	Names    []roadmap.NameRow
	Themes   []roadmap.ThemeRow
	Depts    []roadmap.DeptCountRow
	Timeline []roadmap.TimelineRow
}

// Run executes a single job against its sheet
func (e *Extractor) Run(job Job, matrix cell.Matrix) Result {
	switch job.Role {
	case RoleCorrectedNames:
		return Result{Names: e.CorrectedNames(matrix)}
	case RoleQuarterThemes:
		return Result{Themes: e.QuarterThemes(matrix)}
	case RoleDeptCounts:
		return Result{Depts: e.DeptCounts(matrix)}
	case RoleTimeline:
		return Result{Timeline: e.Timeline(matrix)}
	}
	return Result{}
}

// CorrectedNames reads the acronym -> full name lookup sheet
func (e *Extractor) CorrectedNames(matrix cell.Matrix) []roadmap.NameRow {
	header, ok := e.locator.Locate(matrix, FieldAbbreviation, FieldFullDepartmentName)
	if !ok {
		return nil
	}

	var out []roadmap.NameRow
	for _, row := range matrix[header.RowIndex+1:] {
		acronym := normalize.Acronym(cell.ReadText(row, header.Column(FieldAbbreviation)))
		name := cell.ReadText(row, header.Column(FieldFullDepartmentName))
		if acronym == "" || name == "" {
			continue
		}
		out = append(out, roadmap.NameRow{Acronym: acronym, Name: name})
	}
	return out
}

// QuarterThemes reads quarter (column A) -> theme (column B) pairs from any row.
func (e *Extractor) QuarterThemes(matrix cell.Matrix) []roadmap.ThemeRow {
	var out []roadmap.ThemeRow
	for _, row := range matrix {
		quarter := normalize.Quarter(cell.ReadText(row, 0))
		theme := cell.ReadText(row, 1)
		if quarter == "" || theme == "" {
			continue
		}
		out = append(out, roadmap.ThemeRow{Quarter: quarter, Theme: theme})
	}
	return out
}

// DeptCounts reads a department-count sheet
func (e *Extractor) DeptCounts(matrix cell.Matrix) []roadmap.DeptCountRow {
	header, ok := e.locator.Locate(matrix, FieldAbbreviation, FieldFullDepartmentName, FieldHeadcount)
	if !ok {
		return nil
	}

	var out []roadmap.DeptCountRow
	for _, row := range matrix[header.RowIndex+1:] {
		acronym := normalize.Acronym(cell.ReadText(row, header.Column(FieldAbbreviation)))
		name := cell.ReadText(row, header.Column(FieldFullDepartmentName))
		if acronym == "" || e.labels.Matches(name) {
			continue
		}
		out = append(out, roadmap.DeptCountRow{
			Acronym:        acronym,
			Name:           name,
			Headcount:      readCount(row, header.Column(FieldHeadcount)),
			Quarter:        normalize.Quarter(cell.ReadText(row, header.Column(FieldQuarter))),
			ConversionRate: normalize.Percent(cell.ReadNumber(row, header.Column(FieldConversionRate))),
		})
	}
	return out
}

// Timeline reads the communication timeline sheet
func (e *Extractor) Timeline(matrix cell.Matrix) []roadmap.TimelineRow {
	header, ok := e.locator.Locate(matrix, FieldDept, FieldRolloutDate)
	if !ok {
		return nil
	}

	var out []roadmap.TimelineRow
	for _, row := range matrix[header.RowIndex+1:] {
		acronym := normalize.Acronym(cell.ReadText(row, header.Column(FieldDept)))
		name := cell.ReadText(row, header.Column(FieldFullDepartmentName))
		if acronym == "" || e.labels.Matches(name) {
			continue
		}

		var rollout *time.Time
		if d, ok := cell.ReadDate(row, header.Column(FieldRolloutDate), e.loc); ok {
			rollout = &d
		}

		out = append(out, roadmap.TimelineRow{
			Acronym:        acronym,
			Name:           name,
			Quarter:        normalize.Quarter(cell.ReadText(row, header.Column(FieldQtr))),
			RolloutDate:    rollout,
			Owner:          cell.ReadText(row, header.Column(FieldCommSteward)),
			Note:           cell.ReadText(row, header.Column(FieldNote)),
			Count:          readCount(row, header.Column(FieldCount)),
			ConversionRate: normalize.Percent(cell.ReadNumber(row, header.Column(FieldConversionRate))),
		})
	}
	return out
}

// readCount rounds a numeric cell to a non-negative integer; unreadable is 0.
func readCount(row cell.Row, index int) int {
	v, ok := cell.ReadNumber(row, index)
	if !ok {
		return 0
	}
	return int(math.Max(0, math.Round(v)))
}
