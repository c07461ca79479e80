package extract

import (
	"sort"
	"strings"

	"roadmapboard/domain/cell"
	"roadmapboard/internal/normalize"
)

// Field is a logical column name resolved through the alias table
type Field string

const (
	FieldAbbreviation       Field = "abbreviation"
	FieldFullDepartmentName Field = "fulldepartmentname"
	FieldHeadcount          Field = "headcount"
	FieldQuarter            Field = "quarter"
	FieldDept               Field = "dept"
	FieldRolloutDate        Field = "rolloutdate"
	FieldQtr                Field = "qtr"
	FieldCommSteward        Field = "commsteward"
	FieldNote               Field = "note"
	FieldCount              Field = "count"
	FieldConversionRate     Field = "conversionrate"
)

// DefaultHeaderScanRows is how many leading rows are searched for a header
const DefaultHeaderScanRows = 30

// DefaultAliases returns the built-in alias table
func DefaultAliases() map[Field][]string {
	return map[Field][]string{
		FieldAbbreviation:       {"abbreviation", "abbr", "dept"},
		FieldFullDepartmentName: {"fulldepartmentname", "departmentname"},
		FieldHeadcount:          {"headcount", "count"},
		FieldQuarter:            {"quarter", "qtr"},
		FieldDept:               {"dept", "department", "abbreviation"},
		FieldRolloutDate:        {"rolloutdate", "date"},
		FieldQtr:                {"qtr", "quarter"},
		FieldCommSteward:        {"commsteward", "steward", "owner"},
		FieldNote:               {"note", "notes"},
		FieldCount:              {"count", "headcount"},
		FieldConversionRate:     {"conversionrate", "conversion", "conversionpercent", "digitalbadgeconversion"},
	}
}

// HeaderLocation is the header row of a sheet and the resolved column of
// every field that matched in that row.
type HeaderLocation struct {
	RowIndex int
	Columns  map[Field]int
}

// Column returns the column index of f, or -1 when f did not resolve.
func (h HeaderLocation) Column(f Field) int {
	if idx, ok := h.Columns[f]; ok {
		return idx
	}
	return -1
}

// Locator finds header rows using exact-or-prefix alias matching.
type Locator struct {
	aliases  map[Field][]string
	fields   []Field
	scanRows int
}

// NewLocator creates a locator. extra aliases are appended to the defaults;
// scanRows <= 0 selects DefaultHeaderScanRows.
func NewLocator(extra map[string][]string, scanRows int) *Locator {
	aliases := DefaultAliases()
	for name, list := range extra {
		f := Field(normalize.Header(name))
		aliases[f] = append(aliases[f], list...)
	}
	for f, list := range aliases {
		normalized := make([]string, 0, len(list))
		for _, a := range list {
			if n := normalize.Header(a); n != "" {
				normalized = append(normalized, n)
			}
		}
		aliases[f] = normalized
	}

	fields := make([]Field, 0, len(aliases))
	for f := range aliases {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	if scanRows <= 0 {
		scanRows = DefaultHeaderScanRows
	}
	return &Locator{aliases: aliases, fields: fields, scanRows: scanRows}
}

// Locate returns the first row within the scan window in which every required
// field resolves. ok is false when no such row exists; the sheet then
// contributes nothing.
func (l *Locator) Locate(matrix cell.Matrix, required ...Field) (HeaderLocation, bool) {
	limit := min(len(matrix), l.scanRows)

	for rowIndex := 0; rowIndex < limit; rowIndex++ {
		headers := make([]string, len(matrix[rowIndex]))
		for i, c := range matrix[rowIndex] {
			headers[i] = normalize.Header(c.String())
		}

		columns := make(map[Field]int)
		for _, f := range l.fields {
			if idx := findColumn(headers, l.aliases[f]); idx >= 0 {
				columns[f] = idx
			}
		}

		found := true
		for _, f := range required {
			if _, ok := columns[f]; !ok {
				found = false
				break
			}
		}
		if found {
			return HeaderLocation{RowIndex: rowIndex, Columns: columns}, true
		}
	}

	return HeaderLocation{}, false
}

// findColumn returns the leftmost column whose header equals or starts with
// any alias.
func findColumn(headers []string, aliases []string) int {
	for i, h := range headers {
		if h == "" {
			continue
		}
		for _, a := range aliases {
			if strings.HasPrefix(h, a) {
				return i
			}
		}
	}
	return -1
}
