package cell

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Kind tags the variant held by a Cell
type Kind string

const (
	KindEmpty  Kind = "empty"
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// Cell is one spreadsheet value as handed over by the workbook parser.
// Raw keeps the authored text for every non-empty kind.
type Cell struct {
	Kind Kind
	Raw  string
	Num  float64
	Time time.Time
}

// Row is one matrix row; Matrix is one sheet.
type (
	Row    []Cell
	Matrix []Row
)

// Sheet is a named matrix in workbook order
type Sheet struct {
	Name   string
	Matrix Matrix
}

// NewEmpty creates an empty cell
func NewEmpty() Cell {
	return Cell{Kind: KindEmpty}
}

// NewText creates a text cell; an empty string yields an empty cell.
func NewText(s string) Cell {
	if s == "" {
		return NewEmpty()
	}
	return Cell{Kind: KindText, Raw: s}
}

// NewNumber creates a numeric cell
func NewNumber(v float64) Cell {
	return Cell{Kind: KindNumber, Raw: strconv.FormatFloat(v, 'f', -1, 64), Num: v}
}

// NewDate creates a date cell
func NewDate(t time.Time) Cell {
	return Cell{Kind: KindDate, Raw: t.Format(time.RFC3339), Time: t}
}

var isoDateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Parse coerces a raw cell string (as produced by excelize with RawCellValue)
// into a tagged cell. Date cells stored as ISO timestamps become KindDate;
// date serials stay numeric and are interpreted by ReadDate.
func Parse(raw string) Cell {
	if raw == "" {
		return NewEmpty()
	}
	trimmed := strings.TrimSpace(raw)
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
		return Cell{Kind: KindNumber, Raw: raw, Num: v}
	}
	for _, layout := range isoDateTimeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Cell{Kind: KindDate, Raw: raw, Time: t}
		}
	}
	return Cell{Kind: KindText, Raw: raw}
}

// IsEmpty reports whether the cell carries no value
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty || c.Kind == ""
}

// String returns the authored text of the cell
func (c Cell) String() string {
	if c.IsEmpty() {
		return ""
	}
	return c.Raw
}

func at(row Row, index int) (Cell, bool) {
	if index < 0 || index >= len(row) {
		return Cell{}, false
	}
	return row[index], true
}

// ReadText returns the trimmed text of row[index], "" when the index is unresolved.
func ReadText(row Row, index int) string {
	c, ok := at(row, index)
	if !ok {
		return ""
	}
	return strings.TrimSpace(c.String())
}

// ReadNumber returns the numeric value of row[index]. Text cells are accepted
// after removing thousands separators, percent signs and whitespace.
func ReadNumber(row Row, index int) (float64, bool) {
	c, ok := at(row, index)
	if !ok {
		return 0, false
	}
	switch c.Kind {
	case KindNumber:
		return c.Num, true
	case KindText:
		cleaned := strings.Map(func(r rune) rune {
			if r == ',' || r == '%' || unicode.IsSpace(r) {
				return -1
			}
			return r
		}, c.Raw)
		if cleaned == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Serial bounds accepted as dates (roughly 1954..2091).
const (
	minDateSerial = 20000
	maxDateSerial = 70000
)

// FromSerial converts a 1900-epoch spreadsheet serial (serial 1 = 1899-12-31)
// to a calendar date at noon in loc. The fractional time of day is dropped.
func FromSerial(serial float64, loc *time.Location) time.Time {
	days := int(math.Floor(serial))
	return time.Date(1899, time.December, 30+days, 12, 0, 0, 0, loc)
}

var isoDate = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

var textDateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	time.RFC3339,
}

// ReadDate returns the calendar date held by row[index] at noon in loc.
func ReadDate(row Row, index int, loc *time.Location) (time.Time, bool) {
	c, ok := at(row, index)
	if !ok {
		return time.Time{}, false
	}
	switch c.Kind {
	case KindDate:
		if c.Time.IsZero() {
			return time.Time{}, false
		}
		return c.Time.In(loc), true
	case KindNumber:
		if c.Num > minDateSerial && c.Num < maxDateSerial {
			return FromSerial(c.Num, loc), true
		}
		return time.Time{}, false
	case KindText:
		return parseTextDate(strings.TrimSpace(c.Raw), loc)
	default:
		return time.Time{}, false
	}
}

func parseTextDate(text string, loc *time.Location) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	if m := isoDate.FindStringSubmatch(text); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		d, _ := strconv.Atoi(m[3])
		return time.Date(y, time.Month(mo), d, 12, 0, 0, 0, loc), true
	}
	for _, layout := range textDateLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			y, mo, d := t.Date()
			return time.Date(y, mo, d, 12, 0, 0, 0, loc), true
		}
	}
	return time.Time{}, false
}
