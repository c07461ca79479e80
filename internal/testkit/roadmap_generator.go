// Package testkit generates synthetic roadmap workbooks for demos and tests.
package testkit

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/xuri/excelize/v2"

	"roadmapboard/internal/errors"
	"roadmapboard/internal/normalize"
)

// Sheet names written by the generator
const (
	SheetCorrectedNames = "Corrected Dept Names"
	SheetDeptCounts     = "Dept Cnt"
	SheetQuarterThemes  = "Quarterly Rollout"
	SheetTimeline       = "Communication Timeline v2"
)

// Department is one entry of the generator's department catalog
type Department struct {
	Acronym string
	Name    string
}

// Catalog is the pool departments are drawn from, in order
var Catalog = []Department{
	{"DOT", "Transportation"},
	{"HR", "Human Resources"},
	{"IT", "Information Technology"},
	{"DPW", "Public Works"},
	{"FIN", "Finance"},
	{"PD", "Police Department"},
	{"FD", "Fire Department"},
	{"LIB", "Library"},
	{"PRK", "Parks and Recreation"},
	{"HLT", "Public Health"},
	{"WTR", "Water Utilities"},
	{"CLK", "City Clerk"},
}

var quarterThemes = [][]string{
	{"Q1", "Pilot"},
	{"Q2", "Early adopters"},
	{"Q3", "Campus wave"},
	{"Q4", "Enterprise"},
}

var stewards = []string{"Dana Ortiz", "Sam Lee", "Priya Nair", "Jordan Blake"}

// RoadmapGeneratorConfig configures the roadmap workbook generator
type RoadmapGeneratorConfig struct {
	DepartmentCount int       `json:"department_count"`
	StartDate       time.Time `json:"start_date"`
	// HorizonDays bounds how far after StartDate rollouts are scheduled
	HorizonDays     int     `json:"horizon_days"`
	RiskRate        float64 `json:"risk_rate"`
	UnscheduledRate float64 `json:"unscheduled_rate"`
	Seed            int64   `json:"seed"`
}

// DefaultRoadmapConfig returns sensible defaults for roadmap generation
func DefaultRoadmapConfig() RoadmapGeneratorConfig {
	return RoadmapGeneratorConfig{
		DepartmentCount: 8,
		StartDate:       time.Now().UTC().Truncate(24 * time.Hour),
		HorizonDays:     270,
		RiskRate:        0.15,
		UnscheduledRate: 0.15,
		Seed:            42,
	}
}

// RoadmapGenerator builds a workbook in the layout the dashboard reads
type RoadmapGenerator struct {
	config RoadmapGeneratorConfig
	rng    *rand.Rand
}

// NewRoadmapGenerator creates a new roadmap generator
func NewRoadmapGenerator(config RoadmapGeneratorConfig) *RoadmapGenerator {
	if config.DepartmentCount <= 0 || config.DepartmentCount > len(Catalog) {
		config.DepartmentCount = len(Catalog)
	}
	if config.HorizonDays <= 0 {
		config.HorizonDays = 270
	}
	return &RoadmapGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Workbook generates the workbook. The caller closes the returned file.
func (g *RoadmapGenerator) Workbook() (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCorrectedNames); err != nil {
		f.Close()
		return nil, errors.Wrap(err, "failed to name sheet")
	}
	for _, name := range []string{SheetDeptCounts, SheetQuarterThemes, SheetTimeline} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, errors.Wrapf(err, "failed to create sheet %s", name)
		}
	}

	w := &sheetWriter{file: f}
	depts := Catalog[:g.config.DepartmentCount]

	w.row(SheetCorrectedNames, "Abbreviation", "Full Department Name")
	for _, d := range depts {
		w.row(SheetCorrectedNames, d.Acronym, d.Name)
	}

	for _, qt := range quarterThemes {
		w.row(SheetQuarterThemes, qt[0], qt[1])
	}

	w.row(SheetDeptCounts, "Abbreviation", "Full Department Name", "Headcount", "Quarter", "Conversion Rate")
	w.row(SheetTimeline, "Dept", "Rollout Date", "Qtr", "Comm Steward", "Note", "Count")

	total := 0
	for _, d := range depts {
		headcount := 40 + g.rng.Intn(1200)
		total += headcount

		var conversion interface{} = ""
		if g.rng.Float64() < 0.7 {
			conversion = float64(g.rng.Intn(900)) / 10
		}

		if g.rng.Float64() < g.config.UnscheduledRate {
			w.row(SheetDeptCounts, d.Acronym, d.Name, headcount, "", conversion)
			continue
		}

		rollout := g.config.StartDate.AddDate(0, 0, g.rng.Intn(g.config.HorizonDays+60)-60)
		quarter := normalize.QuarterFromDate(rollout)
		note := ""
		if g.rng.Float64() < g.config.RiskRate {
			note = "Delayed pending badge reader install"
		}

		w.row(SheetDeptCounts, d.Acronym, d.Name, headcount, quarter, conversion)
		w.row(SheetTimeline, d.Acronym, rollout, quarter, stewards[g.rng.Intn(len(stewards))], note, headcount)
	}
	w.row(SheetDeptCounts, "", "Sum of Headcount", total, "", "")

	if w.err != nil {
		f.Close()
		return nil, w.err
	}
	return f, nil
}

// Bytes generates the workbook as .xlsx bytes
func (g *RoadmapGenerator) Bytes() ([]byte, error) {
	f, err := g.Workbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "failed to write workbook")
	}
	return bytes.Clone(buf.Bytes()), nil
}

// WriteFile generates the workbook and saves it to path
func (g *RoadmapGenerator) WriteFile(path string) error {
	f, err := g.Workbook()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save workbook %s", path)
	}
	return nil
}

// sheetWriter appends rows and keeps the first error
type sheetWriter struct {
	file *excelize.File
	rows map[string]int
	err  error
}

func (w *sheetWriter) row(sheet string, values ...interface{}) {
	if w.err != nil {
		return
	}
	if w.rows == nil {
		w.rows = map[string]int{}
	}
	w.rows[sheet]++
	cellRef := fmt.Sprintf("A%d", w.rows[sheet])
	if err := w.file.SetSheetRow(sheet, cellRef, &values); err != nil {
		w.err = errors.Wrapf(err, "failed to write %s!%s", sheet, cellRef)
	}
}
