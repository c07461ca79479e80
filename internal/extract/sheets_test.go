package extract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmapboard/domain/cell"
	"roadmapboard/internal/normalize"
)

func newTestExtractor() *Extractor {
	return NewExtractor(NewLocator(nil, 0), normalize.NewLabelFilter(nil), time.UTC)
}

func TestPlanRoles(t *testing.T) {
	jobs := Plan([]string{
		"Corrected Dept Names",
		"Communication Timeline v1",
		"Dept Cnt Q1",
		"Quarterly Rollout",
		"Communication Timeline v2",
		"Dept Cnt Q2",
		"Scratch",
	})

	require.Len(t, jobs, 5)
	assert.Equal(t, Job{SheetIndex: 0, SheetName: "Corrected Dept Names", Role: RoleCorrectedNames}, jobs[0])
	assert.Equal(t, Job{SheetIndex: 2, SheetName: "Dept Cnt Q1", Role: RoleDeptCounts}, jobs[1])
	assert.Equal(t, Job{SheetIndex: 3, SheetName: "Quarterly Rollout", Role: RoleQuarterThemes}, jobs[2])
	assert.Equal(t, Job{SheetIndex: 5, SheetName: "Dept Cnt Q2", Role: RoleDeptCounts}, jobs[3])
	assert.Equal(t, Job{SheetIndex: 4, SheetName: "Communication Timeline v2", Role: RoleTimeline}, jobs[4])
}

func TestPlanTimelineFallbacks(t *testing.T) {
	jobs := Plan([]string{"Communication Timeline", "Communication Timeline V1"})
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].SheetIndex)

	jobs = Plan([]string{"Old", "Communication-Timeline (draft)"})
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].SheetIndex)

	assert.Empty(t, Plan([]string{"Sheet1"}))
}

func TestCorrectedNames(t *testing.T) {
	m := matrix(
		[]string{"Abbreviation", "Full Department Name"},
		[]string{"hr", "Human Resources"},
		[]string{"", "No acronym"},
		[]string{"IT", ""},
		[]string{"FIN", "Finance"},
	)

	rows := newTestExtractor().CorrectedNames(m)
	require.Len(t, rows, 2)
	assert.Equal(t, "HR", rows[0].Acronym)
	assert.Equal(t, "Human Resources", rows[0].Name)
	assert.Equal(t, "FIN", rows[1].Acronym)
}

func TestQuarterThemes(t *testing.T) {
	m := matrix(
		[]string{"Quarter", "Theme"},
		[]string{"Q1", "Pilot"},
		[]string{"Quarter 2", "Early adopters"},
		[]string{"Q3", ""},
		[]string{"3", "Wave"},
	)

	rows := newTestExtractor().QuarterThemes(m)
	require.Len(t, rows, 3)
	assert.Equal(t, "Q1", rows[0].Quarter)
	assert.Equal(t, "Pilot", rows[0].Theme)
	assert.Equal(t, "Q2", rows[1].Quarter)
	assert.Equal(t, "Q3", rows[2].Quarter)
	assert.Equal(t, "Wave", rows[2].Theme)
}

func TestDeptCounts(t *testing.T) {
	m := matrix(
		[]string{"Department counts by quarter"},
		[]string{"Abbreviation", "Full Department Name", "Headcount", "Quarter", "Conversion Rate"},
		[]string{"HR", "Human Resources", "120.4", "Q1", "0.5"},
		[]string{"IT", "Information Technology", "-3", "", "45%"},
		[]string{"", "Sum of Headcount", "500", "", ""},
		[]string{"TOT", "Sum of Headcount", "500", "", ""},
		[]string{"VERYLONGACRONYM", "Too long", "10", "", ""},
		[]string{"FIN", "Finance", "n/a", "later", ""},
	)

	rows := newTestExtractor().DeptCounts(m)
	require.Len(t, rows, 3)

	assert.Equal(t, "HR", rows[0].Acronym)
	assert.Equal(t, 120, rows[0].Headcount)
	assert.Equal(t, "Q1", rows[0].Quarter)
	require.NotNil(t, rows[0].ConversionRate)
	assert.Equal(t, 50.0, *rows[0].ConversionRate)

	assert.Equal(t, "IT", rows[1].Acronym)
	assert.Equal(t, 0, rows[1].Headcount)
	require.NotNil(t, rows[1].ConversionRate)
	assert.Equal(t, 45.0, *rows[1].ConversionRate)

	assert.Equal(t, "FIN", rows[2].Acronym)
	assert.Equal(t, 0, rows[2].Headcount)
	assert.Equal(t, "", rows[2].Quarter)
	assert.Nil(t, rows[2].ConversionRate)
}

func TestDeptCountsWithoutHeader(t *testing.T) {
	m := matrix([]string{"HR", "Human Resources", "120"})
	assert.Empty(t, newTestExtractor().DeptCounts(m))
}

func TestTimeline(t *testing.T) {
	m := matrix(
		[]string{"Dept", "Full Department Name", "Qtr", "Rollout Date", "Comm Steward", "Note", "Count", "Conversion %"},
		[]string{"HR", "Human Resources", "Q2", "45463", "Dana", "", "130", ""},
		[]string{"IT", "", "", "2024-09-01", "", "Delayed by vendor", "", "0.2"},
		[]string{"FIN", "", "", "TBD", "", "", "", ""},
		[]string{"", "Remaining departments", "", "", "", "", "", ""},
	)

	rows := newTestExtractor().Timeline(m)
	require.Len(t, rows, 3)

	assert.Equal(t, "HR", rows[0].Acronym)
	assert.Equal(t, "Q2", rows[0].Quarter)
	require.NotNil(t, rows[0].RolloutDate)
	assert.Equal(t, time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC), *rows[0].RolloutDate)
	assert.Equal(t, "Dana", rows[0].Owner)
	assert.Equal(t, 130, rows[0].Count)
	assert.Nil(t, rows[0].ConversionRate)

	assert.Equal(t, "Delayed by vendor", rows[1].Note)
	require.NotNil(t, rows[1].RolloutDate)
	assert.Equal(t, time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC), *rows[1].RolloutDate)
	assert.Equal(t, 0, rows[1].Count)
	require.NotNil(t, rows[1].ConversionRate)
	assert.InDelta(t, 20.0, *rows[1].ConversionRate, 1e-9)

	assert.Nil(t, rows[2].RolloutDate)
}

func TestWorkbookMergesInFileOrder(t *testing.T) {
	sheets := []cell.Sheet{
		{Name: "Dept Cnt A", Matrix: matrix(
			[]string{"Abbreviation", "Full Department Name", "Headcount"},
			[]string{"HR", "Human Resources", "10"},
		)},
		{Name: "Corrected Dept Names", Matrix: matrix(
			[]string{"Abbreviation", "Full Department Name"},
			[]string{"HR", "Human Resources Dept"},
		)},
		{Name: "Dept Cnt B", Matrix: matrix(
			[]string{"Abbreviation", "Full Department Name", "Headcount"},
			[]string{"HR", "HR v2", "25"},
			[]string{"IT", "IT", "5"},
		)},
		{Name: "Communication Timeline", Matrix: matrix(
			[]string{"Dept", "Rollout Date"},
			[]string{"OPS", "2024-08-01"},
		)},
		{Name: "Quarterly Rollout", Matrix: matrix(
			[]string{"Q1", "Pilot"},
			[]string{"Q1", "Pilot wave"},
		)},
	}

	out, err := newTestExtractor().Workbook(context.Background(), sheets)
	require.NoError(t, err)

	assert.Equal(t, 5, out.SheetsScanned)
	require.Len(t, out.DeptRows, 3)
	assert.Equal(t, []string{"HR", "HR", "IT"}, []string{out.DeptRows[0].Acronym, out.DeptRows[1].Acronym, out.DeptRows[2].Acronym})
	assert.Equal(t, 25, out.DeptRows[1].Headcount)
	require.Len(t, out.TimelineRows, 1)
	assert.Equal(t, "OPS", out.TimelineRows[0].Acronym)
	assert.Equal(t, "Human Resources Dept", out.CorrectedNames["HR"])
	assert.Equal(t, "Pilot wave", out.QuarterThemes["Q1"])
}

func TestWorkbookCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestExtractor().Workbook(ctx, []cell.Sheet{{Name: "Dept Cnt", Matrix: nil}})
	assert.ErrorIs(t, err, context.Canceled)
}
