package testkit

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"roadmapboard/adapters/excel"
	"roadmapboard/app"
)

func testConfig() RoadmapGeneratorConfig {
	cfg := DefaultRoadmapConfig()
	cfg.StartDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	cfg.Seed = 7
	return cfg
}

func TestRoadmapGeneratorBuildsDashboard(t *testing.T) {
	cfg := testConfig()
	data, err := NewRoadmapGenerator(cfg).Bytes()
	require.NoError(t, err)

	sheets, err := excel.NewWorkbookReader(zap.NewNop()).Parse(data, "demo.xlsx")
	require.NoError(t, err)
	require.Len(t, sheets, 4)
	assert.Equal(t, SheetCorrectedNames, sheets[0].Name)

	builder := app.NewSnapshotBuilder(app.BuildOptions{Location: time.UTC})
	snap, err := builder.Build(context.Background(), sheets, "demo.xlsx", cfg.StartDate)
	require.NoError(t, err)
	assert.Len(t, snap.Departments, cfg.DepartmentCount)
	assert.Equal(t, cfg.DepartmentCount, snap.Summary.Departments)
	assert.Positive(t, snap.Summary.TotalHeadcount)

	for _, d := range snap.Departments {
		assert.NotEqual(t, "Sum of Headcount", d.Name)
	}
}

func TestRoadmapGeneratorDeterministic(t *testing.T) {
	first, err := NewRoadmapGenerator(testConfig()).Workbook()
	require.NoError(t, err)
	defer first.Close()
	second, err := NewRoadmapGenerator(testConfig()).Workbook()
	require.NoError(t, err)
	defer second.Close()

	for _, sheet := range []string{SheetDeptCounts, SheetTimeline} {
		a, err := first.GetRows(sheet)
		require.NoError(t, err)
		b, err := second.GetRows(sheet)
		require.NoError(t, err)
		assert.Equal(t, a, b, sheet)
	}
}

func TestRoadmapGeneratorClampsDepartmentCount(t *testing.T) {
	cfg := testConfig()
	cfg.DepartmentCount = 100

	f, err := NewRoadmapGenerator(cfg).Workbook()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetCorrectedNames)
	require.NoError(t, err)
	assert.Len(t, rows, len(Catalog)+1)
}

func TestRoadmapGeneratorWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.xlsx")
	require.NoError(t, NewRoadmapGenerator(testConfig()).WriteFile(path))
	assert.FileExists(t, path)

	assert.Error(t, NewRoadmapGenerator(testConfig()).WriteFile(filepath.Join(t.TempDir(), "missing", "demo.xlsx")))
}
