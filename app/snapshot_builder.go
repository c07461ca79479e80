package app

import (
	"context"
	"time"

	"roadmapboard/domain/cell"
	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/aggregate"
	"roadmapboard/internal/errors"
	"roadmapboard/internal/extract"
	"roadmapboard/internal/normalize"
	"roadmapboard/internal/reconcile"
)

// NoUsableDataMessage is the load error reported when no sheet yields a row.
const NoUsableDataMessage = "No usable roadmap data found in workbook"

// BuildOptions tune extraction and derivation. Zero values select the defaults.
type BuildOptions struct {
	Aliases         map[string][]string
	HeaderScanRows  int
	SummaryLabels   []string
	RiskKeywords    []string
	WatchWindowDays int
	TimelineLimit   int
	Location        *time.Location
}

// SnapshotBuilder turns parsed sheets into an immutable snapshot
type SnapshotBuilder struct {
	extractor     *extract.Extractor
	reconciler    *reconcile.Reconciler
	timelineLimit int
	location      *time.Location
}

// NewSnapshotBuilder creates a snapshot builder
func NewSnapshotBuilder(opts BuildOptions) *SnapshotBuilder {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	locator := extract.NewLocator(opts.Aliases, opts.HeaderScanRows)
	return &SnapshotBuilder{
		extractor: extract.NewExtractor(locator, normalize.NewLabelFilter(opts.SummaryLabels), loc),
		reconciler: reconcile.New(reconcile.Options{
			Location:        loc,
			RiskKeywords:    opts.RiskKeywords,
			WatchWindowDays: opts.WatchWindowDays,
		}),
		timelineLimit: opts.TimelineLimit,
		location:      loc,
	}
}

// Build runs extraction, reconciliation and aggregation. The result depends
// only on sheets, source and now.
func (b *SnapshotBuilder) Build(ctx context.Context, sheets []cell.Sheet, source string, now time.Time) (*roadmap.Snapshot, error) {
	extraction, err := b.extractor.Workbook(ctx, sheets)
	if err != nil {
		return nil, errors.LoadFailed("Workbook extraction interrupted", err)
	}
	if len(extraction.DeptRows)+len(extraction.TimelineRows) == 0 {
		return nil, errors.LoadFailed(NoUsableDataMessage, nil)
	}

	records := b.reconciler.Reconcile(extraction, now)
	today := roadmap.StartOfDay(now, b.location)
	departments := aggregate.SortDepartments(records)

	return &roadmap.Snapshot{
		Departments: departments,
		Timeline:    aggregate.Timeline(departments, today, b.timelineLimit),
		Phases:      aggregate.Phases(departments),
		Health:      aggregate.Health(departments),
		Forecast:    aggregate.Forecast(departments, today),
		Summary:     aggregate.Summary(departments),
		Meta: roadmap.Meta{
			Source:        source,
			SheetsScanned: extraction.SheetsScanned,
			DeptRows:      len(extraction.DeptRows),
			TimelineRows:  len(extraction.TimelineRows),
			LoadedAt:      now,
		},
	}, nil
}

// Location is the time zone "today" is computed in
func (b *SnapshotBuilder) Location() *time.Location {
	return b.location
}
