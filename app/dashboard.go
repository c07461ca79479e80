package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/errors"
	"roadmapboard/internal/logging"
	"roadmapboard/models"
	"roadmapboard/ports"
)

// Reload triggers recorded in the load history
const (
	TriggerStartup  = "startup"
	TriggerAPI      = "api"
	TriggerSchedule = "schedule"
	TriggerWatch    = "watch"
	TriggerCLI      = "cli"
)

const (
	loadingStatus   = "Loading latest roadmap data..."
	loadErrorPrefix = "Data load error: "
)

// DashboardDeps are the collaborators of a Dashboard. History and Notifier
// are optional.
type DashboardDeps struct {
	Fetcher  ports.WorkbookFetcher
	Parser   ports.WorkbookParser
	History  ports.HistoryRepository
	Notifier ports.Notifier
	Logger   *zap.Logger
	Clock    func() time.Time
}

// Dashboard holds the current snapshot. A reload replaces it as a whole; a
// failed reload clears it.
type Dashboard struct {
	source   string
	builder  *SnapshotBuilder
	fetcher  ports.WorkbookFetcher
	parser   ports.WorkbookParser
	history  ports.HistoryRepository
	notifier ports.Notifier
	logger   *zap.Logger
	clock    func() time.Time

	reloadMu sync.Mutex

	mu      sync.RWMutex
	current *roadmap.Snapshot
	lastErr error
}

// NewDashboard creates a dashboard for the workbook at source
func NewDashboard(source string, builder *SnapshotBuilder, deps DashboardDeps) *Dashboard {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Dashboard{
		source:   source,
		builder:  builder,
		fetcher:  deps.Fetcher,
		parser:   deps.Parser,
		history:  deps.History,
		notifier: deps.Notifier,
		logger:   logger.Named("dashboard"),
		clock:    clock,
	}
}

// Source is the workbook location
func (d *Dashboard) Source() string {
	return d.source
}

// History returns the load history repository, or nil when disabled
func (d *Dashboard) History() ports.HistoryRepository {
	return d.history
}

// Reload fetches, parses and rebuilds the snapshot. Concurrent calls are
// serialised; each performs its own single fetch attempt.
func (d *Dashboard) Reload(ctx context.Context, trigger string) (*roadmap.Snapshot, error) {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()

	started := d.clock()
	rec := models.NewLoadRecord(d.source, trigger, started)
	d.logger.Info("Reloading workbook", zap.String("source", d.source), zap.String("trigger", trigger))

	snap, err := d.load(ctx, started)

	d.mu.Lock()
	if err != nil {
		d.current = nil
		d.lastErr = err
	} else {
		d.current = snap
		d.lastErr = nil
	}
	d.mu.Unlock()

	rec.FinishedAt = d.clock()
	if err != nil {
		rec.Outcome = models.LoadFailed
		rec.Message = err.Error()
		d.logger.Error("Workbook load failed", logging.ErrorFields(err)...)
	} else {
		rec.Outcome = models.LoadSucceeded
		rec.Message = d.StatusLine()
		rec.SheetsScanned = snap.Meta.SheetsScanned
		rec.DeptRows = snap.Meta.DeptRows
		rec.TimelineRows = snap.Meta.TimelineRows
		rec.Departments = len(snap.Departments)
		if body, mErr := json.Marshal(snap); mErr == nil {
			rec.Snapshot = string(body)
		}
		d.logger.Info("Workbook loaded",
			zap.Int("sheets", snap.Meta.SheetsScanned),
			zap.Int("departments", len(snap.Departments)),
			zap.Duration("took", rec.Duration()))
	}

	d.recordHistory(ctx, rec)
	d.notify(ctx)
	return snap, err
}

func (d *Dashboard) load(ctx context.Context, now time.Time) (*roadmap.Snapshot, error) {
	data, err := d.fetcher.Fetch(ctx, d.source)
	if err != nil {
		return nil, asLoadFailure(err, "Unable to load "+d.source)
	}
	sheets, err := d.parser.Parse(data, d.source)
	if err != nil {
		return nil, asLoadFailure(err, "Unable to read workbook")
	}
	return d.builder.Build(ctx, sheets, d.source, now)
}

func asLoadFailure(err error, message string) error {
	if errors.GetCode(err) == errors.CodeLoadFailed {
		return err
	}
	return errors.LoadFailed(message, err)
}

func (d *Dashboard) recordHistory(ctx context.Context, rec *models.LoadRecord) {
	if d.history == nil {
		return
	}
	if err := d.history.Record(ctx, rec); err != nil {
		d.logger.Warn("Failed to record load history", logging.ErrorFields(err)...)
	}
}

func (d *Dashboard) notify(ctx context.Context) {
	if d.notifier == nil {
		return
	}
	if err := d.notifier.Notify(ctx, d.StatusLine()); err != nil {
		d.logger.Warn("Failed to send load notification", logging.ErrorFields(err)...)
	}
}

// Current returns the loaded snapshot, or false when none is loaded.
func (d *Dashboard) Current() (*roadmap.Snapshot, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current, d.current != nil
}

// LastError returns the error of the most recent reload, if it failed
func (d *Dashboard) LastError() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastErr
}

// StatusLine is the one-line load status shown above the dashboard
func (d *Dashboard) StatusLine() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	switch {
	case d.lastErr != nil:
		return loadErrorPrefix + d.lastErr.Error()
	case d.current == nil:
		return loadingStatus
	}
	loaded := d.current.Meta.LoadedAt.In(d.builder.Location()).Format("Jan 2, 3:04 PM")
	return fmt.Sprintf("Live data loaded (%d sheets) • Updated %s", d.current.Meta.SheetsScanned, loaded)
}
