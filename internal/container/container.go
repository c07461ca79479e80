package container

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"roadmapboard/adapters/db"
	"roadmapboard/adapters/excel"
	"roadmapboard/adapters/notify"
	"roadmapboard/adapters/source"
	"roadmapboard/app"
	"roadmapboard/internal/api"
	"roadmapboard/internal/config"
	"roadmapboard/internal/errors"
	"roadmapboard/internal/scheduler"
	"roadmapboard/ports"
	"roadmapboard/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	HistoryRepo ports.HistoryRepository

	// Load pipeline
	Fetcher   *source.Fetcher
	Parser    *excel.WorkbookReader
	Builder   *app.SnapshotBuilder
	Dashboard *app.Dashboard

	// Notifications
	SSEHub   *api.SSEHub
	Notifier ports.Notifier

	// Reload triggers, nil when not configured
	Scheduler *scheduler.Scheduler
	Watcher   *scheduler.Watcher
}

// New creates a new dependency injection container. The database is opened
// and migrated only when load history is enabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Database.Enabled() {
		if err := c.initDatabase(ctx); err != nil {
			return nil, err
		}
	}

	c.initPipeline()
	return c, nil
}

// initDatabase opens the history store and its repository
func (c *Container) initDatabase(ctx context.Context) error {
	conn, err := db.Open(ctx, c.Config.Database.URL)
	if err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}
	c.DB = conn
	c.HistoryRepo = db.NewHistoryRepository(conn)
	c.Logger.Info("Load history enabled", zap.String("driver", conn.DriverName()))
	return nil
}

// initPipeline wires fetcher, parser, builder, notifiers and the dashboard
func (c *Container) initPipeline() {
	cfg := c.Config

	c.Fetcher = source.NewFetcher(cfg.Workbook.FetchTimeout, c.Logger)
	c.Parser = excel.NewWorkbookReader(c.Logger)
	c.Builder = app.NewSnapshotBuilder(BuildOptions(cfg))

	c.SSEHub = api.NewSSEHub(c.Logger)
	var slackNotifier ports.Notifier
	if cfg.Slack.Enabled() {
		slackNotifier = notify.NewSlackNotifier(cfg.Slack.BotToken, cfg.Slack.ChannelID, c.Logger)
	}
	c.Notifier = notify.Multi(c.SSEHub, slackNotifier)

	c.Dashboard = app.NewDashboard(cfg.Workbook.Source, c.Builder, app.DashboardDeps{
		Fetcher:  c.Fetcher,
		Parser:   c.Parser,
		History:  c.HistoryRepo,
		Notifier: c.Notifier,
		Logger:   c.Logger,
	})
}

// BuildOptions maps configuration onto snapshot builder options
func BuildOptions(cfg *config.Config) app.BuildOptions {
	return app.BuildOptions{
		Aliases:         cfg.Rules.Aliases,
		HeaderScanRows:  cfg.Rules.HeaderScanRows,
		SummaryLabels:   cfg.Rules.SummaryLabels,
		RiskKeywords:    cfg.Rules.RiskKeywords,
		WatchWindowDays: cfg.Rules.WatchWindowDays,
		TimelineLimit:   cfg.Rules.TimelineLimit,
		Location:        cfg.Workbook.Location,
	}
}

// StartTriggers starts the cron schedule and the workbook watcher when configured
func (c *Container) StartTriggers(ctx context.Context) error {
	if c.Config.Reload.Schedule != "" {
		s, err := scheduler.New(c.Config.Reload.Schedule, c.Dashboard, app.TriggerSchedule, c.Logger)
		if err != nil {
			return err
		}
		c.Scheduler = s
		c.Scheduler.Start()
	}

	if c.Config.Reload.WatchWorkbook {
		if source.IsRemote(c.Config.Workbook.Source) {
			c.Logger.Warn("WATCH_WORKBOOK ignored for remote workbook", zap.String("source", c.Config.Workbook.Source))
			return nil
		}
		w, err := scheduler.NewWatcher(source.LocalPath(c.Config.Workbook.Source), c.Dashboard, app.TriggerWatch, 0, c.Logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			w.Stop()
			return err
		}
		c.Watcher = w
	}
	return nil
}

// Handler builds the HTTP handler: the HTML dashboard with the JSON API under /api
func (c *Container) Handler() (http.Handler, error) {
	gin.SetMode(c.Config.Server.GinMode)

	apiHandler := api.NewHandler(c.Dashboard, c.HistoryRepo, c.SSEHub, c.Logger)
	return ui.NewApp(ui.Config{
		Dashboard: c.Dashboard,
		API:       api.NewRouter(apiHandler, c.Logger),
		Logger:    c.Logger,
	})
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Watcher != nil {
		c.Watcher.Stop()
	}
	if c.Scheduler != nil {
		if err := c.Scheduler.Stop(ctx); err != nil {
			c.Logger.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}

	// Close database connection
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
