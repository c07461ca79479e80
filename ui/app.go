// Package ui serves the HTML rollout dashboard.
package ui

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/errors"
)

//go:embed templates/*.html static
var embeddedFiles embed.FS

// Dashboard is the read side of app.Dashboard
type Dashboard interface {
	Current() (*roadmap.Snapshot, bool)
	StatusLine() string
}

// App represents the UI application
type App struct {
	router    *chi.Mux
	dashboard Dashboard
	api       http.Handler
	templates *template.Template
	logger    *zap.Logger
}

// Config holds UI application configuration
type Config struct {
	Dashboard Dashboard
	// API is mounted under /api when set
	API    http.Handler
	Logger *zap.Logger
}

// NewApp creates a new UI application
func NewApp(config Config) (*App, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	app := &App{
		router:    chi.NewRouter(),
		dashboard: config.Dashboard,
		api:       config.API,
		templates: templates,
		logger:    logger.Named("ui"),
	}

	if err := app.setupMiddleware(); err != nil {
		return nil, err
	}
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() error {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5, "text/html", "text/css", "application/javascript", "text/markdown"))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return errors.Wrap(err, "failed to open static assets")
	}
	a.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	return nil
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/report", a.handleReport)
	a.router.Get("/report.md", a.handleReportMarkdown)
	a.router.Get("/healthz", a.handleHealthz)

	if a.api != nil {
		a.router.Mount("/api", a.api)
	}
}

// ServeHTTP makes App an http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
