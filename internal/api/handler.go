// Package api serves the current roadmap snapshot as JSON.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roadmapboard/domain/roadmap"
	"roadmapboard/internal/aggregate"
	"roadmapboard/internal/errors"
	"roadmapboard/internal/logging"
	"roadmapboard/models"
	"roadmapboard/ports"
)

// ReloadTrigger is recorded in the load history for POST /api/reload
const ReloadTrigger = "api"

// Dashboard is the read side of app.Dashboard plus manual reloads
type Dashboard interface {
	Current() (*roadmap.Snapshot, bool)
	StatusLine() string
	Reload(ctx context.Context, trigger string) (*roadmap.Snapshot, error)
}

// Handler handles the dashboard JSON endpoints
type Handler struct {
	dashboard Dashboard
	history   ports.HistoryRepository
	events    *SSEHub
	logger    *zap.Logger
}

// NewHandler creates a new API handler. history and events may be nil.
func NewHandler(dashboard Dashboard, history ports.HistoryRepository, events *SSEHub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dashboard: dashboard,
		history:   history,
		events:    events,
		logger:    logger.Named("api"),
	}
}

// RegisterRoutes mounts the endpoints under /api
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/snapshot", h.GetSnapshot)
	api.GET("/departments", h.GetDepartments)
	api.GET("/timeline", h.GetTimeline)
	api.GET("/phases", h.GetPhases)
	api.GET("/health", h.GetHealth)
	api.GET("/forecast", h.GetForecast)
	api.GET("/summary", h.GetSummary)
	api.GET("/meta", h.GetMeta)
	api.GET("/status", h.GetStatus)
	api.GET("/history", h.ListHistory)
	api.GET("/history/:id", h.GetHistory)
	api.POST("/reload", h.Reload)
	if h.events != nil {
		api.GET("/events", h.events.HandleSSE)
	}
}

// NewRouter builds a gin engine serving the API
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger.Named("http")))
	h.RegisterRoutes(router)
	return router
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}

// snapshot writes 503 with the status line when nothing is loaded
func (h *Handler) snapshot(c *gin.Context) (*roadmap.Snapshot, bool) {
	snap, ok := h.dashboard.Current()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": h.dashboard.StatusLine()})
		return nil, false
	}
	return snap, true
}

// GetSnapshot returns the whole snapshot
func (h *Handler) GetSnapshot(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap)
	}
}

// GetDepartments returns the readiness table, sorted by ?sort= and ?dir=
func (h *Handler) GetDepartments(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}
	key := aggregate.ParseSortKey(c.Query("sort"))
	dir := aggregate.ParseDirection(c.Query("dir"))
	c.JSON(http.StatusOK, aggregate.SortTable(snap.Departments, key, dir))
}

// GetTimeline returns the upcoming milestones
func (h *Handler) GetTimeline(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.Timeline)
	}
}

// GetPhases returns per-quarter totals
func (h *Handler) GetPhases(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.Phases)
	}
}

// GetHealth returns the status histogram
func (h *Handler) GetHealth(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.Health)
	}
}

// GetForecast returns the look-ahead windows
func (h *Handler) GetForecast(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.Forecast)
	}
}

// GetSummary returns the KPIs
func (h *Handler) GetSummary(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.Summary)
	}
}

// GetMeta returns the load metadata
func (h *Handler) GetMeta(c *gin.Context) {
	if snap, ok := h.snapshot(c); ok {
		c.JSON(http.StatusOK, snap.Meta)
	}
}

// GetStatus returns the status line; it answers even before the first load
func (h *Handler) GetStatus(c *gin.Context) {
	_, loaded := h.dashboard.Current()
	c.JSON(http.StatusOK, gin.H{"status": h.dashboard.StatusLine(), "loaded": loaded})
}

// Reload runs a reload and returns the new summary or the load error
func (h *Handler) Reload(c *gin.Context) {
	snap, err := h.dashboard.Reload(c.Request.Context(), ReloadTrigger)
	if err != nil {
		h.logger.Warn("Manual reload failed", logging.ErrorFields(err)...)
		c.JSON(http.StatusBadGateway, gin.H{"error": h.dashboard.StatusLine(), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  h.dashboard.StatusLine(),
		"summary": snap.Summary,
		"meta":    snap.Meta,
	})
}

// ListHistory returns recent load attempts, newest first
func (h *Handler) ListHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Load history is disabled"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	records, err := h.history.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list load history", logging.ErrorFields(err)...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list load history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetHistory returns one load attempt including its stored snapshot
func (h *Handler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Load history is disabled"})
		return
	}

	rec, err := h.history.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.GetCode(err) == errors.CodeNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Load not found"})
			return
		}
		h.logger.Error("Failed to get load", logging.ErrorFields(err)...)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get load"})
		return
	}
	c.JSON(http.StatusOK, historyDetail{LoadRecord: rec, Snapshot: json.RawMessage(rec.Snapshot)})
}

// historyDetail inlines the stored snapshot JSON instead of quoting it
type historyDetail struct {
	*models.LoadRecord
	Snapshot json.RawMessage `json:"snapshot,omitempty"`
}
