package api

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DefaultPingInterval keeps idle event streams open through proxies
const DefaultPingInterval = 30 * time.Second

// ReloadEvent is streamed to dashboard clients after every reload
type ReloadEvent struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// SSEHub fans reload events out to connected Server-Sent Events clients. It
// implements ports.Notifier so the dashboard can publish to it directly.
type SSEHub struct {
	clients      map[chan ReloadEvent]struct{}
	clientsMu    sync.RWMutex
	pingInterval time.Duration
	clock        func() time.Time
	logger       *zap.Logger
}

// NewSSEHub creates a new SSE hub
func NewSSEHub(logger *zap.Logger) *SSEHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SSEHub{
		clients:      make(map[chan ReloadEvent]struct{}),
		pingInterval: DefaultPingInterval,
		clock:        time.Now,
		logger:       logger.Named("sse"),
	}
}

// Notify broadcasts a status line to every client
func (h *SSEHub) Notify(ctx context.Context, message string) error {
	h.Broadcast(ReloadEvent{Status: message, Timestamp: h.clock()})
	return nil
}

// Broadcast sends an event to all clients. Clients whose buffer is full miss it.
func (h *SSEHub) Broadcast(event ReloadEvent) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for clientChan := range h.clients {
		select {
		case clientChan <- event:
		default:
			h.logger.Debug("Client channel full, skipping event")
		}
	}
}

func (h *SSEHub) subscribe() chan ReloadEvent {
	ch := make(chan ReloadEvent, 10)
	h.clientsMu.Lock()
	h.clients[ch] = struct{}{}
	total := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Debug("Client registered", zap.Int("clients", total))
	return ch
}

func (h *SSEHub) unsubscribe(ch chan ReloadEvent) {
	h.clientsMu.Lock()
	delete(h.clients, ch)
	total := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Debug("Client unregistered", zap.Int("clients", total))
}

// HandleSSE streams reload events until the client disconnects
func (h *SSEHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := h.subscribe()
	defer h.unsubscribe(clientChan)

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	// Flush headers so clients see the stream open before the first event.
	c.Status(200)
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-clientChan:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("Failed to marshal event", zap.Error(err))
				return true
			}
			c.SSEvent("reload", string(eventJSON))
			return true

		case <-ticker.C:
			c.SSEvent("ping", `{"status":"alive"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// GetClientCount returns the number of connected clients
func (h *SSEHub) GetClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
