package events

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"roster/internal"
	"roster/internal/roster"

	"github.com/gin-gonic/gin"
)

// Event is one message on the change stream
type Event struct {
	Type   string        `json:"type"`
	Change roster.Change `json:"change"`
}

// SSEHub fans store changes out to Server-Sent Events clients
type SSEHub struct {
	clients   map[chan Event]bool
	clientsMu sync.RWMutex
	keepAlive time.Duration
	logger    *internal.Logger
}

// NewSSEHub creates a new SSE hub. keepAlive is the ping interval for idle
// streams.
func NewSSEHub(keepAlive time.Duration, logger *internal.Logger) *SSEHub {
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &SSEHub{
		clients:   make(map[chan Event]bool),
		keepAlive: keepAlive,
		logger:    logger.WithComponent("SSE"),
	}
}

// RecordsChanged broadcasts a committed change
func (h *SSEHub) RecordsChanged(c roster.Change) {
	h.Broadcast(Event{Type: "records-changed", Change: c})
}

// Broadcast sends an event to every client without blocking. Clients with
// a full buffer miss the event.
func (h *SSEHub) Broadcast(event Event) {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			h.logger.Warn("Client channel full, skipping %s event", event.Type)
		}
	}
}

func (h *SSEHub) register() chan Event {
	ch := make(chan Event, 10)
	h.clientsMu.Lock()
	h.clients[ch] = true
	n := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Debug("Client registered (total clients: %d)", n)
	return ch
}

func (h *SSEHub) unregister(ch chan Event) {
	h.clientsMu.Lock()
	delete(h.clients, ch)
	n := len(h.clients)
	h.clientsMu.Unlock()
	h.logger.Debug("Client unregistered (remaining clients: %d)", n)
}

// HandleSSE streams change events until the client goes away
func (h *SSEHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ch := h.register()
	defer h.unregister(ch)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-ch:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("change", string(payload))
			return true

		case t := <-ticker.C:
			c.SSEvent("ping", `{"status":"alive","timestamp":"`+t.Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// ClientCount returns the number of connected clients
func (h *SSEHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
