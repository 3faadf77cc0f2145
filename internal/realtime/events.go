// file: internal/realtime/events.go
// version: 2.0.0
// guid: 9e8d7f6a-5c4b-3a21-0f9e-8d7c6b5a4392

package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

// EventType defines the type of real-time event
type EventType string

const (
	EventConnected           EventType = "connection.established"
	EventHeartbeat           EventType = "heartbeat"
	EventCatalogReloaded     EventType = "catalog.reloaded"
	EventCatalogReloadFailed EventType = "catalog.reload_failed"
)

const (
	clientBuffer     = 32
	defaultHeartbeat = 15 * time.Second
)

// Event represents a real-time event to send to clients
type Event struct {
	Type      EventType      `json:"type"`
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time
func NewEvent(t EventType, data map[string]any) *Event {
	return &Event{
		Type:      t,
		ID:        ulid.Make().String(),
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Hub fans events out to connected SSE clients. A nil *Hub is valid and
// drops everything, so callers need not check whether streaming is enabled.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]chan *Event
	heartbeat time.Duration
}

// NewHub creates a new event hub
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[string]chan *Event),
		heartbeat: defaultHeartbeat,
	}
}

// Subscribe registers a client. The returned cancel func unregisters it and
// closes the channel.
func (h *Hub) Subscribe() (string, <-chan *Event, func()) {
	id := ulid.Make().String()
	ch := make(chan *Event, clientBuffer)

	h.mu.Lock()
	h.clients[id] = ch
	total := len(h.clients)
	h.mu.Unlock()
	log.Printf("[DEBUG] realtime: client %s connected, total clients: %d", id, total)

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, id)
			close(ch)
			remaining := len(h.clients)
			h.mu.Unlock()
			log.Printf("[DEBUG] realtime: client %s disconnected, remaining clients: %d", id, remaining)
		})
	}
	return id, ch, cancel
}

// Publish sends event to every client and returns how many received it.
// Slow clients with a full buffer miss the event rather than block the hub.
func (h *Hub) Publish(event *Event) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for id, ch := range h.clients {
		select {
		case ch <- event:
			count++
		default:
			log.Printf("[WARN] realtime: client %s channel full, dropping %s", id, event.Type)
		}
	}
	return count
}

// CatalogReloaded announces a successful reload
func (h *Hub) CatalogReloaded(path string, kits int, version uint64) {
	h.Publish(NewEvent(EventCatalogReloaded, map[string]any{
		"path":            path,
		"catalog_kits":    kits,
		"catalog_version": version,
	}))
}

// CatalogReloadFailed announces a reload that kept the previous catalog
func (h *Hub) CatalogReloadFailed(path string, err error) {
	h.Publish(NewEvent(EventCatalogReloadFailed, map[string]any{
		"path":  path,
		"error": err.Error(),
	}))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleSSE streams events to one client until it disconnects
func (h *Hub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache, no-transform")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	id, events, cancel := h.Subscribe()
	defer cancel()

	if err := writeEvent(c, NewEvent(EventConnected, map[string]any{"client_id": id})); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(c, event); err != nil {
				log.Printf("[WARN] realtime: write to client %s failed: %v", id, err)
				return
			}
		case <-ticker.C:
			if err := writeEvent(c, NewEvent(EventHeartbeat, nil)); err != nil {
				return
			}
		}
	}
}

// writeEvent writes one SSE frame: "data: {json}\n\n"
func writeEvent(c *gin.Context, event *Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}
