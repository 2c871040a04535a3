package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/ingest"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

// EventsHandler accepts fabric events over HTTP. The WebSocket stream is
// the production path; this endpoint serves fabric adapters that can only
// POST, plus local testing.
type EventsHandler struct {
	loop           *ingest.Loop
	logger         zerolog.Logger
	eventsReceived int64
	lastReceived   time.Time
	mu             sync.RWMutex
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(loop *ingest.Loop, logger zerolog.Logger) *EventsHandler {
	return &EventsHandler{
		loop:   loop,
		logger: logger,
	}
}

// HandleEvent receives a single fabric event
// POST /internal/event
func (h *EventsHandler) HandleEvent(w http.ResponseWriter, req *http.Request) {
	var event types.Event
	if err := json.NewDecoder(req.Body).Decode(&event); err != nil {
		h.logger.Error().Err(err).Msg("failed to decode event")
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}
	if event.Type == "" {
		http.Error(w, "event type is required", http.StatusBadRequest)
		return
	}

	select {
	case h.loop.Events() <- event:
	default:
		h.logger.Warn().Msg("event queue full, rejecting HTTP event")
		http.Error(w, "event queue full", http.StatusServiceUnavailable)
		return
	}

	// Update stats
	atomic.AddInt64(&h.eventsReceived, 1)
	h.mu.Lock()
	h.lastReceived = time.Now()
	h.mu.Unlock()

	// Log periodically
	count := atomic.LoadInt64(&h.eventsReceived)
	if count%1000 == 0 {
		h.logger.Info().
			Int64("total_received", count).
			Msg("events received over HTTP")
	}

	w.WriteHeader(http.StatusAccepted)
}

// GetStats returns receiver statistics
// GET /internal/event/stats
func (h *EventsHandler) GetStats(w http.ResponseWriter, req *http.Request) {
	h.mu.RLock()
	lastReceived := h.lastReceived
	h.mu.RUnlock()

	stats := map[string]interface{}{
		"events_received": atomic.LoadInt64(&h.eventsReceived),
		"last_received":   lastReceived,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
