package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ericminessale/ai-call-center-core/internal/metrics"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

// Hub maintains the set of active dashboard clients and fans snapshots out
// to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Snapshots from the broadcaster, projected per client
	snapshots chan *types.TriageSnapshot

	// Raw messages sent to every client unchanged
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex to protect clients map
	mu sync.RWMutex

	// Logger
	logger zerolog.Logger
}

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		snapshots:  make(chan *types.TriageSnapshot, 16),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWebSocketConnect()
			h.logger.Info().
				Str("client_id", client.id).
				Str("agent_id", client.AgentID()).
				Int("total_clients", len(h.clients)).
				Msg("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWebSocketDisconnect()
				h.logger.Info().
					Str("client_id", client.id).
					Int("total_clients", len(h.clients)).
					Msg("client disconnected")
			}
			h.mu.Unlock()

		case snapshot := <-h.snapshots:
			h.broadcastProjected(snapshot)

		case message := <-h.broadcast:
			h.broadcastRaw(message)
		}
	}
}

// BroadcastSnapshot queues a snapshot for per-viewer fan-out. Drops the
// snapshot if the hub is backed up; the next tick supersedes it anyway.
func (h *Hub) BroadcastSnapshot(snapshot *types.TriageSnapshot) {
	select {
	case h.snapshots <- snapshot:
	default:
		metrics.Get().RecordBroadcastError()
		h.logger.Warn().Msg("snapshot queue full, dropping tick")
	}
}

// Broadcast sends a raw message to all connected clients
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastRaw sends a raw message to all clients without projection
func (h *Hub) broadcastRaw(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}

// broadcastProjected sends each client its own view of the snapshot:
// buckets classified against that client's agent identity.
func (h *Hub) broadcastProjected(snapshot *types.TriageSnapshot) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		view := client.ProjectSnapshot(snapshot)

		data, err := json.Marshal(view)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to marshal snapshot view")
			continue
		}

		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, close and remove it
			close(client.send)
			delete(h.clients, client)
			h.logger.Warn().
				Str("client_id", client.id).
				Msg("client send buffer full, closing connection")
		}
	}
}
