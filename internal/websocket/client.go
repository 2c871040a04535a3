package websocket

import (
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/classify"
	"github.com/ericminessale/ai-call-center-core/internal/config"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// SnapshotView is the per-viewer payload each client receives every tick.
// Buckets are classified against the viewer's own agent identity, so
// "my_calls" means something different on every connection.
type SnapshotView struct {
	Type        string                            `json:"type"` // always "triage_snapshot"
	Timestamp   time.Time                         `json:"timestamp"`
	Buckets     map[classify.Bucket][]types.Call  `json:"buckets"`
	Counts      map[classify.Bucket]int           `json:"counts"`
	Attention   []string                          `json:"attention,omitempty"` // call IDs needing attention
	Queues      []types.QueueSnapshot             `json:"queues"`
	Conferences map[string]types.ConferenceStatus `json:"conferences,omitempty"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	// Unique client ID
	id string

	// The hub this client belongs to
	hub *Hub

	// The websocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// Configuration
	config *config.Config

	// Attention cutoffs for this deployment
	attention classify.AttentionConfig

	// Logger
	logger zerolog.Logger

	// User claims; AgentID drives the per-viewer bucket projection
	claims *auth.Claims
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, cfg *config.Config, attention classify.AttentionConfig, logger zerolog.Logger, claims *auth.Claims) *Client {
	clientID := uuid.New().String()
	return &Client{
		id:        clientID,
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		config:    cfg,
		attention: attention,
		logger:    logger.With().Str("client_id", clientID).Logger(),
		claims:    claims,
	}
}

// AgentID returns the agent identity this client views the board as
func (c *Client) AgentID() string {
	if c.claims == nil {
		return ""
	}
	return c.claims.AgentID
}

// readPump pumps messages from the websocket connection to the hub
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("websocket read error")
			}
			break
		}
		c.logger.Debug().Str("message", string(message)).Msg("received message from client")
	}
}

// writePump pumps messages from the hub to the websocket connection
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start starts the client's read and write pumps
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// ProjectSnapshot builds this viewer's bucketed view of the shared snapshot
func (c *Client) ProjectSnapshot(snapshot *types.TriageSnapshot) *SnapshotView {
	agentID := c.AgentID()
	calls := classify.WithDurations(snapshot.Calls, snapshot.Timestamp)
	return &SnapshotView{
		Type:        snapshot.Type,
		Timestamp:   snapshot.Timestamp,
		Buckets:     classify.Partition(calls, agentID),
		Counts:      classify.Counts(calls, agentID),
		Attention:   classify.AttentionIDs(calls, c.attention),
		Queues:      snapshot.Queues,
		Conferences: snapshot.Conferences,
	}
}
