package websocket

import (
	"net/http"

	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/classify"
	"github.com/ericminessale/ai-call-center-core/internal/config"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now
		// TODO: Implement proper origin checking based on config
		return true
	},
}

// Handler handles WebSocket upgrade requests
type Handler struct {
	hub       *Hub
	config    *config.Config
	attention classify.AttentionConfig
	logger    zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, cfg *config.Config, attention classify.AttentionConfig, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:       hub,
		config:    cfg,
		attention: attention,
		logger:    logger,
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Auth middleware ran before the upgrade; the claims carry the viewer's
	// agent identity.
	claims, _ := auth.GetUserFromContext(r.Context())

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	// Create new client
	client := NewClient(h.hub, conn, h.config, h.attention, h.logger, claims)

	// Register client with hub
	h.hub.register <- client

	// Start client pumps
	client.Start()
}
