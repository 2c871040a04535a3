package fabric

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	initialReconnectDelay = 1 * time.Second
	maxReconnectDelay     = 30 * time.Second
)

// Stream maintains the WebSocket connection to the fabric's event feed and
// forwards decoded events to the ingest loop.
type Stream struct {
	url    string
	events chan<- types.Event
	logger zerolog.Logger

	reconnects int64
}

// NewStream creates an event stream. fabricURL may use http(s) or ws(s)
// scheme; events are delivered to the given channel in arrival order.
func NewStream(fabricURL string, events chan<- types.Event, logger zerolog.Logger) *Stream {
	return &Stream{
		url:    wsURL(fabricURL) + "/events",
		events: events,
		logger: logger.With().Str("component", "fabric_stream").Logger(),
	}
}

// Run connects and keeps reading until the context is cancelled, reconnecting
// with exponential backoff on failure.
func (s *Stream) Run(ctx context.Context) {
	reconnectDelay := initialReconnectDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
		if err != nil {
			s.logger.Warn().Err(err).Dur("retry_in", reconnectDelay).Msg("fabric connection failed, retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectDelay):
			}
			reconnectDelay *= 2
			if reconnectDelay > maxReconnectDelay {
				reconnectDelay = maxReconnectDelay
			}
			s.reconnects++
			continue
		}

		reconnectDelay = initialReconnectDelay
		s.logger.Info().Str("url", s.url).Msg("fabric event stream connected")

		s.readLoop(ctx, conn)
		conn.Close()
	}
}

// readLoop reads until the connection drops or the context is cancelled
func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) {
	// Unblock ReadMessage when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("fabric event stream dropped")
			}
			return
		}

		var ev types.Event
		if err := json.Unmarshal(message, &ev); err != nil {
			s.logger.Error().Err(err).Msg("failed to decode fabric event")
			continue
		}

		select {
		case s.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// wsURL converts http(s) URLs to their ws(s) equivalent
func wsURL(url string) string {
	url = strings.TrimSuffix(url, "/")
	if strings.HasPrefix(url, "http") {
		return "ws" + strings.TrimPrefix(url, "http")
	}
	return url
}
