package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/broadcast"
	"github.com/ericminessale/ai-call-center-core/internal/classify"
	"github.com/ericminessale/ai-call-center-core/internal/conference"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// TriageHandler provides REST endpoints for the triage board state. The
// WebSocket stream pushes the same data; these endpoints serve initial page
// loads and polling fallbacks.
type TriageHandler struct {
	store       *store.Store
	broadcaster *broadcast.Broadcaster
	conferences *conference.Registry
	attention   classify.AttentionConfig
	logger      zerolog.Logger
}

// NewTriageHandler creates a new TriageHandler
func NewTriageHandler(st *store.Store, broadcaster *broadcast.Broadcaster, conferences *conference.Registry, attention classify.AttentionConfig, logger zerolog.Logger) *TriageHandler {
	return &TriageHandler{
		store:       st,
		broadcaster: broadcaster,
		conferences: conferences,
		attention:   attention,
		logger:      logger.With().Str("component", "triage_handler").Logger(),
	}
}

// bucketedCalls is the REST shape of the viewer's call board
type bucketedCalls struct {
	Buckets   map[classify.Bucket][]types.Call `json:"buckets"`
	Counts    map[classify.Bucket]int          `json:"counts"`
	Attention []string                         `json:"attention,omitempty"`
}

// GetCalls returns the viewer's bucketed call board
// GET /api/calls
func (h *TriageHandler) GetCalls(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.GetUserFromContext(r.Context())
	agentID := ""
	if claims != nil {
		agentID = claims.AgentID
	}

	calls := classify.WithDurations(h.store.ListAll(), time.Now())
	response := bucketedCalls{
		Buckets:   classify.Partition(calls, agentID),
		Counts:    classify.Counts(calls, agentID),
		Attention: classify.AttentionIDs(calls, h.attention),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetCall returns a single call by ID
// GET /api/calls/{callId}
func (h *TriageHandler) GetCall(w http.ResponseWriter, r *http.Request) {
	callID := chi.URLParam(r, "callId")
	if callID == "" {
		http.Error(w, "callId is required", http.StatusBadRequest)
		return
	}

	call, ok := h.store.Get(callID)
	if !ok {
		http.Error(w, "call not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(call)
}

// GetQueues returns all queues with derived health
// GET /api/queues
func (h *TriageHandler) GetQueues(w http.ResponseWriter, r *http.Request) {
	snapshot := h.broadcaster.Snapshot(time.Now())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot.Queues)
}

// GetConference returns the viewer's own conference status
// GET /api/conference
func (h *TriageHandler) GetConference(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetUserFromContext(r.Context())
	if !ok || claims.AgentID == "" {
		http.Error(w, "no agent identity", http.StatusBadRequest)
		return
	}

	tracker := h.conferences.Tracker(claims.AgentID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Status       types.ConferenceStatus        `json:"status"`
		Participants []types.ConferenceParticipant `json:"participants"`
	}{
		Status:       tracker.Status(),
		Participants: tracker.Participants(),
	})
}

// GetConferences returns every agent's conference status (supervisor view)
// GET /api/conferences
func (h *TriageHandler) GetConferences(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.conferences.Statuses())
}
