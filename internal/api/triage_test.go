package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/broadcast"
	"github.com/ericminessale/ai-call-center-core/internal/classify"
	"github.com/ericminessale/ai-call-center-core/internal/conference"
	"github.com/ericminessale/ai-call-center-core/internal/queuehealth"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/ericminessale/ai-call-center-core/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

func newTriageHandler(st *store.Store, registry *conference.Registry) *TriageHandler {
	hub := websocket.NewHub(zerolog.Nop())
	sampler := queuehealth.NewTrendSampler(30 * time.Second)
	broadcaster := broadcast.New(st, registry, hub, queuehealth.DefaultConfig(), sampler, time.Second, zerolog.Nop())
	return NewTriageHandler(st, broadcaster, registry, classify.DefaultAttentionConfig(), zerolog.Nop())
}

func withClaims(r *http.Request, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UserContextKey, claims)
	return r.WithContext(ctx)
}

func TestGetCallsBucketsForViewer(t *testing.T) {
	st := store.New(zerolog.Nop())
	registry := conference.NewRegistry(zerolog.Nop())
	handler := newTriageHandler(st, registry)

	st.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusActive,
		HandlerType: types.HandlerHuman, AssignedAgentID: "alice",
		CreatedAt: time.Now(),
	})
	st.Upsert(&types.Call{
		ID: "call-2", Status: types.CallStatusAIActive,
		HandlerType: types.HandlerAI, Sentiment: -0.7,
		CreatedAt: time.Now(),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	req = withClaims(req, &auth.Claims{AgentID: "alice"})
	rec := httptest.NewRecorder()
	handler.GetCalls(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var response bucketedCalls
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Counts[classify.BucketMyCalls] != 1 {
		t.Errorf("my_calls = %d, want 1", response.Counts[classify.BucketMyCalls])
	}
	if response.Counts[classify.BucketAIActive] != 1 {
		t.Errorf("ai_active = %d, want 1", response.Counts[classify.BucketAIActive])
	}
	if len(response.Attention) != 1 || response.Attention[0] != "call-2" {
		t.Errorf("attention = %v, want [call-2]", response.Attention)
	}
}

func TestGetCallsFlagsLongRunningCall(t *testing.T) {
	st := store.New(zerolog.Nop())
	handler := newTriageHandler(st, conference.NewRegistry(zerolog.Nop()))

	// Active for 20 minutes, neutral sentiment: duration alone must flag it
	st.Upsert(&types.Call{
		ID: "call-long", Status: types.CallStatusActive,
		HandlerType: types.HandlerHuman, AssignedAgentID: "alice",
		CreatedAt: time.Now().Add(-20 * time.Minute),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
	req = withClaims(req, &auth.Claims{AgentID: "alice"})
	rec := httptest.NewRecorder()
	handler.GetCalls(rec, req)

	var response bucketedCalls
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(response.Attention) != 1 || response.Attention[0] != "call-long" {
		t.Errorf("attention = %v, want [call-long]", response.Attention)
	}
	if response.Counts[classify.BucketMyCalls] != 1 {
		t.Errorf("my_calls = %d, want 1", response.Counts[classify.BucketMyCalls])
	}
}

func TestGetCallNotFound(t *testing.T) {
	st := store.New(zerolog.Nop())
	handler := newTriageHandler(st, conference.NewRegistry(zerolog.Nop()))

	r := chi.NewRouter()
	r.Get("/api/calls/{callId}", handler.GetCall)

	req := httptest.NewRequest(http.MethodGet, "/api/calls/ghost", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetQueuesIncludesHealth(t *testing.T) {
	st := store.New(zerolog.Nop())
	handler := newTriageHandler(st, conference.NewRegistry(zerolog.Nop()))

	st.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusWaiting,
		QueueID: "support", CreatedAt: time.Now().Add(-10 * time.Minute),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/queues", nil)
	rec := httptest.NewRecorder()
	handler.GetQueues(rec, req)

	var queues []types.QueueSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &queues); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(queues) != 1 {
		t.Fatalf("queues = %d, want 1", len(queues))
	}
	// Ten minutes waiting is past the critical longest-wait cutoff
	if queues[0].Health.Severity != types.SeverityCritical {
		t.Errorf("severity = %q, want critical", queues[0].Health.Severity)
	}
}

func TestGetConferenceForViewer(t *testing.T) {
	st := store.New(zerolog.Nop())
	registry := conference.NewRegistry(zerolog.Nop())
	handler := newTriageHandler(st, registry)

	tracker := registry.Tracker("alice")
	tracker.SetInConference(true)
	tracker.Apply(types.ConferenceParticipant{
		ID: "p1", Type: types.ParticipantCustomer, Status: types.ParticipantActive,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/conference", nil)
	req = withClaims(req, &auth.Claims{AgentID: "alice"})
	rec := httptest.NewRecorder()
	handler.GetConference(rec, req)

	var response struct {
		Status       types.ConferenceStatus        `json:"status"`
		Participants []types.ConferenceParticipant `json:"participants"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if response.Status.Label != types.ConferenceInConference {
		t.Errorf("label = %q, want in_conference", response.Status.Label)
	}
	if len(response.Participants) != 1 {
		t.Errorf("participants = %d, want 1", len(response.Participants))
	}
}
