package store

import (
	"errors"
	"testing"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

func newTestStore() *Store {
	return New(zerolog.Nop())
}

func TestUpsertAndGet(t *testing.T) {
	s := newTestStore()

	err := s.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusActive,
		HandlerType: types.HandlerHuman, AssignedAgentID: "agent-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := s.Get("call-1")
	if !ok {
		t.Fatal("expected call to exist")
	}
	if got.Status != types.CallStatusActive {
		t.Errorf("expected active, got %s", got.Status)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := newTestStore()
	s.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusActive,
		HandlerType: types.HandlerHuman, AssignedAgentID: "agent-1",
		TransferHistory: []types.Transfer{{From: "agent-1", To: "support"}},
	})

	got, _ := s.Get("call-1")
	got.Status = types.CallStatusEnded
	got.TransferHistory[0].To = "tampered"

	fresh, _ := s.Get("call-1")
	if fresh.Status != types.CallStatusActive {
		t.Error("mutating a returned copy leaked into the store")
	}
	if fresh.TransferHistory[0].To != "support" {
		t.Error("mutating a returned transfer history leaked into the store")
	}
}

func TestUpsertTerminalCallRejected(t *testing.T) {
	s := newTestStore()
	s.Upsert(&types.Call{ID: "call-1", Status: types.CallStatusEnded})

	err := s.Upsert(&types.Call{ID: "call-1", Status: types.CallStatusActive})
	if !errors.Is(err, types.ErrStaleUpdate) {
		t.Errorf("expected ErrStaleUpdate, got %v", err)
	}

	got, _ := s.Get("call-1")
	if got.Status != types.CallStatusEnded {
		t.Errorf("terminal call mutated: got %s", got.Status)
	}
}

func TestHandlerInvariantNormalized(t *testing.T) {
	s := newTestStore()

	// Human without agent degrades to none
	s.Upsert(&types.Call{ID: "call-1", Status: types.CallStatusActive, HandlerType: types.HandlerHuman})
	got, _ := s.Get("call-1")
	if got.HandlerType != types.HandlerNone {
		t.Errorf("expected handler none, got %s", got.HandlerType)
	}

	// AI handler never carries an agent ID
	s.Upsert(&types.Call{ID: "call-2", Status: types.CallStatusAIActive, HandlerType: types.HandlerAI, AssignedAgentID: "agent-1"})
	got, _ = s.Get("call-2")
	if got.AssignedAgentID != "" {
		t.Errorf("expected empty agent ID on ai call, got %s", got.AssignedAgentID)
	}
}

func TestQueueMembershipFollowsStatus(t *testing.T) {
	s := newTestStore()

	s.Upsert(&types.Call{ID: "call-1", Status: types.CallStatusWaiting, QueueID: "support"})
	if got := s.ListByQueue("support"); len(got) != 1 {
		t.Fatalf("expected 1 waiting call, got %d", len(got))
	}

	// Answered: leaves the queue
	s.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusActive, QueueID: "support",
		HandlerType: types.HandlerHuman, AssignedAgentID: "agent-1",
	})
	if got := s.ListByQueue("support"); len(got) != 0 {
		t.Errorf("expected empty queue after answer, got %d", len(got))
	}
}

func TestCallInAtMostOneQueue(t *testing.T) {
	s := newTestStore()

	s.Upsert(&types.Call{ID: "call-1", Status: types.CallStatusWaiting, QueueID: "sales"})
	s.Upsert(&types.Call{ID: "call-1", Status: types.CallStatusWaiting, QueueID: "support"})

	if got := s.ListByQueue("sales"); len(got) != 0 {
		t.Errorf("call still in sales after moving: %d", len(got))
	}
	if got := s.ListByQueue("support"); len(got) != 1 {
		t.Errorf("expected call in support, got %d", len(got))
	}
}

func TestQueueOrderIsInsertionOrder(t *testing.T) {
	s := newTestStore()

	for _, id := range []string{"call-1", "call-2", "call-3"} {
		s.Upsert(&types.Call{ID: id, Status: types.CallStatusWaiting, QueueID: "support"})
	}

	got := s.ListByQueue("support")
	if len(got) != 3 {
		t.Fatalf("expected 3 waiting calls, got %d", len(got))
	}
	for i, want := range []string{"call-1", "call-2", "call-3"} {
		if got[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestReplaceQueue(t *testing.T) {
	s := newTestStore()

	s.Upsert(&types.Call{ID: "call-old", Status: types.CallStatusWaiting, QueueID: "support"})
	s.Upsert(&types.Call{ID: "call-done", Status: types.CallStatusEnded})

	s.ReplaceQueue("support", "Support", []types.Call{
		{ID: "call-a"},
		{ID: "call-b"},
		{ID: "call-done"}, // terminal locally, must not be resurrected
	})

	got := s.ListByQueue("support")
	if len(got) != 2 {
		t.Fatalf("expected 2 waiting calls, got %d", len(got))
	}
	if got[0].ID != "call-a" || got[1].ID != "call-b" {
		t.Errorf("unexpected queue order: %s, %s", got[0].ID, got[1].ID)
	}

	done, _ := s.Get("call-done")
	if done.Status != types.CallStatusEnded {
		t.Errorf("terminal call resurrected by queue snapshot: %s", done.Status)
	}

	old, _ := s.Get("call-old")
	if old.QueueID != "" {
		t.Errorf("dropped call still claims queue %q", old.QueueID)
	}
}

func TestSweepTerminal(t *testing.T) {
	s := newTestStore()
	old := time.Now().Add(-2 * time.Hour)

	s.Upsert(&types.Call{ID: "call-old", Status: types.CallStatusEnded, EndedAt: &old})
	s.Upsert(&types.Call{ID: "call-live", Status: types.CallStatusActive, HandlerType: types.HandlerHuman, AssignedAgentID: "a"})
	recent := time.Now()
	s.Upsert(&types.Call{ID: "call-recent", Status: types.CallStatusCompleted, EndedAt: &recent})

	removed := s.SweepTerminal(time.Now().Add(-time.Hour))
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, ok := s.Get("call-old"); ok {
		t.Error("old terminal call survived the sweep")
	}
	if _, ok := s.Get("call-live"); !ok {
		t.Error("live call was swept")
	}
	if _, ok := s.Get("call-recent"); !ok {
		t.Error("recent terminal call swept before retention window")
	}
}
