package broadcast

import (
	"testing"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/conference"
	"github.com/ericminessale/ai-call-center-core/internal/queuehealth"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/ericminessale/ai-call-center-core/internal/websocket"
	"github.com/rs/zerolog"
)

func TestSnapshotAssembly(t *testing.T) {
	st := store.New(zerolog.Nop())
	registry := conference.NewRegistry(zerolog.Nop())
	hub := websocket.NewHub(zerolog.Nop())
	sampler := queuehealth.NewTrendSampler(30 * time.Second)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	st.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusWaiting,
		QueueID: "support", CreatedAt: now.Add(-200 * time.Second),
	})
	st.Upsert(&types.Call{
		ID: "call-2", Status: types.CallStatusActive,
		HandlerType: types.HandlerHuman, AssignedAgentID: "alice",
		CreatedAt: now.Add(-5 * time.Minute),
	})
	registry.Tracker("alice").SetInConference(true)

	b := New(st, registry, hub, queuehealth.DefaultConfig(), sampler, time.Second, zerolog.Nop())
	snapshot := b.Snapshot(now)

	if snapshot.Type != "triage_snapshot" {
		t.Errorf("Type = %q", snapshot.Type)
	}
	if len(snapshot.Calls) != 2 {
		t.Errorf("Calls = %d, want 2", len(snapshot.Calls))
	}
	if len(snapshot.Queues) != 1 {
		t.Fatalf("Queues = %d, want 1", len(snapshot.Queues))
	}

	q := snapshot.Queues[0]
	if q.QueueID != "support" || q.WaitingCount != 1 {
		t.Errorf("queue snapshot = %+v", q)
	}
	if q.LongestWaitSecs != 200 {
		t.Errorf("LongestWaitSecs = %v, want 200", q.LongestWaitSecs)
	}
	// One waiting call over the 180s SLA threshold
	if q.Health.SLACompliance != 0 {
		t.Errorf("SLACompliance = %v, want 0", q.Health.SLACompliance)
	}
	if q.Health.Trend != types.TrendStable {
		t.Errorf("Trend = %q, first sample should be stable", q.Health.Trend)
	}

	status, ok := snapshot.Conferences["alice"]
	if !ok {
		t.Fatal("conference status for alice missing")
	}
	if status.Label != types.ConferenceHotSeatReady {
		t.Errorf("Label = %q, want hot_seat_ready", status.Label)
	}
}

func TestSnapshotTrendAcrossWindows(t *testing.T) {
	st := store.New(zerolog.Nop())
	registry := conference.NewRegistry(zerolog.Nop())
	hub := websocket.NewHub(zerolog.Nop())
	sampler := queuehealth.NewTrendSampler(30 * time.Second)

	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	st.Upsert(&types.Call{
		ID: "call-1", Status: types.CallStatusWaiting,
		QueueID: "support", CreatedAt: base.Add(-10 * time.Second),
	})

	b := New(st, registry, hub, queuehealth.DefaultConfig(), sampler, time.Second, zerolog.Nop())

	// First window: no prior baseline
	first := b.Snapshot(base)
	if first.Queues[0].Health.Trend != types.TrendStable {
		t.Errorf("first Trend = %q, want stable", first.Queues[0].Health.Trend)
	}

	// Next window: the same waiting call has aged well past the margin
	second := b.Snapshot(base.Add(40 * time.Second))
	if second.Queues[0].Health.Trend != types.TrendIncreasing {
		t.Errorf("second Trend = %q, want increasing", second.Queues[0].Health.Trend)
	}
}
