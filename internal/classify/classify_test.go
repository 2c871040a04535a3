package classify

import (
	"testing"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

const viewer = "agent-1"

func TestClassifyRules(t *testing.T) {
	tests := []struct {
		name string
		call types.Call
		want Bucket
	}{
		{
			name: "active human call assigned to viewer",
			call: types.Call{Status: types.CallStatusActive, HandlerType: types.HandlerHuman, AssignedAgentID: viewer},
			want: BucketMyCalls,
		},
		{
			name: "connecting human call assigned to viewer",
			call: types.Call{Status: types.CallStatusConnecting, HandlerType: types.HandlerHuman, AssignedAgentID: viewer},
			want: BucketMyCalls,
		},
		{
			name: "ai_active status",
			call: types.Call{Status: types.CallStatusAIActive, HandlerType: types.HandlerAI},
			want: BucketAIActive,
		},
		{
			name: "ai handler on active status",
			call: types.Call{Status: types.CallStatusActive, HandlerType: types.HandlerAI},
			want: BucketAIActive,
		},
		{
			name: "active human call assigned to another agent",
			call: types.Call{Status: types.CallStatusActive, HandlerType: types.HandlerHuman, AssignedAgentID: "agent-2"},
			want: BucketOtherAgents,
		},
		{
			name: "on hold held by another agent",
			call: types.Call{Status: types.CallStatusOnHold, HandlerType: types.HandlerHuman, AssignedAgentID: "agent-2"},
			want: BucketOtherAgents,
		},
		{
			name: "waiting call",
			call: types.Call{Status: types.CallStatusWaiting, HandlerType: types.HandlerNone, QueueID: "support"},
			want: BucketQueued,
		},
		{
			name: "ended call with no handler",
			call: types.Call{Status: types.CallStatusEnded, HandlerType: types.HandlerNone},
			want: BucketUncategorized,
		},
		{
			name: "connecting with no handler",
			call: types.Call{Status: types.CallStatusConnecting, HandlerType: types.HandlerNone},
			want: BucketUncategorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.call, viewer); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

// Every status/handler combination must land in exactly one bucket, and the
// union of all buckets must cover the whole input.
func TestClassifyTotality(t *testing.T) {
	statuses := []types.CallStatus{
		types.CallStatusWaiting, types.CallStatusConnecting, types.CallStatusActive,
		types.CallStatusAIActive, types.CallStatusOnHold, types.CallStatusEnded,
		types.CallStatusCompleted, types.CallStatus("bogus"),
	}
	handlers := []types.HandlerType{
		types.HandlerHuman, types.HandlerAI, types.HandlerNone, types.HandlerType(""),
	}
	agents := []string{"", viewer, "agent-2"}

	var calls []types.Call
	for _, s := range statuses {
		for _, h := range handlers {
			for _, a := range agents {
				calls = append(calls, types.Call{
					ID:              string(s) + "/" + string(h) + "/" + a,
					Status:          s,
					HandlerType:     h,
					AssignedAgentID: a,
				})
			}
		}
	}

	valid := make(map[Bucket]bool, len(AllBuckets))
	for _, b := range AllBuckets {
		valid[b] = true
	}
	for _, c := range calls {
		if b := Classify(c, viewer); !valid[b] {
			t.Errorf("call %s classified into unknown bucket %q", c.ID, b)
		}
	}

	buckets := Partition(calls, viewer)
	total := 0
	for _, members := range buckets {
		total += len(members)
	}
	if total != len(calls) {
		t.Errorf("partition lost calls: %d in, %d across buckets", len(calls), total)
	}
}

func TestNeedsAttention(t *testing.T) {
	cfg := DefaultAttentionConfig()

	tests := []struct {
		name string
		call types.Call
		want bool
	}{
		{"negative sentiment", types.Call{Sentiment: -0.5}, true},
		{"sentiment exactly at cutoff", types.Call{Sentiment: -0.3}, false},
		{"long duration", types.Call{DurationSeconds: 601}, true},
		{"duration exactly at cutoff", types.Call{DurationSeconds: 600}, false},
		{"calm short call", types.Call{Sentiment: 0.2, DurationSeconds: 30}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsAttention(tt.call, cfg); got != tt.want {
				t.Errorf("NeedsAttention() = %v, want %v", got, tt.want)
			}
		})
	}
}

// The attention tag never changes primary bucket membership.
func TestAttentionIndependence(t *testing.T) {
	call := types.Call{
		ID: "call-a", Status: types.CallStatusActive,
		HandlerType: types.HandlerHuman, AssignedAgentID: viewer,
		Sentiment: -0.5,
	}
	if got := Classify(call, viewer); got != BucketMyCalls {
		t.Fatalf("expected my_calls, got %s", got)
	}
	if !NeedsAttention(call, DefaultAttentionConfig()) {
		t.Error("expected call to need attention")
	}

	// Removing the attention condition must not move the call
	call.Sentiment = 0
	if got := Classify(call, viewer); got != BucketMyCalls {
		t.Errorf("bucket changed after clearing sentiment: got %s", got)
	}
}

func TestCountsIncludesEmptyBuckets(t *testing.T) {
	counts := Counts(nil, viewer)
	if len(counts) != len(AllBuckets) {
		t.Fatalf("expected %d buckets, got %d", len(AllBuckets), len(counts))
	}
	for b, n := range counts {
		if n != 0 {
			t.Errorf("bucket %s should be empty, got %d", b, n)
		}
	}
}
