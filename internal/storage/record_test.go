package storage

import (
	"testing"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

func TestRecordFromCall(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	answered := created.Add(45 * time.Second)
	ended := created.Add(5 * time.Minute)

	call := &types.Call{
		ID:              "call-1",
		Direction:       types.DirectionInbound,
		Status:          types.CallStatusEnded,
		AssignedAgentID: "agent-7",
		QueueID:         "support",
		Priority:        types.PriorityHigh,
		Sentiment:       -0.5,
		CreatedAt:       created,
		AnsweredAt:      &answered,
		EndedAt:         &ended,
		DurationSeconds: 255,
		AISummary:       "billing dispute",
		AIConfidence:    88,
		Caller:          types.CallerInfo{Number: "+15551234567"},
		Context:         types.CallContext{CustomerName: "Pat Doe"},
		TransferHistory: []types.Transfer{
			{From: "ai-bot", To: "agent-7", Type: types.TransferWarm, Timestamp: created.Add(time.Minute)},
		},
	}

	record := RecordFromCall(call)

	if record.DateKey != "2026-03-14" {
		t.Errorf("DateKey = %q, want 2026-03-14", record.DateKey)
	}
	if record.CallID != "call-1" {
		t.Errorf("CallID = %q", record.CallID)
	}
	if record.AgentID != "agent-7" {
		t.Errorf("AgentID = %q, want agent-7", record.AgentID)
	}
	if record.DurationSecs != 255 {
		t.Errorf("DurationSecs = %v, want 255", record.DurationSecs)
	}
	if record.TransferCount != 1 {
		t.Errorf("TransferCount = %d, want 1", record.TransferCount)
	}
	if record.LastTransferTo != "agent-7" {
		t.Errorf("LastTransferTo = %q, want agent-7", record.LastTransferTo)
	}
	if record.AnsweredAt != answered.Format(time.RFC3339) {
		t.Errorf("AnsweredAt = %q", record.AnsweredAt)
	}
	if record.EndedAt != ended.Format(time.RFC3339) {
		t.Errorf("EndedAt = %q", record.EndedAt)
	}
}

func TestRecordFromCallAgentFallback(t *testing.T) {
	// Unassigned at end of life: the agent of record falls back to the
	// initiator of the last transfer.
	call := &types.Call{
		ID:        "call-2",
		Status:    types.CallStatusEnded,
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		TransferHistory: []types.Transfer{
			{From: "agent-1", To: "billing", Type: types.TransferCold},
		},
	}

	record := RecordFromCall(call)
	if record.AgentID != "agent-1" {
		t.Errorf("AgentID = %q, want agent-1", record.AgentID)
	}
}

func TestRecordFromCallHandledBy(t *testing.T) {
	// The terminal transition clears the live assignment; the agent of
	// record survives in HandledBy and takes precedence over the transfer
	// fallback.
	call := &types.Call{
		ID:        "call-4",
		Status:    types.CallStatusEnded,
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		HandledBy: "agent-7",
		TransferHistory: []types.Transfer{
			{From: "agent-1", To: "billing", Type: types.TransferCold},
		},
	}

	record := RecordFromCall(call)
	if record.AgentID != "agent-7" {
		t.Errorf("AgentID = %q, want agent-7", record.AgentID)
	}
}

func TestRecordFromTransfer(t *testing.T) {
	ts := time.Date(2026, 3, 14, 11, 0, 0, 123456789, time.UTC)
	record := RecordFromTransfer("call-3", types.Transfer{
		From:             "agent-2",
		To:               "agent-5",
		Type:             types.TransferWarm,
		Timestamp:        ts,
		Notes:            "VIP escalation",
		IncludeAIContext: true,
	})

	if record.CallID != "call-3" || record.ToDestination != "agent-5" {
		t.Errorf("unexpected record %+v", record)
	}
	if record.Timestamp != ts.Format(time.RFC3339Nano) {
		t.Errorf("Timestamp = %q", record.Timestamp)
	}
	if !record.IncludeAIContext {
		t.Error("IncludeAIContext not carried over")
	}
}
