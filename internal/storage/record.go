package storage

import (
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// CallRecord is the archived form of a finished call for DynamoDB
type CallRecord struct {
	DateKey        string  `json:"dateKey" dynamodbav:"DateKey"` // YYYY-MM-DD (partition key)
	CallID         string  `json:"callId" dynamodbav:"CallID"`   // sort key
	Direction      string  `json:"direction" dynamodbav:"Direction"`
	QueueID        string  `json:"queueId" dynamodbav:"QueueID"`
	AgentID        string  `json:"agentId" dynamodbav:"AgentID"`
	Status         string  `json:"status" dynamodbav:"Status"`
	Priority       string  `json:"priority" dynamodbav:"Priority"`
	Sentiment      float64 `json:"sentiment" dynamodbav:"Sentiment"`
	CreatedAt      string  `json:"createdAt" dynamodbav:"CreatedAt"` // RFC3339
	AnsweredAt     string  `json:"answeredAt,omitempty" dynamodbav:"AnsweredAt"`
	EndedAt        string  `json:"endedAt,omitempty" dynamodbav:"EndedAt"`
	DurationSecs   float64 `json:"durationSecs" dynamodbav:"DurationSecs"`
	AISummary      string  `json:"aiSummary,omitempty" dynamodbav:"AISummary"`
	AIConfidence   int     `json:"aiConfidence,omitempty" dynamodbav:"AIConfidence"`
	TransferCount  int     `json:"transferCount" dynamodbav:"TransferCount"`
	LastTransferTo string  `json:"lastTransferTo,omitempty" dynamodbav:"LastTransferTo"`
	CallerNumber   string  `json:"callerNumber,omitempty" dynamodbav:"CallerNumber"`
	CustomerName   string  `json:"customerName,omitempty" dynamodbav:"CustomerName"`
}

// TransferRecord is one audit-log entry for a completed transfer
type TransferRecord struct {
	CallID           string `json:"callId" dynamodbav:"CallID"`       // partition key
	Timestamp        string `json:"timestamp" dynamodbav:"Timestamp"` // RFC3339 sort key
	FromAgent        string `json:"fromAgent" dynamodbav:"FromAgent"`
	ToDestination    string `json:"toDestination" dynamodbav:"ToDestination"`
	TransferType     string `json:"transferType" dynamodbav:"TransferType"`
	Notes            string `json:"notes,omitempty" dynamodbav:"Notes"`
	IncludeAIContext bool   `json:"includeAiContext" dynamodbav:"IncludeAIContext"`
}

// RecordFromTransfer converts a history entry to its audit-log record.
func RecordFromTransfer(callID string, t types.Transfer) TransferRecord {
	return TransferRecord{
		CallID:           callID,
		Timestamp:        t.Timestamp.Format(time.RFC3339Nano),
		FromAgent:        t.From,
		ToDestination:    t.To,
		TransferType:     string(t.Type),
		Notes:            t.Notes,
		IncludeAIContext: t.IncludeAIContext,
	}
}

// RecordFromCall converts a terminal call to its archive record. The agent
// of record is the final assignee, the last human to handle the call before
// it ended, or failing both the initiator of the last transfer.
func RecordFromCall(call *types.Call) CallRecord {
	record := CallRecord{
		CallID:        call.ID,
		Direction:     string(call.Direction),
		QueueID:       call.QueueID,
		AgentID:       call.AssignedAgentID,
		Status:        string(call.Status),
		Priority:      string(call.Priority),
		Sentiment:     float64(call.Sentiment),
		DurationSecs:  call.DurationSeconds,
		AISummary:     call.AISummary,
		AIConfidence:  call.AIConfidence,
		TransferCount: len(call.TransferHistory),
		CallerNumber:  call.Caller.Number,
		CustomerName:  call.Context.CustomerName,
	}

	record.DateKey = call.CreatedAt.Format("2006-01-02")
	record.CreatedAt = call.CreatedAt.Format(time.RFC3339)
	if call.AnsweredAt != nil {
		record.AnsweredAt = call.AnsweredAt.Format(time.RFC3339)
	}
	if call.EndedAt != nil {
		record.EndedAt = call.EndedAt.Format(time.RFC3339)
	}
	if record.AgentID == "" {
		record.AgentID = call.HandledBy
	}
	if n := len(call.TransferHistory); n > 0 {
		record.LastTransferTo = call.TransferHistory[n-1].To
		if record.AgentID == "" {
			record.AgentID = call.TransferHistory[n-1].From
		}
	}

	return record
}
