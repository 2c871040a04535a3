package types

import "time"

// EventType identifies an inbound fabric event
type EventType string

const (
	EventCallCreated                  EventType = "call_created"
	EventCallStatusChanged            EventType = "call_status_changed"
	EventCallUpdated                  EventType = "call_updated"
	EventCallEnded                    EventType = "call_ended"
	EventConferenceParticipantChanged EventType = "conference_participant_changed"
	EventQueueSnapshot                EventType = "queue_snapshot"
)

// Event is the envelope for all inbound fabric events. Which fields are set
// depends on Type; optional fields use pointers so "absent" and "zero" stay
// distinguishable.
type Event struct {
	EventID   string    `json:"eventId,omitempty"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	// Call events
	CallID          string           `json:"callId,omitempty"`
	Direction       CallDirection    `json:"direction,omitempty"`
	Status          CallStatus       `json:"status,omitempty"`
	HandlerType     *HandlerType     `json:"handlerType,omitempty"`
	AssignedAgentID *string          `json:"assignedAgentId,omitempty"`
	QueueID         string           `json:"queueId,omitempty"`
	Priority        Priority         `json:"priority,omitempty"`
	Sentiment       *float64         `json:"sentiment,omitempty"`
	SentimentLabel  SentimentLabel   `json:"sentimentLabel,omitempty"`
	Caller          *CallerInfo      `json:"caller,omitempty"`
	Context         *CallContext     `json:"context,omitempty"`
	AISummary       *string          `json:"aiSummary,omitempty"`
	AIConfidence    *int             `json:"aiConfidence,omitempty"`
	ExtractedInfo   []ExtractedField `json:"extractedInfo,omitempty"`

	// Conference events
	AgentID     string                 `json:"agentId,omitempty"` // conference owner
	Participant *ConferenceParticipant `json:"participant,omitempty"`

	// Queue snapshot events: the fabric's authoritative waiting list
	QueueName    string `json:"queueName,omitempty"`
	WaitingCalls []Call `json:"waitingCalls,omitempty"`
}

// DedupKey identifies an event delivery for duplicate suppression. The
// fabric may redeliver; two deliveries with the same key must apply once.
func (e *Event) DedupKey() string {
	if e.EventID != "" {
		return e.EventID
	}
	return e.CallID + "|" + string(e.Type) + "|" + e.Timestamp.UTC().Format(time.RFC3339Nano)
}
