package types

import "time"

// CallStatus represents the lifecycle stage of a call
type CallStatus string

const (
	CallStatusWaiting    CallStatus = "waiting"    // In queue, not yet assigned
	CallStatusConnecting CallStatus = "connecting" // Being bridged to a handler
	CallStatusActive     CallStatus = "active"     // Currently being handled
	CallStatusAIActive   CallStatus = "ai_active"  // Being handled by an AI agent
	CallStatusOnHold     CallStatus = "on_hold"    // Parked by its handler
	CallStatusEnded      CallStatus = "ended"      // Hung up or dropped
	CallStatusCompleted  CallStatus = "completed"  // Wrapped up successfully
)

// Terminal reports whether the status is final. Terminal calls accept no
// further mutation.
func (s CallStatus) Terminal() bool {
	return s == CallStatusEnded || s == CallStatusCompleted
}

// Transferable reports whether a call in this status can be handed off.
// Waiting calls belong to the queue, terminal calls are gone.
func (s CallStatus) Transferable() bool {
	switch s {
	case CallStatusConnecting, CallStatusActive, CallStatusAIActive, CallStatusOnHold:
		return true
	}
	return false
}

// HandlerType identifies who currently owns a call. Independent axis from
// CallStatus: an active call can be human- or AI-handled.
type HandlerType string

const (
	HandlerHuman HandlerType = "human"
	HandlerAI    HandlerType = "ai"
	HandlerNone  HandlerType = "none"
)

// CallDirection is the direction of the call relative to the call center
type CallDirection string

const (
	DirectionInbound  CallDirection = "inbound"
	DirectionOutbound CallDirection = "outbound"
)

// Priority is the urgency bucket assigned to a call
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ExtractedField is one key/value pair the AI agent pulled out of the
// conversation, with its confidence score.
type ExtractedField struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"` // 0-1
}

// CallerInfo identifies the remote party
type CallerInfo struct {
	Number string `json:"number"`
	Name   string `json:"name,omitempty"`
}

// CallContext is the customer context gathered before or during the call,
// usually by an AI agent ahead of a human handoff.
type CallContext struct {
	CustomerName  string `json:"customerName,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	Reason        string `json:"reason,omitempty"`
	IsVIP         bool   `json:"isVip,omitempty"`
	IsReturning   bool   `json:"isReturning,omitempty"`
}

// Call represents a single telephone interaction
type Call struct {
	ID              string           `json:"id"`
	Direction       CallDirection    `json:"direction"`
	Status          CallStatus       `json:"status"`
	HandlerType     HandlerType      `json:"handlerType"`
	AssignedAgentID string           `json:"assignedAgentId,omitempty"` // set iff HandlerType == human
	QueueID         string           `json:"queueId,omitempty"`
	Priority        Priority         `json:"priority"`
	Sentiment       Sentiment        `json:"sentiment"`
	Caller          CallerInfo       `json:"caller"`
	Context         CallContext      `json:"context"`
	CreatedAt       time.Time        `json:"createdAt"`
	AnsweredAt      *time.Time       `json:"answeredAt,omitempty"`
	EndedAt         *time.Time       `json:"endedAt,omitempty"`
	DurationSeconds float64          `json:"durationSeconds"`
	AISummary       string           `json:"aiSummary,omitempty"`
	AIConfidence    int              `json:"aiConfidence,omitempty"` // 0-100
	ExtractedInfo   []ExtractedField `json:"extractedInfo,omitempty"`
	TransferHistory []Transfer       `json:"transferHistory,omitempty"` // append-only

	// Ordering metadata for ingest. Not part of the wire model.
	UpdatedAt   time.Time `json:"-"`
	LastEventID string    `json:"-"`

	// HandledBy keeps the agent of record after a terminal transition
	// clears the handler. Archive-only; not part of the wire model.
	HandledBy string `json:"-"`
}

// IsUrgent reports whether the call needs front-of-line treatment:
// urgent priority or a VIP caller.
func (c *Call) IsUrgent() bool {
	return c.Priority == PriorityUrgent || c.Context.IsVIP
}

// WaitSeconds returns how long the call has been waiting in queue as of now.
// Zero for calls that are not waiting.
func (c *Call) WaitSeconds(now time.Time) float64 {
	if c.Status != CallStatusWaiting {
		return 0
	}
	return now.Sub(c.CreatedAt).Seconds()
}

// Clone returns a deep copy. Readers of the store only ever see clones, so
// classification never races a concurrent update.
func (c *Call) Clone() *Call {
	cp := *c
	if c.ExtractedInfo != nil {
		cp.ExtractedInfo = make([]ExtractedField, len(c.ExtractedInfo))
		copy(cp.ExtractedInfo, c.ExtractedInfo)
	}
	if c.TransferHistory != nil {
		cp.TransferHistory = make([]Transfer, len(c.TransferHistory))
		copy(cp.TransferHistory, c.TransferHistory)
	}
	if c.AnsweredAt != nil {
		t := *c.AnsweredAt
		cp.AnsweredAt = &t
	}
	if c.EndedAt != nil {
		t := *c.EndedAt
		cp.EndedAt = &t
	}
	return &cp
}

// NormalizeHandler enforces the handler invariant: exactly one of
// {none, ai, human+assignedAgentId} holds. A human handler without an agent
// ID degrades to none; non-human handlers never carry an agent ID.
func (c *Call) NormalizeHandler() {
	switch c.HandlerType {
	case HandlerHuman:
		if c.AssignedAgentID == "" {
			c.HandlerType = HandlerNone
		}
	case HandlerAI, HandlerNone:
		c.AssignedAgentID = ""
	default:
		c.HandlerType = HandlerNone
		c.AssignedAgentID = ""
	}
}
