package types

import "time"

// TransferType distinguishes warm handoffs (originating agent stays on until
// the destination is bridged) from cold ones.
type TransferType string

const (
	TransferWarm TransferType = "warm"
	TransferCold TransferType = "cold"
)

// Transfer is an immutable record of a requested or completed handoff.
// Once appended to a call's TransferHistory it is never rewritten.
type Transfer struct {
	From             string       `json:"from"`
	To               string       `json:"to"`
	Type             TransferType `json:"type"`
	Timestamp        time.Time    `json:"timestamp"`
	Notes            string       `json:"notes,omitempty"`
	IncludeAIContext bool         `json:"includeAiContext,omitempty"`
}

// AIContext is the AI handoff bundle attached to a transfer command when the
// initiating agent opts to pass the AI's work along.
type AIContext struct {
	Summary       string           `json:"summary,omitempty"`
	Confidence    int              `json:"confidence,omitempty"` // 0-100
	ExtractedInfo []ExtractedField `json:"extractedInfo,omitempty"`
}
