package types

import "time"

// AgentStatus is the availability state an agent can set on the fabric
type AgentStatus string

const (
	AgentAvailable AgentStatus = "available"
	AgentBusy      AgentStatus = "busy"
	AgentBreak     AgentStatus = "break"
	AgentOffline   AgentStatus = "offline"
)

// CommandType identifies an outbound command sent to the fabric
type CommandType string

const (
	CommandTakeCall       CommandType = "take_call"
	CommandTransfer       CommandType = "transfer"
	CommandHold           CommandType = "hold"
	CommandUnhold         CommandType = "unhold"
	CommandMute           CommandType = "mute"
	CommandUnmute         CommandType = "unmute"
	CommandSendDigits     CommandType = "send_digits"
	CommandSetAgentStatus CommandType = "set_agent_status"
)

// TransferCommand is the outbound payload for a transfer. CommandID lets the
// fabric deduplicate retries of the same request.
type TransferCommand struct {
	CommandID   string       `json:"commandId"`
	CallID      string       `json:"callId"`
	From        string       `json:"from"`
	Destination string       `json:"destination"`
	Type        TransferType `json:"type"`
	Notes       string       `json:"notes,omitempty"`
	AIContext   *AIContext   `json:"aiContext,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}
