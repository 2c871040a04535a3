package types

import "time"

// ParticipantType identifies what kind of leg joined the conference
type ParticipantType string

const (
	ParticipantAgent      ParticipantType = "agent"
	ParticipantCustomer   ParticipantType = "customer"
	ParticipantAI         ParticipantType = "ai"
	ParticipantSupervisor ParticipantType = "supervisor"
)

// ParticipantStatus is the lifecycle of a conference leg
type ParticipantStatus string

const (
	ParticipantJoining ParticipantStatus = "joining"
	ParticipantActive  ParticipantStatus = "active"
	ParticipantHeld    ParticipantStatus = "held"
	ParticipantLeft    ParticipantStatus = "left"
)

// ConferenceParticipant is one leg in an agent's conference ("hot seat")
type ConferenceParticipant struct {
	ID       string            `json:"id"`
	Type     ParticipantType   `json:"type"`
	Status   ParticipantStatus `json:"status"`
	CallID   string            `json:"callId,omitempty"`
	IsMuted  bool              `json:"isMuted,omitempty"`
	IsDeaf   bool              `json:"isDeaf,omitempty"` // can't hear others
	JoinedAt *time.Time        `json:"joinedAt,omitempty"`
	LeftAt   *time.Time        `json:"leftAt,omitempty"`
}

// ConferenceLabel is the derived connection state shown to the agent
type ConferenceLabel string

const (
	ConferenceNotConnected ConferenceLabel = "not_connected"
	ConferenceHotSeatReady ConferenceLabel = "hot_seat_ready"
	ConferenceInConference ConferenceLabel = "in_conference"
)

// ConferenceStatus is the human-readable connection state derived from
// participant membership.
type ConferenceStatus struct {
	Label           ConferenceLabel `json:"label"`
	Description     string          `json:"description"`
	ActiveCustomers int             `json:"activeCustomers"`
}
