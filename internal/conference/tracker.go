// Package conference tracks participant membership for agent conferences
// ("hot seats") and derives the connection status shown to each agent.
package conference

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

// Tracker maintains the participant set for one agent's conference. All
// transitions are driven by fabric membership events; the tracker holds no
// timers of its own.
type Tracker struct {
	agentID      string
	inConference bool
	participants map[string]types.ConferenceParticipant
	mu           sync.RWMutex
	logger       zerolog.Logger
}

// NewTracker creates a tracker for one agent's conference
func NewTracker(agentID string, logger zerolog.Logger) *Tracker {
	return &Tracker{
		agentID:      agentID,
		participants: make(map[string]types.ConferenceParticipant),
		logger:       logger.With().Str("agent_id", agentID).Logger(),
	}
}

// SetInConference marks whether the agent's conference leg is up. Leaving
// the conference clears the participant set.
func (t *Tracker) SetInConference(in bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inConference = in
	if !in {
		t.participants = make(map[string]types.ConferenceParticipant)
	}
}

// Apply updates membership from a fabric participant event. Participants
// that left stay in the set with status left so join/leave history survives
// until the conference is torn down.
func (t *Tracker) Apply(p types.ConferenceParticipant) {
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, known := t.participants[p.ID]
	if known {
		// First join timestamp wins
		if p.JoinedAt == nil {
			p.JoinedAt = existing.JoinedAt
		}
	} else if p.JoinedAt == nil && p.Status == types.ParticipantActive {
		now := time.Now()
		p.JoinedAt = &now
	}
	if p.Status == types.ParticipantLeft && p.LeftAt == nil {
		now := time.Now()
		p.LeftAt = &now
	}
	t.participants[p.ID] = p

	t.logger.Debug().
		Str("participant_id", p.ID).
		Str("participant_type", string(p.Type)).
		Str("status", string(p.Status)).
		Msg("conference participant updated")
}

// Participants returns the current membership sorted by join time
func (t *Tracker) Participants() []types.ConferenceParticipant {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.ConferenceParticipant, 0, len(t.participants))
	for _, p := range t.participants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		ji, jj := out[i].JoinedAt, out[j].JoinedAt
		switch {
		case ji == nil && jj == nil:
			return out[i].ID < out[j].ID
		case ji == nil:
			return false
		case jj == nil:
			return true
		case ji.Equal(*jj):
			return out[i].ID < out[j].ID
		default:
			return ji.Before(*jj)
		}
	})
	return out
}

// Status derives the current connection status from membership
func (t *Tracker) Status() types.ConferenceStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	parts := make([]types.ConferenceParticipant, 0, len(t.participants))
	for _, p := range t.participants {
		parts = append(parts, p)
	}
	return DeriveStatus(t.inConference, parts)
}

// DeriveStatus maps conference membership to a human-readable connection
// state. Hot seat means the agent's leg is up but no customer is on yet.
func DeriveStatus(inConference bool, participants []types.ConferenceParticipant) types.ConferenceStatus {
	if !inConference {
		return types.ConferenceStatus{
			Label:       types.ConferenceNotConnected,
			Description: "Not connected",
		}
	}

	customers := 0
	for i := range participants {
		if participants[i].Type == types.ParticipantCustomer &&
			participants[i].Status == types.ParticipantActive {
			customers++
		}
	}

	if customers == 0 {
		return types.ConferenceStatus{
			Label:       types.ConferenceHotSeatReady,
			Description: "Hot seat ready, waiting for calls",
		}
	}

	noun := "customers"
	if customers == 1 {
		noun = "customer"
	}
	return types.ConferenceStatus{
		Label:           types.ConferenceInConference,
		Description:     fmt.Sprintf("In conference with %d %s", customers, noun),
		ActiveCustomers: customers,
	}
}

// Registry holds one tracker per agent
type Registry struct {
	mu       sync.RWMutex
	trackers map[string]*Tracker
	logger   zerolog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		trackers: make(map[string]*Tracker),
		logger:   logger,
	}
}

// Tracker returns the tracker for an agent, creating it on first use
func (r *Registry) Tracker(agentID string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[agentID]
	if !ok {
		t = NewTracker(agentID, r.logger)
		r.trackers[agentID] = t
	}
	return t
}

// Statuses returns the derived status for every tracked agent
func (r *Registry) Statuses() map[string]types.ConferenceStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]types.ConferenceStatus, len(r.trackers))
	for id, t := range r.trackers {
		out[id] = t.Status()
	}
	return out
}
