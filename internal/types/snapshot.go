package types

import "time"

// TriageSnapshot is the single payload the broadcaster hands to the
// dashboard hub every tick. Each connected client receives a per-viewer
// projection of it (buckets classified against that client's agent ID).
type TriageSnapshot struct {
	Type        string                      `json:"type"` // always "triage_snapshot"
	Timestamp   time.Time                   `json:"timestamp"`
	Calls       []Call                      `json:"calls"`
	Queues      []QueueSnapshot             `json:"queues"`
	Conferences map[string]ConferenceStatus `json:"conferences,omitempty"` // agentID -> status
}
