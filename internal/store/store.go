// Package store is the single source of truth for all known calls and
// queues. The ingest loop is the only writer; every read returns deep
// copies, so derived views (classification, scoring) never observe a
// half-applied update.
package store

import (
	"sync"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

// queueState is the mutable backing for one queue: its identity plus the
// ordered waiting-call IDs (insertion order = queue order).
type queueState struct {
	id    string
	name  string
	order []string
}

// Store holds the authoritative call and queue records
type Store struct {
	calls  map[string]*types.Call
	queues map[string]*queueState
	mu     sync.RWMutex
	logger zerolog.Logger
}

// New creates an empty store
func New(logger zerolog.Logger) *Store {
	return &Store{
		calls:  make(map[string]*types.Call),
		queues: make(map[string]*queueState),
		logger: logger,
	}
}

// Upsert inserts or replaces a call by ID. Mutating a call already in a
// terminal state fails with ErrStaleUpdate; terminal states are final.
// Queue membership is kept consistent: a waiting call sits in exactly the
// queue its QueueID names, any other call sits in none.
func (s *Store) Upsert(call *types.Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.calls[call.ID]
	if ok && existing.Status.Terminal() {
		return types.ErrStaleUpdate
	}

	call.NormalizeHandler()
	stored := call.Clone()
	s.calls[call.ID] = stored
	s.reseatLocked(stored)
	return nil
}

// Remove evicts a call and its queue membership
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.calls, id)
	for _, q := range s.queues {
		q.drop(id)
	}
}

// Get returns a point-in-time copy of a call
func (s *Store) Get(id string) (*types.Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	call, ok := s.calls[id]
	if !ok {
		return nil, false
	}
	return call.Clone(), true
}

// ListAll returns copies of every known call
func (s *Store) ListAll() []types.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Call, 0, len(s.calls))
	for _, call := range s.calls {
		out = append(out, *call.Clone())
	}
	return out
}

// ListByQueue returns copies of the waiting calls of one queue, in queue
// order.
func (s *Store) ListByQueue(queueID string) []types.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.queues[queueID]
	if !ok {
		return nil
	}
	out := make([]types.Call, 0, len(q.order))
	for _, id := range q.order {
		if call, ok := s.calls[id]; ok {
			out = append(out, *call.Clone())
		}
	}
	return out
}

// Queues returns a point-in-time snapshot of every queue
func (s *Store) Queues() []types.Queue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Queue, 0, len(s.queues))
	for _, q := range s.queues {
		queue := types.Queue{ID: q.id, Name: q.name}
		for _, id := range q.order {
			if call, ok := s.calls[id]; ok {
				queue.Waiting = append(queue.Waiting, *call.Clone())
			}
		}
		out = append(out, queue)
	}
	return out
}

// EnsureQueue registers a queue so it shows up in snapshots even while
// empty.
func (s *Store) EnsureQueue(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureQueueLocked(id, name)
}

// ReplaceQueue swaps in the fabric's authoritative waiting list for a
// queue. Calls already in a terminal state locally are not resurrected.
func (s *Store) ReplaceQueue(id, name string, waiting []types.Call) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.ensureQueueLocked(id, name)
	if name != "" {
		q.name = name
	}

	q.order = q.order[:0]
	for i := range waiting {
		call := waiting[i]
		call.Status = types.CallStatusWaiting
		call.QueueID = id
		call.NormalizeHandler()

		if existing, ok := s.calls[call.ID]; ok && existing.Status.Terminal() {
			s.logger.Debug().Str("call_id", call.ID).Msg("queue snapshot references terminal call, skipping")
			continue
		}
		s.calls[call.ID] = call.Clone()
		// A call appears in at most one queue
		for qid, other := range s.queues {
			if qid != id {
				other.drop(call.ID)
			}
		}
		q.order = append(q.order, call.ID)
	}

	// Calls that used to wait here but are gone from the snapshot no
	// longer belong to this queue.
	for cid, call := range s.calls {
		if call.QueueID == id && call.Status == types.CallStatusWaiting && !q.contains(cid) {
			call.QueueID = ""
		}
	}
}

// SweepTerminal evicts terminal calls that ended before the cutoff and
// returns how many were removed. The retention window is externally
// configured.
func (s *Store) SweepTerminal(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, call := range s.calls {
		if !call.Status.Terminal() {
			continue
		}
		endedAt := call.UpdatedAt
		if call.EndedAt != nil {
			endedAt = *call.EndedAt
		}
		if endedAt.Before(cutoff) {
			delete(s.calls, id)
			for _, q := range s.queues {
				q.drop(id)
			}
			removed++
		}
	}
	return removed
}

// Count returns the total number of tracked calls
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// reseatLocked fixes the call's queue membership after a mutation
func (s *Store) reseatLocked(call *types.Call) {
	for qid, q := range s.queues {
		if call.Status != types.CallStatusWaiting || qid != call.QueueID {
			q.drop(call.ID)
		}
	}
	if call.Status == types.CallStatusWaiting && call.QueueID != "" {
		q := s.ensureQueueLocked(call.QueueID, "")
		if !q.contains(call.ID) {
			q.order = append(q.order, call.ID)
		}
	}
}

func (s *Store) ensureQueueLocked(id, name string) *queueState {
	q, ok := s.queues[id]
	if !ok {
		q = &queueState{id: id, name: name}
		if q.name == "" {
			q.name = id
		}
		s.queues[id] = q
	}
	return q
}

func (q *queueState) contains(callID string) bool {
	for _, id := range q.order {
		if id == callID {
			return true
		}
	}
	return false
}

func (q *queueState) drop(callID string) {
	for i, id := range q.order {
		if id == callID {
			q.order = append(q.order[:i], q.order[i+1:]...)
			return
		}
	}
}
