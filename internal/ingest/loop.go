// Package ingest applies the fabric's event stream to the call record
// store. The loop is the single writer: fabric events and agent-initiated
// mutations all funnel through one goroutine, so readers never observe a
// torn update and concurrent commands cannot lose writes.
package ingest

import (
	"context"
	"errors"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/conference"
	"github.com/ericminessale/ai-call-center-core/internal/metrics"
	"github.com/ericminessale/ai-call-center-core/internal/storage"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/rs/zerolog"
)

const (
	// dedupWindow bounds how long delivered event keys are remembered.
	// The fabric's redelivery window is well under this.
	dedupWindow = 5 * time.Minute

	// housekeepInterval drives retention sweeps and dedup-cache expiry
	housekeepInterval = 30 * time.Second
)

// op is an agent-initiated mutation executed on the loop goroutine
type op struct {
	fn    func(*store.Store) error
	reply chan error
}

// Loop consumes fabric events and serialized mutations
type Loop struct {
	store       *store.Store
	conferences *conference.Registry
	archive     storage.Store
	retention   time.Duration

	events chan types.Event
	ops    chan op

	dedup  *dedupCache
	logger zerolog.Logger
}

// New creates an ingest loop. archive may be a NoopStore when persistence
// is disabled; retention is the terminal-call retention window.
func New(st *store.Store, conferences *conference.Registry, archive storage.Store, retention time.Duration, logger zerolog.Logger) *Loop {
	return &Loop{
		store:       st,
		conferences: conferences,
		archive:     archive,
		retention:   retention,
		events:      make(chan types.Event, 1024),
		ops:         make(chan op, 64),
		dedup:       newDedupCache(dedupWindow),
		logger:      logger.With().Str("component", "ingest").Logger(),
	}
}

// Events returns the channel the fabric stream feeds
func (l *Loop) Events() chan<- types.Event {
	return l.events
}

// Apply runs a single event synchronously. Exposed for tests and for the
// HTTP event-injection endpoint; production traffic goes through Events().
func (l *Loop) Apply(ev types.Event) {
	l.apply(ev, time.Now())
}

// Do executes fn on the loop goroutine, serialized with event application,
// and waits for its result. Agent commands (transfer confirmation, take
// call) mutate the store only through here.
func (l *Loop) Do(ctx context.Context, fn func(*store.Store) error) error {
	o := op{fn: fn, reply: make(chan error, 1)}
	select {
	case l.ops <- o:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-o.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events and ops until the context is cancelled
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(housekeepInterval)
	defer ticker.Stop()

	l.logger.Info().Dur("retention", l.retention).Msg("ingest loop started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("ingest loop stopped")
			return

		case ev := <-l.events:
			l.apply(ev, time.Now())

		case o := <-l.ops:
			o.reply <- o.fn(l.store)

		case now := <-ticker.C:
			l.dedup.sweep(now)
			if removed := l.store.SweepTerminal(now.Add(-l.retention)); removed > 0 {
				l.logger.Debug().Int("removed", removed).Msg("evicted terminal calls past retention")
			}
		}
	}
}

// apply applies one event idempotently. Duplicates and stale updates are
// dropped, never fatal.
func (l *Loop) apply(ev types.Event, now time.Time) {
	m := metrics.Get()

	if l.dedup.observe(ev.DedupKey(), now) {
		m.RecordEventDuplicate()
		l.logger.Debug().
			Str("event_id", ev.EventID).
			Str("type", string(ev.Type)).
			Str("call_id", ev.CallID).
			Msg("duplicate event dropped")
		return
	}
	m.RecordEventIngested()

	var err error
	switch ev.Type {
	case types.EventCallCreated:
		err = l.applyCallCreated(&ev)
	case types.EventCallStatusChanged:
		err = l.applyStatusChanged(&ev)
	case types.EventCallUpdated:
		err = l.applyCallUpdated(&ev)
	case types.EventCallEnded:
		err = l.applyCallEnded(&ev)
	case types.EventConferenceParticipantChanged:
		l.applyConferenceChanged(&ev)
	case types.EventQueueSnapshot:
		l.store.ReplaceQueue(ev.QueueID, ev.QueueName, ev.WaitingCalls)
	default:
		l.logger.Warn().Str("type", string(ev.Type)).Msg("unknown event type ignored")
		return
	}

	if errors.Is(err, types.ErrStaleUpdate) {
		m.RecordStaleUpdate()
		l.logger.Debug().
			Str("call_id", ev.CallID).
			Str("type", string(ev.Type)).
			Msg("stale update dropped")
		return
	}
	if err != nil {
		m.RecordIngestError()
		l.logger.Error().Err(err).
			Str("call_id", ev.CallID).
			Str("type", string(ev.Type)).
			Msg("failed to apply event")
	}
}

// callFromEvent fetches the call or, for any event referencing an unseen
// ID, creates a fresh waiting record. Calls must never silently vanish
// just because their creation event was missed.
func (l *Loop) callFromEvent(ev *types.Event) *types.Call {
	call, ok := l.store.Get(ev.CallID)
	if ok {
		return call
	}
	call = &types.Call{
		ID:          ev.CallID,
		Direction:   types.DirectionInbound,
		Status:      types.CallStatusWaiting,
		HandlerType: types.HandlerNone,
		Priority:    types.PriorityMedium,
		CreatedAt:   ev.Timestamp,
	}
	if ev.Direction != "" {
		call.Direction = ev.Direction
	}
	return call
}

func (l *Loop) applyCallCreated(ev *types.Event) error {
	call := l.callFromEvent(ev)
	if ev.Status != "" {
		call.Status = ev.Status
	}
	call.QueueID = ev.QueueID
	if ev.Priority != "" {
		call.Priority = ev.Priority
	}
	if ev.Caller != nil {
		call.Caller = *ev.Caller
	}
	if ev.Context != nil {
		call.Context = *ev.Context
	}
	l.mergeOptional(call, ev)
	call.UpdatedAt = ev.Timestamp
	call.LastEventID = ev.EventID

	err := l.store.Upsert(call)
	if err == nil {
		l.logger.Debug().
			Str("call_id", call.ID).
			Str("queue_id", call.QueueID).
			Str("status", string(call.Status)).
			Msg("call created")
	}
	return err
}

func (l *Loop) applyStatusChanged(ev *types.Event) error {
	call := l.callFromEvent(ev)

	if !isNewer(ev, call.UpdatedAt, call.LastEventID) {
		metrics.Get().RecordEventOutOfOrder()
		l.logger.Debug().
			Str("call_id", ev.CallID).
			Time("event_time", ev.Timestamp).
			Time("last_applied", call.UpdatedAt).
			Msg("out-of-order status change dropped")
		return nil
	}

	call.Status = ev.Status
	if ev.HandlerType != nil {
		call.HandlerType = *ev.HandlerType
	}
	if ev.AssignedAgentID != nil {
		call.AssignedAgentID = *ev.AssignedAgentID
	}
	if ev.QueueID != "" {
		call.QueueID = ev.QueueID
	}
	switch call.Status {
	case types.CallStatusActive, types.CallStatusAIActive:
		if call.AnsweredAt == nil {
			t := ev.Timestamp
			call.AnsweredAt = &t
		}
	case types.CallStatusEnded, types.CallStatusCompleted:
		l.finalize(call, ev.Timestamp)
	}
	call.UpdatedAt = ev.Timestamp
	call.LastEventID = ev.EventID

	err := l.store.Upsert(call)
	if err == nil && call.Status.Terminal() {
		l.archiveCall(call)
	}
	return err
}

func (l *Loop) applyCallUpdated(ev *types.Event) error {
	call, ok := l.store.Get(ev.CallID)
	if !ok {
		call = l.callFromEvent(ev)
	}
	if !isNewer(ev, call.UpdatedAt, call.LastEventID) {
		metrics.Get().RecordEventOutOfOrder()
		l.logger.Debug().
			Str("call_id", ev.CallID).
			Time("event_time", ev.Timestamp).
			Time("last_applied", call.UpdatedAt).
			Msg("out-of-order update dropped")
		return nil
	}
	l.mergeOptional(call, ev)
	call.UpdatedAt = ev.Timestamp
	call.LastEventID = ev.EventID
	return l.store.Upsert(call)
}

func (l *Loop) applyCallEnded(ev *types.Event) error {
	call, ok := l.store.Get(ev.CallID)
	if !ok {
		// Nothing to end; don't invent a record for a call we never saw
		return nil
	}
	l.finalize(call, ev.Timestamp)
	call.Status = types.CallStatusEnded
	call.UpdatedAt = ev.Timestamp
	call.LastEventID = ev.EventID

	err := l.store.Upsert(call)
	if err == nil {
		l.archiveCall(call)
		l.logger.Debug().
			Str("call_id", call.ID).
			Float64("duration", call.DurationSeconds).
			Msg("call ended")
	}
	return err
}

func (l *Loop) applyConferenceChanged(ev *types.Event) {
	if ev.AgentID == "" || ev.Participant == nil {
		l.logger.Warn().Str("event_id", ev.EventID).Msg("conference event missing agent or participant")
		return
	}
	tracker := l.conferences.Tracker(ev.AgentID)
	if ev.Participant.Type == types.ParticipantAgent && ev.Participant.Status == types.ParticipantLeft {
		// The agent's own leg going down tears the conference down
		tracker.SetInConference(false)
		return
	}
	tracker.SetInConference(true)
	tracker.Apply(*ev.Participant)
}

// mergeOptional folds CallUpdated-style fields into the record
func (l *Loop) mergeOptional(call *types.Call, ev *types.Event) {
	if ev.Sentiment != nil {
		call.Sentiment = types.Sentiment(*ev.Sentiment)
	} else if ev.SentimentLabel != "" {
		call.Sentiment = ev.SentimentLabel.Score()
	}
	if ev.AISummary != nil {
		call.AISummary = *ev.AISummary
	}
	if ev.AIConfidence != nil {
		call.AIConfidence = *ev.AIConfidence
	}
	if ev.ExtractedInfo != nil {
		call.ExtractedInfo = ev.ExtractedInfo
	}
}

// finalize stamps end time and duration on a call entering a terminal state
func (l *Loop) finalize(call *types.Call, at time.Time) {
	if call.EndedAt == nil {
		t := at
		call.EndedAt = &t
	}
	if call.AnsweredAt != nil {
		call.DurationSeconds = call.EndedAt.Sub(*call.AnsweredAt).Seconds()
	} else {
		call.DurationSeconds = call.EndedAt.Sub(call.CreatedAt).Seconds()
	}
	if call.AssignedAgentID != "" {
		call.HandledBy = call.AssignedAgentID
	}
	call.HandlerType = types.HandlerNone
	call.AssignedAgentID = ""
}

// archiveCall persists a finished call asynchronously; archive failures
// never block ingest.
func (l *Loop) archiveCall(call *types.Call) {
	record := storage.RecordFromCall(call)
	go func() {
		if err := l.archive.SaveCallRecord(record); err != nil {
			l.logger.Error().Err(err).Str("call_id", record.CallID).Msg("failed to archive call record")
		}
	}()
}
