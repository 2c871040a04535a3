// Package broadcast assembles the shared triage snapshot on a fixed tick
// and hands it to the websocket hub for per-viewer fan-out.
package broadcast

import (
	"context"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/conference"
	"github.com/ericminessale/ai-call-center-core/internal/metrics"
	"github.com/ericminessale/ai-call-center-core/internal/queuehealth"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/types"
	"github.com/ericminessale/ai-call-center-core/internal/websocket"
	"github.com/rs/zerolog"
)

// Broadcaster builds snapshots from the call store, queue scorer and
// conference registry
type Broadcaster struct {
	store       *store.Store
	conferences *conference.Registry
	hub         *websocket.Hub
	health      queuehealth.Config
	sampler     *queuehealth.TrendSampler
	interval    time.Duration
	logger      zerolog.Logger
}

// New creates a broadcaster ticking at the given interval
func New(st *store.Store, conferences *conference.Registry, hub *websocket.Hub, health queuehealth.Config, sampler *queuehealth.TrendSampler, interval time.Duration, logger zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		store:       st,
		conferences: conferences,
		hub:         hub,
		health:      health,
		sampler:     sampler,
		interval:    interval,
		logger:      logger.With().Str("component", "broadcast").Logger(),
	}
}

// Start ticks until the context is cancelled
func (b *Broadcaster) Start(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	m := metrics.Get()
	b.logger.Info().Dur("interval", b.interval).Msg("broadcaster started")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("broadcaster stopped")
			return

		case now := <-ticker.C:
			cycleStart := time.Now()

			snapshot := b.Snapshot(now)
			m.UpdateCallStats(snapshot.Calls)
			b.hub.BroadcastSnapshot(snapshot)

			m.RecordBroadcastCycle(time.Since(cycleStart))

			b.logger.Debug().
				Int("calls", len(snapshot.Calls)).
				Int("queues", len(snapshot.Queues)).
				Int("clients", b.hub.ClientCount()).
				Msg("snapshot broadcasted")
		}
	}
}

// Snapshot assembles the shared view of the board as of now
func (b *Broadcaster) Snapshot(now time.Time) *types.TriageSnapshot {
	queues := b.store.Queues()
	snapshots := make([]types.QueueSnapshot, 0, len(queues))
	for _, q := range queues {
		avgWait := q.AvgWaitSeconds(now)
		previousAvg := b.sampler.Observe(q.ID, avgWait, now)

		snapshots = append(snapshots, types.QueueSnapshot{
			QueueID:         q.ID,
			Name:            q.Name,
			WaitingCount:    q.WaitingCount(),
			AvgWaitSecs:     avgWait,
			LongestWaitSecs: q.LongestWaitSeconds(now),
			Health:          queuehealth.Score(q, b.health, previousAvg, now),
			Waiting:         q.Waiting,
		})
	}

	return &types.TriageSnapshot{
		Type:        "triage_snapshot",
		Timestamp:   now,
		Calls:       b.store.ListAll(),
		Queues:      snapshots,
		Conferences: b.conferences.Statuses(),
	}
}
