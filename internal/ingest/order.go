package ingest

import (
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// isNewer reports whether an event should supersede the state last applied
// to a call. Event time decides; equal times fall back to the event ID so
// ordering stays deterministic within the fabric's reordering window.
func isNewer(ev *types.Event, lastApplied time.Time, lastEventID string) bool {
	if lastApplied.IsZero() {
		return true
	}
	if !ev.Timestamp.Equal(lastApplied) {
		return ev.Timestamp.After(lastApplied)
	}
	return ev.EventID > lastEventID
}

// dedupCache remembers recently applied event keys so duplicate deliveries
// apply exactly once. Entries expire after the window to bound memory.
type dedupCache struct {
	window time.Duration
	seen   map[string]time.Time
}

func newDedupCache(window time.Duration) *dedupCache {
	return &dedupCache{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// observe records a key and reports whether it was already seen
func (d *dedupCache) observe(key string, now time.Time) bool {
	if _, dup := d.seen[key]; dup {
		return true
	}
	d.seen[key] = now
	return false
}

// sweep drops entries older than the window
func (d *dedupCache) sweep(now time.Time) {
	cutoff := now.Add(-d.window)
	for key, at := range d.seen {
		if at.Before(cutoff) {
			delete(d.seen, key)
		}
	}
}
