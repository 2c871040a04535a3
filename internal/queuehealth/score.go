// Package queuehealth scores queue health from waiting-call statistics.
// Scoring is computed on read; nothing here holds timers or mutates queues.
package queuehealth

import (
	"sync"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// Config holds the externally configured scoring thresholds
type Config struct {
	SLAThresholdSecs float64 // waiting calls under this still meet SLA
	WarnWaitingCount int     // waiting count above this -> warning
	CritWaitingCount int     // waiting count above this -> critical
	WarnLongestSecs  float64 // longest wait above this -> warning
	CritLongestSecs  float64 // longest wait above this -> critical
	TrendMarginPct   float64 // relative noise margin for trend detection
}

// DefaultConfig returns the production defaults: 180s SLA, warn at 5
// waiting / 2 minutes longest, critical at 10 waiting / 5 minutes longest,
// 5% trend margin.
func DefaultConfig() Config {
	return Config{
		SLAThresholdSecs: 180,
		WarnWaitingCount: 5,
		CritWaitingCount: 10,
		WarnLongestSecs:  120,
		CritLongestSecs:  300,
		TrendMarginPct:   5,
	}
}

// Score computes severity, trend and SLA compliance for a queue. It is a
// pure function of its arguments: identical inputs always yield identical
// output. previousAvgWait is the avg wait from the prior sampling window;
// pass a negative value when no prior sample exists.
func Score(q types.Queue, cfg Config, previousAvgWait float64, now time.Time) types.QueueHealth {
	return types.QueueHealth{
		Severity:      severity(q, cfg, now),
		Trend:         trend(q.AvgWaitSeconds(now), previousAvgWait, cfg.TrendMarginPct),
		SLACompliance: slaCompliance(q, cfg.SLAThresholdSecs, now),
	}
}

// slaCompliance is the percentage of waiting calls still under the SLA wait
// threshold, clamped to [0, 100].
func slaCompliance(q types.Queue, thresholdSecs float64, now time.Time) float64 {
	within := 0
	for i := range q.Waiting {
		if q.Waiting[i].WaitSeconds(now) <= thresholdSecs {
			within++
		}
	}
	denom := q.WaitingCount()
	if denom < 1 {
		denom = 1
	}
	pct := float64(within) / float64(denom) * 100.0
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func severity(q types.Queue, cfg Config, now time.Time) types.QueueSeverity {
	waiting := q.WaitingCount()
	longest := q.LongestWaitSeconds(now)

	if waiting > cfg.CritWaitingCount || longest > cfg.CritLongestSecs {
		return types.SeverityCritical
	}
	if waiting > cfg.WarnWaitingCount || longest > cfg.WarnLongestSecs {
		return types.SeverityWarning
	}
	return types.SeverityNormal
}

// trend compares the current avg wait to the previous sample. Movement
// within the relative margin counts as stable so second-to-second jitter
// does not flap the indicator.
func trend(currentAvg, previousAvg, marginPct float64) types.QueueTrend {
	if previousAvg < 0 {
		return types.TrendStable
	}
	margin := previousAvg * marginPct / 100.0
	switch {
	case currentAvg > previousAvg+margin:
		return types.TrendIncreasing
	case currentAvg < previousAvg-margin:
		return types.TrendDecreasing
	default:
		return types.TrendStable
	}
}

// TrendSampler remembers one avg-wait sample per queue so scoring runs can
// compare against the previous sampling window. Samples roll over once they
// are older than the window (30s in production).
type TrendSampler struct {
	window  time.Duration
	mu      sync.Mutex
	samples map[string]sample
}

type sample struct {
	avgWait float64
	takenAt time.Time
}

// NewTrendSampler creates a sampler with the given window
func NewTrendSampler(window time.Duration) *TrendSampler {
	return &TrendSampler{
		window:  window,
		samples: make(map[string]sample),
	}
}

// Observe records the current avg wait for a queue and returns the previous
// window's sample, or -1 when none exists yet. The stored sample only rolls
// over after a full window has passed, so repeated calls inside one window
// keep comparing against the same baseline.
func (s *TrendSampler) Observe(queueID string, avgWait float64, now time.Time) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.samples[queueID]
	if !ok {
		s.samples[queueID] = sample{avgWait: avgWait, takenAt: now}
		return -1
	}
	if now.Sub(prev.takenAt) >= s.window {
		s.samples[queueID] = sample{avgWait: avgWait, takenAt: now}
	}
	return prev.avgWait
}
