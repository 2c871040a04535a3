package queuehealth

import (
	"fmt"
	"testing"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// waitingQueue builds a queue whose calls have been waiting the given
// number of seconds as of now.
func waitingQueue(now time.Time, waitSecs ...float64) types.Queue {
	q := types.Queue{ID: "support", Name: "Support"}
	for i, w := range waitSecs {
		q.Waiting = append(q.Waiting, types.Call{
			ID:        fmt.Sprintf("call-%d", i),
			Status:    types.CallStatusWaiting,
			QueueID:   "support",
			CreatedAt: now.Add(-time.Duration(w * float64(time.Second))),
		})
	}
	return q
}

func TestSLACompliance(t *testing.T) {
	now := time.Now()
	cfg := DefaultConfig()

	// 3 of 12 calls under the 180s threshold -> 25%
	waits := []float64{60, 120, 170, 200, 210, 220, 250, 280, 300, 350, 380, 400}
	q := waitingQueue(now, waits...)

	health := Score(q, cfg, -1, now)
	if health.SLACompliance != 25.0 {
		t.Errorf("expected 25%% SLA compliance, got %.1f%%", health.SLACompliance)
	}
}

func TestSLAComplianceEmptyQueue(t *testing.T) {
	now := time.Now()
	health := Score(types.Queue{ID: "empty"}, DefaultConfig(), -1, now)
	if health.SLACompliance != 0 {
		t.Errorf("expected 0%% for empty queue, got %.1f%%", health.SLACompliance)
	}
	if health.Severity != types.SeverityNormal {
		t.Errorf("expected normal severity for empty queue, got %s", health.Severity)
	}
}

// Pushing any waiting call past the SLA threshold never increases compliance.
func TestSLAMonotonicity(t *testing.T) {
	now := time.Now()
	cfg := DefaultConfig()

	waits := []float64{30, 60, 90, 150, 200}
	base := Score(waitingQueue(now, waits...), cfg, -1, now).SLACompliance

	for i := range waits {
		bumped := make([]float64, len(waits))
		copy(bumped, waits)
		bumped[i] = cfg.SLAThresholdSecs + 100
		got := Score(waitingQueue(now, bumped...), cfg, -1, now).SLACompliance
		if got > base {
			t.Errorf("bumping call %d past threshold raised compliance: %.1f > %.1f", i, got, base)
		}
	}
}

func TestSeverityThresholds(t *testing.T) {
	now := time.Now()
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		waits []float64
		want  types.QueueSeverity
	}{
		{"calm queue", []float64{10, 20}, types.SeverityNormal},
		{"waiting count over warning", []float64{10, 10, 10, 10, 10, 10}, types.SeverityWarning},
		{"longest wait over warning", []float64{30, 150}, types.SeverityWarning},
		{"waiting count over critical", []float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}, types.SeverityCritical},
		{"longest wait over critical", []float64{30, 400}, types.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(waitingQueue(now, tt.waits...), cfg, -1, now).Severity
			if got != tt.want {
				t.Errorf("severity = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTrend(t *testing.T) {
	now := time.Now()
	cfg := DefaultConfig() // 5% margin

	tests := []struct {
		name    string
		current []float64
		prevAvg float64
		want    types.QueueTrend
	}{
		{"no previous sample", []float64{100}, -1, types.TrendStable},
		{"clearly increasing", []float64{120}, 100, types.TrendIncreasing},
		{"clearly decreasing", []float64{80}, 100, types.TrendDecreasing},
		{"within noise margin up", []float64{104}, 100, types.TrendStable},
		{"within noise margin down", []float64{96}, 100, types.TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(waitingQueue(now, tt.current...), cfg, tt.prevAvg, now).Trend
			if got != tt.want {
				t.Errorf("trend = %s, want %s", got, tt.want)
			}
		})
	}
}

// Identical inputs yield identical output.
func TestScoreIsPure(t *testing.T) {
	now := time.Now()
	cfg := DefaultConfig()
	q := waitingQueue(now, 50, 100, 250)

	first := Score(q, cfg, 90, now)
	second := Score(q, cfg, 90, now)
	if first != second {
		t.Errorf("repeated scoring diverged: %+v vs %+v", first, second)
	}
}

func TestTrendSamplerWindow(t *testing.T) {
	s := NewTrendSampler(30 * time.Second)
	now := time.Now()

	if prev := s.Observe("q1", 100, now); prev != -1 {
		t.Errorf("expected -1 for first observation, got %.1f", prev)
	}

	// Inside the window the baseline stays put
	if prev := s.Observe("q1", 140, now.Add(10*time.Second)); prev != 100 {
		t.Errorf("expected baseline 100 inside window, got %.1f", prev)
	}
	if prev := s.Observe("q1", 160, now.Add(20*time.Second)); prev != 100 {
		t.Errorf("expected baseline 100 inside window, got %.1f", prev)
	}

	// After a full window the sample rolls over
	if prev := s.Observe("q1", 180, now.Add(35*time.Second)); prev != 100 {
		t.Errorf("expected previous sample 100 at rollover, got %.1f", prev)
	}
	if prev := s.Observe("q1", 200, now.Add(40*time.Second)); prev != 180 {
		t.Errorf("expected rolled-over baseline 180, got %.1f", prev)
	}
}
