package types

import "time"

// Queue is a point-in-time snapshot of a named holding area for waiting
// calls. Waiting preserves queue order (insertion order = answer order).
type Queue struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Waiting []Call `json:"waiting"`
}

// WaitingCount returns the number of waiting calls
func (q *Queue) WaitingCount() int {
	return len(q.Waiting)
}

// AvgWaitSeconds returns the mean wait time across waiting calls as of now
func (q *Queue) AvgWaitSeconds(now time.Time) float64 {
	if len(q.Waiting) == 0 {
		return 0
	}
	var total float64
	for i := range q.Waiting {
		total += q.Waiting[i].WaitSeconds(now)
	}
	return total / float64(len(q.Waiting))
}

// LongestWaitSeconds returns the wait time of the oldest waiting call
func (q *Queue) LongestWaitSeconds(now time.Time) float64 {
	var longest float64
	for i := range q.Waiting {
		if w := q.Waiting[i].WaitSeconds(now); w > longest {
			longest = w
		}
	}
	return longest
}

// QueueSeverity grades how much trouble a queue is in
type QueueSeverity string

const (
	SeverityNormal   QueueSeverity = "normal"
	SeverityWarning  QueueSeverity = "warning"
	SeverityCritical QueueSeverity = "critical"
)

// QueueTrend describes how the average wait is moving between samples
type QueueTrend string

const (
	TrendIncreasing QueueTrend = "increasing"
	TrendDecreasing QueueTrend = "decreasing"
	TrendStable     QueueTrend = "stable"
)

// QueueHealth is the scored state of a queue
type QueueHealth struct {
	Severity      QueueSeverity `json:"severity"`
	Trend         QueueTrend    `json:"trend"`
	SLACompliance float64       `json:"slaCompliance"` // 0-100
}

// QueueSnapshot is a queue plus its derived stats, as sent to the views
type QueueSnapshot struct {
	QueueID         string      `json:"queueId"`
	Name            string      `json:"name"`
	WaitingCount    int         `json:"waitingCount"`
	AvgWaitSecs     float64     `json:"avgWaitSecs"`
	LongestWaitSecs float64     `json:"longestWaitSecs"`
	Health          QueueHealth `json:"health"`
	Waiting         []Call      `json:"waiting,omitempty"`
}
