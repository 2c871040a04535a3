// Package classify is the single canonical classifier for every triage view.
// All views consume the same bucket assignment, so no two panels can ever
// disagree on where a call belongs.
package classify

import (
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/types"
)

// Bucket is the operational view a call lands in. Every call lands in
// exactly one bucket; combinations no rule covers go to BucketUncategorized
// so they stay visible instead of silently vanishing from every view.
type Bucket string

const (
	BucketMyCalls       Bucket = "my_calls"
	BucketAIActive      Bucket = "ai_active"
	BucketOtherAgents   Bucket = "other_agents"
	BucketQueued        Bucket = "queued"
	BucketUncategorized Bucket = "uncategorized"
)

// AllBuckets lists the primary buckets in display order
var AllBuckets = []Bucket{
	BucketMyCalls,
	BucketAIActive,
	BucketOtherAgents,
	BucketQueued,
	BucketUncategorized,
}

// AttentionConfig holds the cutoffs for the needs-attention tag
type AttentionConfig struct {
	SentimentCutoff    float64 // calls below this sentiment need attention
	DurationCutoffSecs float64 // calls running longer than this need attention
}

// DefaultAttentionConfig matches the production cutoffs: clearly negative
// sentiment or more than ten minutes on the line.
func DefaultAttentionConfig() AttentionConfig {
	return AttentionConfig{
		SentimentCutoff:    -0.3,
		DurationCutoffSecs: 600,
	}
}

// Classify maps a call to exactly one bucket from the viewer's perspective.
// Rules apply in priority order:
//
//  1. active/connecting, human-handled, assigned to the viewer -> my_calls
//  2. ai_active status or AI handler                           -> ai_active
//  3. human-handled, assigned to someone else                  -> other_agents
//  4. waiting                                                  -> queued
//
// Anything else is uncategorized.
func Classify(call types.Call, viewerAgentID string) Bucket {
	human := call.HandlerType == types.HandlerHuman

	if (call.Status == types.CallStatusActive || call.Status == types.CallStatusConnecting) &&
		human && call.AssignedAgentID == viewerAgentID {
		return BucketMyCalls
	}
	if call.Status == types.CallStatusAIActive || call.HandlerType == types.HandlerAI {
		return BucketAIActive
	}
	if human && call.AssignedAgentID != viewerAgentID {
		return BucketOtherAgents
	}
	if call.Status == types.CallStatusWaiting {
		return BucketQueued
	}
	return BucketUncategorized
}

// NeedsAttention reports whether the call qualifies for the attention tag.
// Attention is independent of the primary bucket: a call can be my_calls
// and need attention at the same time.
func NeedsAttention(call types.Call, cfg AttentionConfig) bool {
	if float64(call.Sentiment) < cfg.SentimentCutoff {
		return true
	}
	return call.DurationSeconds > cfg.DurationCutoffSecs
}

// Partition groups calls into buckets for the viewer. The union of all
// buckets always equals the input: len(calls) == sum of bucket sizes.
func Partition(calls []types.Call, viewerAgentID string) map[Bucket][]types.Call {
	buckets := make(map[Bucket][]types.Call, len(AllBuckets))
	for _, call := range calls {
		b := Classify(call, viewerAgentID)
		buckets[b] = append(buckets[b], call)
	}
	return buckets
}

// AttentionIDs returns the IDs of calls needing attention, preserving input
// order.
func AttentionIDs(calls []types.Call, cfg AttentionConfig) []string {
	var ids []string
	for i := range calls {
		if NeedsAttention(calls[i], cfg) {
			ids = append(ids, calls[i].ID)
		}
	}
	return ids
}

// Counts returns the bucket sizes for a set of calls, including empty
// buckets, for the overview widgets.
func Counts(calls []types.Call, viewerAgentID string) map[Bucket]int {
	counts := make(map[Bucket]int, len(AllBuckets))
	for _, b := range AllBuckets {
		counts[b] = 0
	}
	for _, call := range calls {
		counts[Classify(call, viewerAgentID)]++
	}
	return counts
}

// WithDurations returns copies of the calls with DurationSeconds refreshed
// from CreatedAt so attention tagging sees live durations.
func WithDurations(calls []types.Call, now time.Time) []types.Call {
	out := make([]types.Call, len(calls))
	copy(out, calls)
	for i := range out {
		if !out[i].Status.Terminal() && !out[i].CreatedAt.IsZero() {
			out[i].DurationSeconds = now.Sub(out[i].CreatedAt).Seconds()
		}
	}
	return out
}
