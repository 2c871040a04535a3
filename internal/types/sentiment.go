package types

// Sentiment is a continuous conversation-sentiment score in [-1, 1]
type Sentiment float64

// SentimentBucket is the coarse grouping used by the triage views
type SentimentBucket string

const (
	SentimentNegative SentimentBucket = "negative"
	SentimentNeutral  SentimentBucket = "neutral"
	SentimentPositive SentimentBucket = "positive"
)

// Bucket boundaries: negative <= -0.3, positive >= 0.3, else neutral
const (
	sentimentNegativeCutoff = -0.3
	sentimentPositiveCutoff = 0.3
)

// Bucket maps the score to its coarse bucket
func (s Sentiment) Bucket() SentimentBucket {
	switch {
	case float64(s) <= sentimentNegativeCutoff:
		return SentimentNegative
	case float64(s) >= sentimentPositiveCutoff:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

// SentimentLabel is the categorical 5-point scale some fabric events carry
// instead of a numeric score.
type SentimentLabel string

const (
	LabelVeryNegative SentimentLabel = "very_negative"
	LabelNegative     SentimentLabel = "negative"
	LabelNeutral      SentimentLabel = "neutral"
	LabelPositive     SentimentLabel = "positive"
	LabelVeryPositive SentimentLabel = "very_positive"
)

// Score converts a categorical label to a numeric score. The chosen values
// round-trip through Bucket to the same coarse bucket as the label itself.
func (l SentimentLabel) Score() Sentiment {
	switch l {
	case LabelVeryNegative:
		return -0.8
	case LabelNegative:
		return -0.45
	case LabelPositive:
		return 0.45
	case LabelVeryPositive:
		return 0.8
	default:
		return 0
	}
}
