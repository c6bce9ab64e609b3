// Package risk buckets the model's free-text assessment into one of three
// fixed risk levels.
package risk

import "strings"

// Level is the coarse risk category derived from an assessment reply.
type Level int

const (
	Low Level = iota
	Medium
	High
)

// Label returns the user-facing text for the level.
func (l Level) Label() string {
	switch l {
	case Low:
		return "Low Risk - Likely Benign"
	case High:
		return "High Risk - Seek Medical Advice"
	default:
		return "Medium Risk - Monitor"
	}
}

// Classify maps a reply to a Level by case-insensitive substring match.
// Precedence: "low" without "high" wins, then any "high", otherwise the
// Medium default. There is no negation handling; "not high risk" still
// buckets as High. Downstream consumers depend on this exact mapping.
func Classify(reply string) Level {
	lower := strings.ToLower(reply)
	if strings.Contains(lower, "low") && !strings.Contains(lower, "high") {
		return Low
	}
	if strings.Contains(lower, "high") {
		return High
	}
	return Medium
}
