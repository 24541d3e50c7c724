package interview

import (
	"math"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// Data-quality thresholds on the completion rate. Below Insufficient the
// interview cannot be assessed at all; at or above Complete it counts as
// fully answered.
const (
	InsufficientDataThreshold = 0.5
	CompleteDataThreshold     = 0.9
)

// CompletenessReport aggregates per-answer validity into the facts the
// enforcement rules run on. It is recomputed per analysis request and
// never persisted.
type CompletenessReport struct {
	Total          int                `json:"questions_total"`
	Answered       int                `json:"questions_answered"`
	CompletionRate float64            `json:"completion_rate"`
	DataQuality    domain.DataQuality `json:"data_quality"`
}

// AnalyzeCompleteness derives a CompletenessReport from the answer
// sequence. An empty sequence is a guarded edge case: completion rate 0,
// INSUFFICIENT_DATA, never a division fault.
func AnalyzeCompleteness(answers []domain.InterviewAnswer) CompletenessReport {
	r := CompletenessReport{Total: len(answers)}
	for _, a := range answers {
		if IsValidTranscript(a.Text) {
			r.Answered++
		}
	}
	if r.Total > 0 {
		r.CompletionRate = float64(r.Answered) / float64(r.Total)
	}
	switch {
	case r.CompletionRate >= CompleteDataThreshold:
		r.DataQuality = domain.DataComplete
	case r.CompletionRate >= InsufficientDataThreshold:
		r.DataQuality = domain.DataPartial
	default:
		r.DataQuality = domain.DataInsufficient
	}
	return r
}

// CompletionPercent returns the completion rate as a percentage rounded
// to one decimal, the form stamped onto assessment metadata.
func (r CompletenessReport) CompletionPercent() float64 {
	return math.Round(r.CompletionRate*1000) / 10
}

// AnsweredPositions returns the set of 1-indexed positions whose answers
// hold a valid transcript, in sequence order.
func AnsweredPositions(answers []domain.InterviewAnswer) map[int]struct{} {
	out := make(map[int]struct{})
	for i, a := range answers {
		if IsValidTranscript(a.Text) {
			out[i+1] = struct{}{}
		}
	}
	return out
}
