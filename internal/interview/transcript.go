// Package interview implements the deterministic scoring core of the mock
// interview feature: transcript validity, completeness analysis, question
// classification, the BARS rating scale, and the rule engine that corrects
// a model-produced assessment so it cannot claim confidence it has no
// evidence for. Everything here is a pure function over in-memory values;
// no I/O, no logging, no shared state.
package interview

import (
	"strings"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// MinTranscriptLength is the minimum trimmed length for an answer to
// count as real content.
const MinTranscriptLength = 10

// placeholderTexts are the reserved strings the capture layer substitutes
// when no usable transcript exists. They must never count as answers.
var placeholderTexts = map[string]struct{}{
	"No transcription available": {},
	"No answer provided":         {},
	"No transcript available":    {},
}

// EmptyTranscriptText is the canonical placeholder for a missing transcript.
const EmptyTranscriptText = "No transcription available"

// IsValidTranscript reports whether text counts as a real answer: non-empty
// after trimming, not a reserved placeholder, and at least
// MinTranscriptLength characters long.
//
// This is the single source of truth for answer validity; every component
// that needs to know whether a question was answered must call it.
func IsValidTranscript(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if _, ok := placeholderTexts[text]; ok {
		return false
	}
	return len(text) >= MinTranscriptLength
}

// QualityOf computes a pace-based quality metric for a transcript. Normal
// conversational speech lands between 120 and 150 words per minute; the
// bands below widen that to tolerate recording conditions.
func QualityOf(text string, durationSeconds float64) domain.TranscriptQuality {
	if !IsValidTranscript(text) {
		return domain.TranscriptQuality{Quality: "invalid"}
	}
	words := len(strings.Fields(text))
	var wpm float64
	if durationSeconds > 0 {
		wpm = float64(words) / durationSeconds * 60
	}
	q := domain.TranscriptQuality{
		WordsPerMinute: wpm,
		WordCount:      words,
		CharacterCount: len(text),
	}
	switch {
	case wpm >= 80 && wpm <= 180:
		q.Quality, q.Score = "good", 90
	case (wpm >= 60 && wpm < 80) || (wpm > 180 && wpm <= 200):
		q.Quality, q.Score = "acceptable", 70
	default:
		q.Quality, q.Score = "questionable", 50
	}
	return q
}
