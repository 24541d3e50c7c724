package interview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

func answer(id int, text string) domain.InterviewAnswer {
	return domain.InterviewAnswer{QuestionID: id, Text: text, Duration: 45}
}

func TestAnalyzeCompleteness_EmptySequence(t *testing.T) {
	r := AnalyzeCompleteness(nil)
	assert.Equal(t, 0, r.Total)
	assert.Equal(t, 0, r.Answered)
	assert.Equal(t, 0.0, r.CompletionRate)
	assert.Equal(t, domain.DataInsufficient, r.DataQuality)
}

func TestAnalyzeCompleteness_Thresholds(t *testing.T) {
	real := strings.Repeat("a solid answer ", 5)
	tests := []struct {
		name     string
		answered int
		total    int
		rate     float64
		quality  domain.DataQuality
	}{
		{"all answered", 5, 5, 1.0, domain.DataComplete},
		{"nine of ten", 9, 10, 0.9, domain.DataComplete},
		{"four of five", 4, 5, 0.8, domain.DataPartial},
		{"half", 5, 10, 0.5, domain.DataPartial},
		{"one of five", 1, 5, 0.2, domain.DataInsufficient},
		{"none", 0, 5, 0.0, domain.DataInsufficient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var answers []domain.InterviewAnswer
			for i := 0; i < tt.total; i++ {
				text := ""
				if i < tt.answered {
					text = real
				}
				answers = append(answers, answer(i+1, text))
			}
			r := AnalyzeCompleteness(answers)
			assert.Equal(t, tt.total, r.Total)
			assert.Equal(t, tt.answered, r.Answered)
			assert.InDelta(t, tt.rate, r.CompletionRate, 1e-9)
			assert.Equal(t, tt.quality, r.DataQuality)
		})
	}
}

func TestAnalyzeCompleteness_PlaceholdersDoNotCount(t *testing.T) {
	answers := []domain.InterviewAnswer{
		answer(1, "I built a streaming pipeline handling 2M events per hour."),
		answer(2, "No transcription available"),
		answer(3, "short"),
		answer(4, ""),
		answer(5, "No answer provided"),
	}
	r := AnalyzeCompleteness(answers)
	require.Equal(t, 5, r.Total)
	require.Equal(t, 1, r.Answered)
	assert.InDelta(t, 0.2, r.CompletionRate, 1e-9)
	assert.Equal(t, domain.DataInsufficient, r.DataQuality)
}

func TestCompletionRateBounds(t *testing.T) {
	// Rate always stays in [0,1] no matter the mix.
	mixes := [][]domain.InterviewAnswer{
		nil,
		{answer(1, "")},
		{answer(1, strings.Repeat("x", 50))},
		{answer(1, strings.Repeat("x", 50)), answer(2, ""), answer(3, "No transcript available")},
	}
	for _, answers := range mixes {
		r := AnalyzeCompleteness(answers)
		assert.GreaterOrEqual(t, r.CompletionRate, 0.0)
		assert.LessOrEqual(t, r.CompletionRate, 1.0)
		if r.CompletionRate == 0 {
			assert.Equal(t, domain.DataInsufficient, r.DataQuality)
		}
		if r.CompletionRate == 1 {
			assert.Equal(t, domain.DataComplete, r.DataQuality)
		}
	}
}

func TestCompletionPercent(t *testing.T) {
	answers := []domain.InterviewAnswer{
		answer(1, strings.Repeat("x", 20)),
		answer(2, ""),
		answer(3, ""),
	}
	r := AnalyzeCompleteness(answers)
	assert.InDelta(t, 33.3, r.CompletionPercent(), 1e-9)
}

func TestAnsweredPositions(t *testing.T) {
	answers := []domain.InterviewAnswer{
		answer(7, strings.Repeat("x", 20)), // ids intentionally not 1-based
		answer(9, ""),
		answer(11, strings.Repeat("y", 20)),
	}
	got := AnsweredPositions(answers)
	require.Len(t, got, 2)
	_, ok1 := got[1]
	_, ok3 := got[3]
	assert.True(t, ok1)
	assert.True(t, ok3)
}
