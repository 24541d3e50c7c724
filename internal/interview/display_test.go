package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

func TestAttachDisplayMetadata(t *testing.T) {
	a := domain.Assessment{
		OverallRating: domain.RatingStrong,
		OverallScore:  80,
		QuestionFeedback: []domain.QuestionFeedback{
			{QuestionID: 1, Rating: domain.RatingStrong},
			{QuestionID: 2, Rating: domain.RatingNA},
		},
	}
	a.SetDimension(domain.DimCommunication, domain.DimensionScore{Rating: domain.RatingExceptional, Score: 92})
	a.SetDimension(domain.DimTechnical, domain.DimensionScore{Rating: domain.RatingNA})

	// 130 words in 60 seconds lands in the good pace band.
	answer := ""
	for i := 0; i < 130; i++ {
		answer += "word "
	}
	answers := []domain.InterviewAnswer{
		{QuestionID: 1, Text: answer, Duration: 60},
		{QuestionID: 2, Text: "No transcription available"},
	}

	AttachDisplayMetadata(&a, answers)

	assert.Equal(t, 80, a.OverallPercentage)
	assert.Equal(t, 95, a.Dimension(domain.DimCommunication).Percentage)
	assert.Equal(t, 0, a.Dimension(domain.DimTechnical).Percentage)

	require.NotNil(t, a.QuestionFeedback[0].TranscriptQuality)
	assert.Equal(t, 80, a.QuestionFeedback[0].RatingPercentage)
	assert.Equal(t, "good", a.QuestionFeedback[0].TranscriptQuality.Quality)
	assert.Equal(t, 130, a.QuestionFeedback[0].TranscriptQuality.WordCount)
	assert.InDelta(t, 130.0, a.QuestionFeedback[0].TranscriptQuality.WordsPerMinute, 0.01)

	// The unanswered question still reports its quality, as invalid.
	require.NotNil(t, a.QuestionFeedback[1].TranscriptQuality)
	assert.Equal(t, "invalid", a.QuestionFeedback[1].TranscriptQuality.Quality)
	assert.Equal(t, 0, a.QuestionFeedback[1].RatingPercentage)
}

func TestAttachDisplayMetadata_UnknownOverallRating(t *testing.T) {
	// A model-invented label falls back to the rating the score implies.
	a := domain.Assessment{OverallRating: domain.BARSRating("AMAZING"), OverallScore: 82}
	AttachDisplayMetadata(&a, nil)
	assert.Equal(t, 80, a.OverallPercentage)

	// With no score either, the display value stays zero.
	b := domain.Assessment{OverallRating: domain.BARSRating("AMAZING")}
	AttachDisplayMetadata(&b, nil)
	assert.Equal(t, 0, b.OverallPercentage)
}

func TestAttachDisplayMetadata_PositionalFallback(t *testing.T) {
	// Feedback ids that do not match any answer id fall back to position.
	a := domain.Assessment{
		QuestionFeedback: []domain.QuestionFeedback{
			{QuestionID: 99, Rating: domain.RatingSatisfactory},
		},
	}
	answers := []domain.InterviewAnswer{
		{QuestionID: 1, Text: "a positional answer with enough substance", Duration: 12},
	}
	AttachDisplayMetadata(&a, answers)
	require.NotNil(t, a.QuestionFeedback[0].TranscriptQuality)
	assert.Equal(t, 6, a.QuestionFeedback[0].TranscriptQuality.WordCount)

	// No answers at all leaves the quality pointer unset.
	b := domain.Assessment{QuestionFeedback: []domain.QuestionFeedback{{QuestionID: 1}}}
	AttachDisplayMetadata(&b, nil)
	assert.Nil(t, b.QuestionFeedback[0].TranscriptQuality)
	assert.Equal(t, 0, b.QuestionFeedback[0].RatingPercentage)
}
