package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

func TestScoreBands(t *testing.T) {
	tests := []struct {
		rating   domain.BARSRating
		min, max int
	}{
		{domain.RatingExceptional, 90, 100},
		{domain.RatingStrong, 75, 89},
		{domain.RatingSatisfactory, 60, 74},
		{domain.RatingDeveloping, 40, 59},
		{domain.RatingUnsatisfactory, 1, 39},
		{domain.RatingNA, 0, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.rating), func(t *testing.T) {
			b, ok := ScoreBandFor(tt.rating)
			require.True(t, ok)
			assert.Equal(t, tt.min, b.Min)
			assert.Equal(t, tt.max, b.Max)

			// Band edges are consistent; one below the floor is not,
			// except at the absolute floor 0.
			assert.True(t, IsConsistent(tt.rating, b.Min))
			assert.True(t, IsConsistent(tt.rating, b.Max))
			if b.Min > 0 {
				assert.False(t, IsConsistent(tt.rating, b.Min-1))
			}
			assert.False(t, IsConsistent(tt.rating, b.Max+1))
		})
	}
}

func TestIsConsistent_UnknownRating(t *testing.T) {
	assert.False(t, IsConsistent(domain.BARSRating("OUTSTANDING"), 95))
}

func TestRatingFromScore(t *testing.T) {
	tests := []struct {
		score int
		want  domain.BARSRating
	}{
		{100, domain.RatingExceptional},
		{90, domain.RatingExceptional},
		{89, domain.RatingStrong},
		{75, domain.RatingStrong},
		{74, domain.RatingSatisfactory},
		{60, domain.RatingSatisfactory},
		{59, domain.RatingDeveloping},
		{40, domain.RatingDeveloping},
		{39, domain.RatingUnsatisfactory},
		{1, domain.RatingUnsatisfactory},
		{0, domain.RatingNA},
		{-5, domain.RatingNA},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RatingFromScore(tt.score), "score %d", tt.score)
	}
}

func TestRatingFromScore_RoundTripsIntoBand(t *testing.T) {
	// Any in-range score derives a rating whose band contains it.
	for score := 0; score <= 100; score++ {
		r := RatingFromScore(score)
		assert.True(t, IsConsistent(r, score), "score %d rating %s", score, r)
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 95, Percentage(domain.RatingExceptional))
	assert.Equal(t, 80, Percentage(domain.RatingStrong))
	assert.Equal(t, 65, Percentage(domain.RatingSatisfactory))
	assert.Equal(t, 45, Percentage(domain.RatingDeveloping))
	assert.Equal(t, 25, Percentage(domain.RatingUnsatisfactory))
	assert.Equal(t, 0, Percentage(domain.RatingNA))
	assert.Equal(t, 0, Percentage(domain.BARSRating("bogus")))
}
