package interview

import "github.com/prepforge/ai-prep-coach/internal/domain"

// ScoreBand is the inclusive numeric range a BARS rating may legitimately
// carry.
type ScoreBand struct {
	Min int
	Max int
}

// scoreBands fixes the rating→band lookup. N/A is pinned to exactly zero.
var scoreBands = map[domain.BARSRating]ScoreBand{
	domain.RatingExceptional:    {90, 100},
	domain.RatingStrong:         {75, 89},
	domain.RatingSatisfactory:   {60, 74},
	domain.RatingDeveloping:     {40, 59},
	domain.RatingUnsatisfactory: {1, 39},
	domain.RatingNA:             {0, 0},
}

// ratingPercentages maps each rating to a single representative number
// for displays that want one value instead of a range.
var ratingPercentages = map[domain.BARSRating]int{
	domain.RatingExceptional:    95,
	domain.RatingStrong:         80,
	domain.RatingSatisfactory:   65,
	domain.RatingDeveloping:     45,
	domain.RatingUnsatisfactory: 25,
	domain.RatingNA:             0,
}

// ScoreBandFor returns the numeric band for a rating. Unknown ratings
// report ok=false so callers can treat them as inconsistent rather than
// panicking on model-invented labels.
func ScoreBandFor(rating domain.BARSRating) (ScoreBand, bool) {
	b, ok := scoreBands[rating]
	return b, ok
}

// IsConsistent reports whether score falls inside the band assigned to
// rating. Ratings outside the scale are never consistent.
func IsConsistent(rating domain.BARSRating, score int) bool {
	b, ok := scoreBands[rating]
	return ok && score >= b.Min && score <= b.Max
}

// RatingFromScore derives the BARS rating a numeric score implies, by
// descending threshold. It is a fallback/display helper; enforcement
// never invents ratings the draft did not earn.
func RatingFromScore(score int) domain.BARSRating {
	switch {
	case score >= 90:
		return domain.RatingExceptional
	case score >= 75:
		return domain.RatingStrong
	case score >= 60:
		return domain.RatingSatisfactory
	case score >= 40:
		return domain.RatingDeveloping
	case score > 0:
		return domain.RatingUnsatisfactory
	default:
		return domain.RatingNA
	}
}

// Percentage returns the representative percentage for a rating, 0 for
// anything outside the scale.
func Percentage(rating domain.BARSRating) int {
	return ratingPercentages[rating]
}
