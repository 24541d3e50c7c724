package interview

// QuestionCategory tags a question's role in scoring.
type QuestionCategory string

const (
	CategoryIntroduction QuestionCategory = "introduction"
	CategorySubstantive  QuestionCategory = "substantive"
)

// Classify maps a question's 1-indexed ordinal position to its scoring
// category: the first question asked is the introduction, everything
// after it is substantive. This is a fixed convention, not content
// analysis.
//
// Callers must pass the position in the asked sequence, never the
// question id: ids are not guaranteed to start at 1 or be contiguous, and
// classifying by id would silently mislabel reordered or re-generated
// question sets.
func Classify(position int) QuestionCategory {
	if position == 1 {
		return CategoryIntroduction
	}
	return CategorySubstantive
}

// CanAssessSubstantive reports whether at least one substantive question
// was validly answered, given the set of answered 1-indexed positions.
// Technical and analytical dimensions may only score when this holds.
func CanAssessSubstantive(answeredPositions map[int]struct{}) bool {
	for pos := range answeredPositions {
		if Classify(pos) == CategorySubstantive {
			return true
		}
	}
	return false
}
