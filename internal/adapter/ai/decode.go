package ai

import (
	"encoding/json"
	"fmt"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// DecodeQuestions parses a cleaned question generation reply. A reply with
// no questions at all is a schema failure; callers fall back to the curated
// question bank.
func DecodeQuestions(cleaned string) ([]domain.InterviewQuestion, error) {
	var out struct {
		Questions []domain.InterviewQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: decode questions: %v", domain.ErrSchemaInvalid, err)
	}
	if len(out.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in reply", domain.ErrSchemaInvalid)
	}
	// Renumber and default missing time limits so downstream position
	// classification stays 1-indexed and stable.
	for i := range out.Questions {
		out.Questions[i].ID = i + 1
		if out.Questions[i].TimeLimit <= 0 {
			out.Questions[i].TimeLimit = 180
		}
	}
	return out.Questions, nil
}

// DecodeExercise parses a cleaned exercise generation reply.
func DecodeExercise(cleaned string) (domain.Exercise, error) {
	var ex domain.Exercise
	if err := json.Unmarshal([]byte(cleaned), &ex); err != nil {
		return domain.Exercise{}, fmt.Errorf("%w: decode exercise: %v", domain.ErrSchemaInvalid, err)
	}
	if ex.Title == "" || len(ex.VisibleTestCases) == 0 {
		return domain.Exercise{}, fmt.Errorf("%w: exercise missing title or test cases", domain.ErrSchemaInvalid)
	}
	return ex, nil
}

// DecodeValidation parses a cleaned submission review reply.
func DecodeValidation(cleaned string) (domain.ValidationFeedback, error) {
	var out struct {
		ValidationStatus string   `json:"validation_status"`
		Feedback         string   `json:"feedback"`
		Suggestions      []string `json:"suggestions"`
		Score            flexInt  `json:"score"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return domain.ValidationFeedback{}, fmt.Errorf("%w: decode validation: %v", domain.ErrSchemaInvalid, err)
	}
	return domain.ValidationFeedback{
		ValidationStatus: out.ValidationStatus,
		Feedback:         out.Feedback,
		Suggestions:      out.Suggestions,
		Score:            int(out.Score),
	}, nil
}

// DecodeHints parses a cleaned hint generation reply.
func DecodeHints(cleaned string) ([]string, error) {
	var out struct {
		Hints []string `json:"hints"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("%w: decode hints: %v", domain.ErrSchemaInvalid, err)
	}
	if len(out.Hints) == 0 {
		return nil, fmt.Errorf("%w: no hints in reply", domain.ErrSchemaInvalid)
	}
	return out.Hints, nil
}

// DecodeSolution parses a cleaned solution generation reply.
func DecodeSolution(cleaned string) (domain.Solution, error) {
	var sol domain.Solution
	if err := json.Unmarshal([]byte(cleaned), &sol); err != nil {
		return domain.Solution{}, fmt.Errorf("%w: decode solution: %v", domain.ErrSchemaInvalid, err)
	}
	if sol.SolutionCode == "" {
		return domain.Solution{}, fmt.Errorf("%w: solution missing code", domain.ErrSchemaInvalid)
	}
	return sol, nil
}
