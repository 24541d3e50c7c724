package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

const fullReply = `{
  "overall_rating": "STRONG",
  "overall_score": 82,
  "data_quality": "COMPLETE",
  "questions_answered": 5,
  "questions_total": 5,
  "strengths": ["Structured answers", "Concrete examples"],
  "improvements": ["Quantify impact more"],
  "communication_rating": "STRONG",
  "communication_score": 85,
  "communication_reason": "Clear articulation throughout",
  "technical_rating": "SATISFACTORY",
  "technical_score": 70,
  "technical_reason": "Accurate terminology, moderate depth",
  "analytical_rating": "STRONG",
  "analytical_score": 78,
  "analytical_reason": "Considered alternatives",
  "role_fit_rating": "STRONG",
  "role_fit_score": 80,
  "role_fit_reason": "Relevant experience examples",
  "behavioral_presence_rating": "SATISFACTORY",
  "behavioral_presence_score": 68,
  "behavioral_reason": "Complete responses, even tone",
  "question_feedback": [
    {
      "question_id": 1,
      "question_text": "Tell me about yourself.",
      "rating": "STRONG",
      "feedback": "Concise introduction with relevant history.",
      "observable_behaviors": "Structured narrative",
      "development_areas": "N/A"
    }
  ],
  "recommendation": "Hire",
  "summary": "Consistent performance across questions.",
  "next_steps": "Practice quantifying outcomes."
}`

func TestDecodeAssessment_Full(t *testing.T) {
	a, err := DecodeAssessment(fullReply)
	require.NoError(t, err)

	assert.Equal(t, domain.RatingStrong, a.OverallRating)
	assert.Equal(t, 82, a.OverallScore)
	assert.Equal(t, domain.DataComplete, a.DataQuality)
	assert.Equal(t, domain.Recommendation("Hire"), a.Recommendation)

	comm := a.Dimension(domain.DimCommunication)
	assert.Equal(t, domain.RatingStrong, comm.Rating)
	assert.Equal(t, 85, comm.Score)
	assert.Equal(t, "Clear articulation throughout", comm.Reason)

	bp := a.Dimension(domain.DimBehavioralPresence)
	assert.Equal(t, 68, bp.Score)
	assert.Equal(t, "Complete responses, even tone", bp.Reason)

	require.Len(t, a.QuestionFeedback, 1)
	assert.Equal(t, 1, a.QuestionFeedback[0].QuestionID)
	assert.Equal(t, domain.RatingStrong, a.QuestionFeedback[0].Rating)
}

func TestDecodeAssessment_TolerantNumbers(t *testing.T) {
	a, err := DecodeAssessment(`{
	  "overall_rating": "satisfactory",
	  "overall_score": "72.4",
	  "technical_score": 65.9,
	  "technical_rating": "SATISFACTORY",
	  "communication_score": null
	}`)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSatisfactory, a.OverallRating)
	assert.Equal(t, 72, a.OverallScore)
	assert.Equal(t, 65, a.Dimension(domain.DimTechnical).Score)
	assert.Equal(t, 0, a.Dimension(domain.DimCommunication).Score)
}

func TestDecodeAssessment_MissingFieldsZeroValued(t *testing.T) {
	a, err := DecodeAssessment(`{"overall_rating":"STRONG"}`)
	require.NoError(t, err)
	assert.Equal(t, 0, a.OverallScore)
	// Absent dimensions decode as N/A so the enforcement treats them as
	// unassessed instead of rejecting the draft.
	assert.Equal(t, domain.RatingNA, a.Dimension(domain.DimTechnical).Rating)
	assert.Empty(t, a.QuestionFeedback)
}

func TestDecodeAssessment_UnknownRatingBecomesNA(t *testing.T) {
	a, err := DecodeAssessment(`{"overall_rating":"OUTSTANDING","technical_rating":"great"}`)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingNA, a.OverallRating)
	assert.Equal(t, domain.RatingNA, a.Dimension(domain.DimTechnical).Rating)
}

func TestDecodeAssessment_NotJSON(t *testing.T) {
	_, err := DecodeAssessment("sorry, I cannot help with that")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestDecodeQuestions(t *testing.T) {
	qs, err := DecodeQuestions(`{"questions":[
	  {"id": 7, "question": "First?", "time_limit": 120},
	  {"id": 9, "question": "Second?"}
	]}`)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	// IDs are renumbered to positions, missing time limits defaulted.
	assert.Equal(t, 1, qs[0].ID)
	assert.Equal(t, 120, qs[0].TimeLimit)
	assert.Equal(t, 2, qs[1].ID)
	assert.Equal(t, 180, qs[1].TimeLimit)
}

func TestDecodeQuestions_Empty(t *testing.T) {
	_, err := DecodeQuestions(`{"questions":[]}`)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestDecodeExercise(t *testing.T) {
	ex, err := DecodeExercise(`{
	  "title": "Reverse Words",
	  "description": "Reverse the words in a sentence.",
	  "visible_test_cases": [{"code": "print(reverse_words('a b'))", "expected_output": "b a"}],
	  "hidden_test_cases": [{"code": "print(reverse_words('x'))", "expected_output": "x"}],
	  "starter_code": "def reverse_words(s):\n    pass"
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Reverse Words", ex.Title)
	require.Len(t, ex.VisibleTestCases, 1)
	assert.Equal(t, "b a", ex.VisibleTestCases[0].ExpectedOutput)
}

func TestDecodeExercise_MissingTestCases(t *testing.T) {
	_, err := DecodeExercise(`{"title":"Empty"}`)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}

func TestDecodeValidationHintsSolution(t *testing.T) {
	v, err := DecodeValidation(`{"validation_status":"pass","feedback":"All good","suggestions":["Use less memory"],"score":90}`)
	require.NoError(t, err)
	assert.Equal(t, "pass", v.ValidationStatus)
	assert.Equal(t, 90, v.Score)

	h, err := DecodeHints(`{"hints":["Think two pointers","Sort first"]}`)
	require.NoError(t, err)
	assert.Len(t, h, 2)

	_, err = DecodeHints(`{"hints":[]}`)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)

	s, err := DecodeSolution(`{"solution_code":"def f(): pass","explanation":"...","complexity":"Time: O(n), Space: O(1)"}`)
	require.NoError(t, err)
	assert.Equal(t, "def f(): pass", s.SolutionCode)

	_, err = DecodeSolution(`{"explanation":"no code"}`)
	assert.ErrorIs(t, err, domain.ErrSchemaInvalid)
}
