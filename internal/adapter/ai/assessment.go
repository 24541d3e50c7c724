package ai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// flexInt tolerates the number shapes free models emit for scores: ints,
// floats, numeric strings, and null.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int(v))
		return nil
	}
	return fmt.Errorf("not a number: %s", s)
}

// flatAssessment mirrors the flat JSON schema the analysis prompt demands.
type flatAssessment struct {
	OverallRating     string   `json:"overall_rating"`
	OverallScore      flexInt  `json:"overall_score"`
	DataQuality       string   `json:"data_quality"`
	QuestionsAnswered flexInt  `json:"questions_answered"`
	QuestionsTotal    flexInt  `json:"questions_total"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`

	CommunicationRating string  `json:"communication_rating"`
	CommunicationScore  flexInt `json:"communication_score"`
	CommunicationReason string  `json:"communication_reason"`

	TechnicalRating string  `json:"technical_rating"`
	TechnicalScore  flexInt `json:"technical_score"`
	TechnicalReason string  `json:"technical_reason"`

	AnalyticalRating string  `json:"analytical_rating"`
	AnalyticalScore  flexInt `json:"analytical_score"`
	AnalyticalReason string  `json:"analytical_reason"`

	RoleFitRating string  `json:"role_fit_rating"`
	RoleFitScore  flexInt `json:"role_fit_score"`
	RoleFitReason string  `json:"role_fit_reason"`

	BehavioralPresenceRating string  `json:"behavioral_presence_rating"`
	BehavioralPresenceScore  flexInt `json:"behavioral_presence_score"`
	BehavioralReason         string  `json:"behavioral_reason"`

	QuestionFeedback []struct {
		QuestionID          flexInt `json:"question_id"`
		QuestionText        string  `json:"question_text"`
		Rating              string  `json:"rating"`
		Feedback            string  `json:"feedback"`
		ObservableBehaviors string  `json:"observable_behaviors"`
		DevelopmentAreas    string  `json:"development_areas"`
	} `json:"question_feedback"`

	Recommendation string `json:"recommendation"`
	Summary        string `json:"summary"`
	NextSteps      string `json:"next_steps"`
}

// DecodeAssessment parses a cleaned model reply into a draft assessment.
// The draft is untrusted and must go through the scoring enforcement before
// it is persisted or served. Missing fields decode to zero values; a reply
// that is not a JSON object at all fails with ErrSchemaInvalid.
func DecodeAssessment(cleaned string) (domain.Assessment, error) {
	var flat flatAssessment
	if err := json.Unmarshal([]byte(cleaned), &flat); err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: decode assessment: %v", domain.ErrSchemaInvalid, err)
	}

	a := domain.Assessment{
		OverallRating:     normalizeRating(flat.OverallRating),
		OverallScore:      int(flat.OverallScore),
		DataQuality:       domain.DataQuality(flat.DataQuality),
		QuestionsAnswered: int(flat.QuestionsAnswered),
		QuestionsTotal:    int(flat.QuestionsTotal),
		Strengths:         flat.Strengths,
		Improvements:      flat.Improvements,
		Recommendation:    domain.Recommendation(flat.Recommendation),
		Summary:           flat.Summary,
		NextSteps:         flat.NextSteps,
	}
	a.SetDimension(domain.DimCommunication, domain.DimensionScore{
		Rating: normalizeRating(flat.CommunicationRating),
		Score:  int(flat.CommunicationScore),
		Reason: flat.CommunicationReason,
	})
	a.SetDimension(domain.DimTechnical, domain.DimensionScore{
		Rating: normalizeRating(flat.TechnicalRating),
		Score:  int(flat.TechnicalScore),
		Reason: flat.TechnicalReason,
	})
	a.SetDimension(domain.DimAnalytical, domain.DimensionScore{
		Rating: normalizeRating(flat.AnalyticalRating),
		Score:  int(flat.AnalyticalScore),
		Reason: flat.AnalyticalReason,
	})
	a.SetDimension(domain.DimRoleFit, domain.DimensionScore{
		Rating: normalizeRating(flat.RoleFitRating),
		Score:  int(flat.RoleFitScore),
		Reason: flat.RoleFitReason,
	})
	a.SetDimension(domain.DimBehavioralPresence, domain.DimensionScore{
		Rating: normalizeRating(flat.BehavioralPresenceRating),
		Score:  int(flat.BehavioralPresenceScore),
		Reason: flat.BehavioralReason,
	})

	for _, qf := range flat.QuestionFeedback {
		a.QuestionFeedback = append(a.QuestionFeedback, domain.QuestionFeedback{
			QuestionID:          int(qf.QuestionID),
			QuestionText:        qf.QuestionText,
			Rating:              normalizeRating(qf.Rating),
			Feedback:            qf.Feedback,
			ObservableBehaviors: qf.ObservableBehaviors,
			DevelopmentAreas:    qf.DevelopmentAreas,
		})
	}
	return a, nil
}

// normalizeRating maps model output onto the known rating labels; anything
// unrecognized (including empty) becomes N/A so the enforcement rules treat
// it as unassessed rather than inventing a rating.
func normalizeRating(s string) domain.BARSRating {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EXCEPTIONAL":
		return domain.RatingExceptional
	case "STRONG":
		return domain.RatingStrong
	case "SATISFACTORY":
		return domain.RatingSatisfactory
	case "DEVELOPING":
		return domain.RatingDeveloping
	case "UNSATISFACTORY":
		return domain.RatingUnsatisfactory
	default:
		return domain.RatingNA
	}
}
