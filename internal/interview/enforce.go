package interview

import (
	"fmt"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// Enforce applies the deterministic scoring rules to a raw, untrusted
// assessment draft and returns a corrected copy guaranteed to satisfy the
// scoring invariants. Rules are applied in order and later rules may
// override earlier ones; no rule ever raises a score the draft provided,
// corrections only zero out or downgrade. Absent fields in the draft are
// treated as already-zero/N/A and filled in, never rejected.
//
// answeredPositions is the set of 1-indexed question positions whose
// answers passed IsValidTranscript, as produced by AnsweredPositions.
func Enforce(raw domain.Assessment, completeness CompletenessReport, answeredPositions map[int]struct{}) domain.Assessment {
	out := raw.Clone()

	// Materialize all five dimensions so downstream consumers never see a
	// partial map, whatever the draft omitted.
	for _, d := range domain.AllDimensions {
		out.SetDimension(d, out.Dimension(d))
	}

	switch {
	case completeness.CompletionRate < InsufficientDataThreshold:
		// Rule 1: under half the questions answered. Nothing in the draft
		// is trustworthy; zero everything.
		out.OverallRating = domain.RatingNA
		out.OverallScore = 0
		out.DataQuality = domain.DataInsufficient
		out.Recommendation = domain.RecommendIncompleteData
		for _, d := range domain.AllDimensions {
			ds := out.Dimension(d)
			ds.Rating = domain.RatingNA
			ds.Score = 0
			out.SetDimension(d, ds)
		}
	case completeness.Answered == 1:
		// Rule 2: a single valid answer is almost always the introduction,
		// which cannot evidence technical or analytical competence.
		for _, d := range domain.SubstantiveOnlyDimensions {
			out.SetDimension(d, domain.DimensionScore{
				Rating: domain.RatingNA,
				Reason: fmt.Sprintf("No %s questions answered", d),
			})
		}
		bp := out.Dimension(domain.DimBehavioralPresence)
		bp.Rating = domain.RatingNA
		bp.Score = 0
		out.SetDimension(domain.DimBehavioralPresence, bp)
		out.OverallRating = domain.RatingNA
		out.OverallScore = 0
		out.DataQuality = domain.DataInsufficient
		out.Recommendation = domain.RecommendIncompleteData
	}

	// Substantive guard: technical/analytical may only score when a
	// substantive question was actually answered, whichever branch above
	// ran (or neither).
	if !CanAssessSubstantive(answeredPositions) {
		for _, d := range domain.SubstantiveOnlyDimensions {
			ds := out.Dimension(d)
			if ds.Score != 0 || ds.Rating != domain.RatingNA {
				ds.Rating = domain.RatingNA
				ds.Score = 0
				out.SetDimension(d, ds)
			}
		}
	}

	// Rule 3: anti-inflation guard. Checked unconditionally, even when
	// rule 2 already zeroed technical (idempotent in that case), so a
	// nonzero technical score cannot smuggle through any other path.
	if completeness.Answered == 1 {
		if ds := out.Dimension(domain.DimTechnical); ds.Score > 0 {
			out.SetDimension(domain.DimTechnical, domain.DimensionScore{
				Rating: domain.RatingNA,
				Reason: "Technical questions not answered",
			})
		}
	}

	// Metadata stamping happens on every path.
	out.QuestionsAnswered = completeness.Answered
	out.QuestionsTotal = completeness.Total
	out.CompletionRate = completeness.CompletionPercent()

	return out
}

// InsufficientDataAssessment builds the canned result returned without
// consulting the model when not a single answer holds a real transcript.
func InsufficientDataAssessment(questions []domain.InterviewQuestion) domain.Assessment {
	a := domain.Assessment{
		OverallRating:  domain.RatingNA,
		DataQuality:    domain.DataInsufficient,
		Recommendation: domain.RecommendIncompleteData,
		Strengths:      []string{"Unable to assess - insufficient transcript data"},
		Improvements:   []string{"Ensure microphone works and you speak clearly during recording"},
		Summary:        "Interview assessment incomplete due to missing transcript data. Please ensure proper audio capture and speech recognition functionality.",
		NextSteps:      "Retry interview with verified microphone and audio settings",
	}
	for _, d := range domain.AllDimensions {
		a.SetDimension(d, domain.DimensionScore{
			Rating: domain.RatingNA,
			Reason: "Insufficient transcript data",
		})
	}
	for _, q := range questions {
		a.QuestionFeedback = append(a.QuestionFeedback, domain.QuestionFeedback{
			QuestionID:          q.ID,
			QuestionText:        q.Question,
			Rating:              domain.RatingNA,
			Feedback:            "No transcript available for assessment",
			ObservableBehaviors: "N/A",
			DevelopmentAreas:    "N/A",
		})
	}
	return a
}
