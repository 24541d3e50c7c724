package interview

import "github.com/prepforge/ai-prep-coach/internal/domain"

// AttachDisplayMetadata stamps the presentation-only fields of a final
// assessment: representative percentages for every rating and the
// per-answer transcript quality metric on the question feedback. It runs
// after enforcement and never changes a rating or a score.
func AttachDisplayMetadata(a *domain.Assessment, answers []domain.InterviewAnswer) {
	rating := a.OverallRating
	if _, ok := ScoreBandFor(rating); !ok {
		// Model-invented labels still get a sensible display value.
		rating = RatingFromScore(a.OverallScore)
	}
	a.OverallPercentage = Percentage(rating)

	for _, d := range domain.AllDimensions {
		ds := a.Dimension(d)
		ds.Percentage = Percentage(ds.Rating)
		a.SetDimension(d, ds)
	}

	for i := range a.QuestionFeedback {
		fb := &a.QuestionFeedback[i]
		fb.RatingPercentage = Percentage(fb.Rating)
		if ans, ok := answerFor(answers, fb.QuestionID, i); ok {
			q := QualityOf(ans.Text, ans.Duration)
			fb.TranscriptQuality = &q
		}
	}
}

// answerFor resolves the answer backing a feedback entry, by question id
// first and by position when the ids do not line up.
func answerFor(answers []domain.InterviewAnswer, questionID, idx int) (domain.InterviewAnswer, bool) {
	for _, a := range answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	if idx >= 0 && idx < len(answers) {
		return answers[idx], true
	}
	return domain.InterviewAnswer{}, false
}
