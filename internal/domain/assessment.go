package domain

// BARSRating is a Behaviorally Anchored Rating Scale label. Ratings are
// ordinal; RatingNA means the dimension could not be assessed at all.
type BARSRating string

const (
	RatingExceptional    BARSRating = "EXCEPTIONAL"
	RatingStrong         BARSRating = "STRONG"
	RatingSatisfactory   BARSRating = "SATISFACTORY"
	RatingDeveloping     BARSRating = "DEVELOPING"
	RatingUnsatisfactory BARSRating = "UNSATISFACTORY"
	RatingNA             BARSRating = "N/A"
)

// DataQuality classifies how much of the interview is backed by real
// transcripts.
type DataQuality string

const (
	DataComplete     DataQuality = "COMPLETE"
	DataPartial      DataQuality = "PARTIAL"
	DataInsufficient DataQuality = "INSUFFICIENT_DATA"
)

// Recommendation is the hiring recommendation attached to an assessment.
type Recommendation string

const (
	RecommendStrongHire     Recommendation = "Strong Hire"
	RecommendHire           Recommendation = "Hire"
	RecommendMaybe          Recommendation = "Maybe"
	RecommendNoHire         Recommendation = "No Hire"
	RecommendIncompleteData Recommendation = "INCOMPLETE_DATA"
)

// Dimension names one of the five independently scored assessment axes.
type Dimension string

const (
	DimCommunication      Dimension = "communication"
	DimTechnical          Dimension = "technical"
	DimAnalytical         Dimension = "analytical"
	DimRoleFit            Dimension = "role_fit"
	DimBehavioralPresence Dimension = "behavioral_presence"
)

// AllDimensions lists every scored dimension in canonical order.
var AllDimensions = []Dimension{
	DimCommunication,
	DimTechnical,
	DimAnalytical,
	DimRoleFit,
	DimBehavioralPresence,
}

// SubstantiveOnlyDimensions may only carry a nonzero score when at least
// one substantive (non-introduction) question was validly answered.
var SubstantiveOnlyDimensions = []Dimension{DimTechnical, DimAnalytical}

// DimensionScore pairs a BARS rating with a numeric score in [0,100].
// Invariant: Score falls inside the band assigned to Rating. Percentage
// is display metadata stamped after enforcement, never an input to it.
type DimensionScore struct {
	Rating     BARSRating `json:"rating"`
	Score      int        `json:"score"`
	Reason     string     `json:"reason,omitempty"`
	Percentage int        `json:"percentage"`
}

// TranscriptQuality grades one answer's transcript by speaking pace.
type TranscriptQuality struct {
	Quality        string  `json:"quality"`
	Score          int     `json:"score"`
	WordsPerMinute float64 `json:"words_per_minute"`
	WordCount      int     `json:"word_count"`
	CharacterCount int     `json:"character_count"`
}

// QuestionFeedback is the per-question slice of an assessment.
type QuestionFeedback struct {
	QuestionID          int                `json:"question_id"`
	QuestionText        string             `json:"question_text"`
	Rating              BARSRating         `json:"rating"`
	Feedback            string             `json:"feedback"`
	ObservableBehaviors string             `json:"observable_behaviors"`
	DevelopmentAreas    string             `json:"development_areas"`
	RatingPercentage    int                `json:"rating_percentage"`
	TranscriptQuality   *TranscriptQuality `json:"transcript_quality,omitempty"`
}

// Assessment is the full scored interview result. It starts life as an
// untrusted draft decoded from model output and becomes the session's
// final record only after enforcement has corrected it.
type Assessment struct {
	OverallRating     BARSRating                   `json:"overall_rating"`
	OverallScore      int                          `json:"overall_score"`
	OverallPercentage int                          `json:"overall_percentage"`
	DataQuality       DataQuality                  `json:"data_quality"`
	QuestionsAnswered int                          `json:"questions_answered"`
	QuestionsTotal    int                          `json:"questions_total"`
	CompletionRate    float64                      `json:"completion_rate"`
	Strengths         []string                     `json:"strengths"`
	Improvements      []string                     `json:"improvements"`
	Dimensions        map[Dimension]DimensionScore `json:"dimension_scores"`
	QuestionFeedback  []QuestionFeedback           `json:"question_feedback"`
	Recommendation    Recommendation               `json:"recommendation"`
	Summary           string                       `json:"summary"`
	NextSteps         string                       `json:"next_steps"`
}

// Clone returns a deep copy so enforcement can mutate freely without
// aliasing the caller's draft.
func (a Assessment) Clone() Assessment {
	out := a
	out.Dimensions = make(map[Dimension]DimensionScore, len(a.Dimensions))
	for k, v := range a.Dimensions {
		out.Dimensions[k] = v
	}
	out.Strengths = append([]string(nil), a.Strengths...)
	out.Improvements = append([]string(nil), a.Improvements...)
	out.QuestionFeedback = append([]QuestionFeedback(nil), a.QuestionFeedback...)
	for i, qf := range out.QuestionFeedback {
		if qf.TranscriptQuality != nil {
			q := *qf.TranscriptQuality
			out.QuestionFeedback[i].TranscriptQuality = &q
		}
	}
	return out
}

// Dimension returns the score for d, treating an absent entry as an
// already-zero N/A score rather than an error.
func (a Assessment) Dimension(d Dimension) DimensionScore {
	if a.Dimensions == nil {
		return DimensionScore{Rating: RatingNA}
	}
	if ds, ok := a.Dimensions[d]; ok {
		return ds
	}
	return DimensionScore{Rating: RatingNA}
}

// SetDimension stores the score for d, allocating the map when the draft
// arrived without one.
func (a *Assessment) SetDimension(d Dimension, ds DimensionScore) {
	if a.Dimensions == nil {
		a.Dimensions = make(map[Dimension]DimensionScore, len(AllDimensions))
	}
	a.Dimensions[d] = ds
}
