// Package prompts builds the model prompts for question generation,
// interview analysis, dataset/document/video Q&A and coding exercises.
// Every builder returns a plain string; callers own token budgeting and
// transport.
package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

const questionGenerationTemplate = `You are an expert interviewer conducting a %s for the role: %s.
%s

Generate 5 interview questions suitable for video interview format.
Each question should:
- Be clear and concise (suitable for 2-3 minute video answers)
- Be relevant to the role and interview type
- Be progressively challenging

Return a JSON object with:
{
    "questions": [
        {"id": 1, "question": "First question text", "time_limit": 180},
        {"id": 2, "question": "Second question text", "time_limit": 180},
        {"id": 3, "question": "Third question text", "time_limit": 180},
        {"id": 4, "question": "Fourth question text", "time_limit": 180},
        {"id": 5, "question": "Fifth question text", "time_limit": 180}
    ]
}

IMPORTANT: Return ONLY valid JSON, no additional text.`

// VariationSeed returns a millisecond-derived seed in [0,1000) so repeated
// generation requests for the same role do not hit provider caches with an
// identical prompt.
func VariationSeed(now time.Time) int {
	return int(now.UnixMilli() % 1000)
}

// QuestionGeneration builds the interview question generation prompt.
// additionalInfo may be empty; seed comes from VariationSeed.
func QuestionGeneration(interviewType, role, additionalInfo string, seed int) string {
	var info strings.Builder
	if additionalInfo != "" {
		fmt.Fprintf(&info, "Additional context: %s", additionalInfo)
	}
	fmt.Fprintf(&info, "\n\nIMPORTANT: Generate fresh questions (variation seed: %d). Avoid repeating common interview questions verbatim.", seed)
	return fmt.Sprintf(questionGenerationTemplate, interviewType, role, info.String())
}

const analysisTemplate = `You are an expert interviewer analyzing a %s interview for the role: %s.

Here are the questions and candidate's video responses (transcribed):

%s

IMPORTANT: Use Behaviorally Anchored Rating Scales (BARS) instead of arbitrary percentages. Assess based on OBSERVABLE BEHAVIORS only.

CRITICAL SCORING RULES:
1. Question 1 typically asks about background/introduction - use ONLY for Communication and Role Fit assessment
2. Questions 2-5 typically assess technical/domain knowledge - use ONLY for Technical, Analytical, and Behavioral Presence
3. If a question is unanswered (missing transcript, <10 chars, or "No transcription available"), mark it as N/A
4. Domain-specific scores (Technical, Analytical) MUST be based on relevant technical questions, NOT introduction
5. If 50%% or more questions are missing, set overall_rating to "N/A" and data_quality to "INSUFFICIENT_DATA"
6. Score only what is actually demonstrated - do NOT infer technical knowledge from job titles mentioned in introductions

Provide a COMPREHENSIVE and DETAILED analysis using BARS methodology:

1. Overall Performance Rating: Use BARS scale
   - "EXCEPTIONAL" (5): Consistently exceeds all expectations with concrete examples
   - "STRONG" (4): Frequently exceeds expectations in most areas
   - "SATISFACTORY" (3): Meets expectations consistently
   - "DEVELOPING" (2): Shows potential but needs improvement in key areas
   - "UNSATISFACTORY" (1): Falls below expectations in most areas
   - "N/A": Insufficient answered questions to assess (use when <50%% answered)

2. Detailed Strengths (4-5 specific OBSERVABLE behaviors with examples from transcript)

3. Areas for Improvement (4-5 specific ACTIONABLE suggestions based on observable gaps)

4. BARS Ratings for Each Dimension (STRICT RULES):

   A. COMMUNICATION EFFECTIVENESS:
      - Assess from: ALL answered questions
      - Observable: Clear articulation, structured responses, active listening cues
      - If no answers: N/A, score 0

   B. TECHNICAL/DOMAIN KNOWLEDGE:
      - Assess from: ONLY technical questions (typically Q2-Q5, NOT introduction)
      - Observable: Accurate terminology, depth of explanations, practical examples
      - If no technical questions answered: N/A, score 0
      - NEVER infer from job titles in introduction

   C. ANALYTICAL ABILITY:
      - Assess from: ONLY problem-solving/technical questions (NOT introduction)
      - Observable: Structured thinking, consideration of alternatives, logical reasoning
      - If no relevant questions answered: N/A, score 0

   D. ROLE FIT:
      - Assess from: Introduction + understanding demonstrated across all answered questions
      - Observable: Understanding of role requirements, relevant experience examples
      - If only introduction answered: Mark as PARTIAL data, score max 40

   E. BEHAVIORAL PRESENCE:
      - Assess from: ALL answered questions
      - Observable: Response completeness, engagement tone, question handling
      - If <3 questions answered: N/A, score 0

5. Question-by-Question Analysis:
   For EACH question:
   - BARS rating (EXCEPTIONAL/STRONG/SATISFACTORY/DEVELOPING/UNSATISFACTORY/N/A)
   - Detailed feedback (2-3 sentences citing SPECIFIC observable behaviors OR "No transcript available")
   - Observable strengths (specific behaviors demonstrated OR "N/A")
   - Development areas (specific behaviors to improve OR "N/A")

6. Final Recommendation Logic:
   - If <50%% questions answered: "INCOMPLETE_DATA"
   - If only introduction answered: "INCOMPLETE_DATA"
   - Otherwise: ["Strong Hire", "Hire", "Maybe", "No Hire"] with behavioral justification

7. Detailed Summary (3-4 sentences covering observable performance patterns, note missing questions)

8. Next Steps (specific behavioral development actions OR request to complete missing questions)

CRITICAL VALIDATION:
- If answer is empty/missing: Use "N/A" rating, 0 score, note "Insufficient data - no transcript available"
- If only Q1 answered: Technical score = 0, Analytical score = 0, overall_rating = "N/A", recommendation = "INCOMPLETE_DATA"
- If <3 questions answered: overall_rating = "N/A", data_quality = "INSUFFICIENT_DATA"
- NEVER give technical scores based solely on introduction question

Return JSON with this EXACT structure (MUST include both categorical BARS ratings AND numerical scores 0-100):
{
    "overall_rating": <"EXCEPTIONAL"|"STRONG"|"SATISFACTORY"|"DEVELOPING"|"UNSATISFACTORY"|"N/A">,
    "overall_score": <0-100 numerical score, or 0 if N/A>,
    "data_quality": <"COMPLETE" if all answered | "PARTIAL" if 50-90%% answered | "INSUFFICIENT_DATA" if <50%% answered>,
    "questions_answered": <number of questions with real transcripts>,
    "questions_total": <total number of questions>,
    "strengths": [<array of observable behavior strings>],
    "improvements": [<array of actionable behavioral strings>],
    "communication_rating": <BARS rating>,
    "communication_score": <0-100>,
    "communication_reason": <detailed observable behaviors>,
    "technical_rating": <BARS rating>,
    "technical_score": <0-100>,
    "technical_reason": <detailed observable behaviors>,
    "analytical_rating": <BARS rating>,
    "analytical_score": <0-100>,
    "analytical_reason": <detailed observable behaviors>,
    "role_fit_rating": <BARS rating>,
    "role_fit_score": <0-100>,
    "role_fit_reason": <detailed observable behaviors>,
    "behavioral_presence_rating": <BARS rating (not confidence)>,
    "behavioral_presence_score": <0-100>,
    "behavioral_reason": <detailed observable behaviors>,
    "question_feedback": [
        {
            "question_id": <number>,
            "question_text": <string>,
            "rating": <BARS rating or "N/A" if empty>,
            "feedback": <detailed behavioral observation or "No transcript available">,
            "observable_behaviors": <specific behaviors demonstrated or "N/A">,
            "development_areas": <specific behaviors to improve or "N/A">
        }
    ],
    "recommendation": <"Strong Hire"|"Hire"|"Maybe"|"No Hire">,
    "summary": <detailed multi-sentence behavioral summary>,
    "next_steps": <specific behavioral development actions>
}

Score Guidelines (0-100):
- EXCEPTIONAL: 90-100 (Outstanding, consistently exceeds all expectations with concrete examples)
- STRONG: 75-89 (Above average, frequently exceeds expectations in most areas)
- SATISFACTORY: 60-74 (Meets expectations consistently and adequately)
- DEVELOPING: 40-59 (Below expectations, shows potential but needs improvement)
- UNSATISFACTORY: 1-39 (Well below expectations in most areas)
- N/A: 0 (Insufficient data to assess)

Return ONLY the valid JSON object.`

// FormatQAPairs renders the transcript block the analysis prompt embeds.
// Answers with no matching question render the question text as N/A rather
// than being dropped, so the model sees every submitted answer.
func FormatQAPairs(questions []domain.InterviewQuestion, answers []domain.InterviewAnswer) string {
	byID := make(map[int]domain.InterviewQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	var b strings.Builder
	for _, a := range answers {
		text := a.Text
		if text == "" {
			text = "No answer provided"
		}
		qText := "N/A"
		if q, ok := byID[a.QuestionID]; ok {
			qText = q.Question
		}
		fmt.Fprintf(&b, "\nQuestion %d: %s\nCandidate's Answer: %s\nDuration: %g seconds\n",
			a.QuestionID, qText, text, a.Duration)
	}
	return b.String()
}

// Analysis builds the full interview analysis prompt.
func Analysis(interviewType, role string, questions []domain.InterviewQuestion, answers []domain.InterviewAnswer) string {
	return fmt.Sprintf(analysisTemplate, interviewType, role, FormatQAPairs(questions, answers))
}
