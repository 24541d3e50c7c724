// Package usecase contains application business logic services.
package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	aicli "github.com/prepforge/ai-prep-coach/internal/adapter/ai"
	"github.com/prepforge/ai-prep-coach/internal/config"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/prompts"
)

// staleJobTimeout marks queued/processing jobs older than this as failed
// when their result is requested. Must exceed the worker's analysis timeout.
const staleJobTimeout = 6 * time.Minute

// InterviewService orchestrates question generation and asynchronous
// interview analysis.
type InterviewService struct {
	Jobs        domain.JobRepository
	Assessments domain.AssessmentRepository
	Queue       domain.Queue
	AI          domain.AIClient
	Bank        *config.QuestionBank
}

// NewInterviewService constructs an InterviewService with its dependencies.
func NewInterviewService(j domain.JobRepository, a domain.AssessmentRepository, q domain.Queue, ai domain.AIClient, bank *config.QuestionBank) InterviewService {
	return InterviewService{Jobs: j, Assessments: a, Queue: q, AI: ai, Bank: bank}
}

// GenerateQuestions asks the model for a fresh question set. The variation
// seed makes repeated requests for the same role produce different sets.
// When the model fails or returns garbage the curated question bank serves
// as fallback so an interview can always start.
func (s InterviewService) GenerateQuestions(ctx domain.Context, interviewType, role, additionalInfo string) ([]domain.InterviewQuestion, error) {
	if interviewType == "" || role == "" {
		return nil, fmt.Errorf("%w: interview_type and role required", domain.ErrInvalidArgument)
	}

	seed := prompts.VariationSeed(time.Now())
	prompt := prompts.QuestionGeneration(interviewType, role, additionalInfo, seed)

	reply, err := s.AI.ChatJSON(ctx, "", prompt, 2000)
	if err == nil {
		cleaner := aicli.NewResponseCleaner()
		if cleaned, cerr := cleaner.CleanAndValidateJSON(reply); cerr == nil {
			if questions, derr := aicli.DecodeQuestions(cleaned); derr == nil {
				return questions, nil
			}
		}
	}

	slog.Warn("question generation failed, using question bank",
		slog.String("interview_type", interviewType),
		slog.Any("error", err))
	return s.bankQuestions(interviewType)
}

func (s InterviewService) bankQuestions(interviewType string) ([]domain.InterviewQuestion, error) {
	if s.Bank == nil {
		return nil, fmt.Errorf("%w: no question bank configured", domain.ErrInternal)
	}
	set := s.Bank.SetFor(interviewType)
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("%w: question bank has no set for %q", domain.ErrInternal, interviewType)
	}
	out := make([]domain.InterviewQuestion, 0, len(set.Questions))
	for i, q := range set.Questions {
		timeLimit := q.TimeLimit
		if timeLimit <= 0 {
			timeLimit = 180
		}
		out = append(out, domain.InterviewQuestion{ID: i + 1, Question: q.Question, TimeLimit: timeLimit})
	}
	return out, nil
}

// EnqueueAnalysis validates the interview payload, creates a job, and
// enqueues the analysis task. An idempotency key maps repeated submissions
// onto the first job.
func (s InterviewService) EnqueueAnalysis(ctx domain.Context, sessionID, role, interviewType string, questions []domain.InterviewQuestion, answers []domain.InterviewAnswer, idemKey string) (string, error) {
	if len(questions) == 0 {
		return "", fmt.Errorf("%w: questions required", domain.ErrInvalidArgument)
	}
	if len(answers) != len(questions) {
		return "", fmt.Errorf("%w: answers must align with questions (%d != %d)", domain.ErrInvalidArgument, len(answers), len(questions))
	}

	if idemKey != "" {
		if j, err := s.Jobs.FindByIdempotencyKey(ctx, idemKey); err == nil && j.ID != "" {
			return j.ID, nil
		}
	}

	j := domain.Job{
		Status:    domain.JobQueued,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if idemKey != "" {
		j.IdemKey = &idemKey
	}
	jobID, err := s.Jobs.Create(ctx, j)
	if err != nil {
		return "", err
	}

	payload := domain.AnalysisTaskPayload{
		JobID:         jobID,
		SessionID:     sessionID,
		Role:          role,
		InterviewType: interviewType,
		Questions:     questions,
		Answers:       answers,
	}
	if _, err := s.Queue.EnqueueAnalysis(ctx, payload); err != nil {
		msg := "enqueue failed"
		_ = s.Jobs.UpdateStatus(ctx, jobID, domain.JobFailed, &msg)
		return "", err
	}
	return jobID, nil
}

// Result returns the HTTP status, response body, and ETag for a job. It
// implements conditional responses based on If-None-Match and surfaces
// queued/processing/failed states per the API contract.
func (s InterviewService) Result(ctx domain.Context, id, ifNoneMatch string) (int, map[string]any, string, error) {
	job, err := s.Jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return http.StatusNotFound, nil, "", fmt.Errorf("%w: job not found", domain.ErrNotFound)
		}
		return http.StatusInternalServerError, nil, "", err
	}

	if job.Status != domain.JobCompleted {
		now := time.Now().UTC()
		stale := (job.Status == domain.JobQueued && now.Sub(job.CreatedAt) > staleJobTimeout) ||
			(job.Status == domain.JobProcessing && now.Sub(job.UpdatedAt) > staleJobTimeout)
		if stale {
			msg := fmt.Sprintf("timeout: job exceeded %s", staleJobTimeout)
			_ = s.Jobs.UpdateStatus(ctx, id, domain.JobFailed, &msg)
			job.Status = domain.JobFailed
			job.Error = msg
		}
		m := map[string]any{"id": id, "status": string(job.Status)}
		if job.Status == domain.JobFailed {
			m["error"] = map[string]any{
				"code":    errorCodeFromJobError(job.Error),
				"message": job.Error,
			}
		}
		etag := makeETag(m)
		if etag == ifNoneMatch {
			return http.StatusNotModified, nil, etag, nil
		}
		return http.StatusOK, m, etag, nil
	}

	a, err := s.Assessments.GetByJobID(ctx, id)
	if err != nil {
		return http.StatusInternalServerError, nil, "", err
	}
	m := map[string]any{
		"id":         id,
		"status":     string(domain.JobCompleted),
		"assessment": a,
	}
	etag := makeETag(m)
	if etag == ifNoneMatch {
		return http.StatusNotModified, nil, etag, nil
	}
	return http.StatusOK, m, etag, nil
}

func makeETag(v any) string {
	b, _ := json.Marshal(v)
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}
