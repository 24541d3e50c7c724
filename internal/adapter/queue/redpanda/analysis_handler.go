package redpanda

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	aicli "github.com/prepforge/ai-prep-coach/internal/adapter/ai"
	"github.com/prepforge/ai-prep-coach/internal/adapter/observability"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/interview"
	"github.com/prepforge/ai-prep-coach/internal/prompts"
)

const analysisTimeout = 5 * time.Minute

// HandleAnalysis processes one interview analysis task end to end: it
// measures transcript completeness, asks the model for a draft assessment,
// and runs enforcement over the draft before persisting. Scores the model
// invented for unanswered questions never survive this function.
func HandleAnalysis(
	ctx context.Context,
	jobs domain.JobRepository,
	assessments domain.AssessmentRepository,
	ai domain.AIClient,
	payload domain.AnalysisTaskPayload,
) error {
	tracer := otel.Tracer("queue.handler")
	ctx, span := tracer.Start(ctx, "HandleAnalysis")
	defer span.End()

	if jobs == nil {
		return fmt.Errorf("job repository is nil")
	}
	if assessments == nil {
		return fmt.Errorf("assessment repository is nil")
	}
	if ai == nil {
		return fmt.Errorf("AI client is nil")
	}

	taskCtx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	if err := jobs.UpdateStatus(taskCtx, payload.JobID, domain.JobProcessing, nil); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	observability.StartProcessingJob("analysis")

	completeness := interview.AnalyzeCompleteness(payload.Answers)
	answered := interview.AnsweredPositions(payload.Answers)

	// No valid transcript at all: the model has nothing to assess, so skip
	// it entirely and record the fixed insufficient-data result. The canned
	// assessment still goes through Enforce so the completeness metadata is
	// stamped like every other result.
	var final domain.Assessment
	if completeness.Answered == 0 {
		slog.Info("no valid transcripts, skipping model call",
			slog.String("job_id", payload.JobID),
			slog.Int("questions_total", completeness.Total))
		final = interview.Enforce(interview.InsufficientDataAssessment(payload.Questions), completeness, answered)
	} else {
		draft, err := requestDraftAssessment(taskCtx, ai, payload)
		if err != nil {
			observability.FailJob("analysis")
			msg := err.Error()
			_ = jobs.UpdateStatus(ctx, payload.JobID, domain.JobFailed, &msg)
			return fmt.Errorf("draft assessment: %w", err)
		}
		final = interview.Enforce(draft, completeness, answered)
	}
	interview.AttachDisplayMetadata(&final, payload.Answers)

	if err := assessments.Upsert(ctx, payload.JobID, final); err != nil {
		observability.FailJob("analysis")
		msg := "failed to store assessment"
		_ = jobs.UpdateStatus(ctx, payload.JobID, domain.JobFailed, &msg)
		return fmt.Errorf("store assessment: %w", err)
	}
	if err := jobs.UpdateStatus(ctx, payload.JobID, domain.JobCompleted, nil); err != nil {
		return fmt.Errorf("update job status: %w", err)
	}

	observability.CompleteJob("analysis")
	observability.ObserveAssessment(final.OverallScore, final.CompletionRate)
	slog.Info("analysis job completed",
		slog.String("job_id", payload.JobID),
		slog.Int("overall_score", final.OverallScore),
		slog.String("data_quality", string(final.DataQuality)))
	return nil
}

// requestDraftAssessment asks the model to score the interview and decodes
// its reply. A reply that cannot be turned into valid JSON fails the job;
// enforcement only corrects scores, it does not repair broken payloads.
func requestDraftAssessment(ctx context.Context, ai domain.AIClient, payload domain.AnalysisTaskPayload) (domain.Assessment, error) {
	prompt := prompts.Analysis(payload.InterviewType, payload.Role, payload.Questions, payload.Answers)
	reply, err := ai.ChatJSON(ctx, "", prompt, 4000)
	if err != nil {
		return domain.Assessment{}, err
	}

	cleaner := aicli.NewResponseCleaner()
	cleaned, err := cleaner.CleanAndValidateJSON(reply)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("%w: %v", domain.ErrSchemaInvalid, err)
	}
	return aicli.DecodeAssessment(cleaned)
}
