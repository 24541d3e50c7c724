package postgres

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// AssessmentRepo persists and loads interview assessments from PostgreSQL.
// The full assessment is stored as one JSONB payload keyed by job_id; the
// overall score and data quality are lifted into columns for querying.
type AssessmentRepo struct{ Pool PgxPool }

// NewAssessmentRepo constructs an AssessmentRepo with the given pool.
func NewAssessmentRepo(p PgxPool) *AssessmentRepo { return &AssessmentRepo{Pool: p} }

// Upsert inserts or updates the assessment for a job.
func (r *AssessmentRepo) Upsert(ctx domain.Context, jobID string, a domain.Assessment) error {
	tracer := otel.Tracer("repo.assessments")
	ctx, span := tracer.Start(ctx, "assessments.Upsert")
	defer span.End()
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("op=assessment.marshal: %w", err)
	}
	q := `INSERT INTO assessments (job_id, overall_score, data_quality, payload, created_at)
	VALUES ($1,$2,$3,$4,$5)
	ON CONFLICT (job_id)
	DO UPDATE SET overall_score=EXCLUDED.overall_score, data_quality=EXCLUDED.data_quality, payload=EXCLUDED.payload`
	_, err = r.Pool.Exec(ctx, q, jobID, a.OverallScore, string(a.DataQuality), payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("op=assessment.upsert: %w", err)
	}
	return nil
}

// GetByJobID loads the assessment for a job.
func (r *AssessmentRepo) GetByJobID(ctx domain.Context, jobID string) (domain.Assessment, error) {
	tracer := otel.Tracer("repo.assessments")
	ctx, span := tracer.Start(ctx, "assessments.GetByJobID")
	defer span.End()
	q := `SELECT payload FROM assessments WHERE job_id=$1`
	row := r.Pool.QueryRow(ctx, q, jobID)
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assessment{}, fmt.Errorf("op=assessment.get: %w", domain.ErrNotFound)
		}
		return domain.Assessment{}, fmt.Errorf("op=assessment.get: %w", err)
	}
	var a domain.Assessment
	if err := json.Unmarshal(payload, &a); err != nil {
		return domain.Assessment{}, fmt.Errorf("op=assessment.decode: %w", err)
	}
	return a, nil
}
