package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// InterviewQuestionsHandler generates a fresh question set for a role.
func (s *Server) InterviewQuestionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role           string `json:"role" validate:"required,max=200"`
			InterviewType  string `json:"interview_type" validate:"required,max=100"`
			AdditionalInfo string `json:"additional_info" validate:"max=2000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		questions, err := s.Interview.GenerateQuestions(r.Context(), req.InterviewType, req.Role, req.AdditionalInfo)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
	}
}

// InterviewAnalyzeHandler enqueues an asynchronous interview analysis job.
// The Idempotency-Key header deduplicates retried submissions.
func (s *Server) InterviewAnalyzeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Role          string                     `json:"role" validate:"required,max=200"`
			InterviewType string                     `json:"interview_type" validate:"required,max=100"`
			Questions     []domain.InterviewQuestion `json:"questions" validate:"required,min=1,dive"`
			Answers       []domain.InterviewAnswer   `json:"answers" validate:"required,min=1,dive"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		jobID, err := s.Interview.EnqueueAnalysis(r.Context(), SessionFrom(r), req.Role, req.InterviewType, req.Questions, req.Answers, r.Header.Get("Idempotency-Key"))
		if err != nil {
			writeError(w, r, fmt.Errorf("enqueue: %w", err), nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": jobID, "status": string(domain.JobQueued)})
	}
}

// InterviewResultHandler returns the job envelope; completed jobs carry the
// enforced assessment. Supports conditional requests via ETag.
func (s *Server) InterviewResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, r, fmt.Errorf("%w: id missing", domain.ErrInvalidArgument), nil)
			return
		}
		status, body, etag, err := s.Interview.Result(r.Context(), id, r.Header.Get("If-None-Match"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.Header().Set("ETag", etag)
		if status == http.StatusNotModified {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, body)
	}
}
