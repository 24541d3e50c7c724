package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prepforge/ai-prep-coach/internal/config"
	"github.com/prepforge/ai-prep-coach/internal/domain"
	"github.com/prepforge/ai-prep-coach/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Datasets  usecase.DatasetService
	Documents usecase.DocumentService
	Videos    usecase.YouTubeService
	Interview usecase.InterviewService
	Coding    usecase.CodingService

	DBCheck     func(ctx context.Context) error
	RedisCheck  func(ctx context.Context) error
	QdrantCheck func(ctx context.Context) error
	TikaCheck   func(ctx context.Context) error
	PistonCheck func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers wired. Readiness
// checks are attached separately by the app wiring.
func NewServer(cfg config.Config, datasets usecase.DatasetService, documents usecase.DocumentService, videos usecase.YouTubeService, interview usecase.InterviewService, coding usecase.CodingService) *Server {
	return &Server{
		Cfg:       cfg,
		Datasets:  datasets,
		Documents: documents,
		Videos:    videos,
		Interview: interview,
		Coding:    coding,
	}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// decodeJSON decodes and validates a JSON request body. On failure it
// writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
		return false
	}
	if err := getValidator().Struct(dst); err != nil {
		verrs := map[string]string{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
		return false
	}
	return true
}

// readUpload parses a multipart request and returns the named file capped
// at the configured upload size. On failure it writes the error response
// and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (multipart.File, *multipart.FileHeader, bool) {
	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
		return nil, nil, false
	}
	maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
				Code:    "INVALID_ARGUMENT",
				Message: "payload too large",
				Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
			}})
			return nil, nil, false
		}
		writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
		return nil, nil, false
	}
	f, h, err := r.FormFile(field)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %s file required", domain.ErrInvalidArgument, field), map[string]string{"field": field})
		return nil, nil, false
	}
	return f, h, true
}

// saveTemp writes uploaded bytes to a temp file for path-based consumers
// (the Tika extractor). The caller must invoke cleanup.
func saveTemp(data []byte) (string, func(), error) {
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}
	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

// ReadyzHandler probes the service dependencies: Postgres, Redis, Qdrant,
// Tika and the code sandbox.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	probes := []struct {
		name string
		fn   func() func(ctx context.Context) error
	}{
		{"db", func() func(ctx context.Context) error { return s.DBCheck }},
		{"redis", func() func(ctx context.Context) error { return s.RedisCheck }},
		{"qdrant", func() func(ctx context.Context) error { return s.QdrantCheck }},
		{"tika", func() func(ctx context.Context) error { return s.TikaCheck }},
		{"piston", func() func(ctx context.Context) error { return s.PistonCheck }},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, len(probes))
		ok := true
		for _, p := range probes {
			fn := p.fn()
			if fn == nil {
				continue
			}
			if err := fn(ctx); err != nil {
				checks = append(checks, check{Name: p.name, OK: false, Details: err.Error()})
				ok = false
			} else {
				checks = append(checks, check{Name: p.name, OK: true})
			}
		}
		st := http.StatusOK
		if !ok {
			st = http.StatusServiceUnavailable
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
