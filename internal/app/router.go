// Package app wires configuration, adapters and usecases into a runnable
// HTTP surface plus the readiness checks that guard it.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/prepforge/ai-prep-coach/internal/adapter/httpserver"
	"github.com/prepforge/ai-prep-coach/internal/adapter/observability"
	"github.com/prepforge/ai-prep-coach/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input allows all origins.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(60 * time.Second))
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// All /v1 routes are session-scoped; mutating ones are rate limited.
	r.Group(func(v1 chi.Router) {
		v1.Use(httpserver.SessionID())
		v1.Group(func(wr chi.Router) {
			wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
			wr.Post("/v1/datasets", srv.DatasetUploadHandler())
			wr.Post("/v1/datasets/ask", srv.DatasetAskHandler())
			wr.Post("/v1/documents", srv.DocumentUploadHandler())
			wr.Post("/v1/documents/ask", srv.DocumentAskHandler())
			wr.Post("/v1/youtube", srv.YouTubeProcessHandler())
			wr.Post("/v1/youtube/ask", srv.YouTubeAskHandler())
			wr.Post("/v1/interview/questions", srv.InterviewQuestionsHandler())
			wr.Post("/v1/interview/analyze", srv.InterviewAnalyzeHandler())
			wr.Post("/v1/coding/generate", srv.CodingGenerateHandler())
			wr.Post("/v1/coding/run", srv.CodingRunHandler())
			wr.Post("/v1/coding/validate", srv.CodingValidateHandler())
			wr.Post("/v1/coding/hint", srv.CodingHintHandler())
			wr.Post("/v1/coding/solution", srv.CodingSolutionHandler())
		})
		v1.Get("/v1/interview/result/{id}", srv.InterviewResultHandler())
		v1.Get("/v1/coding/runtimes", srv.CodingRuntimesHandler())
	})

	// Health and metrics
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })
	r.Get("/readyz", srv.ReadyzHandler())

	return httpserver.SecurityHeaders(r)
}
