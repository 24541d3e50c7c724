// Command server starts the AI Prep Coach HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	ai "github.com/prepforge/ai-prep-coach/internal/adapter/ai"
	httpserver "github.com/prepforge/ai-prep-coach/internal/adapter/httpserver"
	"github.com/prepforge/ai-prep-coach/internal/adapter/observability"
	"github.com/prepforge/ai-prep-coach/internal/adapter/queue/redpanda"
	"github.com/prepforge/ai-prep-coach/internal/adapter/repo/postgres"
	"github.com/prepforge/ai-prep-coach/internal/adapter/sandbox/piston"
	"github.com/prepforge/ai-prep-coach/internal/adapter/session"
	tikaext "github.com/prepforge/ai-prep-coach/internal/adapter/textextractor/tika"
	"github.com/prepforge/ai-prep-coach/internal/adapter/transcript"
	qdrantcli "github.com/prepforge/ai-prep-coach/internal/adapter/vector/qdrant"
	"github.com/prepforge/ai-prep-coach/internal/app"
	"github.com/prepforge/ai-prep-coach/internal/config"
	"github.com/prepforge/ai-prep-coach/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobRepo := postgres.NewJobRepo(pool)
	assessmentRepo := postgres.NewAssessmentRepo(pool)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() { _ = rdb.Close() }()
	store := session.New(rdb, cfg.SessionTTL)

	producer, err := redpanda.NewProducer(cfg.KafkaBrokers)
	if err != nil {
		slog.Error("redpanda producer connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			slog.Error("failed to close queue producer", slog.Any("error", err))
		}
	}()

	aicl := ai.New(cfg)
	qcli := qdrantcli.New(cfg.QdrantURL, cfg.QdrantAPIKey)
	extractor := tikaext.New(cfg.TikaURL)
	captions := transcript.New("")
	runner := piston.New(cfg.PistonURL, cfg.SandboxCompileTimeout, cfg.SandboxRunTimeout)

	bank, err := config.LoadQuestionBank(cfg.QuestionBankPath)
	if err != nil {
		slog.Warn("question bank unavailable, model fallback disabled",
			slog.String("path", cfg.QuestionBankPath), slog.Any("error", err))
		bank = &config.QuestionBank{}
	}

	datasetSvc := usecase.NewDatasetService(store, aicl, "")
	documentSvc := usecase.NewDocumentService(store, aicl, extractor, qcli, cfg.ChatModel)
	youtubeSvc := usecase.NewYouTubeService(store, aicl, captions, qcli, cfg.ChatModel)
	interviewSvc := usecase.NewInterviewService(jobRepo, assessmentRepo, producer, aicl, bank)
	codingSvc := usecase.NewCodingService(store, aicl, runner)

	srv := httpserver.NewServer(cfg, datasetSvc, documentSvc, youtubeSvc, interviewSvc, codingSvc)
	checks := app.BuildReadinessChecks(cfg, pool, redisAdapter{rdb})
	srv.DBCheck = checks.DB
	srv.RedisCheck = checks.Redis
	srv.QdrantCheck = checks.Qdrant
	srv.TikaCheck = checks.Tika
	srv.PistonCheck = checks.Piston

	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}

// redisAdapter narrows *redis.Client to the readiness check interface.
type redisAdapter struct{ rdb *redis.Client }

func (a redisAdapter) Ping(ctx context.Context) app.RedisPingResult {
	return a.rdb.Ping(ctx)
}
