// Command worker consumes interview analysis jobs from the Redpanda queue,
// runs the model assessment plus enforcement, and persists the result.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ai "github.com/prepforge/ai-prep-coach/internal/adapter/ai"
	"github.com/prepforge/ai-prep-coach/internal/adapter/observability"
	"github.com/prepforge/ai-prep-coach/internal/adapter/queue/redpanda"
	"github.com/prepforge/ai-prep-coach/internal/adapter/repo/postgres"
	"github.com/prepforge/ai-prep-coach/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(":9090", mux); err != nil {
			slog.Error("worker metrics server error", slog.Any("error", err))
		}
	}()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	slog.Info("starting worker", slog.String("env", cfg.AppEnv))

	pool, err := postgres.NewPool(context.Background(), cfg.DBURL)
	if err != nil {
		slog.Error("database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobRepo := postgres.NewJobRepo(pool)
	assessmentRepo := postgres.NewAssessmentRepo(pool)
	aicl := ai.New(cfg)

	consumer, err := redpanda.NewConsumer(cfg.KafkaBrokers, "ai-prep-coach-workers", jobRepo, assessmentRepo, aicl, cfg.ConsumerMaxConcurrency)
	if err != nil {
		slog.Error("consumer init failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			slog.Error("failed to close consumer", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Start(ctx) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		if err != nil {
			slog.Error("consumer stopped", slog.Any("error", err))
		}
	}
}
