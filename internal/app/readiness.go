package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prepforge/ai-prep-coach/internal/config"
)

// Pinger is the minimal interface for a database pool capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// RedisPingResult is the minimal return type of a Redis client's Ping.
type RedisPingResult interface{ Err() error }

// RedisClient is the minimal interface for a Redis client needed for readiness.
type RedisClient interface{ Ping(ctx context.Context) RedisPingResult }

// Checks bundles the readiness probes attached to the HTTP server.
type Checks struct {
	DB     func(ctx context.Context) error
	Redis  func(ctx context.Context) error
	Qdrant func(ctx context.Context) error
	Tika   func(ctx context.Context) error
	Piston func(ctx context.Context) error
}

// BuildReadinessChecks returns probes for Postgres, Redis, Qdrant, Tika
// and the Piston sandbox.
func BuildReadinessChecks(cfg config.Config, pool Pinger, rdb RedisClient) Checks {
	return Checks{
		DB: func(ctx context.Context) error {
			if pool == nil {
				return fmt.Errorf("db not configured")
			}
			return pool.Ping(ctx)
		},
		Redis: func(ctx context.Context) error {
			if rdb == nil {
				return fmt.Errorf("redis not configured")
			}
			return rdb.Ping(ctx).Err()
		},
		Qdrant: httpProbe(cfg.QdrantURL, "/collections", map[string]string{"api-key": cfg.QdrantAPIKey}),
		Tika:   httpProbe(cfg.TikaURL, "/version", nil),
		Piston: httpProbe(cfg.PistonURL, "/runtimes", nil),
	}
}

// httpProbe returns a check that treats any 2xx from baseURL+path as ready.
func httpProbe(baseURL, path string, headers map[string]string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if baseURL == "" {
			return fmt.Errorf("url not configured")
		}
		client := &http.Client{Timeout: 2 * time.Second}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
		if err != nil {
			return err
		}
		for k, v := range headers {
			if v != "" {
				req.Header.Set(k, v)
			}
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}
}
