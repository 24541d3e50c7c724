// Package session stores interim per-session state in Redis: registered
// datasets, processed documents and videos, and the exercise in progress.
// Every key carries a TTL so abandoned sessions expire on their own.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// Store implements domain.SessionStore on top of Redis hashes.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func datasetsKey(sessionID string) string { return "sess:" + sessionID + ":datasets" }
func documentsKey(sessionID string) string { return "sess:" + sessionID + ":documents" }
func videosKey(sessionID string) string   { return "sess:" + sessionID + ":videos" }
func exerciseKey(sessionID string) string { return "sess:" + sessionID + ":exercise" }

func (s *Store) hashSet(ctx context.Context, key, field string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("op=session.marshal: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, field, b)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("op=session.set: %w", err)
	}
	return nil
}

func (s *Store) hashGet(ctx context.Context, key, field string, out any) error {
	b, err := s.rdb.HGet(ctx, key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, key, field)
	}
	if err != nil {
		return fmt.Errorf("op=session.get: %w", err)
	}
	return json.Unmarshal(b, out)
}

func (s *Store) SaveDataset(ctx domain.Context, sessionID string, ds domain.DatasetInfo) error {
	return s.hashSet(ctx, datasetsKey(sessionID), ds.Table, ds)
}

func (s *Store) ListDatasets(ctx domain.Context, sessionID string) ([]domain.DatasetInfo, error) {
	vals, err := s.rdb.HGetAll(ctx, datasetsKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("op=session.list_datasets: %w", err)
	}
	out := make([]domain.DatasetInfo, 0, len(vals))
	for _, raw := range vals {
		var ds domain.DatasetInfo
		if err := json.Unmarshal([]byte(raw), &ds); err != nil {
			continue
		}
		out = append(out, ds)
	}
	return out, nil
}

func (s *Store) SaveDocument(ctx domain.Context, sessionID string, d domain.DocumentInfo) error {
	return s.hashSet(ctx, documentsKey(sessionID), d.ID, d)
}

func (s *Store) GetDocument(ctx domain.Context, sessionID, docID string) (domain.DocumentInfo, error) {
	var d domain.DocumentInfo
	err := s.hashGet(ctx, documentsKey(sessionID), docID, &d)
	return d, err
}

func (s *Store) SaveVideo(ctx domain.Context, sessionID string, v domain.VideoInfo) error {
	return s.hashSet(ctx, videosKey(sessionID), v.VideoID, v)
}

func (s *Store) GetVideo(ctx domain.Context, sessionID, videoID string) (domain.VideoInfo, error) {
	var v domain.VideoInfo
	err := s.hashGet(ctx, videosKey(sessionID), videoID, &v)
	return v, err
}

func (s *Store) SaveExercise(ctx domain.Context, sessionID string, ex domain.ExerciseState) error {
	b, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("op=session.marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, exerciseKey(sessionID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("op=session.save_exercise: %w", err)
	}
	return nil
}

func (s *Store) GetExercise(ctx domain.Context, sessionID string) (domain.ExerciseState, error) {
	var ex domain.ExerciseState
	b, err := s.rdb.Get(ctx, exerciseKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ex, fmt.Errorf("%w: no exercise in progress", domain.ErrNotFound)
	}
	if err != nil {
		return ex, fmt.Errorf("op=session.get_exercise: %w", err)
	}
	err = json.Unmarshal(b, &ex)
	return ex, err
}

func (s *Store) Clear(ctx domain.Context, sessionID string) error {
	keys := []string{
		datasetsKey(sessionID),
		documentsKey(sessionID),
		videosKey(sessionID),
		exerciseKey(sessionID),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("op=session.clear: %w", err)
	}
	return nil
}
