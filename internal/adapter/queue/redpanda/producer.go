// Package redpanda provides Redpanda/Kafka queue integration for interview
// analysis jobs. Producing is transactional so a job is either fully
// enqueued or not at all.
package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/prepforge/ai-prep-coach/internal/adapter/observability"
	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// TopicAnalysis is the Kafka topic carrying interview analysis jobs.
const TopicAnalysis = "interview-analysis"

// Producer wraps a transactional Kafka producer and implements domain.Queue.
type Producer struct {
	client *kgo.Client
	// Serializes transactions; kgo allows one open transaction per client.
	transactionChan chan struct{}
}

// NewProducer constructs a transactional Producer.
func NewProducer(brokers []string) (*Producer, error) {
	return NewProducerWithTransactionalID(brokers, "ai-prep-coach-producer")
}

// NewProducerWithTransactionalID constructs a Producer with a custom
// transactional ID so tests can avoid ID conflicts.
func NewProducerWithTransactionalID(brokers []string, transactionalID string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.TransactionalID(transactionalID),
		kgo.RequestRetries(10),
		kgo.ProducerBatchMaxBytes(1000000),
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("redpanda client: %w", err)
	}

	ctx := context.Background()
	if err := createTopicIfNotExists(ctx, client, TopicAnalysis, 1, 1); err != nil {
		// Another instance may have raced us; the broker rejects duplicates.
		slog.Warn("topic creation failed",
			slog.String("topic", TopicAnalysis),
			slog.Any("error", err))
	}

	return &Producer{
		client:          client,
		transactionChan: make(chan struct{}, 1),
	}, nil
}

// EnqueueAnalysis enqueues one interview analysis task.
func (p *Producer) EnqueueAnalysis(ctx domain.Context, payload domain.AnalysisTaskPayload) (string, error) {
	return p.EnqueueAnalysisToTopic(ctx, payload, TopicAnalysis)
}

// EnqueueAnalysisToTopic enqueues to a specific topic so tests can isolate
// themselves on unique topics.
func (p *Producer) EnqueueAnalysisToTopic(ctx domain.Context, payload domain.AnalysisTaskPayload, topic string) (string, error) {
	select {
	case p.transactionChan <- struct{}{}:
		defer func() { <-p.transactionChan }()
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if err := p.client.BeginTransaction(); err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	record := &kgo.Record{
		Topic: topic,
		// Job ID as key keeps per-job ordering.
		Key:   []byte(payload.JobID),
		Value: b,
		Headers: []kgo.RecordHeader{
			{Key: "job_id", Value: []byte(payload.JobID)},
			{Key: "session_id", Value: []byte(payload.SessionID)},
			{Key: "interview_type", Value: []byte(payload.InterviewType)},
		},
	}

	e := kgo.AbortingFirstErrPromise(p.client)
	p.client.Produce(ctx, record, e.Promise())
	if err := e.Err(); err != nil {
		if abortErr := p.client.EndTransaction(ctx, kgo.TryAbort); abortErr != nil {
			slog.Error("failed to abort transaction", slog.Any("error", abortErr))
		}
		return "", fmt.Errorf("produce: %w", err)
	}

	if err := p.client.EndTransaction(ctx, kgo.TryCommit); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	observability.EnqueueJob("analysis")
	slog.Info("analysis task enqueued",
		slog.String("topic", topic),
		slog.String("job_id", payload.JobID))
	return payload.JobID, nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}
