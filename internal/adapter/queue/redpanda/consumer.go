package redpanda

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"

	"github.com/prepforge/ai-prep-coach/internal/domain"
)

// Consumer polls analysis tasks from Redpanda and hands them to the
// analysis handler under a bounded worker pool.
type Consumer struct {
	client      *kgo.Client
	jobs        domain.JobRepository
	assessments domain.AssessmentRepository
	ai          domain.AIClient

	groupID        string
	topic          string
	maxConcurrency int
}

// NewConsumer constructs a consumer-group member for the analysis topic.
func NewConsumer(brokers []string, groupID string, jobs domain.JobRepository, assessments domain.AssessmentRepository, ai domain.AIClient, maxConcurrency int) (*Consumer, error) {
	return NewConsumerWithTopic(brokers, groupID, jobs, assessments, ai, maxConcurrency, TopicAnalysis)
}

// NewConsumerWithTopic constructs a Consumer bound to a specific topic so
// tests can isolate themselves.
func NewConsumerWithTopic(brokers []string, groupID string, jobs domain.JobRepository, assessments domain.AssessmentRepository, ai domain.AIClient, maxConcurrency int, topic string) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("no seed brokers provided")
	}
	if groupID == "" {
		return nil, fmt.Errorf("missing required group ID")
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}

	ctx := context.Background()
	tempClient, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return nil, fmt.Errorf("temp client: %w", err)
	}
	defer tempClient.Close()
	if err := createTopicIfNotExists(ctx, tempClient, topic, 1, 1); err != nil {
		slog.Warn("topic creation failed",
			slog.String("topic", topic),
			slog.Any("error", err))
	}

	kotelTracer := kotel.NewTracer(kotel.TracerProvider(otel.GetTracerProvider()))
	kotelService := kotel.NewKotel(kotel.WithTracer(kotelTracer))

	opts := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topic),
		kgo.FetchIsolationLevel(kgo.ReadCommitted()),
		kgo.WithHooks(kotelService.Hooks()...),
		kgo.DialTimeout(10 * time.Second),
		kgo.SessionTimeout(30 * time.Second),
		kgo.HeartbeatInterval(3 * time.Second),
		kgo.AutoCommitMarks(),
		kgo.AutoCommitInterval(1 * time.Second),
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("redpanda consumer: %w", err)
	}

	return &Consumer{
		client:         client,
		jobs:           jobs,
		assessments:    assessments,
		ai:             ai,
		groupID:        groupID,
		topic:          topic,
		maxConcurrency: maxConcurrency,
	}, nil
}

// Start polls until the context is cancelled. Records are processed
// concurrently up to maxConcurrency; a record is marked for commit only
// after its handler returns, success or not, so a malformed payload is
// never redelivered forever.
func (c *Consumer) Start(ctx context.Context) error {
	slog.Info("starting analysis consumer",
		slog.String("group_id", c.groupID),
		slog.String("topic", c.topic),
		slog.Int("max_concurrency", c.maxConcurrency))

	sem := make(chan struct{}, c.maxConcurrency)
	var wg sync.WaitGroup

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}
		fetches.EachError(func(t string, p int32, err error) {
			slog.Error("fetch error",
				slog.String("topic", t),
				slog.Int("partition", int(p)),
				slog.Any("error", err))
		})
		fetches.EachRecord(func(record *kgo.Record) {
			sem <- struct{}{}
			wg.Add(1)
			go func(record *kgo.Record) {
				defer func() {
					<-sem
					wg.Done()
				}()
				c.processRecord(ctx, record)
				c.client.MarkCommitRecords(record)
			}(record)
		})
	}

	wg.Wait()
	return ctx.Err()
}

func (c *Consumer) processRecord(ctx context.Context, record *kgo.Record) {
	var payload domain.AnalysisTaskPayload
	if err := json.Unmarshal(record.Value, &payload); err != nil {
		slog.Error("dropping malformed record",
			slog.String("topic", record.Topic),
			slog.Int64("offset", record.Offset),
			slog.Any("error", err))
		return
	}
	if err := HandleAnalysis(ctx, c.jobs, c.assessments, c.ai, payload); err != nil {
		slog.Error("analysis failed",
			slog.String("job_id", payload.JobID),
			slog.Any("error", err))
	}
}

// Close closes the consumer client.
func (c *Consumer) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
