package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/yigit/bluecollar/internal/pkg/metrics"
)

const (
	writeTimeout = 5 * time.Second
	// each pool worker blocks in WriteMessages until its batch flushes, so
	// the batch window bounds per-worker throughput
	batchTimeout = 10 * time.Millisecond
)

// KafkaConfig configures the kafka publisher
type KafkaConfig struct {
	Brokers     []string
	TopicPrefix string
	PoolSize    int
}

// KafkaPublisher writes events to kafka from a bounded goroutine pool so
// request handlers never wait on the broker. Events for one key share a
// partition, but pool workers write concurrently, so two events for the same
// key published close together may land out of order. Consumers order by
// occurredAt.
type KafkaPublisher struct {
	writer *kafka.Writer
	pool   *ants.Pool
	prefix string
	logger zerolog.Logger
}

// NewKafkaPublisher creates the writer and its worker pool
func NewKafkaPublisher(cfg KafkaConfig, logger zerolog.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher needs at least one broker")
	}
	size := cfg.PoolSize
	if size <= 0 {
		size = 16
	}

	pool, err := ants.NewPool(size, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher pool: %w", err)
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{}, // same key, same partition
			BatchTimeout:           batchTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
		pool:   pool,
		prefix: cfg.TopicPrefix,
		logger: logger.With().Str("component", "events").Logger(),
	}, nil
}

func (p *KafkaPublisher) topic(name string) string {
	if p.prefix == "" {
		return name
	}
	return p.prefix + "." + name
}

// Publish encodes the event and hands it to the pool. When the pool is
// saturated the event is dropped and counted.
func (p *KafkaPublisher) Publish(_ context.Context, topic, eventType, key string, data interface{}) {
	body, err := json.Marshal(Envelope{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("type", eventType).Msg("Failed to encode event")
		metrics.ObserveEvent(topic, "encode_error")
		return
	}

	msg := kafka.Message{
		Topic: p.topic(topic),
		Key:   []byte(key),
		Value: body,
	}

	err = p.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := p.writer.WriteMessages(ctx, msg); err != nil {
			p.logger.Warn().Err(err).Str("topic", msg.Topic).Str("type", eventType).Msg("Failed to publish event")
			metrics.ObserveEvent(topic, "error")
			return
		}
		metrics.ObserveEvent(topic, "ok")
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("topic", msg.Topic).Str("type", eventType).Msg("Event dropped")
		metrics.ObserveEvent(topic, "dropped")
	}
}

// Close waits for in-flight writes, then closes the writer
func (p *KafkaPublisher) Close() error {
	if err := p.pool.ReleaseTimeout(10 * time.Second); err != nil {
		p.logger.Warn().Err(err).Msg("Publisher pool did not drain in time")
	}
	return p.writer.Close()
}
