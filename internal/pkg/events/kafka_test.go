package events

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestNewKafkaPublisherRequiresBroker(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaConfig{}, zerolog.Nop()); err == nil {
		t.Fatal("expected an error without brokers")
	}
}

func TestKafkaPublisherWriterSettings(t *testing.T) {
	p, err := NewKafkaPublisher(KafkaConfig{
		Brokers:     []string{"localhost:9092"},
		TopicPrefix: "bluecollar",
		PoolSize:    4,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewKafkaPublisher: %v", err)
	}
	defer p.Close()

	// the default one second window would cap each pool worker at one event per second
	if p.writer.BatchTimeout <= 0 || p.writer.BatchTimeout > batchTimeout {
		t.Errorf("BatchTimeout = %v, want at most %v", p.writer.BatchTimeout, batchTimeout)
	}
	if got := p.topic(TopicMembership); got != "bluecollar.community.membership" {
		t.Errorf("topic = %q", got)
	}
	if p.pool.Cap() != 4 {
		t.Errorf("pool size = %d, want 4", p.pool.Cap())
	}
}
