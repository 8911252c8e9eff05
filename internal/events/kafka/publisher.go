// Package kafka publishes sale events to a Kafka topic for downstream
// indexers and UIs that subscribe to the notification stream rather than
// polling engine state.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"crowdsale/internal/domain"
	"crowdsale/internal/events"
)

// DefaultTopic is the topic sale events are published to.
const DefaultTopic = "sale_events"

// Publisher writes sale events to Kafka as JSON messages keyed by event ID.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic.
// An empty topic falls back to DefaultTopic.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Compile-time interface check.
var _ events.Sink = (*Publisher)(nil)

// Append publishes ev to the topic.
func (p *Publisher) Append(ctx context.Context, ev domain.SaleEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.EventID),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("write sale event: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
