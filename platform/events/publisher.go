// Package events mirrors analytics events to Kafka. The file store remains
// the source of truth for aggregation; the mirror feeds external consumers
// and is best-effort relative to the user request.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/punchlinehq/punchline/internal/analytics"
	"github.com/punchlinehq/punchline/internal/logging"
)

// Publisher emits analytics events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	logger logging.Logger
}

// NewPublisher builds a Kafka publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger logging.Logger) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger.With(zap.String("component", "analytics_publisher")),
	}
}

// Publish sends one analytics event to the topic. Messages are keyed by
// event type so consumers see each type in append order.
func (p *Publisher) Publish(ctx context.Context, event analytics.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal analytics event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Type),
		Value: value,
		Time:  event.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("write analytics event: %w", err)
	}

	p.logger.Debug("analytics event mirrored",
		zap.String("event_type", string(event.Type)),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
