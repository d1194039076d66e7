package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-fraud-monitor/internal/config"
)

// EventProducer writes keyed JSON records to a feed topic. It is used by
// the transaction generator and the profile seeder; writes are asynchronous
// for throughput since a lost synthetic record has no downstream guarantee
// to honor.
type EventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewEventProducer creates a feed producer and ensures its topic exists
func NewEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig, topic string, numPartitions int) (*EventProducer, error) {
	if topic == "" {
		return nil, fmt.Errorf("kafka feed topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for feed producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, topic, numPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure feed topic %s exists: %w", topic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", topic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", topic, "count", len(messages))
			}
		},
	}

	return &EventProducer{
		logger: logger,
		writer: writer,
		topic:  topic,
	}, nil
}

// Publish writes one keyed record to the feed
func (p *EventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal feed record: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish feed record",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish record to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published feed record",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *EventProducer) Close() error {
	p.logger.Info("Closing feed Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
