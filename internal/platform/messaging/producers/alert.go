package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-fraud-monitor/internal/config"
)

// AlertProducer publishes classified fraud records to the alert channel.
// Writes are synchronous with full acknowledgement and keyed by accountId,
// so per-key ordering follows the source partition of the originating
// transaction. A failed write is retried a bounded number of times inside
// Publish; when retries exhaust the error is returned to the caller so the
// consumer can leave the offset uncommitted. An alert is never dropped
// silently.
type AlertProducer struct {
	logger  *slog.Logger
	writer  KafkaWriter // Interface for testability
	topic   string
	retries int
	backoff time.Duration
}

// NewAlertProducer creates the alert channel producer and ensures the topic exists
func NewAlertProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*AlertProducer, error) {
	if cfg.AlertTopic == "" {
		return nil, fmt.Errorf("kafka alert topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for alert producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.AlertTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure alert topic %s exists: %w", cfg.AlertTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.AlertTopic,
		Balancer:     &kafka.Hash{}, // Keyed by accountId, preserves per-key ordering
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &AlertProducer{
		logger:  logger,
		writer:  writer,
		topic:   cfg.AlertTopic,
		retries: cfg.PublishRetries,
		backoff: cfg.PublishBackoff,
	}, nil
}

// Publish sends one classified record to the alert channel, retrying
// transient failures with backoff before surfacing the error
func (p *AlertProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal alert value: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	var lastErr error
	for attempt := 1; attempt <= p.retries; attempt++ {
		lastErr = p.writer.WriteMessages(ctx, msg)
		if lastErr == nil {
			p.logger.Debug("Published alert",
				"topic", p.topic,
				"key", key,
				"attempt", attempt,
			)
			return nil
		}

		p.logger.Error("Failed to publish alert, will retry",
			"topic", p.topic,
			"key", key,
			"attempt", attempt,
			"max_attempts", p.retries,
			"error", lastErr,
		)

		if ctx.Err() != nil {
			break
		}
		if attempt < p.retries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("alert publish to %s canceled after %d attempts: %w", p.topic, attempt, ctx.Err())
			case <-time.After(p.backoff):
			}
		}
	}

	return fmt.Errorf("failed to publish alert to %s after %d attempts: %w", p.topic, p.retries, lastErr)
}

func (p *AlertProducer) Close() error {
	p.logger.Info("Closing alert Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close alert kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
