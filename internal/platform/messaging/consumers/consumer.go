package consumers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/transaction-fraud-monitor/internal/config"
)

type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Consumer defines the message queue consumer interface
type Consumer interface {
	Subscribe(ctx context.Context, handler MessageHandler, errs chan<- error) error
	Close() error
}

// messageReader wraps the kafka.Reader methods used by the consume loop
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConsumer implements Consumer using a Kafka consumer group. It pulls
// one record at a time and commits only after the handler succeeds, giving
// at-least-once delivery: after a restart the group resumes from the last
// committed offset and uncommitted records are redelivered.
type KafkaConsumer struct {
	reader  messageReader
	logger  *slog.Logger
	topic   string
	groupID string
}

// NewKafkaConsumer creates a consumer-group reader for the given topic.
// Each partition of the topic is delivered in order to exactly one group
// member; cross-partition ordering is not guaranteed.
func NewKafkaConsumer(logger *slog.Logger, cfg *config.KafkaConfig, topic string, groupID string) *KafkaConsumer {
	return &KafkaConsumer{
		logger:  logger,
		topic:   topic,
		groupID: groupID,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     []string{cfg.Brokers},
			Topic:       topic,
			GroupID:     groupID,
			MinBytes:    cfg.MinBytes,
			MaxBytes:    cfg.MaxBytes,
			MaxWait:     cfg.MaxWait,
			StartOffset: kafka.FirstOffset,
		}),
	}
}

// Subscribe starts consuming the topic and processes messages with the
// handler. A handler failure stops the loop and is reported on errs: the
// failed record stays uncommitted, so after a restart the group resumes
// from the last committed offset and redelivers it.
func (c *KafkaConsumer) Subscribe(ctx context.Context, handler MessageHandler, errs chan<- error) error {
	c.logger.Info("Subscribed to Kafka topic",
		"topic", c.topic,
		"group_id", c.groupID,
	)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Context canceled, stopping consumer",
					"topic", c.topic,
					"group_id", c.groupID,
				)
				return
			default:
				msg, err := c.reader.FetchMessage(ctx)
				if err != nil {
					c.logger.Error("Failed to fetch message from Kafka",
						"topic", c.topic,
						"group_id", c.groupID,
						"error", err,
					)
					// If the context was canceled, return
					if ctx.Err() != nil {
						return
					}
					// Otherwise, wait a bit and try again
					time.Sleep(time.Second)
					continue
				}

				c.logger.Debug("Received message from Kafka",
					"topic", msg.Topic,
					"partition", msg.Partition,
					"offset", msg.Offset,
					"key", string(msg.Key),
				)

				processingErr := handler(ctx, msg.Key, msg.Value)
				if processingErr != nil {
					// Committing any later offset would implicitly
					// acknowledge this one, so the loop must stop here
					// rather than skip ahead. The record stays uncommitted
					// and is redelivered after a restart.
					c.logger.Error("Failed to process message, stopping consumer",
						"topic", msg.Topic,
						"partition", msg.Partition,
						"offset", msg.Offset,
						"key", string(msg.Key),
						"error", processingErr,
					)
					select {
					case errs <- fmt.Errorf("processing record at %s[%d]@%d failed: %w", msg.Topic, msg.Partition, msg.Offset, processingErr):
					default:
					}
					return
				}

				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.logger.Error("Failed to commit message after successful processing",
						"topic", msg.Topic,
						"partition", msg.Partition,
						"offset", msg.Offset,
						"key", string(msg.Key),
						"error", err,
					)
				} else {
					c.logger.Debug("Message committed successfully",
						"topic", msg.Topic,
						"offset", msg.Offset,
						"key", string(msg.Key),
					)
				}
			}
		}
	}()

	return nil
}

func (c *KafkaConsumer) Close() error {
	if c.reader != nil {
		return c.reader.Close()
	}
	return nil
}
