package producers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDLQProducer(writer KafkaWriter) *DLQProducer {
	return &DLQProducer{
		logger:   slog.Default(),
		writer:   writer,
		dlqTopic: "transaction_dlq",
	}
}

func TestDLQProducer_PublishToDLQ(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := newTestDLQProducer(mockWriter)

	original := []byte("{not valid json")
	mockWriter.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "ACC100000" {
			return false
		}
		var payload struct {
			OriginalKey   string `json:"original_key"`
			OriginalValue string `json:"original_value"`
			DLQReason     string `json:"dlq_reason"`
		}
		if err := json.Unmarshal(msgs[0].Value, &payload); err != nil {
			return false
		}
		return payload.OriginalValue == string(original) && payload.DLQReason == "unmarshal failed"
	})).Return(nil).Once()

	err := producer.PublishToDLQ(context.Background(), "ACC100000", original, "unmarshal failed")
	require.NoError(t, err)
	mockWriter.AssertExpectations(t)
}

func TestDLQProducer_WriteFailureSurfaces(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	producer := newTestDLQProducer(mockWriter)

	writeErr := errors.New("broker unreachable")
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(writeErr).Once()

	err := producer.PublishToDLQ(context.Background(), "ACC100000", []byte("bad"), "reason")
	require.Error(t, err)
	assert.ErrorIs(t, err, writeErr)
}

func TestDLQProducer_NilProducerIsSafe(t *testing.T) {
	var producer *DLQProducer

	err := producer.PublishToDLQ(context.Background(), "key", []byte("value"), "reason")
	assert.Error(t, err)
	assert.NoError(t, producer.Close())
}
