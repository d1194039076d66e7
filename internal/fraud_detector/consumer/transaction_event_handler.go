package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/transaction-fraud-monitor/internal/domain/transaction"
	"github.com/transaction-fraud-monitor/internal/fraud_detector/components"
	"github.com/transaction-fraud-monitor/internal/metrics"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
)

// TransactionEventHandler runs the per-record pipeline for the transaction
// feed: parse and validate at the boundary, enrich against the reference
// table, classify, and route positives to the alert channel. The pipeline
// does not deduplicate by transactionId: a redelivered event is classified
// again against the table state at reprocessing time, which is the defined
// at-least-once behavior.
type TransactionEventHandler struct {
	enricher *components.Enricher
	rule     components.RuleEvaluator
	alerts   producers.MessagePublisher
	dlq      producers.DeadLetterPublisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewTransactionEventHandler creates a new handler
func NewTransactionEventHandler(
	logger *slog.Logger,
	enricher *components.Enricher,
	rule components.RuleEvaluator,
	alerts producers.MessagePublisher,
	dlq producers.DeadLetterPublisher,
	m *metrics.Metrics,
) *TransactionEventHandler {
	return &TransactionEventHandler{
		enricher: enricher,
		rule:     rule,
		alerts:   alerts,
		dlq:      dlq,
		metrics:  m,
		logger:   logger,
	}
}

// HandleMessage processes one transaction record. Returning nil commits the
// offset; returning an error leaves it uncommitted for redelivery.
func (h *TransactionEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	h.metrics.TransactionsConsumed.Inc()

	var txn transaction.Event
	if err := json.Unmarshal(value, &txn); err != nil {
		return h.sendToDLQ(ctx, key, value, fmt.Sprintf("failed to unmarshal transaction event: %s", err.Error()))
	}

	if err := txn.Validate(); err != nil {
		return h.sendToDLQ(ctx, key, value, fmt.Sprintf("invalid transaction event: %s", err.Error()))
	}

	enriched := h.enricher.Enrich(&txn)
	if enriched.ProfileFound {
		h.metrics.Enriched.WithLabelValues(metrics.LookupHit).Inc()
	} else {
		h.metrics.Enriched.WithLabelValues(metrics.LookupMiss).Inc()
	}

	enriched.IsFraud = h.rule.Classify(enriched)

	h.logger.Debug("Classified transaction",
		"transaction_id", txn.TransactionID,
		"account_id", txn.AccountID,
		"amount", txn.Amount,
		"risk_score_at_join", enriched.RiskScoreAtJoinTime,
		"is_fraud", enriched.IsFraud,
	)

	if !enriched.IsFraud {
		return nil // Not suspicious, commit offset
	}

	// A classified-positive record must reach the alert channel; a failed
	// publish propagates so the offset stays uncommitted and the record is
	// redelivered rather than dropped.
	if err := h.alerts.Publish(ctx, txn.AccountID, enriched); err != nil {
		h.metrics.PublishFailures.Inc()
		h.logger.Error("Failed to publish fraud alert",
			"transaction_id", txn.TransactionID,
			"account_id", txn.AccountID,
			"error", err,
		)
		return fmt.Errorf("publishing alert for transaction %s failed: %w", txn.TransactionID, err)
	}

	h.metrics.AlertsPublished.Inc()
	h.logger.Info("Published fraud alert",
		"transaction_id", txn.TransactionID,
		"account_id", txn.AccountID,
		"amount", txn.Amount,
		"risk_score_at_join", enriched.RiskScoreAtJoinTime,
	)
	return nil
}

// sendToDLQ routes a malformed record to the dead letter topic. On DLQ
// success the offset is committed past the record; when the DLQ is
// unavailable the original error is surfaced so the record is not lost.
func (h *TransactionEventHandler) sendToDLQ(ctx context.Context, key []byte, value []byte, reason string) error {
	h.metrics.MalformedRecords.WithLabelValues(metrics.FeedTransaction).Inc()
	h.logger.Error("Malformed transaction record",
		"message_key", string(key),
		"reason", reason,
	)

	if h.dlq != nil {
		if dlqErr := h.dlq.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
			h.logger.Error("Failed to publish malformed record to DLQ",
				"dlq_error", dlqErr,
				"message_key", string(key),
			)
			return fmt.Errorf("malformed record could not be dead-lettered: %w", dlqErr)
		}
		// Message handled, commit offset
		return nil
	}

	// No DLQ configured: skip the record but keep the count
	return nil
}
