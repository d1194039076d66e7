// Package alert_archiver consumes the alert channel and persists every
// confirmed fraud alert for operator review.
package alert_archiver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/transaction-fraud-monitor/internal/domain/alert"
	"github.com/transaction-fraud-monitor/internal/metrics"
)

// Handler persists alert channel records into the archive
type Handler struct {
	archive alert.Archive
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHandler creates a new archiving handler
func NewHandler(logger *slog.Logger, archive alert.Archive, m *metrics.Metrics) *Handler {
	return &Handler{
		archive: archive,
		metrics: m,
		logger:  logger,
	}
}

// HandleMessage archives one alert. A persistence failure propagates so the
// offset stays uncommitted and the alert is redelivered; an unparseable
// alert is skipped since the channel only carries records this system
// produced itself.
func (h *Handler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var enriched alert.EnrichedTransaction
	if err := json.Unmarshal(value, &enriched); err != nil {
		h.logger.Error("Failed to unmarshal alert record, skipping",
			"error", err,
			"message_key", string(key),
		)
		return nil
	}

	if err := h.archive.Save(ctx, &enriched); err != nil {
		h.logger.Error("Failed to archive alert",
			"transaction_id", enriched.TransactionID,
			"account_id", enriched.AccountID,
			"error", err,
		)
		return fmt.Errorf("archiving alert for transaction %s failed: %w", enriched.TransactionID, err)
	}

	h.metrics.AlertsArchived.Inc()
	h.logger.Info("Archived fraud alert",
		"transaction_id", enriched.TransactionID,
		"account_id", enriched.AccountID,
		"amount", enriched.Amount,
	)
	return nil
}
