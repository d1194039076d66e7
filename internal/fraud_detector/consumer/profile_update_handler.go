package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/transaction-fraud-monitor/internal/domain/profile"
	"github.com/transaction-fraud-monitor/internal/metrics"
)

// ProfileUpdateHandler consumes the profile feed and keeps the reference
// table current. It is the table's only writer: per-key ordering within a
// feed partition carries over to last-write-wins order in the table.
type ProfileUpdateHandler struct {
	table   profile.Table
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewProfileUpdateHandler creates a new handler
func NewProfileUpdateHandler(logger *slog.Logger, table profile.Table, m *metrics.Metrics) *ProfileUpdateHandler {
	return &ProfileUpdateHandler{
		table:   table,
		metrics: m,
		logger:  logger,
	}
}

// HandleMessage applies one profile update to the reference table.
// Malformed updates are skipped and counted; they never stall the feed,
// and skipping returns nil so the offset is committed past them.
func (h *ProfileUpdateHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var p profile.AccountProfile
	if err := json.Unmarshal(value, &p); err != nil {
		h.logger.Error("Failed to unmarshal account profile, skipping record",
			"error", err,
			"message_key", string(key),
		)
		h.metrics.MalformedRecords.WithLabelValues(metrics.FeedProfile).Inc()
		return nil
	}

	if p.AccountID == "" {
		// The feed key is authoritative when the payload omits the account
		p.AccountID = string(key)
	}

	if err := p.Validate(); err != nil {
		h.logger.Error("Invalid account profile, skipping record",
			"error", err,
			"account_id", p.AccountID,
		)
		h.metrics.MalformedRecords.WithLabelValues(metrics.FeedProfile).Inc()
		return nil
	}

	if string(key) != "" && string(key) != p.AccountID {
		// Malformed like the branches above: applying it could corrupt the
		// wrong account's entry, so skip it, count it, and commit past it
		h.logger.Error("Profile feed key does not match payload accountId, skipping record",
			"message_key", string(key),
			"account_id", p.AccountID,
		)
		h.metrics.MalformedRecords.WithLabelValues(metrics.FeedProfile).Inc()
		return nil
	}

	h.table.Put(p)
	h.metrics.ProfileUpdates.Inc()
	h.metrics.ProfileTableSize.Set(float64(h.table.Len()))

	h.logger.Debug("Applied profile update",
		"account_id", p.AccountID,
		"risk_score", p.RiskScore,
		"transaction_limit", p.TransactionLimit,
	)
	return nil
}
