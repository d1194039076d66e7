package log_shipper

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"
	"github.com/transaction-fraud-monitor/internal/metrics"
)

// Handler consumes the transaction feed and ships each raw message through
// a worker pool. HandleMessage always returns nil: the shipper commits past
// every record because losing a log copy is acceptable, stalling the feed
// is not.
type Handler struct {
	ingester Ingester
	pool     *ants.Pool
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewHandler creates a shipping handler backed by a worker pool of the given size
func NewHandler(logger *slog.Logger, ingester Ingester, poolSize int, m *metrics.Metrics) (*Handler, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	return &Handler{
		ingester: ingester,
		pool:     pool,
		metrics:  m,
		logger:   logger,
	}, nil
}

// HandleMessage submits one raw message for ingestion
func (h *Handler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	// Copy the payload: the consumer may reuse the buffer after we return
	payload := make([]byte, len(value))
	copy(payload, value)
	messageKey := string(key)

	err := h.pool.Submit(func() {
		if err := h.ingester.Ingest(ctx, payload); err != nil {
			h.metrics.LogShipFailures.Inc()
			h.logger.Error("Failed to ship transaction message to search index",
				"message_key", messageKey,
				"error", err,
			)
			return
		}
		h.metrics.LogsShipped.Inc()
		h.logger.Debug("Shipped transaction message to search index",
			"message_key", messageKey,
		)
	})
	if err != nil {
		// Pool saturated or released: drop the copy, keep the feed moving
		h.metrics.LogShipFailures.Inc()
		h.logger.Error("Failed to submit message to shipping pool",
			"message_key", messageKey,
			"error", err,
		)
	}

	return nil
}

// Shutdown releases the worker pool
func (h *Handler) Shutdown() {
	h.logger.Info("Shutting down log shipper worker pool", "running_workers", h.pool.Running())
	h.pool.Release()
}

// Running returns the number of active ingestion workers
func (h *Handler) Running() int {
	return h.pool.Running()
}
