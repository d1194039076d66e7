// Package generator produces synthetic transaction events at a fixed rate
// and seeds the profile feed with initial account risk metadata. It is a
// development collaborator of the pipeline, not part of the fraud core.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/transaction-fraud-monitor/internal/config"
	"github.com/transaction-fraud-monitor/internal/domain/transaction"
	"github.com/transaction-fraud-monitor/internal/platform/messaging/producers"
)

// accountNumberBase keeps generated accounts in the ACC1xxxxx key space
// shared with the seeded profiles
const accountNumberBase = 100000

// Generator emits one well-formed TransactionEvent per interval
type Generator struct {
	producer  producers.MessagePublisher
	interval  time.Duration
	maxAmount float64
	rng       *rand.Rand
	logger    *slog.Logger
}

// New creates a generator publishing through the given producer
func New(logger *slog.Logger, producer producers.MessagePublisher, cfg *config.GeneratorConfig) *Generator {
	return &Generator{
		producer:  producer,
		interval:  cfg.Interval,
		maxAmount: cfg.MaxAmount,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger,
	}
}

// Run produces transactions until the context is canceled
func (g *Generator) Run(ctx context.Context) {
	g.logger.Info("Starting transaction generator",
		"interval", g.interval.String(),
		"max_amount", g.maxAmount,
	)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			g.logger.Info("Transaction generator stopping due to context cancellation")
			return
		case <-ticker.C:
			event := g.newEvent()
			if err := g.producer.Publish(ctx, event.AccountID, event); err != nil {
				g.logger.Error("Failed to publish generated transaction",
					"transaction_id", event.TransactionID,
					"error", err,
				)
				continue
			}
			g.logger.Debug("Generated transaction",
				"transaction_id", event.TransactionID,
				"account_id", event.AccountID,
				"amount", event.Amount,
				"type", event.Type,
			)
		}
	}
}

func (g *Generator) newEvent() *transaction.Event {
	now := time.Now()

	txnType := transaction.TypeDeposit
	if g.rng.Intn(2) == 0 {
		txnType = transaction.TypeWithdrawal
	}

	return &transaction.Event{
		TransactionID:   uuid.New().String(),
		AccountID:       fmt.Sprintf("ACC%d", accountNumberBase+g.rng.Intn(900000)),
		Amount:          g.rng.Float64() * g.maxAmount,
		Type:            txnType,
		TimestampMillis: now.UnixMilli(),
		OccurredAt:      transaction.FormatOccurredAt(now.UnixMilli()),
	}
}
