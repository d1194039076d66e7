package alert

import (
	"context"
	"fmt"
	"time"

	"github.com/transaction-fraud-monitor/internal/domain/transaction"
)

// EnrichedTransaction is a transaction event joined with the risk metadata
// that was current at the instant of lookup, plus the classification
// outcome. It exists only for the duration of one pipeline traversal; the
// alert channel carries its JSON shape for records classified as fraud.
type EnrichedTransaction struct {
	transaction.Event

	RiskScoreAtJoinTime float64 `json:"riskScoreAtJoinTime" bson:"risk_score_at_join_time"`
	IsFraud             bool    `json:"isFraud" bson:"is_fraud"`

	// Join metadata used by rule strategies, not part of the wire shape.
	TransactionLimit float64 `json:"-" bson:"-"`
	ProfileFound     bool    `json:"-" bson:"-"`
}

// ErrAlertNotFound is returned when no archived alert matches a query
type ErrAlertNotFound struct {
	TransactionID string
}

func (e ErrAlertNotFound) Error() string {
	return fmt.Sprintf("alert not found for transaction %s", e.TransactionID)
}

// Record is an archived alert as persisted by the alert archiver
type Record struct {
	EnrichedTransaction `bson:",inline"`

	ArchivedAt time.Time `json:"archivedAt" bson:"archived_at"`
}

// Archive persists confirmed fraud alerts for operator review
type Archive interface {
	Save(ctx context.Context, enriched *EnrichedTransaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Record, error)
	GetByAccountID(ctx context.Context, accountID string, limit int64) ([]*Record, error)
	Count(ctx context.Context) (int64, error)
}
