package transaction

import (
	"errors"
	"time"
)

// Common validation errors
var (
	ErrEmptyTransactionID = errors.New("transactionId cannot be empty")
	ErrEmptyAccountID     = errors.New("accountId cannot be empty")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidTimestamp   = errors.New("timestampMillis must be positive")
)

// Type defines possible transaction operations
type Type string

const (
	TypeDeposit    Type = "DEPOSIT"
	TypeWithdrawal Type = "WITHDRAWAL"
)

// OccurredAtLayout is the human-readable timestamp format carried on the wire
const OccurredAtLayout = "2006-01-02 15:04:05"

// Event defines a single transaction message on the transaction feed.
// Events are immutable after creation; the JSON field names are the wire
// contract shared with the profile feed and the alert channel.
type Event struct {
	TransactionID   string  `json:"transactionId" bson:"transaction_id"`
	AccountID       string  `json:"accountId" bson:"account_id"`
	Amount          float64 `json:"amount" bson:"amount"`
	Type            Type    `json:"transactionType" bson:"transaction_type"`
	TimestampMillis int64   `json:"timestampMillis" bson:"timestamp_millis"`
	OccurredAt      string  `json:"occurredAt" bson:"occurred_at"`
}

// Validate checks that the event satisfies the boundary schema. A failing
// event is treated as malformed and skipped, never processed.
func (e *Event) Validate() error {
	if e.TransactionID == "" {
		return ErrEmptyTransactionID
	}
	if e.AccountID == "" {
		return ErrEmptyAccountID
	}
	if e.Amount < 0 {
		return ErrNegativeAmount
	}
	if e.Type != TypeDeposit && e.Type != TypeWithdrawal {
		return ErrInvalidType
	}
	if e.TimestampMillis <= 0 {
		return ErrInvalidTimestamp
	}
	return nil
}

// FormatOccurredAt derives the human-readable timestamp from epoch millis
func FormatOccurredAt(millis int64) string {
	return time.UnixMilli(millis).Format(OccurredAtLayout)
}
