package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validEvent() Event {
	return Event{
		TransactionID:   "3f0c57f2-1b4e-4e33-8a52-9f0a7d6a9b01",
		AccountID:       "ACC100000",
		Amount:          250.75,
		Type:            TypeWithdrawal,
		TimestampMillis: 1700000000000,
		OccurredAt:      "2023-11-14 22:13:20",
	}
}

func TestEvent_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Event)
		wantErr error
	}{
		{
			name:   "valid withdrawal",
			mutate: func(e *Event) {},
		},
		{
			name:   "valid deposit",
			mutate: func(e *Event) { e.Type = TypeDeposit },
		},
		{
			name:   "zero amount is allowed",
			mutate: func(e *Event) { e.Amount = 0 },
		},
		{
			name:    "empty transaction id",
			mutate:  func(e *Event) { e.TransactionID = "" },
			wantErr: ErrEmptyTransactionID,
		},
		{
			name:    "empty account id",
			mutate:  func(e *Event) { e.AccountID = "" },
			wantErr: ErrEmptyAccountID,
		},
		{
			name:    "negative amount",
			mutate:  func(e *Event) { e.Amount = -0.01 },
			wantErr: ErrNegativeAmount,
		},
		{
			name:    "unknown type",
			mutate:  func(e *Event) { e.Type = "TRANSFER" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "zero timestamp",
			mutate:  func(e *Event) { e.TimestampMillis = 0 },
			wantErr: ErrInvalidTimestamp,
		},
		{
			name:    "negative timestamp",
			mutate:  func(e *Event) { e.TimestampMillis = -5 },
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEvent()
			tt.mutate(&e)
			err := e.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFormatOccurredAt(t *testing.T) {
	millis := time.Date(2024, 3, 15, 9, 30, 0, 0, time.Local).UnixMilli()
	assert.Equal(t, "2024-03-15 09:30:00", FormatOccurredAt(millis))
}
