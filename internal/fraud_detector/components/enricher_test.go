package components

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transaction-fraud-monitor/internal/data/memory"
	"github.com/transaction-fraud-monitor/internal/domain/profile"
	"github.com/transaction-fraud-monitor/internal/domain/transaction"
)

func testEvent(accountID string, amount float64) *transaction.Event {
	return &transaction.Event{
		TransactionID:   "txn-1",
		AccountID:       accountID,
		Amount:          amount,
		Type:            transaction.TypeWithdrawal,
		TimestampMillis: 1700000000000,
		OccurredAt:      transaction.FormatOccurredAt(1700000000000),
	}
}

func TestEnricher_ProfilePresent(t *testing.T) {
	table := memory.NewProfileTable(slog.Default(), 4)
	table.Put(profile.AccountProfile{AccountID: "ACC100000", RiskScore: 0.9, TransactionLimit: 5000})

	enricher := NewEnricher(table, slog.Default())
	enriched := enricher.Enrich(testEvent("ACC100000", 9500))

	require.True(t, enriched.ProfileFound)
	assert.Equal(t, 0.9, enriched.RiskScoreAtJoinTime)
	assert.Equal(t, 5000.0, enriched.TransactionLimit)
	assert.Equal(t, "ACC100000", enriched.AccountID)
	assert.Equal(t, 9500.0, enriched.Amount)
}

func TestEnricher_MissingKeyPolicy(t *testing.T) {
	table := memory.NewProfileTable(slog.Default(), 4)
	enricher := NewEnricher(table, slog.Default())

	// A transaction is never dropped for lack of reference data; the
	// unknown account gets the default risk score.
	enriched := enricher.Enrich(testEvent("ACC999999", 20000))

	assert.False(t, enriched.ProfileFound)
	assert.Equal(t, UnknownAccountRiskScore, enriched.RiskScoreAtJoinTime)
	assert.Equal(t, 0.0, enriched.TransactionLimit)
}

func TestEnricher_ObservesLatestUpdate(t *testing.T) {
	table := memory.NewProfileTable(slog.Default(), 4)
	enricher := NewEnricher(table, slog.Default())

	// Two profile updates arrive before the transaction is processed; the
	// join observes the second one.
	table.Put(profile.AccountProfile{AccountID: "ACC100010", RiskScore: 0.2})
	table.Put(profile.AccountProfile{AccountID: "ACC100010", RiskScore: 0.8})

	enriched := enricher.Enrich(testEvent("ACC100010", 100))
	assert.Equal(t, 0.8, enriched.RiskScoreAtJoinTime)
}

func TestEnricher_DoesNotMutateTable(t *testing.T) {
	table := memory.NewProfileTable(slog.Default(), 4)
	enricher := NewEnricher(table, slog.Default())

	enricher.Enrich(testEvent("ACC100020", 100))

	_, found := table.Get("ACC100020")
	assert.False(t, found)
	assert.Equal(t, 0, table.Len())
}
