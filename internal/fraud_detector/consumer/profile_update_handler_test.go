package consumer

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transaction-fraud-monitor/internal/data/memory"
	"github.com/transaction-fraud-monitor/internal/metrics"
)

func newProfileHandler(t *testing.T) (*ProfileUpdateHandler, *memory.ProfileTable) {
	t.Helper()
	table := memory.NewProfileTable(slog.Default(), 4)
	return NewProfileUpdateHandler(slog.Default(), table, metrics.New("test")), table
}

func TestProfileUpdateHandler_AppliesUpdate(t *testing.T) {
	handler, table := newProfileHandler(t)

	value := []byte(`{"accountId":"ACC100001","riskScore":0.85,"transactionLimit":7500}`)
	err := handler.HandleMessage(context.Background(), []byte("ACC100001"), value)
	require.NoError(t, err)

	p, found := table.Get("ACC100001")
	require.True(t, found)
	assert.Equal(t, 0.85, p.RiskScore)
	assert.Equal(t, 7500.0, p.TransactionLimit)
}

func TestProfileUpdateHandler_LastWriteWins(t *testing.T) {
	handler, table := newProfileHandler(t)

	require.NoError(t, handler.HandleMessage(context.Background(), []byte("ACC100001"),
		[]byte(`{"accountId":"ACC100001","riskScore":0.2,"transactionLimit":5000}`)))
	require.NoError(t, handler.HandleMessage(context.Background(), []byte("ACC100001"),
		[]byte(`{"accountId":"ACC100001","riskScore":0.9,"transactionLimit":6000}`)))

	p, found := table.Get("ACC100001")
	require.True(t, found)
	assert.Equal(t, 0.9, p.RiskScore)
	assert.Equal(t, 1, table.Len())
}

func TestProfileUpdateHandler_KeyBackfillsMissingAccountID(t *testing.T) {
	handler, table := newProfileHandler(t)

	value := []byte(`{"riskScore":0.6,"transactionLimit":5000}`)
	err := handler.HandleMessage(context.Background(), []byte("ACC100002"), value)
	require.NoError(t, err)

	_, found := table.Get("ACC100002")
	assert.True(t, found)
}

func TestProfileUpdateHandler_MalformedRecordIsSkipped(t *testing.T) {
	handler, table := newProfileHandler(t)

	// Skipping returns nil so the feed is never stalled by one bad record
	err := handler.HandleMessage(context.Background(), []byte("ACC100003"), []byte("{broken"))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestProfileUpdateHandler_OutOfRangeRiskScoreIsSkipped(t *testing.T) {
	handler, table := newProfileHandler(t)

	value := []byte(`{"accountId":"ACC100004","riskScore":1.5,"transactionLimit":5000}`)
	err := handler.HandleMessage(context.Background(), []byte("ACC100004"), value)
	require.NoError(t, err)

	_, found := table.Get("ACC100004")
	assert.False(t, found)
}

func TestProfileUpdateHandler_KeyMismatchIsSkipped(t *testing.T) {
	handler, table := newProfileHandler(t)

	// Mismatched records are malformed: skipped and counted, never applied
	// to either account, and nil so the feed does not stall on them
	value := []byte(`{"accountId":"ACC100005","riskScore":0.5,"transactionLimit":5000}`)
	err := handler.HandleMessage(context.Background(), []byte("ACC999999"), value)
	require.NoError(t, err)

	assert.Equal(t, 0, table.Len())
	_, found := table.Get("ACC100005")
	assert.False(t, found)
	_, found = table.Get("ACC999999")
	assert.False(t, found)
}
