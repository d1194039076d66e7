package memory

import (
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/transaction-fraud-monitor/internal/domain/profile"
)

func newTestTable(t *testing.T, shards int) *ProfileTable {
	t.Helper()
	return NewProfileTable(slog.Default(), shards)
}

func TestProfileTable_PutGet(t *testing.T) {
	table := newTestTable(t, 8)

	p := profile.AccountProfile{AccountID: "ACC100000", RiskScore: 0.9, TransactionLimit: 5000}
	table.Put(p)

	got, found := table.Get("ACC100000")
	require.True(t, found)
	assert.Equal(t, p, got)
}

func TestProfileTable_GetMissingKey(t *testing.T) {
	table := newTestTable(t, 8)

	_, found := table.Get("ACC999999")
	assert.False(t, found, "absence is a valid result, not an error")
}

func TestProfileTable_LastWriteWins(t *testing.T) {
	table := newTestTable(t, 8)

	// Two sequential updates for the same account: the second replaces the
	// first entirely, the table never accumulates history.
	table.Put(profile.AccountProfile{AccountID: "ACC100000", RiskScore: 0.2, TransactionLimit: 1000})
	table.Put(profile.AccountProfile{AccountID: "ACC100000", RiskScore: 0.8, TransactionLimit: 7000})

	got, found := table.Get("ACC100000")
	require.True(t, found)
	assert.Equal(t, 0.8, got.RiskScore)
	assert.Equal(t, 7000.0, got.TransactionLimit)
	assert.Equal(t, 1, table.Len())
}

func TestProfileTable_Len(t *testing.T) {
	table := newTestTable(t, 4)

	for i := 0; i < 50; i++ {
		table.Put(profile.AccountProfile{
			AccountID: fmt.Sprintf("ACC%06d", 100000+i),
			RiskScore: 0.5,
		})
	}
	assert.Equal(t, 50, table.Len())

	// Overwrites do not grow the table
	table.Put(profile.AccountProfile{AccountID: "ACC100000", RiskScore: 0.9})
	assert.Equal(t, 50, table.Len())
}

func TestProfileTable_DefaultShardCount(t *testing.T) {
	table := NewProfileTable(slog.Default(), 0)
	assert.Len(t, table.shards, DefaultShards)
}

// TestProfileTable_ConcurrentReadersAndWriters exercises the concurrent
// read/write model: many readers during writes must always observe a
// complete profile, either the value before a put or after it, never a mix.
func TestProfileTable_ConcurrentReadersAndWriters(t *testing.T) {
	table := newTestTable(t, 16)

	const accounts = 20
	const iterations = 200

	var wg sync.WaitGroup

	// One writer per key, matching the one-writer-per-partition model
	for a := 0; a < accounts; a++ {
		wg.Add(1)
		go func(a int) {
			defer wg.Done()
			accountID := fmt.Sprintf("ACC%06d", 100000+a)
			for i := 1; i <= iterations; i++ {
				score := float64(i) / float64(iterations)
				table.Put(profile.AccountProfile{
					AccountID:        accountID,
					RiskScore:        score,
					TransactionLimit: score * 10000,
				})
			}
		}(a)
	}

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				for a := 0; a < accounts; a++ {
					accountID := fmt.Sprintf("ACC%06d", 100000+a)
					p, found := table.Get(accountID)
					if !found {
						continue
					}
					// Fields written together must be read together
					assert.InDelta(t, p.RiskScore*10000, p.TransactionLimit, 1e-9,
						"torn read: riskScore and transactionLimit from different puts")
				}
			}
		}()
	}

	wg.Wait()

	for a := 0; a < accounts; a++ {
		accountID := fmt.Sprintf("ACC%06d", 100000+a)
		p, found := table.Get(accountID)
		require.True(t, found)
		assert.Equal(t, 1.0, p.RiskScore, "final value must be the last write")
	}
}
