package memory

import (
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/transaction-fraud-monitor/internal/domain/profile"
)

// DefaultShards is used when the configured shard count is not positive
const DefaultShards = 32

// ProfileTable is a sharded in-memory implementation of profile.Table.
// Values are stored and returned by copy under a per-shard RWMutex, so a
// concurrent reader observes either the profile before or after a put,
// never a mix of fields. The table is compacted: one entry per accountId,
// last write wins in arrival order. Entries live until overwritten or the
// process restarts; there is no expiry.
type ProfileTable struct {
	shards []*tableShard
	logger *slog.Logger
}

type tableShard struct {
	mu   sync.RWMutex
	data map[string]profile.AccountProfile
}

// NewProfileTable creates a profile table with the given number of lock shards
func NewProfileTable(logger *slog.Logger, shardCount int) *ProfileTable {
	if shardCount <= 0 {
		shardCount = DefaultShards
	}

	shards := make([]*tableShard, shardCount)
	for i := range shards {
		shards[i] = &tableShard{data: make(map[string]profile.AccountProfile)}
	}

	logger.Info("profile table initialized", "shards", shardCount)

	return &ProfileTable{
		shards: shards,
		logger: logger,
	}
}

func (t *ProfileTable) shardFor(accountID string) *tableShard {
	h := fnv.New32a()
	h.Write([]byte(accountID))
	return t.shards[h.Sum32()%uint32(len(t.shards))]
}

// Put upserts the profile for its accountId, replacing any prior value
func (t *ProfileTable) Put(p profile.AccountProfile) {
	shard := t.shardFor(p.AccountID)
	shard.mu.Lock()
	shard.data[p.AccountID] = p
	shard.mu.Unlock()
}

// Get returns the current profile for the account and whether one exists.
// Absence is a valid result, not an error.
func (t *ProfileTable) Get(accountID string) (profile.AccountProfile, bool) {
	shard := t.shardFor(accountID)
	shard.mu.RLock()
	p, ok := shard.data[accountID]
	shard.mu.RUnlock()
	return p, ok
}

// Len returns the number of distinct accounts across all shards
func (t *ProfileTable) Len() int {
	total := 0
	for _, shard := range t.shards {
		shard.mu.RLock()
		total += len(shard.data)
		shard.mu.RUnlock()
	}
	return total
}
