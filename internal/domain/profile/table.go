package profile

// Table is the materialized, compacted view of the profile feed: at most
// one entry per accountId, last write wins per key. Implementations must
// allow concurrent readers during writes without ever exposing a partially
// updated profile. Absence of a key is a valid result, not an error.
type Table interface {
	// Put upserts the profile for its accountId, replacing any prior value.
	Put(p AccountProfile)

	// Get returns the current profile for the account and whether one exists.
	Get(accountID string) (AccountProfile, bool)

	// Len returns the number of distinct accounts currently held.
	Len() int
}
