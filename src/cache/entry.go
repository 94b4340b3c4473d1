package cache

import (
	"time"

	"patrol-agent/src/contracts"
)

// entry is a cached AnalysisResult plus the bookkeeping the eviction and
// TTL machinery needs. Entries are owned exclusively by the Cache and never
// leave it by reference; Get hands out the result value.
type entry struct {
	key        string
	result     contracts.AnalysisResult
	insertedAt time.Time
	lastAccess time.Time
	expiresAt  time.Time
}

// expired reports whether the entry's lifetime has elapsed at time now.
// The boundary is inclusive: an entry inserted at T with TTL S is expired
// for any read at T+S or later.
func (e *entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}
