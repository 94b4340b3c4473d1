package cache

import (
	"fmt"
	"strings"
)

// Policy selects which entry is evicted when the cache is full.
type Policy int

const (
	// PolicyLRU evicts the entry whose last access is oldest. Every
	// successful Get and every Put refreshes recency.
	PolicyLRU Policy = iota

	// PolicyFIFO evicts the entry whose insertion is oldest. Get never
	// changes ordering.
	PolicyFIFO
)

func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "LRU"
	case PolicyFIFO:
		return "FIFO"
	default:
		return "UNKNOWN"
	}
}

// ParsePolicy converts a configuration string ("LRU" or "FIFO", case
// insensitive) to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LRU", "":
		return PolicyLRU, nil
	case "FIFO":
		return PolicyFIFO, nil
	default:
		return PolicyLRU, fmt.Errorf("unknown eviction policy %q (want LRU or FIFO)", s)
	}
}

// evictOldest removes the entry at the back of the eviction order.
// Under LRU the back is the least recently used entry; under FIFO it is the
// earliest inserted. Must be called with the cache lock held.
func (c *Cache) evictOldest() {
	if elem := c.order.Back(); elem != nil {
		c.removeElement(elem)
		c.evictions++
	}
}
