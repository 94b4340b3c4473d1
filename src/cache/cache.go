// Package cache provides the bounded in-memory analysis cache: a
// fingerprint -> AnalysisResult map with TTL and configurable LRU/FIFO
// eviction.
//
// Two structures back the cache: a hash map for O(1) key lookup and a
// doubly linked list that maintains eviction order. The front of the list
// holds the newest (or, under LRU, most recently touched) entry; eviction
// always removes from the back. Because re-inserted and touched entries
// move to the front, entries sharing a timestamp keep their relative
// insertion order, which makes eviction deterministic.
//
// Expiration is lazy: an entry past its expiry is removed on the Get that
// finds it and counted as a miss, never returned as a hit. An optional
// background janitor additionally sweeps expired entries so rarely-read
// keys do not accumulate.
//
// The cache instance is created once at process start and lives until
// teardown. All operations serialize on a single mutex scoped to the
// instance, so concurrent Get/Put pairs cannot corrupt the size invariant
// or produce a torn read. Callers always receive value copies; internal
// entries are never exposed by reference.
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"

	"patrol-agent/src/contracts"
)

// Cache is the bounded fingerprint -> AnalysisResult store.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = newest / most recently used

	maxSize int
	ttl     time.Duration
	policy  Policy

	interval time.Duration
	stopChan chan struct{}
	stopOnce sync.Once

	hits      uint64
	misses    uint64
	writes    uint64
	evictions uint64

	now func() time.Time // injectable for TTL tests
}

// New creates a cache bounded to maxSize entries whose values live for ttl.
//
// maxSize 0 is a valid degenerate configuration: the cache never retains
// anything, every Put is a no-op and every Get misses. ttl 0 means entries
// expire immediately on insertion.
func New(maxSize int, ttl time.Duration, opts ...Option) *Cache {
	if maxSize < 0 {
		maxSize = 0
	}
	if ttl < 0 {
		ttl = 0
	}

	c := &Cache{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		maxSize:  maxSize,
		ttl:      ttl,
		policy:   PolicyLRU,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.startJanitor()

	return c
}

// Get returns a copy of the cached result for fingerprint, refreshing its
// recency under LRU. An expired entry is removed and reported as a miss.
func (c *Cache) Get(fp string) (contracts.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[fp]
	if !found {
		c.misses++
		return contracts.AnalysisResult{}, false
	}

	ent := elem.Value.(*entry)

	if ent.expired(c.now()) {
		c.removeElement(elem)
		c.misses++
		return contracts.AnalysisResult{}, false
	}

	if c.policy == PolicyLRU {
		ent.lastAccess = c.now()
		c.order.MoveToFront(elem)
	}

	c.hits++
	return ent.result, true
}

// Peek returns a copy of the cached result for fingerprint without
// recording a hit or a miss and without refreshing recency. Re-check
// paths that already counted their lookup use it so the stats reflect
// one miss per logical miss.
func (c *Cache) Peek(fp string) (contracts.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[fp]
	if !found {
		return contracts.AnalysisResult{}, false
	}

	ent := elem.Value.(*entry)
	if ent.expired(c.now()) {
		return contracts.AnalysisResult{}, false
	}
	return ent.result, true
}

// Put inserts or overwrites the result for fingerprint. When the key is new
// and the cache is at capacity, exactly one entry is evicted per the
// configured policy before insertion. Overwriting counts as a fresh
// insertion: the TTL restarts and the entry moves to the front of the
// eviction order.
func (c *Cache) Put(fp string, result contracts.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize == 0 {
		// Degenerate configuration: the cache never grows.
		return
	}

	now := c.now()

	if elem, found := c.entries[fp]; found {
		ent := elem.Value.(*entry)
		ent.result = result
		ent.insertedAt = now
		ent.lastAccess = now
		ent.expiresAt = now.Add(c.ttl)
		c.order.MoveToFront(elem)
		c.writes++
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushFront(&entry{
		key:        fp,
		result:     result,
		insertedAt: now,
		lastAccess: now,
		expiresAt:  now.Add(c.ttl),
	})
	c.entries[fp] = elem
	c.writes++

	if c.order.Len() > c.maxSize || c.order.Len() != len(c.entries) {
		// Unreachable given correct bookkeeping above.
		panic(fmt.Sprintf("cache invariant violated: list=%d map=%d max=%d",
			c.order.Len(), len(c.entries), c.maxSize))
	}
}

// Delete removes fingerprint from the cache if present.
func (c *Cache) Delete(fp string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.entries[fp]; found {
		c.removeElement(elem)
	}
}

// Clear drops all entries. Hit/miss counters are preserved; Clear is an
// administrative operation, not a statistical reset.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len reports the current number of entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Close stops the background janitor, if one is running.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

// deleteExpired sweeps the whole list removing expired entries.
// Invoked by the janitor; lazy expiration in Get covers hot keys.
func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*entry).expired(now) {
			c.removeElement(elem)
		}
		elem = prev
	}
}

func (c *Cache) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	delete(c.entries, elem.Value.(*entry).key)
}
