package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrol-agent/src/contracts"
)

func result(fp string) contracts.AnalysisResult {
	return contracts.AnalysisResult{
		Fingerprint: fp,
		RootCause:   "root cause for " + fp,
		AnalyzedAt:  time.Now().UnixMilli(),
	}
}

// fakeClock lets tests move cache time forward deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, maxSize int, ttl time.Duration, opts ...Option) (*Cache, *fakeClock) {
	t.Helper()
	c := New(maxSize, ttl, opts...)
	t.Cleanup(c.Close)
	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	c.now = clk.Now
	return c, clk
}

func TestGetMissThenHit(t *testing.T) {
	c, _ := newTestCache(t, 10, time.Hour)

	_, ok := c.Get("a")
	assert.False(t, ok, "empty cache should miss")

	c.Put("a", result("a"))
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Fingerprint)
	assert.Equal(t, "root cause for a", got.RootCause)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestPeekLeavesStatsAndRecencyAlone(t *testing.T) {
	c, clk := newTestCache(t, 2, time.Hour)

	_, ok := c.Peek("a")
	assert.False(t, ok)

	c.Put("a", result("a"))
	c.Put("b", result("b"))

	got, ok := c.Peek("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Fingerprint)

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)

	// Peek did not refresh "a"; it is still the LRU victim.
	c.Put("c", result("c"))
	_, ok = c.Peek("a")
	assert.False(t, ok)
	_, ok = c.Peek("b")
	assert.True(t, ok)

	// Expired entries are invisible to Peek too.
	clk.Advance(2 * time.Hour)
	_, ok = c.Peek("b")
	assert.False(t, ok)
}

func TestSizeNeverExceedsMax(t *testing.T) {
	const maxSize = 5
	c, _ := newTestCache(t, maxSize, time.Hour)

	for i := 0; i < 50; i++ {
		c.Put(fmt.Sprintf("fp-%d", i), result(fmt.Sprintf("fp-%d", i)))
		require.LessOrEqual(t, c.Len(), maxSize, "size invariant violated at put %d", i)
	}

	stats := c.Stats()
	assert.Equal(t, maxSize, stats.Size)
	assert.Equal(t, uint64(45), stats.Evictions, "one eviction per insertion beyond capacity")
}

func TestTTLBoundary(t *testing.T) {
	const ttl = 10 * time.Second
	c, clk := newTestCache(t, 10, ttl)

	c.Put("a", result("a"))

	clk.Advance(ttl - time.Millisecond)
	_, ok := c.Get("a")
	assert.True(t, ok, "entry should be a hit strictly before T+TTL")

	clk.Advance(time.Millisecond)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry should be a miss at exactly T+TTL")

	// The expired entry was lazily removed, not just hidden.
	assert.Equal(t, 0, c.Len())
}

func TestTTLZeroExpiresImmediately(t *testing.T) {
	c, _ := newTestCache(t, 10, 0)

	c.Put("a", result("a"))
	_, ok := c.Get("a")
	assert.False(t, ok, "TTL 0 means immediate expiry")
}

func TestLRUEvictionOrdering(t *testing.T) {
	c, clk := newTestCache(t, 2, time.Hour, WithPolicy(PolicyLRU))

	c.Put("A", result("A"))
	clk.Advance(time.Millisecond)
	c.Put("B", result("B"))
	clk.Advance(time.Millisecond)

	// Reading A makes B the least recently used.
	_, ok := c.Get("A")
	require.True(t, ok)
	clk.Advance(time.Millisecond)

	c.Put("C", result("C"))

	_, ok = c.Get("A")
	assert.True(t, ok, "A was recently read and must survive")
	_, ok = c.Get("C")
	assert.True(t, ok)
	_, ok = c.Get("B")
	assert.False(t, ok, "B was least recently used and must be evicted")
}

func TestFIFOEvictionOrdering(t *testing.T) {
	c, clk := newTestCache(t, 2, time.Hour, WithPolicy(PolicyFIFO))

	c.Put("A", result("A"))
	clk.Advance(time.Millisecond)
	c.Put("B", result("B"))
	clk.Advance(time.Millisecond)

	// Reads never change FIFO ordering.
	_, ok := c.Get("A")
	require.True(t, ok)

	c.Put("C", result("C"))

	_, ok = c.Get("A")
	assert.False(t, ok, "A was inserted first and must be evicted regardless of reads")
	_, ok = c.Get("B")
	assert.True(t, ok)
	_, ok = c.Get("C")
	assert.True(t, ok)
}

func TestEvictionTieBreakIsInsertionOrder(t *testing.T) {
	// All entries share one timestamp (the clock never advances), so
	// eviction must fall back to insertion order deterministically.
	c, _ := newTestCache(t, 3, time.Hour, WithPolicy(PolicyLRU))

	c.Put("first", result("first"))
	c.Put("second", result("second"))
	c.Put("third", result("third"))
	c.Put("fourth", result("fourth"))

	_, ok := c.Get("first")
	assert.False(t, ok, "earliest-inserted entry evicted first on timestamp tie")
	for _, fp := range []string{"second", "third", "fourth"} {
		_, ok := c.Get(fp)
		assert.True(t, ok, "%s should survive", fp)
	}
}

func TestMaxSizeZeroNeverRetains(t *testing.T) {
	c, _ := newTestCache(t, 0, time.Hour)

	c.Put("a", result("a"))
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	stats := c.Stats()
	assert.Equal(t, 0, stats.MaxSize)
	assert.Equal(t, float64(0), stats.Utilization)
}

func TestPutOverwriteRefreshesEntry(t *testing.T) {
	c, clk := newTestCache(t, 2, 10*time.Second)

	c.Put("a", result("a"))
	clk.Advance(8 * time.Second)

	updated := result("a")
	updated.RootCause = "updated root cause"
	c.Put("a", updated)

	// The overwrite restarted the TTL.
	clk.Advance(8 * time.Second)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "updated root cause", got.RootCause)

	// Overwriting never grows the cache.
	assert.Equal(t, 1, c.Len())
}

func TestExpiredEntryRemovedByJanitorSweep(t *testing.T) {
	c, clk := newTestCache(t, 10, time.Second)

	c.Put("a", result("a"))
	c.Put("b", result("b"))
	clk.Advance(2 * time.Second)

	c.deleteExpired()
	assert.Equal(t, 0, c.Len(), "sweep should remove expired entries without Get")

	// Removal by sweep is not an eviction.
	assert.Equal(t, uint64(0), c.Stats().Evictions)
}

func TestClear(t *testing.T) {
	c, _ := newTestCache(t, 10, time.Hour)

	c.Put("a", result("a"))
	c.Put("b", result("b"))
	_, _ = c.Get("a")

	c.Clear()
	assert.Equal(t, 0, c.Len())

	// Counters survive the administrative clear.
	assert.Equal(t, uint64(1), c.Stats().Hits)
}

func TestStatsSnapshot(t *testing.T) {
	c, _ := newTestCache(t, 4, time.Hour, WithPolicy(PolicyFIFO))

	c.Put("a", result("a"))
	c.Put("b", result("b"))
	_, _ = c.Get("a")
	_, _ = c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, uint64(2), stats.Writes)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, 4, stats.MaxSize)
	assert.Equal(t, "FIFO", stats.Policy)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
	assert.InDelta(t, 50.0, stats.Utilization, 1e-9)
}

func TestConcurrentAccess(t *testing.T) {
	// Real clock here: the fake clock is not what is under test and the
	// race detector needs genuinely concurrent Get/Put traffic.
	c := New(16, time.Hour)
	t.Cleanup(c.Close)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				fp := fmt.Sprintf("fp-%d", (g*7+i)%32)
				c.Put(fp, result(fp))
				c.Get(fp)
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 16)
}
