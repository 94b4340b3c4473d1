package cache

import "time"

// Option configures a Cache at construction time.
type Option func(*Cache)

// WithPolicy selects the eviction policy. The default is LRU.
func WithPolicy(p Policy) Option {
	return func(c *Cache) {
		c.policy = p
	}
}

// WithCleanupInterval enables the background janitor that actively removes
// expired entries every d. When d <= 0 the janitor does not run and expired
// entries are only removed lazily on Get.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.interval = d
	}
}
