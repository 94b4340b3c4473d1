package cache

// Stats is a read-only projection over cache state, recomputed on demand.
type Stats struct {
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Writes    uint64  `json:"writes"`
	Evictions uint64  `json:"evictions"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"max_size"`
	Policy    string  `json:"eviction_policy"`
	HitRate   float64 `json:"hit_rate"`
	// Utilization is Size/MaxSize as a percentage; zero when MaxSize is 0.
	Utilization float64 `json:"utilization_percent"`
}

// Stats returns a consistent snapshot taken under the cache lock.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Writes:    c.writes,
		Evictions: c.evictions,
		Size:      c.order.Len(),
		MaxSize:   c.maxSize,
		Policy:    c.policy.String(),
	}

	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	if c.maxSize > 0 {
		s.Utilization = float64(s.Size) / float64(c.maxSize) * 100
	}

	return s
}
