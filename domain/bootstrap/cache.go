package bootstrap

// Cache holds distributions that are reused after their interval has been
// computed. It belongs to a single result set and is keyed strictly by
// statistic. Evicting is advisory and only bounds peak memory.
type Cache struct {
	entries map[Statistic]Distribution
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[Statistic]Distribution)}
}

// Get returns the cached distribution for stat, if any
func (c *Cache) Get(stat Statistic) (Distribution, bool) {
	d, ok := c.entries[stat]
	return d, ok
}

// Put stores a distribution, replacing any previous one
func (c *Cache) Put(stat Statistic, d Distribution) {
	c.entries[stat] = d
}

// Evict drops the distribution for stat. Evicting a missing key is a no-op.
func (c *Cache) Evict(stat Statistic) {
	delete(c.entries, stat)
}

// EvictAll drops every cached distribution
func (c *Cache) EvictAll() {
	for stat := range c.entries {
		delete(c.entries, stat)
	}
}

// Len returns the number of cached distributions
func (c *Cache) Len() int { return len(c.entries) }

// Values returns the number of scalars held across all entries
func (c *Cache) Values() int {
	n := 0
	for _, d := range c.entries {
		n += len(d)
	}
	return n
}
