package cache

import "sync"

// Cache is a generic thread-safe LRU cache with a hard limit.
// When an insertion exceeds the limit, the least recently used entry is
// evicted and passed to the eviction callback, if any.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*cacheEntry[V]
	limit   int
	tick    int64 // Monotonic access counter
	onEvict func(K, V)
	hits    uint64
	misses  uint64
}

// cacheEntry holds a cached value with its access time.
type cacheEntry[V any] struct {
	value V
	atime int64 // Access time (tick value)
}

// New creates a cache holding at most limit entries.
// A limit of 0 or less means unlimited.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries: make(map[K]*cacheEntry[V]),
		limit:   limit,
	}
}

// OnEvict sets a callback run, under the cache lock, for every entry
// removed by eviction or Clear.
func (c *Cache[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// Get retrieves a value from the cache.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.tick++
	entry.atime = c.tick
	return entry.value, true
}

// GetOrCreate returns the cached value or creates and stores it.
// create is called under the lock, so a key is never created twice.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	if entry, ok := c.entries[key]; ok {
		c.hits++
		entry.atime = c.tick
		return entry.value
	}

	c.misses++
	value := create()
	c.entries[key] = &cacheEntry[V]{value: value, atime: c.tick}
	for c.limit > 0 && len(c.entries) > c.limit {
		c.evictOldest()
	}
	return value
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for k, e := range c.entries {
			c.onEvict(k, e.value)
		}
	}
	c.entries = make(map[K]*cacheEntry[V])
	c.tick = 0
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Len: len(c.entries), Limit: c.limit, Hits: c.hits, Misses: c.misses}
}

// evictOldest removes the least recently used entry.
// Caller must hold c.mu.
func (c *Cache[K, V]) evictOldest() {
	var (
		oldest K
		atime  int64
		found  bool
	)
	for k, e := range c.entries {
		if !found || e.atime < atime {
			oldest, atime, found = k, e.atime, true
		}
	}
	if !found {
		return
	}
	e := c.entries[oldest]
	delete(c.entries, oldest)
	if c.onEvict != nil {
		c.onEvict(oldest, e.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Limit is the maximum number of entries, 0 if unlimited.
	Limit int
	// Hits is the number of lookups that found an entry.
	Hits uint64
	// Misses is the number of lookups that did not.
	Misses uint64
}
