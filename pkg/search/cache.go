package search

import (
	"container/list"
	"math"
	"sync"
	"time"
)

// Cache is an LRU cache of search results with a TTL
type Cache struct {
	capacity int
	ttl      time.Duration
	mu       sync.Mutex
	entries  map[Query]*cacheEntry
	lru      *list.List
}

type cacheEntry struct {
	query     Query
	result    *Result
	timestamp time.Time
	element   *list.Element
}

// NewCache creates a cache holding at most capacity results for ttl each
func NewCache(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[Query]*cacheEntry),
		lru:      list.New(),
	}
}

// Get returns the cached result for q
func (c *Cache) Get(q Query) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[q]
	if !ok {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.timestamp) > c.ttl {
		c.removeLocked(q)
		return nil, false
	}

	c.lru.MoveToFront(entry.element)
	return entry.result, true
}

// Put stores the result for q, evicting the least recently used entry when full.
// Queries carrying NaN are not stored since they never compare equal.
func (c *Cache) Put(q Query, result *Result) {
	if c.capacity <= 0 || q.hasNaN() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[q]; ok {
		entry.result = result
		entry.timestamp = time.Now()
		c.lru.MoveToFront(entry.element)
		return
	}

	entry := &cacheEntry{
		query:     q,
		result:    result,
		timestamp: time.Now(),
	}
	entry.element = c.lru.PushFront(entry)
	c.entries[q] = entry

	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).query)
	}
}

// removeLocked removes an entry (must hold lock)
func (c *Cache) removeLocked(q Query) {
	if entry, ok := c.entries[q]; ok {
		c.lru.Remove(entry.element)
		delete(c.entries, q)
	}
}

func (q Query) hasNaN() bool {
	return math.IsNaN(q.Threshold) || math.IsNaN(q.Threshold2) || math.IsNaN(q.Lo) || math.IsNaN(q.Hi)
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Query]*cacheEntry)
	c.lru = list.New()
}

// Size returns the number of cached results
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// CacheStats contains cache statistics
type CacheStats struct {
	Size     int
	Capacity int
	Expired  int
	Hits     uint64
	Misses   uint64
}

// Stats reports size, capacity and how many entries have outlived the TTL
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	expired := 0
	if c.ttl > 0 {
		for _, entry := range c.entries {
			if time.Since(entry.timestamp) > c.ttl {
				expired++
			}
		}
	}

	return CacheStats{
		Size:     len(c.entries),
		Capacity: c.capacity,
		Expired:  expired,
	}
}

// Searcher runs queries against a read-only Series through a Cache.
// The Series must not be appended to while the Searcher is in use.
type Searcher struct {
	series Series
	cache  *Cache
	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewSearcher wraps s with a result cache. A nil cache disables caching.
func NewSearcher(s Series, cache *Cache) *Searcher {
	return &Searcher{series: s, cache: cache}
}

// Run returns the cached result for q or computes and caches it. The second
// result reports a cache hit.
func (cs *Searcher) Run(q Query) (*Result, bool, error) {
	if cs.cache != nil {
		if res, ok := cs.cache.Get(q); ok {
			cs.mu.Lock()
			cs.hits++
			cs.mu.Unlock()
			return res, true, nil
		}
	}

	cs.mu.Lock()
	cs.misses++
	cs.mu.Unlock()

	res, err := Run(cs.series, q)
	if err != nil {
		return nil, false, err
	}

	if cs.cache != nil {
		cs.cache.Put(q, res)
	}
	return res, false, nil
}

// Stats returns cache statistics including hit and miss counts
func (cs *Searcher) Stats() CacheStats {
	var stats CacheStats
	if cs.cache != nil {
		stats = cs.cache.Stats()
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	stats.Hits = cs.hits
	stats.Misses = cs.misses
	return stats
}

// HitRate returns the cache hit rate as a percentage
func (cs *Searcher) HitRate() float64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	total := cs.hits + cs.misses
	if total == 0 {
		return 0.0
	}
	return float64(cs.hits) / float64(total) * 100.0
}
