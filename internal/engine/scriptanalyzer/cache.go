package scriptanalyzer

import (
	"hash/fnv"
	"sync"

	"github.com/ternarybob/bookscraper/internal/models"
)

// DefaultCapacity is the minimum analysis-cache capacity spec.md §3
// requires ("Capacity ≥ 256").
const DefaultCapacity = 256

// Cache is the bounded, FIFO-evicted, hash-keyed store backing the static
// script analyser (spec.md §3 "Analysis cache", §5 "capacity-based FIFO
// eviction is safe under concurrent insertion because the log is
// append-only from inside the write critical section").
type Cache struct {
	mu       sync.RWMutex
	entries  map[uint64]models.AnalysisVerdict
	order    []uint64
	capacity int

	hits, misses, evictions int64
}

func NewCache(capacity int) *Cache {
	if capacity < DefaultCapacity {
		capacity = DefaultCapacity
	}
	return &Cache{
		entries:  make(map[uint64]models.AnalysisVerdict, capacity),
		capacity: capacity,
	}
}

// Hash returns the 64-bit FNV-1a hash of a script source, the cache key.
func Hash(script string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(script))
	return h.Sum64()
}

func (c *Cache) Get(hash uint64) (models.AnalysisVerdict, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[hash]
	return v, ok
}

// Put inserts a verdict, evicting the oldest insertion when at capacity.
func (c *Cache) Put(hash uint64, verdict models.AnalysisVerdict) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[hash]; exists {
		c.entries[hash] = verdict
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		c.evictions++
	}

	c.entries[hash] = verdict
	c.order = append(c.order, hash)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) recordHit()  { c.mu.Lock(); c.hits++; c.mu.Unlock() }
func (c *Cache) recordMiss() { c.mu.Lock(); c.misses++; c.mu.Unlock() }

// Stats returns cumulative hit/miss/eviction counters (spec.md §4.3
// "Coverage metric").
func (c *Cache) Stats() (hits, misses, evictions int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, c.evictions
}
