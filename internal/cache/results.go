package cache

import (
	"sync"

	"github.com/hyperifyio/pagepeek/internal/extract"
)

// DefaultCapacity bounds the number of distinct keys kept when no capacity
// is configured.
const DefaultCapacity = 50

// Results is a bounded, insertion-ordered cache of extraction records keyed
// by the exact requested URL string. Keys are never normalized: "http://x"
// and "http://x/" are distinct entries.
//
// Eviction is by insertion order only, never access order. Overwriting an
// existing key replaces its value in place without moving the key and
// without evicting, since the number of distinct keys does not grow. This is
// deliberately not an LRU; switching to access-order eviction would change
// the observable eviction sequence.
//
// All operations are guarded by a mutex so the cache can sit behind a
// concurrent HTTP surface.
type Results struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*extract.Record
	keys     []string // insertion order, oldest first
}

// NewResults returns a cache holding at most capacity distinct keys.
// Non-positive capacities fall back to DefaultCapacity.
func NewResults(capacity int) *Results {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Results{
		capacity: capacity,
		entries:  make(map[string]*extract.Record),
	}
}

// Get returns the record stored under key, if any. Lookups have no side
// effects on eviction order.
func (c *Results) Get(key string) (*extract.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.entries[key]
	return rec, ok
}

// Put inserts or overwrites the record under key. When a new key pushes the
// cache over capacity, the single oldest-inserted key is evicted.
func (c *Results) Put(key string, rec *extract.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; exists {
		c.entries[key] = rec
		return
	}
	c.entries[key] = rec
	c.keys = append(c.keys, key)
	if len(c.keys) > c.capacity {
		oldest := c.keys[0]
		c.keys = c.keys[1:]
		delete(c.entries, oldest)
	}
}

// Values returns all records in insertion order, oldest first. Consumers
// wanting most-recent-first reverse the slice themselves.
func (c *Results) Values() []*extract.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*extract.Record, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k])
	}
	return out
}

// Len reports the number of distinct keys currently stored.
func (c *Results) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// Clear removes all entries.
func (c *Results) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*extract.Record)
	c.keys = nil
}
