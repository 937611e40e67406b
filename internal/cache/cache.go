// Package cache memoizes pipeline results per (serviceKey, timeBucket).
// Buckets give coarse TTL expiry without per-entry timers: entries from
// an older bucket simply stop matching and are swept opportunistically.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/data-tales/datasources/internal/domain"
)

type entry struct {
	bucket   int64
	result   *domain.ServiceResult
	lastUsed time.Time
}

// ResultCache is a bounded in-memory result cache. When the capacity is
// exceeded the least-recently-used entry is evicted. Only successful
// results are ever stored; failure isolation is the caller's contract.
type ResultCache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func New(ttl time.Duration, capacity int) *ResultCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if capacity < 1 {
		capacity = 1
	}
	return &ResultCache{
		entries:  make(map[string]*entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// WithClock replaces the clock, for tests.
func (c *ResultCache) WithClock(now func() time.Time) *ResultCache {
	c.now = now
	return c
}

// Bucket returns the current TTL bucket: floor(unix / ttlSeconds).
func (c *ResultCache) Bucket() int64 {
	return c.now().Unix() / int64(c.ttl.Seconds())
}

// Get returns the result stored for serviceKey in the current bucket.
func (c *ResultCache) Get(serviceKey string) (*domain.ServiceResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[entryKey(serviceKey, c.Bucket())]
	if !ok {
		return nil, false
	}
	e.lastUsed = c.now()
	return e.result, true
}

// Put stores a successful result under the current bucket and evicts
// the least-recently-used entry once the capacity is exceeded.
func (c *ResultCache) Put(serviceKey string, result *domain.ServiceResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.Bucket()
	c.entries[entryKey(serviceKey, bucket)] = &entry{
		bucket:   bucket,
		result:   result,
		lastUsed: c.now(),
	}
	for len(c.entries) > c.capacity {
		c.evictOldest()
	}
}

// Sweep drops entries from past buckets. Expired entries would never
// match a Get again, this just frees the memory early.
func (c *ResultCache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.Bucket()
	for key, e := range c.entries {
		if e.bucket != current {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of stored entries.
func (c *ResultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured bucket width.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// evictOldest removes the least-recently-used entry (lock held).
func (c *ResultCache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time

	for key, e := range c.entries {
		if oldestKey == "" || e.lastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = e.lastUsed
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

func entryKey(serviceKey string, bucket int64) string {
	return fmt.Sprintf("%s@%d", serviceKey, bucket)
}
