package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultHighWater is the entry count that triggers the lazy sweep.
const DefaultHighWater = 5000

type seenEntry struct {
	at  time.Time
	ttl time.Duration
}

// DedupCache is an in-process fingerprint cache. A fingerprint inside its TTL
// window suppresses repeats; the window is anchored at first sighting and a
// duplicate hit does not extend it. Eviction is a lazy sweep that runs when
// the map grows past highWater and drops only expired entries, so memory is
// bounded by highWater plus one ingestion burst, never at the cost of
// evicting a live entry.
type DedupCache struct {
	mu        sync.Mutex
	m         map[string]seenEntry
	highWater int
	now       func() time.Time
}

func NewDedupCache() *DedupCache {
	return &DedupCache{m: make(map[string]seenEntry), highWater: DefaultHighWater, now: time.Now}
}

// NewDedupCacheWithHighWater overrides the sweep trigger threshold.
func NewDedupCacheWithHighWater(highWater int) *DedupCache {
	c := NewDedupCache()
	if highWater > 0 {
		c.highWater = highWater
	}
	return c
}

// IsDuplicate reports whether key was seen within ttl. On a miss the key is
// recorded as seen now; check and record happen under one lock acquisition so
// two concurrent calls with the same key cannot both observe a miss.
func (c *DedupCache) IsDuplicate(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.m[key]; ok && now.Sub(e.at) < e.ttl {
		return true, nil
	}
	c.m[key] = seenEntry{at: now, ttl: ttl}

	if len(c.m) > c.highWater {
		c.sweepLocked(now)
	}
	return false, nil
}

// sweepLocked drops every expired entry. Caller holds c.mu.
func (c *DedupCache) sweepLocked(now time.Time) {
	for k, e := range c.m {
		if now.Sub(e.at) >= e.ttl {
			delete(c.m, k)
		}
	}
}

// Len returns the current entry count.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

func (c *DedupCache) Close() error { return nil }
