package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"refine/internal/port"
)

// ModTimeCache memoizes mod-time lookups for a single pipeline
// invocation. Lookups sharing a key are coalesced: concurrent requesters
// join the in-flight call instead of issuing duplicate stats. The cache
// is constructed fresh per invocation and never outlives it.
type ModTimeCache struct {
	src     port.ModTimeSource
	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	t  time.Time
	ok bool
}

// NewModTimeCache wraps src with per-invocation memoization.
func NewModTimeCache(src port.ModTimeSource) *ModTimeCache {
	return &ModTimeCache{
		src:     src,
		entries: make(map[string]entry),
	}
}

// Lookup resolves the mod time for path under the given cache key.
// Returns ok=false when the source cannot resolve the path; failures are
// cached like successes so each key is looked up at most once.
func (c *ModTimeCache) Lookup(key, path string) (time.Time, bool) {
	c.mu.RLock()
	e, hit := c.entries[key]
	c.mu.RUnlock()
	if hit {
		return e.t, e.ok
	}

	v, _, _ := c.group.Do(key, func() (interface{}, error) {
		t, err := c.src.ModTime(path)
		e := entry{t: t, ok: err == nil}
		c.mu.Lock()
		c.entries[key] = e
		c.mu.Unlock()
		return e, nil
	})
	e = v.(entry)
	return e.t, e.ok
}
