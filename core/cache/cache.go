package cache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// entry is a stored payload with an absolute expiry.
type entry struct {
	value   any
	expires time.Time
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.expires)
}

// Cache is a TTL key-value store for listing and search results.
// Keys are operation fingerprints; one folder mutation invalidates every
// cached listing touching the affected owner/path via substring match,
// so callers never track exact key sets.
type Cache struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	maxEntries int
}

// New creates a cache bounded to maxEntries live entries.
// A non-positive bound falls back to a sane default.
func New(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = 1024
	}
	return &Cache{
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
	}
}

// Get returns the cached value, or nil/false on miss or expiry.
// Expired entries are evicted on access.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if e.expired(time.Now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := c.entries[key]; ok && cur.expired(time.Now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// Set stores a value with a per-call TTL, evicting if over capacity.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{value: value, expires: now.Add(ttl)}
	if len(c.entries) > c.maxEntries {
		c.evictLocked(now)
	}
}

// Invalidate removes every key containing the given substring and returns
// the number of entries removed.
func (c *Cache) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.entries {
		if strings.Contains(key, pattern) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictLocked drops expired entries first, then the soonest-to-expire
// entries until the cache fits its capacity. Caller holds the write lock.
func (c *Cache) evictLocked(now time.Time) {
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
	if len(c.entries) <= c.maxEntries {
		return
	}

	type candidate struct {
		key     string
		expires time.Time
	}
	candidates := make([]candidate, 0, len(c.entries))
	for key, e := range c.entries {
		candidates = append(candidates, candidate{key: key, expires: e.expires})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].expires.Before(candidates[j].expires)
	})

	for _, cand := range candidates {
		if len(c.entries) <= c.maxEntries {
			break
		}
		delete(c.entries, cand.key)
	}
}

// Fingerprint joins the parts of an operation identity into a cache key.
func Fingerprint(parts ...string) string {
	return strings.Join(parts, "|")
}
