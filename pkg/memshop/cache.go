package memshop

import (
	"sync"

	"github.com/goliatone/go-storefront/pkg/storectx"
)

// Cache stores rendered output under keys, each entry carrying tags that
// invalidate it.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value string
	tags  []string
}

var _ storectx.CacheInvalidator = (*Cache)(nil)

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached value of key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry.value, ok
}

// Set stores value under key.
func (c *Cache) Set(key, value string, tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, tags: append([]string(nil), tags...)}
}

// Invalidate drops every entry tagged with one of tags.
func (c *Cache) Invalidate(tags ...string) {
	if len(tags) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		drop[tag] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		for _, tag := range entry.tags {
			if _, ok := drop[tag]; ok {
				delete(c.entries, key)
				break
			}
		}
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
