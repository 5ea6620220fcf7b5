package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implements Cache with an in-process go-cache store.
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a new memory cache. A zero or negative defaultTTL means
// entries never expire, which is the right setting for memoized probability
// lookups: they only go stale when the model changes, and the model's owner
// calls Clear explicitly at that point.
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Memory) Get(key string) (any, bool) {
	return c.cache.Get(key)
}

// Set stores a value in the cache with the default TTL.
func (c *Memory) Set(key string, value any) {
	c.cache.SetDefault(key, value)
}

// Clear removes all values from the cache.
func (c *Memory) Clear() {
	c.cache.Flush()
}
