package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// cleanupInterval is how often expired analyses are evicted
const cleanupInterval = 10 * time.Minute

// MemoryCache keeps recent analyses in memory
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached analysis
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores an analysis with the given TTL (0 = default)
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes one entry
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all entries
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
