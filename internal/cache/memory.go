package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process TTL cache with an optional entry bound
type MemoryCache struct {
	cache      *gocache.Cache
	maxEntries int
	mu         sync.Mutex // serialises eviction with insertion
}

// NewMemoryCache creates a new memory cache. maxEntries <= 0 means unbounded.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration, maxEntries int) *MemoryCache {
	return &MemoryCache{
		cache:      gocache.New(defaultTTL, cleanupInterval),
		maxEntries: maxEntries,
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		if b, ok := val.([]byte); ok {
			return b, true
		}
	}
	return nil, false
}

// Set stores a value; ttl 0 uses the default TTL.
// When the bound is reached, expired entries go first, then the entry
// closest to expiry.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxEntries > 0 {
		if _, exists := c.cache.Get(key); !exists && c.cache.ItemCount() >= c.maxEntries {
			c.cache.DeleteExpired()
			if c.cache.ItemCount() >= c.maxEntries {
				c.evictOldest()
			}
		}
	}

	c.cache.Set(key, value, ttl)
	return nil
}

func (c *MemoryCache) evictOldest() {
	var oldestKey string
	var oldest int64
	for k, item := range c.cache.Items() {
		// Expiration 0 means "never"; those are evicted last
		exp := item.Expiration
		if exp == 0 {
			continue
		}
		if oldestKey == "" || exp < oldest {
			oldestKey, oldest = k, exp
		}
	}
	if oldestKey == "" {
		for k := range c.cache.Items() {
			oldestKey = k
			break
		}
	}
	if oldestKey != "" {
		c.cache.Delete(oldestKey)
	}
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len returns the number of stored entries, including not yet purged expired ones
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
