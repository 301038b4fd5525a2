package cache

import (
	"os"
	"sync/atomic"
	"time"

	"github.com/ppiankov/syllogix/internal/errors"
)

// Stats counts where lookups were answered
type Stats struct {
	MemoryHits int64
	DiskHits   int64
	Misses     int64
}

// LayeredCache answers from memory first and falls back to disk, so
// structured answers survive restarts while hot entries stay in process.
// Disk hits are promoted into memory.
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache

	memoryHits atomic.Int64
	diskHits   atomic.Int64
	misses     atomic.Int64
}

// NewLayeredCache creates a memory layer (bounded by maxEntries) over a disk layer in diskDir
func NewLayeredCache(memoryTTL time.Duration, maxEntries int, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute, maxEntries),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get returns the value from the first layer holding it
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, ok := c.memory.Get(key); ok {
		c.memoryHits.Add(1)
		return val, true
	}
	val, ok := c.disk.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.diskHits.Add(1)
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set writes both layers. A disk failure is returned but the memory copy stays.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return errors.Wrap(err, "memory layer")
	}
	if err := c.disk.Set(key, value, ttl); err != nil {
		return errors.Wrap(err, "disk layer")
	}
	return nil
}

// Delete removes key from both layers; a key absent on disk is not an error
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	if err := c.disk.Delete(key); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "disk layer")
	}
	return nil
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	if err := c.disk.Clear(); err != nil {
		return errors.Wrap(err, "disk layer")
	}
	return nil
}

// Stats returns lookup counters since creation
func (c *LayeredCache) Stats() Stats {
	return Stats{
		MemoryHits: c.memoryHits.Load(),
		DiskHits:   c.diskHits.Load(),
		Misses:     c.misses.Load(),
	}
}
