package driver

import (
	"sync"

	"github.com/kirrishima/FluentSettings/internal/project"
)

// Cache memoizes per-group results by digest. Get fills out and reports
// whether the key was present.
type Cache interface {
	Get(key project.Digest, out *CacheEntry) (bool, error)
	Put(key project.Digest, entry *CacheEntry) error
}

// MemoryCache keeps entries for the lifetime of the process; watch mode
// reuses one across runs.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[project.Digest]CacheEntry
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache with the given capacity hint.
func NewMemoryCache(capHint int) *MemoryCache {
	return &MemoryCache{entries: make(map[project.Digest]CacheEntry, capHint)}
}

func (c *MemoryCache) Get(key project.Digest, out *CacheEntry) (bool, error) {
	c.mu.RLock()
	rec, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	*out = rec
	return true, nil
}

func (c *MemoryCache) Put(key project.Digest, entry *CacheEntry) error {
	if entry == nil {
		return nil
	}
	c.mu.Lock()
	c.entries[key] = *entry
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
