package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/grocerycompare/backend/internal/domain"
)

// DefaultMaxEntries bounds the cache when no size is configured
const DefaultMaxEntries = 128

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	Value      []domain.CatalogEntry
	Expiration time.Time // zero means no expiry
}

// MemoryCache is a thread-safe, size-bounded catalog cache.
// When full, the entry inserted first is evicted. Entries may also expire after a TTL.
type MemoryCache struct {
	data       map[string]cacheItem
	order      []string // keys in insertion order, oldest first
	maxEntries int
	ttl        time.Duration
	now        func() time.Time
	mutex      sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache holding at most maxEntries catalogs.
// A non-positive maxEntries uses DefaultMaxEntries; a zero ttl disables expiry.
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	return &MemoryCache{
		data:       make(map[string]cacheItem, maxEntries),
		order:      make([]string, 0, maxEntries),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get retrieves a copy of a cached catalog
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.CatalogEntry, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Check if expired
	if c.expired(item) {
		return nil, domain.ErrCacheMiss
	}

	return slices.Clone(item.Value), nil
}

// Set stores a copy of a catalog. Overwriting a key keeps its original
// insertion position; adding a new key to a full cache evicts the oldest one.
func (c *MemoryCache) Set(ctx context.Context, key string, entries []domain.CatalogEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item := cacheItem{Value: slices.Clone(entries)}
	if item.Value == nil {
		item.Value = []domain.CatalogEntry{}
	}
	if c.ttl > 0 {
		item.Expiration = c.now().Add(c.ttl)
	}

	if _, exists := c.data[key]; exists {
		c.data[key] = item
		return nil
	}

	for len(c.order) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.data, oldest)
	}

	c.data[key] = item
	c.order = append(c.order, key)
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.data[key]; !exists {
		return nil
	}
	delete(c.data, key)
	c.order = slices.DeleteFunc(c.order, func(k string) bool { return k == key })
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}

	return !c.expired(item), nil
}

// Size returns the current number of items in the cache, expired ones included
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem, c.maxEntries)
	c.order = make([]string, 0, c.maxEntries)
}

func (c *MemoryCache) expired(item cacheItem) bool {
	return !item.Expiration.IsZero() && c.now().After(item.Expiration)
}
