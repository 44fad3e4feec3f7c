package directory

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Cache stores looked-up store records keyed by store identifier.
type Cache interface {
	Get(ctx context.Context, storeID string) (*StoreRecord, bool)
	Set(ctx context.Context, storeID string, rec *StoreRecord, ttl time.Duration)
	Delete(ctx context.Context, storeID string)
	Close() error
}

// DefaultCacheSize caps the in-memory cache. One entry per store is tiny,
// so this covers far more stores than a single process realistically serves.
const DefaultCacheSize = 1000

type memoryEntry struct {
	storeID   string
	rec       *StoreRecord
	expiresAt time.Time
}

// memoryCache is a TTL cache with LRU eviction at capacity.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	maxSize int
}

// NewMemoryCache creates an in-memory record cache holding up to maxSize
// entries. Non-positive sizes fall back to DefaultCacheSize.
func NewMemoryCache(maxSize int) Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &memoryCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
	}
}

func (c *memoryCache) Get(ctx context.Context, storeID string) (*StoreRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[storeID]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.entries, storeID)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry.rec, true
}

func (c *memoryCache) Set(ctx context.Context, storeID string, rec *StoreRecord, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[storeID]; ok {
		entry := el.Value.(*memoryEntry)
		entry.rec = rec
		entry.expiresAt = time.Now().Add(ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*memoryEntry).storeID)
		}
	}
	c.entries[storeID] = c.order.PushFront(&memoryEntry{
		storeID:   storeID,
		rec:       rec,
		expiresAt: time.Now().Add(ttl),
	})
}

func (c *memoryCache) Delete(ctx context.Context, storeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[storeID]; ok {
		c.order.Remove(el)
		delete(c.entries, storeID)
	}
}

func (c *memoryCache) Close() error { return nil }

// noopCache disables caching. Useful in tests and for deployments that
// want every lookup to hit the control plane.
type noopCache struct{}

// NewNoopCache creates a cache that never stores anything.
func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(ctx context.Context, storeID string) (*StoreRecord, bool) { return nil, false }
func (noopCache) Set(ctx context.Context, storeID string, rec *StoreRecord, ttl time.Duration) {
}
func (noopCache) Delete(ctx context.Context, storeID string) {}
func (noopCache) Close() error                               { return nil }
