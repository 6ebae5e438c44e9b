package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is an in-memory TTL cache keyed by string
type Cache[V any] struct {
	items map[string]entry[V]
	ttl   time.Duration
	mutex sync.RWMutex
	now   func() time.Time
}

// New creates a cache whose entries live for ttl. A ttl of zero disables caching.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		items: make(map[string]entry[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves an item from the cache
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	var zero V
	if !exists {
		return zero, false
	}

	if c.now().After(item.expiresAt) {
		c.mutex.Lock()
		// re-check, a Set may have refreshed it
		if current, ok := c.items[key]; ok && c.now().After(current.expiresAt) {
			delete(c.items, key)
		}
		c.mutex.Unlock()
		return zero, false
	}

	return item.value, true
}

// Set stores an item with the cache TTL
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Delete removes an item from the cache
func (c *Cache[V]) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.items, key)
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[V]) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items = make(map[string]entry[V])
}
