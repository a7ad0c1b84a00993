package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process TTL cache. Expired entries are treated as
// absent on read and swept by a background loop so a cold namespace
// does not pin memory between requests.
type Memory[V any] struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	items      map[string]memoryItem[V]
	done       chan struct{}
	closeOnce  sync.Once
}

type memoryItem[V any] struct {
	value      V
	expiresAt  time.Time
	accessedAt time.Time
}

// NewMemory creates a memory cache with the given TTL. maxEntries
// bounds the map when positive; the bounded key space of this service
// (a few hundred titles, short query prefixes) makes 0 acceptable.
func NewMemory[V any](ttl time.Duration, maxEntries int) *Memory[V] {
	if ttl < 0 {
		ttl = 0
	}
	c := &Memory[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[string]memoryItem[V]),
		done:       make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *Memory[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if c == nil {
		return zero, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		c.mu.Lock()
		if current, ok := c.items[key]; ok {
			if !current.expiresAt.IsZero() && time.Now().After(current.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
		return zero, false
	}
	return item.value, true
}

func (c *Memory[V]) Set(ctx context.Context, key string, value V) {
	if c == nil {
		return
	}
	now := time.Now()
	c.mu.Lock()
	if _, ok := c.items[key]; !ok && c.maxEntries > 0 && len(c.items) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.items[key] = memoryItem[V]{
		value:      value,
		expiresAt:  expiryTime(c.ttl),
		accessedAt: now,
	}
	c.mu.Unlock()
}

func (c *Memory[V]) Has(ctx context.Context, key string) bool {
	_, ok := c.Get(ctx, key)
	return ok
}

func (c *Memory[V]) Flush(ctx context.Context) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.items = make(map[string]memoryItem[V])
	c.mu.Unlock()
	return nil
}

func (c *Memory[V]) Stats(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}
	c.mu.Lock()
	c.pruneExpiredLocked(time.Now())
	n := int64(len(c.items))
	c.mu.Unlock()
	return n, nil
}

// Close stops the cleanup goroutine.
func (c *Memory[V]) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Memory[V]) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, item := range c.items {
		if first || item.accessedAt.Before(oldest) {
			oldestKey = k
			oldest = item.accessedAt
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}

func (c *Memory[V]) pruneExpiredLocked(now time.Time) {
	for key, item := range c.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

func (c *Memory[V]) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.pruneExpiredLocked(time.Now())
			c.mu.Unlock()
		}
	}
}
