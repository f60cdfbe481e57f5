package tenant

import (
	"context"
	"sync"
	"time"
)

// Cache stores resolved tenants keyed by tenant code. Implementations must
// be safe for concurrent use. Only directory lookups are ever cached;
// membership decisions are not cacheable through this interface at all.
type Cache interface {
	Get(ctx context.Context, code string) (*Tenant, bool)
	Set(ctx context.Context, code string, t *Tenant, ttl time.Duration)
	Delete(ctx context.Context, code string)
	Close() error
}

// memoryCache is a TTL-bounded in-memory cache with periodic sweeping.
type memoryCache struct {
	mu     sync.RWMutex
	items  map[string]memoryItem
	stop   chan struct{}
	closed sync.Once
}

type memoryItem struct {
	tenant    *Tenant
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory tenant cache. A background sweeper
// drops expired entries once a minute; Close stops it.
func NewMemoryCache() Cache {
	c := &memoryCache{
		items: make(map[string]memoryItem),
		stop:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *memoryCache) Get(ctx context.Context, code string) (*Tenant, bool) {
	c.mu.RLock()
	item, ok := c.items[code]
	c.mu.RUnlock()
	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.tenant, true
}

func (c *memoryCache) Set(ctx context.Context, code string, t *Tenant, ttl time.Duration) {
	c.mu.Lock()
	c.items[code] = memoryItem{tenant: t, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *memoryCache) Delete(ctx context.Context, code string) {
	c.mu.Lock()
	delete(c.items, code)
	c.mu.Unlock()
}

func (c *memoryCache) Close() error {
	c.closed.Do(func() { close(c.stop) })
	return nil
}

func (c *memoryCache) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for code, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, code)
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}

// noOpCache never stores anything; every request hits the directory.
// It is the default so caching stays opt-in.
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache.
func NewNoOpCache() Cache {
	return noOpCache{}
}

func (noOpCache) Get(ctx context.Context, code string) (*Tenant, bool)             { return nil, false }
func (noOpCache) Set(ctx context.Context, code string, t *Tenant, _ time.Duration) {}
func (noOpCache) Delete(ctx context.Context, code string)                          {}
func (noOpCache) Close() error                                                     { return nil }
