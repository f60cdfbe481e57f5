package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rtapi/gateway/pkg/tenant"
)

const keyPrefix = "tenant:code:"

// RedisTenantCache implements tenant.Cache on Redis, so multiple gateway
// instances share one directory cache. Entries are JSON-encoded tenants
// keyed by code with a server-side TTL; Redis expiry is the staleness
// bound. Failures degrade to cache misses, never to request failures.
type RedisTenantCache struct {
	client *redis.Client
}

// NewRedisTenantCache creates a tenant cache on the given client.
func NewRedisTenantCache(client *redis.Client) *RedisTenantCache {
	return &RedisTenantCache{client: client}
}

func (c *RedisTenantCache) Get(ctx context.Context, code string) (*tenant.Tenant, bool) {
	data, err := c.client.Get(ctx, keyPrefix+code).Bytes()
	if err != nil {
		return nil, false
	}
	var t tenant.Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		// Corrupt entry: drop it and fall through to the directory.
		c.client.Del(ctx, keyPrefix+code)
		return nil, false
	}
	return &t, true
}

func (c *RedisTenantCache) Set(ctx context.Context, code string, t *tenant.Tenant, ttl time.Duration) {
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	c.client.Set(ctx, keyPrefix+code, data, ttl)
}

func (c *RedisTenantCache) Delete(ctx context.Context, code string) {
	c.client.Del(ctx, keyPrefix+code)
}

func (c *RedisTenantCache) Close() error {
	return c.client.Close()
}
