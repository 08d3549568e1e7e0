// Package cache holds a short-lived Redis cache for citizen lookups. The
// TTL bounds how long sensitive registry data is retained by the console.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"dinardap-console/internal/registry"
)

// CitizenCache caches lookup responses keyed by cedula.
type CitizenCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// New builds a cache. ttl must be positive.
func New(client redis.Cmdable, ttl time.Duration) *CitizenCache {
	return &CitizenCache{client: client, ttl: ttl}
}

func key(cedula string) string {
	return "console:citizen:" + cedula
}

// Find returns the cached record, or nil on miss. Cache failures are
// reported so callers can log and fall through to the registry.
func (c *CitizenCache) Find(ctx context.Context, cedula string) (*registry.CitizenRecord, error) {
	raw, err := c.client.Get(ctx, key(cedula)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("citizen cache get: %w", err)
	}

	var record registry.CitizenRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		// Unreadable entries are dropped rather than surfaced.
		_ = c.client.Del(ctx, key(cedula)).Err()
		return nil, nil
	}
	return &record, nil
}

// Save stores a record under the retention TTL.
func (c *CitizenCache) Save(ctx context.Context, cedula string, record *registry.CitizenRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("citizen cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, key(cedula), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("citizen cache set: %w", err)
	}
	return nil
}
