package cache

import (
	"context"
	"log/slog"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed cache namespace. Values are stored as JSON
// with a Redis TTL for automatic expiry. Failures degrade to cache
// misses; the cache is best-effort.
type Redis[V any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis creates a Redis-backed cache under prefix+namespace.
func NewRedis[V any](client *redis.Client, prefix, namespace string, ttl time.Duration) *Redis[V] {
	if ttl < 0 {
		ttl = 0
	}
	return &Redis[V]{
		client: client,
		prefix: prefix + namespace + ":",
		ttl:    ttl,
	}
}

func (c *Redis[V]) key(k string) string {
	return c.prefix + k
}

func (c *Redis[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	if c == nil || c.client == nil {
		return zero, false
	}
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		slog.Warn("redis cache get failed", "key", key, "error", err)
		return zero, false
	}
	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("redis cache entry undecodable", "key", key, "error", err)
		return zero, false
	}
	return value, true
}

func (c *Redis[V]) Set(ctx context.Context, key string, value V) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("redis cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		slog.Warn("redis cache set failed", "key", key, "error", err)
	}
}

func (c *Redis[V]) Has(ctx context.Context, key string) bool {
	if c == nil || c.client == nil {
		return false
	}
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	return err == nil && n > 0
}

func (c *Redis[V]) Flush(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 200 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (c *Redis[V]) Stats(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	var count int64
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		count++
	}
	return count, iter.Err()
}
