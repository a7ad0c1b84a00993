// Package cache provides the TTL key/value stores backing the proxy's
// metadata, word-count, and suggestion namespaces. The memory backend
// is the default; a Redis backend can be selected per deployment.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL key/value store. A read past expiry behaves exactly
// like an absent key.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	Set(ctx context.Context, key string, value V)
	Has(ctx context.Context, key string) bool
	// Flush drops every entry in the namespace.
	Flush(ctx context.Context) error
	// Stats returns the live entry count.
	Stats(ctx context.Context) (int64, error)
}

// expiryTime converts a TTL into an absolute deadline; zero TTL means
// no expiry.
func expiryTime(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(ttl)
}
