package cache

import (
	"context"
	"time"
)

// Cache is the contract of the read-through cache layer.
// Implementations: Redis (production) and a no-op cache (tests, REDIS_ENABLED=false).
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false means a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with a TTL
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern such as "book:*"
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
