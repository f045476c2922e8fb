// Package cache provides byte-oriented caches for responses from external
// services such as the image lookup.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (for several API servers)
//   - [NullCache]: caches nothing
//
// Keys are plain strings; callers namespace them (for example "pexels:")
// and may hash user input with [Key]. Values are opaque bytes.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values under string keys with an optional TTL.
//
// Get returns (nil, false, nil) on a miss. Backend errors are returned
// separately from misses so callers can decide whether to degrade.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}
