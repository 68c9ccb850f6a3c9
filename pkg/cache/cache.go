// Package cache stores computed layouts between runs.
//
// Layout engines are slow compared to label sanitizing, and the same graph
// description is often laid out many times (re-running a document build,
// re-rendering a service response). Backends:
//
//   - [NullCache]: never stores anything
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP service
//
// Keys are opaque strings; use [LayoutKey] to derive them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of zero means the entry never expires.
type Cache interface {
	// Get returns the stored data and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
