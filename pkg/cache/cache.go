// Package cache is a small process-local cache used for reference data that
// changes rarely (the train roster). The interface leaves room for a
// distributed implementation without touching callers.
package cache

import (
	"context"
	"time"
)

// Cache is the minimal cache surface the service needs.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value with the given expiration.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Clear drops everything.
	Clear(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// LocalConfig configures the in-process implementation.
type LocalConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}
