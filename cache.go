package cache

import (
	"context"
	"time"
)

// DefaultRetention is used by context-aware writers when neither context nor config define retention.
const DefaultRetention = 5 * time.Minute

// Metric names.
const (
	MetricHit     = "cache_hit"
	MetricMiss    = "cache_miss"
	MetricWrite   = "cache_write"
	MetricExpired = "cache_expired"
	MetricItems   = "cache_items"
	MetricBuild   = "cache_build"
	MetricFailed  = "cache_failed"
)

// Reader reads from cache.
type Reader interface {
	// Read returns cached value or ErrCacheItemNotFound for missing or expired entry.
	Read(ctx context.Context, key string) (interface{}, error)
}

// Writer writes to cache.
type Writer interface {
	// Write stores value in cache with a given key.
	//
	// Retention is taken from context (see WithTTL) or from writer configuration.
	Write(ctx context.Context, key string, value interface{}) error
}

// ReadWriter reads from and writes to cache.
type ReadWriter interface {
	Reader
	Writer
}

// Walker calls function for every live entry in cache and fails on first error returned by that function.
//
// Count of processed entries is returned.
type Walker interface {
	Walk(func(key string, value interface{}) error) (int, error)
}
