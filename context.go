package cache

import (
	"context"
	"time"
)

type (
	skipReadCtxKey struct{}
	ttlCtxKey      struct{}
)

// WithTTL returns context with retention for cache writes.
func WithTTL(ctx context.Context, ttl time.Duration) context.Context {
	return context.WithValue(ctx, ttlCtxKey{}, ttl)
}

// TTL returns retention from context and true if it was set.
func TTL(ctx context.Context) (time.Duration, bool) {
	ttl, ok := ctx.Value(ttlCtxKey{}).(time.Duration)

	return ttl, ok
}

// WithSkipRead returns context with cache read ignored.
//
// With such context cache.Reader should always return ErrCacheItemNotFound discarding cached value.
func WithSkipRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipReadCtxKey{}, true)
}

// SkipRead returns true if cache read is ignored in context.
func SkipRead(ctx context.Context) bool {
	_, ok := ctx.Value(skipReadCtxKey{}).(bool)

	return ok
}

// retentionMillis resolves write retention from context with fallback.
func retentionMillis(ctx context.Context, fallback int64) int64 {
	if ttl, ok := TTL(ctx); ok {
		if ttl < 0 {
			return -1
		}

		return durationMillis(ttl)
	}

	return fallback
}
