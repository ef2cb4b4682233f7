package cache

// SentinelError is an error.
type SentinelError string

const (
	// ErrCacheItemNotFound indicates missing or expired cache entry.
	ErrCacheItemNotFound = SentinelError("missing cache item")

	// ErrNegativeRetention indicates a write with retention below zero.
	ErrNegativeRetention = SentinelError("negative retention")

	// ErrNothingToInvalidate indicates no caches were added to Invalidator.
	ErrNothingToInvalidate = SentinelError("nothing to invalidate")

	// ErrAlreadyInvalidated indicates recent invalidation.
	ErrAlreadyInvalidated = SentinelError("already invalidated")
)

// Error implements error.
func (e SentinelError) Error() string {
	return string(e)
}
