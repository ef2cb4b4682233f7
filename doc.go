// Package cache provides an aged in-memory cache with lazy expiration.
//
// Every entry carries its own retention window. Once the window elapses the entry
// becomes invisible and is unlinked by the next operation that touches the cache.
//
// Features:
//
//   - Lazy expiration, no background goroutines or timers.
//   - Injectable TimeSource for deterministic tests and simulations.
//   - Mutex-guarded and sharded wrappers for concurrent use.
//   - Context-aware ReadWriter contract with per-write retention.
//   - Read-through Loader with deduplicated builds and cached build failures.
//   - Allows logging, stats collection.
package cache
