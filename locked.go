package cache

import (
	"context"
	"sync"

	"github.com/bool64/ctxd"
	"github.com/puzpuzpuz/xsync"
)

// Stats is a snapshot of Locked cache counters.
type Stats struct {
	Hits     int64
	Misses   int64
	Writes   int64
	Rejected int64
}

// Locked is an Aged cache guarded by a single mutex, safe for concurrent use.
//
// Every operation may unlink expired entries, so there is no read lock.
type Locked[K comparable, V any] struct {
	mu   sync.Mutex
	aged *Aged[K, V]

	hits     *xsync.Counter
	misses   *xsync.Counter
	writes   *xsync.Counter
	rejected *xsync.Counter
}

// NewLocked creates an instance of concurrent aged cache with optional configuration.
func NewLocked[K comparable, V any](cfg ...AgedConfig) *Locked[K, V] {
	return &Locked[K, V]{
		aged:     NewAged[K, V](cfg...),
		hits:     new(xsync.Counter),
		misses:   new(xsync.Counter),
		writes:   new(xsync.Counter),
		rejected: new(xsync.Counter),
	}
}

// Put stores value for retentionMillis milliseconds, see Aged.Put.
func (c *Locked[K, V]) Put(key K, value V, retentionMillis int64) error {
	c.mu.Lock()
	err := c.aged.Put(key, value, retentionMillis)
	c.mu.Unlock()

	if err != nil {
		c.rejected.Inc()

		return err
	}

	c.writes.Inc()

	return nil
}

// Get returns live value, see Aged.Get.
func (c *Locked[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	v, ok := c.aged.Get(key)
	c.mu.Unlock()

	if ok {
		c.hits.Inc()
	} else {
		c.misses.Inc()
	}

	return v, ok
}

// Len returns number of live entries.
func (c *Locked[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.aged.Len()
}

// IsEmpty returns true if there are no live entries.
func (c *Locked[K, V]) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.aged.IsEmpty()
}

// Delete removes entry and reports whether a live one was there.
func (c *Locked[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.aged.Delete(key)
}

// RemoveAll deletes all entries.
func (c *Locked[K, V]) RemoveAll() {
	c.mu.Lock()
	c.aged.RemoveAll()
	c.mu.Unlock()
}

// Walk calls walkFn for every live entry while holding the lock.
//
// walkFn must not call methods of the same cache.
func (c *Locked[K, V]) Walk(walkFn func(key K, value V) error) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.aged.Walk(walkFn)
}

// Stats returns counters snapshot.
func (c *Locked[K, V]) Stats() Stats {
	return Stats{
		Hits:     c.hits.Value(),
		Misses:   c.misses.Value(),
		Writes:   c.writes.Value(),
		Rejected: c.rejected.Value(),
	}
}

// AsReadWriter exposes string-keyed cache with context-aware ReadWriter contract.
//
// Writes use retention from context (WithTTL) or defaultRetention.
func AsReadWriter(c *Locked[string, interface{}], defaultRetention int64) ReadWriter {
	return lockedReadWriter{c: c, retention: defaultRetention}
}

type lockedReadWriter struct {
	c         *Locked[string, interface{}]
	retention int64
}

func (l lockedReadWriter) Read(ctx context.Context, key string) (interface{}, error) {
	if SkipRead(ctx) {
		return nil, ErrCacheItemNotFound
	}

	v, ok := l.c.Get(key)
	if !ok {
		return nil, ErrCacheItemNotFound
	}

	return v, nil
}

func (l lockedReadWriter) Write(ctx context.Context, key string, value interface{}) error {
	retention := retentionMillis(ctx, l.retention)

	if err := l.c.Put(key, value, retention); err != nil {
		return ctxd.WrapError(ctx, err, "failed to write cache item", "key", key, "retention", retention)
	}

	return nil
}
