package cache

import (
	"context"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
)

// AgedConfig controls aged cache instance.
type AgedConfig struct {
	// Name is cache instance name, used in stats and logging.
	Name string

	// TimeSource provides current instant, WallClock by default.
	TimeSource TimeSource

	// Logger is an instance of contextualized logger, can be nil.
	Logger ctxd.Logger

	// Stats is metrics collector, can be nil.
	Stats stats.Tracker
}

// Aged is an in-memory cache with per-entry retention and lazy expiration.
//
// Entries are kept in a singly-linked chain. Every operation first unlinks expired
// entries, so expired values are never observed or counted.
//
// Aged is not safe for concurrent use, see Locked and Sharded.
type Aged[K comparable, V any] struct {
	head  *agedEntry[K, V]
	clock TimeSource

	config AgedConfig
	log    ctxd.Logger
	stat   stats.Tracker
}

// NewAged creates an instance of aged cache with optional configuration.
func NewAged[K comparable, V any](cfg ...AgedConfig) *Aged[K, V] {
	config := AgedConfig{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	if config.TimeSource == nil {
		config.TimeSource = WallClock{}
	}

	return &Aged[K, V]{
		clock:  config.TimeSource,
		config: config,
		log:    config.Logger,
		stat:   config.Stats,
	}
}

// Put stores value for retentionMillis milliseconds.
//
// Existing live entry of the same key is updated in place and its retention window
// restarts from now. Negative retention is rejected with ErrNegativeRetention and
// leaves cache untouched.
func (c *Aged[K, V]) Put(key K, value V, retentionMillis int64) error {
	if retentionMillis < 0 {
		if c.log != nil {
			c.log.Debug(context.Background(), "rejected cache write",
				"name", c.config.Name,
				"key", key,
				"retention", retentionMillis)
		}

		return ErrNegativeRetention
	}

	now, _ := c.sweep()

	defer func() {
		if c.stat != nil {
			c.stat.Add(context.Background(), MetricWrite, 1, "name", c.config.Name)
		}
	}()

	for e := c.head; e != nil; e = e.next {
		if e.key == key {
			e.reset(value, retentionMillis, now)

			return nil
		}
	}

	c.head = &agedEntry[K, V]{
		key:       key,
		value:     value,
		retention: retentionMillis,
		createdAt: now,
		next:      c.head,
	}

	return nil
}

// Get returns stored value and true, or zero value and false if there is no live entry.
//
// Missing and expired keys are indistinguishable.
func (c *Aged[K, V]) Get(key K) (V, bool) {
	c.sweep()

	for e := c.head; e != nil; e = e.next {
		if e.key != key {
			continue
		}

		if e.expired(c.clock.NowMillis()) {
			break
		}

		if c.stat != nil {
			c.stat.Add(context.Background(), MetricHit, 1, "name", c.config.Name)
		}

		return e.value, true
	}

	if c.stat != nil {
		c.stat.Add(context.Background(), MetricMiss, 1, "name", c.config.Name)
	}

	var zero V

	return zero, false
}

// Len returns number of live entries.
func (c *Aged[K, V]) Len() int {
	_, live := c.sweep()

	return live
}

// IsEmpty returns true if there are no live entries.
func (c *Aged[K, V]) IsEmpty() bool {
	c.sweep()

	return c.head == nil
}

// Delete removes entry and reports whether a live one was there.
func (c *Aged[K, V]) Delete(key K) bool {
	c.sweep()

	var prev *agedEntry[K, V]

	for e := c.head; e != nil; prev, e = e, e.next {
		if e.key != key {
			continue
		}

		if prev == nil {
			c.head = e.next
		} else {
			prev.next = e.next
		}

		return true
	}

	return false
}

// RemoveAll deletes all entries.
func (c *Aged[K, V]) RemoveAll() {
	c.head = nil
}

// Walk calls walkFn for every live entry and stops on first error.
//
// Count of processed entries is returned. walkFn must not modify the cache.
func (c *Aged[K, V]) Walk(walkFn func(key K, value V) error) (int, error) {
	c.sweep()

	n := 0

	for e := c.head; e != nil; e = e.next {
		if err := walkFn(e.key, e.value); err != nil {
			return n, err
		}

		n++
	}

	return n, nil
}

// sweep unlinks expired entries in a single pass, it returns the instant used and count of survivors.
func (c *Aged[K, V]) sweep() (now int64, live int) {
	now = c.clock.NowMillis()
	purged := 0

	var prev *agedEntry[K, V]

	for e := c.head; e != nil; e = e.next {
		if !e.expired(now) {
			prev = e
			live++

			continue
		}

		if prev == nil {
			c.head = e.next
		} else {
			prev.next = e.next
		}

		purged++
	}

	if purged == 0 {
		return now, live
	}

	if c.log != nil {
		c.log.Debug(context.Background(), "expired cache items purged",
			"name", c.config.Name,
			"count", purged)
	}

	if c.stat != nil {
		c.stat.Add(context.Background(), MetricExpired, float64(purged), "name", c.config.Name)
	}

	return now, live
}
