package cache

import (
	"context"
	"time"

	"github.com/bool64/ctxd"
	"github.com/cespare/xxhash/v2"
)

const shards = 64

var (
	_ ReadWriter = &Sharded{}
	_ Walker     = &Sharded{}
)

// ShardedConfig controls sharded cache instance.
type ShardedConfig struct {
	AgedConfig

	// DefaultRetention is applied to writes without WithTTL context, default 5m.
	DefaultRetention time.Duration
}

// Sharded is a concurrent aged cache with string keys spread over independently locked shards.
type Sharded struct {
	buckets [shards]*Locked[string, interface{}]

	retention int64
	config    ShardedConfig
	log       ctxd.Logger
}

// NewSharded creates an instance of sharded aged cache with optional configuration.
func NewSharded(cfg ...ShardedConfig) *Sharded {
	config := ShardedConfig{}

	if len(cfg) >= 1 {
		config = cfg[0]
	}

	if config.DefaultRetention == 0 {
		config.DefaultRetention = DefaultRetention
	}

	if config.TimeSource == nil {
		config.TimeSource = WallClock{}
	}

	c := &Sharded{
		retention: durationMillis(config.DefaultRetention),
		config:    config,
		log:       config.Logger,
	}

	for i := 0; i < shards; i++ {
		c.buckets[i] = NewLocked[string, interface{}](config.AgedConfig)
	}

	return c
}

func (c *Sharded) bucket(key string) *Locked[string, interface{}] {
	return c.buckets[xxhash.Sum64String(key)%shards]
}

// Read gets value.
func (c *Sharded) Read(ctx context.Context, key string) (interface{}, error) {
	if SkipRead(ctx) {
		return nil, ErrCacheItemNotFound
	}

	v, found := c.bucket(key).Get(key)
	if !found {
		if c.log != nil {
			c.log.Debug(ctx, "cache miss",
				"name", c.config.Name,
				"key", key)
		}

		return nil, ErrCacheItemNotFound
	}

	if c.log != nil {
		c.log.Debug(ctx, "cache hit",
			"name", c.config.Name,
			"key", key)
	}

	return v, nil
}

// Write sets value.
func (c *Sharded) Write(ctx context.Context, key string, v interface{}) error {
	retention := retentionMillis(ctx, c.retention)

	if err := c.bucket(key).Put(key, v, retention); err != nil {
		return ctxd.WrapError(ctx, err, "failed to write cache item",
			"name", c.config.Name,
			"key", key,
			"retention", retention)
	}

	if c.log != nil {
		c.log.Debug(ctx, "wrote to cache",
			"name", c.config.Name,
			"key", key,
			"value", v,
			"retention", retention)
	}

	return nil
}

// Delete removes entry and reports whether a live one was there.
func (c *Sharded) Delete(key string) bool {
	return c.bucket(key).Delete(key)
}

// RemoveAll deletes all entries.
func (c *Sharded) RemoveAll() {
	for _, b := range c.buckets {
		b.RemoveAll()
	}
}

// Len returns number of live entries.
func (c *Sharded) Len() int {
	cnt := 0

	for _, b := range c.buckets {
		cnt += b.Len()
	}

	if c.config.Stats != nil {
		c.config.Stats.Set(context.Background(), MetricItems, float64(cnt), "name", c.config.Name)
	}

	return cnt
}

// IsEmpty returns true if there are no live entries.
func (c *Sharded) IsEmpty() bool {
	for _, b := range c.buckets {
		if !b.IsEmpty() {
			return false
		}
	}

	return true
}

// Walk walks live entries shard by shard.
//
// walkFn must not call methods of the same cache.
func (c *Sharded) Walk(walkFn func(key string, value interface{}) error) (int, error) {
	n := 0

	for _, b := range c.buckets {
		cnt, err := b.Walk(walkFn)
		n += cnt

		if err != nil {
			return n, err
		}
	}

	return n, nil
}

// Stats returns counters summed over shards.
func (c *Sharded) Stats() Stats {
	s := Stats{}

	for _, b := range c.buckets {
		bs := b.Stats()
		s.Hits += bs.Hits
		s.Misses += bs.Misses
		s.Writes += bs.Writes
		s.Rejected += bs.Rejected
	}

	return s
}
