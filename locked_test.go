package cache_test

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cache "github.com/vearutop/agedcache"
)

func TestLocked(t *testing.T) {
	clock := cache.NewManualClock(0)
	c := cache.NewLocked[string, int](cache.AgedConfig{TimeSource: clock})

	assert.True(t, c.IsEmpty())
	require.NoError(t, c.Put("a", 1, 10))
	require.NoError(t, c.Put("b", 2, 20))
	assert.True(t, errors.Is(c.Put("c", 3, -1), cache.ErrNegativeRetention))

	clock.Advance(10)

	_, ok := c.Get("a")
	assert.False(t, ok)

	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())

	n, err := c.Walk(func(key string, value int) error {
		assert.Equal(t, "b", key)

		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.True(t, c.Delete("b"))
	assert.True(t, c.IsEmpty())

	require.NoError(t, c.Put("d", 4, 20))
	c.RemoveAll()
	assert.Equal(t, 0, c.Len())

	assert.Equal(t, cache.Stats{Hits: 1, Misses: 1, Writes: 3, Rejected: 1}, c.Stats())
}

func TestLocked_concurrency(t *testing.T) {
	c := cache.NewLocked[string, int]()

	pipeline := make(chan struct{}, 500)
	n := 1000

	for i := 0; i < n; i++ {
		pipeline <- struct{}{}

		k := "oneone" + strconv.Itoa(i)

		go func() {
			defer func() {
				<-pipeline
			}()

			err := c.Put(k, 123, time.Hour.Milliseconds())
			assert.NoError(t, err)

			v, ok := c.Get(k)
			assert.True(t, ok)
			assert.Equal(t, 123, v)

			c.Len()
		}()
	}

	// Waiting for goroutines to finish.
	for i := 0; i < cap(pipeline); i++ {
		pipeline <- struct{}{}
	}

	assert.Equal(t, n, c.Len())
	assert.Equal(t, int64(n), c.Stats().Writes)
	assert.Equal(t, int64(n), c.Stats().Hits)
}

func TestAsReadWriter(t *testing.T) {
	ctx := context.Background()
	clock := cache.NewManualClock(0)
	rw := cache.AsReadWriter(cache.NewLocked[string, interface{}](cache.AgedConfig{TimeSource: clock}), 100)

	val, err := rw.Read(ctx, "key")
	assert.Nil(t, val)
	assert.Equal(t, cache.ErrCacheItemNotFound, err)

	require.NoError(t, rw.Write(ctx, "key", 123))
	require.NoError(t, rw.Write(cache.WithTTL(ctx, 10*time.Millisecond), "short", 456))

	val, err = rw.Read(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, 123, val)

	_, err = rw.Read(cache.WithSkipRead(ctx), "key")
	assert.Equal(t, cache.ErrCacheItemNotFound, err)

	clock.Advance(10)

	_, err = rw.Read(ctx, "short")
	assert.Equal(t, cache.ErrCacheItemNotFound, err)

	clock.Advance(90)

	_, err = rw.Read(ctx, "key")
	assert.Equal(t, cache.ErrCacheItemNotFound, err)

	err = rw.Write(cache.WithTTL(ctx, -time.Second), "key", 1)
	assert.True(t, errors.Is(err, cache.ErrNegativeRetention))
}

func TestLocked_Walk_concurrentPut(t *testing.T) {
	c := cache.NewLocked[int, int]()
	wg := sync.WaitGroup{}
	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := 0; i < 100; i++ {
			assert.NoError(t, c.Put(i, i, time.Minute.Milliseconds()))
		}
	}()

	go func() {
		defer wg.Done()

		for i := 0; i < 100; i++ {
			_, err := c.Walk(func(key int, value int) error {
				assert.Equal(t, key, value)

				return nil
			})
			assert.NoError(t, err)
		}
	}()

	wg.Wait()
	assert.Equal(t, 100, c.Len())
}
