package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainKeys[K comparable, V any](c *Aged[K, V]) []K {
	var keys []K

	for e := c.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}

	return keys
}

func TestAged_sweep_unlink(t *testing.T) {
	clock := NewManualClock(0)
	c := NewAged[string, int](AgedConfig{TimeSource: clock})

	// Chain is head-first: e, d, c, b, a.
	require.NoError(t, c.Put("a", 1, 10))
	require.NoError(t, c.Put("b", 2, 20))
	require.NoError(t, c.Put("c", 3, 10))
	require.NoError(t, c.Put("d", 4, 20))
	require.NoError(t, c.Put("e", 5, 10))
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, chainKeys(c))

	clock.Set(10)

	now, live := c.sweep()
	assert.Equal(t, int64(10), now)
	assert.Equal(t, 2, live)
	assert.Equal(t, []string{"d", "b"}, chainKeys(c))

	clock.Set(20)

	_, live = c.sweep()
	assert.Equal(t, 0, live)
	assert.Nil(t, c.head)
}

func TestAged_Put_updateInPlace(t *testing.T) {
	clock := NewManualClock(100)
	c := NewAged[string, int](AgedConfig{TimeSource: clock})

	require.NoError(t, c.Put("a", 1, 10))
	require.NoError(t, c.Put("b", 2, 10))

	node := c.head.next
	require.Equal(t, "a", node.key)

	clock.Advance(5)
	require.NoError(t, c.Put("a", 3, 50))

	assert.Equal(t, []string{"b", "a"}, chainKeys(c))
	assert.Same(t, node, c.head.next)
	assert.Equal(t, 3, node.value)
	assert.Equal(t, int64(50), node.retention)
	assert.Equal(t, int64(105), node.createdAt)
}

func TestAged_Put_negativeRetention_noSweep(t *testing.T) {
	clock := NewManualClock(0)
	c := NewAged[string, int](AgedConfig{TimeSource: clock})

	require.NoError(t, c.Put("a", 1, 10))
	clock.Set(10)

	assert.Equal(t, ErrNegativeRetention, c.Put("b", 2, -5))
	assert.Equal(t, []string{"a"}, chainKeys(c))
}

func TestAgedEntry_expired(t *testing.T) {
	e := agedEntry[string, int]{retention: 10, createdAt: 100}

	assert.False(t, e.expired(109))
	assert.True(t, e.expired(110))
	assert.True(t, e.expired(111))
	assert.False(t, e.expired(50)) // Clock went backwards.
}

func TestDurationMillis(t *testing.T) {
	assert.Equal(t, int64(0), durationMillis(0))
	assert.Equal(t, int64(1), durationMillis(1))
	assert.Equal(t, int64(1500), durationMillis(1500*1e6))
	assert.Equal(t, int64(1501), durationMillis(1500*1e6+1))
}
