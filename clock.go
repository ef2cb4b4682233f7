package cache

import (
	"sync/atomic"
	"time"
)

// TimeSource reports current instant in milliseconds since a fixed epoch.
//
// Expiration assumes the source does not go backwards, an adjusted clock may keep
// entries alive longer than their retention.
type TimeSource interface {
	NowMillis() int64
}

// TimeSourceFunc adapts a function to TimeSource.
type TimeSourceFunc func() int64

// NowMillis calls f.
func (f TimeSourceFunc) NowMillis() int64 {
	return f()
}

// WallClock is a TimeSource backed by time.Now, milliseconds since Unix epoch.
type WallClock struct{}

// NowMillis returns current wall time.
func (WallClock) NowMillis() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

// ManualClock is a controllable TimeSource, it only moves when told to.
//
// It is safe for concurrent use.
type ManualClock struct {
	now int64
}

// NewManualClock creates a clock stopped at a given instant.
func NewManualClock(startMillis int64) *ManualClock {
	return &ManualClock{now: startMillis}
}

// NowMillis returns current instant.
func (c *ManualClock) NowMillis() int64 {
	return atomic.LoadInt64(&c.now)
}

// Advance moves clock forward and returns new instant.
func (c *ManualClock) Advance(millis int64) int64 {
	return atomic.AddInt64(&c.now, millis)
}

// Set moves clock to an instant.
func (c *ManualClock) Set(millis int64) {
	atomic.StoreInt64(&c.now, millis)
}

// durationMillis converts duration to whole milliseconds, rounding up sub-millisecond remainders.
func durationMillis(d time.Duration) int64 {
	ms := int64(d / time.Millisecond)
	if d%time.Millisecond > 0 {
		ms++
	}

	return ms
}
