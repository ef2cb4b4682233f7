package cache

import (
	"fmt"
	"sync"
	"time"
)

// Invalidator is a registry of cache removal triggers.
type Invalidator struct {
	sync.Mutex

	// SkipInterval defines minimal duration between two cache invalidations (flood protection), default 15s.
	SkipInterval time.Duration

	// Callbacks contains a list of functions to call on invalidate, e.g. Sharded.RemoveAll.
	Callbacks []func()

	// TimeSource provides current instant, WallClock by default.
	TimeSource TimeSource

	lastRun int64
	ran     bool
}

// Invalidate triggers cache removal.
func (i *Invalidator) Invalidate() error {
	i.Lock()
	defer i.Unlock()

	if len(i.Callbacks) == 0 {
		return ErrNothingToInvalidate
	}

	if i.SkipInterval == 0 {
		i.SkipInterval = 15 * time.Second
	}

	if i.TimeSource == nil {
		i.TimeSource = WallClock{}
	}

	now := i.TimeSource.NowMillis()

	if i.ran && now-i.lastRun < durationMillis(i.SkipInterval) {
		return fmt.Errorf("%w at %d ms, %s did not pass",
			ErrAlreadyInvalidated, i.lastRun, i.SkipInterval.String())
	}

	i.lastRun = now
	i.ran = true

	for _, cb := range i.Callbacks {
		cb()
	}

	return nil
}
