package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bool64/ctxd"
	"github.com/bool64/stats"
	"golang.org/x/sync/singleflight"
)

// LoaderConfig is optional configuration for NewLoader.
type LoaderConfig struct {
	// Name is added to logs and stats.
	Name string

	// Upstream is a cache instance, Sharded is created by default.
	Upstream ReadWriter

	// Retention is applied to built values unless context has WithTTL, default 5m.
	Retention time.Duration

	// FailedBuildRetention is retention of failed build errors, default 20s, -1 disables errors cache.
	FailedBuildRetention time.Duration

	// TimeSource provides current instant for default upstream and errors cache, WallClock by default.
	TimeSource TimeSource

	// Logger collects messages with context.
	Logger ctxd.Logger

	// Stats tracks stats.
	Stats stats.Tracker
}

// Loader is a read-through cache, it builds missing values once per key and caches build failures.
//
// Please use NewLoader to create instance.
type Loader struct {
	// Errors caches errors of failed builds.
	Errors *Locked[string, error]

	upstream ReadWriter
	group    singleflight.Group
	config   LoaderConfig
	log      ctxd.Logger
	stat     stats.Tracker
}

// NewLoader creates a Loader instance.
func NewLoader(config LoaderConfig) *Loader {
	if config.Retention == 0 {
		config.Retention = DefaultRetention
	}

	if config.FailedBuildRetention == 0 {
		config.FailedBuildRetention = 20 * time.Second
	}

	if config.TimeSource == nil {
		config.TimeSource = WallClock{}
	}

	l := &Loader{}
	l.config = config

	l.log = config.Logger
	if l.log == nil {
		l.log = ctxd.NoOpLogger{}
	}

	l.stat = config.Stats
	if l.stat == nil {
		l.stat = stats.NoOp{}
	}

	l.upstream = config.Upstream
	if l.upstream == nil {
		l.upstream = NewSharded(ShardedConfig{
			AgedConfig: AgedConfig{
				Name:       config.Name,
				TimeSource: config.TimeSource,
				Logger:     config.Logger,
				Stats:      config.Stats,
			},
			DefaultRetention: config.Retention,
		})
	}

	if config.FailedBuildRetention > -1 {
		l.Errors = NewLocked[string, error](AgedConfig{
			Name:       "err_" + config.Name,
			TimeSource: config.TimeSource,
			Logger:     config.Logger,
		})
	}

	return l
}

// Get returns value from cache or from build function.
//
// Concurrent calls for the same missing key share a single build.
func (l *Loader) Get(ctx context.Context, key string, buildFunc func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	value, err := l.upstream.Read(ctx, key)
	if err == nil {
		return value, nil
	}

	if !errors.Is(err, ErrCacheItemNotFound) {
		return nil, ctxd.WrapError(ctx, err, "failed to read cache", "name", l.config.Name, "key", key)
	}

	if err := l.recentlyFailed(key); err != nil {
		l.log.Debug(ctx, "serving recent build failure", "name", l.config.Name, "key", key)

		return nil, err
	}

	value, err, shared := l.group.Do(key, func() (interface{}, error) {
		return l.doBuild(ctx, key, buildFunc)
	})

	if shared {
		l.log.Debug(ctx, "shared cache build", "name", l.config.Name, "key", key)
	}

	return value, err
}

// Forget drops cached build failure for a key.
func (l *Loader) Forget(key string) {
	if l.Errors != nil {
		l.Errors.Delete(key)
	}
}

func (l *Loader) doBuild(
	ctx context.Context,
	key string,
	buildFunc func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	defer func() {
		l.stat.Add(ctx, MetricBuild, 1, "name", l.config.Name)
	}()
	l.log.Debug(ctx, "building cache value", "name", l.config.Name, "key", key)

	val, err := buildFunc(ctx)
	if err != nil {
		l.stat.Add(ctx, MetricFailed, 1, "name", l.config.Name)

		if l.Errors != nil && !canceled(err) {
			writeErr := l.Errors.Put(key, err, durationMillis(l.config.FailedBuildRetention))
			if writeErr != nil {
				l.log.Error(ctx, "failed to cache build failure",
					"error", writeErr,
					"buildErr", err,
					"key", key,
					"name", l.config.Name)
			}
		}

		return nil, err
	}

	if _, ok := TTL(ctx); !ok {
		ctx = WithTTL(ctx, l.config.Retention)
	}

	if err := l.upstream.Write(ctx, key, val); err != nil {
		return nil, ctxd.WrapError(ctx, err, "failed to store built value", "name", l.config.Name, "key", key)
	}

	return val, nil
}

// canceled is true for errors caused by the caller giving up rather than by the build source.
func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (l *Loader) recentlyFailed(key string) error {
	if l.Errors == nil {
		return nil
	}

	err, found := l.Errors.Get(key)
	if !found {
		return nil
	}

	return err
}
