package cache

// agedEntry is a link of the chain owned by Aged.
type agedEntry[K comparable, V any] struct {
	key       K
	value     V
	retention int64
	createdAt int64

	next *agedEntry[K, V]
}

// expired is true once retention has fully elapsed, boundary instant included.
func (e *agedEntry[K, V]) expired(now int64) bool {
	return now-e.createdAt >= e.retention
}

// reset restarts retention window with a new value.
func (e *agedEntry[K, V]) reset(value V, retention, now int64) {
	e.value = value
	e.retention = retention
	e.createdAt = now
}
