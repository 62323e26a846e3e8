// Package cache provides a small in-process TTL cache used by the pricing
// providers. A single value is cached per instance; concurrent refreshes after
// expiry are tolerated because every refresher converges on the same upstream
// value (the entry is swapped atomically, so readers never see a torn write).
package cache

import (
	"context"
	"sync/atomic"
	"time"
)

// Clock returns the current time; injectable so tests can control expiry.
type Clock func() time.Time

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// Cache holds one value with a fetch timestamp and refreshes it lazily.
type Cache[T any] struct {
	ttl   time.Duration
	clock Clock
	cur   atomic.Pointer[entry[T]]
}

// New builds a TTL cache. A nil clock defaults to time.Now.
func New[T any](ttl time.Duration, clock Clock) *Cache[T] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[T]{ttl: ttl, clock: clock}
}

// GetOrRefresh returns the cached value when it is younger than the TTL.
// Otherwise it invokes fetch; on success the cache is replaced, on failure the
// stale value is served when one exists. The error is returned only when there
// is nothing at all to serve.
func (c *Cache[T]) GetOrRefresh(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	now := c.clock()
	if cur := c.cur.Load(); cur != nil && now.Sub(cur.fetchedAt) < c.ttl {
		return cur.value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		if cur := c.cur.Load(); cur != nil {
			return cur.value, err
		}
		var zero T
		return zero, err
	}

	c.cur.Store(&entry[T]{value: value, fetchedAt: now})
	return value, nil
}

// Peek returns the cached value without triggering a refresh.
func (c *Cache[T]) Peek() (T, bool) {
	if cur := c.cur.Load(); cur != nil {
		return cur.value, true
	}
	var zero T
	return zero, false
}

// Invalidate drops the cached value so the next read refreshes.
func (c *Cache[T]) Invalidate() {
	c.cur.Store(nil)
}
