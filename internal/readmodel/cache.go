package readmodel

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Key identifies one cached read.
type Key string

// entry is a single TTL-less memoization of a prior read. Once marked stale
// it is never served as fresh again until a refetch replaces it.
type entry[V any] struct {
	value     V
	populated bool
	stale     bool
}

// Cache is a keyed read-through cache. Entries never expire on their own;
// they become stale only through Invalidate, and a stale entry forces the
// next Get to refetch before returning. Invalidation is scoped per key, so
// invalidating one entry can never affect another.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[Key]*entry[V]
	logger  zerolog.Logger
}

// NewCache creates an empty cache.
func NewCache[V any](logger zerolog.Logger) *Cache[V] {
	return &Cache[V]{
		entries: make(map[Key]*entry[V]),
		logger:  logger.With().Str("module", "ReadModelCache").Logger(),
	}
}

// Get returns the fresh cached value for key, or runs fetch to (re)populate
// it. A fetch failure leaves any previous value in place, still marked
// stale, so Peek can surface it with an explicit staleness flag.
func (c *Cache[V]) Get(ctx context.Context, key Key, fetch func(context.Context) (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && e.populated && !e.stale {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	value, err := fetch(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = &entry[V]{value: value, populated: true}
	c.mu.Unlock()

	c.logger.Debug().Str("key", string(key)).Msg("Cache entry refreshed")
	return value, nil
}

// Invalidate marks the entry for key stale. Missing keys are a no-op.
func (c *Cache[V]) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		e.stale = true
		c.logger.Debug().Str("key", string(key)).Msg("Cache entry invalidated")
	}
}

// Peek returns the current value for key without fetching, along with
// whether it is stale and whether it exists at all.
func (c *Cache[V]) Peek(key Key) (V, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok && e.populated {
		return e.value, e.stale, true
	}
	var zero V
	return zero, false, false
}

// IsFresh reports whether key holds a populated, non-stale entry.
func (c *Cache[V]) IsFresh(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.populated && !e.stale
}
