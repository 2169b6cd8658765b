package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ReadThrough serves values from a Store and falls back to a loader on miss.
// Concurrent misses for the same key share one loader call. Cache failures
// are logged and never surface to the caller.
//
// Each key carries a generation that Invalidate bumps. A loader only writes
// its result back if the generation it started under is still current, so a
// load that read the row before a write committed cannot repopulate the
// entry after that write invalidated it.
type ReadThrough[T any] struct {
	store  Store
	prefix string
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

// NewReadThrough creates a read-through cache. A nil store disables caching
// but keeps loader de-duplication.
func NewReadThrough[T any](store Store, prefix string, ttl time.Duration, logger zerolog.Logger) *ReadThrough[T] {
	if store == nil {
		store = NopStore{}
	}
	return &ReadThrough[T]{
		store:  store,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With().Str("component", "cache").Str("prefix", prefix).Logger(),

		generations: make(map[string]uint64),
	}
}

func (c *ReadThrough[T]) key(id string) string {
	return c.prefix + ":" + id
}

func (c *ReadThrough[T]) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// storeIfCurrent writes raw unless key was invalidated after gen was read.
// The lock is held across Set so Invalidate's delete always lands after it.
func (c *ReadThrough[T]) storeIfCurrent(ctx context.Context, key string, gen uint64, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[key] != gen {
		c.logger.Debug().Str("key", key).Msg("Skipping write of value loaded before invalidation")
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

// Get returns the cached value for id or loads, stores and returns it
func (c *ReadThrough[T]) Get(ctx context.Context, id string, load func(context.Context) (T, error)) (T, error) {
	key := c.key(id)

	if raw, err := c.store.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		c.logger.Warn().Str("key", key).Msg("Dropping undecodable cache entry")
		_ = c.store.Del(ctx, key)
	} else if !errors.Is(err, ErrMiss) {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		gen := c.generation(key)
		loaded, err := load(ctx)
		if err != nil {
			return loaded, err
		}
		if raw, mErr := json.Marshal(loaded); mErr == nil {
			c.storeIfCurrent(ctx, key, gen, raw)
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate drops the entry for id and discards the write-back of any load
// already in flight for it
func (c *ReadThrough[T]) Invalidate(ctx context.Context, id string) {
	key := c.key(id)
	c.mu.Lock()
	c.generations[key]++
	c.mu.Unlock()
	c.group.Forget(key)
	if err := c.store.Del(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache invalidation failed")
	}
}
