// Package cache implements the tiered result cache in front of the listings
// search layer: redis-backed storage with per-category TTLs, per-key
// single-flight computation, categorical invalidation driven by listing
// change events, and passthrough degradation when redis is unavailable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"carmarket_backend/platform/config"
	"carmarket_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Category names a cache-lifetime class. Listings search and similarity
// results churn fastest, single-record views less, aggregates least.
type Category string

const (
	CategorySearch    Category = "search"
	CategoryDetail    Category = "detail"
	CategoryAggregate Category = "aggregate"
)

const keyPrefix = "cache"

// Cache is the tiered result cache. A nil redis client puts the cache in
// permanent passthrough mode (caching is an optimization, never a
// correctness dependency).
type Cache struct {
	rdb   *redis.Client
	ttls  map[Category]time.Duration
	group singleflight.Group
	log   *logger.Logger
}

// New creates a Cache from configuration. An empty redis URL yields a
// passthrough cache rather than an error.
func New(cfg config.CacheConfig, log *logger.Logger) (*Cache, error) {
	ttls := map[Category]time.Duration{
		CategorySearch:    cfg.GetCacheTTLSearch(),
		CategoryDetail:    cfg.GetCacheTTLDetail(),
		CategoryAggregate: cfg.GetCacheTTLAggregate(),
	}

	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; result cache running in passthrough mode")
		return &Cache{ttls: ttls, log: log}, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &Cache{rdb: redis.NewClient(opt), ttls: ttls, log: log}, nil
}

// NewWithClient creates a Cache around an existing redis client. Used by
// tests and by callers that share a client.
func NewWithClient(rdb *redis.Client, ttls map[Category]time.Duration, log *logger.Logger) *Cache {
	return &Cache{rdb: rdb, ttls: ttls, log: log}
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Concurrent callers for the same key share a single computation.
// Failed computations are never stored and release the in-flight slot, so
// the next caller retries. Any redis fault degrades to a direct compute.
func GetOrCompute[T any](ctx context.Context, c *Cache, category Category, key string, compute func(context.Context) (T, error)) (T, error) {
	full := fullKey(category, key)

	result, err, _ := c.group.Do(full, func() (interface{}, error) {
		if c.rdb != nil {
			data, err := c.rdb.Get(ctx, full).Bytes()
			switch {
			case err == nil:
				var cached T
				if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr == nil {
					c.log.CacheEvent("hit", string(category), key)
					return cached, nil
				}
				// Undecodable entry: treat as a miss and overwrite below.
			case !errors.Is(err, redis.Nil):
				c.log.CacheDegraded(string(category), err)
				return compute(ctx)
			}
		}

		c.log.CacheEvent("miss", string(category), key)
		value, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		c.store(ctx, category, full, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache: unexpected value type for key %s", full)
	}
	return typed, nil
}

func (c *Cache) store(ctx context.Context, category Category, full string, value interface{}) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", "key", full, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, full, data, c.ttls[category]).Err(); err != nil {
		c.log.CacheDegraded(string(category), err)
	}
}

// InvalidateCategories removes every entry in the given categories. This is
// the documented invalidation policy: a listing mutation clears whole
// categories instead of tracking per-entry dependencies.
func (c *Cache) InvalidateCategories(ctx context.Context, categories ...Category) error {
	if c.rdb == nil {
		return nil
	}

	var errs []error
	for _, category := range categories {
		if err := c.dropByPrefix(ctx, category); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Invalidate removes a single entry. Used where the caller knows the exact
// key (dealer profiles), unlike listing mutations which clear categories.
func (c *Cache) Invalidate(ctx context.Context, category Category, key string) error {
	if c.rdb == nil {
		return nil
	}
	full := fullKey(category, key)
	if err := c.rdb.Del(ctx, full).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", full, err)
	}
	c.log.CacheEvent("invalidate", string(category), key)
	return nil
}

func (c *Cache) dropByPrefix(ctx context.Context, category Category) error {
	pattern := fullKey(category, "*")
	iter := c.rdb.Scan(ctx, 0, pattern, 200).Iterator()

	batch := make([]string, 0, 200)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := c.rdb.Del(ctx, batch...).Err()
		batch = batch[:0]
		return err
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := flush(); err != nil {
				return fmt.Errorf("invalidate %s: %w", category, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", category, err)
	}
	if err := flush(); err != nil {
		return fmt.Errorf("invalidate %s: %w", category, err)
	}

	c.log.CacheEvent("invalidate", string(category), "*")
	return nil
}

func fullKey(category Category, key string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, category, key)
}
