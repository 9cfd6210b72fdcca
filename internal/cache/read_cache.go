// Package cache keeps read models (stats, dashboard, chart) in Redis under a
// version number. Any org change bumps the version, which orphans every key
// written before it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	versionKey = "orgchart:cache:version"
	keyPrefix  = "orgchart"
)

// ReadCache wraps Redis with version-based invalidation. A nil client turns
// every call into a pass-through to the loader. After a failed Bump the cache
// is marked stale and reads bypass Redis until a later Bump succeeds.
type ReadCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	stale  atomic.Bool
}

// NewReadCache instantiates the cache helper.
func NewReadCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReadCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadCache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether a Redis client backs the cache.
func (c *ReadCache) Enabled() bool {
	return c != nil && c.client != nil
}

// Version returns the current cache version, initialising it when missing.
func (c *ReadCache) Version(ctx context.Context) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey composes a key scoped to the current version.
func (c *ReadCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{keyPrefix}, parts...), ":")
	if !c.Enabled() {
		return joined, nil
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// FetchJSON decodes the cached value for parts into dest, or runs loader and
// stores its result. Redis failures degrade to calling loader directly.
func (c *ReadCache) FetchJSON(ctx context.Context, dest any, loader func(context.Context) (any, error), parts ...string) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if !c.Enabled() {
		return loadInto(ctx, dest, loader)
	}
	if c.stale.Load() {
		if err := c.Bump(ctx); err != nil {
			return loadInto(ctx, dest, loader)
		}
		c.logger.Info("cache version recovered")
	}

	key, err := c.BuildKey(ctx, parts...)
	if err != nil {
		c.logger.Warn("cache unavailable", zap.Error(err))
		return loadInto(ctx, dest, loader)
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(payload, dest); jsonErr == nil {
			return nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates every cached read model. On failure the cache stays
// stale, so no entry written before the change is served.
func (c *ReadCache) Bump(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.stale.Store(true)
		return err
	}
	c.stale.Store(false)
	return nil
}

// Stale reports whether a version bump is pending.
func (c *ReadCache) Stale() bool {
	return c != nil && c.stale.Load()
}

func loadInto(ctx context.Context, dest any, loader func(context.Context) (any, error)) error {
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
