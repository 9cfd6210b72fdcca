package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Total int `json:"total"`
}

func newTestCache(t *testing.T) (*ReadCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReadCache(client, time.Minute, nil), mr
}

func TestFetchJSONCachesUntilBump(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: calls}, nil
	}

	var got payload
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 1, got.Total)

	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Bump(ctx))
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 2, calls)
}

func TestBuildKeyIncludesVersion(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	key, err := c.BuildKey(ctx, "chart")
	require.NoError(t, err)
	assert.Equal(t, "orgchart:chart:v1", key)

	require.NoError(t, c.Bump(ctx))
	key, err = c.BuildKey(ctx, "chart")
	require.NoError(t, err)
	assert.Equal(t, "orgchart:chart:v2", key)
}

func TestFetchJSONWithoutRedis(t *testing.T) {
	ctx := context.Background()
	c := NewReadCache(nil, time.Minute, nil)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: 7}, nil
	}
	var got payload
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 7, got.Total)
	assert.Equal(t, 2, calls)
	assert.NoError(t, c.Bump(ctx))
}

func TestFetchJSONFallsBackWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	var got payload
	err := c.FetchJSON(ctx, &got, func(context.Context) (any, error) { return payload{Total: 3}, nil }, "stats")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
}

func TestFetchJSONPropagatesLoaderError(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	boom := errors.New("boom")
	var got payload
	err := c.FetchJSON(ctx, &got, func(context.Context) (any, error) { return nil, boom }, "stats")
	assert.ErrorIs(t, err, boom)
}

func TestFailedBumpBypassesCacheUntilRecovered(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return payload{Total: calls}, nil
	}

	var got payload
	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 1, got.Total)

	mr.SetError("READONLY")
	require.Error(t, c.Bump(ctx))
	assert.True(t, c.Stale())
	mr.SetError("")

	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 2, got.Total)
	assert.False(t, c.Stale())

	require.NoError(t, c.FetchJSON(ctx, &got, loader, "stats"))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 2, calls)
}

func TestStaleCacheLoadsDirectlyWhileRedisFails(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	mr.SetError("READONLY")
	require.Error(t, c.Bump(ctx))

	var got payload
	require.NoError(t, c.FetchJSON(ctx, &got, func(context.Context) (any, error) { return payload{Total: 9}, nil }, "stats"))
	assert.Equal(t, 9, got.Total)
	assert.True(t, c.Stale())
}
