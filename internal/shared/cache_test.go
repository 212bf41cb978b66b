package shared

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, time.Minute)
}

func TestFetchJSONLoadsOnce(t *testing.T) {
	cache := newCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "stats", "user-1")
	require.NoError(t, err)

	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]int{"total": 42}, nil
	}

	var first map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	var second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 42, second["total"])
}

func TestBumpChangesKeys(t *testing.T) {
	cache := newCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "stats", "user-1")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, "stats", "user-1")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestNilCacheDegradesToLoader(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "stats", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "stats:user-1", key)

	calls := 0
	var out map[string]int
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return map[string]int{"total": 7}, nil
	}
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &out, loader))

	assert.Equal(t, 2, calls)
	assert.Equal(t, 7, out["total"])
	assert.NoError(t, cache.Bump(ctx))
}

func TestFetchJSONRequiresLoader(t *testing.T) {
	cache := newCache(t)
	var out map[string]int
	assert.Error(t, cache.FetchJSON(context.Background(), "k", &out, nil))
}
