package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, goredis.UniversalClient) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_SetGet(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "sess:")

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	require.NoError(t, store.Set(ctx, "abc", session.Values{"user": `"ann"`, "n": `1`}))
	assert.True(t, mr.Exists("sess:abc"))

	raw, err := mr.Get("sess:abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"\"ann\"","n":"1"}`, raw)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, session.Values{"user": `"ann"`, "n": `1`}, got)
}

func TestStore_NilValuesStoredAsEmptyObject(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "")

	require.NoError(t, store.Set(ctx, "abc", nil))
	raw, err := mr.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_MalformedValue(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "sess:")

	require.NoError(t, mr.Set("sess:abc", "not json"))
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSerialization)
}

func TestStore_Expire(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "sess:")

	require.NoError(t, store.Set(ctx, "abc", session.Values{}))
	assert.Zero(t, mr.TTL("sess:abc"))

	require.NoError(t, store.Expire(ctx, "abc", time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("sess:abc"))

	// Set clears the TTL
	require.NoError(t, store.Set(ctx, "abc", session.Values{"a": `1`}))
	assert.Zero(t, mr.TTL("sess:abc"))

	require.NoError(t, store.Expire(ctx, "abc", time.Minute))
	mr.FastForward(time.Minute)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	assert.NoError(t, store.Expire(ctx, "missing", time.Minute))
}

func TestStore_Remove(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "sess:")

	require.NoError(t, store.Set(ctx, "abc", session.Values{}))
	require.NoError(t, store.Remove(ctx, "abc"))
	assert.False(t, mr.Exists("sess:abc"))
	assert.NoError(t, store.Remove(ctx, "abc"))
}

func TestStore_ClearAll(t *testing.T) {
	ctx := context.Background()

	t.Run("prefix scoped", func(t *testing.T) {
		mr, client := setupRedis(t)
		store := redis.NewStoreFromConfig(client, redis.Config{KeyPrefix: "sess:", ScanBatchSize: 2})

		for _, id := range []string{"a", "b", "c", "d", "e"} {
			require.NoError(t, store.Set(ctx, id, session.Values{}))
		}
		require.NoError(t, mr.Set("other:key", "keep"))

		require.NoError(t, store.ClearAll(ctx))
		assert.Equal(t, []string{"other:key"}, mr.Keys())
	})

	t.Run("no prefix flushes the database", func(t *testing.T) {
		mr, client := setupRedis(t)
		store := redis.NewStore(client, "")

		require.NoError(t, store.Set(ctx, "a", session.Values{}))
		require.NoError(t, mr.Set("other", "x"))

		require.NoError(t, store.ClearAll(ctx))
		assert.Empty(t, mr.Keys())
	})
}

func TestStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "sess:")
	mr.Close()

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Set(ctx, "abc", session.Values{}), session.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Remove(ctx, "abc"), session.ErrStoreUnavailable)
	assert.ErrorIs(t, store.Expire(ctx, "abc", time.Minute), session.ErrStoreUnavailable)
	assert.ErrorIs(t, store.ClearAll(ctx), session.ErrStoreUnavailable)
}

func TestStore_WithEngine(t *testing.T) {
	ctx := context.Background()
	mr, client := setupRedis(t)
	store := redis.NewStore(client, "sess:")

	cfg := session.DefaultConfig()
	cfg.ExpireTime = 30 * time.Minute
	engine, err := session.NewEngine(store, cfg, nil)
	require.NoError(t, err)

	rec := engine.Load(ctx, "")
	require.NoError(t, rec.Set("count", 1))
	c := engine.Commit(ctx, rec)

	key := "sess:" + c.Value
	assert.True(t, mr.Exists(key))
	assert.Equal(t, 30*time.Minute, mr.TTL(key))

	mr.FastForward(10 * time.Minute)
	again := engine.Load(ctx, c.Value)
	n, ok := again.GetInt("count")
	require.True(t, ok)
	assert.Equal(t, 1, n)
	engine.Commit(ctx, again)
	assert.Equal(t, 30*time.Minute, mr.TTL(key))
}
