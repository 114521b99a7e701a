package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/depcache"
	"github.com/unkn0wn-root/depcache/provider/redis"
	"github.com/unkn0wn-root/depcache/tagstore"
)

func setup(t *testing.T, prefix string) (*miniredis.Miniredis, *goredis.Client, *redis.Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	p, err := redis.New(redis.Config{Client: rdb, KeyPrefix: prefix})
	require.NoError(t, err)
	return mr, rdb, p
}

func TestNewNilClient(t *testing.T) {
	_, err := redis.New(redis.Config{})
	assert.ErrorIs(t, err, redis.ErrNilClient)
}

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	mr, _, p := setup(t, "app:")

	_, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Set(ctx, "k", []byte("v"), 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	raw, err := mr.Get("app:k")
	require.NoError(t, err)
	assert.Equal(t, "v", raw)
	assert.Equal(t, time.Minute, mr.TTL("app:k"))

	b, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	require.NoError(t, p.Del(ctx, "k"))
	assert.False(t, mr.Exists("app:k"))
	require.NoError(t, p.Del(ctx, "k"))
}

func TestSetWithoutTTL(t *testing.T) {
	ctx := context.Background()
	mr, _, p := setup(t, "")

	_, err := p.Set(ctx, "k", []byte("v"), 1, -time.Second)
	require.NoError(t, err)
	assert.Zero(t, mr.TTL("k"))
}

func TestErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	mr, _, p := setup(t, "")
	mr.SetError("LOADING")

	_, _, err := p.Get(ctx, "k")
	assert.Error(t, err)
	_, err = p.Set(ctx, "k", []byte("v"), 1, 0)
	assert.Error(t, err)
}

func TestCloseOwnership(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	borrowed, _ := redis.New(redis.Config{Client: rdb})
	require.NoError(t, borrowed.Close(ctx))
	require.NoError(t, rdb.Ping(ctx).Err(), "borrowed client must stay open")

	owned, _ := redis.New(redis.Config{Client: rdb, CloseClient: true})
	require.NoError(t, owned.Close(ctx))
	require.NoError(t, owned.Close(ctx))
	assert.Error(t, rdb.Ping(ctx).Err())
}

// Entries and tag versions shared by two caches through one Redis.
func TestCacheOverRedis(t *testing.T) {
	ctx := context.Background()
	mr, rdb, p := setup(t, "")

	a, err := depcache.New[string](depcache.Options[string]{Namespace: "s", Provider: p})
	require.NoError(t, err)
	b, err := depcache.New[string](depcache.Options[string]{
		Namespace: "s",
		Provider:  p,
		TagStore:  tagstore.NewRedisStore(rdb),
	})
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, "k", "hello", 0, "T"))
	assert.True(t, mr.Exists("data:s:k"))
	assert.True(t, mr.Exists("tag:s:T"))

	v, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", v)

	invalidated, err := b.Invalidate(ctx, "T")
	require.NoError(t, err)
	assert.True(t, invalidated)

	_, ok, err = a.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
