package bigcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/depcache"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(context.Background(), Config{LifeWindow: time.Minute, Shards: 16, MaxEntriesInWindow: 100})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p
}

func TestGetSetDel(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	_, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Set(ctx, "k", []byte("v"), 1, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	b, ok, err := p.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	require.NoError(t, p.Del(ctx, "k"))
	require.NoError(t, p.Del(ctx, "k"), "deleting a missing key is not an error")
}

func TestInvalidShards(t *testing.T) {
	_, err := New(context.Background(), Config{LifeWindow: time.Minute, Shards: 3})
	assert.Error(t, err)
}

func TestCacheOverBigcache(t *testing.T) {
	ctx := context.Background()
	c, err := depcache.New[int](depcache.Options[int]{Namespace: "n", Provider: newTestProvider(t)})
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "k", 42, 0, "T"))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, err = c.Invalidate(ctx, "T")
	require.NoError(t, err)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
