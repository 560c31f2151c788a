package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return New(rdb, "test:", time.Minute), mr
}

func TestCache_SetGet(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	var out []item
	hit, err := c.Get(ctx, "categories", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "categories", []item{{ID: 1, Name: "Misc"}}))
	assert.True(t, mr.Exists("test:categories"))

	hit, err = c.Get(ctx, "categories", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, out, 1)
	assert.Equal(t, "Misc", out[0].Name)
}

func TestCache_TTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{ID: 1}))
	mr.FastForward(2 * time.Minute)

	var out item
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Delete(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", item{ID: 1}))
	require.NoError(t, c.Delete(ctx, "k"))

	var out item
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_Disabled(t *testing.T) {
	c := New(nil, "test:", time.Minute)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, "k", item{ID: 1}))

	var out item
	hit, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, c.Delete(ctx, "k"))
}
