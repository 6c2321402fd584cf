package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*SmartCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	backend := NewRedisBackend(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(backend.Close)
	return New(backend), mr
}

func TestRedisBackendRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, IdeaDetails, []string{"i1"}, map[string]int{"supportCount": 2})

	var got map[string]int
	require.True(t, c.Get(ctx, IdeaDetails, []string{"i1"}, &got))
	assert.Equal(t, 2, got["supportCount"])
}

func TestRedisBackendExpiry(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, FeedData, []string{"p"}, "v")
	mr.FastForward(31 * time.Second)

	var got string
	assert.False(t, c.Get(ctx, FeedData, []string{"p"}, &got))
}

func TestRedisBackendPrefixInvalidation(t *testing.T) {
	c, _ := newRedisCache(t)
	ctx := context.Background()

	c.Set(ctx, FeedData, []string{"a"}, "1")
	c.Set(ctx, FeedData, []string{"b"}, "2")
	c.Set(ctx, Lineage, []string{"idea", "i1"}, "3")

	c.Invalidate(ctx, FeedData)

	var got string
	assert.False(t, c.Get(ctx, FeedData, []string{"a"}, &got))
	assert.False(t, c.Get(ctx, FeedData, []string{"b"}, &got))
	assert.True(t, c.Get(ctx, Lineage, []string{"idea", "i1"}, &got))
}
