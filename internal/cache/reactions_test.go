package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/photogram/internal/model"
)

func newTestCache(t *testing.T) (*ReactionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReactionCache(client, 30*time.Second), mr
}

func TestReactionCache_SetGetInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	items := []model.Reaction{{Kind: model.ReactionFollow, CreatedAt: at, ActorID: "u2", ActorUsername: "bob"}}
	require.NoError(t, c.Set(ctx, "u1", items))
	assert.True(t, mr.Exists("reactions:u1"))

	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ActorUsername)
	assert.True(t, got[0].CreatedAt.Equal(at))

	require.NoError(t, c.Invalidate(ctx, "u1", "u3"))
	assert.False(t, mr.Exists("reactions:u1"))

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestReactionCache_Expires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", nil))
	got, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)

	mr.FastForward(time.Minute)
	_, ok, err = c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
