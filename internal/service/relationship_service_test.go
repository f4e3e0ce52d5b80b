package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/testutil"
)

func TestToggleFollow_SelfIsNoop(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.db, "u")

	following, err := env.relations.ToggleFollow(ctx, u.ID, u.ID)
	require.NoError(t, err)
	assert.False(t, following)

	var n int64
	require.NoError(t, env.db.Model(&model.Subscription{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestToggleFollow_Scenario(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, env.db, "u")
	v := testutil.CreateUser(t, env.db, "v")

	following, err := env.relations.ToggleFollow(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, following)

	ok, err := env.relations.IsFollowing(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	followers, err := env.relations.ListFollowers(ctx, "v", 1, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, u.ID, followers[0].ID)

	followingList, err := env.relations.ListFollowing(ctx, "u", 1, 10)
	require.NoError(t, err)
	require.Len(t, followingList, 1)
	assert.Equal(t, "v", followingList[0].Username)

	fc, gc, err := env.relations.Counts(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fc)
	assert.Zero(t, gc)

	following, err = env.relations.ToggleFollow(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, following)

	var n int64
	require.NoError(t, env.db.Model(&model.Subscription{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestToggleFollow_UnknownUser(t *testing.T) {
	env := newEnv(t)
	u := testutil.CreateUser(t, env.db, "u")

	_, err := env.relations.ToggleFollow(context.Background(), u.ID, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.relations.ListFollowers(context.Background(), "ghost", 1, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}
