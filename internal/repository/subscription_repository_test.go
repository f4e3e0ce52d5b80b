package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/testutil"
)

func TestSubscriptionToggle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	v := testutil.CreateUser(t, db, "v")

	res, err := repo.Toggle(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, int64(1), res.Count)

	ok, err := repo.Exists(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	followers, err := repo.ListFollowers(ctx, v.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "u", followers[0].Follower.Username)

	following, err := repo.ListFollowing(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "v", following[0].Followed.Username)

	res, err = repo.Toggle(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, res.Active)
	assert.Zero(t, res.Count)

	ok, err = repo.Exists(ctx, u.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscriptionToggle_MissingTarget(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	u := testutil.CreateUser(t, db, "u")

	_, err := repo.Toggle(context.Background(), u.ID, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubscriptionToggle_ThreeTimesLeavesOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	v := testutil.CreateUser(t, db, "v")
	for i := 0; i < 3; i++ {
		_, err := repo.Toggle(ctx, u.ID, v.ID)
		require.NoError(t, err)
	}

	n, err := repo.CountFollowers(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = repo.CountFollowing(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSubscriptionToggle_ConcurrentSamePair(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u")
	v := testutil.CreateUser(t, db, "v")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Toggle(ctx, u.ID, v.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, db.Model(&model.Subscription{}).Where("follower_id = ? AND followed_id = ?", u.ID, v.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}
