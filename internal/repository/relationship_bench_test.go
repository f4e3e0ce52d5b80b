package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/testutil"
)

func BenchmarkToggleFollowAndLike(b *testing.B) {
	db := testutil.NewDB(b)
	subRepo := NewSubscriptionRepository(db)
	likeRepo := NewLikeRepository(db)
	ctx := context.Background()

	// 预创建部分用户和一条帖子
	users := make([]*model.User, 200)
	for i := range users {
		users[i] = testutil.CreateUser(b, db, fmt.Sprintf("u%04d", i))
	}
	post := testutil.CreatePost(b, db, users[0], time.Time{})

	rnd := rand.New(rand.NewSource(1))
	b.ResetTimer()
	b.Run("ToggleFollow", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			from := users[rnd.Intn(len(users))].ID
			to := users[rnd.Intn(len(users))].ID
			if from == to {
				continue
			}
			_, _ = subRepo.Toggle(ctx, from, to)
		}
	})
	b.Run("TogglePostLike", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = likeRepo.TogglePostLike(ctx, users[rnd.Intn(len(users))].ID, post.ID)
		}
	})
}

func BenchmarkQueryFollowersAndReactions(b *testing.B) {
	db := testutil.NewDB(b)
	subRepo := NewSubscriptionRepository(db)
	reactionRepo := NewReactionRepository(db)
	ctx := context.Background()

	// 构造：u0 有 N 个粉丝，每个粉丝给 u0 的帖子点赞并评论
	const N = 1000
	u0 := testutil.CreateUser(b, db, "u0")
	post := testutil.CreatePost(b, db, u0, time.Time{})
	likeRepo := NewLikeRepository(db)
	for i := 1; i <= N; i++ {
		u := testutil.CreateUser(b, db, fmt.Sprintf("u%d", i))
		_, _ = subRepo.Toggle(ctx, u.ID, u0.ID)
		_, _ = likeRepo.TogglePostLike(ctx, u.ID, post.ID)
		testutil.CreateComment(b, db, u, post, "nice", time.Time{})
	}

	b.ResetTimer()
	b.Run("ListFollowers", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = subRepo.ListFollowers(ctx, u0.ID, 0, 50)
		}
	})
	b.Run("ListReactions", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = reactionRepo.ListForUser(ctx, u0.ID, 200)
		}
	})
}
