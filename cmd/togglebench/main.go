package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/config"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

// run 用 conc 个 goroutine 对同一批 pair 并发切换 rounds 次，返回每次耗时与错误数
func run(conc, rounds int, op func(worker, round int) error) ([]time.Duration, int) {
	var (
		mu   sync.Mutex
		recs = make([]time.Duration, 0, conc*rounds)
		errs int
		wg   sync.WaitGroup
	)
	for w := 0; w < conc; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := make([]time.Duration, 0, rounds)
			failed := 0
			for i := 0; i < rounds; i++ {
				st := time.Now()
				if err := op(w, i); err != nil {
					failed++
				}
				local = append(local, time.Since(st))
			}
			mu.Lock()
			recs = append(recs, local...)
			errs += failed
			mu.Unlock()
		}(w)
	}
	wg.Wait()
	return recs, errs
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	ctx := context.Background()

	users := envInt("USERS", 20)
	conc := envInt("CONC", 8)
	rounds := envInt("ROUNDS", 50)

	// seed: owner 发一条帖子，其余用户对它点赞、关注 owner
	suffix := uuid.NewString()[:8]
	owner := model.User{ID: uuid.NewString(), Username: "bench_owner_" + suffix, Password: "p"}
	must(0, db.Create(&owner).Error)
	post := model.Post{ID: uuid.NewString(), UserID: owner.ID, Image: "bench.jpg"}
	must(0, db.Omit(clause.Associations).Create(&post).Error)
	actors := make([]model.User, users)
	for i := range actors {
		id := uuid.NewString()
		actors[i] = model.User{ID: id, Username: fmt.Sprintf("bench_%s_%d", suffix, i), Password: "p"}
	}
	must(0, db.CreateInBatches(&actors, 500).Error)

	t0 := time.Now()
	likeRecs, likeErrs := run(conc, rounds, func(w, i int) error {
		_, err := likeRepo.TogglePostLike(ctx, actors[(w+i)%users].ID, post.ID)
		return err
	})
	likeDur := time.Since(t0)

	t1 := time.Now()
	followRecs, followErrs := run(conc, rounds, func(w, i int) error {
		_, err := subRepo.Toggle(ctx, actors[(w+i)%users].ID, owner.ID)
		return err
	})
	followDur := time.Since(t1)

	// 校验：任一 pair 最多一行
	var dupLikes, dupSubs int64
	must(0, db.Raw(`SELECT COUNT(*) FROM (SELECT user_id FROM like_posts WHERE post_id = ? GROUP BY user_id HAVING COUNT(*) > 1) d`, post.ID).Scan(&dupLikes).Error)
	must(0, db.Raw(`SELECT COUNT(*) FROM (SELECT follower_id FROM subscriptions WHERE followed_id = ? GROUP BY follower_id HAVING COUNT(*) > 1) d`, owner.ID).Scan(&dupSubs).Error)
	likes := must(likeRepo.CountPostLikes(ctx, post.ID))
	followers := must(subRepo.CountFollowers(ctx, owner.ID))

	ops := conc * rounds
	fmt.Printf("USERS=%d, CONC=%d, ROUNDS=%d\n", users, conc, rounds)
	fmt.Printf("Like toggle total: %v, per op: %v, p50: %v, p95: %v, p99: %v, errors: %d\n",
		likeDur, likeDur/time.Duration(ops), pct(likeRecs, 0.50), pct(likeRecs, 0.95), pct(likeRecs, 0.99), likeErrs)
	fmt.Printf("Follow toggle total: %v, per op: %v, p50: %v, p95: %v, p99: %v, errors: %d\n",
		followDur, followDur/time.Duration(ops), pct(followRecs, 0.50), pct(followRecs, 0.95), pct(followRecs, 0.99), followErrs)
	fmt.Printf("Final likes=%d followers=%d duplicate like pairs=%d duplicate follow pairs=%d\n", likes, followers, dupLikes, dupSubs)
	if dupLikes > 0 || dupSubs > 0 {
		os.Exit(1)
	}
}
