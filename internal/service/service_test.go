package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/photogram/internal/auth"
	"github.com/d60-Lab/photogram/internal/cache"
	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/internal/testutil"
)

type testEnv struct {
	db        *gorm.DB
	store     *media.MemoryStore
	janitor   *MediaJanitor
	stop      func()
	redis     *miniredis.Miniredis
	cache     *cache.ReactionCache
	auth      AuthService
	users     UserService
	posts     PostService
	comments  CommentService
	relations RelationshipService
	reactions ReactionService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	store := media.NewMemoryStore()
	processor := media.NewProcessor(800, 85)
	janitor := NewMediaJanitor(store, 16)
	stopFn := janitor.Start(1)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rc := cache.NewReactionCache(client, time.Minute)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	reactions := NewReactionService(userRepo, repository.NewReactionRepository(db), rc, store, 200)
	relations := NewRelationshipService(repository.NewSubscriptionRepository(db), userRepo, store, reactions)
	posts := NewPostService(postRepo, likeRepo, commentRepo, repository.NewTagRepository(db), processor, store, janitor, reactions)
	authSvc := NewAuthService(userRepo, auth.NewTokenIssuer("secret", time.Hour))
	authSvc.(*authService).cost = bcrypt.MinCost

	env := &testEnv{
		db:        db,
		store:     store,
		janitor:   janitor,
		redis:     mr,
		cache:     rc,
		auth:      authSvc,
		users:     NewUserService(userRepo, posts, relations, processor, store, janitor),
		posts:     posts,
		comments:  NewCommentService(commentRepo, likeRepo, postRepo, reactions),
		relations: relations,
		reactions: reactions,
	}
	stopped := false
	env.stop = func() {
		if !stopped {
			stopped = true
			_ = stopFn(context.Background())
		}
	}
	t.Cleanup(env.stop)
	return env
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 120, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
