package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/photogram/config"
	"github.com/d60-Lab/photogram/internal/api/handler"
	"github.com/d60-Lab/photogram/internal/api/router"
	"github.com/d60-Lab/photogram/internal/auth"
	"github.com/d60-Lab/photogram/internal/cache"
	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/internal/service"
	"github.com/d60-Lab/photogram/pkg/database"
	"github.com/d60-Lab/photogram/pkg/logger"
	"github.com/d60-Lab/photogram/pkg/tracing"
)

// @title Photogram API
// @version 1.0
// @description 图片分享：帖子、评论、点赞、关注与互动流
// @host localhost:8080
// @BasePath /
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return err
	}
	defer logger.Sync()
	gin.SetMode(cfg.Server.Mode)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer database.Close(db)

	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	var reactionCache service.ReactionCache
	if rdb != nil {
		defer rdb.Close()
		reactionCache = cache.NewReactionCache(rdb, cfg.Reactions.CacheTTL)
	}

	store, err := media.NewLocalStore(cfg.Upload.Dir, cfg.Upload.URLPrefix)
	if err != nil {
		return err
	}
	processor := media.NewProcessor(cfg.Upload.MaxSide, cfg.Upload.Quality)
	janitor := service.NewMediaJanitor(store, cfg.Janitor.QueueSize)
	stopJanitor := janitor.Start(cfg.Janitor.Workers)

	// repositories
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	tagRepo := repository.NewTagRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	// services
	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Expiration)
	reactionSvc := service.NewReactionService(userRepo, reactionRepo, reactionCache, store, cfg.Reactions.MaxItems)
	relSvc := service.NewRelationshipService(subRepo, userRepo, store, reactionSvc)
	postSvc := service.NewPostService(postRepo, likeRepo, commentRepo, tagRepo, processor, store, janitor, reactionSvc)
	svc := handler.Services{
		Auth:      service.NewAuthService(userRepo, tokens),
		Users:     service.NewUserService(userRepo, postSvc, relSvc, processor, store, janitor),
		Posts:     postSvc,
		Comments:  service.NewCommentService(commentRepo, likeRepo, postRepo, reactionSvc),
		Relations: relSvc,
		Reactions: reactionSvc,
	}

	if err := handler.RegisterValidators(); err != nil {
		return err
	}
	h := handler.NewHandler(svc, tokens, cfg.JWT, cfg.Upload)
	engine := router.Setup(cfg, h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := stopJanitor(shutdownCtx); err != nil {
		logger.Warn("media janitor stop", zap.Error(err))
	}
	return nil
}
