package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/pkg/logger"
	"github.com/d60-Lab/photogram/pkg/timeago"
)

var tracer = otel.Tracer("github.com/d60-Lab/photogram/internal/service")

// ReactionCache 互动流缓存，nil 表示不使用缓存
type ReactionCache interface {
	Get(ctx context.Context, userID string) ([]model.Reaction, bool, error)
	Set(ctx context.Context, userID string, items []model.Reaction) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

// ReactionInvalidator 写操作完成后让受影响用户的互动流缓存失效
type ReactionInvalidator interface {
	Invalidate(ctx context.Context, userIDs ...string)
}

// ReactionService 聚合用户收到的评论、点赞、关注
type ReactionService interface {
	ReactionInvalidator
	// List 仅本人可查看，其他人返回 ErrForbidden
	List(ctx context.Context, viewerID, username string) (*ReactionFeed, error)
}

type reactionService struct {
	users     repository.UserRepository
	reactions repository.ReactionRepository
	cache     ReactionCache
	store     media.Store
	maxItems  int
	now       func() time.Time
}

func NewReactionService(users repository.UserRepository, reactions repository.ReactionRepository, cache ReactionCache, store media.Store, maxItems int) ReactionService {
	if maxItems <= 0 {
		maxItems = 200
	}
	return &reactionService{users: users, reactions: reactions, cache: cache, store: store, maxItems: maxItems, now: time.Now}
}

func (s *reactionService) List(ctx context.Context, viewerID, username string) (*ReactionFeed, error) {
	ctx, span := tracer.Start(ctx, "ReactionService.List",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("username", username)))
	defer span.End()

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if user.ID != viewerID {
		return nil, ErrForbidden
	}
	span.SetAttributes(attribute.String("user.id", user.ID))

	items, hit := s.cached(ctx, user.ID)
	if !hit {
		items, err = s.reactions.ListForUser(ctx, user.ID, s.maxItems)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list reactions")
			return nil, err
		}
		if s.cache != nil {
			if err := s.cache.Set(ctx, user.ID, items); err != nil {
				logger.Warn("reaction cache set failed", zap.String("user", user.ID), zap.Error(err))
			}
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", hit), attribute.Int("reactions.count", len(items)))

	now := s.now()
	feed := &ReactionFeed{User: toUserSummary(*user, s.store), Items: make([]ReactionItem, 0, len(items))}
	for _, it := range items {
		feed.Items = append(feed.Items, ReactionItem{Reaction: it, CreatedAgo: timeago.Since(it.CreatedAt, now)})
	}
	return feed, nil
}

func (s *reactionService) cached(ctx context.Context, userID string) ([]model.Reaction, bool) {
	if s.cache == nil {
		return nil, false
	}
	items, ok, err := s.cache.Get(ctx, userID)
	if err != nil {
		logger.Warn("reaction cache get failed", zap.String("user", userID), zap.Error(err))
		return nil, false
	}
	return items, ok
}

// Invalidate 缓存失败只记录日志，不影响写操作结果
func (s *reactionService) Invalidate(ctx context.Context, userIDs ...string) {
	if s.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		logger.Warn("reaction cache invalidate failed", zap.Strings("users", userIDs), zap.Error(err))
	}
}
