package service

import (
	"context"

	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/repository"
)

// RelationshipService 关注关系服务
type RelationshipService interface {
	// ToggleFollow 已关注则取消，未关注则关注；返回切换后是否关注。关注自己不做任何修改并返回 false
	ToggleFollow(ctx context.Context, followerID, followedID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followedID string) (bool, error)
	ListFollowing(ctx context.Context, username string, page, pageSize int) ([]UserSummary, error)
	ListFollowers(ctx context.Context, username string, page, pageSize int) ([]UserSummary, error)
	Counts(ctx context.Context, userID string) (followers, following int64, err error)
}

type relationshipService struct {
	subs      repository.SubscriptionRepository
	users     repository.UserRepository
	store     media.Store
	reactions ReactionInvalidator
}

func NewRelationshipService(subs repository.SubscriptionRepository, users repository.UserRepository, store media.Store, reactions ReactionInvalidator) RelationshipService {
	return &relationshipService{subs: subs, users: users, store: store, reactions: reactions}
}

func (s *relationshipService) ToggleFollow(ctx context.Context, followerID, followedID string) (bool, error) {
	if followerID == followedID {
		if _, err := s.users.GetByID(ctx, followedID); err != nil {
			return false, mapNotFound(err)
		}
		return false, nil
	}
	res, err := s.subs.Toggle(ctx, followerID, followedID)
	if err != nil {
		return false, mapNotFound(err)
	}
	if s.reactions != nil {
		s.reactions.Invalidate(ctx, followedID)
	}
	return res.Active, nil
}

func (s *relationshipService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	if followerID == "" || followerID == followedID {
		return false, nil
	}
	return s.subs.Exists(ctx, followerID, followedID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, username string, page, pageSize int) ([]UserSummary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapNotFound(err)
	}
	offset, _, size := normalizePage(page, pageSize)
	items, err := s.subs.ListFollowing(ctx, user.ID, offset, size)
	if err != nil {
		return nil, err
	}
	res := make([]UserSummary, len(items))
	for i, it := range items {
		res[i] = toUserSummary(it.Followed, s.store)
	}
	return res, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, username string, page, pageSize int) ([]UserSummary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapNotFound(err)
	}
	offset, _, size := normalizePage(page, pageSize)
	items, err := s.subs.ListFollowers(ctx, user.ID, offset, size)
	if err != nil {
		return nil, err
	}
	res := make([]UserSummary, len(items))
	for i, it := range items {
		res[i] = toUserSummary(it.Follower, s.store)
	}
	return res, nil
}

func (s *relationshipService) Counts(ctx context.Context, userID string) (int64, int64, error) {
	followers, err := s.subs.CountFollowers(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	following, err := s.subs.CountFollowing(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
