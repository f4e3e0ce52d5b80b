package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/internal/model"
)

type SubscriptionRepository interface {
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	// Toggle 已关注则取消，否则关注；followed 不存在返回 gorm.ErrRecordNotFound
	Toggle(ctx context.Context, followerID, followedID string) (ToggleResult, error)
	ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.Subscription, error)
	ListFollowers(ctx context.Context, followedID string, offset, limit int) ([]*model.Subscription, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Subscription{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *subscriptionRepository) Toggle(ctx context.Context, followerID, followedID string) (ToggleResult, error) {
	var res ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var followed model.User
		if err := tx.Select("id").First(&followed, "id = ?", followedID).Error; err != nil {
			return err
		}
		del := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&model.Subscription{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			s := &model.Subscription{ID: uuid.New().String(), FollowerID: followerID, FollowedID: followedID}
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(s).Error; err != nil {
				return err
			}
			res.Active = true
		}
		return tx.Model(&model.Subscription{}).Where("followed_id = ?", followedID).Count(&res.Count).Error
	})
	return res, err
}

func (r *subscriptionRepository) ListFollowing(ctx context.Context, followerID string, offset, limit int) ([]*model.Subscription, error) {
	var res []*model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Followed").
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *subscriptionRepository) ListFollowers(ctx context.Context, followedID string, offset, limit int) ([]*model.Subscription, error) {
	var res []*model.Subscription
	err := r.db.WithContext(ctx).
		Preload("Follower").
		Where("followed_id = ?", followedID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *subscriptionRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("followed_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *subscriptionRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
