package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/internal/model"
)

// ToggleResult 切换后的状态：Active 为 true 表示关系已建立；Count 为目标当前总数
type ToggleResult struct {
	Active bool
	Count  int64
}

type LikeRepository interface {
	// TogglePostLike 同一事务内"有则删、无则插"，post 不存在返回 gorm.ErrRecordNotFound
	TogglePostLike(ctx context.Context, userID, postID string) (ToggleResult, error)
	ToggleCommentLike(ctx context.Context, userID string, commentID uint) (ToggleResult, error)
	CountPostLikes(ctx context.Context, postID string) (int64, error)
	CountPostLikesByIDs(ctx context.Context, postIDs []string) (map[string]int64, error)
	HasLikedPost(ctx context.Context, userID, postID string) (bool, error)
	CountCommentLikes(ctx context.Context, commentIDs []uint) (map[uint]int64, error)
	LikedComments(ctx context.Context, userID string, commentIDs []uint) (map[uint]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) TogglePostLike(ctx context.Context, userID, postID string) (ToggleResult, error) {
	var res ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
			return err
		}
		del := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.LikePost{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			like := &model.LikePost{ID: uuid.New().String(), UserID: userID, PostID: postID}
			// 并发请求先插入时冲突被忽略，结果同样是"已点赞"
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return err
			}
			res.Active = true
		}
		return tx.Model(&model.LikePost{}).Where("post_id = ?", postID).Count(&res.Count).Error
	})
	return res, err
}

func (r *likeRepository) ToggleCommentLike(ctx context.Context, userID string, commentID uint) (ToggleResult, error) {
	var res ToggleResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Select("id").First(&comment, "id = ?", commentID).Error; err != nil {
			return err
		}
		del := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Delete(&model.LikeComment{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			like := &model.LikeComment{ID: uuid.New().String(), UserID: userID, CommentID: commentID}
			if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				return err
			}
			res.Active = true
		}
		return tx.Model(&model.LikeComment{}).Where("comment_id = ?", commentID).Count(&res.Count).Error
	})
	return res, err
}

func (r *likeRepository) CountPostLikes(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.LikePost{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) CountPostLikesByIDs(ctx context.Context, postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID string
		Cnt    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.LikePost{}).
		Select("post_id, COUNT(*) AS cnt").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.Cnt
	}
	return out, nil
}

func (r *likeRepository) HasLikedPost(ctx context.Context, userID, postID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.LikePost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *likeRepository) CountCommentLikes(ctx context.Context, commentIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CommentID uint
		Cnt       int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.LikeComment{}).
		Select("comment_id, COUNT(*) AS cnt").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CommentID] = row.Cnt
	}
	return out, nil
}

func (r *likeRepository) LikedComments(ctx context.Context, userID string, commentIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(commentIDs))
	if userID == "" || len(commentIDs) == 0 {
		return out, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&model.LikeComment{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}
