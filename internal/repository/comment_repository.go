package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/internal/model"
)

type CommentRepository interface {
	// Create post 不存在返回 gorm.ErrRecordNotFound
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id uint) (*model.Comment, error)
	UpdateText(ctx context.Context, id uint, text string) error
	Delete(ctx context.Context, id uint) error
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, "id = ?", comment.PostID).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(comment).Error
	})
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) UpdateText(ctx context.Context, id uint, text string) error {
	res := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("text", text)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&model.LikeComment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Comment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *commentRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID string
		Cnt    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
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
