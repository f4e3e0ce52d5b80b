package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/internal/model"
)

type PostRepository interface {
	// Create 同一事务内写入 post 并关联标签
	Create(ctx context.Context, post *model.Post, tagNames []string) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// GetDetail 预加载作者、标签、评论及评论作者
	GetDetail(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]*model.Post, int64, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Post, int64, error)
	ListByTag(ctx context.Context, tagID uint, offset, limit int) ([]*model.Post, int64, error)
	UpdateDescription(ctx context.Context, id, description string) error
	AddTags(ctx context.Context, postID string, tagNames []string) error
	RemoveTag(ctx context.Context, postID string, tagID uint) error
	// Delete 级联删除评论、评论点赞、帖子点赞、标签关联
	Delete(ctx context.Context, id string) error
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return attachTags(tx, post, tagNames)
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("User").Preload("Tags").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetDetail(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("comments.created_at ASC, comments.id ASC") }).
		Preload("Comments.User").
		First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, offset, limit int) ([]*model.Post, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.Post{}), offset, limit)
}

func (r *postRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]*model.Post, int64, error) {
	return r.page(r.db.WithContext(ctx).Model(&model.Post{}).Where("posts.user_id = ?", userID), offset, limit)
}

func (r *postRepository) ListByTag(ctx context.Context, tagID uint, offset, limit int) ([]*model.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Post{}).
		Joins("JOIN post_tags ON post_tags.post_id = posts.id").
		Where("post_tags.tag_id = ?", tagID)
	return r.page(q, offset, limit)
}

func (r *postRepository) page(q *gorm.DB, offset, limit int) ([]*model.Post, int64, error) {
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []*model.Post
	err := q.Session(&gorm.Session{}).
		Preload("User").
		Preload("Tags").
		Order("posts.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) UpdateDescription(ctx context.Context, id, description string) error {
	res := r.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("description", description)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postRepository) AddTags(ctx context.Context, postID string, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Select("id").First(&post, "id = ?", postID).Error; err != nil {
			return err
		}
		return attachTags(tx, &post, tagNames)
	})
}

func (r *postRepository) RemoveTag(ctx context.Context, postID string, tagID uint) error {
	// 只删除关联，标签本身保留
	return r.db.WithContext(ctx).Exec("DELETE FROM post_tags WHERE post_id = ? AND tag_id = ?", postID, tagID).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.LikeComment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.LikePost{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_tags WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// attachTags 关联为集合：重复的 (post_id, tag_id) 被忽略
func attachTags(tx *gorm.DB, post *model.Post, tagNames []string) error {
	if len(tagNames) == 0 {
		return nil
	}
	tags, err := findOrCreateTags(tx, tagNames)
	if err != nil {
		return err
	}
	rows := make([]map[string]interface{}, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, map[string]interface{}{"post_id": post.ID, "tag_id": t.ID})
	}
	if err := tx.Table("post_tags").Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return err
	}
	post.Tags = tags
	return nil
}
