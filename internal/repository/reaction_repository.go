package repository

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/photogram/internal/model"
)

type ReactionRepository interface {
	// ListForUser 汇总用户收到的评论、帖子点赞、评论点赞、新粉丝，按时间倒序。
	// limit > 0 时每一路只取最新 limit 条，合并后再截断，结果即全局前 limit 条。
	ListForUser(ctx context.Context, userID string, limit int) ([]model.Reaction, error)
}

type reactionRepository struct{ db *gorm.DB }

func NewReactionRepository(db *gorm.DB) ReactionRepository { return &reactionRepository{db: db} }

type reactionRow struct {
	ActorID       string
	ActorUsername string
	PostID        string
	CommentID     uint
	Text          string
	CreatedAt     time.Time
}

func (r *reactionRepository) ListForUser(ctx context.Context, userID string, limit int) ([]model.Reaction, error) {
	db := r.db.WithContext(ctx)

	sources := []struct {
		kind  model.ReactionKind
		query *gorm.DB
	}{
		{
			kind: model.ReactionComment,
			query: db.Table("comments").
				Select("comments.user_id AS actor_id, users.username AS actor_username, comments.post_id AS post_id, comments.id AS comment_id, comments.text AS text, comments.created_at AS created_at").
				Joins("JOIN posts ON posts.id = comments.post_id").
				Joins("JOIN users ON users.id = comments.user_id").
				Where("posts.user_id = ?", userID).
				Order("comments.created_at DESC"),
		},
		{
			kind: model.ReactionPostLike,
			query: db.Table("like_posts").
				Select("like_posts.user_id AS actor_id, users.username AS actor_username, like_posts.post_id AS post_id, like_posts.created_at AS created_at").
				Joins("JOIN posts ON posts.id = like_posts.post_id").
				Joins("JOIN users ON users.id = like_posts.user_id").
				Where("posts.user_id = ?", userID).
				Order("like_posts.created_at DESC"),
		},
		{
			kind: model.ReactionCommentLike,
			query: db.Table("like_comments").
				Select("like_comments.user_id AS actor_id, users.username AS actor_username, comments.post_id AS post_id, comments.id AS comment_id, comments.text AS text, like_comments.created_at AS created_at").
				Joins("JOIN comments ON comments.id = like_comments.comment_id").
				Joins("JOIN users ON users.id = like_comments.user_id").
				Where("comments.user_id = ?", userID).
				Order("like_comments.created_at DESC"),
		},
		{
			kind: model.ReactionFollow,
			query: db.Table("subscriptions").
				Select("subscriptions.follower_id AS actor_id, users.username AS actor_username, subscriptions.created_at AS created_at").
				Joins("JOIN users ON users.id = subscriptions.follower_id").
				Where("subscriptions.followed_id = ?", userID).
				Order("subscriptions.created_at DESC"),
		},
	}

	var out []model.Reaction
	for _, src := range sources {
		q := src.query
		if limit > 0 {
			q = q.Limit(limit)
		}
		var rows []reactionRow
		if err := q.Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			out = append(out, model.Reaction{
				Kind:          src.kind,
				CreatedAt:     row.CreatedAt,
				ActorID:       row.ActorID,
				ActorUsername: row.ActorUsername,
				PostID:        row.PostID,
				CommentID:     row.CommentID,
				Text:          row.Text,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
