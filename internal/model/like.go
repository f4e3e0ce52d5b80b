package model

import "time"

// LikePost 帖子点赞，行存在即已点赞
type LikePost struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);not null;index:idx_like_post_pair,unique"`
	User   User   `gorm:"constraint:OnDelete:CASCADE"`
	PostID string `gorm:"type:varchar(36);not null;index:idx_like_post_pair,unique;index:idx_like_post_target"`
	// idx_like_post_pair = (user_id, post_id)
	CreatedAt time.Time `gorm:"index"`
}

func (LikePost) TableName() string { return "like_posts" }

// LikeComment 评论点赞
type LikeComment struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);not null;index:idx_like_comment_pair,unique"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	CommentID uint   `gorm:"not null;index:idx_like_comment_pair,unique;index:idx_like_comment_target"`
	// idx_like_comment_pair = (user_id, comment_id)
	CreatedAt time.Time `gorm:"index"`
}

func (LikeComment) TableName() string { return "like_comments" }
