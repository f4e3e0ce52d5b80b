package model

import "time"

// Comment 帖子评论，随帖子级联删除
type Comment struct {
	ID        uint          `gorm:"primaryKey"`
	UserID    string        `gorm:"type:varchar(36);index;not null"`
	User      User          `gorm:"constraint:OnDelete:CASCADE"`
	PostID    string        `gorm:"type:varchar(36);index:idx_comment_post_created;not null"`
	Text      string        `gorm:"type:varchar(512);not null"`
	CreatedAt time.Time     `gorm:"index:idx_comment_post_created"`
	UpdatedAt time.Time
	Likes     []LikeComment `gorm:"constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comments" }
