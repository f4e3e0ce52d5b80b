package model

import "time"

// Post 图片帖子
type Post struct {
	ID          string     `gorm:"primaryKey;type:varchar(36)"`
	UserID      string     `gorm:"type:varchar(36);index:idx_post_user_created;not null"`
	User        User       `gorm:"constraint:OnDelete:CASCADE"`
	Image       string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:varchar(1024)"`
	CreatedAt   time.Time  `gorm:"index:idx_post_user_created;index"`
	UpdatedAt   time.Time
	Tags        []Tag      `gorm:"many2many:post_tags;constraint:OnDelete:CASCADE"`
	Comments    []Comment  `gorm:"constraint:OnDelete:CASCADE"`
	Likes       []LikePost `gorm:"constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string { return "posts" }
