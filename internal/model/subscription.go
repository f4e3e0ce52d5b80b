package model

import "time"

// Subscription 关注关系（Follower 关注 Followed）
type Subscription struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_sub_pair,unique;not null"`
	Follower   User   `gorm:"constraint:OnDelete:CASCADE"`
	FollowedID string `gorm:"type:varchar(36);not null;index:idx_sub_pair,unique;index:idx_sub_followed"`
	Followed   User   `gorm:"constraint:OnDelete:CASCADE"`
	// 复合唯一键，避免重复关注
	// idx_sub_pair = (follower_id, followed_id)
	CreatedAt time.Time `gorm:"index"`
}

func (Subscription) TableName() string { return "subscriptions" }
