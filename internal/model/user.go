package model

import "time"

// User 用户
type User struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Username  string `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email     string `gorm:"type:varchar(254);index"`
	Password  string `gorm:"type:varchar(255);not null"` // bcrypt hash
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Nickname  string `gorm:"type:varchar(64)"`
	Biography string `gorm:"type:varchar(512)"`
	Image     string `gorm:"type:varchar(255)"` // 头像存储 key，空表示未上传
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
