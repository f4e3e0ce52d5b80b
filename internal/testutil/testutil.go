// Package testutil 提供基于内存 SQLite 的测试数据库和造数函数
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/config"
	"github.com/d60-Lab/photogram/internal/auth"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/pkg/database"
)

// NewDB 每次返回一个独立的内存库；单连接保证整个测试看到同一份数据
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost createdAt 为零值时使用当前时间
func CreatePost(t testing.TB, db *gorm.DB, owner *model.User, createdAt time.Time) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:          uuid.NewString(),
		UserID:      owner.ID,
		Image:       fmt.Sprintf("%s_%s.jpg", owner.ID, uuid.NewString()[:8]),
		Description: "post by " + owner.Username,
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(p).Error)
	return p
}

func CreateComment(t testing.TB, db *gorm.DB, author *model.User, post *model.Post, text string, createdAt time.Time) *model.Comment {
	t.Helper()
	c := &model.Comment{UserID: author.ID, PostID: post.ID, Text: text, CreatedAt: createdAt}
	require.NoError(t, db.Omit(clause.Associations).Create(c).Error)
	return c
}

// Seeds 造数并签发对应的登录令牌
type Seeds struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
}

func (s *Seeds) User(t testing.TB, username string) (*model.User, string) {
	t.Helper()
	u := CreateUser(t, s.DB, username)
	token, err := s.Tokens.Issue(auth.Principal{UserID: u.ID, Username: u.Username})
	require.NoError(t, err)
	return u, token
}
