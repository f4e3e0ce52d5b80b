package service

import (
	"time"

	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/pkg/timeago"
)

// UserSummary 列表、评论中展示的作者信息
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Image     string `json:"image,omitempty"`
}

// UserProfile 用户主页资料
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Nickname  string    `json:"nickname"`
	Biography string    `json:"biography"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileForm 资料编辑表单的当前值
type ProfileForm struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Biography string `json:"biography"`
	Image     string `json:"image"`
}

type TagView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type PostSummary struct {
	ID            string      `json:"id"`
	Image         string      `json:"image"`
	Description   string      `json:"description"`
	Author        UserSummary `json:"author"`
	Tags          []TagView   `json:"tags"`
	LikesCount    int64       `json:"likes_count"`
	CommentsCount int64       `json:"comments_count"`
	CreatedAt     time.Time   `json:"created_at"`
	CreatedAgo    string      `json:"created_ago"`
}

type CommentView struct {
	ID         uint        `json:"id"`
	Text       string      `json:"text"`
	Author     UserSummary `json:"author"`
	LikesCount int64       `json:"likes_count"`
	Liked      bool        `json:"liked"`
	CreatedAt  time.Time   `json:"created_at"`
	CreatedAgo string      `json:"created_ago"`
}

type PostDetail struct {
	PostSummary
	Liked    bool          `json:"liked"`
	IsOwner  bool          `json:"is_owner"`
	Comments []CommentView `json:"comments"`
}

type PostPage struct {
	Items    []PostSummary `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

type TagPage struct {
	Tag   TagView  `json:"tag"`
	Posts PostPage `json:"posts"`
}

type ProfileView struct {
	User           UserProfile `json:"user"`
	Posts          PostPage    `json:"posts"`
	FollowersCount int64       `json:"followers_count"`
	FollowingCount int64       `json:"following_count"`
	IsFollowing    bool        `json:"is_following"`
	IsSelf         bool        `json:"is_self"`
}

type ReactionItem struct {
	model.Reaction
	CreatedAgo string `json:"created_ago"`
}

type ReactionFeed struct {
	User  UserSummary    `json:"user"`
	Items []ReactionItem `json:"items"`
}

func toUserSummary(u model.User, store media.Store) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Nickname:  u.Nickname,
		Image:     store.URL(u.Image),
	}
}

func toTagViews(tags []model.Tag) []TagView {
	out := make([]TagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagView{ID: t.ID, Name: t.Name})
	}
	return out
}

func toPostSummary(p *model.Post, store media.Store, now time.Time) PostSummary {
	return PostSummary{
		ID:          p.ID,
		Image:       store.URL(p.Image),
		Description: p.Description,
		Author:      toUserSummary(p.User, store),
		Tags:        toTagViews(p.Tags),
		CreatedAt:   p.CreatedAt,
		CreatedAgo:  timeago.Since(p.CreatedAt, now),
	}
}
