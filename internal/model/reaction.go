package model

import "time"

// ReactionKind 互动类型
type ReactionKind string

const (
	ReactionComment     ReactionKind = "comment"
	ReactionPostLike    ReactionKind = "post_like"
	ReactionCommentLike ReactionKind = "comment_like"
	ReactionFollow      ReactionKind = "follow"
)

// Reaction 用户收到的一条互动（非数据表，由聚合查询产生，可序列化进缓存）
type Reaction struct {
	Kind          ReactionKind `json:"kind"`
	CreatedAt     time.Time    `json:"created_at"`
	ActorID       string       `json:"actor_id"`
	ActorUsername string       `json:"actor_username"`
	PostID        string       `json:"post_id,omitempty"`
	CommentID     uint         `json:"comment_id,omitempty"`
	Text          string       `json:"text,omitempty"`
}
