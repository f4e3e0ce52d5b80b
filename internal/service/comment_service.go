package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/repository"
)

const maxCommentLength = 512

// CommentService 评论的增删改与点赞；修改类操作都返回所属帖子 ID，便于跳转回帖子页
type CommentService interface {
	Create(ctx context.Context, userID, postID, text string) (*model.Comment, error)
	Update(ctx context.Context, userID string, commentID uint, text string) (postID string, err error)
	Delete(ctx context.Context, userID string, commentID uint) (postID string, err error)
	ToggleLike(ctx context.Context, userID string, commentID uint) (postID string, res repository.ToggleResult, err error)
}

type commentService struct {
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	posts     repository.PostRepository
	reactions ReactionInvalidator
}

func NewCommentService(comments repository.CommentRepository, likes repository.LikeRepository, posts repository.PostRepository, reactions ReactionInvalidator) CommentService {
	return &commentService{comments: comments, likes: likes, posts: posts, reactions: reactions}
}

func validateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fieldError("text", "This field is required.")
	}
	if len([]rune(text)) > maxCommentLength {
		return fieldError("text", "Ensure this value has at most 512 characters.")
	}
	return nil
}

func (s *commentService) Create(ctx context.Context, userID, postID, text string) (*model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if err := validateCommentText(text); err != nil {
		return nil, err
	}
	c := &model.Comment{UserID: userID, PostID: postID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, mapNotFound(err)
	}
	s.invalidate(ctx, post.UserID)
	return c, nil
}

// authored 加载评论并校验作者；非作者时仍返回帖子 ID
func (s *commentService) authored(ctx context.Context, userID string, commentID uint) (*model.Comment, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if userID == "" || c.UserID != userID {
		return c, ErrForbidden
	}
	return c, nil
}

func (s *commentService) Update(ctx context.Context, userID string, commentID uint, text string) (string, error) {
	c, err := s.authored(ctx, userID, commentID)
	if err != nil {
		return postIDOf(c), err
	}
	if err := validateCommentText(text); err != nil {
		return c.PostID, err
	}
	if err := s.comments.UpdateText(ctx, commentID, text); err != nil {
		return c.PostID, mapNotFound(err)
	}
	s.invalidateThread(ctx, c)
	return c.PostID, nil
}

func (s *commentService) Delete(ctx context.Context, userID string, commentID uint) (string, error) {
	c, err := s.authored(ctx, userID, commentID)
	if err != nil {
		return postIDOf(c), err
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return c.PostID, mapNotFound(err)
	}
	s.invalidateThread(ctx, c)
	return c.PostID, nil
}

func (s *commentService) ToggleLike(ctx context.Context, userID string, commentID uint) (string, repository.ToggleResult, error) {
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return "", repository.ToggleResult{}, mapNotFound(err)
	}
	res, err := s.likes.ToggleCommentLike(ctx, userID, commentID)
	if err != nil {
		return c.PostID, repository.ToggleResult{}, mapNotFound(err)
	}
	s.invalidate(ctx, c.UserID)
	return c.PostID, res, nil
}

// invalidateThread 帖子作者的流里有这条评论，评论作者的流里有它收到的点赞
func (s *commentService) invalidateThread(ctx context.Context, c *model.Comment) {
	if s.reactions == nil {
		return
	}
	ids := []string{c.UserID}
	if post, err := s.posts.GetByID(ctx, c.PostID); err == nil && post.UserID != c.UserID {
		ids = append(ids, post.UserID)
	}
	s.reactions.Invalidate(ctx, ids...)
}

func (s *commentService) invalidate(ctx context.Context, userIDs ...string) {
	if s.reactions != nil {
		s.reactions.Invalidate(ctx, userIDs...)
	}
}

func postIDOf(c *model.Comment) string {
	if c == nil {
		return ""
	}
	return c.PostID
}
