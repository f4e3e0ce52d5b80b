package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/pkg/logger"
	"github.com/d60-Lab/photogram/pkg/timeago"
)

const maxTagLength = 64

// MediaRemover 异步删除图片文件
type MediaRemover interface {
	Enqueue(key string) bool
}

type PostService interface {
	Create(ctx context.Context, userID string, image io.Reader, description, tags string) (*model.Post, error)
	Get(ctx context.Context, viewerID, postID string) (*PostDetail, error)
	ListAll(ctx context.Context, page, pageSize int) (*PostPage, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) (*PostPage, error)
	ListByTag(ctx context.Context, tagName string, page, pageSize int) (*TagPage, error)
	// 以下修改操作仅帖子作者可执行，否则返回 ErrForbidden 且不做任何修改
	Delete(ctx context.Context, viewerID, postID string) error
	UpdateDescription(ctx context.Context, viewerID, postID, description string) error
	AddTags(ctx context.Context, viewerID, postID, rawTags string) error
	RemoveTag(ctx context.Context, viewerID, postID string, tagID uint) error
	ToggleLike(ctx context.Context, userID, postID string) (repository.ToggleResult, error)
}

type postService struct {
	posts     repository.PostRepository
	likes     repository.LikeRepository
	comments  repository.CommentRepository
	tags      repository.TagRepository
	processor *media.Processor
	store     media.Store
	janitor   MediaRemover
	reactions ReactionInvalidator
	now       func() time.Time
}

func NewPostService(
	posts repository.PostRepository,
	likes repository.LikeRepository,
	comments repository.CommentRepository,
	tags repository.TagRepository,
	processor *media.Processor,
	store media.Store,
	janitor MediaRemover,
	reactions ReactionInvalidator,
) PostService {
	return &postService{
		posts:     posts,
		likes:     likes,
		comments:  comments,
		tags:      tags,
		processor: processor,
		store:     store,
		janitor:   janitor,
		reactions: reactions,
		now:       time.Now,
	}
}

func (s *postService) Create(ctx context.Context, userID string, image io.Reader, description, tags string) (*model.Post, error) {
	if image == nil {
		return nil, fieldError("image", "This field is required.")
	}
	names, err := parseTags(tags)
	if err != nil {
		return nil, err
	}
	data, err := s.processor.Process(image)
	if err != nil {
		if errors.Is(err, media.ErrInvalidImage) {
			return nil, fieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
		return nil, err
	}

	now := s.now()
	key := fmt.Sprintf("%s_%s_%s.jpg", userID, now.Format("20060102150405"), uuid.NewString()[:8])
	if err := s.store.Save(ctx, key, data); err != nil {
		return nil, fmt.Errorf("save post image: %w", err)
	}

	post := &model.Post{ID: uuid.NewString(), UserID: userID, Image: key, Description: description}
	if err := s.posts.Create(ctx, post, names); err != nil {
		s.removeMedia(key)
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) Get(ctx context.Context, viewerID, postID string) (*PostDetail, error) {
	post, err := s.posts.GetDetail(ctx, postID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	likes, err := s.likes.CountPostLikes(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.HasLikedPost(ctx, viewerID, post.ID)
	if err != nil {
		return nil, err
	}

	commentIDs := make([]uint, 0, len(post.Comments))
	for _, c := range post.Comments {
		commentIDs = append(commentIDs, c.ID)
	}
	commentLikes, err := s.likes.CountCommentLikes(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	likedComments := map[uint]bool{}
	if viewerID != "" {
		if likedComments, err = s.likes.LikedComments(ctx, viewerID, commentIDs); err != nil {
			return nil, err
		}
	}

	now := s.now()
	detail := &PostDetail{
		PostSummary: toPostSummary(post, s.store, now),
		Liked:       liked,
		IsOwner:     viewerID != "" && viewerID == post.UserID,
		Comments:    make([]CommentView, 0, len(post.Comments)),
	}
	detail.LikesCount = likes
	detail.CommentsCount = int64(len(post.Comments))
	for _, c := range post.Comments {
		detail.Comments = append(detail.Comments, CommentView{
			ID:         c.ID,
			Text:       c.Text,
			Author:     toUserSummary(c.User, s.store),
			LikesCount: commentLikes[c.ID],
			Liked:      likedComments[c.ID],
			CreatedAt:  c.CreatedAt,
			CreatedAgo: timeago.Since(c.CreatedAt, now),
		})
	}
	return detail, nil
}

func (s *postService) ListAll(ctx context.Context, page, pageSize int) (*PostPage, error) {
	offset, p, size := normalizePage(page, pageSize)
	posts, total, err := s.posts.List(ctx, offset, size)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, posts, total, p, size)
}

func (s *postService) ListByUser(ctx context.Context, userID string, page, pageSize int) (*PostPage, error) {
	offset, p, size := normalizePage(page, pageSize)
	posts, total, err := s.posts.ListByUser(ctx, userID, offset, size)
	if err != nil {
		return nil, err
	}
	return s.buildPage(ctx, posts, total, p, size)
}

func (s *postService) ListByTag(ctx context.Context, tagName string, page, pageSize int) (*TagPage, error) {
	tag, err := s.tags.GetByName(ctx, tagName)
	if err != nil {
		return nil, mapNotFound(err)
	}
	offset, p, size := normalizePage(page, pageSize)
	posts, total, err := s.posts.ListByTag(ctx, tag.ID, offset, size)
	if err != nil {
		return nil, err
	}
	pp, err := s.buildPage(ctx, posts, total, p, size)
	if err != nil {
		return nil, err
	}
	return &TagPage{Tag: TagView{ID: tag.ID, Name: tag.Name}, Posts: *pp}, nil
}

func (s *postService) buildPage(ctx context.Context, posts []*model.Post, total int64, page, size int) (*PostPage, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	likes, err := s.likes.CountPostLikesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.CountByPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &PostPage{Items: make([]PostSummary, 0, len(posts)), Total: total, Page: page, PageSize: size}
	for _, p := range posts {
		item := toPostSummary(p, s.store, now)
		item.LikesCount = likes[p.ID]
		item.CommentsCount = comments[p.ID]
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// owned 加载帖子并校验作者
func (s *postService) owned(ctx context.Context, viewerID, postID string) (*model.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if viewerID == "" || post.UserID != viewerID {
		return nil, ErrForbidden
	}
	return post, nil
}

func (s *postService) Delete(ctx context.Context, viewerID, postID string) error {
	if _, err := s.owned(ctx, viewerID, postID); err != nil {
		return err
	}
	// 删除前取出评论作者，用于失效他们的互动流
	detail, err := s.posts.GetDetail(ctx, postID)
	if err != nil {
		return mapNotFound(err)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return mapNotFound(err)
	}
	s.removeMedia(detail.Image)

	affected := []string{detail.UserID}
	for _, c := range detail.Comments {
		affected = append(affected, c.UserID)
	}
	if s.reactions != nil {
		s.reactions.Invalidate(ctx, dedup(affected)...)
	}
	return nil
}

func (s *postService) UpdateDescription(ctx context.Context, viewerID, postID, description string) error {
	if _, err := s.owned(ctx, viewerID, postID); err != nil {
		return err
	}
	return mapNotFound(s.posts.UpdateDescription(ctx, postID, description))
}

func (s *postService) AddTags(ctx context.Context, viewerID, postID, rawTags string) error {
	if _, err := s.owned(ctx, viewerID, postID); err != nil {
		return err
	}
	names, err := parseTags(rawTags)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fieldError("tags", "This field is required.")
	}
	return mapNotFound(s.posts.AddTags(ctx, postID, names))
}

func (s *postService) RemoveTag(ctx context.Context, viewerID, postID string, tagID uint) error {
	if _, err := s.owned(ctx, viewerID, postID); err != nil {
		return err
	}
	if _, err := s.tags.GetByID(ctx, tagID); err != nil {
		return mapNotFound(err)
	}
	return s.posts.RemoveTag(ctx, postID, tagID)
}

// parseTags 拆分标签并校验长度，与 tags.name 列宽一致
func parseTags(raw string) ([]string, error) {
	names := repository.ParseTagNames(raw)
	for _, name := range names {
		if utf8.RuneCountInString(name) > maxTagLength {
			return nil, fieldError("tags", fmt.Sprintf("Ensure each tag has at most %d characters.", maxTagLength))
		}
	}
	return names, nil
}

func (s *postService) ToggleLike(ctx context.Context, userID, postID string) (repository.ToggleResult, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return repository.ToggleResult{}, mapNotFound(err)
	}
	res, err := s.likes.TogglePostLike(ctx, userID, postID)
	if err != nil {
		return repository.ToggleResult{}, mapNotFound(err)
	}
	if s.reactions != nil {
		s.reactions.Invalidate(ctx, post.UserID)
	}
	return res, nil
}

func (s *postService) removeMedia(key string) {
	if key == "" {
		return
	}
	if s.janitor != nil && s.janitor.Enqueue(key) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Delete(ctx, key); err != nil {
		logger.Warn("delete media failed", zap.String("key", key), zap.Error(err))
	}
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
