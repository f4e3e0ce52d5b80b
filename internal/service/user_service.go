package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jinzhu/copier"

	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/pkg/database"
)

type ProfileInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Biography string
}

type UserService interface {
	Profile(ctx context.Context, viewerID, username string, page, pageSize int) (*ProfileView, error)
	// EditForm 与 UpdateProfile 仅本人可用
	EditForm(ctx context.Context, viewerID, username string) (*ProfileForm, error)
	UpdateProfile(ctx context.Context, viewerID, username string, in ProfileInput, avatar io.Reader) (*model.User, error)
}

type userService struct {
	users     repository.UserRepository
	posts     PostService
	relations RelationshipService
	processor *media.Processor
	store     media.Store
	janitor   MediaRemover
}

func NewUserService(users repository.UserRepository, posts PostService, relations RelationshipService, processor *media.Processor, store media.Store, janitor MediaRemover) UserService {
	return &userService{users: users, posts: posts, relations: relations, processor: processor, store: store, janitor: janitor}
}

func (s *userService) Profile(ctx context.Context, viewerID, username string, page, pageSize int) (*ProfileView, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapNotFound(err)
	}

	view := &ProfileView{IsSelf: viewerID != "" && viewerID == user.ID}
	if err := copier.Copy(&view.User, user); err != nil {
		return nil, err
	}
	view.User.Image = s.store.URL(user.Image)

	posts, err := s.posts.ListByUser(ctx, user.ID, page, pageSize)
	if err != nil {
		return nil, err
	}
	view.Posts = *posts

	if view.FollowersCount, view.FollowingCount, err = s.relations.Counts(ctx, user.ID); err != nil {
		return nil, err
	}
	if view.IsFollowing, err = s.relations.IsFollowing(ctx, viewerID, user.ID); err != nil {
		return nil, err
	}
	return view, nil
}

func (s *userService) self(ctx context.Context, viewerID, username string) (*model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, mapNotFound(err)
	}
	if viewerID == "" || user.ID != viewerID {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *userService) EditForm(ctx context.Context, viewerID, username string) (*ProfileForm, error) {
	user, err := s.self(ctx, viewerID, username)
	if err != nil {
		return nil, err
	}
	form := &ProfileForm{}
	if err := copier.Copy(form, user); err != nil {
		return nil, err
	}
	form.Image = s.store.URL(user.Image)
	return form, nil
}

func (s *userService) UpdateProfile(ctx context.Context, viewerID, username string, in ProfileInput, avatar io.Reader) (*model.User, error) {
	user, err := s.self(ctx, viewerID, username)
	if err != nil {
		return nil, err
	}

	if in.Username != user.Username {
		taken, err := s.users.UsernameTaken(ctx, in.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fieldError("username", usernameTakenMsg)
		}
	}

	oldImage := user.Image
	if err := copier.Copy(user, &in); err != nil {
		return nil, err
	}

	if avatar != nil {
		data, err := s.processor.Process(avatar)
		if err != nil {
			if errors.Is(err, media.ErrInvalidImage) {
				return nil, fieldError("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
			}
			return nil, err
		}
		key := fmt.Sprintf("%s_%s_profileimage.jpg", user.ID, user.Username)
		if err := s.store.Save(ctx, key, data); err != nil {
			return nil, fmt.Errorf("save avatar: %w", err)
		}
		user.Image = key
	}

	if err := s.users.Update(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fieldError("username", usernameTakenMsg)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	if oldImage != "" && oldImage != user.Image && s.janitor != nil {
		s.janitor.Enqueue(oldImage)
	}
	return user, nil
}
