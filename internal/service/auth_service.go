package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/photogram/internal/auth"
	"github.com/d60-Lab/photogram/internal/model"
	"github.com/d60-Lab/photogram/internal/repository"
	"github.com/d60-Lab/photogram/pkg/database"
)

const usernameTakenMsg = "A user with that username already exists."

type RegisterInput struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	// Login 校验用户名密码并签发令牌
	Login(ctx context.Context, username, password string) (string, *model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
	cost   int
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Password1 != in.Password2 {
		return nil, fieldError("password2", "The two password fields didn't match.")
	}
	taken, err := s.users.UsernameTaken(ctx, in.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fieldError("username", usernameTakenMsg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password1), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &model.User{
		ID:       uuid.NewString(),
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, fieldError("username", usernameTakenMsg)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(auth.Principal{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
