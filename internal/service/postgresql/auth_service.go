package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"barter-market/internal/config"
	entity "barter-market/internal/domain"
	repo "barter-market/internal/repository/postgresql"
	"barter-market/pkg"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo repo.UserRepository
	jwt      config.JWTConfig
}

func NewAuthService(userRepo repo.UserRepository, jwtCfg config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwtCfg,
	}
}

func (s *AuthService) Login(ctx context.Context, input entity.LoginInput) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwt, user)
	if err != nil {
		return nil, err
	}

	return &entity.LoginResponse{
		Token: token,
		User:  entity.UserResp{ID: user.ID, Username: user.Username},
	}, nil
}

func (s *AuthService) Register(ctx context.Context, input entity.RegisterInput) (*entity.UserResp, error) {
	username := strings.TrimSpace(input.Username)
	if u, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if u != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return &entity.UserResp{ID: user.ID, Username: user.Username}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.UserResp, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return &entity.UserResp{ID: user.ID, Username: user.Username}, nil
}
