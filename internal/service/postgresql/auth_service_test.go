package service

import (
	"context"
	"testing"
	"time"

	"barter-market/internal/config"
	entity "barter-market/internal/domain"
	repo "barter-market/internal/repository/postgresql"
	"barter-market/internal/testutil"
	"barter-market/pkg"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	jwtCfg := config.JWTConfig{Secret: []byte("secret"), Issuer: "barter-market", TTL: time.Hour}
	svc := NewAuthService(repo.NewUserRepository(db, repo.SQLite), jwtCfg)
	ctx := context.Background()

	user, err := svc.Register(ctx, entity.RegisterInput{Username: " alice ", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Register(ctx, entity.RegisterInput{Username: "alice", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Login(ctx, entity.LoginInput{Username: "alice", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, entity.LoginInput{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := svc.Login(ctx, entity.LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)

	claims, err := utils.ValidateToken(jwtCfg, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
