package repository_test

import (
	"context"
	"testing"
	"time"

	entity "barter-market/internal/domain"
	repo "barter-market/internal/repository/postgresql"
	"barter-market/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	users := repo.NewUserRepository(db, repo.SQLite)

	u := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, users.CreateUser(ctx, u))

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	missing, err := users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	dup := &entity.User{ID: uuid.New(), Username: "alice", PasswordHash: "x", CreatedAt: time.Now().UTC()}
	assert.Error(t, users.CreateUser(ctx, dup))
}
