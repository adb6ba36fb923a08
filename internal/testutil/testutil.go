// Package testutil opens throwaway SQLite databases with the real schema
// and seeds them with users and ads.
package testutil

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	entity "barter-market/internal/domain"
	repo "barter-market/internal/repository/postgresql"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// MigrationsDir returns the absolute path of migrations/<dialect>.
func MigrationsDir(dialect string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations", dialect)
}

// NewSQLiteDB migrates a fresh database file and returns a handle to it that
// is closed when the test ends.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "market.db")

	m, err := migrate.New("file://"+MigrationsDir("sqlite"), "sqlite3://"+path)
	require.NoError(t, err)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("migrate up: %v", err)
	}
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func CreateUser(t testing.TB, db *sql.DB, username string) *entity.User {
	t.Helper()
	user := &entity.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, repo.NewUserRepository(db, repo.SQLite).CreateUser(context.Background(), user))
	return user
}

// CreateAd inserts an ad owned by owner. A zero createdAt means now.
func CreateAd(t testing.TB, db *sql.DB, owner *entity.User, title string, createdAt time.Time) *entity.Ad {
	t.Helper()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	ad := &entity.Ad{
		ID:            uuid.New(),
		UserID:        owner.ID,
		OwnerUsername: owner.Username,
		Title:         title,
		Description:   "Описание: " + title,
		Category:      "Разное",
		Condition:     "Б/У",
		CreatedAt:     createdAt.UTC(),
	}
	require.NoError(t, repo.NewAdRepository(db, repo.SQLite).CreateAd(context.Background(), ad))
	return ad
}
