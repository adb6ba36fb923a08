package service

import (
	"context"
	"errors"
	"sync"

	entity "barter-market/internal/domain"
)

type fakeLogRepo struct {
	mu            sync.Mutex
	history       []entity.HistoryStatus
	notifications []entity.Notification
	fail          bool
}

var errMongoDown = errors.New("mongo unavailable")

func (f *fakeLogRepo) SaveHistoryStatus(_ context.Context, doc *entity.HistoryStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errMongoDown
	}
	f.history = append(f.history, *doc)
	return nil
}

func (f *fakeLogRepo) SaveNotification(_ context.Context, doc *entity.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errMongoDown
	}
	f.notifications = append(f.notifications, *doc)
	return nil
}
