package mongodb

import (
	"context"
	"fmt"
	"time"

	entity "barter-market/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CollectionStatus = "history_status"
	CollectionNotifs = "notifications"

	writeTimeout = 5 * time.Second
)

// LogRepository keeps the proposal status audit trail and user notifications.
type LogRepository interface {
	SaveHistoryStatus(ctx context.Context, doc *entity.HistoryStatus) error
	SaveNotification(ctx context.Context, doc *entity.Notification) error
}

type logRepository struct {
	db *mongo.Database
}

func NewLogRepository(client *mongo.Client, database string) LogRepository {
	return &logRepository{db: client.Database(database)}
}

func (r *logRepository) SaveHistoryStatus(ctx context.Context, doc *entity.HistoryStatus) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionStatus).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert history status: %w", err)
	}
	return nil
}

func (r *logRepository) SaveNotification(ctx context.Context, doc *entity.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.db.Collection(CollectionNotifs).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
