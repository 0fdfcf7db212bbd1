package notificationRepo

import (
	"context"
	"fmt"
	"time"

	"dutynotify/models"
	"dutynotify/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoNotificationRepo implements NotificationRepository using MongoDB.
// CreateBatch runs inside a transaction, so the deployment must be a replica set.
type MongoNotificationRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewMongoNotificationRepo(ctx context.Context, client *mongo.Client, db *mongo.Database, logger *zap.Logger) NotificationRepository {
	repo := &MongoNotificationRepo{
		client: client,
		coll:   db.Collection(utils.NotificationsCollection),
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		logger.Warn("failed to create notification indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoNotificationRepo) ensureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// insert upserts on a fresh ID so $currentDate can stamp the server time.
func (r *MongoNotificationRepo) insert(ctx context.Context, rec models.NotificationRecord) (string, error) {
	id := uuid.NewString()
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":     id,
			"userId": rec.UserID,
			"title":  rec.Title,
			"body":   rec.Body,
			"isRead": rec.IsRead,
		},
		"$currentDate": bson.M{"timestamp": true},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("failed to create notification for user %s: %w", rec.UserID, err)
	}
	return id, nil
}

func (r *MongoNotificationRepo) Create(ctx context.Context, rec models.NotificationRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.insert(ctx, rec)
}

func (r *MongoNotificationRepo) CreateBatch(ctx context.Context, recs []models.NotificationRecord) ([]string, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		ids := make([]string, 0, len(recs))
		for _, rec := range recs {
			id, err := r.insert(sessCtx, rec)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	})
	if err != nil {
		return nil, fmt.Errorf("notification batch of %d aborted: %w", len(recs), err)
	}
	return result.([]string), nil
}
