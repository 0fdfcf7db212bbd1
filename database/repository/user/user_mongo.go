package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dutynotify/models"
	"dutynotify/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(ctx context.Context, db *mongo.Database, logger *zap.Logger) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection(utils.UsersCollection)}

	if err := repo.ensureIndexes(ctx); err != nil {
		logger.Warn("failed to create user indexes", zap.Error(err))
	}
	return repo
}

// newContext derives a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return &user, nil
}

// GetByRole retrieves all users with the given role.
func (r *MongoUserRepo) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"role": role})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve users with role %s: %w", role, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Delete removes a user document by its ID.
func (r *MongoUserRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	return nil
}
