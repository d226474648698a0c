package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardfolio/backend/models"
	"github.com/cardfolio/backend/repositories"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		coll:   db.Collection(models.User{}.CollectionName()),
		logger: logger,
	}
}

// FindByToken retrieves the user holding the given bearer token
func (r *UserRepository) FindByToken(ctx context.Context, token string) (*models.User, error) {
	user := &models.User{}
	err := r.coll.FindOne(ctx, bson.M{"accessToken": token}).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by token: %w", err)
	}
	return user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := res.InsertedID.(bson.ObjectID); ok {
		user.ID = oid
	}

	r.logger.Debug("user created",
		zap.String("id", user.ID.Hex()),
		zap.String("email", user.Email))
	return nil
}

// UpsertToken atomically assigns token to the user identified by email unless
// a token is already set, and returns the resulting document. The $ifNull
// pipeline update makes the write idempotent per identity: when two callers
// race, the second observes the first caller's token instead of replacing it.
func (r *UserRepository) UpsertToken(ctx context.Context, email, token string) (*models.User, error) {
	update := bson.A{
		bson.M{"$set": bson.M{
			"accessToken": bson.M{"$ifNull": bson.A{"$accessToken", token}},
			"updatedAt":   time.Now(),
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	user := &models.User{}
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to upsert token: %w", err)
	}
	return user, nil
}

// ClearToken unsets the token field on whichever user holds token
func (r *UserRepository) ClearToken(ctx context.Context, token string) error {
	update := bson.M{
		"$unset": bson.M{"accessToken": ""},
		"$set":   bson.M{"updatedAt": time.Now()},
	}

	if _, err := r.coll.UpdateOne(ctx, bson.M{"accessToken": token}, update); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
