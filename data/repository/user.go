// Package repository provides MongoDB-backed persistence for users and
// products.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
	"github.com/codeshark-lucifer/pos-system/structs"
)

// UserUpdate carries the mutable user fields; nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *structs.Role
}

// UserRepository defines the interface for user data operations.
//
// Session mutations (AddSession, RemoveSession, PruneSessions) must each be
// a single atomic update against the user document so that concurrent
// logins and logouts for the same user never lose an entry.
type UserRepository interface {
	Create(ctx context.Context, user *structs.User) (*structs.User, error)
	FindByID(ctx context.Context, id string) (*structs.User, error)
	FindByEmail(ctx context.Context, email string) (*structs.User, error)
	List(ctx context.Context, skip, limit int64) ([]*structs.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, update UserUpdate) (*structs.User, error)
	Delete(ctx context.Context, id string) error

	AddSession(ctx context.Context, id string, sess structs.Session, loginAt time.Time) error
	RemoveSession(ctx context.Context, id string, token string) error
	PruneSessions(ctx context.Context, id string, cutoff time.Time) error
}

type userRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository(db *mongo.Database, log *logger.Logger) UserRepository {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn(ctx, "failed to create index on email", "error", err)
	}

	return &userRepository{
		collection: collection,
		logger:     log,
	}
}

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, user *structs.User) (*structs.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Sessions == nil {
		user.Sessions = []structs.Session{}
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		r.logger.Error(ctx, "failed to create user", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info(ctx, "user created", "id", user.ID.Hex())
	return user, nil
}

// FindByID retrieves a user by ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*structs.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user structs.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to find user", "id", id, "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// FindByEmail retrieves a user by email.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*structs.User, error) {
	var user structs.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		r.logger.Error(ctx, "failed to find user by email", "error", err)
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &user, nil
}

// List retrieves users ordered by creation time, newest first.
func (r *userRepository) List(ctx context.Context, skip, limit int64) ([]*structs.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		r.logger.Error(ctx, "failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*structs.User
	if err := cursor.All(ctx, &users); err != nil {
		r.logger.Error(ctx, "failed to decode users", "error", err)
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

// Count returns the total number of users.
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error(ctx, "failed to count users", "error", err)
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// Update applies the non-nil fields and returns the updated document.
func (r *userRepository) Update(ctx context.Context, id string, update UserUpdate) (*structs.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PasswordHash != nil {
		set["password_hash"] = *update.PasswordHash
	}
	if update.Role != nil {
		set["role"] = *update.Role
	}

	result := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		if errors.Is(result.Err(), mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(result.Err()) {
			return nil, ErrEmailExists
		}
		r.logger.Error(ctx, "failed to update user", "id", id, "error", result.Err())
		return nil, fmt.Errorf("failed to update user: %w", result.Err())
	}

	var updated structs.User
	if err := result.Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated user: %w", err)
	}

	r.logger.Info(ctx, "user updated", "id", id)
	return &updated, nil
}

// Delete removes a user by ID.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		r.logger.Error(ctx, "failed to delete user", "id", id, "error", err)
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrUserNotFound
	}

	r.logger.Info(ctx, "user deleted", "id", id)
	return nil
}

// AddSession appends a session and records the login time in one atomic
// update.
func (r *userRepository) AddSession(ctx context.Context, id string, sess structs.Session, loginAt time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$push": bson.M{"sessions": sess},
		"$set":  bson.M{"last_login_at": loginAt, "updated_at": loginAt},
	})
	if err != nil {
		r.logger.Error(ctx, "failed to add session", "id", id, "error", err)
		return fmt.Errorf("failed to add session: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveSession pulls the exact token from the session list. Removing an
// absent token is a no-op.
func (r *userRepository) RemoveSession(ctx context.Context, id string, token string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$pull": bson.M{"sessions": bson.M{"token": token}},
	})
	if err != nil {
		r.logger.Error(ctx, "failed to remove session", "id", id, "error", err)
		return fmt.Errorf("failed to remove session: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PruneSessions drops sessions that expired before the cutoff.
func (r *userRepository) PruneSessions(ctx context.Context, id string, cutoff time.Time) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrUserNotFound
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{
		"$pull": bson.M{"sessions": bson.M{"expires_at": bson.M{"$lt": cutoff}}},
	})
	if err != nil {
		r.logger.Error(ctx, "failed to prune sessions", "id", id, "error", err)
		return fmt.Errorf("failed to prune sessions: %w", err)
	}
	return nil
}
