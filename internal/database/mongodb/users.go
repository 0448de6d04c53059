package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

// UsersCollection holds one document per user keyed by uid.
const UsersCollection = "users"

// UserRepository reads and writes profile documents in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

// ListUsers returns every user document. Documents that cannot be decoded are skipped.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UserRepository.ListUsers")
	defer span.End()

	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("while querying users: %w", err)
	}
	defer cur.Close(ctx)

	var users []domain.User
	for cur.Next(ctx) {
		var u domain.User
		if err := cur.Decode(&u); err != nil {
			logger.FromContext(ctx).Warn("Skipping undecodable user document",
				slog.Any("uid", cur.Current.Lookup(fieldID)), slog.Any("error", err))
			continue
		}
		users = append(users, u)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("while iterating users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetUser(ctx context.Context, uid string) (domain.User, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UserRepository.GetUser")
	defer span.End()

	var u domain.User
	err := r.coll.FindOne(ctx, bson.D{{Key: fieldID, Value: uid}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("while reading user %s: %w", uid, err)
	}
	return u, nil
}

// SaveUser writes the whole profile document, creating it when absent.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UserRepository.SaveUser")
	defer span.End()

	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: fieldID, Value: user.ID}}, user, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("while writing user %s: %w", user.ID, err)
	}
	return nil
}
