package firestoredb

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
	"github.com/osse101/AdventureAdmin_Go/internal/logger"
)

// UsersCollection holds one document per app or admin user keyed by uid.
const UsersCollection = "users"

// UserRepository reads and writes profile documents in the users collection.
type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

// ListUsers returns every user document. Documents that cannot be decoded are skipped.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UserRepository.ListUsers")
	defer span.End()

	iter := r.client.Collection(UsersCollection).Documents(ctx)
	defer iter.Stop()

	var users []domain.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while iterating users: %w", err)
		}

		var u domain.User
		if err := snap.DataTo(&u); err != nil {
			logger.FromContext(ctx).Warn("Skipping undecodable user document",
				slog.String("uid", snap.Ref.ID), slog.Any("error", err))
			continue
		}
		u.ID = snap.Ref.ID
		users = append(users, u)
	}
	return users, nil
}

func (r *UserRepository) GetUser(ctx context.Context, uid string) (domain.User, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UserRepository.GetUser")
	defer span.End()

	snap, err := r.client.Collection(UsersCollection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("while reading user %s: %w", uid, err)
	}

	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return domain.User{}, fmt.Errorf("while decoding user %s: %w", uid, err)
	}
	u.ID = snap.Ref.ID
	return u, nil
}

// SaveUser writes the whole profile document, creating it when absent.
func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "UserRepository.SaveUser")
	defer span.End()

	if _, err := r.client.Collection(UsersCollection).Doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("while writing user %s: %w", user.ID, err)
	}
	return nil
}
