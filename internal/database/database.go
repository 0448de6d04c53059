package database

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// HealthChecker reports whether the document store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// NewFirestoreClient connects to Firestore. With FIRESTORE_EMULATOR_HOST set the
// client talks to the emulator and credentials are ignored.
func NewFirestoreClient(ctx context.Context, projectID string, credentialsJSON []byte) (*firestore.Client, error) {
	var opts []option.ClientOption
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateFirestore, err)
	}

	slog.Default().Info(LogMsgConnectedToFirestore, "project_id", projectID)
	return client, nil
}

// NewMongoClient connects to MongoDB and verifies the connection.
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToConnectMongo, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, DefaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgConnectedToMongo)
	return client, nil
}

// FirestoreHealth pings Firestore by reading at most one document.
type FirestoreHealth struct {
	Client     *firestore.Client
	Collection string
}

func (h FirestoreHealth) Ping(ctx context.Context) error {
	iter := h.Client.Collection(h.Collection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}
	return nil
}

// MongoHealth pings the primary of a MongoDB deployment.
type MongoHealth struct {
	Client *mongo.Client
}

func (h MongoHealth) Ping(ctx context.Context) error {
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}
	return nil
}
