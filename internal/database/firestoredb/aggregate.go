package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
)

const tracerName = "adventure-admin/database/firestoredb"

// Document field paths
const (
	pathItems     = "items"
	pathCreatedAt = "createdAt"
	pathUpdatedAt = "updatedAt"
)

type aggregateDocument[T aggregate.Item] struct {
	Items     []T       `firestore:"items"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// AggregateStore keeps one Firestore document per admin, keyed by admin id,
// with the admin's items in an array field.
type AggregateStore[T aggregate.Item] struct {
	client     *firestore.Client
	collection string
}

func NewAggregateStore[T aggregate.Item](client *firestore.Client, collection string) *AggregateStore[T] {
	return &AggregateStore[T]{client: client, collection: collection}
}

func (s *AggregateStore[T]) Documents(ctx context.Context) ([]aggregate.Document[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Documents")
	defer span.End()

	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	var docs []aggregate.Document[T]
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("while iterating %s: %w", s.collection, err)
		}

		doc, err := decodeDocument[T](snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *AggregateStore[T]) Document(ctx context.Context, ownerID string) (aggregate.Document[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Document")
	defer span.End()

	snap, err := s.client.Collection(s.collection).Doc(ownerID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return aggregate.Document[T]{}, aggregate.ErrDocumentNotFound
	}
	if err != nil {
		return aggregate.Document[T]{}, fmt.Errorf("while reading %s/%s: %w", s.collection, ownerID, err)
	}
	return decodeDocument[T](snap)
}

func (s *AggregateStore[T]) Append(ctx context.Context, ownerID string, item T) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Append")
	defer span.End()

	ref := s.client.Collection(s.collection).Doc(ownerID)

	_, err := ref.Get(ctx)
	switch {
	case status.Code(err) == codes.NotFound:
		_, err = ref.Create(ctx, map[string]interface{}{
			pathItems:     []T{item},
			pathCreatedAt: firestore.ServerTimestamp,
			pathUpdatedAt: firestore.ServerTimestamp,
		})
		if err == nil {
			return nil
		}
		// Another request created the document first; fall through to the union.
		if status.Code(err) != codes.AlreadyExists {
			return fmt.Errorf("while creating %s/%s: %w", s.collection, ownerID, err)
		}
	case err != nil:
		return fmt.Errorf("while reading %s/%s: %w", s.collection, ownerID, err)
	}

	_, err = ref.Update(ctx, []firestore.Update{
		{Path: pathItems, Value: firestore.ArrayUnion(item)},
		{Path: pathUpdatedAt, Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("while appending to %s/%s: %w", s.collection, ownerID, err)
	}
	return nil
}

func (s *AggregateStore[T]) Remove(ctx context.Context, doc aggregate.Document[T], index int) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Remove")
	defer span.End()

	// Prefer the value exactly as stored so fields unknown to T still match.
	var value interface{} = doc.Items[index]
	if index < len(doc.Raw) {
		value = doc.Raw[index]
	}

	_, err := s.client.Collection(s.collection).Doc(doc.OwnerID).Update(ctx, []firestore.Update{
		{Path: pathItems, Value: firestore.ArrayRemove(value)},
		{Path: pathUpdatedAt, Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("while removing from %s/%s: %w", s.collection, doc.OwnerID, err)
	}
	return nil
}

func (s *AggregateStore[T]) Replace(ctx context.Context, doc aggregate.Document[T], items []T) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Replace")
	defer span.End()

	version, ok := doc.Version.(time.Time)
	if !ok {
		return aggregate.ErrVersionConflict
	}

	_, err := s.client.Collection(s.collection).Doc(doc.OwnerID).Update(ctx, []firestore.Update{
		{Path: pathItems, Value: items},
		{Path: pathUpdatedAt, Value: firestore.ServerTimestamp},
	}, firestore.LastUpdateTime(version))
	if status.Code(err) == codes.FailedPrecondition {
		return aggregate.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("while writing %s/%s: %w", s.collection, doc.OwnerID, err)
	}
	return nil
}

func decodeDocument[T aggregate.Item](snap *firestore.DocumentSnapshot) (aggregate.Document[T], error) {
	var data aggregateDocument[T]
	if err := snap.DataTo(&data); err != nil {
		return aggregate.Document[T]{}, fmt.Errorf("while decoding %s: %w", snap.Ref.Path, err)
	}

	var raw []interface{}
	if v, err := snap.DataAt(pathItems); err == nil {
		raw, _ = v.([]interface{})
	}

	return aggregate.Document[T]{
		OwnerID:   snap.Ref.ID,
		Items:     data.Items,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
		Version:   snap.UpdateTime,
		Raw:       raw,
	}, nil
}
