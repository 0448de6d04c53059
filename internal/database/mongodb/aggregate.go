package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"

	"github.com/osse101/AdventureAdmin_Go/internal/aggregate"
)

const tracerName = "adventure-admin/database/mongodb"

// Document field names
const (
	fieldID        = "_id"
	fieldItems     = "items"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
	fieldRevision  = "revision"
)

type aggregateDocument[T aggregate.Item] struct {
	OwnerID   string    `bson:"_id"`
	Items     []T       `bson:"items"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
	Revision  int64     `bson:"revision"`
}

// AggregateStore keeps one MongoDB document per admin with the admin's items in an array.
// Every write increments the document revision, which Replace uses as its precondition.
type AggregateStore[T aggregate.Item] struct {
	coll *mongo.Collection
	now  func() time.Time
}

func NewAggregateStore[T aggregate.Item](db *mongo.Database, collection string) *AggregateStore[T] {
	return &AggregateStore[T]{coll: db.Collection(collection), now: time.Now}
}

func (s *AggregateStore[T]) Documents(ctx context.Context) ([]aggregate.Document[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Documents")
	defer span.End()

	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: fieldCreatedAt, Value: 1}, {Key: fieldID, Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("while querying %s: %w", s.coll.Name(), err)
	}
	defer cur.Close(ctx)

	var docs []aggregate.Document[T]
	for cur.Next(ctx) {
		var d aggregateDocument[T]
		if err := cur.Decode(&d); err != nil {
			return nil, fmt.Errorf("while decoding %s: %w", s.coll.Name(), err)
		}
		docs = append(docs, toDocument(d))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("while iterating %s: %w", s.coll.Name(), err)
	}
	return docs, nil
}

func (s *AggregateStore[T]) Document(ctx context.Context, ownerID string) (aggregate.Document[T], error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Document")
	defer span.End()

	var d aggregateDocument[T]
	err := s.coll.FindOne(ctx, bson.D{{Key: fieldID, Value: ownerID}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return aggregate.Document[T]{}, aggregate.ErrDocumentNotFound
	}
	if err != nil {
		return aggregate.Document[T]{}, fmt.Errorf("while reading %s/%s: %w", s.coll.Name(), ownerID, err)
	}
	return toDocument(d), nil
}

func (s *AggregateStore[T]) Append(ctx context.Context, ownerID string, item T) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Append")
	defer span.End()

	now := s.now().UTC()
	update := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: fieldItems, Value: item}}},
		{Key: "$set", Value: bson.D{{Key: fieldUpdatedAt, Value: now}}},
		{Key: "$setOnInsert", Value: bson.D{{Key: fieldCreatedAt, Value: now}}},
		{Key: "$inc", Value: bson.D{{Key: fieldRevision, Value: 1}}},
	}
	_, err := s.coll.UpdateOne(ctx, bson.D{{Key: fieldID, Value: ownerID}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("while appending to %s/%s: %w", s.coll.Name(), ownerID, err)
	}
	return nil
}

func (s *AggregateStore[T]) Remove(ctx context.Context, doc aggregate.Document[T], index int) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Remove")
	defer span.End()

	target := doc.Items[index]
	// $set and $inc always modify the document, so a missing element is detected by the filter.
	filter := bson.D{{Key: fieldID, Value: doc.OwnerID}, {Key: fieldItems, Value: target}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: fieldItems, Value: target}}},
		{Key: "$set", Value: bson.D{{Key: fieldUpdatedAt, Value: s.now().UTC()}}},
		{Key: "$inc", Value: bson.D{{Key: fieldRevision, Value: 1}}},
	}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("while removing from %s/%s: %w", s.coll.Name(), doc.OwnerID, err)
	}
	if res.MatchedCount == 0 {
		return aggregate.ErrItemNotFound
	}
	return nil
}

func (s *AggregateStore[T]) Replace(ctx context.Context, doc aggregate.Document[T], items []T) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "AggregateStore.Replace")
	defer span.End()

	revision, ok := doc.Version.(int64)
	if !ok {
		return aggregate.ErrVersionConflict
	}

	filter := bson.D{{Key: fieldID, Value: doc.OwnerID}, {Key: fieldRevision, Value: revision}}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: fieldItems, Value: items}, {Key: fieldUpdatedAt, Value: s.now().UTC()}}},
		{Key: "$inc", Value: bson.D{{Key: fieldRevision, Value: 1}}},
	}
	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("while writing %s/%s: %w", s.coll.Name(), doc.OwnerID, err)
	}
	if res.MatchedCount == 0 {
		return aggregate.ErrVersionConflict
	}
	return nil
}

func toDocument[T aggregate.Item](d aggregateDocument[T]) aggregate.Document[T] {
	return aggregate.Document[T]{
		OwnerID:   d.OwnerID,
		Items:     d.Items,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Version:   d.Revision,
	}
}
