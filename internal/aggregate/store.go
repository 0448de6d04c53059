package aggregate

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDocumentNotFound is returned by Store.Document when the admin has no document yet.
	ErrDocumentNotFound = errors.New("aggregate document not found")

	// ErrVersionConflict is returned by Store.Replace when the document changed since it was read.
	ErrVersionConflict = errors.New("aggregate document version conflict")

	// ErrItemNotFound is returned by Store.Remove when no stored element matched,
	// typically because a concurrent delete got there first.
	ErrItemNotFound = errors.New("aggregate item not found")
)

// Item is an element of an aggregate document array.
type Item interface {
	ItemID() string
	OwnerID() string
	SearchText() string
}

// Document is one admin's aggregate document for a resource type.
type Document[T Item] struct {
	OwnerID   string
	Items     []T
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is an opaque revision token set by the store. Replace uses it as a precondition.
	Version any

	// Raw holds the stored element values parallel to Items for backends
	// that remove array elements by exact value.
	Raw []any
}

// Store persists aggregate documents of a single resource type, keyed by admin id.
type Store[T Item] interface {
	// Documents returns every document in store iteration order.
	Documents(ctx context.Context) ([]Document[T], error)

	// Document returns the document owned by ownerID, or ErrDocumentNotFound.
	Document(ctx context.Context, ownerID string) (Document[T], error)

	// Append adds item to the owner's array with array-union semantics,
	// creating the document with a singleton array when it does not exist.
	Append(ctx context.Context, ownerID string, item T) error

	// Remove removes the element at index of doc by its stored value and stamps updatedAt.
	// Stores that can tell return ErrItemNotFound when nothing was removed.
	Remove(ctx context.Context, doc Document[T], index int) error

	// Replace overwrites the array of doc and stamps updatedAt, provided the
	// document is still at doc.Version. Otherwise it returns ErrVersionConflict.
	Replace(ctx context.Context, doc Document[T], items []T) error
}

func indexOf[T Item](items []T, id string) int {
	for i, item := range items {
		if item.ItemID() == id {
			return i
		}
	}
	return -1
}
