package aggregate

import (
	"context"
	"reflect"
	"slices"
	"sync"
	"time"
)

type memoryDocument[T Item] struct {
	items     []T
	createdAt time.Time
	updatedAt time.Time
	revision  int64
}

// MemoryStore is an in-process Store used for local development and tests.
// Documents are returned in creation order.
type MemoryStore[T Item] struct {
	mu    sync.Mutex
	order []string
	docs  map[string]*memoryDocument[T]
	now   func() time.Time
}

func NewMemoryStore[T Item]() *MemoryStore[T] {
	return &MemoryStore[T]{
		docs: make(map[string]*memoryDocument[T]),
		now:  time.Now,
	}
}

func (s *MemoryStore[T]) Documents(_ context.Context) ([]Document[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Document[T], 0, len(s.order))
	for _, owner := range s.order {
		out = append(out, s.snapshot(owner))
	}
	return out, nil
}

func (s *MemoryStore[T]) Document(_ context.Context, ownerID string) (Document[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[ownerID]; !ok {
		return Document[T]{}, ErrDocumentNotFound
	}
	return s.snapshot(ownerID), nil
}

func (s *MemoryStore[T]) Append(_ context.Context, ownerID string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[ownerID]
	if !ok {
		now := s.now()
		s.docs[ownerID] = &memoryDocument[T]{items: []T{item}, createdAt: now, updatedAt: now, revision: 1}
		s.order = append(s.order, ownerID)
		return nil
	}

	if !slices.ContainsFunc(doc.items, func(existing T) bool { return reflect.DeepEqual(existing, item) }) {
		doc.items = append(doc.items, item)
	}
	s.touch(doc)
	return nil
}

func (s *MemoryStore[T]) Remove(_ context.Context, d Document[T], index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[d.OwnerID]
	if !ok || index < 0 || index >= len(d.Items) {
		return ErrItemNotFound
	}
	target := d.Items[index]
	before := len(doc.items)
	doc.items = slices.DeleteFunc(doc.items, func(item T) bool {
		return reflect.DeepEqual(item, target)
	})
	if len(doc.items) == before {
		return ErrItemNotFound
	}
	s.touch(doc)
	return nil
}

func (s *MemoryStore[T]) Replace(_ context.Context, d Document[T], items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[d.OwnerID]
	if rev, isRev := d.Version.(int64); !ok || !isRev || rev != doc.revision {
		return ErrVersionConflict
	}
	doc.items = slices.Clone(items)
	s.touch(doc)
	return nil
}

// Ping reports the store as always reachable.
func (s *MemoryStore[T]) Ping(context.Context) error { return nil }

func (s *MemoryStore[T]) snapshot(owner string) Document[T] {
	doc := s.docs[owner]
	return Document[T]{
		OwnerID:   owner,
		Items:     slices.Clone(doc.items),
		CreatedAt: doc.createdAt,
		UpdatedAt: doc.updatedAt,
		Version:   doc.revision,
	}
}

func (s *MemoryStore[T]) touch(doc *memoryDocument[T]) {
	doc.updatedAt = s.now()
	doc.revision++
}
