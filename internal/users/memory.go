package users

import (
	"context"
	"sync"

	"github.com/osse101/AdventureAdmin_Go/internal/domain"
)

// MemoryRepository is an in-process Repository. Users are listed in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	users map[string]domain.User
}

func NewMemoryRepository(seed ...domain.User) *MemoryRepository {
	r := &MemoryRepository{users: make(map[string]domain.User)}
	for _, u := range seed {
		_ = r.SaveUser(context.Background(), u)
	}
	return r
}

func (r *MemoryRepository) ListUsers(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.order))
	for _, uid := range r.order {
		out = append(out, r.users[uid])
	}
	return out, nil
}

func (r *MemoryRepository) GetUser(_ context.Context, uid string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[uid]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryRepository) SaveUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		r.order = append(r.order, user.ID)
	}
	r.users[user.ID] = user
	return nil
}
