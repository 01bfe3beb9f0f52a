package repo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/engivora/backend/internal/models"
)

// MemoryRepository is the seeded fallback list. It is an explicitly
// constructed instance, not a package-level singleton, so tests can
// own their copy.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User // keyed by normalized email
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*models.User)}
}

// Seed inserts a record, overwriting any previous one for the same
// email. IDs are assigned when absent.
func (r *MemoryRepository) Seed(u models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.Email = NormalizeEmail(u.Email)
	r.users[u.Email] = &u
}

func (r *MemoryRepository) Create(ctx context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := NormalizeEmail(u.Email)
	if _, ok := r.users[email]; ok {
		return ErrEmailTaken
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	u.Email = email
	clone := *u
	r.users[email] = &clone
	return nil
}

func (r *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) TouchLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			now := time.Now()
			u.LastLoginAt = &now
			return nil
		}
	}
	return ErrNotFound
}
