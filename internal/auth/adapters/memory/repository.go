package memory

import (
	"context"
	"sync"
	"time"

	"github.com/agrochain/agrochain/internal/auth/domain"
	"github.com/agrochain/agrochain/internal/auth/ports"
)

// Repository provides an in-memory user store for local development and tests.
type Repository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	byEmail map[string]string
}

// NewRepository constructs a new in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		users:   make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// Create stores a new user, enforcing email uniqueness.
func (r *Repository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return ports.ErrEmailTaken
	}

	r.users[user.ID] = user
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByID fetches a user by identifier.
func (r *Repository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := user
	return &copy, nil
}

// GetByEmail fetches a user by email address.
func (r *Repository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := r.users[id]
	return &copy, nil
}

// UpdateRole sets the role and updatedAt timestamp for a user.
func (r *Repository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return ports.ErrNotFound
	}

	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	r.users[id] = user
	return nil
}
