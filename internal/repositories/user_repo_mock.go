package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user, rejecting a duplicate email.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrConflict)
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
}

// GetByID returns a user by ID.
func (r *MockUserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
	}
	return &user, nil
}

// ListByIDs returns the users for the given ids.
func (r *MockUserRepository) ListByIDs(ids []string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// Update replaces an existing user.
func (r *MockUserRepository) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.users[user.ID]
	if !ok {
		return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrNotFound)
	}
	user.CreatedAt = prev.CreatedAt
	r.users[user.ID] = *user
	return nil
}
