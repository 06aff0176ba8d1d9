package repositories

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"majalah/internal/models"
)

// MockActivityRepository is an in-memory implementation of ActivityRepository.
type MockActivityRepository struct {
	entries []models.ActivityLog
	mu      sync.Mutex
}

// NewMockActivityRepository creates a new instance of MockActivityRepository.
func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

// Create appends a new activity log entry.
func (r *MockActivityRepository) Create(entry *models.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

// Entries returns a copy of the stored entries.
func (r *MockActivityRepository) Entries() []models.ActivityLog {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.ActivityLog, len(r.entries))
	copy(out, r.entries)
	return out
}
