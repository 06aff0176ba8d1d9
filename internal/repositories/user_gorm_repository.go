package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"majalah/internal/apperrors"
	"majalah/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

// ListByIDs retrieves the users for the given ids.
func (r *GORMUserRepository) ListByIDs(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.Find(&users, "id IN ?", ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list users by ids: %w", err)
	}
	return users, nil
}

// Update saves all fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", user.ID, apperrors.ErrNotFound)
	}
	return nil
}
