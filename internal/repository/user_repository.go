package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"complaint-service/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FirstActiveByRole backs the fallback supervisor assignment during officer
// resolution submission. Oldest account first keeps the pick deterministic.
func (r *UserRepository) FirstActiveByRole(ctx context.Context, role model.UserRole) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}
