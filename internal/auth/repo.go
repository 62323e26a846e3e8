package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
)

// Repository handles admin user persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an admin user repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", email).
		First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repository) Create(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}
