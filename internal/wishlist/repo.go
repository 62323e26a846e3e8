package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
)

// Repository handles wishlist persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListBySession(ctx context.Context, sessionID string) ([]models.WishlistItem, error)
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wishlist repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListBySession(ctx context.Context, sessionID string) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) Add(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productID).
		Delete(&models.WishlistItem{}).Error
}
