package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
)

// Repository handles cart persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActiveBySession(ctx context.Context, sessionID string) (*models.CartRecord, error)
	Create(ctx context.Context, cart *models.CartRecord) error
	Save(ctx context.Context, cart *models.CartRecord) error
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a cart repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindActiveBySession(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	if sessionID == "" {
		return nil, nil
	}
	var cart models.CartRecord
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("session_id = ? AND status = ?", sessionID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&cart).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(ctx context.Context, cart *models.CartRecord) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *repository) Save(ctx context.Context, cart *models.CartRecord) error {
	return r.db.WithContext(ctx).Save(cart).Error
}

func (r *repository) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}, "id = ?", itemID).Error
}
