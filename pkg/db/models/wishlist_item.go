package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a storefront session to a liked product.
type WishlistItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID string    `gorm:"column:session_id;index:idx_wishlist_session_product,unique;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;index:idx_wishlist_session_product,unique;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
