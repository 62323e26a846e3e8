package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/pkg/enums"
)

// CartRecord persists a shopper's cart keyed by their storefront session.
// Totals are whole-rupee amounts mirroring the line breakdowns.
type CartRecord struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      string           `gorm:"column:session_id;index;not null"`
	Status         enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	Subtotal       int              `gorm:"column:subtotal;not null"`
	DiscountAmount int              `gorm:"column:discount_amount;not null;default:0"`
	CouponCode     *string          `gorm:"column:coupon_code"`
	Total          int              `gorm:"column:total;not null"`
	Items          []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
