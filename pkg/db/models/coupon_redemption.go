package models

import (
	"time"

	"github.com/google/uuid"
)

// CouponRedemption records one applied coupon against a cart.
type CouponRedemption struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CouponID       uuid.UUID `gorm:"column:coupon_id;type:uuid;not null"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null"`
	DiscountAmount int       `gorm:"column:discount_amount;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
