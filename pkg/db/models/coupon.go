package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/kanakjewels/kanak-backend/pkg/enums"
)

// Coupon stores a diamond-only discount rule. Empty target arrays mean the
// coupon applies to every cart line.
type Coupon struct {
	ID                   uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                 string             `gorm:"column:code;uniqueIndex;not null"`
	Description          *string            `gorm:"column:description"`
	DiscountType         enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue        float64            `gorm:"column:discount_value;not null"`
	MaxDiscountAmount    *int               `gorm:"column:max_discount_amount"`
	TargetProductHandles pq.StringArray     `gorm:"column:target_product_handles;type:text[];not null;default:ARRAY[]::text[]"`
	TargetCollections    pq.StringArray     `gorm:"column:target_collections;type:text[];not null;default:ARRAY[]::text[]"`
	StartsAt             *time.Time         `gorm:"column:starts_at"`
	ExpiresAt            *time.Time         `gorm:"column:expires_at"`
	MaxRedemptions       *int               `gorm:"column:max_redemptions"`
	RedemptionCount      int                `gorm:"column:redemption_count;not null;default:0"`
	IsActive             bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt            time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
