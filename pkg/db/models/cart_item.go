package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/pkg/enums"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// CartItem snapshots one priced product line, including the breakdown the
// engine computed at quote time.
type CartItem struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID             `gorm:"column:cart_id;type:uuid;not null"`
	ProductID      uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	ProductHandle  string                `gorm:"column:product_handle;not null"`
	Karat          enums.Karat           `gorm:"column:karat;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	PriceBreakdown *types.PriceBreakdown `gorm:"column:price_breakdown;type:jsonb;serializer:json"`
	LineTotal      int                   `gorm:"column:line_total;not null"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
