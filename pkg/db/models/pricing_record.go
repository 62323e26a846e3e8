package models

import (
	"time"
)

// PricingRecord is the per-product row populated by the spreadsheet sync job.
// Synced cells arrive as raw text, so every value is a nullable string; the
// engine parses them and decides the pricing mode from which cells are filled.
type PricingRecord struct {
	ProductHandle string     `gorm:"column:product_handle;primaryKey"`
	PricingMode   *string    `gorm:"column:pricing_mode"`
	Price10K      *string    `gorm:"column:price_10k"`
	Price14K      *string    `gorm:"column:price_14k"`
	Price18K      *string    `gorm:"column:price_18k"`
	Weight10K     *string    `gorm:"column:weight_10k"`
	Weight14K     *string    `gorm:"column:weight_14k"`
	Weight18K     *string    `gorm:"column:weight_18k"`
	DiamondPrice  *string    `gorm:"column:diamond_price"`
	GoldPrice14K  *string    `gorm:"column:gold_price_14k"`
	MakingCharges *string    `gorm:"column:making_charges"`
	GST           *string    `gorm:"column:gst"`
	SyncedAt      *time.Time `gorm:"column:synced_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (PricingRecord) TableName() string {
	return "pricing_records"
}
