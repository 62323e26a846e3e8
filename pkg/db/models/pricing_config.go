package models

import (
	"encoding/json"
	"time"
)

// PricingConfigRecord is the versioned singleton holding the tunable pricing
// rules (margin tiers, making-charge rates, base fees, rate table, GST).
// Mutated only through the admin update path.
type PricingConfigRecord struct {
	ID        int             `gorm:"column:id;primaryKey;autoIncrement"`
	Version   int             `gorm:"column:version;not null;default:1"`
	Payload   json.RawMessage `gorm:"column:payload;type:jsonb;not null"`
	UpdatedBy *string         `gorm:"column:updated_by"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default pluralization.
func (PricingConfigRecord) TableName() string {
	return "pricing_configs"
}
