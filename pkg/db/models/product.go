package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is the canonical catalog listing. DescriptionHTML carries the
// labeled specification lists ("Diamond Shape", "18K Gold", ...) that the
// extractor parses when no synced pricing record applies.
type Product struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Handle            string         `gorm:"column:handle;uniqueIndex;not null"`
	Title             string         `gorm:"column:title;not null"`
	Subtitle          *string        `gorm:"column:subtitle"`
	DescriptionHTML   *string        `gorm:"column:description_html"`
	CollectionHandles pq.StringArray `gorm:"column:collection_handles;type:text[];not null;default:ARRAY[]::text[]"`
	FeaturedImage     *string        `gorm:"column:featured_image"`
	IsActive          bool           `gorm:"column:is_active;not null;default:true"`
	PricingRecord     *PricingRecord `gorm:"foreignKey:ProductHandle;references:Handle;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
