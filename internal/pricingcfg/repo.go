package pricingcfg

import (
	"context"
	"encoding/json"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles pricing config persistence. The table holds a single
// versioned row; every save bumps the version.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Fetch(ctx context.Context) (Config, int, error)
	Save(ctx context.Context, cfg Config, updatedBy string) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a pricing config repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Fetch loads the stored config and its version. gorm.ErrRecordNotFound is
// surfaced as-is so callers can distinguish "no row yet" from a broken store.
func (r *repository) Fetch(ctx context.Context) (Config, int, error) {
	var record models.PricingConfigRecord
	if err := r.db.WithContext(ctx).
		Order("version DESC").
		First(&record).Error; err != nil {
		return Config{}, 0, err
	}

	var cfg Config
	if err := json.Unmarshal(record.Payload, &cfg); err != nil {
		return Config{}, 0, err
	}
	return cfg, record.Version, nil
}

func (r *repository) Save(ctx context.Context, cfg Config, updatedBy string) (int, error) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return 0, err
	}

	var next int
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.PricingConfigRecord
		if err := tx.Order("version DESC").First(&current).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			current.Version = 0
		}
		next = current.Version + 1
		record := models.PricingConfigRecord{
			Version: next,
			Payload: payload,
		}
		if updatedBy != "" {
			record.UpdatedBy = &updatedBy
		}
		return tx.Create(&record).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
