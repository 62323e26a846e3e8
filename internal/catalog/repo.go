package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
)

// Repository handles catalog persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByHandle(ctx context.Context, handle string) (*models.Product, error)
	List(ctx context.Context, params ListQuery) ([]models.Product, error)
	UpsertProduct(ctx context.Context, product *models.Product) error
	UpsertPricingRecord(ctx context.Context, record *models.PricingRecord) error
}

// ListQuery configures catalog list queries.
type ListQuery struct {
	Collection string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByHandle loads a product with its pricing record, when one exists.
func (r *repository) FindByHandle(ctx context.Context, handle string) (*models.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, nil
	}
	var product models.Product
	if err := r.db.WithContext(ctx).
		Preload("PricingRecord").
		Where("handle = ?", handle).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, params ListQuery) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if params.ActiveOnly {
		query = query.Where("is_active")
	}
	if params.Collection != "" {
		query = query.Where("? = ANY(collection_handles)", params.Collection)
	}
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) UpsertProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "handle"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "subtitle", "description_html", "collection_handles",
				"featured_image", "is_active", "updated_at",
			}),
		}).
		Create(product).Error
}

// UpsertPricingRecord replaces the synced row for a product handle. The sync
// job rewrites whole rows, so a full-column update is correct here.
func (r *repository) UpsertPricingRecord(ctx context.Context, record *models.PricingRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_handle"}},
			UpdateAll: true,
		}).
		Create(record).Error
}
