// Package catalog reads products and their synced pricing records, and feeds
// the price engine with everything a product page needs.
package catalog

import (
	"context"
	"fmt"

	"github.com/kanakjewels/kanak-backend/internal/pricing"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// Service exposes catalog reads and the sync-side writes.
type Service interface {
	GetProduct(ctx context.Context, handle string) (*models.Product, error)
	ListProducts(ctx context.Context, params ListQuery) ([]models.Product, error)
	PriceProduct(ctx context.Context, handle string, karat enums.Karat) (*models.Product, types.PriceBreakdown, error)
	UpsertProduct(ctx context.Context, product *models.Product) error
	UpsertPricingRecord(ctx context.Context, record *models.PricingRecord) error
}

type service struct {
	repo   Repository
	engine *pricing.Engine
	logg   *logger.Logger
}

// Deps wires the catalog service.
type Deps struct {
	Repo   Repository
	Engine *pricing.Engine
	Logger *logger.Logger
}

// NewService builds the catalog service.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("catalog: repository is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("catalog: price engine is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("catalog: logger is required")
	}
	return &service{repo: deps.Repo, engine: deps.Engine, logg: deps.Logger}, nil
}

func (s *service) GetProduct(ctx context.Context, handle string) (*models.Product, error) {
	product, err := s.repo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params ListQuery) ([]models.Product, error) {
	products, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

// PriceProduct loads a product and computes its breakdown for the selected
// karat in one call. This is the storefront product-page path.
func (s *service) PriceProduct(ctx context.Context, handle string, karat enums.Karat) (*models.Product, types.PriceBreakdown, error) {
	product, err := s.GetProduct(ctx, handle)
	if err != nil {
		return nil, types.PriceBreakdown{}, err
	}

	input := pricing.Input{
		ProductHandle: product.Handle,
		Karat:         karat,
		Record:        product.PricingRecord,
	}
	if product.DescriptionHTML != nil {
		input.DescriptionHTML = *product.DescriptionHTML
	}

	breakdown, err := s.engine.Calculate(ctx, input)
	if err != nil {
		return nil, types.PriceBreakdown{}, err
	}
	return product, breakdown, nil
}

func (s *service) UpsertProduct(ctx context.Context, product *models.Product) error {
	if product == nil || product.Handle == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product handle is required")
	}
	if product.Title == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	if err := s.repo.UpsertProduct(ctx, product); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
	}
	return nil
}

func (s *service) UpsertPricingRecord(ctx context.Context, record *models.PricingRecord) error {
	if record == nil || record.ProductHandle == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "pricing record product handle is required")
	}
	if err := s.repo.UpsertPricingRecord(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert pricing record")
	}
	return nil
}
