// Package cart manages session carts. Each line snapshots the breakdown the
// price engine produced at add time; coupons discount only the diamond
// component of eligible lines.
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/internal/catalog"
	"github.com/kanakjewels/kanak-backend/internal/coupons"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// Service exposes cart operations for a storefront session.
type Service interface {
	GetCart(ctx context.Context, sessionID string) (*models.CartRecord, error)
	AddItem(ctx context.Context, sessionID string, params AddItemParams) (*models.CartRecord, error)
	UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*models.CartRecord, error)
	RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*models.CartRecord, error)
	ApplyCoupon(ctx context.Context, sessionID, code string) (*models.CartRecord, error)
	RemoveCoupon(ctx context.Context, sessionID string) (*models.CartRecord, error)
	Quote(ctx context.Context, params QuoteParams) (*QuoteResult, error)
}

// AddItemParams describes one add-to-cart request.
type AddItemParams struct {
	ProductHandle string
	Karat         enums.Karat
	Quantity      int
}

// QuoteParams describes a stateless price quote: a set of lines and an
// optional coupon code, priced at current rates without touching any cart.
type QuoteParams struct {
	Lines      []AddItemParams
	CouponCode string
}

// QuoteLine is one priced line of a quote.
type QuoteLine struct {
	ProductHandle string
	Karat         enums.Karat
	Quantity      int
	Breakdown     types.PriceBreakdown
	LineTotal     int
}

// QuoteResult is the priced quote.
type QuoteResult struct {
	Lines      []QuoteLine
	CouponCode string
	Subtotal   int
	Discount   int
	Total      int
}

type service struct {
	repo    Repository
	catalog catalog.Service
	coupons coupons.Service
	logg    *logger.Logger
}

// Deps wires the cart service.
type Deps struct {
	Repo    Repository
	Catalog catalog.Service
	Coupons coupons.Service
	Logger  *logger.Logger
}

// NewService builds the cart service.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("cart: repository is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("cart: catalog service is required")
	}
	if deps.Coupons == nil {
		return nil, fmt.Errorf("cart: coupon service is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("cart: logger is required")
	}
	return &service{
		repo:    deps.Repo,
		catalog: deps.Catalog,
		coupons: deps.Coupons,
		logg:    deps.Logger,
	}, nil
}

func (s *service) GetCart(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &models.CartRecord{SessionID: sessionID, Status: enums.CartStatusActive}, nil
	}
	return cart, nil
}

// AddItem prices the product for the selected karat and appends or merges the
// cart line. The breakdown is snapshotted so later price moves do not reprice
// an existing cart.
func (s *service) AddItem(ctx context.Context, sessionID string, params AddItemParams) (*models.CartRecord, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if params.Quantity <= 0 {
		params.Quantity = 1
	}
	if !params.Karat.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "karat must be 10K, 14K, or 18K")
	}

	product, breakdown, err := s.catalog.PriceProduct(ctx, params.ProductHandle, params.Karat)
	if err != nil {
		return nil, err
	}

	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.CartRecord{SessionID: sessionID, Status: enums.CartStatusActive}
		if err := s.repo.Create(ctx, cart); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
		}
	}

	merged := false
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ProductHandle == product.Handle && item.Karat == params.Karat {
			item.Quantity += params.Quantity
			// The line keeps the breakdown it was first priced with.
			if item.PriceBreakdown == nil {
				item.PriceBreakdown = &breakdown
			}
			item.LineTotal = item.PriceBreakdown.TotalPrice * item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			CartID:         cart.ID,
			ProductID:      product.ID,
			ProductHandle:  product.Handle,
			Karat:          params.Karat,
			Quantity:       params.Quantity,
			PriceBreakdown: &breakdown,
			LineTotal:      breakdown.TotalPrice * params.Quantity,
		})
	}

	return s.recomputeAndSave(ctx, cart)
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*models.CartRecord, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, itemID)
	}
	cart, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ID == itemID {
			item.Quantity = quantity
			if item.PriceBreakdown != nil {
				item.LineTotal = item.PriceBreakdown.TotalPrice * quantity
			}
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.recomputeAndSave(ctx, cart)
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, itemID uuid.UUID) (*models.CartRecord, error) {
	cart, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	cart.Items = kept

	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return s.recomputeAndSave(ctx, cart)
}

// ApplyCoupon validates the code against the cart's current lines and stores
// the resulting discount. Targeting eligibility is resolved before any
// discount math, using each product's collection handles.
func (s *service) ApplyCoupon(ctx context.Context, sessionID, code string) (*models.CartRecord, error) {
	cart, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot apply a coupon to an empty cart")
	}

	lines, err := s.pricedLines(ctx, cart)
	if err != nil {
		return nil, err
	}

	coupon, result, err := s.coupons.Apply(ctx, code, lines)
	if err != nil {
		return nil, err
	}

	cart.CouponCode = &coupon.Code
	cart.DiscountAmount = result.Discount
	saved, err := s.recomputeAndSave(ctx, cart)
	if err != nil {
		return nil, err
	}
	if err := s.coupons.Redeem(ctx, coupon.ID, cart.ID, result.Discount); err != nil {
		s.logg.Error(ctx, "record coupon redemption", err)
	}
	return saved, nil
}

// Quote prices the requested lines at current rates and, when a coupon code is
// supplied, computes the discount it would yield. Nothing is persisted and no
// redemption is recorded.
func (s *service) Quote(ctx context.Context, params QuoteParams) (*QuoteResult, error) {
	if len(params.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}

	result := &QuoteResult{Lines: make([]QuoteLine, 0, len(params.Lines))}
	couponLines := make([]coupons.PricedLine, 0, len(params.Lines))
	for _, line := range params.Lines {
		if !line.Karat.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "karat must be 10K, 14K, or 18K")
		}
		if line.Quantity <= 0 {
			line.Quantity = 1
		}
		product, breakdown, err := s.catalog.PriceProduct(ctx, line.ProductHandle, line.Karat)
		if err != nil {
			return nil, err
		}
		quoted := QuoteLine{
			ProductHandle: product.Handle,
			Karat:         line.Karat,
			Quantity:      line.Quantity,
			Breakdown:     breakdown,
			LineTotal:     breakdown.TotalPrice * line.Quantity,
		}
		result.Lines = append(result.Lines, quoted)
		result.Subtotal += quoted.LineTotal
		couponLines = append(couponLines, coupons.PricedLine{
			ProductHandle:     product.Handle,
			CollectionHandles: product.CollectionHandles,
			Breakdown:         breakdown,
			Quantity:          line.Quantity,
		})
	}

	if params.CouponCode != "" {
		coupon, discount, err := s.coupons.Apply(ctx, params.CouponCode, couponLines)
		if err != nil {
			return nil, err
		}
		result.CouponCode = coupon.Code
		result.Discount = discount.Discount
		if result.Discount > result.Subtotal {
			result.Discount = result.Subtotal
		}
	}
	result.Total = result.Subtotal - result.Discount
	return result, nil
}

func (s *service) RemoveCoupon(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	cart, err := s.requireCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cart.CouponCode = nil
	cart.DiscountAmount = 0
	return s.recomputeAndSave(ctx, cart)
}

func (s *service) loadCart(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	cart, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) requireCart(ctx context.Context, sessionID string) (*models.CartRecord, error) {
	cart, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart for session")
	}
	return cart, nil
}

// pricedLines builds the discount applier's view of the cart, resolving each
// product's collections for coupon targeting.
func (s *service) pricedLines(ctx context.Context, cart *models.CartRecord) ([]coupons.PricedLine, error) {
	lines := make([]coupons.PricedLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.PriceBreakdown == nil {
			continue
		}
		product, err := s.catalog.GetProduct(ctx, item.ProductHandle)
		if err != nil {
			return nil, err
		}
		lines = append(lines, coupons.PricedLine{
			ProductHandle:     item.ProductHandle,
			CollectionHandles: product.CollectionHandles,
			Breakdown:         *item.PriceBreakdown,
			Quantity:          item.Quantity,
		})
	}
	return lines, nil
}

// recomputeAndSave rebuilds the cart totals from its lines and persists
// everything. Discounts never drive the total negative.
func (s *service) recomputeAndSave(ctx context.Context, cart *models.CartRecord) (*models.CartRecord, error) {
	subtotal := 0
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.CartID == uuid.Nil {
			item.CartID = cart.ID
		}
		subtotal += item.LineTotal
	}
	cart.Subtotal = subtotal
	if cart.DiscountAmount > subtotal {
		cart.DiscountAmount = subtotal
	}
	cart.Total = subtotal - cart.DiscountAmount

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return cart, nil
}
