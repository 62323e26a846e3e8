package coupons

import (
	"github.com/shopspring/decimal"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// PricedLine is one cart line as the discount applier sees it: the computed
// breakdown plus the identifiers coupon targeting matches against.
type PricedLine struct {
	ProductHandle     string
	CollectionHandles []string
	Breakdown         types.PriceBreakdown
	Quantity          int
}

// DiscountResult reports the applied discount and the diamond subtotal that
// was eligible for it.
type DiscountResult struct {
	Discount                int
	EligibleDiamondSubtotal int
}

// ApplyDiscount computes a coupon's discount against the diamond component of
// the eligible cart lines. Gold, making charges, and GST are never discounted.
// Targeting is evaluated first: only matching lines contribute to the
// discountable subtotal, other lines are charged in full.
func ApplyDiscount(coupon *models.Coupon, lines []PricedLine) DiscountResult {
	if coupon == nil {
		return DiscountResult{}
	}

	eligible := 0
	for _, line := range lines {
		if !lineEligible(coupon, line) {
			continue
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		eligible += line.Breakdown.DiamondPrice * qty
	}
	if eligible <= 0 {
		return DiscountResult{}
	}

	var discount int
	switch coupon.DiscountType {
	case enums.DiscountTypePercentage:
		pct := decimal.NewFromFloat(coupon.DiscountValue)
		raw := decimal.NewFromInt(int64(eligible)).Mul(pct).Div(decimal.NewFromInt(100))
		discount = int(raw.Round(0).IntPart())
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case enums.DiscountTypeFlat:
		discount = int(decimal.NewFromFloat(coupon.DiscountValue).Round(0).IntPart())
	default:
		return DiscountResult{EligibleDiamondSubtotal: eligible}
	}

	// The diamond component can be driven to zero but never below it.
	if discount > eligible {
		discount = eligible
	}
	if discount < 0 {
		discount = 0
	}
	return DiscountResult{Discount: discount, EligibleDiamondSubtotal: eligible}
}

// lineEligible checks coupon targeting. A coupon with no targets applies to
// every line; otherwise the line must match a product handle or collection.
func lineEligible(coupon *models.Coupon, line PricedLine) bool {
	if len(coupon.TargetProductHandles) == 0 && len(coupon.TargetCollections) == 0 {
		return true
	}
	for _, handle := range coupon.TargetProductHandles {
		if handle == line.ProductHandle {
			return true
		}
	}
	for _, target := range coupon.TargetCollections {
		for _, collection := range line.CollectionHandles {
			if target == collection {
				return true
			}
		}
	}
	return false
}
