// Package coupons validates diamond-only discount coupons and applies them to
// computed price breakdowns.
package coupons

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

// Service exposes coupon validation, application, and the admin CRUD surface.
type Service interface {
	Validate(ctx context.Context, code string) (*models.Coupon, error)
	Apply(ctx context.Context, code string, lines []PricedLine) (*models.Coupon, DiscountResult, error)
	Redeem(ctx context.Context, couponID, cartID uuid.UUID, discount int) error
	List(ctx context.Context, activeOnly bool) ([]models.Coupon, error)
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// Deps wires the coupon service.
type Deps struct {
	Repo   Repository
	Logger *logger.Logger
	Now    func() time.Time
}

// NewService builds the coupon service.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("coupons: repository is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("coupons: logger is required")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{repo: deps.Repo, logg: deps.Logger, now: deps.Now}, nil
}

// Validate loads a coupon by code and checks every business rule. Rejections
// carry explicit reasons; they are business outcomes, not system failures.
func (s *service) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon code not found")
	}
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon is no longer active")
	}

	now := s.now()
	if coupon.StartsAt != nil && now.Before(*coupon.StartsAt) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon is not active yet")
	}
	if coupon.ExpiresAt != nil && now.After(*coupon.ExpiresAt) {
		return nil, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon has expired")
	}
	if coupon.MaxRedemptions != nil && coupon.RedemptionCount >= *coupon.MaxRedemptions {
		return nil, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon redemption limit reached")
	}
	return coupon, nil
}

// Apply validates the code and computes the discount for the given lines. A
// coupon that matches no line is rejected rather than silently discounting
// nothing.
func (s *service) Apply(ctx context.Context, code string, lines []PricedLine) (*models.Coupon, DiscountResult, error) {
	coupon, err := s.Validate(ctx, code)
	if err != nil {
		return nil, DiscountResult{}, err
	}

	result := ApplyDiscount(coupon, lines)
	if result.EligibleDiamondSubtotal == 0 {
		return nil, DiscountResult{}, pkgerrors.New(pkgerrors.CodeCouponRejected, "coupon does not apply to any item in the cart")
	}

	ctx = s.logg.WithCouponCode(ctx, coupon.Code)
	s.logg.Info(ctx, fmt.Sprintf("coupon discount %d on eligible diamond subtotal %d", result.Discount, result.EligibleDiamondSubtotal))
	return coupon, result, nil
}

func (s *service) Redeem(ctx context.Context, couponID, cartID uuid.UUID, discount int) error {
	return s.repo.RecordRedemption(ctx, &models.CouponRedemption{
		CouponID:       couponID,
		CartID:         cartID,
		DiscountAmount: discount,
	})
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Coupon, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *service) Create(ctx context.Context, coupon *models.Coupon) error {
	if err := validateRule(coupon); err != nil {
		return err
	}
	return s.repo.Create(ctx, coupon)
}

func (s *service) Update(ctx context.Context, coupon *models.Coupon) error {
	if err := validateRule(coupon); err != nil {
		return err
	}
	return s.repo.Update(ctx, coupon)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validateRule(coupon *models.Coupon) error {
	if coupon == nil || coupon.Code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !coupon.DiscountType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount type must be percentage or flat")
	}
	if coupon.DiscountValue <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount value must be positive")
	}
	if coupon.DiscountType == enums.DiscountTypePercentage && coupon.DiscountValue > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "percentage discount cannot exceed 100")
	}
	if coupon.MaxDiscountAmount != nil && *coupon.MaxDiscountAmount <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max discount amount must be positive when set")
	}
	if coupon.StartsAt != nil && coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(*coupon.StartsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon expiry must be after its start")
	}
	return nil
}
