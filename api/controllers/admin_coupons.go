package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/api/responses"
	"github.com/kanakjewels/kanak-backend/api/validators"
	couponsvc "github.com/kanakjewels/kanak-backend/internal/coupons"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

// AdminCouponsList returns coupons, optionally only the active ones.
func AdminCouponsList(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		activeOnly := strings.EqualFold(validators.QueryString(r, "active"), "true")
		coupons, err := svc.List(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]couponResponse, 0, len(coupons))
		for i := range coupons {
			out = append(out, newCouponResponse(&coupons[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// AdminCouponsCreate registers a new discount rule.
func AdminCouponsCreate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload couponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := payload.toModel()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Create(r.Context(), coupon); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCouponResponse(coupon))
	}
}

// AdminCouponsUpdate replaces an existing coupon's rule.
func AdminCouponsUpdate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "couponId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon id"))
			return
		}

		var payload couponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := payload.toModel()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		coupon.ID = id

		if err := svc.Update(r.Context(), coupon); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCouponResponse(coupon))
	}
}

// AdminCouponsDelete removes a coupon.
func AdminCouponsDelete(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "couponId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid coupon id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

type couponRequest struct {
	Code                 string     `json:"code" validate:"required"`
	Description          *string    `json:"description,omitempty"`
	DiscountType         string     `json:"discount_type" validate:"required,oneof=percentage flat"`
	DiscountValue        float64    `json:"discount_value" validate:"required,gt=0"`
	MaxDiscountAmount    *int       `json:"max_discount_amount,omitempty" validate:"omitempty,gt=0"`
	TargetProductHandles []string   `json:"target_product_handles,omitempty"`
	TargetCollections    []string   `json:"target_collections,omitempty"`
	StartsAt             *time.Time `json:"starts_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	MaxRedemptions       *int       `json:"max_redemptions,omitempty" validate:"omitempty,gt=0"`
	IsActive             *bool      `json:"is_active,omitempty"`
}

func (r couponRequest) toModel() (*models.Coupon, error) {
	discountType, err := enums.ParseDiscountType(strings.TrimSpace(r.DiscountType))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discount type")
	}

	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}

	return &models.Coupon{
		Code:                 strings.ToUpper(strings.TrimSpace(r.Code)),
		Description:          r.Description,
		DiscountType:         discountType,
		DiscountValue:        r.DiscountValue,
		MaxDiscountAmount:    r.MaxDiscountAmount,
		TargetProductHandles: r.TargetProductHandles,
		TargetCollections:    r.TargetCollections,
		StartsAt:             r.StartsAt,
		ExpiresAt:            r.ExpiresAt,
		MaxRedemptions:       r.MaxRedemptions,
		IsActive:             isActive,
	}, nil
}

type couponResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Code                 string     `json:"code"`
	Description          *string    `json:"description,omitempty"`
	DiscountType         string     `json:"discount_type"`
	DiscountValue        float64    `json:"discount_value"`
	MaxDiscountAmount    *int       `json:"max_discount_amount,omitempty"`
	TargetProductHandles []string   `json:"target_product_handles"`
	TargetCollections    []string   `json:"target_collections"`
	StartsAt             *time.Time `json:"starts_at,omitempty"`
	ExpiresAt            *time.Time `json:"expires_at,omitempty"`
	MaxRedemptions       *int       `json:"max_redemptions,omitempty"`
	RedemptionCount      int        `json:"redemption_count"`
	IsActive             bool       `json:"is_active"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func newCouponResponse(coupon *models.Coupon) couponResponse {
	return couponResponse{
		ID:                   coupon.ID,
		Code:                 coupon.Code,
		Description:          coupon.Description,
		DiscountType:         string(coupon.DiscountType),
		DiscountValue:        coupon.DiscountValue,
		MaxDiscountAmount:    coupon.MaxDiscountAmount,
		TargetProductHandles: coupon.TargetProductHandles,
		TargetCollections:    coupon.TargetCollections,
		StartsAt:             coupon.StartsAt,
		ExpiresAt:            coupon.ExpiresAt,
		MaxRedemptions:       coupon.MaxRedemptions,
		RedemptionCount:      coupon.RedemptionCount,
		IsActive:             coupon.IsActive,
		CreatedAt:            coupon.CreatedAt,
		UpdatedAt:            coupon.UpdatedAt,
	}
}
