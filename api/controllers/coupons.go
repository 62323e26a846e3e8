package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kanakjewels/kanak-backend/api/responses"
	couponsvc "github.com/kanakjewels/kanak-backend/internal/coupons"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

// CouponsValidate is the storefront's pre-checkout coupon check. It runs the
// full rule set (window, caps, active flag) but exposes only the fields a
// shopper needs; rejections surface as coded business errors.
func CouponsValidate(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if code == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required"))
			return
		}

		coupon, err := svc.Validate(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, publicCouponResponse{
			Code:              coupon.Code,
			DiscountType:      string(coupon.DiscountType),
			DiscountValue:     coupon.DiscountValue,
			MaxDiscountAmount: coupon.MaxDiscountAmount,
		})
	}
}

type publicCouponResponse struct {
	Code              string  `json:"code"`
	DiscountType      string  `json:"discount_type"`
	DiscountValue     float64 `json:"discount_value"`
	MaxDiscountAmount *int    `json:"max_discount_amount,omitempty"`
}
