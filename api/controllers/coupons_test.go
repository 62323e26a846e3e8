package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	couponsvc "github.com/kanakjewels/kanak-backend/internal/coupons"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
)

func requestWithCode(code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/coupons/"+code, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("code", code)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCouponsValidate(t *testing.T) {
	logg := testLogger()
	maxDiscount := 5000

	t.Run("happy path", func(t *testing.T) {
		svc := &stubCouponService{coupon: &models.Coupon{
			Code:              "FESTIVE10",
			DiscountType:      enums.DiscountTypePercentage,
			DiscountValue:     10,
			MaxDiscountAmount: &maxDiscount,
		}}
		rec := httptest.NewRecorder()
		CouponsValidate(svc, logg).ServeHTTP(rec, requestWithCode("FESTIVE10"))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload struct {
			Data publicCouponResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if payload.Data.Code != "FESTIVE10" || payload.Data.DiscountType != "percentage" {
			t.Fatalf("unexpected coupon payload: %+v", payload.Data)
		}
		if payload.Data.MaxDiscountAmount == nil || *payload.Data.MaxDiscountAmount != 5000 {
			t.Fatalf("expected max discount 5000, got %v", payload.Data.MaxDiscountAmount)
		}
	})

	t.Run("rejected coupon", func(t *testing.T) {
		svc := &stubCouponService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "coupon has expired")}
		rec := httptest.NewRecorder()
		CouponsValidate(svc, logg).ServeHTTP(rec, requestWithCode("EXPIRED"))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("unknown coupon", func(t *testing.T) {
		svc := &stubCouponService{err: pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")}
		rec := httptest.NewRecorder()
		CouponsValidate(svc, logg).ServeHTTP(rec, requestWithCode("NOPE"))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

type stubCouponService struct {
	coupon *models.Coupon
	err    error
}

func (s *stubCouponService) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	return s.coupon, s.err
}

func (s *stubCouponService) Apply(ctx context.Context, code string, lines []couponsvc.PricedLine) (*models.Coupon, couponsvc.DiscountResult, error) {
	return s.coupon, couponsvc.DiscountResult{}, s.err
}

func (s *stubCouponService) Redeem(ctx context.Context, couponID, cartID uuid.UUID, discount int) error {
	return s.err
}

func (s *stubCouponService) List(ctx context.Context, activeOnly bool) ([]models.Coupon, error) {
	if s.coupon == nil {
		return nil, s.err
	}
	return []models.Coupon{*s.coupon}, s.err
}

func (s *stubCouponService) Create(ctx context.Context, coupon *models.Coupon) error { return s.err }
func (s *stubCouponService) Update(ctx context.Context, coupon *models.Coupon) error { return s.err }
func (s *stubCouponService) Delete(ctx context.Context, id uuid.UUID) error          { return s.err }
