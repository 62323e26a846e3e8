package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/api/middleware"
	"github.com/kanakjewels/kanak-backend/api/responses"
	"github.com/kanakjewels/kanak-backend/api/validators"
	cartsvc "github.com/kanakjewels/kanak-backend/internal/cart"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// CartGet returns the session's active cart, empty when none exists yet.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		record, err := svc.GetCart(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartRecordResponse(record))
	}
}

// CartAddItem prices a product and adds it to the session cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		karat, err := enums.ParseKarat(strings.TrimSpace(payload.Karat))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid karat"))
			return
		}

		record, err := svc.AddItem(r.Context(), middleware.SessionIDFromContext(r.Context()), cartsvc.AddItemParams{
			ProductHandle: strings.TrimSpace(payload.ProductHandle),
			Karat:         karat,
			Quantity:      payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartRecordResponse(record))
	}
}

// CartUpdateItem changes a line's quantity; zero removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateQuantity(r.Context(), middleware.SessionIDFromContext(r.Context()), itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartRecordResponse(record))
	}
}

// CartRemoveItem deletes a line from the session cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		itemID, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		record, err := svc.RemoveItem(r.Context(), middleware.SessionIDFromContext(r.Context()), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartRecordResponse(record))
	}
}

// CartApplyCoupon validates a code against the cart and stores the discount.
func CartApplyCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.ApplyCoupon(r.Context(), middleware.SessionIDFromContext(r.Context()), strings.TrimSpace(payload.Code))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartRecordResponse(record))
	}
}

// CartQuote prices a set of lines at current rates without touching any cart.
// An optional coupon code is evaluated but never redeemed.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := cartsvc.QuoteParams{CouponCode: strings.TrimSpace(payload.CouponCode)}
		for _, line := range payload.Lines {
			karat, err := enums.ParseKarat(strings.TrimSpace(line.Karat))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid karat"))
				return
			}
			params.Lines = append(params.Lines, cartsvc.AddItemParams{
				ProductHandle: strings.TrimSpace(line.ProductHandle),
				Karat:         karat,
				Quantity:      line.Quantity,
			})
		}

		quote, err := svc.Quote(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newQuoteResponse(quote))
	}
}

// CartRemoveCoupon clears any applied coupon and restores the totals.
func CartRemoveCoupon(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		record, err := svc.RemoveCoupon(r.Context(), middleware.SessionIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartRecordResponse(record))
	}
}

type addCartItemRequest struct {
	ProductHandle string `json:"product_handle" validate:"required"`
	Karat         string `json:"karat" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type quoteRequest struct {
	Lines      []quoteLineRequest `json:"lines" validate:"required,min=1,dive"`
	CouponCode string             `json:"coupon_code"`
}

type quoteLineRequest struct {
	ProductHandle string `json:"product_handle" validate:"required"`
	Karat         string `json:"karat" validate:"required"`
	Quantity      int    `json:"quantity" validate:"required,min=1"`
}

type quoteResponse struct {
	Lines      []quoteLineResponse `json:"lines"`
	CouponCode string              `json:"coupon_code,omitempty"`
	Subtotal   int                 `json:"subtotal"`
	Discount   int                 `json:"discount"`
	Total      int                 `json:"total"`
}

type quoteLineResponse struct {
	ProductHandle string               `json:"product_handle"`
	Karat         string               `json:"karat"`
	Quantity      int                  `json:"quantity"`
	Breakdown     types.PriceBreakdown `json:"breakdown"`
	LineTotal     int                  `json:"line_total"`
}

func newQuoteResponse(quote *cartsvc.QuoteResult) quoteResponse {
	lines := make([]quoteLineResponse, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		lines = append(lines, quoteLineResponse{
			ProductHandle: line.ProductHandle,
			Karat:         string(line.Karat),
			Quantity:      line.Quantity,
			Breakdown:     line.Breakdown,
			LineTotal:     line.LineTotal,
		})
	}
	return quoteResponse{
		Lines:      lines,
		CouponCode: quote.CouponCode,
		Subtotal:   quote.Subtotal,
		Discount:   quote.Discount,
		Total:      quote.Total,
	}
}

type cartRecordResponse struct {
	ID             uuid.UUID          `json:"id"`
	SessionID      string             `json:"session_id"`
	Status         string             `json:"status"`
	Subtotal       int                `json:"subtotal"`
	DiscountAmount int                `json:"discount_amount"`
	CouponCode     *string            `json:"coupon_code,omitempty"`
	Total          int                `json:"total"`
	Items          []cartItemResponse `json:"items"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

type cartItemResponse struct {
	ID             uuid.UUID             `json:"id"`
	ProductID      uuid.UUID             `json:"product_id"`
	ProductHandle  string                `json:"product_handle"`
	Karat          string                `json:"karat"`
	Quantity       int                   `json:"quantity"`
	PriceBreakdown *types.PriceBreakdown `json:"price_breakdown,omitempty"`
	LineTotal      int                   `json:"line_total"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func newCartRecordResponse(record *models.CartRecord) cartRecordResponse {
	items := make([]cartItemResponse, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductHandle:  item.ProductHandle,
			Karat:          string(item.Karat),
			Quantity:       item.Quantity,
			PriceBreakdown: item.PriceBreakdown,
			LineTotal:      item.LineTotal,
			CreatedAt:      item.CreatedAt,
			UpdatedAt:      item.UpdatedAt,
		})
	}

	return cartRecordResponse{
		ID:             record.ID,
		SessionID:      record.SessionID,
		Status:         string(record.Status),
		Subtotal:       record.Subtotal,
		DiscountAmount: record.DiscountAmount,
		CouponCode:     record.CouponCode,
		Total:          record.Total,
		Items:          items,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}
