package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kanakjewels/kanak-backend/api/responses"
	"github.com/kanakjewels/kanak-backend/api/validators"
	catalogsvc "github.com/kanakjewels/kanak-backend/internal/catalog"
	"github.com/kanakjewels/kanak-backend/pkg/db/models"
	"github.com/kanakjewels/kanak-backend/pkg/enums"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
	"github.com/kanakjewels/kanak-backend/pkg/types"
)

// ProductsList returns active catalog listings, optionally filtered by collection.
func ProductsList(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 24, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), catalogsvc.ListQuery{
			Collection: validators.QueryString(r, "collection"),
			ActiveOnly: true,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]productResponse, 0, len(products))
		for i := range products {
			out = append(out, newProductResponse(&products[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

// ProductsGet returns a single listing by handle.
func ProductsGet(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		handle := strings.TrimSpace(chi.URLParam(r, "handle"))
		if handle == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product handle required"))
			return
		}

		product, err := svc.GetProduct(r.Context(), handle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductResponse(product))
	}
}

// ProductsPrice quotes a product for the requested karat.
func ProductsPrice(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		handle := strings.TrimSpace(chi.URLParam(r, "handle"))
		if handle == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product handle required"))
			return
		}

		karat, err := enums.ParseKarat(validators.QueryString(r, "karat"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid karat"))
			return
		}

		product, breakdown, err := svc.PriceProduct(r.Context(), handle, karat)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, priceResponse{
			ProductHandle: product.Handle,
			Karat:         string(karat),
			Breakdown:     breakdown,
		})
	}
}

type productResponse struct {
	ID                uuid.UUID `json:"id"`
	Handle            string    `json:"handle"`
	Title             string    `json:"title"`
	Subtitle          *string   `json:"subtitle,omitempty"`
	DescriptionHTML   *string   `json:"description_html,omitempty"`
	CollectionHandles []string  `json:"collection_handles"`
	FeaturedImage     *string   `json:"featured_image,omitempty"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type priceResponse struct {
	ProductHandle string               `json:"product_handle"`
	Karat         string               `json:"karat"`
	Breakdown     types.PriceBreakdown `json:"breakdown"`
}

func newProductResponse(product *models.Product) productResponse {
	return productResponse{
		ID:                product.ID,
		Handle:            product.Handle,
		Title:             product.Title,
		Subtitle:          product.Subtitle,
		DescriptionHTML:   product.DescriptionHTML,
		CollectionHandles: product.CollectionHandles,
		FeaturedImage:     product.FeaturedImage,
		IsActive:          product.IsActive,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}
