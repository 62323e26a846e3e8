package controllers

import (
	"net/http"

	"github.com/kanakjewels/kanak-backend/api/responses"
	"github.com/kanakjewels/kanak-backend/api/validators"
	"github.com/kanakjewels/kanak-backend/internal/goldprice"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

// AdminGoldPrice reports the spot price the engine is currently pricing with.
// ?refresh=true drops the cached value and forces an upstream fetch.
func AdminGoldPrice(svc goldprice.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "gold price service unavailable"))
			return
		}

		if validators.QueryString(r, "refresh") == "true" {
			svc.Invalidate()
		}

		_, cached := svc.Peek()
		price := svc.PricePerGram(r.Context())

		responses.WriteSuccess(w, goldPriceResponse{
			PricePerGram: price,
			Cached:       cached,
		})
	}
}

type goldPriceResponse struct {
	PricePerGram float64 `json:"price_per_gram"`
	Cached       bool    `json:"cached"`
}
