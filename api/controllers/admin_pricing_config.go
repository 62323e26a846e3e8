package controllers

import (
	"net/http"

	"github.com/kanakjewels/kanak-backend/api/middleware"
	"github.com/kanakjewels/kanak-backend/api/responses"
	"github.com/kanakjewels/kanak-backend/api/validators"
	"github.com/kanakjewels/kanak-backend/internal/pricingcfg"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

// AdminPricingConfigGet returns the pricing configuration the engine is
// currently serving, which may be the fallback when the store is unreachable.
func AdminPricingConfigGet(svc pricingcfg.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing config service unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.Config(r.Context()))
	}
}

// AdminPricingConfigUpdate validates and stores a new config version.
func AdminPricingConfigUpdate(svc pricingcfg.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing config service unavailable"))
			return
		}

		var payload pricingcfg.Config
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		version, err := svc.Update(r.Context(), payload, middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]int{"version": version})
	}
}
