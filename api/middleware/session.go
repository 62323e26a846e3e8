package middleware

import (
	"net/http"
	"strings"

	"github.com/kanakjewels/kanak-backend/api/responses"
	pkgerrors "github.com/kanakjewels/kanak-backend/pkg/errors"
	"github.com/kanakjewels/kanak-backend/pkg/logger"
)

const sessionHeader = "X-Session-Id"

// Session seeds the storefront session identifier from the X-Session-Id
// header. Anonymous shoppers mint the identifier client side and present it
// on every cart and wishlist call.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(sessionHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Session-Id header required"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithField(ctx, "session_id", sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
