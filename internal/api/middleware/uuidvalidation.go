// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wealthyhq/scheme-returns-backend/internal/api/response"
	"github.com/wealthyhq/scheme-returns-backend/internal/validation"
)

// ValidateScreenerIDMiddleware validates that the screenerId URL parameter
// is present and is a valid UUID. Returns 400 Bad Request otherwise, so
// malformed ids never reach the handler.
//
// Example usage in router:
//
//	r.Route("/{screenerId}", func(r chi.Router) {
//	    r.Use(middleware.ValidateScreenerIDMiddleware)
//	    r.Get("/", handler.Screener)
//	})
func ValidateScreenerIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		screenerID := chi.URLParam(r, "screenerId")

		if screenerID == "" {
			response.RespondError(w, http.StatusBadRequest, "valid screener id is required", "")
			return
		}

		if err := validation.ValidateUUID(screenerID); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid screener id format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
