package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/response"
)

// APIKeyMiddleware guards admin routes behind a shared key carried in the
// X-API-Key header. An empty configured key means authentication was never
// loaded and every request fails with 500 rather than passing open.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				response.RespondError(w, http.StatusInternalServerError, "internal error", "Authentication not loaded")
				return
			}

			provided := r.Header.Get("X-API-Key")
			if provided == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
