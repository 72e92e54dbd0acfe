package middleware

import (
	"github.com/go-chi/cors"
)

// NewCORS builds the CORS policy for the API. The read surface is consumed
// by browser frontends on other origins; the X-API-Key header must be
// allowed through for the feed admin routes.
func NewCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{
			"Content-Type",
			"Authorization",
			"X-API-Key",
		},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
