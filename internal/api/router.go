// Package api wires the HTTP surface: router, middleware and handlers.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/handlers"
	custommiddleware "github.com/wealthyhq/scheme-returns-backend/internal/api/middleware"
	"github.com/wealthyhq/scheme-returns-backend/internal/config"
	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	System   *service.SystemService
	Schemes  *service.SchemeService
	Returns  *service.ReturnsService
	Screener *service.ScreenerService
	Stocks   *service.StockService
	Feed     *service.FeedService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		returnsHandler := handlers.NewReturnsHandler(svc.Returns)
		r.Route("/returns", func(r chi.Router) {
			r.Post("/", returnsHandler.Compute)
			r.Post("/batch", returnsHandler.ComputeBatch)
		})

		r.Route("/schemes", func(r chi.Router) {
			schemesHandler := handlers.NewSchemesHandler(svc.Schemes)
			r.Get("/", schemesHandler.List)
			r.Route("/{idType}/{idValue}", func(r chi.Router) {
				r.Get("/", schemesHandler.Get)
				r.Get("/nav-history", schemesHandler.NavHistory)
				r.Get("/returns", returnsHandler.ComputeForScheme)
			})
		})

		r.Route("/screeners", func(r chi.Router) {
			screenersHandler := handlers.NewScreenersHandler(svc.Screener)
			r.Get("/", screenersHandler.List)
			r.Route("/{screenerId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateScreenerIDMiddleware)
				r.Get("/", screenersHandler.Get)
			})
		})

		r.Route("/stocks", func(r chi.Router) {
			stocksHandler := handlers.NewStocksHandler(svc.Stocks)
			r.Get("/", stocksHandler.List)
			r.Get("/{wpc}", stocksHandler.Get)
		})

		// Feed administration, shared-key guarded
		r.Route("/feed", func(r chi.Router) {
			r.Use(custommiddleware.APIKeyMiddleware(cfg.APIKey))
			feedHandler := handlers.NewFeedHandler(svc.Feed)
			r.Post("/refresh", feedHandler.Refresh)
			r.Put("/config", feedHandler.SetConfig)
			r.Get("/runs", feedHandler.Runs)
		})
	})

	return r
}
