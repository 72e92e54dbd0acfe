package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wealthyhq/scheme-returns-backend/internal/api"
	"github.com/wealthyhq/scheme-returns-backend/internal/cache"
	"github.com/wealthyhq/scheme-returns-backend/internal/config"
	"github.com/wealthyhq/scheme-returns-backend/internal/database"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	navRepo := repository.NewNavRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	screenerRepo := repository.NewScreenerRepository(db)
	stockRepo := repository.NewStockRepository(db)
	feedRepo := repository.NewFeedRepository(db)

	// Create services
	navCache := cache.New()
	systemService := service.NewSystemService(db)
	resolverService := service.NewResolverService(mappingRepo, schemeRepo)
	navService := service.NewNavService(navRepo, navCache, cfg.Cache)
	returnsService := service.NewReturnsService(resolverService, navService, navCache, cfg.Cache)
	schemeService := service.NewSchemeService(schemeRepo, resolverService, navService)
	screenerService := service.NewScreenerService(screenerRepo, schemeRepo, stockRepo)
	stockService := service.NewStockService(stockRepo)

	feedService, err := service.NewFeedService(feedRepo, navRepo, mappingRepo, cfg.Feed)
	if err != nil {
		log.Fatalf("Failed to initialize feed service: %v", err)
	}

	// Schedule the vendor feed refresh when configured
	scheduler := cron.New()
	if cfg.Feed.Schedule != "" {
		_, err := scheduler.AddFunc(cfg.Feed.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
			defer cancel()
			if run, err := feedService.Refresh(ctx); err != nil {
				log.Printf("Scheduled feed refresh failed: %v", err)
			} else {
				log.Printf("Feed refresh %s: fetched=%d stored=%d", run.ID, run.RowsFetched, run.RowsStored)
			}
		})
		if err != nil {
			log.Fatalf("Invalid feed schedule %q: %v", cfg.Feed.Schedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Printf("Feed refresh scheduled: %s", cfg.Feed.Schedule)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:   systemService,
		Schemes:  schemeService,
		Returns:  returnsService,
		Screener: screenerService,
		Stocks:   stockService,
		Feed:     feedService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
