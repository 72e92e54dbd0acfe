package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/wealthyhq/scheme-returns-backend/internal/cache"
	"github.com/wealthyhq/scheme-returns-backend/internal/config"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
	"github.com/wealthyhq/scheme-returns-backend/internal/service"
)

// TestCacheConfig returns short cache TTLs suitable for tests.
func TestCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		NavSeriesTTL: time.Minute,
		LatestNavTTL: time.Minute,
		ReturnsTTL:   time.Minute,
	}
}

func NewTestResolverService(t *testing.T, db *sql.DB) *service.ResolverService {
	t.Helper()

	mappingRepo := repository.NewMappingRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)

	return service.NewResolverService(mappingRepo, schemeRepo)
}

func NewTestNavService(t *testing.T, db *sql.DB) *service.NavService {
	t.Helper()

	navRepo := repository.NewNavRepository(db)

	return service.NewNavService(navRepo, cache.New(), TestCacheConfig())
}

func NewTestReturnsService(t *testing.T, db *sql.DB) *service.ReturnsService {
	t.Helper()

	return service.NewReturnsService(
		NewTestResolverService(t, db),
		NewTestNavService(t, db),
		cache.New(),
		TestCacheConfig(),
	)
}

func NewTestSchemeService(t *testing.T, db *sql.DB) *service.SchemeService {
	t.Helper()

	schemeRepo := repository.NewSchemeRepository(db)

	return service.NewSchemeService(schemeRepo, NewTestResolverService(t, db), NewTestNavService(t, db))
}

func NewTestScreenerService(t *testing.T, db *sql.DB) *service.ScreenerService {
	t.Helper()

	screenerRepo := repository.NewScreenerRepository(db)
	schemeRepo := repository.NewSchemeRepository(db)
	stockRepo := repository.NewStockRepository(db)

	return service.NewScreenerService(screenerRepo, schemeRepo, stockRepo)
}

func NewTestStockService(t *testing.T, db *sql.DB) *service.StockService {
	t.Helper()

	return service.NewStockService(repository.NewStockRepository(db))
}

// NewTestFeedService creates a FeedService with a freshly generated fernet
// key and the given vendor base URL (usually an httptest server).
func NewTestFeedService(t *testing.T, db *sql.DB, baseURL string) *service.FeedService {
	t.Helper()

	feedRepo := repository.NewFeedRepository(db)
	navRepo := repository.NewNavRepository(db)
	mappingRepo := repository.NewMappingRepository(db)

	svc, err := service.NewFeedService(feedRepo, navRepo, mappingRepo, config.FeedConfig{
		BaseURL:     baseURL,
		FernetKey:   GenerateFernetKey(t),
		RateLimit:   100,
		HTTPTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to create test feed service: %v", err)
	}
	return svc
}

// GenerateFernetKey returns a fresh encoded fernet key.
func GenerateFernetKey(t *testing.T) string {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return key.Encode()
}
