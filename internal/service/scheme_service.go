package service

import (
	"context"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
)

// defaultHistoryYears bounds the NAV history endpoint when the caller does
// not ask for a range.
const defaultHistoryYears = 3

// SchemeService handles scheme reference-data operations.
type SchemeService struct {
	schemeRepo *repository.SchemeRepository
	resolver   *ResolverService
	navs       *NavService
}

// NewSchemeService creates a new SchemeService.
func NewSchemeService(schemeRepo *repository.SchemeRepository, resolver *ResolverService, navs *NavService) *SchemeService {
	return &SchemeService{
		schemeRepo: schemeRepo,
		resolver:   resolver,
		navs:       navs,
	}
}

// GetScheme resolves an identifier and returns the scheme row behind it.
func (s *SchemeService) GetScheme(ctx context.Context, idType model.IdentifierType, idValue string) (model.Scheme, error) {
	return s.resolver.ResolveScheme(ctx, idType, idValue)
}

// ListSchemes returns schemes matching the filter. Deprecated schemes are
// excluded unless the filter asks for them.
func (s *SchemeService) ListSchemes(ctx context.Context, filter repository.SchemeFilter) ([]model.Scheme, error) {
	return s.schemeRepo.List(ctx, filter)
}

// NavHistory resolves the identifier and returns the fund's downsampled
// NAV history for the requested number of years.
func (s *SchemeService) NavHistory(ctx context.Context, idType model.IdentifierType, idValue, period string, years int) ([]model.NavHistoryPoint, error) {
	wpc, err := s.resolver.Resolve(ctx, idType, idValue)
	if err != nil {
		return nil, err
	}

	if years <= 0 {
		years = defaultHistoryYears
	}
	from := time.Now().UTC().AddDate(-years, 0, 0)
	return s.navs.History(ctx, wpc, period, from)
}
