package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
)

// ResolverService maps external identifiers (ISIN, vendor scheme codes,
// third-party ids) onto canonical WPCs. Every read path resolves through it
// before touching NAV data, so a merged or renamed fund keeps answering
// under its old identifiers.
type ResolverService struct {
	mappingRepo *repository.MappingRepository
	schemeRepo  *repository.SchemeRepository
}

// NewResolverService creates a new ResolverService.
func NewResolverService(mappingRepo *repository.MappingRepository, schemeRepo *repository.SchemeRepository) *ResolverService {
	return &ResolverService{
		mappingRepo: mappingRepo,
		schemeRepo:  schemeRepo,
	}
}

// Resolve maps an identifier in the given namespace to a canonical WPC.
// Returns apperrors.ErrInvalidIdentifierType for an unknown namespace and
// apperrors.ErrSchemeNotFound when nothing matches.
func (s *ResolverService) Resolve(ctx context.Context, idType model.IdentifierType, idValue string) (string, error) {
	if !idType.Valid() {
		return "", fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifierType, idType)
	}
	if idValue == "" {
		return "", fmt.Errorf("%w: empty identifier", apperrors.ErrSchemeNotFound)
	}

	switch idType {
	case model.IDTypeWPC:
		return s.resolveWPC(ctx, idValue)
	case model.IDTypeThirdParty:
		return s.resolveThirdParty(ctx, idValue)
	case model.IDTypeSchemeCode:
		return s.resolveSchemeCode(ctx, idValue)
	default:
		return s.resolveMapped(ctx, idType, idValue)
	}
}

// ResolveScheme resolves an identifier and loads the scheme row behind it.
func (s *ResolverService) ResolveScheme(ctx context.Context, idType model.IdentifierType, idValue string) (model.Scheme, error) {
	wpc, err := s.Resolve(ctx, idType, idValue)
	if err != nil {
		return model.Scheme{}, err
	}
	return s.schemeRepo.GetByWPC(ctx, wpc)
}

// resolveWPC redirects a possibly-stale WPC to its current target and
// checks the scheme exists.
func (s *ResolverService) resolveWPC(ctx context.Context, wpc string) (string, error) {
	target, err := s.mappingRepo.GetTargetWPC(ctx, wpc)
	if err != nil {
		return "", fmt.Errorf("resolving wpc %s: %w", wpc, err)
	}
	if _, err := s.schemeRepo.GetByWPC(ctx, target); err != nil {
		return "", err
	}
	return target, nil
}

func (s *ResolverService) resolveThirdParty(ctx context.Context, tpID string) (string, error) {
	scheme, err := s.schemeRepo.GetByThirdPartyID(ctx, tpID)
	if err != nil {
		return "", err
	}
	return s.redirect(ctx, scheme.WPC)
}

// resolveMapped handles the namespaces that live purely in the mapping
// table. Oldest visible mapping wins.
func (s *ResolverService) resolveMapped(ctx context.Context, idType model.IdentifierType, idValue string) (string, error) {
	wpcs, err := s.mappingRepo.GetWPCs(ctx, idType, idValue)
	if err != nil {
		return "", fmt.Errorf("resolving %s %s: %w", idType, idValue, err)
	}
	if len(wpcs) == 0 {
		return "", fmt.Errorf("%w: %s %s", apperrors.ErrSchemeNotFound, idType, idValue)
	}
	return s.redirect(ctx, wpcs[0])
}

// resolveSchemeCode first tries the code as given, then the dividend-option
// variants vendors emit for the same underlying scheme: the code with its
// last character dropped, then the code with a G, R or D option suffix.
func (s *ResolverService) resolveSchemeCode(ctx context.Context, code string) (string, error) {
	candidates := []string{code}
	if len(code) > 1 {
		candidates = append(candidates, code[:len(code)-1])
	}
	candidates = append(candidates, code+"G", code+"R", code+"D")

	for _, candidate := range candidates {
		wpc, err := s.resolveMapped(ctx, model.IDTypeSchemeCode, candidate)
		if err == nil {
			return wpc, nil
		}
		if !errors.Is(err, apperrors.ErrSchemeNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: scheme-code %s", apperrors.ErrSchemeNotFound, code)
}

// redirect follows the wpc_redirect table once. A wpc without a redirect
// row maps to itself.
func (s *ResolverService) redirect(ctx context.Context, wpc string) (string, error) {
	target, err := s.mappingRepo.GetTargetWPC(ctx, wpc)
	if err != nil {
		return "", fmt.Errorf("redirecting wpc %s: %w", wpc, err)
	}
	return target, nil
}
