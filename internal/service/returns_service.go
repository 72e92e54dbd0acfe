package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/request"
	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/cache"
	"github.com/wealthyhq/scheme-returns-backend/internal/config"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/returns"
)

// batchConcurrency caps how many funds a batch request computes at once.
const batchConcurrency = 8

// ReturnsService orchestrates a returns computation: resolve the
// identifier, fetch the aligned NAV series, run the engine. Validation has
// already happened at the handler; resolution failures surface before any
// engine work.
type ReturnsService struct {
	resolver *ResolverService
	navs     *NavService
	cache    *cache.TTLCache
	ttl      time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewReturnsService creates a new ReturnsService.
func NewReturnsService(resolver *ResolverService, navs *NavService, c *cache.TTLCache, cfg config.CacheConfig) *ReturnsService {
	return &ReturnsService{
		resolver: resolver,
		navs:     navs,
		cache:    c,
		ttl:      cfg.ReturnsTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BatchResult pairs one batch entry's input identifier with its outcome.
// Exactly one of Result and Error is set.
type BatchResult struct {
	IDType  string          `json:"id_type"`
	IDValue string          `json:"id_value"`
	Result  *returns.Result `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Compute resolves the request's identifier and runs the requested mode.
// A fund with insufficient history yields the all-null result, not an
// error; an unresolvable identifier yields apperrors.ErrSchemeNotFound.
func (s *ReturnsService) Compute(ctx context.Context, req request.ReturnsRequest) (returns.Result, error) {
	wpc, err := s.resolver.Resolve(ctx, model.IdentifierType(req.IDType), req.IDValue)
	if err != nil {
		return returns.Result{}, err
	}

	key := fmt.Sprintf("returns:%s:%s:%d:%d:%d", wpc, req.InvestmentType, req.Amount, req.PeriodYears, req.SIPDay)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(returns.Result), nil
	}

	var result returns.Result
	switch returns.Mode(req.InvestmentType) {
	case returns.ModeSIP:
		result, err = s.computeSIP(ctx, wpc, req.Amount, req.PeriodYears, req.SIPDay)
	default:
		result, err = s.computeOnetime(ctx, wpc, req.Amount, req.PeriodYears)
	}
	if err != nil {
		return returns.Result{}, fmt.Errorf("%w: %s", apperrors.ErrFailedToComputeReturns, err)
	}

	s.cache.Set(key, result, s.ttl)
	return result, nil
}

// ComputeBatch runs Compute for every entry concurrently with a bounded
// worker count. Per-entry failures are reported in place so one bad
// identifier does not fail the whole batch.
func (s *ReturnsService) ComputeBatch(ctx context.Context, reqs []request.ReturnsRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, req := range reqs {
		g.Go(func() error {
			results[i] = BatchResult{IDType: req.IDType, IDValue: req.IDValue}
			result, err := s.Compute(ctx, req)
			if err != nil {
				results[i].Error = batchErrorMessage(err)
				return nil
			}
			results[i].Result = &result
			return nil
		})
	}

	// Workers never return errors; Wait only orders completion.
	_ = g.Wait()
	return results
}

// computeOnetime runs the lump-sum mode. The monthly chart series anchors
// on today's day-of-month, capped so the anchor exists in every month.
func (s *ReturnsService) computeOnetime(ctx context.Context, wpc string, amount int64, years int) (returns.Result, error) {
	today := returns.ValuationDate(s.now())
	sipDay := today.Day()
	if sipDay > returns.MaxSIPDay {
		sipDay = returns.MaxSIPDay
	}

	series, err := s.navs.AnchorSeries(ctx, wpc, years, sipDay)
	if err != nil {
		return returns.Result{}, err
	}

	start := returns.WindowStart(today, years, sipDay, time.Time{})
	startNav, err := s.navs.NavAsOf(ctx, wpc, start)
	if err != nil {
		if errors.Is(err, apperrors.ErrNavNotFound) {
			return returns.NullResult(), nil
		}
		return returns.Result{}, err
	}

	latest, err := s.latestNav(ctx, wpc)
	if err != nil || latest.Zero() {
		return returns.NullResult(), err
	}
	return returns.Onetime(amount, series, startNav, latest), nil
}

func (s *ReturnsService) computeSIP(ctx context.Context, wpc string, amount int64, years, sipDay int) (returns.Result, error) {
	series, err := s.navs.AnchorSeries(ctx, wpc, years, sipDay)
	if err != nil {
		return returns.Result{}, err
	}
	if len(series) == 0 {
		return returns.NullResult(), nil
	}

	latest, err := s.latestNav(ctx, wpc)
	if err != nil || latest.Zero() {
		return returns.NullResult(), err
	}
	return returns.SIP(amount, series, latest), nil
}

// latestNav treats a missing latest NAV as insufficiency rather than an
// error: the zero point makes the caller return the all-null result.
func (s *ReturnsService) latestNav(ctx context.Context, wpc string) (returns.NavPoint, error) {
	latest, err := s.navs.LatestNav(ctx, wpc)
	if err != nil {
		if errors.Is(err, apperrors.ErrNavNotFound) {
			return returns.NavPoint{}, nil
		}
		return returns.NavPoint{}, err
	}
	return latest, nil
}

// batchErrorMessage maps internal errors to the caller-safe per-entry
// message used inside a batch response.
func batchErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSchemeNotFound):
		return "scheme not found"
	case errors.Is(err, apperrors.ErrInvalidIdentifierType):
		return "invalid identifier type"
	default:
		return "failed to compute returns"
	}
}
