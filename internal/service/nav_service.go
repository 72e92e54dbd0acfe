package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wealthyhq/scheme-returns-backend/internal/cache"
	"github.com/wealthyhq/scheme-returns-backend/internal/config"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
	"github.com/wealthyhq/scheme-returns-backend/internal/returns"
)

var hundred = decimal.NewFromInt(100)

// NavService serves NAV series to the returns engine and the history
// endpoint, with a short-lived in-process cache in front of the warehouse.
type NavService struct {
	navRepo *repository.NavRepository
	cache   *cache.TTLCache

	seriesTTL time.Duration
	latestTTL time.Duration

	// now is injectable for tests.
	now func() time.Time
}

// NewNavService creates a new NavService.
func NewNavService(navRepo *repository.NavRepository, c *cache.TTLCache, cfg config.CacheConfig) *NavService {
	return &NavService{
		navRepo:   navRepo,
		cache:     c,
		seriesTTL: cfg.NavSeriesTTL,
		latestTTL: cfg.LatestNavTTL,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AnchorSeries returns the anchor-aligned monthly NAV series for an N-year
// window ending today, anchored on sipDay. The raw slice is cached per
// (wpc, window start); alignment itself is cheap and recomputed.
func (s *NavService) AnchorSeries(ctx context.Context, wpc string, years, sipDay int) ([]returns.NavPoint, error) {
	if wpc == "" || years <= 0 || sipDay <= 0 {
		return nil, nil
	}

	today := returns.ValuationDate(s.now())
	start := returns.WindowStart(today, years, sipDay, time.Time{})

	series, err := s.rawSeries(ctx, wpc, start)
	if err != nil {
		return nil, err
	}

	opts := returns.DefaultAnchorOptions()
	opts.Today = today
	return returns.AlignToAnchor(series, sipDay, opts), nil
}

// LatestNav returns the most recent NAV observation for the fund.
// Returns apperrors.ErrNavNotFound (wrapped) when the fund has no data.
func (s *NavService) LatestNav(ctx context.Context, wpc string) (returns.NavPoint, error) {
	key := fmt.Sprintf("nav:latest:%s", wpc)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(returns.NavPoint), nil
	}

	obs, err := s.navRepo.GetLatestNav(ctx, wpc, returns.ValuationDate(s.now()), true)
	if err != nil {
		return returns.NavPoint{}, err
	}

	point := toNavPoint(obs)
	s.cache.Set(key, point, s.latestTTL)
	return point, nil
}

// NavAsOf returns the observation on or before the given date, the price a
// purchase on that date would have executed at.
func (s *NavService) NavAsOf(ctx context.Context, wpc string, date time.Time) (returns.NavPoint, error) {
	obs, err := s.navRepo.GetLatestNav(ctx, wpc, date, true)
	if err != nil {
		return returns.NavPoint{}, err
	}
	return toNavPoint(obs), nil
}

// History returns the fund's NAV history since from, downsampled to one
// point per period ("daily", "weekly" or "monthly", last observation wins)
// and annotated with the percentage change versus the first point.
func (s *NavService) History(ctx context.Context, wpc, period string, from time.Time) ([]model.NavHistoryPoint, error) {
	series, err := s.navRepo.GetNavSeries(ctx, wpc, from)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []model.NavHistoryPoint{}, nil
	}

	sampled := downsample(series, period)

	first := sampled[0].AdjNav
	out := make([]model.NavHistoryPoint, 0, len(sampled))
	for _, obs := range sampled {
		var change float64
		if !first.IsZero() {
			change = obs.AdjNav.Sub(first).Div(first).Mul(hundred).Round(2).InexactFloat64()
		}
		out = append(out, model.NavHistoryPoint{
			NavDate:          obs.NavDate.Format("2006-01-02"),
			Nav:              obs.Nav.Round(4).InexactFloat64(),
			AdjNav:           obs.AdjNav.Round(4).InexactFloat64(),
			PercentageChange: change,
		})
	}
	return out, nil
}

// rawSeries fetches the ascending NAV slice for (wpc, from), caching the
// result so repeated returns requests for the same fund share one query.
func (s *NavService) rawSeries(ctx context.Context, wpc string, from time.Time) ([]returns.NavPoint, error) {
	key := fmt.Sprintf("nav:series:%s:%s", wpc, from.Format("2006-01-02"))
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]returns.NavPoint), nil
	}

	observations, err := s.navRepo.GetNavSeries(ctx, wpc, from)
	if err != nil {
		return nil, fmt.Errorf("fetching nav series for %s: %w", wpc, err)
	}

	series := make([]returns.NavPoint, 0, len(observations))
	for _, obs := range observations {
		series = append(series, toNavPoint(obs))
	}
	s.cache.Set(key, series, s.seriesTTL)
	return series, nil
}

// downsample keeps the last observation of each day, ISO week or month.
// Unknown period values fall back to daily, which is the raw series.
func downsample(series []model.NavObservation, period string) []model.NavObservation {
	var bucket func(time.Time) string
	switch period {
	case "weekly":
		bucket = func(t time.Time) string {
			year, week := t.ISOWeek()
			return fmt.Sprintf("%d-%02d", year, week)
		}
	case "monthly":
		bucket = func(t time.Time) string { return t.Format("2006-01") }
	default:
		return series
	}

	out := make([]model.NavObservation, 0, len(series))
	for _, obs := range series {
		key := bucket(obs.NavDate)
		if len(out) > 0 && bucket(out[len(out)-1].NavDate) == key {
			out[len(out)-1] = obs
			continue
		}
		out = append(out, obs)
	}
	return out
}

func toNavPoint(obs model.NavObservation) returns.NavPoint {
	return returns.NavPoint{Date: obs.NavDate, Nav: obs.Nav, AdjNav: obs.AdjNav}
}
