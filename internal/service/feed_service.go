package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/shopspring/decimal"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/config"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
	"github.com/wealthyhq/scheme-returns-backend/internal/vendor"
)

// tokenMaxAge bounds how old a stored vendor token may be before decryption
// refuses it. Rotations are expected well inside this window.
const tokenMaxAge = 365 * 24 * time.Hour

// FeedService refreshes the NAV warehouse from the vendor feed. The vendor
// API token is persisted fernet-encrypted; it only exists in clear inside a
// single refresh.
type FeedService struct {
	feedRepo    *repository.FeedRepository
	navRepo     *repository.NavRepository
	mappingRepo *repository.MappingRepository
	cfg         config.FeedConfig
	keys        []*fernet.Key

	// newClient is swappable so tests can point the refresh at a local server.
	newClient func(baseURL, token string) *vendor.Client
}

// NewFeedService creates a new FeedService. An empty fernet key is allowed
// at construction so the server can start without feed credentials; feed
// operations then fail until the key is configured. A malformed key fails
// immediately.
func NewFeedService(feedRepo *repository.FeedRepository, navRepo *repository.NavRepository,
	mappingRepo *repository.MappingRepository, cfg config.FeedConfig) (*FeedService, error) {
	var keys []*fernet.Key
	if cfg.FernetKey != "" {
		var err error
		keys, err = fernet.DecodeKeys(cfg.FernetKey)
		if err != nil {
			return nil, fmt.Errorf("decoding feed fernet key: %w", err)
		}
	}

	s := &FeedService{
		feedRepo:    feedRepo,
		navRepo:     navRepo,
		mappingRepo: mappingRepo,
		cfg:         cfg,
		keys:        keys,
	}
	s.newClient = func(baseURL, token string) *vendor.Client {
		return vendor.NewClient(baseURL, token,
			vendor.WithTimeout(cfg.HTTPTimeout),
			vendor.WithRateLimit(int(cfg.RateLimit)),
		)
	}
	return s, nil
}

// SetToken encrypts and stores a new vendor API token and base URL.
func (s *FeedService) SetToken(ctx context.Context, baseURL, token string) error {
	if len(s.keys) == 0 {
		return errors.New("feed fernet key is not configured")
	}
	if baseURL == "" {
		baseURL = s.cfg.BaseURL
	}
	encrypted, err := fernet.EncryptAndSign([]byte(token), s.keys[0])
	if err != nil {
		return fmt.Errorf("encrypting feed token: %w", err)
	}
	return s.feedRepo.SaveConfig(ctx, model.FeedConfig{
		BaseURL:        baseURL,
		EncryptedToken: string(encrypted),
	})
}

// Refresh pulls the latest NAV for every scheme in the vendor universe and
// upserts it into the warehouse, recording the run either way.
func (s *FeedService) Refresh(ctx context.Context) (model.FeedRun, error) {
	run, err := s.feedRepo.CreateRun(ctx)
	if err != nil {
		return model.FeedRun{}, err
	}

	fetched, stored, refreshErr := s.refresh(ctx)
	run.RowsFetched = fetched
	run.RowsStored = stored
	run.Status = "completed"
	if refreshErr != nil {
		run.Status = "failed"
		msg := refreshErr.Error()
		run.Error = &msg
	}
	if err := s.feedRepo.FinishRun(ctx, run); err != nil {
		log.Printf("failed to record feed run %s: %v", run.ID, err)
	}

	if refreshErr != nil {
		return run, fmt.Errorf("%w: %s", apperrors.ErrFailedToRefreshFeed, refreshErr)
	}
	return run, nil
}

// Runs returns the most recent feed runs, newest first.
func (s *FeedService) Runs(ctx context.Context, limit int) ([]model.FeedRun, error) {
	return s.feedRepo.LatestRuns(ctx, limit)
}

func (s *FeedService) refresh(ctx context.Context) (fetched, stored int, err error) {
	if len(s.keys) == 0 {
		return 0, 0, errors.New("feed fernet key is not configured")
	}
	feedCfg, err := s.feedRepo.GetConfig(ctx)
	if err != nil {
		return 0, 0, err
	}

	token := fernet.VerifyAndDecrypt([]byte(feedCfg.EncryptedToken), tokenMaxAge, s.keys)
	if token == nil {
		return 0, 0, errors.New("stored feed token is invalid or expired")
	}

	client := s.newClient(feedCfg.BaseURL, string(token))
	records, err := client.LatestNavs(ctx)
	if err != nil {
		return 0, 0, err
	}

	observations := s.toObservations(ctx, records)
	count, err := s.navRepo.UpsertNavs(ctx, observations)
	if err != nil {
		return len(records), 0, err
	}
	return len(records), count, nil
}

// toObservations maps vendor records onto warehouse observations. Records
// whose identifier does not resolve, or whose values do not parse, are
// skipped and logged rather than failing the whole batch.
func (s *FeedService) toObservations(ctx context.Context, records []vendor.NavRecord) []model.NavObservation {
	observations := make([]model.NavObservation, 0, len(records))
	for _, rec := range records {
		wpc, err := s.resolveRecord(ctx, rec)
		if err != nil {
			log.Printf("feed: skipping record isin=%s scheme_code=%s: %v", rec.ISIN, rec.SchemeCode, err)
			continue
		}

		date, err := time.Parse("2006-01-02", rec.Date)
		if err != nil {
			log.Printf("feed: skipping %s, bad date %q: %v", wpc, rec.Date, err)
			continue
		}
		nav, err := decimal.NewFromString(rec.Nav)
		if err != nil {
			log.Printf("feed: skipping %s, bad nav %q: %v", wpc, rec.Nav, err)
			continue
		}
		adjNav := nav
		if rec.AdjNav != "" {
			if adjNav, err = decimal.NewFromString(rec.AdjNav); err != nil {
				log.Printf("feed: skipping %s, bad adj_nav %q: %v", wpc, rec.AdjNav, err)
				continue
			}
		}

		observations = append(observations, model.NavObservation{
			WPC:     wpc,
			NavDate: date,
			Nav:     nav,
			AdjNav:  adjNav,
		})
	}
	return observations
}

// resolveRecord maps a vendor record to a WPC, preferring ISIN over the
// vendor scheme code.
func (s *FeedService) resolveRecord(ctx context.Context, rec vendor.NavRecord) (string, error) {
	if rec.ISIN != "" {
		wpcs, err := s.mappingRepo.GetWPCs(ctx, model.IDTypeISIN, rec.ISIN)
		if err != nil {
			return "", err
		}
		if len(wpcs) > 0 {
			return wpcs[0], nil
		}
	}
	if rec.SchemeCode != "" {
		wpcs, err := s.mappingRepo.GetWPCs(ctx, model.IDTypeSchemeCode, rec.SchemeCode)
		if err != nil {
			return "", err
		}
		if len(wpcs) > 0 {
			return wpcs[0], nil
		}
	}
	return "", fmt.Errorf("%w: no mapping for feed record", apperrors.ErrSchemeNotFound)
}
