package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/testutil"
)

func TestResolverService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves isin through the mapping table", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF123456789", scheme.WPC)

		wpc, err := svc.Resolve(ctx, model.IDTypeISIN, "INF123456789")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != scheme.WPC {
			t.Errorf("Expected %s, got %s", scheme.WPC, wpc)
		}
	})

	t.Run("oldest visible mapping wins", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		older := testutil.NewScheme().Build(t, db)
		newer := testutil.NewScheme().Build(t, db)
		hidden := testutil.NewScheme().Build(t, db)

		base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		testutil.CreateMappingAt(t, db, model.IDTypeISIN, "INF000000001", hidden.WPC, true, base)
		testutil.CreateMappingAt(t, db, model.IDTypeISIN, "INF000000001", older.WPC, false, base.AddDate(0, 0, 1))
		testutil.CreateMappingAt(t, db, model.IDTypeISIN, "INF000000001", newer.WPC, false, base.AddDate(0, 0, 2))

		wpc, err := svc.Resolve(ctx, model.IDTypeISIN, "INF000000001")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != older.WPC {
			t.Errorf("Expected oldest visible mapping %s, got %s", older.WPC, wpc)
		}
	})

	t.Run("scheme code falls back through option-suffix variants", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		// Only the growth variant is mapped.
		testutil.CreateMapping(t, db, model.IDTypeSchemeCode, "101G", scheme.WPC)

		// Request the bare code; the G-suffix variant should match.
		wpc, err := svc.Resolve(ctx, model.IDTypeSchemeCode, "101")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != scheme.WPC {
			t.Errorf("Expected %s, got %s", scheme.WPC, wpc)
		}
	})

	t.Run("scheme code matches after dropping the option suffix", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeSchemeCode, "202", scheme.WPC)

		wpc, err := svc.Resolve(ctx, model.IDTypeSchemeCode, "202X")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != scheme.WPC {
			t.Errorf("Expected %s, got %s", scheme.WPC, wpc)
		}
	})

	t.Run("wpc follows redirect to target", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		target := testutil.NewScheme().Build(t, db)
		testutil.CreateRedirect(t, db, "MF999999", target.WPC)

		wpc, err := svc.Resolve(ctx, model.IDTypeWPC, "MF999999")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != target.WPC {
			t.Errorf("Expected redirect target %s, got %s", target.WPC, wpc)
		}
	})

	t.Run("mapped wpc is redirected too", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		old := testutil.NewScheme().Build(t, db)
		target := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF000000002", old.WPC)
		testutil.CreateRedirect(t, db, old.WPC, target.WPC)

		wpc, err := svc.Resolve(ctx, model.IDTypeISIN, "INF000000002")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != target.WPC {
			t.Errorf("Expected redirect target %s, got %s", target.WPC, wpc)
		}
	})

	t.Run("third party id resolves against the scheme table", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		scheme := testutil.NewScheme().WithThirdPartyID("TP42").Build(t, db)

		wpc, err := svc.Resolve(ctx, model.IDTypeThirdParty, "TP42")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if wpc != scheme.WPC {
			t.Errorf("Expected %s, got %s", scheme.WPC, wpc)
		}
	})

	t.Run("unknown identifier yields not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		_, err := svc.Resolve(ctx, model.IDTypeISIN, "INF404404404")
		if !errors.Is(err, apperrors.ErrSchemeNotFound) {
			t.Errorf("Expected ErrSchemeNotFound, got %v", err)
		}
	})

	t.Run("invalid namespace is rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolverService(t, db)

		_, err := svc.Resolve(ctx, "cusip", "irrelevant")
		if !errors.Is(err, apperrors.ErrInvalidIdentifierType) {
			t.Errorf("Expected ErrInvalidIdentifierType, got %v", err)
		}
	})
}
