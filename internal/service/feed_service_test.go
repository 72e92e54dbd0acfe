package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/repository"
	"github.com/wealthyhq/scheme-returns-backend/internal/testutil"
	"github.com/wealthyhq/scheme-returns-backend/internal/vendor"
)

func TestFeedService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("stores resolvable records and skips the rest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF200000001", scheme.WPC)

		day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		server := testutil.NewFeedServer(t, []vendor.NavRecord{
			testutil.FeedRecord("INF200000001", day, "104.3512"),
			testutil.FeedRecord("INF999999999", day, "50.0000"), // unmapped, skipped
		})

		svc := testutil.NewTestFeedService(t, db, server.URL)
		if err := svc.SetToken(ctx, server.URL, "vendor-token"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}

		run, err := svc.Refresh(ctx)
		if err != nil {
			t.Fatalf("Refresh failed: %v", err)
		}

		if run.Status != "completed" {
			t.Errorf("Expected completed run, got %s", run.Status)
		}
		if run.RowsFetched != 2 {
			t.Errorf("Expected 2 rows fetched, got %d", run.RowsFetched)
		}
		if run.RowsStored != 1 {
			t.Errorf("Expected 1 row stored, got %d", run.RowsStored)
		}

		navRepo := repository.NewNavRepository(db)
		obs, err := navRepo.GetLatestNav(ctx, scheme.WPC, day, false)
		if err != nil {
			t.Fatalf("Expected stored observation: %v", err)
		}
		if obs.Nav.String() != "104.3512" {
			t.Errorf("Expected nav 104.3512, got %s", obs.Nav)
		}
	})

	t.Run("refresh is idempotent per (wpc, date)", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF200000002", scheme.WPC)

		day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
		server := testutil.NewFeedServer(t, []vendor.NavRecord{
			testutil.FeedRecord("INF200000002", day, "99.1234"),
		})

		svc := testutil.NewTestFeedService(t, db, server.URL)
		if err := svc.SetToken(ctx, server.URL, "vendor-token"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}

		for i := 0; i < 2; i++ {
			if _, err := svc.Refresh(ctx); err != nil {
				t.Fatalf("Refresh %d failed: %v", i, err)
			}
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM nav_observation WHERE wpc = ?`, scheme.WPC).Scan(&count); err != nil {
			t.Fatalf("Count failed: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected a single observation after two refreshes, got %d", count)
		}
	})

	t.Run("vendor failure is recorded as a failed run", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		server := testutil.NewFailingFeedServer(t, http.StatusBadGateway)
		svc := testutil.NewTestFeedService(t, db, server.URL)
		if err := svc.SetToken(ctx, server.URL, "vendor-token"); err != nil {
			t.Fatalf("SetToken failed: %v", err)
		}

		run, err := svc.Refresh(ctx)
		if err == nil {
			t.Fatal("Expected refresh to fail")
		}
		if run.Status != "failed" {
			t.Errorf("Expected failed run, got %s", run.Status)
		}
		if run.Error == nil {
			t.Error("Expected the run to carry the failure message")
		}

		runs, err := svc.Runs(ctx, 10)
		if err != nil {
			t.Fatalf("Runs failed: %v", err)
		}
		if len(runs) != 1 || runs[0].Status != "failed" {
			t.Errorf("Expected one failed run in history, got %+v", runs)
		}
	})

	t.Run("refresh without configuration fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestFeedService(t, db, "http://unused")

		run, err := svc.Refresh(ctx)
		if err == nil {
			t.Fatal("Expected refresh to fail without stored config")
		}
		if run.Status != "failed" {
			t.Errorf("Expected failed run, got %s", run.Status)
		}
	})
}
