package service_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/api/request"
	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
	"github.com/wealthyhq/scheme-returns-backend/internal/testutil"
)

func TestReturnsService_Compute(t *testing.T) {
	ctx := context.Background()

	t.Run("sip on a flat nav yields zero return", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF100000001", scheme.WPC)

		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 10)

		result, err := svc.Compute(ctx, request.ReturnsRequest{
			IDType:         "isin",
			IDValue:        "INF100000001",
			Amount:         1000,
			PeriodYears:    1,
			InvestmentType: "sip",
			SIPDay:         10,
		})
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}

		if result.InvestedValue == nil || result.CurrentValue == nil {
			t.Fatal("Expected a populated result")
		}
		if *result.InvestedValue != *result.CurrentValue {
			t.Errorf("Flat NAV: expected current %.2f to equal invested %.2f",
				*result.CurrentValue, *result.InvestedValue)
		}
		if result.AbsoluteReturns == nil || *result.AbsoluteReturns != 0 {
			t.Errorf("Flat NAV: expected zero absolute return, got %v", result.AbsoluteReturns)
		}
		if result.XIRR == nil || math.Abs(*result.XIRR) > 1e-3 {
			t.Errorf("Flat NAV: expected XIRR near zero, got %v", result.XIRR)
		}
		if len(result.Details) == 0 {
			t.Error("Expected a non-empty details series")
		}
	})

	t.Run("onetime on a flat nav yields zero return", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF100000002", scheme.WPC)

		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 10)

		result, err := svc.Compute(ctx, request.ReturnsRequest{
			IDType:         "isin",
			IDValue:        "INF100000002",
			Amount:         10000,
			PeriodYears:    1,
			InvestmentType: "onetime",
		})
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}

		if result.InvestedValue == nil || *result.InvestedValue != 10000 {
			t.Fatalf("Expected invested 10000, got %v", result.InvestedValue)
		}
		if result.CurrentValue == nil || *result.CurrentValue != 10000 {
			t.Errorf("Flat NAV: expected current 10000, got %v", result.CurrentValue)
		}
		if result.AbsoluteReturns == nil || *result.AbsoluteReturns != 0 {
			t.Errorf("Flat NAV: expected zero absolute return, got %v", result.AbsoluteReturns)
		}
	})

	t.Run("fund without nav history answers all-null", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF100000003", scheme.WPC)

		result, err := svc.Compute(ctx, request.ReturnsRequest{
			IDType:         "isin",
			IDValue:        "INF100000003",
			Amount:         1000,
			PeriodYears:    1,
			InvestmentType: "sip",
			SIPDay:         10,
		})
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}

		if result.InvestedValue != nil || result.CurrentValue != nil ||
			result.XIRR != nil || result.AbsoluteReturns != nil {
			t.Errorf("Expected all-null result, got %+v", result)
		}
	})

	t.Run("unresolvable identifier fails before computation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		_, err := svc.Compute(ctx, request.ReturnsRequest{
			IDType:         "isin",
			IDValue:        "INF404404404",
			Amount:         1000,
			PeriodYears:    1,
			InvestmentType: "onetime",
		})
		if !errors.Is(err, apperrors.ErrSchemeNotFound) {
			t.Errorf("Expected ErrSchemeNotFound, got %v", err)
		}
	})

	t.Run("repeated computation is identical", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF100000004", scheme.WPC)

		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0.5)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 25)

		req := request.ReturnsRequest{
			IDType:         "isin",
			IDValue:        "INF100000004",
			Amount:         1000,
			PeriodYears:    1,
			InvestmentType: "sip",
			SIPDay:         10,
		}

		first, err := svc.Compute(ctx, req)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}
		second, err := svc.Compute(ctx, req)
		if err != nil {
			t.Fatalf("Compute failed: %v", err)
		}

		if *first.InvestedValue != *second.InvestedValue ||
			*first.CurrentValue != *second.CurrentValue ||
			*first.XIRR != *second.XIRR {
			t.Error("Expected identical results for identical requests")
		}
	})
}

func TestReturnsService_ComputeBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("mixes successes and per-entry failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		scheme := testutil.NewScheme().Build(t, db)
		testutil.CreateMapping(t, db, model.IDTypeISIN, "INF100000005", scheme.WPC)

		firstMonth := time.Now().UTC().AddDate(-2, 0, 0)
		testutil.CreateMonthlyNavs(t, db, scheme.WPC, firstMonth, 10, 24, 10, 0)
		testutil.CreateNav(t, db, scheme.WPC, time.Now().UTC().AddDate(0, 0, -1), 10)

		results := svc.ComputeBatch(ctx, []request.ReturnsRequest{
			{IDType: "isin", IDValue: "INF100000005", Amount: 1000, PeriodYears: 1, InvestmentType: "sip", SIPDay: 10},
			{IDType: "isin", IDValue: "INF404404404", Amount: 1000, PeriodYears: 1, InvestmentType: "onetime"},
		})

		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}
		if results[0].Result == nil || results[0].Error != "" {
			t.Errorf("Expected first entry to succeed, got error %q", results[0].Error)
		}
		if results[1].Result != nil || results[1].Error != "scheme not found" {
			t.Errorf("Expected second entry to fail with scheme not found, got %+v", results[1])
		}
	})

	t.Run("results keep request order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestReturnsService(t, db)

		reqs := make([]request.ReturnsRequest, 10)
		for i := range reqs {
			reqs[i] = request.ReturnsRequest{
				IDType: "isin", IDValue: "INF404404404",
				Amount: 1000, PeriodYears: 1, InvestmentType: "onetime",
			}
		}

		results := svc.ComputeBatch(ctx, reqs)
		if len(results) != len(reqs) {
			t.Fatalf("Expected %d results, got %d", len(reqs), len(results))
		}
		for i, r := range results {
			if r.IDValue != reqs[i].IDValue {
				t.Errorf("Result %d out of order", i)
			}
		}
	})
}
