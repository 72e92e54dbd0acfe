package returns

import (
	"math"
	"reflect"
	"testing"
)

func TestOnetime(t *testing.T) {
	t.Run("doubled nav over three years", func(t *testing.T) {
		start := navPoint("2022-06-10", 10)
		latest := navPoint("2025-06-10", 20)
		series := []NavPoint{
			start,
			navPoint("2023-06-10", 12),
			navPoint("2024-06-10", 16),
		}

		res := Onetime(10000, series, start, latest)

		if res.InvestedValue == nil || *res.InvestedValue != 10000 {
			t.Fatalf("Expected invested 10000, got %v", res.InvestedValue)
		}
		if res.CurrentValue == nil || *res.CurrentValue != 20000 {
			t.Fatalf("Expected current 20000, got %v", res.CurrentValue)
		}
		if res.AbsoluteReturns == nil || *res.AbsoluteReturns != 1.0 {
			t.Errorf("Expected absolute return 1.0, got %v", res.AbsoluteReturns)
		}
		if res.AbsoluteReturnsPercentage == nil || *res.AbsoluteReturnsPercentage != 100 {
			t.Errorf("Expected absolute return 100%%, got %v", res.AbsoluteReturnsPercentage)
		}
		if res.Details[0].Units != 1000 {
			t.Errorf("Expected 1000 units, got %v", res.Details[0].Units)
		}
		// Doubling over three years is just under 26% annualized.
		if res.XIRR == nil || math.Abs(*res.XIRR-0.2599) > 1e-3 {
			t.Errorf("Expected XIRR ~0.26, got %v", res.XIRR)
		}
	})

	t.Run("appends synthetic valuation point when series is stale", func(t *testing.T) {
		start := navPoint("2024-01-10", 10)
		latest := navPoint("2025-01-15", 15)
		series := []NavPoint{start, navPoint("2024-07-10", 12)}

		res := Onetime(1000, series, start, latest)

		last := res.Details[len(res.Details)-1]
		if last.NavDate != "2025-01-15" {
			t.Fatalf("Expected final point on valuation date, got %s", last.NavDate)
		}
		if last.CurrentValue != 1500 {
			t.Errorf("Expected final value 1500, got %v", last.CurrentValue)
		}
		if len(res.Details) != 3 {
			t.Errorf("Expected 3 points, got %d", len(res.Details))
		}
	})

	t.Run("current value follows units times latest adjusted nav", func(t *testing.T) {
		start := navPoint("2022-03-01", 34.57)
		latest := navPoint("2025-03-03", 51.23)
		res := Onetime(25000, []NavPoint{start}, start, latest)

		units := 25000.0 / 34.57
		want := math.Round(units*51.23*100) / 100
		if res.CurrentValue == nil || *res.CurrentValue != want {
			t.Errorf("Expected current %v, got %v", want, res.CurrentValue)
		}
	})

	t.Run("zero navs yield all-null result", func(t *testing.T) {
		good := navPoint("2024-01-10", 10)
		zero := navPoint("2024-01-10", 0)

		for _, res := range []Result{
			Onetime(1000, nil, zero, good),
			Onetime(1000, nil, good, zero),
			Onetime(0, nil, good, good),
		} {
			if res.InvestedValue != nil || res.CurrentValue != nil || res.XIRR != nil {
				t.Errorf("Expected all-null result, got %+v", res)
			}
		}
	})

	t.Run("identical inputs produce identical output", func(t *testing.T) {
		start := navPoint("2022-06-10", 10)
		latest := navPoint("2025-06-10", 17.31)
		series := []NavPoint{start, navPoint("2023-06-12", 12.45), navPoint("2024-06-10", 14.02)}

		first := Onetime(5000, series, start, latest)
		second := Onetime(5000, series, start, latest)

		if !reflect.DeepEqual(first, second) {
			t.Error("Expected deterministic results for identical inputs")
		}
	})
}

func TestSIP(t *testing.T) {
	t.Run("twelve flat contributions", func(t *testing.T) {
		var series []NavPoint
		for i := 0; i < 12; i++ {
			series = append(series, NavPoint{
				Date:   day("2024-01-10").AddDate(0, i, 0),
				Nav:    intDecimal(10),
				AdjNav: intDecimal(10),
			})
		}
		latest := navPoint("2025-01-10", 10)

		res := SIP(1000, series, latest)

		if res.InvestedValue == nil || *res.InvestedValue != 12000 {
			t.Fatalf("Expected invested 12000, got %v", res.InvestedValue)
		}
		if res.CurrentValue == nil || *res.CurrentValue != 12000 {
			t.Fatalf("Expected current 12000, got %v", res.CurrentValue)
		}
		if res.Details[len(res.Details)-1].Units != 1200 {
			t.Errorf("Expected 1200 accumulated units, got %v", res.Details[len(res.Details)-1].Units)
		}
		if res.AbsoluteReturns == nil || *res.AbsoluteReturns != 0 {
			t.Errorf("Expected zero absolute return, got %v", res.AbsoluteReturns)
		}
		if res.XIRR == nil || math.Abs(*res.XIRR) > 1e-3 {
			t.Errorf("Expected near-zero XIRR, got %v", res.XIRR)
		}
	})

	t.Run("accumulates units and invested value per contribution", func(t *testing.T) {
		series := []NavPoint{
			navPoint("2024-10-10", 10),
			navPoint("2024-11-10", 20),
			navPoint("2024-12-10", 25),
		}
		latest := navPoint("2024-12-31", 30)

		res := SIP(1000, series, latest)

		// 100 + 50 + 40 units across the three purchases.
		wantUnits := []float64{100, 150, 190}
		wantInvested := []float64{1000, 2000, 3000}
		for i := 0; i < 3; i++ {
			if res.Details[i].Units != wantUnits[i] {
				t.Errorf("point %d units = %v, want %v", i, res.Details[i].Units, wantUnits[i])
			}
			if res.Details[i].InvestedValue != wantInvested[i] {
				t.Errorf("point %d invested = %v, want %v", i, res.Details[i].InvestedValue, wantInvested[i])
			}
		}
		if res.CurrentValue == nil || *res.CurrentValue != 5700 {
			t.Errorf("Expected current 5700, got %v", res.CurrentValue)
		}
		last := res.Details[len(res.Details)-1]
		if last.NavDate != "2024-12-31" || last.CurrentValue != 5700 {
			t.Errorf("Expected synthetic final point at 2024-12-31 worth 5700, got %+v", last)
		}
	})

	t.Run("empty series or zero latest nav yields all-null result", func(t *testing.T) {
		latest := navPoint("2025-01-10", 10)

		if res := SIP(1000, nil, latest); res.InvestedValue != nil {
			t.Errorf("Expected all-null result for empty series, got %+v", res)
		}
		series := []NavPoint{navPoint("2024-12-10", 10)}
		if res := SIP(1000, series, navPoint("2025-01-10", 0)); res.InvestedValue != nil {
			t.Errorf("Expected all-null result for zero latest nav, got %+v", res)
		}
	})
}
