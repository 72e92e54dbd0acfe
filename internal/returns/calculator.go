package returns

import (
	"time"

	"github.com/shopspring/decimal"
)

// Onetime computes lump-sum returns: a single purchase of amount at the
// window-start NAV, valued at the latest NAV.
//
// series is the anchor-aligned monthly NAV series used to annotate the
// per-month chart points; startNav is the observation on or before the
// window start (the purchase price) and latest the most recent observation
// (the valuation price). A zero adjusted NAV at either end means the
// question cannot be answered and yields the all-null result.
func Onetime(amount int64, series []NavPoint, startNav, latest NavPoint) Result {
	if amount <= 0 || startNav.Zero() || latest.Zero() {
		return NullResult()
	}

	amt := intDecimal(amount)
	units := amt.Div(startNav.AdjNav)
	unitsF := roundFloat(units, 4)

	details := make([]Point, 0, len(series)+1)
	for _, p := range series {
		details = append(details, Point{
			NavDate:       p.Date.Format(dateLayout),
			Nav:           roundFloat(p.Nav, 4),
			AdjNav:        roundFloat(p.AdjNav, 4),
			Units:         unitsF,
			InvestedValue: float64(amount),
			CurrentValue:  roundFloat(units.Mul(p.AdjNav), 2),
		})
	}

	currentValue := roundFloat(units.Mul(latest.AdjNav), 2)
	// The series always ends at the valuation date; append a synthetic
	// final point when the last aligned observation is older.
	if len(details) == 0 || details[len(details)-1].NavDate != latest.Date.Format(dateLayout) {
		details = append(details, Point{
			NavDate:       latest.Date.Format(dateLayout),
			Nav:           roundFloat(latest.Nav, 4),
			AdjNav:        roundFloat(latest.AdjNav, 4),
			Units:         unitsF,
			InvestedValue: float64(amount),
			CurrentValue:  currentValue,
		})
	}

	flows := []Cashflow{
		{Date: startNav.Date, Amount: -float64(amount)},
		{Date: latest.Date, Amount: currentValue},
	}
	return buildResult(float64(amount), currentValue, flows, details)
}

// SIP computes recurring-contribution returns: one purchase of amount at
// each point of the anchor-aligned series, valued at the latest NAV.
func SIP(amount int64, series []NavPoint, latest NavPoint) Result {
	if amount <= 0 || len(series) == 0 || latest.Zero() {
		return NullResult()
	}

	amt := intDecimal(amount)
	totalUnits := decimal.Zero
	details := make([]Point, 0, len(series)+1)
	flows := make([]Cashflow, 0, len(series)+1)

	for i, p := range series {
		if p.Zero() {
			return NullResult()
		}
		totalUnits = totalUnits.Add(amt.Div(p.AdjNav))
		details = append(details, Point{
			NavDate:       p.Date.Format(dateLayout),
			Nav:           roundFloat(p.Nav, 4),
			AdjNav:        roundFloat(p.AdjNav, 4),
			Units:         roundFloat(totalUnits, 4),
			InvestedValue: float64(amount) * float64(i+1),
			CurrentValue:  roundFloat(totalUnits.Mul(p.AdjNav), 2),
		})
		flows = append(flows, Cashflow{Date: p.Date, Amount: -float64(amount)})
	}

	invested := float64(amount) * float64(len(series))
	currentValue := roundFloat(totalUnits.Mul(latest.AdjNav), 2)
	flows = append(flows, Cashflow{Date: latest.Date, Amount: currentValue})

	if details[len(details)-1].NavDate != latest.Date.Format(dateLayout) {
		details = append(details, Point{
			NavDate:       latest.Date.Format(dateLayout),
			Nav:           roundFloat(latest.Nav, 4),
			AdjNav:        roundFloat(latest.AdjNav, 4),
			Units:         roundFloat(totalUnits, 4),
			InvestedValue: invested,
			CurrentValue:  currentValue,
		})
	}

	return buildResult(invested, currentValue, flows, details)
}

// buildResult derives the annualized and absolute return figures shared by
// both modes. The absolute return convention is (current-invested)/invested
// in both modes.
func buildResult(invested, currentValue float64, flows []Cashflow, details []Point) Result {
	res := Result{
		InvestedValue: float64Ptr(invested),
		CurrentValue:  float64Ptr(currentValue),
		Details:       details,
	}

	if rate, err := XIRR(flows); err == nil {
		rounded := roundFloat(decimal.NewFromFloat(rate), 7)
		res.XIRR = float64Ptr(rounded)
		res.XIRRPercentage = float64Ptr(roundFloat(decimal.NewFromFloat(rate*100), 4))
	}

	if invested != 0 {
		absolute := (currentValue - invested) / invested
		res.AbsoluteReturns = float64Ptr(roundFloat(decimal.NewFromFloat(absolute), 4))
		res.AbsoluteReturnsPercentage = float64Ptr(roundFloat(decimal.NewFromFloat(absolute*100), 2))
	}
	return res
}

// ValuationDate normalizes the "now" used by the engine to a date.
func ValuationDate(t time.Time) time.Time {
	return truncateToDay(t)
}
