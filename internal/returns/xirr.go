package returns

import (
	"errors"
	"math"
	"time"
)

// Cashflow is one dated cash movement: negative for money invested,
// positive for money received.
type Cashflow struct {
	Date   time.Time
	Amount float64
}

// ErrNoConvergence is returned when no annualized rate satisfies the NPV
// equation within tolerance.
var ErrNoConvergence = errors.New("xirr did not converge")

const (
	xirrTolerance = 1e-6
	xirrMaxIter   = 100
	daysPerYear   = 365.0
)

// XIRR solves for the annualized rate r satisfying
//
//	Σ CF_i / (1+r)^(t_i/365) = 0
//
// over irregularly dated cash flows (the Excel/actuarial convention).
// Newton iteration from a 10% guess, falling back to bisection when Newton
// wanders outside the valid domain or fails to converge.
func XIRR(flows []Cashflow) (float64, error) {
	if len(flows) < 2 {
		return 0, ErrNoConvergence
	}

	t0 := flows[0].Date
	npv := func(rate float64) float64 {
		var sum float64
		for _, cf := range flows {
			years := cf.Date.Sub(t0).Hours() / 24 / daysPerYear
			sum += cf.Amount / math.Pow(1+rate, years)
		}
		return sum
	}
	derivative := func(rate float64) float64 {
		var sum float64
		for _, cf := range flows {
			years := cf.Date.Sub(t0).Hours() / 24 / daysPerYear
			sum -= years * cf.Amount / math.Pow(1+rate, years+1)
		}
		return sum
	}

	rate := 0.1
	for i := 0; i < xirrMaxIter; i++ {
		value := npv(rate)
		if math.Abs(value) < xirrTolerance {
			return rate, nil
		}
		slope := derivative(rate)
		if slope == 0 || math.IsNaN(slope) || math.IsInf(slope, 0) {
			break
		}
		next := rate - value/slope
		if next <= -1 || math.IsNaN(next) || math.IsInf(next, 0) {
			break
		}
		if math.Abs(next-rate) < xirrTolerance {
			return next, nil
		}
		rate = next
	}

	return bisectXIRR(npv)
}

// bisectXIRR brackets a root of the NPV function in (-1, +1e3] and narrows
// it down. Slower than Newton but immune to bad starting slopes.
func bisectXIRR(npv func(float64) float64) (float64, error) {
	lo, hi := -0.999999, 1000.0
	fLo, fHi := npv(lo), npv(hi)
	if math.IsNaN(fLo) || math.IsNaN(fHi) || fLo*fHi > 0 {
		return 0, ErrNoConvergence
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		fMid := npv(mid)
		if math.Abs(fMid) < xirrTolerance || (hi-lo)/2 < xirrTolerance {
			return mid, nil
		}
		if fLo*fMid < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return 0, ErrNoConvergence
}
