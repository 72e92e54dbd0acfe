// Package returns implements the fund returns computation engine: monthly
// anchor-date alignment of NAV series, XIRR, and the lump-sum / SIP
// calculators. The package is pure computation over data already fetched
// from the warehouse; it holds no state and performs no I/O.
package returns

import (
	"time"

	"github.com/shopspring/decimal"
)

// Mode selects the investment style a returns computation models.
type Mode string

const (
	// ModeOnetime models a single lump-sum purchase at the window start.
	ModeOnetime Mode = "onetime"
	// ModeSIP models a fixed recurring contribution on a fixed day each month.
	ModeSIP Mode = "sip"
)

// MaxSIPDay is the largest permitted anchor day-of-month. Capping at 28
// keeps the anchor valid in every month, February included.
const MaxSIPDay = 28

// NavPoint is one dated NAV observation consumed by the engine.
// AdjNav is the corporate-action adjusted value used for all return math;
// Nav is the raw quoted value carried through for display.
type NavPoint struct {
	Date   time.Time
	Nav    decimal.Decimal
	AdjNav decimal.Decimal
}

// Zero reports whether the point carries no usable adjusted NAV.
func (p NavPoint) Zero() bool {
	return p.AdjNav.IsZero()
}

// Point is one annotated entry of the returns series sent to callers.
type Point struct {
	NavDate       string  `json:"nav_date"`
	Nav           float64 `json:"nav"`
	AdjNav        float64 `json:"adj_nav"`
	Units         float64 `json:"units"`
	InvestedValue float64 `json:"invested_value"`
	CurrentValue  float64 `json:"current_value"`
}

// Result is the full outcome of a returns computation. All numeric fields
// are pointers: a nil value means "insufficient data", which is a valid
// answer, not an error.
type Result struct {
	InvestedValue             *float64 `json:"invested_value"`
	CurrentValue              *float64 `json:"current_value"`
	XIRR                      *float64 `json:"xirr"`
	XIRRPercentage            *float64 `json:"xirr_percentage"`
	AbsoluteReturns           *float64 `json:"absolute_returns"`
	AbsoluteReturnsPercentage *float64 `json:"absolute_returns_percentage"`
	Details                   []Point  `json:"returns_details"`
}

// NullResult returns the all-null result shape used when the NAV history is
// insufficient to answer (fund younger than the window, zero NAV, etc.).
func NullResult() Result {
	return Result{}
}

const dateLayout = "2006-01-02"

func roundFloat(d decimal.Decimal, places int32) float64 {
	return d.Round(places).InexactFloat64()
}

func intDecimal(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func float64Ptr(v float64) *float64 {
	return &v
}
