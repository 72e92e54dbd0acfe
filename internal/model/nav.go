package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NavObservation is a single per-fund NAV reading from the warehouse.
// At most one observation exists per (wpc, nav_date); non-trading days are
// simply absent. AdjNav carries dividend/split adjustments and is the value
// used for return computation.
type NavObservation struct {
	ID      string          `json:"-"`
	WPC     string          `json:"wpc"`
	NavDate time.Time       `json:"nav_date"`
	Nav     decimal.Decimal `json:"nav"`
	AdjNav  decimal.Decimal `json:"adj_nav"`
}

// NavHistoryPoint is one downsampled point of a scheme's NAV history as
// served by the history endpoint.
type NavHistoryPoint struct {
	NavDate          string  `json:"nav_date"`
	Nav              float64 `json:"nav"`
	AdjNav           float64 `json:"adj_nav"`
	PercentageChange float64 `json:"percentage_change"`
}
