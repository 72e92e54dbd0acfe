package model

import "time"

// Scheme represents a mutual fund scheme from the warehouse.
// WPC (Wealthy Product Code) is the canonical identifier used everywhere
// internally; all other identifiers resolve to it.
type Scheme struct {
	WSchemeCode  string     `json:"wschemecode"`
	WPC          string     `json:"wpc"`
	ThirdPartyID *string    `json:"third_party_id,omitempty"`
	ISIN         *string    `json:"isin,omitempty"`
	AmfiCode     *string    `json:"amfi_code,omitempty"`
	SchemeCode   *string    `json:"scheme_code,omitempty"`
	SchemeName   string     `json:"scheme_name"`
	DisplayName  string     `json:"display_name"`
	AMC          string     `json:"amc"`
	Category     string     `json:"category"`
	FundType     string     `json:"fund_type"`
	PlanType     string     `json:"plan_type"`
	ReturnType   string     `json:"return_type"`
	AUM          *float64   `json:"aum,omitempty"`
	Nav          *float64   `json:"nav,omitempty"`
	AdjNav       *float64   `json:"adj_nav,omitempty"`
	NavDate      *time.Time `json:"nav_date,omitempty"`
	LaunchDate   *time.Time `json:"launch_date,omitempty"`
	DeprecatedAt *time.Time `json:"deprecated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Active reports whether the scheme is still open for reporting.
func (s Scheme) Active() bool {
	return s.DeprecatedAt == nil
}
