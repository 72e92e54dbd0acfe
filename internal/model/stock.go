package model

import "time"

// Stock represents an equity instrument's reference data row.
type Stock struct {
	WPC          string     `json:"wpc"`
	ISIN         *string    `json:"isin,omitempty"`
	CompanyName  string     `json:"company_name"`
	ShortName    string     `json:"short_name"`
	NSESymbol    *string    `json:"nse_symbol,omitempty"`
	BSECode      *string    `json:"bse_code,omitempty"`
	SectorName   *string    `json:"sector_name,omitempty"`
	IndustryName *string    `json:"industry_name,omitempty"`
	MCapType     *string    `json:"mcap_type,omitempty"`
	ClosePrice   *float64   `json:"close_price,omitempty"`
	PriceDate    *time.Time `json:"price_date,omitempty"`
	DeprecatedAt *time.Time `json:"deprecated_at,omitempty"`
}
