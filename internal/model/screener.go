package model

// Screener is a curated, filtered instrument list (e.g. "Top ELSS funds").
type Screener struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	DisplayName         string `json:"display_name"`
	Description         string `json:"description,omitempty"`
	Category            string `json:"category"`
	CategoryDisplayName string `json:"category_display_name"`
	CategoryOrder       int    `json:"category_order"`
	InstrumentType      string `json:"instrument_type"`
	IsActive            bool   `json:"is_active"`
}

// ScreenerInstruments holds the resolved membership of a screener: the WPCs
// it contains and the columns the frontend should render. Both are stored as
// JSON arrays in the warehouse.
type ScreenerInstruments struct {
	ScreenerID string   `json:"screener_id"`
	WPCs       []string `json:"wpcs"`
	Cols       []string `json:"cols"`
}
