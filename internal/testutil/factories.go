package testutil

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// MakeID generates a fresh UUID string for test rows.
func MakeID() string {
	return uuid.New().String()
}

// SchemeBuilder provides a fluent interface for creating test schemes.
//
// Example usage:
//
//	// Simple creation with defaults
//	scheme := testutil.NewScheme().Build(t, db)
//
//	// Customized scheme
//	scheme := testutil.NewScheme().
//	    WithWPC("MF000042").
//	    WithCategory("ELSS").
//	    Deprecated().
//	    Build(t, db)
type SchemeBuilder struct {
	WSchemeCode  string
	WPC          string
	ThirdPartyID string
	ISIN         string
	SchemeCode   string
	SchemeName   string
	AMC          string
	Category     string
	FundType     string
	DeprecatedAt *time.Time
}

// NewScheme creates a SchemeBuilder with sensible defaults.
func NewScheme() *SchemeBuilder {
	wpc := fmt.Sprintf("MF%06d", nextSeq())
	return &SchemeBuilder{
		WSchemeCode: wpc + "_GR_DIR",
		WPC:         wpc,
		SchemeName:  "Test Growth Fund",
		AMC:         "Test AMC",
		Category:    "Equity: Large Cap",
		FundType:    "EQUITY",
	}
}

// WithWPC sets a custom WPC.
func (b *SchemeBuilder) WithWPC(wpc string) *SchemeBuilder {
	b.WPC = wpc
	b.WSchemeCode = wpc + "_GR_DIR"
	return b
}

// WithThirdPartyID sets the third-party identifier.
func (b *SchemeBuilder) WithThirdPartyID(id string) *SchemeBuilder {
	b.ThirdPartyID = id
	return b
}

// WithISIN sets the ISIN.
func (b *SchemeBuilder) WithISIN(isin string) *SchemeBuilder {
	b.ISIN = isin
	return b
}

// WithSchemeCode sets the vendor scheme code.
func (b *SchemeBuilder) WithSchemeCode(code string) *SchemeBuilder {
	b.SchemeCode = code
	return b
}

// WithName sets a custom scheme name.
func (b *SchemeBuilder) WithName(name string) *SchemeBuilder {
	b.SchemeName = name
	return b
}

// WithCategory sets a custom category.
func (b *SchemeBuilder) WithCategory(category string) *SchemeBuilder {
	b.Category = category
	return b
}

// WithAMC sets a custom AMC.
func (b *SchemeBuilder) WithAMC(amc string) *SchemeBuilder {
	b.AMC = amc
	return b
}

// Deprecated marks the scheme as deprecated now.
func (b *SchemeBuilder) Deprecated() *SchemeBuilder {
	now := time.Now().UTC()
	b.DeprecatedAt = &now
	return b
}

// Build creates the scheme in the database and returns it.
func (b *SchemeBuilder) Build(t *testing.T, db *sql.DB) model.Scheme {
	t.Helper()

	query := `
		INSERT INTO scheme (wschemecode, wpc, third_party_id, isin, scheme_code,
			scheme_name, display_name, amc, category, fund_type, plan_type,
			return_type, deprecated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'DIRECT', 'GROWTH', ?)
	`

	var deprecatedAt any
	if b.DeprecatedAt != nil {
		deprecatedAt = b.DeprecatedAt.Format(time.RFC3339)
	}
	_, err := db.Exec(query, b.WSchemeCode, b.WPC, nullable(b.ThirdPartyID), nullable(b.ISIN),
		nullable(b.SchemeCode), b.SchemeName, b.SchemeName, b.AMC, b.Category, b.FundType, deprecatedAt)
	if err != nil {
		t.Fatalf("Failed to create test scheme: %v", err)
	}

	return model.Scheme{
		WSchemeCode: b.WSchemeCode,
		WPC:         b.WPC,
		SchemeName:  b.SchemeName,
		DisplayName: b.SchemeName,
		AMC:         b.AMC,
		Category:    b.Category,
		FundType:    b.FundType,
		PlanType:    "DIRECT",
		ReturnType:  "GROWTH",
	}
}

// CreateNav inserts one NAV observation. Nav and adjusted NAV get the same
// value, which is what most tests want.
func CreateNav(t *testing.T, db *sql.DB, wpc string, date time.Time, nav float64) {
	t.Helper()
	CreateNavAdjusted(t, db, wpc, date, nav, nav)
}

// CreateNavAdjusted inserts one NAV observation with distinct raw and
// adjusted values.
func CreateNavAdjusted(t *testing.T, db *sql.DB, wpc string, date time.Time, nav, adjNav float64) {
	t.Helper()

	query := `INSERT INTO nav_observation (id, wpc, nav_date, nav, adj_nav) VALUES (?, ?, ?, ?, ?)`
	_, err := db.Exec(query, MakeID(), wpc, date.Format("2006-01-02"),
		decimal.NewFromFloat(nav).String(), decimal.NewFromFloat(adjNav).String())
	if err != nil {
		t.Fatalf("Failed to create test nav observation: %v", err)
	}
}

// CreateMonthlyNavs inserts one observation per month for `months` months,
// on the given day-of-month, starting at the given month. Values step by
// `step` each month from `start`.
func CreateMonthlyNavs(t *testing.T, db *sql.DB, wpc string, firstMonth time.Time, day, months int, start, step float64) {
	t.Helper()
	for i := 0; i < months; i++ {
		date := time.Date(firstMonth.Year(), firstMonth.Month(), day, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		CreateNav(t, db, wpc, date, start+float64(i)*step)
	}
}

// CreateMapping inserts an identifier mapping row.
func CreateMapping(t *testing.T, db *sql.DB, idType model.IdentifierType, idValue, wpc string) {
	t.Helper()
	CreateMappingAt(t, db, idType, idValue, wpc, false, time.Now().UTC())
}

// CreateMappingAt inserts an identifier mapping row with explicit hidden
// flag and creation time, for ordering tests.
func CreateMappingAt(t *testing.T, db *sql.DB, idType model.IdentifierType, idValue, wpc string, hidden bool, createdAt time.Time) {
	t.Helper()

	query := `INSERT INTO identifier_mapping (id, id_type, id_value, wpc, hidden, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := db.Exec(query, MakeID(), string(idType), idValue, wpc, hidden,
		createdAt.Format(time.RFC3339)); err != nil {
		t.Fatalf("Failed to create test mapping: %v", err)
	}
}

// CreateRedirect inserts a wpc redirect row.
func CreateRedirect(t *testing.T, db *sql.DB, wpc, targetWPC string) {
	t.Helper()

	query := `INSERT INTO wpc_redirect (id, wpc, target_wpc) VALUES (?, ?, ?)`
	if _, err := db.Exec(query, MakeID(), wpc, targetWPC); err != nil {
		t.Fatalf("Failed to create test redirect: %v", err)
	}
}

// StockBuilder provides a fluent interface for creating test stocks.
type StockBuilder struct {
	WPC         string
	CompanyName string
	ShortName   string
	NSESymbol   string
}

// NewStock creates a StockBuilder with sensible defaults.
func NewStock() *StockBuilder {
	wpc := fmt.Sprintf("ST%06d", nextSeq())
	return &StockBuilder{
		WPC:         wpc,
		CompanyName: "Test Industries Ltd",
		ShortName:   "Test Industries",
		NSESymbol:   "TEST",
	}
}

// WithWPC sets a custom WPC.
func (b *StockBuilder) WithWPC(wpc string) *StockBuilder {
	b.WPC = wpc
	return b
}

// WithName sets the company and short name.
func (b *StockBuilder) WithName(name string) *StockBuilder {
	b.CompanyName = name
	b.ShortName = name
	return b
}

// WithNSESymbol sets the NSE symbol.
func (b *StockBuilder) WithNSESymbol(symbol string) *StockBuilder {
	b.NSESymbol = symbol
	return b
}

// Build creates the stock in the database and returns it.
func (b *StockBuilder) Build(t *testing.T, db *sql.DB) model.Stock {
	t.Helper()

	query := `INSERT INTO stock (wpc, company_name, short_name, nse_symbol) VALUES (?, ?, ?, ?)`
	if _, err := db.Exec(query, b.WPC, b.CompanyName, b.ShortName, b.NSESymbol); err != nil {
		t.Fatalf("Failed to create test stock: %v", err)
	}

	symbol := b.NSESymbol
	return model.Stock{
		WPC:         b.WPC,
		CompanyName: b.CompanyName,
		ShortName:   b.ShortName,
		NSESymbol:   &symbol,
	}
}

// CreateScreener inserts a screener with its instrument membership and
// returns the screener row.
func CreateScreener(t *testing.T, db *sql.DB, name, category, instrumentType string, wpcs []string) model.Screener {
	t.Helper()

	screener := model.Screener{
		ID:                  MakeID(),
		Name:                name,
		DisplayName:         name,
		Category:            category,
		CategoryDisplayName: category,
		InstrumentType:      instrumentType,
		IsActive:            true,
	}

	query := `
		INSERT INTO screener (id, name, display_name, category, category_display_name,
			category_order, instrument_type, is_active)
		VALUES (?, ?, ?, ?, ?, 0, ?, 1)
	`
	if _, err := db.Exec(query, screener.ID, screener.Name, screener.DisplayName,
		screener.Category, screener.CategoryDisplayName, screener.InstrumentType); err != nil {
		t.Fatalf("Failed to create test screener: %v", err)
	}

	wpcsJSON, _ := json.Marshal(wpcs)
	colsJSON, _ := json.Marshal([]string{"nav", "returns_3y"})
	if _, err := db.Exec(`INSERT INTO screener_instrument (screener_id, wpcs, cols) VALUES (?, ?, ?)`,
		screener.ID, string(wpcsJSON), string(colsJSON)); err != nil {
		t.Fatalf("Failed to create test screener instruments: %v", err)
	}
	return screener
}

var seq int

// nextSeq returns a process-unique sequence number for generated codes.
func nextSeq() int {
	seq++
	return seq
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
