package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Scheme table
		CREATE TABLE scheme (
			wschemecode VARCHAR(28) NOT NULL PRIMARY KEY,
			wpc VARCHAR(12) NOT NULL UNIQUE,
			third_party_id VARCHAR(10),
			isin VARCHAR(20),
			amfi_code VARCHAR(20),
			scheme_code VARCHAR(20),
			scheme_name VARCHAR(255) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			amc VARCHAR(100) NOT NULL,
			category VARCHAR(255) NOT NULL,
			fund_type VARCHAR(50) NOT NULL,
			plan_type VARCHAR(20) NOT NULL,
			return_type VARCHAR(20) NOT NULL,
			aum FLOAT,
			nav FLOAT,
			adj_nav FLOAT,
			nav_date DATE,
			launch_date DATE,
			deprecated_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP NOT NULL
		);

		-- NAV observations, one per (wpc, nav_date)
		CREATE TABLE nav_observation (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			wpc VARCHAR(12) NOT NULL,
			nav_date DATE NOT NULL,
			nav TEXT NOT NULL,
			adj_nav TEXT NOT NULL,
			CONSTRAINT unique_wpc_nav_date UNIQUE (wpc, nav_date)
		);

		-- Identifier resolution tables
		CREATE TABLE identifier_mapping (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			id_type VARCHAR(20) NOT NULL,
			id_value VARCHAR(30) NOT NULL,
			wpc VARCHAR(12) NOT NULL,
			hidden BOOLEAN DEFAULT FALSE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP NOT NULL
		);

		CREATE TABLE wpc_redirect (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			wpc VARCHAR(12) NOT NULL UNIQUE,
			target_wpc VARCHAR(12) NOT NULL,
			hidden BOOLEAN DEFAULT FALSE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP NOT NULL
		);

		-- Stock table
		CREATE TABLE stock (
			wpc VARCHAR(12) NOT NULL PRIMARY KEY,
			isin VARCHAR(20),
			company_name VARCHAR(255) NOT NULL,
			short_name VARCHAR(100) NOT NULL,
			nse_symbol VARCHAR(20),
			bse_code VARCHAR(20),
			sector_name VARCHAR(100),
			industry_name VARCHAR(100),
			mcap_type VARCHAR(10),
			close_price FLOAT,
			price_date DATE,
			deprecated_at DATETIME
		);

		-- Screener tables
		CREATE TABLE screener (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			display_name VARCHAR(255) NOT NULL,
			description TEXT,
			category VARCHAR(100) NOT NULL,
			category_display_name VARCHAR(255) NOT NULL,
			category_order INTEGER DEFAULT 0 NOT NULL,
			instrument_type VARCHAR(10) NOT NULL,
			is_active BOOLEAN DEFAULT TRUE NOT NULL
		);

		CREATE TABLE screener_instrument (
			screener_id VARCHAR(36) NOT NULL PRIMARY KEY,
			wpcs TEXT NOT NULL,
			cols TEXT NOT NULL,
			FOREIGN KEY(screener_id) REFERENCES screener(id) ON DELETE CASCADE
		);

		-- Vendor feed tables
		CREATE TABLE feed_config (
			id INTEGER NOT NULL PRIMARY KEY,
			base_url VARCHAR(255) NOT NULL,
			encrypted_token TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE feed_run (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			status VARCHAR(10) NOT NULL,
			rows_fetched INTEGER DEFAULT 0 NOT NULL,
			rows_stored INTEGER DEFAULT 0 NOT NULL,
			error TEXT
		);
	`

	_, err := db.Exec(schema)
	return err
}
