package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// StockRepository provides data access methods for the stock table.
type StockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

const stockColumns = `
	wpc, isin, company_name, short_name, nse_symbol, bse_code,
	sector_name, industry_name, mcap_type, close_price, price_date, deprecated_at
`

// GetByWPC retrieves a single stock by its canonical product code.
func (r *StockRepository) GetByWPC(ctx context.Context, wpc string) (model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE wpc = ?`

	row := r.db.QueryRowContext(ctx, query, wpc)
	stock, err := scanStock(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stock{}, fmt.Errorf("%w: wpc %s", apperrors.ErrStockNotFound, wpc)
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to query stock table: %w", err)
	}
	return stock, nil
}

// Search retrieves active stocks whose name or symbol matches the query.
func (r *StockRepository) Search(ctx context.Context, search string, limit int) ([]model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock
		WHERE deprecated_at IS NULL
		AND (company_name LIKE ? OR short_name LIKE ? OR nse_symbol LIKE ?)
		ORDER BY company_name ASC`
	pattern := "%" + search + "%"
	args := []any{pattern, pattern, pattern}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	return collectStocks(rows)
}

// GetByWPCs retrieves stock rows for the given product codes.
func (r *StockRepository) GetByWPCs(ctx context.Context, wpcs []string) ([]model.Stock, error) {
	if len(wpcs) == 0 {
		return []model.Stock{}, nil
	}

	placeholders := make([]string, len(wpcs))
	args := make([]any, len(wpcs))
	for i, wpc := range wpcs {
		placeholders[i] = "?"
		args[i] = wpc
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `SELECT ` + stockColumns + ` FROM stock WHERE wpc IN (` +
		strings.Join(placeholders, ",") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	return collectStocks(rows)
}

func collectStocks(rows *sql.Rows) ([]model.Stock, error) {
	stocks := []model.Stock{}
	for rows.Next() {
		stock, err := scanStock(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock table results: %w", err)
		}
		stocks = append(stocks, stock)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock table: %w", err)
	}
	return stocks, nil
}

func scanStock(scan func(...any) error) (model.Stock, error) {
	var s model.Stock
	var priceDate, deprecatedAt sql.NullString

	err := scan(
		&s.WPC,
		&s.ISIN,
		&s.CompanyName,
		&s.ShortName,
		&s.NSESymbol,
		&s.BSECode,
		&s.SectorName,
		&s.IndustryName,
		&s.MCapType,
		&s.ClosePrice,
		&priceDate,
		&deprecatedAt,
	)
	if err != nil {
		return model.Stock{}, err
	}

	if s.PriceDate, err = parseOptionalDate(priceDate); err != nil {
		return model.Stock{}, err
	}
	if s.DeprecatedAt, err = parseOptionalDate(deprecatedAt); err != nil {
		return model.Stock{}, err
	}
	return s, nil
}
