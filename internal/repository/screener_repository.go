package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// ScreenerRepository provides data access for the screener and
// screener_instrument tables.
type ScreenerRepository struct {
	db *sql.DB
}

// NewScreenerRepository creates a new ScreenerRepository with the provided database connection.
func NewScreenerRepository(db *sql.DB) *ScreenerRepository {
	return &ScreenerRepository{db: db}
}

// List retrieves active screeners, optionally restricted to a set of
// categories, ordered for display.
func (r *ScreenerRepository) List(ctx context.Context, categories []string) ([]model.Screener, error) {
	query := `
		SELECT id, name, display_name, description, category, category_display_name,
		       category_order, instrument_type, is_active
		FROM screener
		WHERE is_active = 1
	`
	var args []any
	if len(categories) > 0 {
		placeholders := make([]string, len(categories))
		for i, c := range categories {
			placeholders[i] = "?"
			args = append(args, c)
		}
		//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
		query += ` AND category IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY category_order ASC, name ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query screener table: %w", err)
	}
	defer rows.Close()

	screeners := []model.Screener{}
	for rows.Next() {
		var s model.Screener
		var description sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.DisplayName, &description, &s.Category,
			&s.CategoryDisplayName, &s.CategoryOrder, &s.InstrumentType, &s.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan screener table results: %w", err)
		}
		s.Description = description.String
		screeners = append(screeners, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating screener table: %w", err)
	}
	return screeners, nil
}

// Get retrieves a single screener by ID.
// Returns apperrors.ErrScreenerNotFound when no row matches.
func (r *ScreenerRepository) Get(ctx context.Context, screenerID string) (model.Screener, error) {
	query := `
		SELECT id, name, display_name, description, category, category_display_name,
		       category_order, instrument_type, is_active
		FROM screener
		WHERE id = ?
	`

	var s model.Screener
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, screenerID).Scan(&s.ID, &s.Name, &s.DisplayName,
		&description, &s.Category, &s.CategoryDisplayName, &s.CategoryOrder, &s.InstrumentType, &s.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Screener{}, fmt.Errorf("%w: %s", apperrors.ErrScreenerNotFound, screenerID)
	}
	if err != nil {
		return model.Screener{}, fmt.Errorf("failed to query screener table: %w", err)
	}
	s.Description = description.String
	return s, nil
}

// GetInstruments retrieves a screener's membership: its WPC list and the
// columns to render, both stored as JSON arrays.
func (r *ScreenerRepository) GetInstruments(ctx context.Context, screenerID string) (model.ScreenerInstruments, error) {
	query := `
		SELECT screener_id, wpcs, cols
		FROM screener_instrument
		WHERE screener_id = ?
	`

	var instruments model.ScreenerInstruments
	var wpcsJSON, colsJSON string

	err := r.db.QueryRowContext(ctx, query, screenerID).Scan(&instruments.ScreenerID, &wpcsJSON, &colsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ScreenerInstruments{}, fmt.Errorf("%w: %s", apperrors.ErrScreenerNotFound, screenerID)
	}
	if err != nil {
		return model.ScreenerInstruments{}, fmt.Errorf("failed to query screener_instrument table: %w", err)
	}

	if err := json.Unmarshal([]byte(wpcsJSON), &instruments.WPCs); err != nil {
		return model.ScreenerInstruments{}, fmt.Errorf("failed to decode screener instruments: %w", err)
	}
	if err := json.Unmarshal([]byte(colsJSON), &instruments.Cols); err != nil {
		return model.ScreenerInstruments{}, fmt.Errorf("failed to decode screener columns: %w", err)
	}
	return instruments, nil
}
