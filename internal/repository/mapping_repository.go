package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// MappingRepository provides data access to the identifier_mapping table,
// which maps external identifiers (ISIN, scheme codes, vendor codes) onto
// canonical WPCs.
type MappingRepository struct {
	db *sql.DB
}

// NewMappingRepository creates a new MappingRepository with the provided database connection.
func NewMappingRepository(db *sql.DB) *MappingRepository {
	return &MappingRepository{db: db}
}

// GetWPCs returns the visible WPCs mapped to an identifier value within a
// namespace, oldest mapping first. The first entry is the canonical
// resolution; later entries are successor product codes (e.g. a scheme that
// was reissued under a new WPC).
func (r *MappingRepository) GetWPCs(ctx context.Context, idType model.IdentifierType, idValue string) ([]string, error) {
	query := `
		SELECT wpc
		FROM identifier_mapping
		WHERE id_type = ? AND id_value = ? AND hidden = 0
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, string(idType), idValue)
	if err != nil {
		return nil, fmt.Errorf("failed to query identifier_mapping table: %w", err)
	}
	defer rows.Close()

	wpcs := []string{}
	for rows.Next() {
		var wpc string
		if err := rows.Scan(&wpc); err != nil {
			return nil, fmt.Errorf("failed to scan identifier_mapping results: %w", err)
		}
		wpcs = append(wpcs, wpc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating identifier_mapping table: %w", err)
	}
	return wpcs, nil
}

// GetTargetWPC resolves a WPC to its successor product code, if one exists.
// Returns the input unchanged when no redirect is recorded.
func (r *MappingRepository) GetTargetWPC(ctx context.Context, wpc string) (string, error) {
	query := `
		SELECT target_wpc
		FROM wpc_redirect
		WHERE wpc = ? AND hidden = 0
		LIMIT 1
	`

	var target string
	err := r.db.QueryRowContext(ctx, query, wpc).Scan(&target)
	if err == sql.ErrNoRows {
		return wpc, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query wpc_redirect table: %w", err)
	}
	return target, nil
}
