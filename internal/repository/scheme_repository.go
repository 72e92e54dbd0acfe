package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// SchemeFilter narrows scheme listings. Zero values mean "no filter".
type SchemeFilter struct {
	Category        string
	AMC             string
	FundType        string
	Search          string
	AllowDeprecated bool
	Limit           int
	Offset          int
}

// SchemeRepository provides data access methods for the scheme table.
type SchemeRepository struct {
	db *sql.DB
}

// NewSchemeRepository creates a new SchemeRepository with the provided database connection.
func NewSchemeRepository(db *sql.DB) *SchemeRepository {
	return &SchemeRepository{db: db}
}

const schemeColumns = `
	wschemecode, wpc, third_party_id, isin, amfi_code, scheme_code,
	scheme_name, display_name, amc, category, fund_type, plan_type,
	return_type, aum, nav, adj_nav, nav_date, launch_date, deprecated_at,
	created_at, updated_at
`

// GetByWPC retrieves a single scheme by its canonical product code.
// Returns apperrors.ErrSchemeNotFound when no row matches.
func (r *SchemeRepository) GetByWPC(ctx context.Context, wpc string) (model.Scheme, error) {
	query := `SELECT ` + schemeColumns + ` FROM scheme WHERE wpc = ?`

	row := r.db.QueryRowContext(ctx, query, wpc)
	scheme, err := scanScheme(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Scheme{}, fmt.Errorf("%w: wpc %s", apperrors.ErrSchemeNotFound, wpc)
	}
	if err != nil {
		return model.Scheme{}, fmt.Errorf("failed to query scheme table: %w", err)
	}
	return scheme, nil
}

// GetByThirdPartyID retrieves a scheme by its vendor identifier.
func (r *SchemeRepository) GetByThirdPartyID(ctx context.Context, tpID string) (model.Scheme, error) {
	query := `SELECT ` + schemeColumns + ` FROM scheme WHERE third_party_id = ? COLLATE NOCASE`

	row := r.db.QueryRowContext(ctx, query, tpID)
	scheme, err := scanScheme(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Scheme{}, fmt.Errorf("%w: third party id %s", apperrors.ErrSchemeNotFound, tpID)
	}
	if err != nil {
		return model.Scheme{}, fmt.Errorf("failed to query scheme table: %w", err)
	}
	return scheme, nil
}

// List retrieves schemes matching the filter, active ones only unless
// AllowDeprecated is set, newest first.
func (r *SchemeRepository) List(ctx context.Context, filter SchemeFilter) ([]model.Scheme, error) {
	query := `SELECT ` + schemeColumns + ` FROM scheme`
	var conditions []string
	var args []any

	if !filter.AllowDeprecated {
		conditions = append(conditions, "deprecated_at IS NULL")
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.AMC != "" {
		conditions = append(conditions, "amc = ?")
		args = append(args, filter.AMC)
	}
	if filter.FundType != "" {
		conditions = append(conditions, "fund_type = ?")
		args = append(args, filter.FundType)
	}
	if filter.Search != "" {
		conditions = append(conditions, "(scheme_name LIKE ? OR display_name LIKE ? OR category LIKE ? OR amc LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheme table: %w", err)
	}
	defer rows.Close()

	schemes := []model.Scheme{}
	for rows.Next() {
		scheme, err := scanScheme(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheme table results: %w", err)
		}
		schemes = append(schemes, scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheme table: %w", err)
	}
	return schemes, nil
}

// GetByWPCs retrieves scheme rows for the given product codes, preserving
// only codes that exist.
func (r *SchemeRepository) GetByWPCs(ctx context.Context, wpcs []string) ([]model.Scheme, error) {
	if len(wpcs) == 0 {
		return []model.Scheme{}, nil
	}

	placeholders := make([]string, len(wpcs))
	args := make([]any, len(wpcs))
	for i, wpc := range wpcs {
		placeholders[i] = "?"
		args[i] = wpc
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `SELECT ` + schemeColumns + ` FROM scheme WHERE wpc IN (` +
		strings.Join(placeholders, ",") + `)`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheme table: %w", err)
	}
	defer rows.Close()

	schemes := []model.Scheme{}
	for rows.Next() {
		scheme, err := scanScheme(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheme table results: %w", err)
		}
		schemes = append(schemes, scheme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheme table: %w", err)
	}
	return schemes, nil
}

func scanScheme(scan func(...any) error) (model.Scheme, error) {
	var s model.Scheme
	var navDate, launchDate, deprecatedAt, createdAt, updatedAt sql.NullString

	err := scan(
		&s.WSchemeCode,
		&s.WPC,
		&s.ThirdPartyID,
		&s.ISIN,
		&s.AmfiCode,
		&s.SchemeCode,
		&s.SchemeName,
		&s.DisplayName,
		&s.AMC,
		&s.Category,
		&s.FundType,
		&s.PlanType,
		&s.ReturnType,
		&s.AUM,
		&s.Nav,
		&s.AdjNav,
		&navDate,
		&launchDate,
		&deprecatedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return model.Scheme{}, err
	}

	if s.NavDate, err = parseOptionalDate(navDate); err != nil {
		return model.Scheme{}, err
	}
	if s.LaunchDate, err = parseOptionalDate(launchDate); err != nil {
		return model.Scheme{}, err
	}
	if s.DeprecatedAt, err = parseOptionalDate(deprecatedAt); err != nil {
		return model.Scheme{}, err
	}
	if createdAt.Valid {
		if s.CreatedAt, err = ParseTime(createdAt.String); err != nil {
			return model.Scheme{}, err
		}
	}
	if updatedAt.Valid {
		if s.UpdatedAt, err = ParseTime(updatedAt.String); err != nil {
			return model.Scheme{}, err
		}
	}
	return s, nil
}

func parseOptionalDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	parsed, err := ParseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
