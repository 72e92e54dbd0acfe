package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// NavRepository provides read access to the nav_observation table: the
// time-ordered per-fund NAV warehouse populated by the vendor feed.
// NAV values are stored as TEXT and scanned through shopspring/decimal so
// no binary-float rounding happens at the storage boundary.
type NavRepository struct {
	db *sql.DB
}

// NewNavRepository creates a new NavRepository with the provided database connection.
func NewNavRepository(db *sql.DB) *NavRepository {
	return &NavRepository{db: db}
}

// GetNavSeries retrieves all NAV observations for a fund on or after the
// given start date, sorted ascending by date. Returns an empty slice when
// the fund has no history in the window.
func (r *NavRepository) GetNavSeries(ctx context.Context, wpc string, from time.Time) ([]model.NavObservation, error) {
	query := `
		SELECT id, wpc, nav_date, nav, adj_nav
		FROM nav_observation
		WHERE wpc = ? AND nav_date >= ?
		ORDER BY nav_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, wpc, FormatDate(from))
	if err != nil {
		return nil, fmt.Errorf("failed to query nav_observation table: %w", err)
	}
	defer rows.Close()

	return scanNavRows(rows)
}

// GetNavRange retrieves NAV observations between start and end inclusive,
// sorted ascending.
func (r *NavRepository) GetNavRange(ctx context.Context, wpc string, start, end time.Time) ([]model.NavObservation, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: start %s after end %s", apperrors.ErrInvalidDateRange,
			FormatDate(start), FormatDate(end))
	}

	query := `
		SELECT id, wpc, nav_date, nav, adj_nav
		FROM nav_observation
		WHERE wpc = ? AND nav_date >= ? AND nav_date <= ?
		ORDER BY nav_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, wpc, FormatDate(start), FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query nav_observation table: %w", err)
	}
	defer rows.Close()

	return scanNavRows(rows)
}

// GetLatestNav retrieves the most recent observation on or before asOf.
// With approximate=false the observation must fall exactly on asOf.
// Returns apperrors.ErrNavNotFound when nothing matches.
func (r *NavRepository) GetLatestNav(ctx context.Context, wpc string, asOf time.Time, approximate bool) (model.NavObservation, error) {
	query := `
		SELECT id, wpc, nav_date, nav, adj_nav
		FROM nav_observation
		WHERE wpc = ? AND nav_date = ?
	`
	if approximate {
		query = `
			SELECT id, wpc, nav_date, nav, adj_nav
			FROM nav_observation
			WHERE wpc = ? AND nav_date <= ?
			ORDER BY nav_date DESC
			LIMIT 1
		`
	}

	row := r.db.QueryRowContext(ctx, query, wpc, FormatDate(asOf))

	obs, err := scanNavRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NavObservation{}, fmt.Errorf("%w: %s as of %s", apperrors.ErrNavNotFound, wpc, FormatDate(asOf))
	}
	if err != nil {
		return model.NavObservation{}, fmt.Errorf("failed to query nav_observation table: %w", err)
	}
	return obs, nil
}

// UpsertNavs stores a batch of observations, replacing any existing row for
// the same (wpc, nav_date). Used by the vendor feed refresh.
func (r *NavRepository) UpsertNavs(ctx context.Context, observations []model.NavObservation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nav_observation (id, wpc, nav_date, nav, adj_nav)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(wpc, nav_date) DO UPDATE SET nav = excluded.nav, adj_nav = excluded.adj_nav
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, obs := range observations {
		id := obs.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx, id, obs.WPC, FormatDate(obs.NavDate),
			obs.Nav.String(), obs.AdjNav.String()); err != nil {
			return stored, fmt.Errorf("failed to upsert nav for %s on %s: %w",
				obs.WPC, FormatDate(obs.NavDate), err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return stored, fmt.Errorf("failed to commit nav upsert: %w", err)
	}
	return stored, nil
}

func scanNavRows(rows *sql.Rows) ([]model.NavObservation, error) {
	observations := []model.NavObservation{}
	for rows.Next() {
		obs, err := scanNavRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nav_observation results: %w", err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nav_observation table: %w", err)
	}
	return observations, nil
}

func scanNavRow(scan func(...any) error) (model.NavObservation, error) {
	var obs model.NavObservation
	var dateStr, navStr, adjNavStr string

	if err := scan(&obs.ID, &obs.WPC, &dateStr, &navStr, &adjNavStr); err != nil {
		return model.NavObservation{}, err
	}

	var err error
	if obs.NavDate, err = ParseTime(dateStr); err != nil {
		return model.NavObservation{}, err
	}
	if obs.Nav, err = decimal.NewFromString(navStr); err != nil {
		return model.NavObservation{}, fmt.Errorf("failed to parse nav %q: %w", navStr, err)
	}
	if obs.AdjNav, err = decimal.NewFromString(adjNavStr); err != nil {
		return model.NavObservation{}, fmt.Errorf("failed to parse adj_nav %q: %w", adjNavStr, err)
	}
	return obs, nil
}
