package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wealthyhq/scheme-returns-backend/internal/apperrors"
	"github.com/wealthyhq/scheme-returns-backend/internal/model"
)

// FeedRepository persists vendor feed configuration and run records.
type FeedRepository struct {
	db *sql.DB
}

// NewFeedRepository creates a new FeedRepository with the provided database connection.
func NewFeedRepository(db *sql.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// GetConfig retrieves the vendor feed configuration. The token field is
// still fernet-encrypted at this layer.
func (r *FeedRepository) GetConfig(ctx context.Context) (model.FeedConfig, error) {
	query := `SELECT base_url, encrypted_token, updated_at FROM feed_config LIMIT 1`

	var cfg model.FeedConfig
	var updatedAt string
	err := r.db.QueryRowContext(ctx, query).Scan(&cfg.BaseURL, &cfg.EncryptedToken, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FeedConfig{}, apperrors.ErrFeedConfigNotFound
	}
	if err != nil {
		return model.FeedConfig{}, fmt.Errorf("failed to query feed_config table: %w", err)
	}
	if cfg.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.FeedConfig{}, err
	}
	return cfg, nil
}

// SaveConfig stores the vendor feed configuration, replacing any previous one.
func (r *FeedRepository) SaveConfig(ctx context.Context, cfg model.FeedConfig) error {
	query := `
		INSERT INTO feed_config (id, base_url, encrypted_token, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			base_url = excluded.base_url,
			encrypted_token = excluded.encrypted_token,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, cfg.BaseURL, cfg.EncryptedToken,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to save feed config: %w", err)
	}
	return nil
}

// CreateRun inserts a new feed run in the "running" state and returns it.
func (r *FeedRepository) CreateRun(ctx context.Context) (model.FeedRun, error) {
	run := model.FeedRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Status:    "running",
	}
	query := `INSERT INTO feed_run (id, started_at, status, rows_fetched, rows_stored) VALUES (?, ?, ?, 0, 0)`
	if _, err := r.db.ExecContext(ctx, query, run.ID,
		run.StartedAt.Format(time.RFC3339), run.Status); err != nil {
		return model.FeedRun{}, fmt.Errorf("failed to create feed run: %w", err)
	}
	return run, nil
}

// FinishRun records the outcome of a feed run.
func (r *FeedRepository) FinishRun(ctx context.Context, run model.FeedRun) error {
	query := `
		UPDATE feed_run
		SET finished_at = ?, status = ?, rows_fetched = ?, rows_stored = ?, error = ?
		WHERE id = ?
	`
	var errMsg any
	if run.Error != nil {
		errMsg = *run.Error
	}
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339),
		run.Status, run.RowsFetched, run.RowsStored, errMsg, run.ID); err != nil {
		return fmt.Errorf("failed to finish feed run: %w", err)
	}
	return nil
}

// LatestRuns retrieves the most recent feed runs, newest first.
func (r *FeedRepository) LatestRuns(ctx context.Context, limit int) ([]model.FeedRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, started_at, finished_at, status, rows_fetched, rows_stored, error
		FROM feed_run
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed_run table: %w", err)
	}
	defer rows.Close()

	runs := []model.FeedRun{}
	for rows.Next() {
		var run model.FeedRun
		var startedAt string
		var finishedAt, errMsg sql.NullString
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Status,
			&run.RowsFetched, &run.RowsStored, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan feed_run results: %w", err)
		}
		if run.StartedAt, err = ParseTime(startedAt); err != nil {
			return nil, err
		}
		if finishedAt.Valid {
			t, err := ParseTime(finishedAt.String)
			if err != nil {
				return nil, err
			}
			run.FinishedAt = &t
		}
		if errMsg.Valid {
			run.Error = &errMsg.String
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed_run table: %w", err)
	}
	return runs, nil
}
