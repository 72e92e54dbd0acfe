package model

import "time"

// FeedRun records one execution of the vendor NAV feed refresh.
type FeedRun struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Status      string     `json:"status"` // running, completed, failed
	RowsFetched int        `json:"rows_fetched"`
	RowsStored  int        `json:"rows_stored"`
	Error       *string    `json:"error,omitempty"`
}

// FeedConfig holds the vendor feed settings persisted in the warehouse.
// Token is stored fernet-encrypted and only decrypted in memory.
type FeedConfig struct {
	BaseURL        string    `json:"base_url"`
	EncryptedToken string    `json:"-"`
	UpdatedAt      time.Time `json:"updated_at"`
}
