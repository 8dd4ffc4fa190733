package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mzavel/fasting-cli/internal/ports"
)

// markerStore implements ports.MarkerStore using SQLite.
type markerStore struct {
	db *sql.DB
}

// newMarkerStore creates a new occurrence marker store.
func newMarkerStore(db *sql.DB) ports.MarkerStore {
	return &markerStore{db: db}
}

// Get returns the marker for an occurrence key.
func (r *markerStore) Get(ctx context.Context, key string) (ports.MarkerStatus, bool, error) {
	query := `SELECT status FROM occurrence_markers WHERE key = ?`

	var status string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&status)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to load occurrence marker: %w", err)
	}

	return ports.MarkerStatus(status), true, nil
}

// Set records how an occurrence was handled. Re-marking an occurrence
// overwrites the previous status.
func (r *markerStore) Set(ctx context.Context, key string, status ports.MarkerStatus) error {
	query := `
		INSERT INTO occurrence_markers (key, status, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET status = excluded.status
	`

	if _, err := r.db.ExecContext(ctx, query, key, string(status), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save occurrence marker: %w", err)
	}

	return nil
}
