package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// Cache keys. One row per kind of shadow state, overwritten wholesale.
const (
	cacheKeySession   = "active_session"
	cacheKeySchedules = "schedules"
	cacheKeyLastSync  = "last_sync"
)

// stateCache implements ports.StateCache using SQLite.
type stateCache struct {
	db *sql.DB
}

// newStateCache creates a new server-state shadow cache.
func newStateCache(db *sql.DB) ports.StateCache {
	return &stateCache{db: db}
}

// SaveSession stores the active session shadow.
func (r *stateCache) SaveSession(ctx context.Context, session *domain.FastingSession) error {
	return r.put(ctx, cacheKeySession, session)
}

// LoadSession returns the cached active session, or nil.
func (r *stateCache) LoadSession(ctx context.Context) (*domain.FastingSession, error) {
	var session domain.FastingSession
	found, err := r.get(ctx, cacheKeySession, &session)
	if err != nil || !found {
		return nil, err
	}
	return &session, nil
}

// ClearSession removes the active session shadow.
func (r *stateCache) ClearSession(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM state_cache WHERE key = ?`, cacheKeySession); err != nil {
		return fmt.Errorf("failed to clear cached session: %w", err)
	}
	return nil
}

// SaveSchedules stores the schedule shadow list.
func (r *stateCache) SaveSchedules(ctx context.Context, fasts []*domain.ScheduledFast) error {
	return r.put(ctx, cacheKeySchedules, fasts)
}

// LoadSchedules returns the cached schedule list.
func (r *stateCache) LoadSchedules(ctx context.Context) ([]*domain.ScheduledFast, error) {
	var fasts []*domain.ScheduledFast
	if _, err := r.get(ctx, cacheKeySchedules, &fasts); err != nil {
		return nil, err
	}
	return fasts, nil
}

// SetLastSync records when the queue last drained successfully.
func (r *stateCache) SetLastSync(ctx context.Context, at time.Time) error {
	return r.put(ctx, cacheKeyLastSync, at)
}

// LastSync returns the last successful drain time, zero when never.
func (r *stateCache) LastSync(ctx context.Context) (time.Time, error) {
	var at time.Time
	if _, err := r.get(ctx, cacheKeyLastSync, &at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}

// put stores a JSON-encoded value under a cache key.
func (r *stateCache) put(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	query := `
		INSERT INTO state_cache (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save cache value: %w", err)
	}

	return nil
}

// get loads and decodes a cache value, with found=false when absent.
func (r *stateCache) get(ctx context.Context, key string, out any) (bool, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM state_cache WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load cache value: %w", err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to decode cache value: %w", err)
	}
	return true, nil
}
