// Package storage provides the SQLite implementation of the local store.
package storage

import (
	"database/sql"
	"fmt"

	"github.com/mzavel/fasting-cli/internal/ports"
	_ "modernc.org/sqlite"
)

// sqliteStore implements the ports.LocalStore interface using SQLite.
type sqliteStore struct {
	db      *sql.DB
	markers ports.MarkerStore
	queue   ports.QueueStore
	cache   ports.StateCache
}

// Ensure sqliteStore implements ports.LocalStore.
var _ ports.LocalStore = (*sqliteStore)(nil)

// New creates a new SQLite local store.
func New(dbPath string) (ports.LocalStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL keeps the tick loop and the sync drain from blocking each other.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	store := &sqliteStore{
		db:      db,
		markers: newMarkerStore(db),
		queue:   newQueueStore(db),
		cache:   newStateCache(db),
	}

	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewMemory creates an in-memory SQLite local store for testing.
func NewMemory() (ports.LocalStore, error) {
	return New(":memory:")
}

// Markers returns the occurrence marker store.
func (s *sqliteStore) Markers() ports.MarkerStore {
	return s.markers
}

// Queue returns the offline mutation queue store.
func (s *sqliteStore) Queue() ports.QueueStore {
	return s.queue
}

// Cache returns the server-state shadow cache.
func (s *sqliteStore) Cache() ports.StateCache {
	return s.cache
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the local schema.
func (s *sqliteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS occurrence_markers (
		key TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sync_queue (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		action_type TEXT NOT NULL,
		resource TEXT NOT NULL,
		target_id TEXT,
		data TEXT,
		queued_at DATETIME NOT NULL,
		retries INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_sync_queue_seq ON sync_queue(seq);

	CREATE TABLE IF NOT EXISTS state_cache (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}
