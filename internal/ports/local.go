package ports

import (
	"context"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// MarkerStatus records how a scheduled occurrence was handled on this
// device.
type MarkerStatus string

const (
	MarkerStarted   MarkerStatus = "started"
	MarkerCancelled MarkerStatus = "cancelled"
)

// MarkerStore persists per-occurrence "handled" markers across restarts.
// Markers are scoped to the device and never synced to the server;
// without them the same occurrence would auto-start again after every
// restart inside its window.
type MarkerStore interface {
	// Get returns the marker for an occurrence key, with found=false
	// when the occurrence has not been handled.
	Get(ctx context.Context, key string) (status MarkerStatus, found bool, err error)

	// Set records how an occurrence was handled.
	Set(ctx context.Context, key string, status MarkerStatus) error
}

// QueueStore persists the offline mutation queue across restarts.
// Enqueue order is replay order: the queue is one linear list, never
// per-resource lanes.
type QueueStore interface {
	// Append adds an action to the tail of the queue.
	Append(ctx context.Context, action *domain.QueuedAction) error

	// List returns all queued actions in enqueue (FIFO) order.
	List(ctx context.Context) ([]*domain.QueuedAction, error)

	// Remove deletes an action after confirmed success or drop.
	Remove(ctx context.Context, id string) error

	// SetRetries updates an action's retry counter in place.
	SetRetries(ctx context.Context, id string, retries int) error

	// Len returns the number of queued actions.
	Len(ctx context.Context) (int, error)
}

// StateCache holds the device-local shadow copy of server state. The
// server stays authoritative: the shadow is overwritten wholesale on
// every successful fetch, with no merge logic beyond last-fetch-wins.
type StateCache interface {
	SaveSession(ctx context.Context, session *domain.FastingSession) error
	LoadSession(ctx context.Context) (*domain.FastingSession, error)
	ClearSession(ctx context.Context) error

	SaveSchedules(ctx context.Context, fasts []*domain.ScheduledFast) error
	LoadSchedules(ctx context.Context) ([]*domain.ScheduledFast, error)

	SetLastSync(ctx context.Context, at time.Time) error
	LastSync(ctx context.Context) (time.Time, error)
}

// LocalStore is the combined device-local durable store.
// This is a driven port (implemented by the SQLite adapter).
type LocalStore interface {
	Markers() MarkerStore
	Queue() QueueStore
	Cache() StateCache

	// Close closes the store.
	Close() error

	// Migrate creates the local schema.
	Migrate() error
}
