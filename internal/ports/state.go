package ports

import (
	"context"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// StateProvider exposes fasting state and lifecycle operations to the
// MCP server. This is a driving port (called by the MCP adapter).
type StateProvider interface {
	// GetCurrentState returns the active session, timer view, recent
	// history, stats and sync status.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// StartFast begins a new fasting session.
	StartFast(ctx context.Context, fastType domain.FastType, targetHours float64, notes string) (*domain.FastingSession, error)

	// EndFast completes the active session.
	EndFast(ctx context.Context) (*domain.FastingSession, error)

	// CancelFast aborts the active session.
	CancelFast(ctx context.Context) error

	// ListSchedules returns all scheduled fasts.
	ListSchedules(ctx context.Context) ([]*domain.ScheduledFast, error)

	// RecentFasts returns the most recent finished sessions.
	RecentFasts(ctx context.Context, limit int) ([]*domain.FastingSession, error)

	// GetStats returns aggregate fasting statistics.
	GetStats(ctx context.Context) (*domain.FastingStats, error)
}
