// Package ports defines the interfaces (driven and driving ports)
// between the fasting domain and external infrastructure.
package ports

import (
	"context"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// SessionResource is the remote fasting-session resource.
// This is a driven port (implemented by the HTTP adapter).
type SessionResource interface {
	// Create starts a session server-side and returns the server record
	// with its assigned id.
	Create(ctx context.Context, session *domain.FastingSession) (*domain.FastingSession, error)

	// End completes a session. Ending an already-ended session returns
	// the stored record unchanged, so caller retries are safe.
	End(ctx context.Context, id string) (*domain.FastingSession, error)

	// Cancel aborts a session.
	Cancel(ctx context.Context, id string) (*domain.FastingSession, error)

	// Update applies a partial edit, used for corrective start-time
	// changes and for replaying queued offline mutations.
	Update(ctx context.Context, id string, session *domain.FastingSession) (*domain.FastingSession, error)

	// Active returns the currently active session, or nil when none.
	Active(ctx context.Context) (*domain.FastingSession, error)

	// Recent returns the most recent sessions, newest first.
	Recent(ctx context.Context, limit int) ([]*domain.FastingSession, error)

	// Stats returns aggregate fasting statistics.
	Stats(ctx context.Context) (*domain.FastingStats, error)
}

// ScheduleResource is the remote scheduled-fast resource.
type ScheduleResource interface {
	Create(ctx context.Context, fast *domain.ScheduledFast) (*domain.ScheduledFast, error)
	Update(ctx context.Context, id string, fast *domain.ScheduledFast) (*domain.ScheduledFast, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.ScheduledFast, error)
	Upcoming(ctx context.Context) ([]*domain.ScheduledFast, error)
}

// WeightResource is the remote weight-log resource.
type WeightResource interface {
	Create(ctx context.Context, entry *domain.WeightEntry) (*domain.WeightEntry, error)
	Update(ctx context.Context, id string, entry *domain.WeightEntry) (*domain.WeightEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.WeightEntry, error)
}

// MetricResource is the remote vital-sign metric resource.
type MetricResource interface {
	Create(ctx context.Context, metric *domain.HealthMetric) (*domain.HealthMetric, error)
	Update(ctx context.Context, id string, metric *domain.HealthMetric) (*domain.HealthMetric, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.HealthMetric, error)
}

// ProfileResource is the remote user-profile resource.
type ProfileResource interface {
	Get(ctx context.Context) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)
}

// API is the combined remote resource interface.
type API interface {
	Sessions() SessionResource
	Schedules() ScheduleResource
	Weights() WeightResource
	Metrics() MetricResource
	Profile() ProfileResource

	// Ping probes server reachability; used by the connectivity monitor.
	Ping(ctx context.Context) error
}
