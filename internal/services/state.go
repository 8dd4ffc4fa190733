package services

import (
	"context"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// StateService implements the StateProvider port consumed by the MCP
// server and the status/TUI surfaces.
type StateService struct {
	lifecycle *Lifecycle
	schedules *ScheduleService
	sync      *SyncService
	conn      ports.Connectivity
}

// NewStateService creates the state service.
func NewStateService(lifecycle *Lifecycle, schedules *ScheduleService, syncSvc *SyncService, conn ports.Connectivity) *StateService {
	return &StateService{
		lifecycle: lifecycle,
		schedules: schedules,
		sync:      syncSvc,
		conn:      conn,
	}
}

// GetCurrentState implements ports.StateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	return &domain.CurrentState{
		ActiveSession:  s.lifecycle.Active(),
		Timer:          s.lifecycle.Timer(),
		RecentSessions: s.lifecycle.Recent(),
		Stats:          s.lifecycle.Stats(),
		Online:         s.conn.Online(),
		PendingActions: s.sync.Pending(ctx),
	}, nil
}

// StartFast implements ports.StateProvider.
func (s *StateService) StartFast(ctx context.Context, fastType domain.FastType, targetHours float64, notes string) (*domain.FastingSession, error) {
	return s.lifecycle.StartSession(ctx, StartSessionRequest{
		Type:        fastType,
		TargetHours: targetHours,
		Notes:       notes,
	})
}

// EndFast implements ports.StateProvider.
func (s *StateService) EndFast(ctx context.Context) (*domain.FastingSession, error) {
	return s.lifecycle.EndSession(ctx)
}

// CancelFast implements ports.StateProvider.
func (s *StateService) CancelFast(ctx context.Context) error {
	return s.lifecycle.CancelSession(ctx)
}

// ListSchedules implements ports.StateProvider.
func (s *StateService) ListSchedules(ctx context.Context) ([]*domain.ScheduledFast, error) {
	return s.schedules.List(ctx)
}

// RecentFasts implements ports.StateProvider.
func (s *StateService) RecentFasts(ctx context.Context, limit int) ([]*domain.FastingSession, error) {
	if err := s.lifecycle.RefreshHistory(ctx); err != nil {
		// Fall back to the local window when the fetch fails.
		_ = err
	}
	recent := s.lifecycle.Recent()
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

// GetStats implements ports.StateProvider.
func (s *StateService) GetStats(ctx context.Context) (*domain.FastingStats, error) {
	if err := s.lifecycle.RefreshHistory(ctx); err != nil {
		return nil, err
	}
	return s.lifecycle.Stats(), nil
}

// Ensure StateService implements StateProvider.
var _ ports.StateProvider = (*StateService)(nil)
