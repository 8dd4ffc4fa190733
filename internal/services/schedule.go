package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// ScheduleService manages scheduled fasts: CRUD against the server with
// the offline queue fallback, conflict checking, and the local shadow
// list read by the auto-start monitor.
type ScheduleService struct {
	mu     sync.Mutex
	cached []*domain.ScheduledFast

	api       ports.API
	local     ports.LocalStore
	sync      *SyncService
	conn      ports.Connectivity
	lifecycle *Lifecycle
	now       Clock
}

// NewScheduleService creates the schedule service.
func NewScheduleService(api ports.API, local ports.LocalStore, syncSvc *SyncService, conn ports.Connectivity, lifecycle *Lifecycle) *ScheduleService {
	return &ScheduleService{
		api:       api,
		local:     local,
		sync:      syncSvc,
		conn:      conn,
		lifecycle: lifecycle,
		now:       time.Now,
	}
}

// SetClock overrides the wall-clock source (tests).
func (s *ScheduleService) SetClock(now Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// CheckConflict decides whether a candidate interval overlaps the
// active session or another schedule. excludeID skips the schedule
// being edited. Conflicts are a normal return value, not an error path.
func (s *ScheduleService) CheckConflict(ctx context.Context, start, end time.Time, excludeID string) domain.ConflictResult {
	schedules, err := s.List(ctx)
	if err != nil {
		schedules = s.Cached()
	}
	return domain.CheckConflict(start, end, s.lifecycle.Active(), schedules, excludeID)
}

// CreateScheduleRequest contains data to schedule a fast.
type CreateScheduleRequest struct {
	Type            domain.FastType
	ScheduledStart  time.Time
	ScheduledEnd    time.Time
	IsRecurring     bool
	Recurrence      *domain.RecurrencePattern
	ReminderMinutes int
	Notes           string
}

// Create schedules a fast, rejecting candidates that overlap the active
// session or an existing schedule.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*domain.ScheduledFast, error) {
	fast, err := domain.NewScheduledFast(req.Type, req.ScheduledStart, req.ScheduledEnd, req.Notes)
	if err != nil {
		return nil, err
	}
	fast.IsRecurring = req.IsRecurring
	fast.Recurrence = req.Recurrence
	fast.ReminderMinutes = req.ReminderMinutes

	if result := s.CheckConflict(ctx, fast.ScheduledStart, fast.ScheduledEnd, ""); result.HasConflict {
		return nil, domain.ErrScheduleConflict
	}

	if !s.conn.Online() {
		fast.ID = domain.TempID(s.clock()())
		if err := s.enqueue(ctx, domain.ActionCreate, fast.ID, fast); err != nil {
			return nil, err
		}
		s.addCached(fast)
		s.persistCached(ctx)
		return fast, nil
	}

	created, err := s.api.Schedules().Create(ctx, fast)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduled fast: %w", err)
	}
	s.addCached(created)
	s.persistCached(ctx)
	return created, nil
}

// Update edits a schedule in place, re-running the conflict check with
// the schedule itself excluded.
func (s *ScheduleService) Update(ctx context.Context, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	if !fast.ScheduledEnd.After(fast.ScheduledStart) {
		return nil, domain.ErrEndBeforeStart
	}
	if result := s.CheckConflict(ctx, fast.ScheduledStart, fast.ScheduledEnd, fast.ID); result.HasConflict {
		return nil, domain.ErrScheduleConflict
	}

	if !s.conn.Online() {
		if err := s.enqueue(ctx, domain.ActionUpdate, fast.ID, fast); err != nil {
			return nil, err
		}
		s.replaceCached(fast)
		s.persistCached(ctx)
		return fast, nil
	}

	updated, err := s.api.Schedules().Update(ctx, fast.ID, fast)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduled fast: %w", err)
	}
	s.replaceCached(updated)
	s.persistCached(ctx)
	return updated, nil
}

// Delete removes a schedule.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if !s.conn.Online() {
		if err := s.enqueue(ctx, domain.ActionDelete, id, nil); err != nil {
			return err
		}
		s.removeCached(id)
		s.persistCached(ctx)
		return nil
	}
	if err := s.api.Schedules().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete scheduled fast: %w", err)
	}
	s.removeCached(id)
	s.persistCached(ctx)
	return nil
}

// List returns all schedules, refreshing the local shadow from the
// server when online (last fetch wins, no merging).
func (s *ScheduleService) List(ctx context.Context) ([]*domain.ScheduledFast, error) {
	if !s.conn.Online() {
		fasts, err := s.local.Cache().LoadSchedules(ctx)
		if err != nil {
			return s.Cached(), nil
		}
		s.setCached(fasts)
		return fasts, nil
	}
	fasts, err := s.api.Schedules().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled fasts: %w", err)
	}
	s.setCached(fasts)
	_ = s.local.Cache().SaveSchedules(ctx, fasts)
	return fasts, nil
}

// Upcoming returns schedules with a future occurrence, soonest first.
func (s *ScheduleService) Upcoming(ctx context.Context) ([]*domain.ScheduledFast, error) {
	if !s.conn.Online() {
		return s.Cached(), nil
	}
	fasts, err := s.api.Schedules().Upcoming(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming fasts: %w", err)
	}
	s.setCached(fasts)
	_ = s.local.Cache().SaveSchedules(ctx, fasts)
	return fasts, nil
}

// ConsumeOccurrence is called after an occurrence was promoted to an
// active session: non-recurring schedules are deleted, recurring ones
// roll forward to their next occurrence.
func (s *ScheduleService) ConsumeOccurrence(ctx context.Context, fast *domain.ScheduledFast) error {
	if !fast.IsRecurring {
		return s.Delete(ctx, fast.ID)
	}
	next := fast.NextOccurrence(fast.ScheduledStart)
	if next == nil {
		return s.Delete(ctx, fast.ID)
	}
	duration := fast.Duration()
	rolled := *fast
	rolled.ScheduledStart = *next
	rolled.ScheduledEnd = next.Add(duration)

	if !s.conn.Online() {
		if err := s.enqueue(ctx, domain.ActionUpdate, rolled.ID, &rolled); err != nil {
			return err
		}
		s.replaceCached(&rolled)
		s.persistCached(ctx)
		return nil
	}
	updated, err := s.api.Schedules().Update(ctx, rolled.ID, &rolled)
	if err != nil {
		return fmt.Errorf("failed to roll recurring fast forward: %w", err)
	}
	s.replaceCached(updated)
	s.persistCached(ctx)
	return nil
}

// Cached returns the local shadow list without touching the network.
func (s *ScheduleService) Cached() []*domain.ScheduledFast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.ScheduledFast(nil), s.cached...)
}

func (s *ScheduleService) clock() Clock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ScheduleService) enqueue(ctx context.Context, actionType domain.ActionType, targetID string, payload any) error {
	action, err := domain.NewQueuedAction(actionType, domain.ResourceScheduled, targetID, payload, s.clock()())
	if err != nil {
		return err
	}
	if err := s.sync.Enqueue(ctx, action); err != nil {
		return err
	}
	return nil
}

// persistCached writes the shadow list through to the local cache so
// offline edits survive a restart.
func (s *ScheduleService) persistCached(ctx context.Context) {
	_ = s.local.Cache().SaveSchedules(ctx, s.Cached())
}

func (s *ScheduleService) setCached(fasts []*domain.ScheduledFast) {
	s.mu.Lock()
	s.cached = append([]*domain.ScheduledFast(nil), fasts...)
	s.mu.Unlock()
}

func (s *ScheduleService) addCached(fast *domain.ScheduledFast) {
	s.mu.Lock()
	s.cached = append(s.cached, fast)
	s.mu.Unlock()
}

func (s *ScheduleService) replaceCached(fast *domain.ScheduledFast) {
	s.mu.Lock()
	for i, sf := range s.cached {
		if sf.ID == fast.ID {
			s.cached[i] = fast
			break
		}
	}
	s.mu.Unlock()
}

func (s *ScheduleService) removeCached(id string) {
	s.mu.Lock()
	kept := s.cached[:0]
	for _, sf := range s.cached {
		if sf.ID != id {
			kept = append(kept, sf)
		}
	}
	s.cached = kept
	s.mu.Unlock()
}
