package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// Clock returns the current wall-clock time. Injectable for tests.
type Clock func() time.Time

// Lifecycle coordinates fasting-session state between the client and
// the server, and owns the periodic tick loop for the active timer.
//
// All session state is mutated only through this service's methods
// (single writer); the auto-start monitor and the TUI read through the
// public accessors and start sessions through StartSession.
type Lifecycle struct {
	mu sync.Mutex

	api      ports.API
	local    ports.LocalStore
	sync     *SyncService
	conn     ports.Connectivity
	notifier ports.Notifier

	now          Clock
	tickInterval time.Duration

	active    *domain.FastingSession
	timer     *domain.TimerState
	recent    []*domain.FastingSession
	stats     *domain.FastingStats
	lastErr   error
	starting  bool
	finishing bool

	stopTick chan struct{}
	onTick   func(domain.TimerState)
}

// NewLifecycle creates the session lifecycle service.
func NewLifecycle(api ports.API, local ports.LocalStore, syncSvc *SyncService, conn ports.Connectivity, notifier ports.Notifier) *Lifecycle {
	return &Lifecycle{
		api:          api,
		local:        local,
		sync:         syncSvc,
		conn:         conn,
		notifier:     notifier,
		now:          time.Now,
		tickInterval: time.Second,
	}
}

// SetClock overrides the wall-clock source (tests).
func (l *Lifecycle) SetClock(now Clock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// SetTickInterval overrides the tick period (tests).
func (l *Lifecycle) SetTickInterval(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tickInterval = d
}

// SetOnTick registers a view hook invoked with a timer snapshot after
// every tick. The hook runs outside the service lock.
func (l *Lifecycle) SetOnTick(fn func(domain.TimerState)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onTick = fn
}

// StartSessionRequest contains data to start a fast.
type StartSessionRequest struct {
	Type        domain.FastType
	TargetHours float64
	Notes       string
	StartTime   *time.Time
}

// StartSession begins a new fasting session. It rejects when a session
// is already active, and serializes concurrent starts behind an
// in-flight guard so the monitor racing a user start cannot create two
// fasts. While offline the session is applied optimistically under a
// temporary id and the create is queued for replay.
func (l *Lifecycle) StartSession(ctx context.Context, req StartSessionRequest) (*domain.FastingSession, error) {
	l.mu.Lock()
	if l.active != nil && l.active.IsActive() {
		l.mu.Unlock()
		return nil, domain.ErrSessionAlreadyActive
	}
	if l.starting {
		l.mu.Unlock()
		return nil, domain.ErrStartInProgress
	}
	l.starting = true
	defer l.clearStarting()
	now := l.now()
	start := now
	if req.StartTime != nil {
		start = *req.StartTime
	}
	if start.After(now) {
		l.mu.Unlock()
		return nil, domain.ErrStartTimeInFuture
	}
	hours := req.TargetHours
	if hours <= 0 {
		hours = domain.TargetHoursFor(req.Type)
	}
	if hours <= 0 {
		l.mu.Unlock()
		return nil, domain.ErrInvalidTargetHours
	}
	session := domain.NewFastingSession(req.Type, hours, start, req.Notes)
	offline := !l.conn.Online()
	if offline {
		session.ID = domain.TempID(now)
	}
	l.mu.Unlock()

	if offline {
		action, err := domain.NewQueuedAction(domain.ActionCreate, domain.ResourceSession, session.ID, session, now)
		if err != nil {
			return nil, err
		}
		if err := l.sync.Enqueue(ctx, action); err != nil {
			return nil, fmt.Errorf("failed to queue session create: %w", err)
		}
		_ = l.local.Cache().SaveSession(ctx, session)
	} else {
		l.sync.SyncIfPending(ctx)
		created, err := l.api.Sessions().Create(ctx, session)
		if err != nil {
			l.setError(err)
			return nil, fmt.Errorf("failed to start fasting session: %w", err)
		}
		session = created
		_ = l.local.Cache().SaveSession(ctx, session)
	}

	l.mu.Lock()
	l.active = session
	l.timer = domain.NewTimerState(session, l.now())
	l.finishing = false
	l.lastErr = nil
	l.startTickLoopLocked()
	l.mu.Unlock()

	return session, nil
}

// EndSession completes the active fast. The end request is serialized:
// a second call while one is in flight returns ErrEndInProgress rather
// than issuing a duplicate request.
func (l *Lifecycle) EndSession(ctx context.Context) (*domain.FastingSession, error) {
	return l.finish(ctx, false)
}

// CancelSession aborts the active fast without recording it in the
// completed history.
func (l *Lifecycle) CancelSession(ctx context.Context) error {
	_, err := l.finish(ctx, true)
	return err
}

func (l *Lifecycle) finish(ctx context.Context, cancel bool) (*domain.FastingSession, error) {
	l.mu.Lock()
	if l.active == nil || !l.active.IsActive() {
		l.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}
	if l.finishing {
		l.mu.Unlock()
		return nil, domain.ErrEndInProgress
	}
	l.finishing = true
	session := l.active
	now := l.now()
	offline := !l.conn.Online()
	l.mu.Unlock()

	var finished *domain.FastingSession
	if offline {
		if cancel {
			session.Cancel(now)
		} else {
			session.Complete(now)
		}
		action, err := domain.NewQueuedAction(domain.ActionUpdate, domain.ResourceSession, session.ID, session, now)
		if err != nil {
			l.clearFinishing()
			return nil, err
		}
		if err := l.sync.Enqueue(ctx, action); err != nil {
			l.clearFinishing()
			return nil, fmt.Errorf("failed to queue session update: %w", err)
		}
		finished = session
	} else {
		l.sync.SyncIfPending(ctx)
		var err error
		if cancel {
			finished, err = l.api.Sessions().Cancel(ctx, session.ID)
		} else {
			finished, err = l.api.Sessions().End(ctx, session.ID)
		}
		if err != nil {
			// Active session stays so the user can retry; ending an
			// already-ended session server-side is idempotent.
			l.setError(err)
			l.clearFinishing()
			if cancel {
				return nil, fmt.Errorf("failed to cancel fasting session: %w", err)
			}
			return nil, fmt.Errorf("failed to end fasting session: %w", err)
		}
	}

	_ = l.local.Cache().ClearSession(ctx)

	l.mu.Lock()
	l.active = nil
	l.timer = nil
	l.finishing = false
	l.stopTickLoopLocked()
	if !cancel {
		l.recent = append([]*domain.FastingSession{finished}, l.recent...)
		if len(l.recent) > domain.RecentSessionsLimit {
			l.recent = l.recent[:domain.RecentSessionsLimit]
		}
	}
	l.mu.Unlock()

	if !cancel && !offline {
		if stats, err := l.api.Sessions().Stats(ctx); err == nil {
			l.mu.Lock()
			l.stats = stats
			l.mu.Unlock()
		}
	}

	return finished, nil
}

func (l *Lifecycle) clearStarting() {
	l.mu.Lock()
	l.starting = false
	l.mu.Unlock()
}

func (l *Lifecycle) clearFinishing() {
	l.mu.Lock()
	l.finishing = false
	l.mu.Unlock()
}

// PauseTimer pauses the tick loop for the active fast. The fast's
// real-world clock keeps running; only the periodic refresh stops.
func (l *Lifecycle) PauseTimer() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil || l.timer == nil {
		return domain.ErrNoActiveSession
	}
	if l.timer.Paused {
		return nil
	}
	l.timer.Tick(l.now())
	l.timer.Paused = true
	l.stopTickLoopLocked()
	return nil
}

// ResumeTimer restarts the tick loop, recomputing from wall clock so
// the time spent paused is fully reflected.
func (l *Lifecycle) ResumeTimer() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active == nil || l.timer == nil {
		return domain.ErrNoActiveSession
	}
	if !l.timer.Paused {
		return nil
	}
	l.timer.Paused = false
	l.timer.Tick(l.now())
	l.startTickLoopLocked()
	return nil
}

// UpdateStartTime applies a corrective start-time edit to the active
// fast without changing its identity.
func (l *Lifecycle) UpdateStartTime(ctx context.Context, newStart time.Time) (*domain.FastingSession, error) {
	l.mu.Lock()
	if l.active == nil || !l.active.IsActive() {
		l.mu.Unlock()
		return nil, domain.ErrNoActiveSession
	}
	now := l.now()
	if newStart.After(now) {
		l.mu.Unlock()
		return nil, domain.ErrStartTimeInFuture
	}
	session := l.active
	offline := !l.conn.Online()
	l.mu.Unlock()

	if offline {
		session.StartTime = newStart
		action, err := domain.NewQueuedAction(domain.ActionUpdate, domain.ResourceSession, session.ID, session, now)
		if err != nil {
			return nil, err
		}
		if err := l.sync.Enqueue(ctx, action); err != nil {
			return nil, fmt.Errorf("failed to queue session update: %w", err)
		}
		_ = l.local.Cache().SaveSession(ctx, session)
	} else {
		patch := *session
		patch.StartTime = newStart
		updated, err := l.api.Sessions().Update(ctx, session.ID, &patch)
		if err != nil {
			l.setError(err)
			return nil, fmt.Errorf("failed to update start time: %w", err)
		}
		session = updated
		_ = l.local.Cache().SaveSession(ctx, session)
	}

	l.mu.Lock()
	l.active = session
	if l.timer != nil {
		l.timer.Reschedule(session.StartTime, l.now())
	}
	l.mu.Unlock()

	return session, nil
}

// FetchActiveSession reconciles local state with the server on load or
// reconnect. The server copy wins wholesale; elapsed time is recomputed
// from wall clock rather than assuming the app ran continuously.
func (l *Lifecycle) FetchActiveSession(ctx context.Context) (*domain.FastingSession, error) {
	if !l.conn.Online() {
		cached, err := l.local.Cache().LoadSession(ctx)
		if err != nil || cached == nil || !cached.IsActive() {
			return nil, err
		}
		l.adopt(cached)
		return cached, nil
	}

	active, err := l.api.Sessions().Active(ctx)
	if err != nil {
		l.setError(err)
		return nil, fmt.Errorf("failed to fetch active session: %w", err)
	}
	if active == nil {
		_ = l.local.Cache().ClearSession(ctx)
		l.mu.Lock()
		l.active = nil
		l.timer = nil
		l.stopTickLoopLocked()
		l.mu.Unlock()
		return nil, nil
	}

	_ = l.local.Cache().SaveSession(ctx, active)
	l.adopt(active)
	return active, nil
}

// adopt installs a server-confirmed session and restarts the tick loop.
func (l *Lifecycle) adopt(session *domain.FastingSession) {
	l.mu.Lock()
	l.active = session
	l.timer = domain.NewTimerState(session, l.now())
	l.finishing = false
	l.startTickLoopLocked()
	l.mu.Unlock()
}

// RefreshHistory loads the recent-session window and stats from the
// server, replacing the local copies.
func (l *Lifecycle) RefreshHistory(ctx context.Context) error {
	if !l.conn.Online() {
		return nil
	}
	recent, err := l.api.Sessions().Recent(ctx, domain.RecentSessionsLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch recent sessions: %w", err)
	}
	stats, err := l.api.Sessions().Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}
	l.mu.Lock()
	l.recent = recent
	l.stats = stats
	l.mu.Unlock()
	return nil
}

// Active returns the active session, or nil.
func (l *Lifecycle) Active() *domain.FastingSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Timer returns a snapshot of the current timer state, or nil.
func (l *Lifecycle) Timer() *domain.TimerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer == nil {
		return nil
	}
	snapshot := *l.timer
	return &snapshot
}

// Recent returns the bounded most-recent completed sessions.
func (l *Lifecycle) Recent() []*domain.FastingSession {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*domain.FastingSession(nil), l.recent...)
}

// Stats returns the last fetched aggregate statistics, or nil.
func (l *Lifecycle) Stats() *domain.FastingStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// LastError returns the most recent operation error, if any. Prior
// state is always left intact when an operation fails.
func (l *Lifecycle) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

func (l *Lifecycle) setError(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
}

// Close tears down the tick loop. In-flight requests are not aborted.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTickLoopLocked()
}

// startTickLoopLocked schedules the periodic tick. Any existing loop is
// torn down first so rapid pause/resume can never leave two loops
// running. Caller must hold l.mu.
func (l *Lifecycle) startTickLoopLocked() {
	l.stopTickLoopLocked()
	stop := make(chan struct{})
	l.stopTick = stop
	interval := l.tickInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				l.Tick(context.Background())
			}
		}
	}()
}

// stopTickLoopLocked stops the tick loop if one is running. Caller must
// hold l.mu.
func (l *Lifecycle) stopTickLoopLocked() {
	if l.stopTick != nil {
		close(l.stopTick)
		l.stopTick = nil
	}
}

// Tick advances the timer one step. When the target duration is reached
// the session is auto-ended exactly once; the finishing guard makes
// later ticks no-ops while the end request is in flight.
func (l *Lifecycle) Tick(ctx context.Context) {
	l.mu.Lock()
	if l.timer == nil || l.active == nil || !l.active.IsActive() {
		l.mu.Unlock()
		return
	}
	l.timer.Tick(l.now())
	snapshot := *l.timer
	autoEnd := l.timer.Done() && !l.finishing
	onTick := l.onTick
	target := l.active.TargetHours
	l.mu.Unlock()

	if onTick != nil {
		onTick(snapshot)
	}
	if !autoEnd {
		return
	}
	if _, err := l.finish(ctx, false); err != nil {
		if err != domain.ErrEndInProgress && err != domain.ErrNoActiveSession {
			l.notifier.Error("Fast", "Failed to complete fasting session")
		}
		return
	}
	l.notifier.Success("Fast complete", fmt.Sprintf("You finished your %s fast. Well done!", domain.FormatHours(int64(target*3600))))
}
