package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// Default monitor timings.
const (
	DefaultScanInterval    = time.Minute
	DefaultRefreshInterval = 5 * time.Minute
	DefaultStartWindow     = 5 * time.Minute
)

// Monitor watches scheduled fasts and promotes an occurrence to an
// active session when its window arrives. A device-local marker per
// occurrence guarantees at-most-once promotion across restarts.
type Monitor struct {
	mu sync.Mutex

	lifecycle *Lifecycle
	schedules *ScheduleService
	markers   ports.MarkerStore
	notifier  ports.Notifier
	now       Clock

	scanInterval    time.Duration
	refreshInterval time.Duration
	startWindow     time.Duration
}

// NewMonitor creates the auto-start monitor.
func NewMonitor(lifecycle *Lifecycle, schedules *ScheduleService, markers ports.MarkerStore, notifier ports.Notifier) *Monitor {
	return &Monitor{
		lifecycle:       lifecycle,
		schedules:       schedules,
		markers:         markers,
		notifier:        notifier,
		now:             time.Now,
		scanInterval:    DefaultScanInterval,
		refreshInterval: DefaultRefreshInterval,
		startWindow:     DefaultStartWindow,
	}
}

// SetClock overrides the wall-clock source (tests).
func (m *Monitor) SetClock(now Clock) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// SetIntervals overrides the scan/refresh periods and start window.
func (m *Monitor) SetIntervals(scan, refresh, window time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanInterval = scan
	m.refreshInterval = refresh
	m.startWindow = window
}

// Run scans on a fixed interval until the context is cancelled. One
// scan happens immediately; the upcoming list refreshes on a separate,
// lower-frequency interval.
func (m *Monitor) Run(ctx context.Context) error {
	m.refresh(ctx)
	_ = m.Scan(ctx)

	m.mu.Lock()
	scanEvery, refreshEvery := m.scanInterval, m.refreshInterval
	m.mu.Unlock()

	scan := time.NewTicker(scanEvery)
	defer scan.Stop()
	refresh := time.NewTicker(refreshEvery)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-scan.C:
			_ = m.Scan(ctx)
		case <-refresh.C:
			m.refresh(ctx)
		}
	}
}

// refresh reloads the upcoming-fasts list; failures keep the previous
// shadow list and are retried on the next refresh tick.
func (m *Monitor) refresh(ctx context.Context) {
	_, _ = m.schedules.Upcoming(ctx)
}

// Scan runs a single auto-start pass. At most one fast is promoted per
// pass, and an active session always suppresses the scan entirely.
func (m *Monitor) Scan(ctx context.Context) error {
	if active := m.lifecycle.Active(); active != nil && active.IsActive() {
		return nil
	}

	m.mu.Lock()
	now := m.now()
	window := m.startWindow
	m.mu.Unlock()

	for _, fast := range m.schedules.Cached() {
		if !fast.InStartWindow(now, window) {
			continue
		}
		key := fast.OccurrenceKey()
		if _, found, err := m.markers.Get(ctx, key); err != nil || found {
			continue
		}

		m.notifier.Info("Scheduled fast", fmt.Sprintf("Starting your %s fast now. Use 'fasting cancel' to stop it.", domain.GetFastTypeLabel(fast.Type)))

		_, err := m.lifecycle.StartSession(ctx, StartSessionRequest{
			Type:        fast.Type,
			TargetHours: fast.TargetHours(),
			Notes:       fast.Notes,
		})
		if err != nil {
			// The occurrence stays unmarked so the next tick inside the
			// window retries.
			m.notifier.Error("Scheduled fast", "Failed to start scheduled fast")
			return fmt.Errorf("failed to auto-start scheduled fast: %w", err)
		}

		if err := m.markers.Set(ctx, key, ports.MarkerStarted); err != nil {
			return fmt.Errorf("failed to record occurrence marker: %w", err)
		}
		if err := m.schedules.ConsumeOccurrence(ctx, fast); err != nil {
			return err
		}
		break
	}
	return nil
}

// SkipOccurrence marks a specific occurrence as cancelled on this
// device so it will not auto-start, without deleting the schedule.
func (m *Monitor) SkipOccurrence(ctx context.Context, scheduleID string, start time.Time) error {
	if err := m.markers.Set(ctx, domain.OccurrenceKey(scheduleID, start), ports.MarkerCancelled); err != nil {
		return fmt.Errorf("failed to record occurrence marker: %w", err)
	}
	return nil
}
