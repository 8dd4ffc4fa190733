package domain

import (
	"fmt"
	"time"
)

// TimerState is the derived, client-side view of an active fast.
// It is never persisted to the server; it is recomputed from wall-clock
// time on every tick, so restarts and long suspensions cannot drift it.
type TimerState struct {
	StartTime        time.Time
	TargetEnd        time.Time
	TotalSeconds     int64
	ElapsedSeconds   int64
	RemainingSeconds int64
	Running          bool
	Paused           bool
}

// NewTimerState builds the timer view for a session at the given instant.
func NewTimerState(session *FastingSession, now time.Time) *TimerState {
	t := &TimerState{
		StartTime:    session.StartTime,
		TargetEnd:    session.TargetEnd(),
		TotalSeconds: int64(session.TargetEnd().Sub(session.StartTime) / time.Second),
		Running:      true,
	}
	t.Tick(now)
	return t
}

// Tick recomputes elapsed and remaining seconds from wall-clock time.
// Pausing only stops the tick loop; the fast's real timeline keeps
// running, so a tick after resume reflects the full wall-clock gap.
func (t *TimerState) Tick(now time.Time) {
	elapsed := int64(now.Sub(t.StartTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := int64(t.TargetEnd.Sub(now) / time.Second)
	if remaining < 0 {
		remaining = 0
	}
	t.ElapsedSeconds = elapsed
	t.RemainingSeconds = remaining
}

// Reschedule moves the fast's start without changing its identity,
// keeping the planned duration and recomputing both counters.
func (t *TimerState) Reschedule(newStart time.Time, now time.Time) {
	duration := t.TargetEnd.Sub(t.StartTime)
	t.StartTime = newStart
	t.TargetEnd = newStart.Add(duration)
	t.Tick(now)
}

// Done reports whether the fast has reached its target duration.
func (t *TimerState) Done() bool {
	return t.RemainingSeconds == 0
}

// Progress returns elapsed over planned duration, clamped to 1 so an
// overrun fast never reports more than 100%.
func (t *TimerState) Progress() float64 {
	if t.TotalSeconds <= 0 {
		return 0
	}
	progress := float64(t.ElapsedSeconds) / float64(t.TotalSeconds)
	if progress > 1 {
		return 1
	}
	return progress
}

// FormatClock renders whole seconds as HH:MM:SS. Hours do not wrap to
// days; a 48-hour fast reads "48:00:00".
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHours renders whole seconds as fractional hours, e.g. "16.5h".
func FormatHours(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}
