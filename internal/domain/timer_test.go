package domain

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		want    string
	}{
		{"zero", 0, "00:00:00"},
		{"under a minute", 59, "00:00:59"},
		{"exact hour", 3600, "01:00:00"},
		{"mixed", 3723, "01:02:03"},
		{"multi-day fast does not wrap", 48 * 3600, "48:00:00"},
		{"beyond two days", 50*3600 + 30*60 + 5, "50:30:05"},
		{"negative clamps to zero", -10, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.seconds); got != tt.want {
				t.Errorf("FormatClock(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(16 * 3600); got != "16.0h" {
		t.Errorf("FormatHours() = %v, want 16.0h", got)
	}
	if got := FormatHours(5400); got != "1.5h" {
		t.Errorf("FormatHours() = %v, want 1.5h", got)
	}
}

func TestTimerState_OvernightFast(t *testing.T) {
	// 16:8 fast started at 20:00, observed at 04:00 the next day.
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "")

	timer := NewTimerState(session, start)
	timer.Tick(time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC))

	if timer.ElapsedSeconds != 28800 {
		t.Errorf("ElapsedSeconds = %d, want 28800", timer.ElapsedSeconds)
	}
	if timer.RemainingSeconds != 28800 {
		t.Errorf("RemainingSeconds = %d, want 28800", timer.RemainingSeconds)
	}
	if timer.Progress() != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", timer.Progress())
	}
}

func TestTimerState_Monotonic(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "")
	timer := NewTimerState(session, start)

	prevElapsed := int64(-1)
	prevRemaining := timer.TotalSeconds + 1
	for i := 0; i < 20; i++ {
		timer.Tick(start.Add(time.Duration(i) * time.Hour))
		if timer.ElapsedSeconds < prevElapsed {
			t.Fatalf("elapsed decreased: %d -> %d", prevElapsed, timer.ElapsedSeconds)
		}
		if timer.RemainingSeconds > prevRemaining {
			t.Fatalf("remaining increased: %d -> %d", prevRemaining, timer.RemainingSeconds)
		}
		prevElapsed = timer.ElapsedSeconds
		prevRemaining = timer.RemainingSeconds
	}

	if timer.RemainingSeconds != 0 {
		t.Errorf("RemainingSeconds = %d after overrun, want 0", timer.RemainingSeconds)
	}
}

func TestTimerState_ProgressClamp(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastTypeCustom, 1, start, "")
	timer := NewTimerState(session, start)

	// Three hours into a one-hour fast.
	timer.Tick(start.Add(3 * time.Hour))

	if !timer.Done() {
		t.Error("Done() = false, want true")
	}
	if got := timer.Progress(); got != 1.0 {
		t.Errorf("Progress() = %v, want 1.0", got)
	}
}

func TestTimerState_PausePreservesWallClock(t *testing.T) {
	// Pausing stops the tick loop, not the fast itself: a tick after a
	// real-time gap must reflect the full wall-clock duration.
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "")
	timer := NewTimerState(session, start)

	timer.Tick(start.Add(1 * time.Hour))
	timer.Paused = true

	// Ten minutes pass with no ticks, then the user resumes.
	timer.Paused = false
	timer.Tick(start.Add(1*time.Hour + 10*time.Minute))

	if timer.ElapsedSeconds < 4200 {
		t.Errorf("ElapsedSeconds = %d after pause gap, want >= 4200", timer.ElapsedSeconds)
	}
}

func TestTimerState_Reschedule(t *testing.T) {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "")
	timer := NewTimerState(session, start)

	newStart := start.Add(-2 * time.Hour)
	timer.Reschedule(newStart, start)

	if timer.ElapsedSeconds != 7200 {
		t.Errorf("ElapsedSeconds = %d after reschedule, want 7200", timer.ElapsedSeconds)
	}
	if !timer.TargetEnd.Equal(newStart.Add(16 * time.Hour)) {
		t.Errorf("TargetEnd = %v, want %v", timer.TargetEnd, newStart.Add(16*time.Hour))
	}
}
