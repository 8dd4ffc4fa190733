package domain

import (
	"testing"
	"time"
)

func TestNewFastingSession(t *testing.T) {
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "evening fast")

	if session.ID == "" {
		t.Error("NewFastingSession() ID is empty")
	}
	if session.Status != SessionStatusActive {
		t.Errorf("Status = %v, want %v", session.Status, SessionStatusActive)
	}
	if !session.TargetEnd().Equal(start.Add(16 * time.Hour)) {
		t.Errorf("TargetEnd() = %v, want %v", session.TargetEnd(), start.Add(16*time.Hour))
	}
	if session.Notes != "evening fast" {
		t.Errorf("Notes = %v, want evening fast", session.Notes)
	}
}

func TestTargetHoursFor(t *testing.T) {
	tests := []struct {
		fastType FastType
		want     float64
	}{
		{FastType16x8, 16},
		{FastType18x6, 18},
		{FastType24h, 24},
		{FastType36h, 36},
		{FastType48h, 48},
		{FastTypeCustom, 0},
	}
	for _, tt := range tests {
		if got := TargetHoursFor(tt.fastType); got != tt.want {
			t.Errorf("TargetHoursFor(%v) = %v, want %v", tt.fastType, got, tt.want)
		}
	}
}

func TestFastingSession_Complete(t *testing.T) {
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	end := start.Add(17 * time.Hour)

	session := NewFastingSession(FastType16x8, 16, start, "")
	session.Complete(end)

	if session.Status != SessionStatusCompleted {
		t.Errorf("Status = %v, want completed", session.Status)
	}
	if session.EndTime == nil || !session.EndTime.Equal(end) {
		t.Errorf("EndTime = %v, want %v", session.EndTime, end)
	}

	// Completing again must not move the recorded end.
	session.Complete(end.Add(time.Hour))
	if !session.EndTime.Equal(end) {
		t.Error("Complete() on a finished session changed EndTime")
	}
}

func TestFastingSession_Cancel(t *testing.T) {
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType24h, 24, start, "")
	session.Cancel(start.Add(2 * time.Hour))

	if session.Status != SessionStatusCancelled {
		t.Errorf("Status = %v, want cancelled", session.Status)
	}
	if session.IsActive() {
		t.Error("IsActive() = true after cancel")
	}
}

func TestFastingSession_EffectiveEnd(t *testing.T) {
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "")

	if !session.EffectiveEnd().Equal(session.TargetEnd()) {
		t.Error("EffectiveEnd() should fall back to the planned end")
	}

	session.Complete(start.Add(10 * time.Hour))
	if !session.EffectiveEnd().Equal(start.Add(10 * time.Hour)) {
		t.Error("EffectiveEnd() should use the recorded end once set")
	}
}

func TestFastingSession_ActualHours(t *testing.T) {
	start := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	session := NewFastingSession(FastType16x8, 16, start, "")

	if got := session.ActualHours(start.Add(8 * time.Hour)); got != 8 {
		t.Errorf("ActualHours() = %v for active session, want 8", got)
	}

	session.Complete(start.Add(17 * time.Hour))
	if got := session.ActualHours(start.Add(100 * time.Hour)); got != 17 {
		t.Errorf("ActualHours() = %v for completed session, want 17", got)
	}
}
