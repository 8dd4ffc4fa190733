package domain

import (
	"errors"
	"time"
)

// Domain errors.
var (
	ErrSessionAlreadyActive = errors.New("fasting session already active")
	ErrNoActiveSession      = errors.New("no active fasting session")
	ErrStartInProgress      = errors.New("session start already in progress")
	ErrEndInProgress        = errors.New("session end already in progress")
	ErrSessionNotFound      = errors.New("fasting session not found")
	ErrInvalidTargetHours   = errors.New("target hours must be positive")
	ErrStartTimeInFuture    = errors.New("start time cannot be in the future")
	ErrScheduleNotFound     = errors.New("scheduled fast not found")
	ErrEndBeforeStart       = errors.New("scheduled end must be after scheduled start")
	ErrScheduleConflict     = errors.New("schedule conflicts with an existing fast")
)

// FastType identifies the fasting protocol for a session.
type FastType string

const (
	FastType16x8   FastType = "16:8"
	FastType18x6   FastType = "18:6"
	FastType24h    FastType = "24h"
	FastType36h    FastType = "36h"
	FastType48h    FastType = "48h"
	FastTypeCustom FastType = "custom"
)

// TargetHoursFor returns the default fasting window for a protocol.
// Custom fasts carry their own duration, so they default to zero.
func TargetHoursFor(t FastType) float64 {
	switch t {
	case FastType16x8:
		return 16
	case FastType18x6:
		return 18
	case FastType24h:
		return 24
	case FastType36h:
		return 36
	case FastType48h:
		return 48
	default:
		return 0
	}
}

// SessionStatus represents the lifecycle state of a fasting session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// FastingSession represents a single fast, active or finished.
// The server is the source of truth; while offline the ID is a
// temporary client id until the queued create is confirmed.
type FastingSession struct {
	ID          string        `json:"id"`
	Type        FastType      `json:"type"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     *time.Time    `json:"end_time,omitempty"`
	TargetHours float64       `json:"target_hours"`
	Status      SessionStatus `json:"status"`
	Notes       string        `json:"notes,omitempty"`
}

// NewFastingSession creates an active session starting at startTime.
func NewFastingSession(fastType FastType, targetHours float64, startTime time.Time, notes string) *FastingSession {
	return &FastingSession{
		ID:          generateID(),
		Type:        fastType,
		StartTime:   startTime,
		TargetHours: targetHours,
		Status:      SessionStatusActive,
		Notes:       notes,
	}
}

// TargetEnd returns the instant the fast is planned to finish.
func (s *FastingSession) TargetEnd() time.Time {
	return s.StartTime.Add(time.Duration(s.TargetHours * float64(time.Hour)))
}

// EffectiveEnd returns the recorded end time, or the planned end for
// sessions that have not finished yet. Used by the conflict checker.
func (s *FastingSession) EffectiveEnd() time.Time {
	if s.EndTime != nil {
		return *s.EndTime
	}
	return s.TargetEnd()
}

// Complete marks the session as finished at the given instant.
func (s *FastingSession) Complete(now time.Time) {
	if s.Status != SessionStatusActive {
		return
	}
	end := now
	s.EndTime = &end
	s.Status = SessionStatusCompleted
}

// Cancel aborts the session at the given instant.
func (s *FastingSession) Cancel(now time.Time) {
	if s.Status != SessionStatusActive {
		return
	}
	end := now
	s.EndTime = &end
	s.Status = SessionStatusCancelled
}

// IsActive returns true while the fast is running.
func (s *FastingSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// ActualHours returns the fasted duration in hours for finished sessions,
// and the elapsed duration so far for active ones.
func (s *FastingSession) ActualHours(now time.Time) float64 {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(s.StartTime).Hours()
}

// GetFastTypeLabel returns a human-readable label for the fast type.
func GetFastTypeLabel(t FastType) string {
	switch t {
	case FastType16x8:
		return "16:8 Intermittent"
	case FastType18x6:
		return "18:6 Intermittent"
	case FastType24h:
		return "24 Hour"
	case FastType36h:
		return "36 Hour"
	case FastType48h:
		return "48 Hour"
	case FastTypeCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// GetStatusLabel returns a human-readable label for the session status.
func GetStatusLabel(s SessionStatus) string {
	switch s {
	case SessionStatusActive:
		return "Active"
	case SessionStatusCompleted:
		return "Completed"
	case SessionStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}
