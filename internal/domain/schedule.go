package domain

import (
	"fmt"
	"time"
)

// Frequency is the repetition unit of a recurring fast.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// RecurrencePattern describes how a scheduled fast repeats.
type RecurrencePattern struct {
	Frequency  Frequency      `json:"frequency"`
	Interval   int            `json:"interval"`
	DaysOfWeek []time.Weekday `json:"days_of_week,omitempty"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
}

// ScheduledFast is a planned future fast, optionally recurring.
type ScheduledFast struct {
	ID              string             `json:"id"`
	Type            FastType           `json:"type"`
	ScheduledStart  time.Time          `json:"scheduled_start"`
	ScheduledEnd    time.Time          `json:"scheduled_end"`
	IsRecurring     bool               `json:"is_recurring"`
	Recurrence      *RecurrencePattern `json:"recurrence,omitempty"`
	ReminderMinutes int                `json:"reminder_minutes,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// NewScheduledFast creates a scheduled fast, validating the interval.
func NewScheduledFast(fastType FastType, start, end time.Time, notes string) (*ScheduledFast, error) {
	if !end.After(start) {
		return nil, ErrEndBeforeStart
	}
	return &ScheduledFast{
		ID:             generateID(),
		Type:           fastType,
		ScheduledStart: start,
		ScheduledEnd:   end,
		Notes:          notes,
	}, nil
}

// Duration returns the planned length of the fast.
func (f *ScheduledFast) Duration() time.Duration {
	return f.ScheduledEnd.Sub(f.ScheduledStart)
}

// TargetHours returns the planned length in hours, as passed to the
// session lifecycle when an occurrence is promoted to an active fast.
func (f *ScheduledFast) TargetHours() float64 {
	return f.Duration().Hours()
}

// OccurrenceKey identifies one specific occurrence of this schedule.
// Recurring fasts produce a new key per occurrence because the key
// embeds the exact start timestamp.
func (f *ScheduledFast) OccurrenceKey() string {
	return OccurrenceKey(f.ID, f.ScheduledStart)
}

// OccurrenceKey builds the device-local marker key for an occurrence.
func OccurrenceKey(scheduleID string, start time.Time) string {
	return fmt.Sprintf("%s-%d", scheduleID, start.Unix())
}

// InStartWindow reports whether now falls within the auto-start window
// around the scheduled start (the window extends tolerance to each side).
func (f *ScheduledFast) InStartWindow(now time.Time, tolerance time.Duration) bool {
	diff := now.Sub(f.ScheduledStart)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// NextOccurrence returns the first occurrence strictly after the given
// instant, or nil when the schedule has no further occurrences.
func (f *ScheduledFast) NextOccurrence(after time.Time) *time.Time {
	if !f.IsRecurring || f.Recurrence == nil {
		if f.ScheduledStart.After(after) {
			start := f.ScheduledStart
			return &start
		}
		return nil
	}

	interval := f.Recurrence.Interval
	if interval < 1 {
		interval = 1
	}

	candidate := f.ScheduledStart
	// Bounded walk; 1000 steps covers years of occurrences for any
	// sane interval without risking an unbounded loop on bad data.
	for i := 0; i < 1000; i++ {
		if candidate.After(after) && f.matchesDays(candidate) && f.weekAligned(candidate, interval) {
			if f.Recurrence.EndDate != nil && candidate.After(*f.Recurrence.EndDate) {
				return nil
			}
			next := candidate
			return &next
		}
		candidate = f.step(candidate, interval)
	}
	return nil
}

// step advances a candidate start by one recurrence period.
func (f *ScheduledFast) step(t time.Time, interval int) time.Time {
	switch f.Recurrence.Frequency {
	case FrequencyWeekly:
		if len(f.Recurrence.DaysOfWeek) > 0 {
			// Walk day by day; matchesDays filters to the chosen weekdays.
			return t.AddDate(0, 0, 1)
		}
		return t.AddDate(0, 0, 7*interval)
	case FrequencyMonthly:
		return t.AddDate(0, interval, 0)
	default:
		return t.AddDate(0, 0, interval)
	}
}

// weekAligned filters day-stepped weekly patterns to weeks the interval
// selects, counting whole weeks from the first occurrence's week.
func (f *ScheduledFast) weekAligned(t time.Time, interval int) bool {
	if interval <= 1 || f.Recurrence.Frequency != FrequencyWeekly || len(f.Recurrence.DaysOfWeek) == 0 {
		return true
	}
	anchor := startOfWeek(f.ScheduledStart)
	weeks := int(startOfWeek(t).Sub(anchor) / (7 * 24 * time.Hour))
	return weeks%interval == 0
}

// startOfWeek normalizes to the Sunday midnight of t's week, in UTC so
// week distances are exact multiples of 24h regardless of DST.
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(t.Weekday()))
}

// matchesDays filters weekly patterns to their selected weekdays.
func (f *ScheduledFast) matchesDays(t time.Time) bool {
	if f.Recurrence == nil || f.Recurrence.Frequency != FrequencyWeekly || len(f.Recurrence.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range f.Recurrence.DaysOfWeek {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}
