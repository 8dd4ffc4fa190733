package domain

import "time"

// ConflictType discriminates what a candidate interval collided with.
type ConflictType string

const (
	ConflictWithActive    ConflictType = "active"
	ConflictWithScheduled ConflictType = "scheduled"
)

// ConflictResult is the outcome of a schedule conflict check.
type ConflictResult struct {
	HasConflict   bool
	Type          ConflictType
	ActiveSession *FastingSession
	Schedule      *ScheduledFast
}

// CheckConflict decides whether the candidate [start,end] interval
// overlaps the active session or any scheduled fast. excludeID skips a
// schedule being edited. The overlap test is inclusive: touching
// boundaries count as a conflict, so back-to-back fasts cannot silently
// overlap through rounding.
func CheckConflict(start, end time.Time, active *FastingSession, schedules []*ScheduledFast, excludeID string) ConflictResult {
	if active != nil && active.IsActive() {
		if intervalsOverlap(start, end, active.StartTime, active.EffectiveEnd()) {
			return ConflictResult{
				HasConflict:   true,
				Type:          ConflictWithActive,
				ActiveSession: active,
			}
		}
	}

	for _, sf := range schedules {
		if sf.ID == excludeID {
			continue
		}
		if intervalsOverlap(start, end, sf.ScheduledStart, sf.ScheduledEnd) {
			return ConflictResult{
				HasConflict: true,
				Type:        ConflictWithScheduled,
				Schedule:    sf,
			}
		}
	}

	return ConflictResult{}
}

// intervalsOverlap is the symmetric inclusive-interval containment test:
// the intervals conflict when either start falls inside the other span.
func intervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
