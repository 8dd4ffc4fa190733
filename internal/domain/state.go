package domain

// RecentSessionsLimit bounds the client-side most-recent history window.
const RecentSessionsLimit = 10

// FastingStats aggregates fasting history, served by GET /stats.
type FastingStats struct {
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	TotalHours        float64 `json:"total_hours"`
	LongestHours      float64 `json:"longest_hours"`
	AverageHours      float64 `json:"average_hours"`
	CurrentStreakDays int     `json:"current_streak_days"`
}

// CurrentState is the client-side snapshot consumed by the status
// command, the TUI and the MCP tools.
type CurrentState struct {
	ActiveSession  *FastingSession
	Timer          *TimerState
	RecentSessions []*FastingSession
	Stats          *FastingStats
	Online         bool
	PendingActions int
}

// IsSessionActive returns true if a fast is currently running.
func (cs *CurrentState) IsSessionActive() bool {
	return cs.ActiveSession != nil && cs.ActiveSession.IsActive()
}
