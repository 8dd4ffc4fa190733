// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.StateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.StateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"fasting-tracker",
		"1.0.0",
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	s.server.AddTool(
		mcp.NewTool(
			"get_current_fast",
			mcp.WithDescription("Get the current fasting state including the active fast, timer, sync status and stats"),
		),
		s.handleGetCurrentFast,
	)

	startTool := mcp.NewTool(
		"start_fast",
		mcp.WithDescription("Start a new fasting session"),
		mcp.WithString(
			"type",
			mcp.Description("Fasting protocol: 16:8, 18:6, 24h, 36h, 48h, custom (default: 16:8)"),
			mcp.Enum("16:8", "18:6", "24h", "36h", "48h", "custom"),
		),
		mcp.WithNumber(
			"target_hours",
			mcp.Description("Custom fasting window in hours (required for custom fasts)"),
		),
		mcp.WithString(
			"notes",
			mcp.Description("Optional notes for the session"),
		),
	)
	s.server.AddTool(startTool, s.handleStartFast)

	s.server.AddTool(
		mcp.NewTool(
			"end_fast",
			mcp.WithDescription("Complete the active fasting session"),
		),
		s.handleEndFast,
	)

	s.server.AddTool(
		mcp.NewTool(
			"cancel_fast",
			mcp.WithDescription("Cancel the active fasting session without recording it as completed"),
		),
		s.handleCancelFast,
	)

	s.server.AddTool(
		mcp.NewTool(
			"list_schedules",
			mcp.WithDescription("List all scheduled fasts"),
		),
		s.handleListSchedules,
	)

	recentTool := mcp.NewTool(
		"recent_fasts",
		mcp.WithDescription("Get the most recent finished fasting sessions"),
		mcp.WithNumber(
			"limit",
			mcp.Description("Maximum number of sessions to return (default: 10)"),
		),
	)
	s.server.AddTool(recentTool, s.handleRecentFasts)

	s.server.AddTool(
		mcp.NewTool(
			"get_stats",
			mcp.WithDescription("Get aggregate fasting statistics: totals, averages and the current streak"),
		),
		s.handleGetStats,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// handleGetCurrentFast handles the get_current_fast tool.
func (s *Server) handleGetCurrentFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.stateProvider.GetCurrentState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current state: %w", err)
	}

	result := map[string]interface{}{
		"active_fast":     nil,
		"timer":           nil,
		"online":          state.Online,
		"pending_actions": state.PendingActions,
	}

	if state.ActiveSession != nil {
		result["active_fast"] = sessionResult(state.ActiveSession)
	}

	if state.Timer != nil {
		timer := state.Timer
		result["timer"] = map[string]interface{}{
			"elapsed":   domain.FormatClock(timer.ElapsedSeconds),
			"remaining": domain.FormatClock(timer.RemainingSeconds),
			"progress":  timer.Progress(),
			"running":   timer.Running,
			"paused":    timer.Paused,
		}
	}

	if state.Stats != nil {
		result["stats"] = statsResult(state.Stats)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal state: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleStartFast handles the start_fast tool.
func (s *Server) handleStartFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fastType := domain.FastType(request.GetString("type", string(domain.FastType16x8)))
	targetHours := request.GetFloat("target_hours", 0)
	if targetHours == 0 {
		targetHours = domain.TargetHoursFor(fastType)
	}
	notes := request.GetString("notes", "")

	session, err := s.stateProvider.StartFast(ctx, fastType, targetHours, notes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start fast: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(sessionResult(session), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleEndFast handles the end_fast tool.
func (s *Server) handleEndFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	session, err := s.stateProvider.EndFast(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to end fast: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(sessionResult(session), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleCancelFast handles the cancel_fast tool.
func (s *Server) handleCancelFast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.stateProvider.CancelFast(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to cancel fast: %v", err)), nil
	}

	result := map[string]interface{}{
		"cancelled": true,
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListSchedules handles the list_schedules tool.
func (s *Server) handleListSchedules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	schedules, err := s.stateProvider.ListSchedules(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list schedules: %v", err)), nil
	}

	var scheduleList []map[string]interface{}
	for _, fast := range schedules {
		entry := map[string]interface{}{
			"id":              fast.ID,
			"type":            string(fast.Type),
			"scheduled_start": fast.ScheduledStart.Format("2006-01-02T15:04:05"),
			"scheduled_end":   fast.ScheduledEnd.Format("2006-01-02T15:04:05"),
			"is_recurring":    fast.IsRecurring,
		}
		if fast.Recurrence != nil {
			entry["recurrence"] = map[string]interface{}{
				"frequency":    string(fast.Recurrence.Frequency),
				"days_of_week": fast.Recurrence.DaysOfWeek,
			}
		}
		if fast.Notes != "" {
			entry["notes"] = fast.Notes
		}
		scheduleList = append(scheduleList, entry)
	}

	result := map[string]interface{}{
		"schedules":   scheduleList,
		"total_count": len(scheduleList),
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schedules: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleRecentFasts handles the recent_fasts tool.
func (s *Server) handleRecentFasts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 0))
	if limit <= 0 {
		limit = domain.RecentSessionsLimit
	}

	sessions, err := s.stateProvider.RecentFasts(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get recent fasts: %v", err)), nil
	}

	var sessionList []map[string]interface{}
	for _, session := range sessions {
		sessionList = append(sessionList, sessionResult(session))
	}

	result := map[string]interface{}{
		"sessions":    sessionList,
		"total_count": len(sessionList),
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sessions: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleGetStats handles the get_stats tool.
func (s *Server) handleGetStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stateProvider.GetStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get stats: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(statsResult(stats), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %w", err)
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func sessionResult(session *domain.FastingSession) map[string]interface{} {
	result := map[string]interface{}{
		"id":           session.ID,
		"type":         string(session.Type),
		"status":       string(session.Status),
		"start_time":   session.StartTime.Format("2006-01-02T15:04:05"),
		"target_hours": session.TargetHours,
		"target_end":   session.TargetEnd().Format("2006-01-02T15:04:05"),
	}
	if session.EndTime != nil {
		result["end_time"] = session.EndTime.Format("2006-01-02T15:04:05")
	}
	if session.Notes != "" {
		result["notes"] = session.Notes
	}
	return result
}

func statsResult(stats *domain.FastingStats) map[string]interface{} {
	return map[string]interface{}{
		"total_sessions":      stats.TotalSessions,
		"completed_sessions":  stats.CompletedSessions,
		"total_hours":         stats.TotalHours,
		"longest_hours":       stats.LongestHours,
		"average_hours":       stats.AverageHours,
		"current_streak_days": stats.CurrentStreakDays,
	}
}
