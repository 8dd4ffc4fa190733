// Package server is the reference implementation of the REST API the
// CLI syncs against. It shares the domain package with the client but
// keeps its own authoritative SQLite store.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	_ "modernc.org/sqlite"
)

// Repository is the server-side store.
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRepository opens the server store and migrates the schema.
func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	repo := &Repository{db: db, now: time.Now}
	if err := repo.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return repo, nil
}

// NewMemoryRepository opens an in-memory store for testing.
func NewMemoryRepository() (*Repository, error) {
	return NewRepository(":memory:")
}

// SetClock overrides the wall-clock source (tests).
func (r *Repository) SetClock(now func() time.Time) {
	r.now = now
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Migrate creates the server schema.
func (r *Repository) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS fasting_sessions (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		target_hours REAL NOT NULL,
		status TEXT NOT NULL,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_status ON fasting_sessions(status);
	CREATE INDEX IF NOT EXISTS idx_sessions_start ON fasting_sessions(start_time);

	CREATE TABLE IF NOT EXISTS scheduled_fasts (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		scheduled_start DATETIME NOT NULL,
		scheduled_end DATETIME NOT NULL,
		is_recurring INTEGER NOT NULL DEFAULT 0,
		recurrence TEXT,
		reminder_minutes INTEGER NOT NULL DEFAULT 0,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS weight_entries (
		id TEXT PRIMARY KEY,
		weight_kg REAL NOT NULL,
		recorded_at DATETIME NOT NULL,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS health_metrics (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT,
		recorded_at DATETIME NOT NULL,
		notes TEXT
	);

	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT,
		height_cm REAL,
		target_weight_kg REAL,
		timezone TEXT
	);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// CreateSession stores a new session, enforcing the single-active rule.
// Sessions created with a temp id (an offline replay) get a fresh
// server id.
func (r *Repository) CreateSession(ctx context.Context, session *domain.FastingSession) (*domain.FastingSession, error) {
	if session.IsActive() {
		active, err := r.ActiveSession(ctx)
		if err != nil {
			return nil, err
		}
		if active != nil {
			return nil, domain.ErrSessionAlreadyActive
		}
	}

	stored := *session
	if stored.ID == "" || domain.IsTempID(stored.ID) {
		stored.ID = domain.NewID()
	}

	query := `
		INSERT INTO fasting_sessions (id, type, start_time, end_time, target_hours, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		stored.ID,
		string(stored.Type),
		stored.StartTime,
		stored.EndTime,
		stored.TargetHours,
		string(stored.Status),
		stored.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return &stored, nil
}

// FindSession returns a session by id.
func (r *Repository) FindSession(ctx context.Context, id string) (*domain.FastingSession, error) {
	query := `
		SELECT id, type, start_time, end_time, target_hours, status, notes
		FROM fasting_sessions
		WHERE id = ?
	`
	session, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// ActiveSession returns the active session, or nil.
func (r *Repository) ActiveSession(ctx context.Context) (*domain.FastingSession, error) {
	query := `
		SELECT id, type, start_time, end_time, target_hours, status, notes
		FROM fasting_sessions
		WHERE status = ?
		ORDER BY start_time DESC
		LIMIT 1
	`
	return scanSession(r.db.QueryRowContext(ctx, query, string(domain.SessionStatusActive)))
}

// EndSession completes a session. Ending an already-finished session
// returns the stored record unchanged, so client retries are safe.
func (r *Repository) EndSession(ctx context.Context, id string) (*domain.FastingSession, error) {
	return r.finishSession(ctx, id, domain.SessionStatusCompleted)
}

// CancelSession aborts a session, idempotently like EndSession.
func (r *Repository) CancelSession(ctx context.Context, id string) (*domain.FastingSession, error) {
	return r.finishSession(ctx, id, domain.SessionStatusCancelled)
}

func (r *Repository) finishSession(ctx context.Context, id string, status domain.SessionStatus) (*domain.FastingSession, error) {
	session, err := r.FindSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return session, nil
	}

	now := r.now()
	session.EndTime = &now
	session.Status = status

	query := `UPDATE fasting_sessions SET end_time = ?, status = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, session.EndTime, string(session.Status), id); err != nil {
		return nil, fmt.Errorf("failed to finish session: %w", err)
	}
	return session, nil
}

// UpdateSession applies a full-record edit.
func (r *Repository) UpdateSession(ctx context.Context, id string, session *domain.FastingSession) (*domain.FastingSession, error) {
	stored := *session
	stored.ID = id

	query := `
		UPDATE fasting_sessions
		SET type = ?, start_time = ?, end_time = ?, target_hours = ?, status = ?, notes = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		string(stored.Type),
		stored.StartTime,
		stored.EndTime,
		stored.TargetHours,
		string(stored.Status),
		stored.Notes,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, domain.ErrSessionNotFound
	}
	return &stored, nil
}

// RecentSessions returns finished sessions, newest first.
func (r *Repository) RecentSessions(ctx context.Context, limit int) ([]*domain.FastingSession, error) {
	query := `
		SELECT id, type, start_time, end_time, target_hours, status, notes
		FROM fasting_sessions
		WHERE status != ?
		ORDER BY start_time DESC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, string(domain.SessionStatusActive), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSessions(rows)
}

// Stats aggregates fasting history.
func (r *Repository) Stats(ctx context.Context) (*domain.FastingStats, error) {
	stats := &domain.FastingStats{}

	countQuery := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'completed' THEN 1 END)
		FROM fasting_sessions
	`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&stats.TotalSessions, &stats.CompletedSessions); err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	// Hour aggregates need real end-start arithmetic, which is simpler
	// in Go than in SQLite's datetime functions.
	query := `
		SELECT start_time, end_time
		FROM fasting_sessions
		WHERE status = 'completed' AND end_time IS NOT NULL
		ORDER BY start_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var days []time.Time
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan session times: %w", err)
		}
		hours := end.Sub(start).Hours()
		stats.TotalHours += hours
		if hours > stats.LongestHours {
			stats.LongestHours = hours
		}
		days = append(days, end)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.CompletedSessions > 0 {
		stats.AverageHours = stats.TotalHours / float64(stats.CompletedSessions)
	}
	stats.CurrentStreakDays = streakDays(days, r.now())

	return stats, nil
}

// streakDays counts consecutive calendar days ending today (or
// yesterday, when today has no fast yet) with a completed fast.
func streakDays(completions []time.Time, now time.Time) int {
	if len(completions) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(completions))
	for _, at := range completions {
		seen[at.Format("2006-01-02")] = true
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !seen[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for seen[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// CreateSchedule stores a scheduled fast.
func (r *Repository) CreateSchedule(ctx context.Context, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	stored := *fast
	if stored.ID == "" || domain.IsTempID(stored.ID) {
		stored.ID = domain.NewID()
	}

	recurrence, err := marshalRecurrence(stored.Recurrence)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO scheduled_fasts (id, type, scheduled_start, scheduled_end, is_recurring, recurrence, reminder_minutes, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		stored.ID,
		string(stored.Type),
		stored.ScheduledStart,
		stored.ScheduledEnd,
		stored.IsRecurring,
		recurrence,
		stored.ReminderMinutes,
		stored.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save scheduled fast: %w", err)
	}
	return &stored, nil
}

// UpdateSchedule applies a full-record edit.
func (r *Repository) UpdateSchedule(ctx context.Context, id string, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	stored := *fast
	stored.ID = id

	recurrence, err := marshalRecurrence(stored.Recurrence)
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE scheduled_fasts
		SET type = ?, scheduled_start = ?, scheduled_end = ?, is_recurring = ?, recurrence = ?, reminder_minutes = ?, notes = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		string(stored.Type),
		stored.ScheduledStart,
		stored.ScheduledEnd,
		stored.IsRecurring,
		recurrence,
		stored.ReminderMinutes,
		stored.Notes,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update scheduled fast: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, domain.ErrScheduleNotFound
	}
	return &stored, nil
}

// DeleteSchedule removes a scheduled fast.
func (r *Repository) DeleteSchedule(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_fasts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled fast: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

// ListSchedules returns all scheduled fasts ordered by start.
func (r *Repository) ListSchedules(ctx context.Context) ([]*domain.ScheduledFast, error) {
	query := `
		SELECT id, type, scheduled_start, scheduled_end, is_recurring, recurrence, reminder_minutes, notes
		FROM scheduled_fasts
		ORDER BY scheduled_start ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled fasts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSchedules(rows)
}

// UpcomingSchedules returns schedules with a future occurrence, soonest
// first. Recurring fasts count their next computed occurrence.
func (r *Repository) UpcomingSchedules(ctx context.Context) ([]*domain.ScheduledFast, error) {
	all, err := r.ListSchedules(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	type upcoming struct {
		fast *domain.ScheduledFast
		at   time.Time
	}
	var result []upcoming
	for _, fast := range all {
		// The start window reaches back before the scheduled instant, so
		// an occurrence stays "upcoming" slightly past its start.
		if fast.ScheduledStart.After(now.Add(-10 * time.Minute)) {
			result = append(result, upcoming{fast, fast.ScheduledStart})
			continue
		}
		if next := fast.NextOccurrence(now); next != nil {
			rolled := *fast
			duration := fast.Duration()
			rolled.ScheduledStart = *next
			rolled.ScheduledEnd = next.Add(duration)
			result = append(result, upcoming{&rolled, *next})
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].at.Before(result[j].at) })

	fasts := make([]*domain.ScheduledFast, len(result))
	for i, u := range result {
		fasts[i] = u.fast
	}
	return fasts, nil
}

// CreateWeight stores a weight entry.
func (r *Repository) CreateWeight(ctx context.Context, entry *domain.WeightEntry) (*domain.WeightEntry, error) {
	stored := *entry
	if stored.ID == "" || domain.IsTempID(stored.ID) {
		stored.ID = domain.NewID()
	}

	query := `INSERT INTO weight_entries (id, weight_kg, recorded_at, notes) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, stored.ID, stored.WeightKg, stored.RecordedAt, stored.Notes); err != nil {
		return nil, fmt.Errorf("failed to save weight entry: %w", err)
	}
	return &stored, nil
}

// UpdateWeight applies a full-record edit.
func (r *Repository) UpdateWeight(ctx context.Context, id string, entry *domain.WeightEntry) (*domain.WeightEntry, error) {
	stored := *entry
	stored.ID = id

	query := `UPDATE weight_entries SET weight_kg = ?, recorded_at = ?, notes = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, stored.WeightKg, stored.RecordedAt, stored.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update weight entry: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}
	return &stored, nil
}

// DeleteWeight removes a weight entry.
func (r *Repository) DeleteWeight(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM weight_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete weight entry: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListWeights returns weight entries, newest first.
func (r *Repository) ListWeights(ctx context.Context) ([]*domain.WeightEntry, error) {
	query := `SELECT id, weight_kg, recorded_at, notes FROM weight_entries ORDER BY recorded_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query weight entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*domain.WeightEntry
	for rows.Next() {
		var entry domain.WeightEntry
		var notes sql.NullString
		if err := rows.Scan(&entry.ID, &entry.WeightKg, &entry.RecordedAt, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan weight entry: %w", err)
		}
		entry.Notes = notes.String
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

// CreateMetric stores a vital-sign reading.
func (r *Repository) CreateMetric(ctx context.Context, metric *domain.HealthMetric) (*domain.HealthMetric, error) {
	stored := *metric
	if stored.ID == "" || domain.IsTempID(stored.ID) {
		stored.ID = domain.NewID()
	}

	query := `INSERT INTO health_metrics (id, kind, value, unit, recorded_at, notes) VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, stored.ID, stored.Kind, stored.Value, stored.Unit, stored.RecordedAt, stored.Notes); err != nil {
		return nil, fmt.Errorf("failed to save metric: %w", err)
	}
	return &stored, nil
}

// UpdateMetric applies a full-record edit.
func (r *Repository) UpdateMetric(ctx context.Context, id string, metric *domain.HealthMetric) (*domain.HealthMetric, error) {
	stored := *metric
	stored.ID = id

	query := `UPDATE health_metrics SET kind = ?, value = ?, unit = ?, recorded_at = ?, notes = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, stored.Kind, stored.Value, stored.Unit, stored.RecordedAt, stored.Notes, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update metric: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}
	return &stored, nil
}

// DeleteMetric removes a metric.
func (r *Repository) DeleteMetric(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM health_metrics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete metric: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListMetrics returns metric readings, newest first.
func (r *Repository) ListMetrics(ctx context.Context) ([]*domain.HealthMetric, error) {
	query := `SELECT id, kind, value, unit, recorded_at, notes FROM health_metrics ORDER BY recorded_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metrics []*domain.HealthMetric
	for rows.Next() {
		var metric domain.HealthMetric
		var unit, notes sql.NullString
		if err := rows.Scan(&metric.ID, &metric.Kind, &metric.Value, &unit, &metric.RecordedAt, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		metric.Unit = unit.String
		metric.Notes = notes.String
		metrics = append(metrics, &metric)
	}
	return metrics, rows.Err()
}

// GetProfile returns the profile, which always exists (zero-valued
// before the first update).
func (r *Repository) GetProfile(ctx context.Context) (*domain.Profile, error) {
	query := `SELECT name, height_cm, target_weight_kg, timezone FROM profile WHERE id = 1`

	var profile domain.Profile
	var name, timezone sql.NullString
	var heightCm, targetWeightKg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, query).Scan(&name, &heightCm, &targetWeightKg, &timezone)
	if err == sql.ErrNoRows {
		return &domain.Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile.Name = name.String
	profile.HeightCm = heightCm.Float64
	profile.TargetWeightKg = targetWeightKg.Float64
	profile.Timezone = timezone.String
	return &profile, nil
}

// UpdateProfile overwrites the profile.
func (r *Repository) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	query := `
		INSERT INTO profile (id, name, height_cm, target_weight_kg, timezone)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			height_cm = excluded.height_cm,
			target_weight_kg = excluded.target_weight_kg,
			timezone = excluded.timezone
	`
	if _, err := r.db.ExecContext(ctx, query, profile.Name, profile.HeightCm, profile.TargetWeightKg, profile.Timezone); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func marshalRecurrence(pattern *domain.RecurrencePattern) (*string, error) {
	if pattern == nil {
		return nil, nil
	}
	data, err := json.Marshal(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to encode recurrence: %w", err)
	}
	s := string(data)
	return &s, nil
}

// scanSession scans a single session row, returning nil on no rows.
func scanSession(row *sql.Row) (*domain.FastingSession, error) {
	var session domain.FastingSession
	var sessionType, status string
	var endTime sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&session.ID,
		&sessionType,
		&session.StartTime,
		&endTime,
		&session.TargetHours,
		&status,
		&notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session.Type = domain.FastType(sessionType)
	session.Status = domain.SessionStatus(status)
	if endTime.Valid {
		session.EndTime = &endTime.Time
	}
	session.Notes = notes.String
	return &session, nil
}

// scanSessions scans multiple session rows.
func scanSessions(rows *sql.Rows) ([]*domain.FastingSession, error) {
	var sessions []*domain.FastingSession
	for rows.Next() {
		var session domain.FastingSession
		var sessionType, status string
		var endTime sql.NullTime
		var notes sql.NullString

		err := rows.Scan(
			&session.ID,
			&sessionType,
			&session.StartTime,
			&endTime,
			&session.TargetHours,
			&status,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		session.Type = domain.FastType(sessionType)
		session.Status = domain.SessionStatus(status)
		if endTime.Valid {
			session.EndTime = &endTime.Time
		}
		session.Notes = notes.String
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// scanSchedules scans multiple schedule rows.
func scanSchedules(rows *sql.Rows) ([]*domain.ScheduledFast, error) {
	var fasts []*domain.ScheduledFast
	for rows.Next() {
		var fast domain.ScheduledFast
		var fastType string
		var recurrence, notes sql.NullString

		err := rows.Scan(
			&fast.ID,
			&fastType,
			&fast.ScheduledStart,
			&fast.ScheduledEnd,
			&fast.IsRecurring,
			&recurrence,
			&fast.ReminderMinutes,
			&notes,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled fast: %w", err)
		}

		fast.Type = domain.FastType(fastType)
		fast.Notes = notes.String
		if recurrence.Valid && recurrence.String != "" {
			var pattern domain.RecurrencePattern
			if err := json.Unmarshal([]byte(recurrence.String), &pattern); err == nil {
				fast.Recurrence = &pattern
			}
		}
		fasts = append(fasts, &fast)
	}
	return fasts, rows.Err()
}
