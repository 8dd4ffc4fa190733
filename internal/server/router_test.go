package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mzavel/fasting-cli/internal/domain"
)

func setupTestServer(t *testing.T) (*gin.Engine, *Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("NewMemoryRepository() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	return NewRouter(repo), repo
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) (int, []byte) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	engine, _ := setupTestServer(t)

	status, _ := doJSON(t, engine, http.MethodGet, "/health", nil)
	if status != http.StatusOK {
		t.Errorf("GET /health = %d, want 200", status)
	}
}

func TestSessionLifecycle(t *testing.T) {
	engine, _ := setupTestServer(t)
	start := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	create := map[string]any{
		"type":         "16:8",
		"start_time":   start.Format(time.RFC3339),
		"target_hours": 16,
	}

	status, body := doJSON(t, engine, http.MethodPost, "/sessions", create)
	if status != http.StatusCreated {
		t.Fatalf("POST /sessions = %d, want 201: %s", status, body)
	}
	var created domain.FastingSession
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal created session: %v", err)
	}
	if created.ID == "" {
		t.Error("server did not assign an id")
	}
	if created.Status != domain.SessionStatusActive {
		t.Errorf("Status = %v, want active", created.Status)
	}

	t.Run("second active session conflicts", func(t *testing.T) {
		status, _ := doJSON(t, engine, http.MethodPost, "/sessions", create)
		if status != http.StatusConflict {
			t.Errorf("second POST /sessions = %d, want 409", status)
		}
	})

	t.Run("active returns the session", func(t *testing.T) {
		status, body := doJSON(t, engine, http.MethodGet, "/sessions/active", nil)
		if status != http.StatusOK {
			t.Fatalf("GET /sessions/active = %d, want 200", status)
		}
		var active domain.FastingSession
		if err := json.Unmarshal(body, &active); err != nil {
			t.Fatalf("unmarshal active session: %v", err)
		}
		if active.ID != created.ID {
			t.Errorf("active ID = %q, want %q", active.ID, created.ID)
		}
	})

	t.Run("end is idempotent", func(t *testing.T) {
		status, body := doJSON(t, engine, http.MethodPatch, "/sessions/"+created.ID+"/end", nil)
		if status != http.StatusOK {
			t.Fatalf("POST end = %d, want 200: %s", status, body)
		}
		var ended domain.FastingSession
		if err := json.Unmarshal(body, &ended); err != nil {
			t.Fatalf("unmarshal ended session: %v", err)
		}
		if ended.Status != domain.SessionStatusCompleted {
			t.Errorf("Status = %v, want completed", ended.Status)
		}
		if ended.EndTime == nil {
			t.Error("EndTime not recorded")
		}

		// A retried end returns the stored record unchanged.
		status, body = doJSON(t, engine, http.MethodPatch, "/sessions/"+created.ID+"/end", nil)
		if status != http.StatusOK {
			t.Fatalf("retried PATCH end = %d, want 200", status)
		}
		var again domain.FastingSession
		if err := json.Unmarshal(body, &again); err != nil {
			t.Fatalf("unmarshal retried end: %v", err)
		}
		if again.EndTime == nil || !again.EndTime.Equal(*ended.EndTime) {
			t.Error("retried end changed the recorded end time")
		}
	})

	t.Run("no active session after end", func(t *testing.T) {
		status, _ := doJSON(t, engine, http.MethodGet, "/sessions/active", nil)
		if status != http.StatusNotFound {
			t.Errorf("GET /sessions/active = %d, want 404", status)
		}
	})

	t.Run("recent lists the finished fast", func(t *testing.T) {
		status, body := doJSON(t, engine, http.MethodGet, "/sessions?limit=10", nil)
		if status != http.StatusOK {
			t.Fatalf("GET /sessions = %d, want 200", status)
		}
		var sessions []*domain.FastingSession
		if err := json.Unmarshal(body, &sessions); err != nil {
			t.Fatalf("unmarshal recent sessions: %v", err)
		}
		if len(sessions) != 1 || sessions[0].ID != created.ID {
			t.Errorf("recent = %v, want the finished fast", sessions)
		}
	})

	t.Run("end of unknown session is 404", func(t *testing.T) {
		status, _ := doJSON(t, engine, http.MethodPatch, "/sessions/unknown/end", nil)
		if status != http.StatusNotFound {
			t.Errorf("PATCH end unknown = %d, want 404", status)
		}
	})
}

func TestSessionValidation(t *testing.T) {
	engine, _ := setupTestServer(t)

	status, _ := doJSON(t, engine, http.MethodPost, "/sessions", map[string]any{
		"type":       "16:8",
		"start_time": time.Now().UTC().Format(time.RFC3339),
	})
	if status != http.StatusBadRequest {
		t.Errorf("POST /sessions without target = %d, want 400", status)
	}
}

func TestStatsEndpoint(t *testing.T) {
	engine, repo := setupTestServer(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return now })

	// Two completed fasts on consecutive days plus one cancelled.
	seed := []struct {
		start  time.Time
		hours  float64
		status domain.SessionStatus
	}{
		{now.Add(-40 * time.Hour), 16, domain.SessionStatusCompleted},
		{now.Add(-18 * time.Hour), 18, domain.SessionStatusCompleted},
		{now.Add(-60 * time.Hour), 16, domain.SessionStatusCancelled},
	}
	for _, s := range seed {
		end := s.start.Add(time.Duration(s.hours * float64(time.Hour)))
		session := &domain.FastingSession{
			Type:        domain.FastType16x8,
			StartTime:   s.start,
			EndTime:     &end,
			TargetHours: s.hours,
			Status:      s.status,
		}
		if _, err := repo.CreateSession(t.Context(), session); err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	status, body := doJSON(t, engine, http.MethodGet, "/stats", nil)
	if status != http.StatusOK {
		t.Fatalf("GET /stats = %d, want 200", status)
	}
	var stats domain.FastingStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}

	if stats.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", stats.TotalSessions)
	}
	if stats.CompletedSessions != 2 {
		t.Errorf("CompletedSessions = %d, want 2", stats.CompletedSessions)
	}
	if want := 34.0; stats.TotalHours != want {
		t.Errorf("TotalHours = %v, want %v", stats.TotalHours, want)
	}
	if want := 18.0; stats.LongestHours != want {
		t.Errorf("LongestHours = %v, want %v", stats.LongestHours, want)
	}
	if want := 17.0; stats.AverageHours != want {
		t.Errorf("AverageHours = %v, want %v", stats.AverageHours, want)
	}
	if stats.CurrentStreakDays != 2 {
		t.Errorf("CurrentStreakDays = %d, want 2", stats.CurrentStreakDays)
	}
}

func TestScheduleEndpoints(t *testing.T) {
	engine, repo := setupTestServer(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	repo.SetClock(func() time.Time { return now })

	create := map[string]any{
		"type":            "16:8",
		"scheduled_start": now.Add(8 * time.Hour).Format(time.RFC3339),
		"scheduled_end":   now.Add(24 * time.Hour).Format(time.RFC3339),
	}

	status, body := doJSON(t, engine, http.MethodPost, "/fasts", create)
	if status != http.StatusCreated {
		t.Fatalf("POST /fasts = %d, want 201: %s", status, body)
	}
	var created domain.ScheduledFast
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("unmarshal schedule: %v", err)
	}
	if created.ID == "" {
		t.Error("server did not assign an id")
	}

	t.Run("rejects inverted interval", func(t *testing.T) {
		status, _ := doJSON(t, engine, http.MethodPost, "/fasts", map[string]any{
			"type":            "16:8",
			"scheduled_start": now.Add(8 * time.Hour).Format(time.RFC3339),
			"scheduled_end":   now.Add(8 * time.Hour).Format(time.RFC3339),
		})
		if status != http.StatusBadRequest {
			t.Errorf("POST inverted schedule = %d, want 400", status)
		}
	})

	t.Run("upcoming includes the schedule", func(t *testing.T) {
		status, body := doJSON(t, engine, http.MethodGet, "/fasts/upcoming", nil)
		if status != http.StatusOK {
			t.Fatalf("GET /fasts/upcoming = %d, want 200", status)
		}
		var fasts []*domain.ScheduledFast
		if err := json.Unmarshal(body, &fasts); err != nil {
			t.Fatalf("unmarshal upcoming: %v", err)
		}
		if len(fasts) != 1 || fasts[0].ID != created.ID {
			t.Errorf("upcoming = %v, want the created schedule", fasts)
		}
	})

	t.Run("update and delete", func(t *testing.T) {
		edit := map[string]any{
			"type":            "18:6",
			"scheduled_start": now.Add(9 * time.Hour).Format(time.RFC3339),
			"scheduled_end":   now.Add(27 * time.Hour).Format(time.RFC3339),
		}
		status, body := doJSON(t, engine, http.MethodPatch, "/fasts/"+created.ID, edit)
		if status != http.StatusOK {
			t.Fatalf("PATCH /fasts = %d, want 200: %s", status, body)
		}

		status, _ = doJSON(t, engine, http.MethodDelete, "/fasts/"+created.ID, nil)
		if status != http.StatusNoContent {
			t.Errorf("DELETE /fasts = %d, want 204", status)
		}
		status, _ = doJSON(t, engine, http.MethodDelete, "/fasts/"+created.ID, nil)
		if status != http.StatusNotFound {
			t.Errorf("repeated DELETE = %d, want 404", status)
		}
	})
}

func TestWeightAndProfileEndpoints(t *testing.T) {
	engine, _ := setupTestServer(t)

	status, body := doJSON(t, engine, http.MethodPost, "/weights", map[string]any{
		"weight_kg":   81.4,
		"recorded_at": time.Now().UTC().Format(time.RFC3339),
	})
	if status != http.StatusCreated {
		t.Fatalf("POST /weights = %d, want 201: %s", status, body)
	}
	var entry domain.WeightEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		t.Fatalf("unmarshal weight: %v", err)
	}

	status, body = doJSON(t, engine, http.MethodGet, "/weights", nil)
	if status != http.StatusOK {
		t.Fatalf("GET /weights = %d, want 200", status)
	}
	var entries []*domain.WeightEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		t.Fatalf("unmarshal weights: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != entry.ID {
		t.Errorf("weights = %v, want the created entry", entries)
	}

	status, _ = doJSON(t, engine, http.MethodDelete, "/weights/"+entry.ID, nil)
	if status != http.StatusNoContent {
		t.Errorf("DELETE /weights = %d, want 204", status)
	}

	t.Run("profile round trip", func(t *testing.T) {
		status, _ := doJSON(t, engine, http.MethodPatch, "/profile", map[string]any{
			"name":             "Sam",
			"height_cm":        178,
			"target_weight_kg": 75,
			"timezone":         "Europe/Berlin",
		})
		if status != http.StatusOK {
			t.Fatalf("PATCH /profile = %d, want 200", status)
		}

		status, body := doJSON(t, engine, http.MethodGet, "/profile", nil)
		if status != http.StatusOK {
			t.Fatalf("GET /profile = %d, want 200", status)
		}
		var profile domain.Profile
		if err := json.Unmarshal(body, &profile); err != nil {
			t.Fatalf("unmarshal profile: %v", err)
		}
		if profile.Name != "Sam" || profile.Timezone != "Europe/Berlin" {
			t.Errorf("profile = %+v, want saved values", profile)
		}
	})
}
