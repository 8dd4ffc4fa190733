package storage

import (
	"context"
	"testing"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

func TestNewMemory(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if store == nil {
		t.Error("NewMemory() returned nil store")
	}
}

func TestMarkerStore(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	markers := store.Markers()
	key := domain.OccurrenceKey("sched-1", time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC))

	t.Run("missing marker", func(t *testing.T) {
		_, found, err := markers.Get(ctx, key)
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
		if found {
			t.Error("Get() found a marker that was never set")
		}
	})

	t.Run("set and get", func(t *testing.T) {
		if err := markers.Set(ctx, key, ports.MarkerStarted); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		status, found, err := markers.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !found {
			t.Fatal("Get() did not find the marker")
		}
		if status != ports.MarkerStarted {
			t.Errorf("status = %v, want started", status)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		if err := markers.Set(ctx, key, ports.MarkerCancelled); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		status, _, err := markers.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if status != ports.MarkerCancelled {
			t.Errorf("status = %v, want cancelled", status)
		}
	})

	t.Run("distinct occurrences", func(t *testing.T) {
		other := domain.OccurrenceKey("sched-1", time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC))
		_, found, err := markers.Get(ctx, other)
		if err != nil {
			t.Errorf("Get() error = %v", err)
		}
		if found {
			t.Error("a different occurrence must have its own marker")
		}
	})
}

func TestQueueStore(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	queue := store.Queue()
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	mustAction := func(actionType domain.ActionType, resource domain.Resource, targetID string, payload any) *domain.QueuedAction {
		t.Helper()
		action, err := domain.NewQueuedAction(actionType, resource, targetID, payload, now)
		if err != nil {
			t.Fatalf("NewQueuedAction() error = %v", err)
		}
		return action
	}

	t.Run("append preserves order", func(t *testing.T) {
		first := mustAction(domain.ActionCreate, domain.ResourceWeight, "w1", domain.NewWeightEntry(80, now, ""))
		second := mustAction(domain.ActionDelete, domain.ResourceScheduled, "s1", nil)
		third := mustAction(domain.ActionUpdate, domain.ResourceProfile, "", &domain.Profile{Name: "a"})

		for _, a := range []*domain.QueuedAction{first, second, third} {
			if err := queue.Append(ctx, a); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
		}

		actions, err := queue.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(actions) != 3 {
			t.Fatalf("List() = %d actions, want 3", len(actions))
		}
		wantIDs := []string{first.ID, second.ID, third.ID}
		for i, a := range actions {
			if a.ID != wantIDs[i] {
				t.Errorf("actions[%d].ID = %q, want %q", i, a.ID, wantIDs[i])
			}
		}
		if actions[0].Resource != domain.ResourceWeight || len(actions[0].Data) == 0 {
			t.Error("payload did not round-trip")
		}
		if actions[1].TargetID != "s1" {
			t.Errorf("TargetID = %q, want s1", actions[1].TargetID)
		}
	})

	t.Run("set retries", func(t *testing.T) {
		actions, _ := queue.List(ctx)
		if err := queue.SetRetries(ctx, actions[0].ID, 2); err != nil {
			t.Fatalf("SetRetries() error = %v", err)
		}
		actions, _ = queue.List(ctx)
		if actions[0].Retries != 2 {
			t.Errorf("Retries = %d, want 2", actions[0].Retries)
		}
	})

	t.Run("set retries on missing action", func(t *testing.T) {
		if err := queue.SetRetries(ctx, "missing", 1); err == nil {
			t.Error("SetRetries() expected error for unknown id")
		}
	})

	t.Run("remove", func(t *testing.T) {
		actions, _ := queue.List(ctx)
		if err := queue.Remove(ctx, actions[0].ID); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		n, err := queue.Len(ctx)
		if err != nil {
			t.Fatalf("Len() error = %v", err)
		}
		if n != 2 {
			t.Errorf("Len() = %d, want 2", n)
		}
	})
}

func TestStateCache_Session(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	cache := store.Cache()

	t.Run("empty cache", func(t *testing.T) {
		session, err := cache.LoadSession(ctx)
		if err != nil {
			t.Errorf("LoadSession() error = %v", err)
		}
		if session != nil {
			t.Errorf("LoadSession() = %v, want nil", session)
		}
	})

	t.Run("save and load", func(t *testing.T) {
		start := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
		session := domain.NewFastingSession(domain.FastType16x8, 16, start, "evening fast")
		if err := cache.SaveSession(ctx, session); err != nil {
			t.Fatalf("SaveSession() error = %v", err)
		}

		loaded, err := cache.LoadSession(ctx)
		if err != nil {
			t.Fatalf("LoadSession() error = %v", err)
		}
		if loaded == nil {
			t.Fatal("LoadSession() returned nil")
		}
		if loaded.ID != session.ID {
			t.Errorf("ID = %q, want %q", loaded.ID, session.ID)
		}
		if !loaded.StartTime.Equal(session.StartTime) {
			t.Errorf("StartTime = %v, want %v", loaded.StartTime, session.StartTime)
		}
		if loaded.Notes != "evening fast" {
			t.Errorf("Notes = %q, want %q", loaded.Notes, "evening fast")
		}
	})

	t.Run("clear", func(t *testing.T) {
		if err := cache.ClearSession(ctx); err != nil {
			t.Fatalf("ClearSession() error = %v", err)
		}
		session, err := cache.LoadSession(ctx)
		if err != nil {
			t.Errorf("LoadSession() error = %v", err)
		}
		if session != nil {
			t.Error("session still cached after clear")
		}
	})
}

func TestStateCache_Schedules(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	cache := store.Cache()
	start := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	fast, err := domain.NewScheduledFast(domain.FastType16x8, start, start.Add(16*time.Hour), "")
	if err != nil {
		t.Fatalf("NewScheduledFast() error = %v", err)
	}
	fast.IsRecurring = true
	fast.Recurrence = &domain.RecurrencePattern{Frequency: domain.FrequencyDaily, Interval: 1}

	if err := cache.SaveSchedules(ctx, []*domain.ScheduledFast{fast}); err != nil {
		t.Fatalf("SaveSchedules() error = %v", err)
	}

	loaded, err := cache.LoadSchedules(ctx)
	if err != nil {
		t.Fatalf("LoadSchedules() error = %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("LoadSchedules() = %d schedules, want 1", len(loaded))
	}
	if loaded[0].ID != fast.ID {
		t.Errorf("ID = %q, want %q", loaded[0].ID, fast.ID)
	}
	if loaded[0].Recurrence == nil || loaded[0].Recurrence.Frequency != domain.FrequencyDaily {
		t.Error("recurrence did not round-trip")
	}

	// The shadow is replaced wholesale, not merged.
	if err := cache.SaveSchedules(ctx, nil); err != nil {
		t.Fatalf("SaveSchedules() error = %v", err)
	}
	loaded, err = cache.LoadSchedules(ctx)
	if err != nil {
		t.Fatalf("LoadSchedules() error = %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("LoadSchedules() = %d schedules, want 0 after overwrite", len(loaded))
	}
}

func TestStateCache_LastSync(t *testing.T) {
	store, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	cache := store.Cache()

	at, err := cache.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync() error = %v", err)
	}
	if !at.IsZero() {
		t.Errorf("LastSync() = %v, want zero before first drain", at)
	}

	want := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	if err := cache.SetLastSync(ctx, want); err != nil {
		t.Fatalf("SetLastSync() error = %v", err)
	}
	at, err = cache.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync() error = %v", err)
	}
	if !at.Equal(want) {
		t.Errorf("LastSync() = %v, want %v", at, want)
	}
}
