package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
)

func newScheduleStack(t *testing.T, start time.Time) (*ScheduleService, *Lifecycle, *fakeAPI, *fakeConn, *memLocalStore, *fakeClock) {
	t.Helper()
	lifecycle, syncSvc, api, conn, local, _, clock := newTestStack(start)
	t.Cleanup(lifecycle.Close)

	schedules := NewScheduleService(api, local, syncSvc, conn, lifecycle)
	schedules.SetClock(clock.Now)
	return schedules, lifecycle, api, conn, local, clock
}

func TestScheduleService_Create(t *testing.T) {
	base := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)

	t.Run("creates online", func(t *testing.T) {
		schedules, _, api, _, local, _ := newScheduleStack(t, base)

		fast, err := schedules.Create(context.Background(), CreateScheduleRequest{
			Type:           domain.FastType16x8,
			ScheduledStart: base.Add(24 * time.Hour),
			ScheduledEnd:   base.Add(40 * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if got := api.countCalls("CREATE scheduled"); got != 1 {
			t.Errorf("CREATE scheduled calls = %d, want 1", got)
		}
		if len(schedules.Cached()) != 1 {
			t.Error("created schedule missing from shadow list")
		}
		saved, _ := local.Cache().LoadSchedules(context.Background())
		if len(saved) != 1 || saved[0].ID != fast.ID {
			t.Error("created schedule not persisted to the cache")
		}
	})

	t.Run("rejects end before start", func(t *testing.T) {
		schedules, _, _, _, _, _ := newScheduleStack(t, base)

		_, err := schedules.Create(context.Background(), CreateScheduleRequest{
			Type:           domain.FastType16x8,
			ScheduledStart: base.Add(24 * time.Hour),
			ScheduledEnd:   base.Add(24 * time.Hour),
		})
		if !errors.Is(err, domain.ErrEndBeforeStart) {
			t.Errorf("Create() error = %v, want ErrEndBeforeStart", err)
		}
	})

	t.Run("rejects overlap with an existing schedule", func(t *testing.T) {
		schedules, _, _, _, _, _ := newScheduleStack(t, base)

		if _, err := schedules.Create(context.Background(), CreateScheduleRequest{
			Type:           domain.FastType16x8,
			ScheduledStart: base.Add(24 * time.Hour),
			ScheduledEnd:   base.Add(40 * time.Hour),
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		_, err := schedules.Create(context.Background(), CreateScheduleRequest{
			Type:           domain.FastType18x6,
			ScheduledStart: base.Add(30 * time.Hour),
			ScheduledEnd:   base.Add(48 * time.Hour),
		})
		if !errors.Is(err, domain.ErrScheduleConflict) {
			t.Errorf("overlapping Create() error = %v, want ErrScheduleConflict", err)
		}
	})

	t.Run("rejects overlap with the active fast", func(t *testing.T) {
		schedules, lifecycle, _, _, _, _ := newScheduleStack(t, base)

		if _, err := lifecycle.StartSession(context.Background(), StartSessionRequest{Type: domain.FastType16x8}); err != nil {
			t.Fatalf("StartSession() error = %v", err)
		}
		// The active fast runs until base+16h; this candidate starts
		// inside that interval.
		_, err := schedules.Create(context.Background(), CreateScheduleRequest{
			Type:           domain.FastType18x6,
			ScheduledStart: base.Add(8 * time.Hour),
			ScheduledEnd:   base.Add(26 * time.Hour),
		})
		if !errors.Is(err, domain.ErrScheduleConflict) {
			t.Errorf("Create() error = %v, want ErrScheduleConflict", err)
		}
	})

	t.Run("queues the create while offline", func(t *testing.T) {
		schedules, _, api, conn, local, _ := newScheduleStack(t, base)
		conn.set(false)

		fast, err := schedules.Create(context.Background(), CreateScheduleRequest{
			Type:           domain.FastType16x8,
			ScheduledStart: base.Add(24 * time.Hour),
			ScheduledEnd:   base.Add(40 * time.Hour),
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if !domain.IsTempID(fast.ID) {
			t.Errorf("offline create id = %q, want temp id", fast.ID)
		}
		if got := api.countCalls("CREATE scheduled"); got != 0 {
			t.Error("offline create must not hit the server")
		}
		// The offline edit survives a restart through the cache.
		saved, _ := local.Cache().LoadSchedules(context.Background())
		if len(saved) != 1 {
			t.Error("offline create not persisted to the cache")
		}
	})
}

func TestScheduleService_UpdateDelete(t *testing.T) {
	base := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	schedules, _, api, _, _, _ := newScheduleStack(t, base)

	fast, err := schedules.Create(context.Background(), CreateScheduleRequest{
		Type:           domain.FastType16x8,
		ScheduledStart: base.Add(24 * time.Hour),
		ScheduledEnd:   base.Add(40 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Editing a schedule must not conflict with itself.
	edited := *fast
	edited.ScheduledStart = base.Add(25 * time.Hour)
	edited.ScheduledEnd = base.Add(41 * time.Hour)
	updated, err := schedules.Update(context.Background(), &edited)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updated.ScheduledStart.Equal(edited.ScheduledStart) {
		t.Errorf("ScheduledStart = %v, want %v", updated.ScheduledStart, edited.ScheduledStart)
	}

	if err := schedules.Delete(context.Background(), fast.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(schedules.Cached()) != 0 {
		t.Error("deleted schedule still in the shadow list")
	}
	if got := api.countCalls("DELETE scheduled"); got != 1 {
		t.Errorf("DELETE scheduled calls = %d, want 1", got)
	}
}

func TestScheduleService_ListOffline(t *testing.T) {
	base := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	schedules, _, api, conn, _, _ := newScheduleStack(t, base)

	api.schedules = []*domain.ScheduledFast{
		{ID: "s1", Type: domain.FastType16x8, ScheduledStart: base.Add(time.Hour), ScheduledEnd: base.Add(17 * time.Hour)},
	}
	if _, err := schedules.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}

	// Offline reads come from the cached copy of the last fetch.
	conn.set(false)
	fasts, err := schedules.List(context.Background())
	if err != nil {
		t.Fatalf("offline List() error = %v", err)
	}
	if len(fasts) != 1 || fasts[0].ID != "s1" {
		t.Errorf("offline List() = %v, want the cached schedule", fasts)
	}
	if got := api.countCalls("LIST scheduled"); got != 1 {
		t.Errorf("LIST scheduled calls = %d, want 1", got)
	}
}
