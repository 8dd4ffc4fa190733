package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// SyncService buffers mutations while offline and replays them in FIFO
// order once connectivity returns. The queue is one linear list: actions
// against different resources keep their enqueue order.
type SyncService struct {
	mu      sync.Mutex
	syncing bool

	store    ports.QueueStore
	cache    ports.StateCache
	api      ports.API
	conn     ports.Connectivity
	notifier ports.Notifier
	now      Clock
}

// NewSyncService creates the offline mutation queue service.
func NewSyncService(api ports.API, local ports.LocalStore, conn ports.Connectivity, notifier ports.Notifier) *SyncService {
	return &SyncService{
		store:    local.Queue(),
		cache:    local.Cache(),
		api:      api,
		conn:     conn,
		notifier: notifier,
		now:      time.Now,
	}
}

// SetClock overrides the wall-clock source (tests).
func (s *SyncService) SetClock(now Clock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Watch subscribes to connectivity transitions and drains the queue
// whenever the device comes back online.
func (s *SyncService) Watch() {
	s.conn.Subscribe(func(online bool) {
		if online {
			go func() { _ = s.Sync(context.Background()) }()
		}
	})
}

// Enqueue appends a mutation to the queue. The caller applies the
// optimistic local update; the queue never mutates domain state.
func (s *SyncService) Enqueue(ctx context.Context, action *domain.QueuedAction) error {
	if err := s.store.Append(ctx, action); err != nil {
		return fmt.Errorf("failed to enqueue action: %w", err)
	}
	return nil
}

// Pending returns the number of queued actions.
func (s *SyncService) Pending(ctx context.Context) int {
	n, err := s.store.Len(ctx)
	if err != nil {
		return 0
	}
	return n
}

// SyncIfPending drains the queue opportunistically when a mutating call
// finds buffered actions.
func (s *SyncService) SyncIfPending(ctx context.Context) {
	if s.Pending(ctx) > 0 {
		_ = s.Sync(ctx)
	}
}

// LastSync returns when the queue last drained successfully.
func (s *SyncService) LastSync(ctx context.Context) (time.Time, error) {
	return s.cache.LastSync(ctx)
}

// Sync drains the queue sequentially. Guarded by the online check and a
// syncing flag so drains never run concurrently. Each action gets
// domain.MaxSyncAttempts tries in total; an exhausted action is dropped
// and surfaced once through the notification channel.
func (s *SyncService) Sync(ctx context.Context) error {
	s.mu.Lock()
	if s.syncing || !s.conn.Online() {
		s.mu.Unlock()
		return nil
	}
	s.syncing = true
	now := s.now
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	actions, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load queue: %w", err)
	}

	for _, action := range actions {
		if err := s.execute(ctx, action); err != nil {
			action.Retries++
			if action.Exhausted() {
				// Accepted data-loss policy: drop after the retry
				// bound, surfacing a toast at drop time.
				_ = s.store.Remove(ctx, action.ID)
				s.notifier.Error("Sync", fmt.Sprintf("Dropped %s %s after %d failed attempts", action.Type, action.Resource, action.Retries))
				continue
			}
			_ = s.store.SetRetries(ctx, action.ID, action.Retries)
			continue
		}
		_ = s.store.Remove(ctx, action.ID)
	}

	// LastSync means "queue fully drained"; a pass that left retryable
	// actions behind does not count.
	if remaining, err := s.store.Len(ctx); err == nil && remaining == 0 {
		_ = s.cache.SetLastSync(ctx, now())
	}
	return nil
}

// execute dispatches one queued action to its resource endpoint.
func (s *SyncService) execute(ctx context.Context, action *domain.QueuedAction) error {
	switch action.Resource {
	case domain.ResourceSession:
		return s.executeSession(ctx, action)
	case domain.ResourceWeight:
		return s.executeWeight(ctx, action)
	case domain.ResourceMetric:
		return s.executeMetric(ctx, action)
	case domain.ResourceProfile:
		return s.executeProfile(ctx, action)
	case domain.ResourceScheduled:
		return s.executeScheduled(ctx, action)
	default:
		return fmt.Errorf("unknown queued resource %q", action.Resource)
	}
}

func (s *SyncService) executeSession(ctx context.Context, action *domain.QueuedAction) error {
	var session domain.FastingSession
	if len(action.Data) > 0 {
		if err := json.Unmarshal(action.Data, &session); err != nil {
			return fmt.Errorf("failed to decode session payload: %w", err)
		}
	}
	switch action.Type {
	case domain.ActionCreate:
		created, err := s.api.Sessions().Create(ctx, &session)
		if err != nil {
			return err
		}
		// The server id replaces the temp id in the local shadow.
		if created.IsActive() {
			_ = s.cache.SaveSession(ctx, created)
		}
		return nil
	case domain.ActionUpdate:
		if domain.IsTempID(action.TargetID) {
			// The create never reached the server; replay the final
			// state as a create so the fast is not lost.
			_, err := s.api.Sessions().Create(ctx, &session)
			return err
		}
		_, err := s.api.Sessions().Update(ctx, action.TargetID, &session)
		return err
	default:
		return fmt.Errorf("unsupported session action %q", action.Type)
	}
}

func (s *SyncService) executeWeight(ctx context.Context, action *domain.QueuedAction) error {
	var entry domain.WeightEntry
	if len(action.Data) > 0 {
		if err := json.Unmarshal(action.Data, &entry); err != nil {
			return fmt.Errorf("failed to decode weight payload: %w", err)
		}
	}
	switch action.Type {
	case domain.ActionCreate:
		_, err := s.api.Weights().Create(ctx, &entry)
		return err
	case domain.ActionUpdate:
		_, err := s.api.Weights().Update(ctx, action.TargetID, &entry)
		return err
	case domain.ActionDelete:
		return s.api.Weights().Delete(ctx, action.TargetID)
	default:
		return fmt.Errorf("unsupported weight action %q", action.Type)
	}
}

func (s *SyncService) executeMetric(ctx context.Context, action *domain.QueuedAction) error {
	var metric domain.HealthMetric
	if len(action.Data) > 0 {
		if err := json.Unmarshal(action.Data, &metric); err != nil {
			return fmt.Errorf("failed to decode metric payload: %w", err)
		}
	}
	switch action.Type {
	case domain.ActionCreate:
		_, err := s.api.Metrics().Create(ctx, &metric)
		return err
	case domain.ActionUpdate:
		_, err := s.api.Metrics().Update(ctx, action.TargetID, &metric)
		return err
	case domain.ActionDelete:
		return s.api.Metrics().Delete(ctx, action.TargetID)
	default:
		return fmt.Errorf("unsupported metric action %q", action.Type)
	}
}

func (s *SyncService) executeProfile(ctx context.Context, action *domain.QueuedAction) error {
	if action.Type != domain.ActionUpdate {
		return fmt.Errorf("unsupported profile action %q", action.Type)
	}
	var profile domain.Profile
	if err := json.Unmarshal(action.Data, &profile); err != nil {
		return fmt.Errorf("failed to decode profile payload: %w", err)
	}
	_, err := s.api.Profile().Update(ctx, &profile)
	return err
}

func (s *SyncService) executeScheduled(ctx context.Context, action *domain.QueuedAction) error {
	var fast domain.ScheduledFast
	if len(action.Data) > 0 {
		if err := json.Unmarshal(action.Data, &fast); err != nil {
			return fmt.Errorf("failed to decode schedule payload: %w", err)
		}
	}
	switch action.Type {
	case domain.ActionCreate:
		_, err := s.api.Schedules().Create(ctx, &fast)
		return err
	case domain.ActionUpdate:
		_, err := s.api.Schedules().Update(ctx, action.TargetID, &fast)
		return err
	case domain.ActionDelete:
		return s.api.Schedules().Delete(ctx, action.TargetID)
	default:
		return fmt.Errorf("unsupported schedule action %q", action.Type)
	}
}
