package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// HealthService handles the thin weight/metric/profile resources with
// the same offline-queue fallback as the fasting resources.
type HealthService struct {
	api  ports.API
	sync *SyncService
	conn ports.Connectivity
	now  Clock
}

// NewHealthService creates the health-log service.
func NewHealthService(api ports.API, syncSvc *SyncService, conn ports.Connectivity) *HealthService {
	return &HealthService{
		api:  api,
		sync: syncSvc,
		conn: conn,
		now:  time.Now,
	}
}

// LogWeight records a body-weight measurement.
func (h *HealthService) LogWeight(ctx context.Context, weightKg float64, notes string) (*domain.WeightEntry, error) {
	entry := domain.NewWeightEntry(weightKg, h.now(), notes)
	if !h.conn.Online() {
		entry.ID = domain.TempID(h.now())
		if err := h.enqueue(ctx, domain.ActionCreate, domain.ResourceWeight, entry.ID, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}
	h.sync.SyncIfPending(ctx)
	created, err := h.api.Weights().Create(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to log weight: %w", err)
	}
	return created, nil
}

// DeleteWeight removes a weight entry.
func (h *HealthService) DeleteWeight(ctx context.Context, id string) error {
	if !h.conn.Online() {
		return h.enqueue(ctx, domain.ActionDelete, domain.ResourceWeight, id, nil)
	}
	if err := h.api.Weights().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete weight entry: %w", err)
	}
	return nil
}

// Weights lists logged weight entries, newest first.
func (h *HealthService) Weights(ctx context.Context) ([]*domain.WeightEntry, error) {
	entries, err := h.api.Weights().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list weight entries: %w", err)
	}
	return entries, nil
}

// LogMetric records a vital-sign reading.
func (h *HealthService) LogMetric(ctx context.Context, kind string, value float64, unit string) (*domain.HealthMetric, error) {
	metric := domain.NewHealthMetric(kind, value, unit, h.now())
	if !h.conn.Online() {
		metric.ID = domain.TempID(h.now())
		if err := h.enqueue(ctx, domain.ActionCreate, domain.ResourceMetric, metric.ID, metric); err != nil {
			return nil, err
		}
		return metric, nil
	}
	h.sync.SyncIfPending(ctx)
	created, err := h.api.Metrics().Create(ctx, metric)
	if err != nil {
		return nil, fmt.Errorf("failed to log metric: %w", err)
	}
	return created, nil
}

// Metrics lists logged vital-sign readings, newest first.
func (h *HealthService) Metrics(ctx context.Context) ([]*domain.HealthMetric, error) {
	metrics, err := h.api.Metrics().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	return metrics, nil
}

// UpdateProfile edits the user profile.
func (h *HealthService) UpdateProfile(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if !h.conn.Online() {
		if err := h.enqueue(ctx, domain.ActionUpdate, domain.ResourceProfile, "", profile); err != nil {
			return nil, err
		}
		return profile, nil
	}
	updated, err := h.api.Profile().Update(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return updated, nil
}

// Profile fetches the user profile.
func (h *HealthService) Profile(ctx context.Context) (*domain.Profile, error) {
	profile, err := h.api.Profile().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return profile, nil
}

func (h *HealthService) enqueue(ctx context.Context, actionType domain.ActionType, resource domain.Resource, targetID string, payload any) error {
	action, err := domain.NewQueuedAction(actionType, resource, targetID, payload, h.now())
	if err != nil {
		return err
	}
	return h.sync.Enqueue(ctx, action)
}
