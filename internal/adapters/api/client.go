// Package api provides the HTTP client for the fasting server's REST
// resources.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// DefaultTimeout bounds a single request. Short enough that an offline
// device fails fast into the queue path instead of hanging the CLI.
const DefaultTimeout = 10 * time.Second

// Client implements ports.API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// Ensure Client implements ports.API.
var _ ports.API = (*Client)(nil)

// New creates an API client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Sessions returns the session resource.
func (c *Client) Sessions() ports.SessionResource {
	return &sessionResource{c}
}

// Schedules returns the scheduled-fast resource.
func (c *Client) Schedules() ports.ScheduleResource {
	return &scheduleResource{c}
}

// Weights returns the weight-log resource.
func (c *Client) Weights() ports.WeightResource {
	return &weightResource{c}
}

// Metrics returns the vital-sign metric resource.
func (c *Client) Metrics() ports.MetricResource {
	return &metricResource{c}
}

// Profile returns the user-profile resource.
func (c *Client) Profile() ports.ProfileResource {
	return &profileResource{c}
}

// Ping probes server reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// apiError is the server's error envelope.
type apiError struct {
	Error string `json:"error"`
}

// do issues one request. A non-nil out decodes the response body into
// it; a 404 on a single-resource GET is translated by the caller.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var envelope apiError
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
			return &StatusError{Code: resp.StatusCode, Message: envelope.Error}
		}
		return &StatusError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is a non-2xx server response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

type sessionResource struct{ c *Client }

func (r *sessionResource) Create(ctx context.Context, session *domain.FastingSession) (*domain.FastingSession, error) {
	var created domain.FastingSession
	if err := r.c.do(ctx, http.MethodPost, "/sessions", session, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *sessionResource) End(ctx context.Context, id string) (*domain.FastingSession, error) {
	var ended domain.FastingSession
	if err := r.c.do(ctx, http.MethodPatch, "/sessions/"+url.PathEscape(id)+"/end", nil, &ended); err != nil {
		return nil, err
	}
	return &ended, nil
}

func (r *sessionResource) Cancel(ctx context.Context, id string) (*domain.FastingSession, error) {
	var cancelled domain.FastingSession
	if err := r.c.do(ctx, http.MethodPatch, "/sessions/"+url.PathEscape(id)+"/cancel", nil, &cancelled); err != nil {
		return nil, err
	}
	return &cancelled, nil
}

func (r *sessionResource) Update(ctx context.Context, id string, session *domain.FastingSession) (*domain.FastingSession, error) {
	var updated domain.FastingSession
	if err := r.c.do(ctx, http.MethodPatch, "/sessions/"+url.PathEscape(id), session, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *sessionResource) Active(ctx context.Context) (*domain.FastingSession, error) {
	var active domain.FastingSession
	err := r.c.do(ctx, http.MethodGet, "/sessions/active", nil, &active)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &active, nil
}

func (r *sessionResource) Recent(ctx context.Context, limit int) ([]*domain.FastingSession, error) {
	var sessions []*domain.FastingSession
	path := "/sessions?limit=" + strconv.Itoa(limit)
	if err := r.c.do(ctx, http.MethodGet, path, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionResource) Stats(ctx context.Context) (*domain.FastingStats, error) {
	var stats domain.FastingStats
	if err := r.c.do(ctx, http.MethodGet, "/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type scheduleResource struct{ c *Client }

func (r *scheduleResource) Create(ctx context.Context, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	var created domain.ScheduledFast
	if err := r.c.do(ctx, http.MethodPost, "/fasts", fast, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *scheduleResource) Update(ctx context.Context, id string, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	var updated domain.ScheduledFast
	if err := r.c.do(ctx, http.MethodPatch, "/fasts/"+url.PathEscape(id), fast, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *scheduleResource) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/fasts/"+url.PathEscape(id), nil, nil)
}

func (r *scheduleResource) List(ctx context.Context) ([]*domain.ScheduledFast, error) {
	var fasts []*domain.ScheduledFast
	if err := r.c.do(ctx, http.MethodGet, "/fasts", nil, &fasts); err != nil {
		return nil, err
	}
	return fasts, nil
}

func (r *scheduleResource) Upcoming(ctx context.Context) ([]*domain.ScheduledFast, error) {
	var fasts []*domain.ScheduledFast
	if err := r.c.do(ctx, http.MethodGet, "/fasts/upcoming", nil, &fasts); err != nil {
		return nil, err
	}
	return fasts, nil
}

type weightResource struct{ c *Client }

func (r *weightResource) Create(ctx context.Context, entry *domain.WeightEntry) (*domain.WeightEntry, error) {
	var created domain.WeightEntry
	if err := r.c.do(ctx, http.MethodPost, "/weights", entry, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *weightResource) Update(ctx context.Context, id string, entry *domain.WeightEntry) (*domain.WeightEntry, error) {
	var updated domain.WeightEntry
	if err := r.c.do(ctx, http.MethodPatch, "/weights/"+url.PathEscape(id), entry, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *weightResource) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/weights/"+url.PathEscape(id), nil, nil)
}

func (r *weightResource) List(ctx context.Context) ([]*domain.WeightEntry, error) {
	var entries []*domain.WeightEntry
	if err := r.c.do(ctx, http.MethodGet, "/weights", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

type metricResource struct{ c *Client }

func (r *metricResource) Create(ctx context.Context, metric *domain.HealthMetric) (*domain.HealthMetric, error) {
	var created domain.HealthMetric
	if err := r.c.do(ctx, http.MethodPost, "/metrics", metric, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *metricResource) Update(ctx context.Context, id string, metric *domain.HealthMetric) (*domain.HealthMetric, error) {
	var updated domain.HealthMetric
	if err := r.c.do(ctx, http.MethodPatch, "/metrics/"+url.PathEscape(id), metric, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *metricResource) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, "/metrics/"+url.PathEscape(id), nil, nil)
}

func (r *metricResource) List(ctx context.Context) ([]*domain.HealthMetric, error) {
	var metrics []*domain.HealthMetric
	if err := r.c.do(ctx, http.MethodGet, "/metrics", nil, &metrics); err != nil {
		return nil, err
	}
	return metrics, nil
}

type profileResource struct{ c *Client }

func (r *profileResource) Get(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.c.do(ctx, http.MethodGet, "/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileResource) Update(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	var updated domain.Profile
	if err := r.c.do(ctx, http.MethodPatch, "/profile", profile, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
