package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/ports"
)

// fakeClock is a manually advanced wall clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeConn is a manually toggled connectivity signal.
type fakeConn struct {
	mu     sync.Mutex
	online bool
	subs   []func(bool)
}

func (c *fakeConn) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *fakeConn) Subscribe(fn func(bool)) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *fakeConn) set(online bool) {
	c.mu.Lock()
	changed := c.online != online
	c.online = online
	subs := append([]func(bool){}, c.subs...)
	c.mu.Unlock()
	if changed {
		for _, fn := range subs {
			fn(online)
		}
	}
}

// fakeNotifier records notifications.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *fakeNotifier) Info(title, message string)    { n.record("info", title) }
func (n *fakeNotifier) Success(title, message string) { n.record("success", title) }
func (n *fakeNotifier) Error(title, message string)   { n.record("error", title) }

func (n *fakeNotifier) record(level, title string) {
	n.mu.Lock()
	n.messages = append(n.messages, level+":"+title)
	n.mu.Unlock()
}

// memLocalStore is an in-memory ports.LocalStore.
type memLocalStore struct {
	mu        sync.Mutex
	markers   map[string]ports.MarkerStatus
	queue     []*domain.QueuedAction
	session   *domain.FastingSession
	schedules []*domain.ScheduledFast
	lastSync  time.Time
}

func newMemLocalStore() *memLocalStore {
	return &memLocalStore{markers: make(map[string]ports.MarkerStatus)}
}

func (s *memLocalStore) Markers() ports.MarkerStore { return (*memMarkers)(s) }
func (s *memLocalStore) Queue() ports.QueueStore    { return (*memQueue)(s) }
func (s *memLocalStore) Cache() ports.StateCache    { return (*memCache)(s) }
func (s *memLocalStore) Close() error               { return nil }
func (s *memLocalStore) Migrate() error             { return nil }

type memMarkers memLocalStore

func (m *memMarkers) Get(_ context.Context, key string) (ports.MarkerStatus, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.markers[key]
	return status, ok, nil
}

func (m *memMarkers) Set(_ context.Context, key string, status ports.MarkerStatus) error {
	m.mu.Lock()
	m.markers[key] = status
	m.mu.Unlock()
	return nil
}

type memQueue memLocalStore

func (q *memQueue) Append(_ context.Context, action *domain.QueuedAction) error {
	q.mu.Lock()
	copied := *action
	q.queue = append(q.queue, &copied)
	q.mu.Unlock()
	return nil
}

func (q *memQueue) List(_ context.Context) ([]*domain.QueuedAction, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*domain.QueuedAction, len(q.queue))
	for i, a := range q.queue {
		copied := *a
		out[i] = &copied
	}
	return out, nil
}

func (q *memQueue) Remove(_ context.Context, id string) error {
	q.mu.Lock()
	kept := q.queue[:0]
	for _, a := range q.queue {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	q.queue = kept
	q.mu.Unlock()
	return nil
}

func (q *memQueue) SetRetries(_ context.Context, id string, retries int) error {
	q.mu.Lock()
	for _, a := range q.queue {
		if a.ID == id {
			a.Retries = retries
		}
	}
	q.mu.Unlock()
	return nil
}

func (q *memQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue), nil
}

type memCache memLocalStore

func (c *memCache) SaveSession(_ context.Context, session *domain.FastingSession) error {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return nil
}

func (c *memCache) LoadSession(_ context.Context) (*domain.FastingSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session, nil
}

func (c *memCache) ClearSession(_ context.Context) error {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
	return nil
}

func (c *memCache) SaveSchedules(_ context.Context, fasts []*domain.ScheduledFast) error {
	c.mu.Lock()
	c.schedules = append([]*domain.ScheduledFast(nil), fasts...)
	c.mu.Unlock()
	return nil
}

func (c *memCache) LoadSchedules(_ context.Context) ([]*domain.ScheduledFast, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domain.ScheduledFast(nil), c.schedules...), nil
}

func (c *memCache) SetLastSync(_ context.Context, at time.Time) error {
	c.mu.Lock()
	c.lastSync = at
	c.mu.Unlock()
	return nil
}

func (c *memCache) LastSync(_ context.Context) (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync, nil
}

// fakeAPI records every request in order and serves canned state. A
// call whose "<METHOD> <resource>" key is in failures returns an error.
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	failures map[string]bool
	gates    map[string]*callGate
	clock    *fakeClock

	active    *domain.FastingSession
	schedules []*domain.ScheduledFast
	recent    []*domain.FastingSession
	stats     domain.FastingStats
	endCount  int
}

func newFakeAPI(clock *fakeClock) *fakeAPI {
	return &fakeAPI{failures: make(map[string]bool), clock: clock}
}

func (a *fakeAPI) Sessions() ports.SessionResource   { return (*fakeSessions)(a) }
func (a *fakeAPI) Schedules() ports.ScheduleResource { return (*fakeSchedules)(a) }
func (a *fakeAPI) Weights() ports.WeightResource     { return (*fakeWeights)(a) }
func (a *fakeAPI) Metrics() ports.MetricResource     { return (*fakeMetrics)(a) }
func (a *fakeAPI) Profile() ports.ProfileResource    { return (*fakeProfile)(a) }
func (a *fakeAPI) Ping(context.Context) error        { return nil }

// callGate holds one request open: entered closes when the call is in
// flight, and the call returns only after the test closes release.
type callGate struct {
	entered chan struct{}
	release chan struct{}
}

// gate arms a one-shot gate for the next call with the given key.
func (a *fakeAPI) gate(key string) *callGate {
	a.mu.Lock()
	defer a.mu.Unlock()
	g := &callGate{entered: make(chan struct{}), release: make(chan struct{})}
	if a.gates == nil {
		a.gates = make(map[string]*callGate)
	}
	a.gates[key] = g
	return g
}

func (a *fakeAPI) call(key string) error {
	a.mu.Lock()
	a.calls = append(a.calls, key)
	fail := a.failures[key]
	g := a.gates[key]
	delete(a.gates, key)
	a.mu.Unlock()
	if g != nil {
		close(g.entered)
		<-g.release
	}
	if fail {
		return errors.New("injected failure: " + key)
	}
	return nil
}

func (a *fakeAPI) callLog() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *fakeAPI) countCalls(key string) int {
	n := 0
	for _, c := range a.callLog() {
		if c == key {
			n++
		}
	}
	return n
}

type fakeSessions fakeAPI

func (f *fakeSessions) Create(_ context.Context, session *domain.FastingSession) (*domain.FastingSession, error) {
	if err := (*fakeAPI)(f).call("CREATE session"); err != nil {
		return nil, err
	}
	created := *session
	if domain.IsTempID(created.ID) || created.ID == "" {
		created.ID = fmt.Sprintf("srv-%d", len(f.calls))
	}
	f.mu.Lock()
	if created.IsActive() {
		f.active = &created
	}
	f.mu.Unlock()
	return &created, nil
}

func (f *fakeSessions) End(_ context.Context, id string) (*domain.FastingSession, error) {
	if err := (*fakeAPI)(f).call("END session"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCount++
	if f.active != nil && f.active.ID == id {
		f.active.Complete(f.clock.Now())
		done := *f.active
		f.active = nil
		return &done, nil
	}
	// Idempotent: ending an unknown/ended session returns a completed
	// record rather than failing.
	done := &domain.FastingSession{ID: id, Status: domain.SessionStatusCompleted}
	return done, nil
}

func (f *fakeSessions) Cancel(_ context.Context, id string) (*domain.FastingSession, error) {
	if err := (*fakeAPI)(f).call("CANCEL session"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active != nil && f.active.ID == id {
		f.active.Cancel(f.clock.Now())
		done := *f.active
		f.active = nil
		return &done, nil
	}
	return &domain.FastingSession{ID: id, Status: domain.SessionStatusCancelled}, nil
}

func (f *fakeSessions) Update(_ context.Context, id string, session *domain.FastingSession) (*domain.FastingSession, error) {
	if err := (*fakeAPI)(f).call("UPDATE session"); err != nil {
		return nil, err
	}
	updated := *session
	updated.ID = id
	f.mu.Lock()
	if f.active != nil && f.active.ID == id {
		if updated.IsActive() {
			f.active = &updated
		} else {
			f.active = nil
		}
	}
	f.mu.Unlock()
	return &updated, nil
}

func (f *fakeSessions) Active(context.Context) (*domain.FastingSession, error) {
	if err := (*fakeAPI)(f).call("ACTIVE session"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		return nil, nil
	}
	copied := *f.active
	return &copied, nil
}

func (f *fakeSessions) Recent(_ context.Context, limit int) ([]*domain.FastingSession, error) {
	if err := (*fakeAPI)(f).call("RECENT session"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]*domain.FastingSession(nil), f.recent...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessions) Stats(context.Context) (*domain.FastingStats, error) {
	if err := (*fakeAPI)(f).call("STATS session"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := f.stats
	return &stats, nil
}

type fakeSchedules fakeAPI

func (f *fakeSchedules) Create(_ context.Context, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	if err := (*fakeAPI)(f).call("CREATE scheduled"); err != nil {
		return nil, err
	}
	created := *fast
	f.mu.Lock()
	f.schedules = append(f.schedules, &created)
	f.mu.Unlock()
	return &created, nil
}

func (f *fakeSchedules) Update(_ context.Context, id string, fast *domain.ScheduledFast) (*domain.ScheduledFast, error) {
	if err := (*fakeAPI)(f).call("UPDATE scheduled"); err != nil {
		return nil, err
	}
	updated := *fast
	updated.ID = id
	f.mu.Lock()
	for i, sf := range f.schedules {
		if sf.ID == id {
			f.schedules[i] = &updated
		}
	}
	f.mu.Unlock()
	return &updated, nil
}

func (f *fakeSchedules) Delete(_ context.Context, id string) error {
	if err := (*fakeAPI)(f).call("DELETE scheduled"); err != nil {
		return err
	}
	f.mu.Lock()
	kept := f.schedules[:0]
	for _, sf := range f.schedules {
		if sf.ID != id {
			kept = append(kept, sf)
		}
	}
	f.schedules = kept
	f.mu.Unlock()
	return nil
}

func (f *fakeSchedules) List(context.Context) ([]*domain.ScheduledFast, error) {
	if err := (*fakeAPI)(f).call("LIST scheduled"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.ScheduledFast(nil), f.schedules...), nil
}

func (f *fakeSchedules) Upcoming(ctx context.Context) ([]*domain.ScheduledFast, error) {
	if err := (*fakeAPI)(f).call("UPCOMING scheduled"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.ScheduledFast(nil), f.schedules...), nil
}

type fakeWeights fakeAPI

func (f *fakeWeights) Create(_ context.Context, entry *domain.WeightEntry) (*domain.WeightEntry, error) {
	if err := (*fakeAPI)(f).call("CREATE weight"); err != nil {
		return nil, err
	}
	return entry, nil
}

func (f *fakeWeights) Update(_ context.Context, id string, entry *domain.WeightEntry) (*domain.WeightEntry, error) {
	if err := (*fakeAPI)(f).call("UPDATE weight"); err != nil {
		return nil, err
	}
	return entry, nil
}

func (f *fakeWeights) Delete(_ context.Context, id string) error {
	return (*fakeAPI)(f).call("DELETE weight")
}

func (f *fakeWeights) List(context.Context) ([]*domain.WeightEntry, error) {
	if err := (*fakeAPI)(f).call("LIST weight"); err != nil {
		return nil, err
	}
	return nil, nil
}

type fakeMetrics fakeAPI

func (f *fakeMetrics) Create(_ context.Context, metric *domain.HealthMetric) (*domain.HealthMetric, error) {
	if err := (*fakeAPI)(f).call("CREATE metric"); err != nil {
		return nil, err
	}
	return metric, nil
}

func (f *fakeMetrics) Update(_ context.Context, id string, metric *domain.HealthMetric) (*domain.HealthMetric, error) {
	if err := (*fakeAPI)(f).call("UPDATE metric"); err != nil {
		return nil, err
	}
	return metric, nil
}

func (f *fakeMetrics) Delete(_ context.Context, id string) error {
	return (*fakeAPI)(f).call("DELETE metric")
}

func (f *fakeMetrics) List(context.Context) ([]*domain.HealthMetric, error) {
	if err := (*fakeAPI)(f).call("LIST metric"); err != nil {
		return nil, err
	}
	return nil, nil
}

type fakeProfile fakeAPI

func (f *fakeProfile) Get(context.Context) (*domain.Profile, error) {
	if err := (*fakeAPI)(f).call("GET profile"); err != nil {
		return nil, err
	}
	return &domain.Profile{}, nil
}

func (f *fakeProfile) Update(_ context.Context, profile *domain.Profile) (*domain.Profile, error) {
	if err := (*fakeAPI)(f).call("UPDATE profile"); err != nil {
		return nil, err
	}
	return profile, nil
}

// newTestStack wires a lifecycle with fakes, online by default, with
// the background tick loop effectively disabled so tests drive ticks
// manually through Tick().
func newTestStack(start time.Time) (*Lifecycle, *SyncService, *fakeAPI, *fakeConn, *memLocalStore, *fakeNotifier, *fakeClock) {
	clock := newFakeClock(start)
	api := newFakeAPI(clock)
	conn := &fakeConn{online: true}
	notifier := &fakeNotifier{}
	local := newMemLocalStore()

	syncSvc := NewSyncService(api, local, conn, notifier)
	syncSvc.SetClock(clock.Now)

	lifecycle := NewLifecycle(api, local, syncSvc, conn, notifier)
	lifecycle.SetClock(clock.Now)
	lifecycle.SetTickInterval(time.Hour)

	return lifecycle, syncSvc, api, conn, local, notifier, clock
}
