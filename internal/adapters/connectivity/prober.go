// Package connectivity tracks server reachability for the offline
// queue and the optimistic-update paths.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/mzavel/fasting-cli/internal/ports"
)

// DefaultProbeInterval is how often the background prober re-checks
// reachability.
const DefaultProbeInterval = 15 * time.Second

// Prober implements ports.Connectivity by pinging the server's health
// endpoint. State transitions fan out to subscribers, which is how the
// sync service learns about reconnects.
type Prober struct {
	mu     sync.Mutex
	online bool
	known  bool
	subs   []func(online bool)

	api      ports.API
	interval time.Duration
}

// Ensure Prober implements ports.Connectivity.
var _ ports.Connectivity = (*Prober)(nil)

// New creates a connectivity prober.
func New(api ports.API) *Prober {
	return &Prober{
		api:      api,
		interval: DefaultProbeInterval,
	}
}

// SetInterval overrides the probe period (tests).
func (p *Prober) SetInterval(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.interval = d
}

// Online returns the last observed reachability. Before the first probe
// completes the device is assumed online so startup calls try the
// server and fall back to the queue on failure.
func (p *Prober) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.known {
		return true
	}
	return p.online
}

// Subscribe registers a transition callback. Callbacks fire on every
// online/offline flip, not on repeated probes with the same result.
func (p *Prober) Subscribe(fn func(online bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

// Probe checks reachability once and records the result.
func (p *Prober) Probe(ctx context.Context) bool {
	online := p.api.Ping(ctx) == nil
	p.set(online)
	return online
}

// Run probes on a fixed interval until the context is cancelled.
func (p *Prober) Run(ctx context.Context) error {
	p.Probe(ctx)

	p.mu.Lock()
	interval := p.interval
	p.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// set records a probe result and notifies subscribers on transitions.
func (p *Prober) set(online bool) {
	p.mu.Lock()
	changed := !p.known || p.online != online
	p.known = true
	p.online = online
	subs := append([]func(bool){}, p.subs...)
	p.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range subs {
		fn(online)
	}
}
