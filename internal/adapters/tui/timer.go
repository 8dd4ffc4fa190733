package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// Timer runs the interactive fasting timer.
type Timer struct {
	program *tea.Program
	mu      sync.RWMutex
	cancel  context.CancelFunc
}

// NewTimer creates a new TUI timer adapter.
func NewTimer() *Timer {
	return &Timer{}
}

// Run starts the timer interface and blocks until the user quits.
func (t *Timer) Run(ctx context.Context, initialState *domain.CurrentState, controller Controller, fetchState func() *domain.CurrentState) error {
	model := NewModel(initialState, controller, fetchState)

	t.mu.Lock()
	t.program = tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	t.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	t.mu.Lock()
	t.cancel = cancel
	t.mu.Unlock()
	defer cancel()

	go func() {
		<-runCtx.Done()
		t.mu.RLock()
		program := t.program
		t.mu.RUnlock()
		if program != nil {
			program.Quit()
		}
	}()

	if _, err := t.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	if t.program != nil {
		t.program.Quit()
	}
}

// UpdateState pushes a fresh state snapshot into the running program.
func (t *Timer) UpdateState(state *domain.CurrentState) {
	t.mu.RLock()
	program := t.program
	t.mu.RUnlock()

	if program != nil {
		program.Send(state)
	}
}
