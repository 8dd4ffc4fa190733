// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// Colors for the timer surface.
const (
	colorTitle   = "#FAFAFA"
	colorActive  = "#04B575"
	colorPaused  = "#FFA500"
	colorOffline = "#FF6B6B"
	colorHelp    = "#626262"
)

// Controller is the slice of the session lifecycle the TUI drives.
type Controller interface {
	PauseTimer() error
	ResumeTimer() error
	EndSession(ctx context.Context) (*domain.FastingSession, error)
	CancelSession(ctx context.Context) error
}

// tickMsg is sent on every timer tick.
type tickMsg time.Time

// stateMsg wraps an updated state fetched asynchronously.
type stateMsg struct {
	state *domain.CurrentState
}

// Model represents the TUI state.
type Model struct {
	state      *domain.CurrentState
	progress   progress.Model
	width      int
	height     int
	fetchState func() *domain.CurrentState
	controller Controller

	completed     *domain.FastingSession
	confirmEnd    bool
	confirmCancel bool
	lastError     error
}

// NewModel creates a new TUI model.
func NewModel(initialState *domain.CurrentState, controller Controller, fetchState func() *domain.CurrentState) Model {
	return Model{
		state:      initialState,
		progress:   progress.New(progress.WithDefaultGradient()),
		controller: controller,
		fetchState: fetchState,
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// fetchStateCmd returns a tea.Cmd that fetches state asynchronously.
func fetchStateCmd(fetch func() *domain.CurrentState) tea.Cmd {
	return func() tea.Msg {
		return stateMsg{state: fetch()}
	}
}

// timerColor picks the clock color for the current pause state.
func (m Model) timerColor() lipgloss.Color {
	if m.state.Timer != nil && m.state.Timer.Paused {
		return lipgloss.Color(colorPaused)
	}
	return lipgloss.Color(colorActive)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "p":
			m.confirmEnd = false
			m.confirmCancel = false
			if m.controller != nil && m.state.Timer != nil {
				if m.state.Timer.Paused {
					m.lastError = m.controller.ResumeTimer()
				} else {
					m.lastError = m.controller.PauseTimer()
				}
			}
		case "e":
			if m.completed != nil || !m.state.IsSessionActive() {
				return m, nil
			}
			if m.confirmEnd {
				m.confirmEnd = false
				if m.controller != nil {
					session, err := m.controller.EndSession(context.Background())
					m.lastError = err
					if err == nil {
						m.completed = session
					}
				}
				return m, nil
			}
			m.confirmEnd = true
			m.confirmCancel = false
		case "c":
			if m.completed != nil || !m.state.IsSessionActive() {
				return m, nil
			}
			if m.confirmCancel {
				m.confirmCancel = false
				if m.controller != nil {
					m.lastError = m.controller.CancelSession(context.Background())
					if m.lastError == nil {
						return m, tea.Quit
					}
				}
				return m, nil
			}
			m.confirmCancel = true
			m.confirmEnd = false
		default:
			m.confirmEnd = false
			m.confirmCancel = false
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 4

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if m.fetchState != nil {
			cmds = append(cmds, fetchStateCmd(m.fetchState))
		}
		return m, tea.Batch(cmds...)

	case stateMsg:
		if msg.state != nil {
			// The fast reached its target and was auto-ended between
			// ticks: switch to the completion screen.
			if m.completed == nil && m.state.IsSessionActive() && !msg.state.IsSessionActive() {
				m.completed = m.state.ActiveSession
			}
			m.state = msg.state
		}

	case *domain.CurrentState:
		m.state = msg
	}

	var cmd tea.Cmd
	newProgress, cmd := m.progress.Update(msg)
	if p, ok := newProgress.(progress.Model); ok {
		m.progress = p
	}
	return m, cmd
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle)).MarginBottom(1)
	sections = append(sections, titleStyle.Render("⏳ Fasting"))

	switch {
	case m.completed != nil:
		sections = m.viewComplete(sections)
	case m.state.IsSessionActive():
		sections = m.viewActiveFast(sections)
	default:
		sections = m.viewIdle(sections)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewIdle(sections []string) []string {
	idleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPaused))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHelp))

	sections = append(sections, idleStyle.Render("No active fast"))
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("Start one with: fasting start"))
	sections = append(sections, helpStyle.Render("[q]uit"))
	return sections
}

func (m Model) viewActiveFast(sections []string) []string {
	session := m.state.ActiveSession
	timer := m.state.Timer
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHelp))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHelp))

	sections = append(sections, statusStyle.Render(domain.GetFastTypeLabel(session.Type)))

	if timer != nil {
		sections = append(sections, "")
		sections = append(sections, renderBigClock(domain.FormatClock(timer.ElapsedSeconds), m.timerColor(), m.width))

		if timer.Paused {
			pauseBadge := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(colorPaused)).
				Padding(0, 1).
				Render("⏸ DISPLAY PAUSED")
			sections = append(sections, "")
			sections = append(sections, pauseBadge)
		}

		remaining := fmt.Sprintf("Remaining: %s · ends %s",
			domain.FormatClock(timer.RemainingSeconds),
			timer.TargetEnd.Local().Format("15:04"))
		sections = append(sections, "")
		sections = append(sections, statusStyle.Render(remaining))

		sections = append(sections, "")
		sections = append(sections, m.progress.ViewAs(timer.Progress()))
	}

	if !m.state.Online {
		offlineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorOffline))
		line := "⚠ offline"
		if m.state.PendingActions > 0 {
			line = fmt.Sprintf("⚠ offline · %d changes pending sync", m.state.PendingActions)
		}
		sections = append(sections, "")
		sections = append(sections, offlineStyle.Render(line))
	}

	if m.lastError != nil {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorOffline))
		sections = append(sections, "")
		sections = append(sections, errStyle.Render("Error: "+m.lastError.Error()))
	}

	sections = append(sections, "")
	switch {
	case m.confirmEnd:
		sections = append(sections, helpStyle.Render("End fast? [e] confirm  [esc] keep fasting"))
	case m.confirmCancel:
		sections = append(sections, helpStyle.Render("Cancel fast? [c] confirm  [esc] keep fasting"))
	default:
		pauseAction := "[p]ause display"
		if timer != nil && timer.Paused {
			pauseAction = "[p] resume display"
		}
		sections = append(sections, helpStyle.Render(fmt.Sprintf("%s  [e]nd  [c]ancel  [q]uit", pauseAction)))
	}
	return sections
}

func (m Model) viewComplete(sections []string) []string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorActive))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorHelp))

	session := m.completed
	sections = append(sections, "")
	if session != nil && session.EndTime != nil {
		fasted := session.EndTime.Sub(session.StartTime)
		sections = append(sections, statusStyle.Render(fmt.Sprintf("Fast complete — %s fasted", domain.FormatHours(int64(fasted/time.Second)))))
	} else {
		sections = append(sections, statusStyle.Render("Fast complete!"))
	}
	sections = append(sections, m.progress.ViewAs(1.0))
	sections = append(sections, "")
	sections = append(sections, helpStyle.Render("[q]uit"))
	return sections
}

// tickCmd creates a command that sends a tick message.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
