package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/adapters/tui"
	"github.com/mzavel/fasting-cli/internal/domain"
)

// timerCmd represents the timer command
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Open the live fasting timer",
	Long: `Open the full-screen fasting timer. Keys: p pauses the display
(the fast keeps running), e ends the fast, c cancels it, q quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()
		_, _ = app.lifecycle.FetchActiveSession(ctx)
		return runTimerUI(ctx)
	},
}

// runTimerUI launches the interactive timer. Shared by the timer and
// start commands.
func runTimerUI(ctx context.Context) error {
	if !term.IsTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("the timer needs an interactive terminal; use \"fasting status\" instead")
	}

	fetchState := func() *domain.CurrentState {
		state, err := app.state.GetCurrentState(context.Background())
		if err != nil {
			return nil
		}
		return state
	}

	initial := fetchState()
	if initial == nil {
		initial = &domain.CurrentState{Online: app.conn.Online()}
	}

	return tui.NewTimer().Run(ctx, initial, app.lifecycle, fetchState)
}
