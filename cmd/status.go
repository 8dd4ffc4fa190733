package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current fasting status",
	Long:  `Show the active fast, elapsed and remaining time, and sync state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		// Best effort: the cached snapshot still renders offline.
		_, _ = app.lifecycle.FetchActiveSession(ctx)
		_ = app.lifecycle.RefreshHistory(ctx)

		state, err := app.state.GetCurrentState(ctx)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printStatusJSON(state)
		}
		printStatusText(ctx, state)
		return nil
	},
}

func printStatusJSON(state *domain.CurrentState) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func printStatusText(ctx context.Context, state *domain.CurrentState) {
	if !state.IsSessionActive() {
		fmt.Println("No active fast. Start one with \"fasting start\".")
	} else {
		session := state.ActiveSession
		timer := state.Timer
		fmt.Printf("⏳ %s fast in progress\n", domain.GetFastTypeLabel(session.Type))
		fmt.Printf("   Started:   %s\n", session.StartTime.Local().Format("Mon Jan 2 15:04"))
		fmt.Printf("   Elapsed:   %s\n", domain.FormatClock(timer.ElapsedSeconds))
		fmt.Printf("   Remaining: %s (ends %s)\n",
			domain.FormatClock(timer.RemainingSeconds),
			timer.TargetEnd.Local().Format("15:04"))
		fmt.Printf("   Progress:  %.0f%%\n", timer.Progress()*100)
		if session.Notes != "" {
			fmt.Printf("   Notes:     %s\n", session.Notes)
		}
	}

	fmt.Println()
	if state.Online {
		fmt.Println("🟢 Online")
	} else {
		fmt.Println("🔴 Offline — changes are queued locally")
	}
	if state.PendingActions > 0 {
		fmt.Printf("   %d change(s) pending sync\n", state.PendingActions)
	}
	if last, err := app.syncSvc.LastSync(ctx); err == nil && !last.IsZero() {
		fmt.Printf("   Last sync: %s\n", last.Local().Format(time.RFC822))
	}
}
