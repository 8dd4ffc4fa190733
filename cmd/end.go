package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// endCmd represents the end command
var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End the active fast",
	Long:  `End the active fast and record it as completed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		_, _ = app.lifecycle.FetchActiveSession(ctx)
		session, err := app.lifecycle.EndSession(ctx)
		if err != nil {
			return err
		}

		elapsed := int64(session.EffectiveEnd().Sub(session.StartTime).Seconds())
		fmt.Printf("✅ Fast ended after %s (target %gh)\n",
			domain.FormatHours(elapsed), session.TargetHours)
		reportQueued(ctx)
		return nil
	},
}

// cancelCmd represents the cancel command
var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the active fast",
	Long:  `Cancel the active fast without recording it in the completed history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		_, _ = app.lifecycle.FetchActiveSession(ctx)
		if err := app.lifecycle.CancelSession(ctx); err != nil {
			return err
		}

		fmt.Println("🗑  Fast cancelled.")
		reportQueued(ctx)
		return nil
	},
}

// reportQueued tells the user when a change is waiting for the server.
func reportQueued(ctx context.Context) {
	if app.conn.Online() {
		return
	}
	if pending := app.syncSvc.Pending(ctx); pending > 0 {
		fmt.Printf("   Offline — %d change(s) queued for sync.\n", pending)
	}
}
