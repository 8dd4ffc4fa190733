package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push queued offline changes to the server",
	Long: `Push queued offline changes to the server. Changes also sync
automatically whenever connectivity returns.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		pending := app.syncSvc.Pending(ctx)
		if pending == 0 {
			fmt.Println("Nothing to sync.")
			if last, err := app.syncSvc.LastSync(ctx); err == nil && !last.IsZero() {
				fmt.Printf("Last sync: %s\n", last.Local().Format(time.RFC822))
			}
			return nil
		}

		if !app.conn.Online() {
			return fmt.Errorf("offline — %d change(s) will sync when the server is reachable", pending)
		}

		fmt.Printf("Syncing %d change(s)...\n", pending)
		if err := app.syncSvc.Sync(ctx); err != nil {
			return err
		}

		if remaining := app.syncSvc.Pending(ctx); remaining > 0 {
			fmt.Printf("⚠ %d change(s) still pending; they will be retried.\n", remaining)
			return nil
		}
		fmt.Println("✅ All changes synced.")
		return nil
	},
}
