package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the schedule watcher",
	Long: `Run the schedule watcher in the foreground. It scans for scheduled
fasts whose start window has arrived and starts them automatically,
keeps connectivity probed, and drains the offline queue. Stop with
Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.Monitor.Enabled {
			return fmt.Errorf("the watcher is disabled in the config (monitor.enabled = false)")
		}

		ctx := setupSignalHandler()

		fmt.Printf("👁  Watching schedules (scan every %s). Ctrl-C to stop.\n",
			time.Duration(app.config.Monitor.ScanInterval))

		go func() {
			_ = app.conn.Run(ctx)
		}()

		if err := app.monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		fmt.Println("Watcher stopped.")
		return nil
	},
}
