package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
)

var editStart string

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the active fast",
	Long: `Edit the active fast. Currently the start time can be moved, e.g.
when the fast was started late:

  fasting edit --start 19:30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		if editStart == "" {
			return fmt.Errorf("nothing to edit: pass --start")
		}
		newStart, err := parseTimeFlag(editStart, time.Now())
		if err != nil {
			return err
		}

		_, _ = app.lifecycle.FetchActiveSession(ctx)
		session, err := app.lifecycle.UpdateStartTime(ctx, newStart)
		if err != nil {
			return err
		}

		timer := app.lifecycle.Timer()
		fmt.Printf("✏️  Start time moved to %s — elapsed is now %s\n",
			session.StartTime.Local().Format("Jan 2 15:04"),
			domain.FormatClock(timer.ElapsedSeconds))
		reportQueued(ctx)
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editStart, "start", "", "New start time, e.g. \"19:30\" or \"2026-08-28 19:30\"")
}
