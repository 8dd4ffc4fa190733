package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/services"
)

var (
	startType    string
	startHours   float64
	startNotes   string
	startAt      string
	startNoTimer bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a fasting session",
	Long: `Start a new fasting session. The fast type picks the target window
(16:8, 18:6, 24h, 36h, 48h); custom fasts take --hours. Use --at to
backdate the start, e.g. when you actually stopped eating earlier.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		// Adopt any fast the server already knows about before deciding.
		_, _ = app.lifecycle.FetchActiveSession(ctx)
		if active := app.lifecycle.Active(); active != nil && active.IsActive() {
			return fmt.Errorf("a %s fast is already running since %s; end it first with \"fasting end\"",
				active.Type, active.StartTime.Local().Format("Jan 2 15:04"))
		}

		fastType := domain.FastType(startType)
		if startType == "" {
			fastType = domain.FastType(app.config.Fasting.DefaultType)
		}

		req := services.StartSessionRequest{
			Type:        fastType,
			TargetHours: startHours,
			Notes:       startNotes,
		}
		if startAt != "" {
			at, err := parseTimeFlag(startAt, time.Now())
			if err != nil {
				return err
			}
			req.StartTime = &at
		}

		session, err := app.lifecycle.StartSession(ctx, req)
		if err != nil {
			return err
		}

		fmt.Printf("⏳ Fast started: %s until %s\n",
			domain.GetFastTypeLabel(session.Type),
			session.TargetEnd().Local().Format("Jan 2 15:04"))
		if domain.IsTempID(session.ID) {
			fmt.Println("   Offline — the fast will sync when the server is reachable.")
		}

		if startNoTimer {
			return nil
		}
		return runTimerUI(ctx)
	},
}

func init() {
	startCmd.Flags().StringVarP(&startType, "type", "t", "", "Fast type: 16:8, 18:6, 24h, 36h, 48h, custom (default: from config)")
	startCmd.Flags().Float64Var(&startHours, "hours", 0, "Target hours (required for custom fasts)")
	startCmd.Flags().StringVar(&startNotes, "notes", "", "Notes for this fast")
	startCmd.Flags().StringVar(&startAt, "at", "", "Start time, e.g. \"20:30\" or \"2026-08-28 20:30\" (default: now)")
	startCmd.Flags().BoolVar(&startNoTimer, "no-timer", false, "Do not open the live timer after starting")
}
