package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show fasting statistics",
	Long:  `Show aggregate fasting statistics and the most recent fasts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		if err := app.lifecycle.RefreshHistory(ctx); err != nil {
			return err
		}
		stats := app.lifecycle.Stats()
		if stats == nil {
			return fmt.Errorf("no statistics available (are you offline?)")
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		fmt.Println("📊 Fasting statistics")
		fmt.Printf("   Total fasts:     %d (%d completed)\n", stats.TotalSessions, stats.CompletedSessions)
		fmt.Printf("   Total hours:     %.1f\n", stats.TotalHours)
		fmt.Printf("   Longest fast:    %.1fh\n", stats.LongestHours)
		fmt.Printf("   Average fast:    %.1fh\n", stats.AverageHours)
		fmt.Printf("   Current streak:  %d day(s)\n", stats.CurrentStreakDays)

		recent := app.lifecycle.Recent()
		if len(recent) == 0 {
			return nil
		}
		fmt.Println("\nRecent fasts:")
		for _, s := range recent {
			elapsed := int64(s.EffectiveEnd().Sub(s.StartTime).Seconds())
			fmt.Printf("   %s  %-18s %8s  %s\n",
				s.StartTime.Local().Format("Jan 02"),
				domain.GetFastTypeLabel(s.Type),
				domain.FormatHours(elapsed),
				domain.GetStatusLabel(s.Status))
		}
		return nil
	},
}
