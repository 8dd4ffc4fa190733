package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var metricUnit string

// metricCmd represents the metric command group
var metricCmd = &cobra.Command{
	Use:   "metric",
	Short: "Log and review health metrics",
	Long: `Log and review health metrics such as glucose or ketones:

  fasting metric add glucose 4.8 --unit mmol/L
  fasting metric add ketones 1.2 --unit mmol/L`,
}

var metricAddCmd = &cobra.Command{
	Use:   "add <kind> <value>",
	Short: "Log a metric reading",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value %q", args[1])
		}

		metric, err := app.health.LogMetric(ctx, args[0], value, metricUnit)
		if err != nil {
			return err
		}

		fmt.Printf("🩸 Logged %s %.2f %s at %s\n", metric.Kind, metric.Value, metric.Unit,
			metric.RecordedAt.Local().Format("Jan 2 15:04"))
		reportQueued(ctx)
		return nil
	},
}

var metricListCmd = &cobra.Command{
	Use:   "list",
	Short: "List metric readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		metrics, err := app.health.Metrics(ctx)
		if err != nil {
			return err
		}
		if len(metrics) == 0 {
			fmt.Println("No metric readings.")
			return nil
		}
		for _, m := range metrics {
			fmt.Printf("%s  %s  %-10s %8.2f %s\n", m.ID,
				m.RecordedAt.Local().Format("Jan 02 15:04"), m.Kind, m.Value, m.Unit)
		}
		return nil
	},
}

func init() {
	metricAddCmd.Flags().StringVar(&metricUnit, "unit", "", "Unit of the reading, e.g. mmol/L")

	metricCmd.AddCommand(metricAddCmd)
	metricCmd.AddCommand(metricListCmd)
}
