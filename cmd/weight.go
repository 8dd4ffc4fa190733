package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var weightNotes string

// weightCmd represents the weight command group
var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Log and review body weight",
}

var weightAddCmd = &cobra.Command{
	Use:   "add <kg>",
	Short: "Log a weight measurement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		kg, err := strconv.ParseFloat(args[0], 64)
		if err != nil || kg <= 0 {
			return fmt.Errorf("invalid weight %q (want kilograms, e.g. 82.4)", args[0])
		}

		entry, err := app.health.LogWeight(ctx, kg, weightNotes)
		if err != nil {
			return err
		}

		fmt.Printf("⚖️  Logged %.1f kg at %s\n", entry.WeightKg,
			entry.RecordedAt.Local().Format("Jan 2 15:04"))
		reportQueued(ctx)
		return nil
	},
}

var weightListCmd = &cobra.Command{
	Use:   "list",
	Short: "List weight measurements",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		entries, err := app.health.Weights(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No weight entries.")
			return nil
		}
		for _, entry := range entries {
			fmt.Printf("%s  %s  %6.1f kg", entry.ID,
				entry.RecordedAt.Local().Format("Jan 02 15:04"), entry.WeightKg)
			if entry.Notes != "" {
				fmt.Printf("  %s", entry.Notes)
			}
			fmt.Println()
		}
		return nil
	},
}

var weightDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a weight measurement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		if err := app.health.DeleteWeight(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("🗑  Weight entry deleted.")
		reportQueued(ctx)
		return nil
	},
}

func init() {
	weightAddCmd.Flags().StringVar(&weightNotes, "notes", "", "Notes for this measurement")

	weightCmd.AddCommand(weightAddCmd)
	weightCmd.AddCommand(weightListCmd)
	weightCmd.AddCommand(weightDeleteCmd)
}
