package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/mzavel/fasting-cli/internal/domain"
	"github.com/mzavel/fasting-cli/internal/services"
)

var (
	scheduleType     string
	scheduleStart    string
	scheduleEnd      string
	scheduleHours    float64
	scheduleRecur    string
	scheduleInterval int
	scheduleRemind   int
	scheduleNotes    string
	scheduleFilter   string
)

// scheduleCmd represents the schedule command group
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage scheduled fasts",
	Long: `Manage scheduled fasts. A scheduled fast in its start window is
picked up automatically by "fasting watch".`,
}

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Schedule a fast",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		if scheduleStart == "" {
			return fmt.Errorf("--start is required")
		}
		start, err := parseTimeFlag(scheduleStart, time.Now())
		if err != nil {
			return err
		}

		var end time.Time
		switch {
		case scheduleEnd != "":
			end, err = parseTimeFlag(scheduleEnd, time.Now())
			if err != nil {
				return err
			}
		case scheduleHours > 0:
			end = start.Add(time.Duration(scheduleHours * float64(time.Hour)))
		default:
			fastType := domain.FastType(scheduleType)
			hours := domain.TargetHoursFor(fastType)
			if hours <= 0 {
				return fmt.Errorf("pass --end or --hours for a %s fast", scheduleType)
			}
			end = start.Add(time.Duration(hours * float64(time.Hour)))
		}

		req := services.CreateScheduleRequest{
			Type:            domain.FastType(scheduleType),
			ScheduledStart:  start,
			ScheduledEnd:    end,
			ReminderMinutes: scheduleRemind,
			Notes:           scheduleNotes,
		}
		if scheduleRecur != "" {
			recurrence, err := parseRecurrence(scheduleRecur, scheduleInterval)
			if err != nil {
				return err
			}
			req.IsRecurring = true
			req.Recurrence = recurrence
		}

		fast, err := app.schedules.Create(ctx, req)
		if err != nil {
			return err
		}

		fmt.Printf("📅 Scheduled %s fast for %s (%.0fh)\n",
			domain.GetFastTypeLabel(fast.Type),
			fast.ScheduledStart.Local().Format("Mon Jan 2 15:04"),
			fast.TargetHours())
		if fast.IsRecurring {
			fmt.Printf("   Repeats %s\n", scheduleRecur)
		}
		reportQueued(ctx)
		return nil
	},
}

var scheduleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled fasts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		fasts, err := app.schedules.List(ctx)
		if err != nil {
			return err
		}
		if scheduleFilter != "" {
			fasts = filterSchedules(fasts, scheduleFilter)
		}
		if len(fasts) == 0 {
			fmt.Println("No scheduled fasts.")
			return nil
		}

		for _, fast := range fasts {
			recur := ""
			if fast.IsRecurring && fast.Recurrence != nil {
				recur = " ↻ " + string(fast.Recurrence.Frequency)
			}
			fmt.Printf("%s  %s  %-18s %.0fh%s\n",
				fast.ID,
				fast.ScheduledStart.Local().Format("Mon Jan 2 15:04"),
				domain.GetFastTypeLabel(fast.Type),
				fast.TargetHours(),
				recur)
			if fast.Notes != "" {
				fmt.Printf("    %s\n", fast.Notes)
			}
		}
		return nil
	},
}

var scheduleDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a scheduled fast",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		if err := app.schedules.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("🗑  Scheduled fast deleted.")
		reportQueued(ctx)
		return nil
	},
}

var scheduleSkipCmd = &cobra.Command{
	Use:   "skip <id>",
	Short: "Skip the next occurrence of a schedule",
	Long: `Skip the next occurrence of a schedule so the watcher will not
auto-start it. Recurring schedules resume at the following occurrence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := setupSignalHandler()

		fasts, err := app.schedules.List(ctx)
		if err != nil {
			return err
		}
		for _, fast := range fasts {
			if fast.ID == args[0] {
				if err := app.monitor.SkipOccurrence(ctx, fast.ID, fast.ScheduledStart); err != nil {
					return err
				}
				fmt.Printf("⏭  Skipping the %s occurrence.\n",
					fast.ScheduledStart.Local().Format("Mon Jan 2 15:04"))
				return nil
			}
		}
		return fmt.Errorf("no scheduled fast with id %q", args[0])
	},
}

// filterSchedules fuzzy-matches against the type, notes and start time
// of each schedule.
func filterSchedules(fasts []*domain.ScheduledFast, pattern string) []*domain.ScheduledFast {
	haystack := make([]string, len(fasts))
	for i, fast := range fasts {
		haystack[i] = strings.Join([]string{
			string(fast.Type),
			fast.Notes,
			fast.ScheduledStart.Local().Format("Mon Jan 2 15:04"),
		}, " ")
	}
	matches := fuzzy.Find(pattern, haystack)
	result := make([]*domain.ScheduledFast, 0, len(matches))
	for _, m := range matches {
		result = append(result, fasts[m.Index])
	}
	return result
}

func parseRecurrence(frequency string, interval int) (*domain.RecurrencePattern, error) {
	switch domain.Frequency(frequency) {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyMonthly:
	default:
		return nil, fmt.Errorf("invalid recurrence %q (want daily, weekly or monthly)", frequency)
	}
	if interval < 1 {
		interval = 1
	}
	return &domain.RecurrencePattern{
		Frequency: domain.Frequency(frequency),
		Interval:  interval,
	}, nil
}

func init() {
	scheduleAddCmd.Flags().StringVarP(&scheduleType, "type", "t", "16:8", "Fast type: 16:8, 18:6, 24h, 36h, 48h, custom")
	scheduleAddCmd.Flags().StringVar(&scheduleStart, "start", "", "Start time (required)")
	scheduleAddCmd.Flags().StringVar(&scheduleEnd, "end", "", "End time (default: start + fast type target)")
	scheduleAddCmd.Flags().Float64Var(&scheduleHours, "hours", 0, "Fast length in hours (alternative to --end)")
	scheduleAddCmd.Flags().StringVar(&scheduleRecur, "recur", "", "Repeat: daily, weekly or monthly")
	scheduleAddCmd.Flags().IntVar(&scheduleInterval, "interval", 1, "Repeat every N periods")
	scheduleAddCmd.Flags().IntVar(&scheduleRemind, "remind", 0, "Reminder minutes before the start")
	scheduleAddCmd.Flags().StringVar(&scheduleNotes, "notes", "", "Notes for this schedule")

	scheduleListCmd.Flags().StringVar(&scheduleFilter, "filter", "", "Fuzzy filter over type, notes and start time")

	scheduleCmd.AddCommand(scheduleAddCmd)
	scheduleCmd.AddCommand(scheduleListCmd)
	scheduleCmd.AddCommand(scheduleDeleteCmd)
	scheduleCmd.AddCommand(scheduleSkipCmd)
}
