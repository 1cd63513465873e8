package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synheart/calmband/internal/store"
)

var historyStateDir string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the persisted nudge history and insights",
	Long:  `Prints the haptic event log and generated insights from the state directory.`,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyStateDir, "state-dir", ".calmband", "Directory for persisted state")
}

func runHistory(cmd *cobra.Command, args []string) error {
	blob, err := store.NewFileStore(historyStateDir)
	if err != nil {
		return fmt.Errorf("failed to open state directory: %w", err)
	}

	events := store.NewEventLog(blob).Events()
	insights := store.NewInsightLog(blob).Insights()
	cfg := store.LoadConfig(blob)

	fmt.Printf("Sensitivity: %s   Monitoring: %v   Reminder interval: %.0fs\n\n",
		cfg.Sensitivity, cfg.MonitoringEnabled, cfg.ReminderInterval)

	if len(events) == 0 {
		fmt.Println("No recorded nudges")
	} else {
		fmt.Printf("Nudges (%d, newest first):\n", len(events))
		for _, ev := range events {
			ack := "-"
			if ev.Acknowledged {
				ack = "ack"
				if ev.ResponseTime != nil {
					ack = fmt.Sprintf("ack %.1fs", *ev.ResponseTime)
				}
			}
			fmt.Printf("  %s  %-12s hr=%3.0f stress=%.2f  %s\n",
				ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Kind, ev.HeartRate, ev.StressLevel, ack)
		}
	}

	fmt.Println()
	if len(insights) == 0 {
		fmt.Println("No insights yet")
		return nil
	}

	fmt.Printf("Insights (%d, newest first):\n", len(insights))
	for _, in := range insights {
		fmt.Printf("  [%.0f%%] %-14s %s\n", in.Confidence*100, in.Kind, in.Message)
	}
	return nil
}
