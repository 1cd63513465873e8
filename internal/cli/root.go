package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "calmband",
	Short: "Calmband - wrist-worn mindfulness companion core",
	Long: `Calmband watches a live heart-rate stream, derives a rolling stress
estimate, fires haptic nudges when stress crosses the configured
threshold, and mines the accumulated nudge history for behavioral
insights.

Without wearable hardware attached it runs against simulated
heart-rate scenarios or recorded sample files, broadcasting live
state to presentation clients over WebSocket, SSE and UDP.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(listScenariosCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
