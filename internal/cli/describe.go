package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synheart/calmband/internal/scenario"
)

var describeCmd = &cobra.Command{
	Use:   "describe <scenario>",
	Short: "Describe a scenario in detail",
	Long:  `Shows a scenario's heart-rate configuration and phase timeline.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	scenarioName := args[0]

	// Load scenarios
	registry := scenario.NewRegistry()
	if err := registry.LoadFromDir(getScenarioDir()); err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}

	scen, err := registry.Get(scenarioName)
	if err != nil {
		return fmt.Errorf("scenario not found: %w", err)
	}

	fmt.Printf("Scenario: %s\n", scen.Name)
	fmt.Printf("Description: %s\n", scen.Description)
	fmt.Printf("Duration: %s\n", scen.Duration)
	fmt.Printf("Sample Rate: %s\n\n", scen.SampleRate)

	fmt.Println("Heart rate:")
	fmt.Printf("  Baseline: %.0f bpm\n", scen.HeartRate.Baseline)
	fmt.Printf("  Noise: %.1f\n", scen.HeartRate.Noise)

	if len(scen.Phases) > 0 {
		fmt.Println("\nPhases:")
		for i, phase := range scen.Phases {
			fmt.Printf("  %d. %s (duration: %s)", i+1, phase.Name, phase.Duration)
			if phase.Add != 0 {
				fmt.Printf(" add=%.1f", phase.Add)
			}
			if phase.Multiply != 0 {
				fmt.Printf(" multiply=%.1f", phase.Multiply)
			}
			if phase.Active {
				fmt.Printf(" active")
			}
			fmt.Println()
		}
	}

	fmt.Println()
	return nil
}
