package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/synheart/calmband/internal/encoding"
	"github.com/synheart/calmband/internal/health"
	"github.com/synheart/calmband/internal/models"
	"github.com/synheart/calmband/internal/monitor"
	"github.com/synheart/calmband/internal/recorder"
	"github.com/synheart/calmband/internal/scenario"
	"github.com/synheart/calmband/internal/store"
	"github.com/synheart/calmband/internal/stressmodel"
)

var (
	monitorHost        string
	monitorPort        int
	monitorScenario    string
	monitorDuration    string
	monitorRate        string
	monitorSeed        int64
	monitorStateDir    string
	monitorFormat      string
	monitorSensitivity string
	monitorInterval    float64
	monitorOut         string
	monitorModel       string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Start stress monitoring against a simulated heart-rate session",
	Long: `Runs the full monitoring loop over a scenario-driven simulated heart
source: samples feed the stress aggregator, the trigger policy fires
haptic nudges, and the insight engine periodically mines the event
history. Live state is broadcast on WebSocket/SSE/UDP and all state
persists under the state directory.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorHost, "host", "127.0.0.1", "Host to bind to")
	monitorCmd.Flags().IntVar(&monitorPort, "port", 8790, "WebSocket port (SSE uses port+1, UDP port+2)")
	monitorCmd.Flags().StringVar(&monitorScenario, "scenario", "baseline", "Scenario to run")
	monitorCmd.Flags().StringVar(&monitorDuration, "duration", "", "Duration to run (e.g., 30m, 1h)")
	monitorCmd.Flags().StringVar(&monitorRate, "rate", "", "Sample rate override (e.g., 1hz)")
	monitorCmd.Flags().Int64Var(&monitorSeed, "seed", time.Now().UnixNano(), "Random seed for deterministic output")
	monitorCmd.Flags().StringVar(&monitorStateDir, "state-dir", ".calmband", "Directory for persisted state")
	monitorCmd.Flags().StringVar(&monitorFormat, "format", "json", "Broadcast encoding: json|protobuf")
	monitorCmd.Flags().StringVar(&monitorSensitivity, "sensitivity", "", "Sensitivity override: light|medium|deep")
	monitorCmd.Flags().Float64Var(&monitorInterval, "reminder-interval", 0, "Reminder interval override in seconds [300,3600]")
	monitorCmd.Flags().StringVar(&monitorOut, "out", "", "Record samples to an NDJSON file")
	monitorCmd.Flags().StringVar(&monitorModel, "model", "", "Path to a wasm stress model")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	// Load scenarios
	registry := scenario.NewRegistry()
	if err := registry.LoadFromDir(getScenarioDir()); err != nil {
		return fmt.Errorf("failed to load scenarios: %w", err)
	}

	scen, err := registry.Get(monitorScenario)
	if err != nil {
		return fmt.Errorf("failed to load scenario '%s': %w", monitorScenario, err)
	}
	if monitorDuration != "" {
		scen.Duration = monitorDuration
	}

	// Resolve sample rate: flag wins, then scenario, then 1hz
	rateSpec := monitorRate
	if rateSpec == "" {
		rateSpec = scen.SampleRate
	}
	if rateSpec == "" {
		rateSpec = "1hz"
	}
	sampleRate, err := parseSampleRate(rateSpec)
	if err != nil {
		return fmt.Errorf("invalid rate: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Create the simulated health source
	var source health.Source = health.NewSimulator(scenario.NewEngine(scen), health.SimConfig{
		Seed: monitorSeed,
		Rate: sampleRate,
	})

	if monitorOut != "" {
		rec, err := recorder.NewRecorder(monitorOut)
		if err != nil {
			return fmt.Errorf("failed to create recording: %w", err)
		}
		defer rec.Close()
		source = health.NewRecordingSource(source, rec)
		fmt.Printf("Recording:   %s\n", monitorOut)
	}

	blob, err := store.NewFileStore(monitorStateDir)
	if err != nil {
		return fmt.Errorf("failed to open state directory: %w", err)
	}

	opts := monitor.Options{
		Source: source,
		Driver: newDriver(),
		Blob:   blob,
		Seed:   monitorSeed,
	}

	// Optional wasm stress model
	if monitorModel != "" {
		engine, err := stressmodel.NewEngine(ctx, monitorModel)
		if err != nil {
			return fmt.Errorf("failed to load stress model: %w", err)
		}
		defer engine.Close(context.Background())
		opts.Stress = engine.StressFunc(ctx)
		fmt.Printf("Model:       %s\n", monitorModel)
	}

	mon := monitor.New(opts)
	if err := applyOverrides(mon); err != nil {
		return err
	}

	enc := encoding.NewEncoder(encoding.Format(monitorFormat))
	ws := serveMonitor(ctx, mon, enc, monitorHost, monitorPort)

	fmt.Printf("Scenario:    %s (%s)\n", scen.Name, scen.Description)
	fmt.Printf("Sensitivity: %s\n", mon.Config().Sensitivity)
	fmt.Printf("State:       %s\n", monitorStateDir)
	fmt.Printf("Live:        %s\n\n", ws.Address())
	fmt.Println("Monitoring... press Ctrl+C to stop")

	if err := mon.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("monitor error: %w", err)
	}

	fmt.Println("\nShutdown complete")
	return nil
}

// applyOverrides pushes flag-level config overrides into the monitor
func applyOverrides(mon *monitor.Monitor) error {
	if monitorSensitivity != "" {
		mode, err := models.ParseSensitivity(monitorSensitivity)
		if err != nil {
			return err
		}
		mon.SetSensitivity(mode)
	}
	if monitorInterval != 0 {
		mon.SetReminderInterval(monitorInterval)
	}
	return nil
}
