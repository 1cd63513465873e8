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
	"github.com/synheart/calmband/internal/monitor"
	"github.com/synheart/calmband/internal/store"
)

var (
	replayIn       string
	replaySpeed    float64
	replayLoop     bool
	replayHost     string
	replayPort     int
	replayStateDir string
	replayFormat   string
	replaySeed     int64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run monitoring over a recorded sample file",
	Long: `Replays a previously recorded heart-rate sample file through the
full monitoring loop, reproducing the original session.

Examples:
  calmband replay --in session.ndjson
  calmband replay --in session.ndjson --speed 10 --loop`,
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayIn, "in", "", "Input file to replay (required)")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayLoop, "loop", false, "Loop playback continuously")
	replayCmd.Flags().StringVar(&replayHost, "host", "127.0.0.1", "Host to bind to")
	replayCmd.Flags().IntVar(&replayPort, "port", 8790, "WebSocket port (SSE uses port+1, UDP port+2)")
	replayCmd.Flags().StringVar(&replayStateDir, "state-dir", ".calmband", "Directory for persisted state")
	replayCmd.Flags().StringVar(&replayFormat, "format", "json", "Broadcast encoding: json|protobuf")
	replayCmd.Flags().Int64Var(&replaySeed, "seed", time.Now().UnixNano(), "Random seed for deterministic output")
	replayCmd.MarkFlagRequired("in")
}

func runReplay(cmd *cobra.Command, args []string) error {
	source := health.NewReplaySource(replayIn, replaySpeed, replayLoop)

	count, err := source.Count()
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}

	blob, err := store.NewFileStore(replayStateDir)
	if err != nil {
		return fmt.Errorf("failed to open state directory: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mon := monitor.New(monitor.Options{
		Source: source,
		Driver: newDriver(),
		Blob:   blob,
		Seed:   replaySeed,
	})

	enc := encoding.NewEncoder(encoding.Format(replayFormat))
	ws := serveMonitor(ctx, mon, enc, replayHost, replayPort)

	fmt.Printf("Replaying:   %s (%d samples, %.1fx speed)\n", replayIn, count, replaySpeed)
	fmt.Printf("State:       %s\n", replayStateDir)
	fmt.Printf("Live:        %s\n\n", ws.Address())

	if err := mon.Run(ctx); err != nil && err != context.Canceled {
		return fmt.Errorf("monitor error: %w", err)
	}

	fmt.Println("\nShutdown complete")
	return nil
}
