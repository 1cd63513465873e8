package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/synheart/calmband/internal/scenario"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check environment and print connection info",
	Long:  `Validates the local environment, checks port availability, and provides connection examples.`,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("Calmband Environment Check")
	fmt.Println()

	fmt.Printf("Go Version:        %s\n", runtime.Version())
	fmt.Printf("OS/Arch:           %s/%s\n\n", runtime.GOOS, runtime.GOARCH)

	// Check scenarios directory
	scenariosDir := getScenarioDir()
	if _, err := os.Stat(scenariosDir); err == nil {
		fmt.Printf("OK scenarios directory found: %s\n", scenariosDir)

		registry := scenario.NewRegistry()
		if err := registry.LoadFromDir(scenariosDir); err == nil {
			scenarios := registry.List()
			fmt.Printf("   Found %d scenarios: %v\n\n", len(scenarios), scenarios)
		}
	} else {
		fmt.Printf("!! scenarios directory not found: %s\n\n", scenariosDir)
	}

	// Check default ports
	defaultPort := 8790
	for port := defaultPort; port <= defaultPort+2; port++ {
		if isPortAvailable(port) {
			fmt.Printf("OK port %d is available\n", port)
		} else {
			fmt.Printf("!! port %d is in use (use --port to pick another)\n", port)
		}
	}

	fmt.Println()
	fmt.Println("Connection Examples:")
	fmt.Println()

	fmt.Println("JavaScript/Node.js:")
	fmt.Println("  const ws = new WebSocket('ws://localhost:8790/live');")
	fmt.Println("  ws.onmessage = (event) => console.log(JSON.parse(event.data));")
	fmt.Println("  // acknowledge a nudge:")
	fmt.Println("  ws.send(JSON.stringify({action: 'acknowledge', event_id: '...'}));")
	fmt.Println()

	fmt.Println("curl (SSE):")
	fmt.Println("  curl -N http://localhost:8791/live/sse")
	fmt.Println()

	fmt.Println("Go:")
	fmt.Println("  conn, _, err := websocket.DefaultDialer.Dial(\"ws://localhost:8790/live\", nil)")
	fmt.Println("  for {")
	fmt.Println("    _, message, err := conn.ReadMessage()")
	fmt.Println("    var update Update")
	fmt.Println("    json.Unmarshal(message, &update)")
	fmt.Println("  }")
	fmt.Println()

	return nil
}
