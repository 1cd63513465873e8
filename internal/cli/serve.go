package cli

import (
	"context"

	"github.com/synheart/calmband/internal/encoding"
	"github.com/synheart/calmband/internal/haptic"
	"github.com/synheart/calmband/internal/monitor"
	"github.com/synheart/calmband/internal/transport"
)

// newDriver returns the haptic driver for local runs. No wearable
// hardware is attached, so pulses go to the log.
func newDriver() haptic.Driver {
	return haptic.NewLogDriver()
}

// serveMonitor wires a running monitor to the transport fan-out:
// WebSocket (with control commands), SSE and UDP on consecutive
// ports. It returns once everything is started.
func serveMonitor(ctx context.Context, mon *monitor.Monitor, enc encoding.Encoder, host string, port int) *transport.WebSocketServer {
	dispatcher := transport.NewDispatcher(mon.Updates(), 100)

	ws := transport.NewWebSocketServer(host, port, enc, mon)
	sse := transport.NewSSEServer(host, port+1, enc)
	udp := transport.NewUDPServer(host, port+2, enc)

	go ws.BroadcastFromChannel(ctx, dispatcher.Subscribe())
	go sse.BroadcastFromChannel(ctx, dispatcher.Subscribe())
	go udp.BroadcastFromChannel(ctx, dispatcher.Subscribe())

	go ws.Start(ctx)
	go sse.Start(ctx)
	go udp.Start(ctx)

	go dispatcher.Run(ctx)

	return ws
}
