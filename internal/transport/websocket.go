package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/synheart/calmband/internal/encoding"
	"github.com/synheart/calmband/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Controller is the callback surface the presentation layer uses to
// reach back into the monitor.
type Controller interface {
	Acknowledge(id string) error
	SetSensitivity(mode models.SensitivityMode)
	SetMonitoringEnabled(enabled bool)
	SetReminderInterval(seconds float64)
}

// command is an inbound client message
type command struct {
	Action          string  `json:"action"`
	EventID         string  `json:"event_id,omitempty"`
	Sensitivity     string  `json:"sensitivity,omitempty"`
	Enabled         *bool   `json:"enabled,omitempty"`
	IntervalSeconds float64 `json:"interval_s,omitempty"`
}

// commandResult is the reply to an inbound command
type commandResult struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// WebSocketServer broadcasts monitor updates to connected clients and
// routes acknowledge/config commands back to the controller
type WebSocketServer struct {
	host    string
	port    int
	encoder encoding.Encoder
	ctrl    Controller
	clients map[*websocket.Conn]*sync.Mutex
	mu      sync.RWMutex
	server  *http.Server
}

// NewWebSocketServer creates a new WebSocket server
func NewWebSocketServer(host string, port int, encoder encoding.Encoder, ctrl Controller) *WebSocketServer {
	return &WebSocketServer{
		host:    host,
		port:    port,
		encoder: encoder,
		ctrl:    ctrl,
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

// Start starts the WebSocket server
func (s *WebSocketServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/live", s.handleWebSocket)
	mux.HandleFunc("/", s.handleRoot)

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.host, s.port),
		Handler: mux,
	}

	go func() {
		log.Printf("WebSocket server listening on ws://%s:%d/live", s.host, s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	<-ctx.Done()
	return s.Shutdown()
}

func (s *WebSocketServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Calmband Live Server\n\n")
	fmt.Fprintf(w, "WebSocket endpoint: ws://%s:%d/live\n", s.host, s.port)
	fmt.Fprintf(w, "Connected clients: %d\n", s.ClientCount())
}

func (s *WebSocketServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	writeMu := &sync.Mutex{}
	s.mu.Lock()
	s.clients[conn] = writeMu
	clientCount := len(s.clients)
	s.mu.Unlock()

	log.Printf("Client connected from %s (total: %d)", r.RemoteAddr, clientCount)

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		clientCount := len(s.clients)
		s.mu.Unlock()

		conn.Close()
		log.Printf("Client disconnected (total: %d)", clientCount)
	}()

	// Read loop: each inbound message is a control command
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		result := s.handleCommand(data)
		reply, err := json.Marshal(result)
		if err != nil {
			continue
		}
		writeMu.Lock()
		err = conn.WriteMessage(websocket.TextMessage, reply)
		writeMu.Unlock()
		if err != nil {
			break
		}
	}
}

func (s *WebSocketServer) handleCommand(data []byte) commandResult {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return commandResult{Action: "unknown", OK: false, Error: "invalid command JSON"}
	}

	result := commandResult{Action: cmd.Action, OK: true}
	switch cmd.Action {
	case "acknowledge":
		if err := s.ctrl.Acknowledge(cmd.EventID); err != nil {
			result.OK = false
			result.Error = err.Error()
		}
	case "set_sensitivity":
		mode, err := models.ParseSensitivity(cmd.Sensitivity)
		if err != nil {
			result.OK = false
			result.Error = err.Error()
			break
		}
		s.ctrl.SetSensitivity(mode)
	case "set_monitoring":
		if cmd.Enabled == nil {
			result.OK = false
			result.Error = "enabled flag is required"
			break
		}
		s.ctrl.SetMonitoringEnabled(*cmd.Enabled)
	case "set_reminder_interval":
		s.ctrl.SetReminderInterval(cmd.IntervalSeconds)
	default:
		result.OK = false
		result.Error = fmt.Sprintf("unknown action %q", cmd.Action)
	}
	return result
}

// Broadcast sends an update to all connected clients
func (s *WebSocketServer) Broadcast(update models.Update) error {
	data, err := s.encoder.Encode(update)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	messageType := websocket.TextMessage
	if s.encoder.ContentType() != "application/json" {
		messageType = websocket.BinaryMessage
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for client, writeMu := range s.clients {
		writeMu.Lock()
		err := client.WriteMessage(messageType, data)
		writeMu.Unlock()
		if err != nil {
			log.Printf("Failed to send to client: %v", err)
			// Client will be cleaned up by the connection handler
		}
	}

	return nil
}

// BroadcastFromChannel reads updates from a channel and broadcasts them
func (s *WebSocketServer) BroadcastFromChannel(ctx context.Context, updates <-chan models.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil // Channel closed
			}
			if err := s.Broadcast(update); err != nil {
				log.Printf("Broadcast error: %v", err)
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (s *WebSocketServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Shutdown gracefully shuts down the server
func (s *WebSocketServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	for client := range s.clients {
		client.Close()
	}
	s.clients = make(map[*websocket.Conn]*sync.Mutex)
	s.mu.Unlock()

	if s.server != nil {
		err := s.server.Shutdown(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			return s.server.Close()
		}
		return err
	}
	return nil
}

// Address returns the server address
func (s *WebSocketServer) Address() string {
	return fmt.Sprintf("ws://%s:%d/live", s.host, s.port)
}
