package transport

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"

	"github.com/synheart/calmband/internal/encoding"
	"github.com/synheart/calmband/internal/models"
)

// UDPServer broadcasts monitor updates via UDP. Clients register by
// sending any datagram and are forgotten on write failure.
type UDPServer struct {
	host    string
	port    int
	encoder encoding.Encoder
	conn    *net.UDPConn
	clients map[string]*net.UDPAddr
	mu      sync.RWMutex
}

// NewUDPServer creates a new UDP server
func NewUDPServer(host string, port int, encoder encoding.Encoder) *UDPServer {
	return &UDPServer{
		host:    host,
		port:    port,
		encoder: encoder,
		clients: make(map[string]*net.UDPAddr),
	}
}

// Start listens for client registrations until ctx is cancelled
func (s *UDPServer) Start(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", s.host, s.port))
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	s.conn, err = net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP: %w", err)
	}
	log.Printf("UDP server listening on %s:%d", s.host, s.port)

	go func() {
		<-ctx.Done()
		s.conn.Close()
	}()

	buf := make([]byte, 64)
	for {
		_, clientAddr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("UDP read failed: %w", err)
			}
		}

		s.mu.Lock()
		if _, known := s.clients[clientAddr.String()]; !known {
			s.clients[clientAddr.String()] = clientAddr
			log.Printf("UDP client registered: %s (total: %d)", clientAddr, len(s.clients))
		}
		s.mu.Unlock()
	}
}

// Broadcast sends an update to all registered clients
func (s *UDPServer) Broadcast(update models.Update) error {
	if s.conn == nil {
		return nil
	}

	data, err := s.encoder.Encode(update)
	if err != nil {
		return fmt.Errorf("failed to encode update: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, addr := range s.clients {
		if _, err := s.conn.WriteToUDP(data, addr); err != nil {
			log.Printf("UDP send failed, dropping client %s: %v", key, err)
			delete(s.clients, key)
		}
	}
	return nil
}

// BroadcastFromChannel reads updates and broadcasts them
func (s *UDPServer) BroadcastFromChannel(ctx context.Context, updates <-chan models.Update) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := s.Broadcast(update); err != nil {
				log.Printf("Broadcast error: %v", err)
			}
		}
	}
}

// ClientCount returns the number of registered clients
func (s *UDPServer) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
