// Package daemon implements the change-notification hub: a unix socket server that
// fans out change events from writers to every subscribed reader.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/studio/internal/events"
)

// client represents a connected client to the daemon
type client struct {
	conn     net.Conn
	send     chan events.Message
	filters  []events.Filter
	lastPong time.Time
	closed   bool
	mu       sync.Mutex // Protects filters, lastPong, closed and sends on send
}

// close closes the send channel exactly once
func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *client) wants(event events.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return events.MatchAny(c.filters, event)
}

// Server represents the studio event daemon
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan events.Event
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int // Configurable client send queue size
	pingInterval     time.Duration
	staleAfter       time.Duration
	shutdownOnce     sync.Once
}

// getEnvInt reads an integer from an environment variable, returning defaultVal if not set or invalid
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer creates a new daemon server listening on socketPath
func NewServer(socketPath string) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Buffer sizes are tunable for load testing
	broadcastBuffer := getEnvInt("STUDIO_DAEMON_BROADCAST_BUFFER", 100)
	clientBuffer := getEnvInt("STUDIO_DAEMON_CLIENT_BUFFER", 10)

	return &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan events.Event, broadcastBuffer),
		metrics:          NewMetrics(),
		clientBufferSize: clientBuffer,
		pingInterval:     30 * time.Second,
		staleAfter:       90 * time.Second,
	}, nil
}

// Metrics exposes the live counters
func (s *Server) Metrics() *Metrics { return s.metrics }

// Start runs the daemon server until ctx is done or Shutdown is called.
// It starts three main goroutines: accept, broadcast, and health monitoring.
func (s *Server) Start(ctx context.Context) error {
	log.Printf("Daemon starting, listening on %s", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-s.ctx.Done()
		cancel()
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		log.Println("Daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			log.Printf("Accept loop error: %v", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// A deadline lets the loop observe cancellation
		if ul, ok := s.listener.(*net.UnixListener); ok {
			if err := ul.SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
				log.Printf("Error setting listener deadline: %v", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()

		s.updateClientCount()
		log.Printf("Client connected, total clients: %d", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps sequence numbers and distributes events to matching clients
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.broadcast:
			if !ok {
				return
			}
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncBroadcastsTotal()

			msg := events.Message{
				Version: events.ProtocolVersion,
				Type:    events.MsgEvent,
				Event:   &event,
			}

			s.mu.RLock()
			for c := range s.clients {
				if !c.wants(event) {
					continue
				}
				// Non-blocking send - a slow client misses the event and reloads on the next one
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
					log.Printf("Client send queue full, event %d dropped", event.SequenceID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		log.Printf("Client disconnected, total clients: %d", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			log.Printf("Warning: received message with protocol version %d, expected %d", msg.Version, events.ProtocolVersion)
		}

		switch msg.Type {
		case events.MsgEvent:
			if msg.Event == nil || msg.Event.Type != events.EventChange {
				continue
			}
			s.metrics.IncEventsReceived()
			select {
			case s.broadcast <- *msg.Event:
			default:
				s.metrics.IncEventsDropped()
				log.Printf("Broadcast channel full")
			}

		case events.MsgSubscribe:
			var filters []events.Filter
			if msg.Subscribe != nil {
				filters = msg.Subscribe.Filters
			}
			c.mu.Lock()
			c.filters = filters
			c.mu.Unlock()
			log.Printf("Client subscribed with %d filters", len(filters))
			s.sendToClient(c, events.Message{Version: events.ProtocolVersion, Type: events.MsgAck})

		case events.MsgPong:
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter sends messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
		if msg.Type == events.MsgEvent {
			s.metrics.IncEventsSent()
		}
	}
}

// monitorHealth sends ping messages and removes stale clients
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(2 * s.pingInterval)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			pingMsg := events.Message{Version: events.ProtocolVersion, Type: events.MsgPing}
			for _, c := range s.snapshotClients() {
				if !s.sendToClient(c, pingMsg) {
					log.Printf("Failed to send ping to client (queue full)")
				}
			}

		case <-healthTicker.C:
			// Two-phase: collect under the server lock, remove outside it
			now := time.Now()
			var stale []*client
			for _, c := range s.snapshotClients() {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()
				if now.Sub(lastPong) > s.staleAfter {
					stale = append(stale, c)
				}
			}

			for _, c := range stale {
				log.Printf("Removing stale client")
				s.metrics.IncStaleRemoved()
				s.removeClient(c)
			}
		}
	}
}

// Broadcast injects an event as if a client had published it (non-blocking)
func (s *Server) Broadcast(event events.Event) error {
	if event.Type == "" {
		event.Type = events.EventChange
	}
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("daemon is shut down")
	default:
	}
	select {
	case s.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		log.Println("Shutting down daemon...")

		s.cancel()

		if s.listener != nil {
			if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
				log.Printf("Error closing listener: %v", err)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			if err := c.conn.Close(); err != nil {
				log.Printf("Error closing client connection: %v", err)
			}
			c.close()
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.updateClientCount()

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to remove socket file: %v", err)
		}
	})

	return nil
}

// Helper methods

func (s *Server) snapshotClients() []*client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	return clients
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient safely removes a client from the server
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	_, present := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	c.close()

	if present {
		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("Error closing client connection: %v", err)
		}
	}

	s.updateClientCount()
}

// sendToClient attempts to queue a message for a client (non-blocking).
// Returns false if the queue is full.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}
