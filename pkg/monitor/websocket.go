package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"digital.vasic.matchers/pkg/logging"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 32
)

// Message is the envelope written to WebSocket clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server serves the live dashboard: a WebSocket feed of outcome
// events at /ws, a JSON snapshot at /dashboard and a liveness
// probe at /health.
type Server struct {
	mu         sync.RWMutex
	clients    map[*client]struct{}
	collector  *EventCollector
	dashboard  *DashboardData
	addr       string
	server     *http.Server
	upgrader   websocket.Upgrader
	limiter    *rate.Limiter
	maxClients int
	logger     logging.Logger
	stop       chan struct{}
	stopOnce   sync.Once
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithConnectionRate limits how fast new clients may connect.
// Excess connection attempts get 429 Too Many Requests.
func WithConnectionRate(perSecond float64, burst int) ServerOption {
	return func(s *Server) {
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxClients caps the number of concurrent clients.
func WithMaxClients(n int) ServerOption {
	return func(s *Server) {
		s.maxClients = n
	}
}

// WithServerLogger sets the server logger.
func WithServerLogger(l logging.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a monitor server fed by collector. Every
// collected event updates dashboard and is broadcast to clients.
func NewServer(
	addr string,
	collector *EventCollector,
	dashboard *DashboardData,
	opts ...ServerOption,
) *Server {
	s := &Server{
		addr:       addr,
		collector:  collector,
		dashboard:  dashboard,
		clients:    make(map[*client]struct{}),
		limiter:    rate.NewLimiter(rate.Limit(10), 20),
		maxClients: 100,
		logger:     logging.NullLogger{},
		stop:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	collector.OnEvent(func(event Event) {
		s.dashboard.UpdateFromEvent(event)
		s.broadcast(Message{Type: "event", Data: event})
	})
	return s
}

// Handler returns the HTTP handler serving the monitor endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/dashboard", s.handleDashboard)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Start serves until ctx is canceled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			s.shutdown()
			_ = srv.Close()
		case <-s.stop:
		}
	}()

	s.logger.Info("monitor server listening", logging.StringField("addr", s.addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("monitor server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server and disconnects clients.
func (s *Server) Stop(ctx context.Context) error {
	s.shutdown()
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) shutdown() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow() {
		http.Error(w, "too many connection attempts", http.StatusTooManyRequests)
		return
	}
	if s.ClientCount() >= s.maxClients {
		http.Error(w, "maximum clients reached", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logging.ErrorField(err))
		return
	}
	defer func() { _ = conn.Close() }()

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()

	if data, err := json.Marshal(Message{Type: "dashboard", Data: s.dashboard.Snapshot()}); err == nil {
		c.send <- data
	}

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Debug("websocket read failed", logging.ErrorField(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			return
		case <-s.stop:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.dashboard.Snapshot())
}

func (s *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Warn("failed to marshal monitor message", logging.ErrorField(err))
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.logger.Debug("dropping message for slow client")
		}
	}
}
