package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/dashkit/goldenflower/internal/activity"
	"github.com/dashkit/goldenflower/internal/game"
	"github.com/dashkit/goldenflower/internal/ledger"
)

// Server is the websocket gateway. Each client connection gets its own
// single-human table session backed by the shared player directory.
type Server struct {
	config      *Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	store       ledger.Ledger
	sink        activity.Sink
	sessionOpts []game.SessionOption
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a new websocket gateway
func NewServer(config *Config, logger *log.Logger, store ledger.Ledger, sink activity.Sink, opts ...game.SessionOption) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		store:       store,
		sink:        sink,
		sessionOpts: opts,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// newSession builds a table session for a freshly identified player.
func (s *Server) newSession(playerID, name string) *game.Session {
	opts := []game.SessionOption{
		game.WithRules(s.config.Rules()),
		game.WithActivity(s.sink),
	}
	if s.config.Game.Seed != 0 {
		opts = append(opts, game.WithSeed(s.config.Game.Seed))
	}
	opts = append(opts, s.sessionOpts...)
	return game.NewSession(s.logger, s.store, playerID, name, opts...)
}

// Run starts the gateway and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{
		Addr:    s.config.Addr(),
		Handler: mux,
	}

	go s.run()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Starting websocket gateway", "addr", s.config.Addr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Stop closes all connections and halts the connection registry.
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register <- client
	client.Start()

	go func() {
		<-client.ctx.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
