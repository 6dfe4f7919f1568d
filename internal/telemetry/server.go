package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/mazesense/internal/core/observability/log"
)

// Server exposes a Hub on /ws and a liveness probe on /healthz.
type Server struct {
	addr   string
	hub    *Hub
	logger log.Log

	// mu serializes Start, Stop and Addr.
	mu        sync.Mutex
	server    *http.Server
	boundAddr string
	running   atomic.Bool
	closed    atomic.Bool
}

func NewServer(addr string, hub *Hub, logger log.Log) *Server {
	if logger == nil {
		logger = log.Provide()
	}
	return &Server{
		addr:   addr,
		hub:    hub,
		logger: logger.With(log.String("component", "telemetry-server")),
	}
}

func (s *Server) Hub() *Hub { return s.hub }

// Addr is the bound address once the server is running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.boundAddr == "" {
		return s.addr
	}
	return s.boundAddr
}

func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrServerClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrServerAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	s.boundAddr = ln.Addr().String()

	mux := http.NewServeMux()
	mux.Handle("/ws", s.hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.server = srv

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("telemetry server failed", log.Error(err))
		}
	}()

	s.logger.Info("telemetry server listening", log.String("addr", s.boundAddr))
	return nil
}

// Stop disconnects the clients and shuts the listener down. A stopped
// server cannot be started again.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.CompareAndSwap(true, false) {
		return ErrServerNotRunning
	}
	s.closed.Store(true)

	s.hub.Close()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry shutdown: %w", err)
	}
	s.logger.Info("telemetry server stopped")
	return nil
}
