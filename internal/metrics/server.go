package metrics

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/midiwire-io/midiwire/internal/logging"
)

// Server exposes /metrics for Prometheus scraping.
type Server struct {
	mu        sync.RWMutex
	addr      string
	boundAddr string
	server    *http.Server
	registry  prometheus.Gatherer
	logger    *logging.Logger
}

// NewServer creates a metrics server on the given address, serving the
// default Prometheus registry.
func NewServer(addr string) *Server {
	return &Server{addr: addr, logger: logging.Global()}
}

// NewServerWithRegistry creates a metrics server serving a custom registry.
// Useful for testing to avoid conflicts with the default registry.
func NewServerWithRegistry(addr string, gatherer prometheus.Gatherer) *Server {
	return &Server{addr: addr, registry: gatherer, logger: logging.Global()}
}

// WithLogger sets the server's logger. Returns the server for method
// chaining.
func (s *Server) WithLogger(l *logging.Logger) *Server {
	s.logger = l
	return s
}

// Start binds the listener and serves /metrics in the background. Serve
// failures after a successful bind are logged, not fatal: metrics are
// best-effort.
func (s *Server) Start() error {
	handler := promhttp.Handler()
	if s.registry != nil {
		handler = promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()

	s.logger.Infof("metrics server listening", map[string]any{"addr": ln.Addr().String()})

	go func() {
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Warnf("metrics server stopped", map[string]any{"error": err.Error()})
		}
	}()

	return nil
}

// Addr returns the actual bound address of the server.
// Returns the configured address if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.boundAddr != "" {
		return s.boundAddr
	}
	return s.addr
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
