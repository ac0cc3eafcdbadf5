// Package server implements the TCP hub for raw MIDI streams. Each
// connection gets its own decoding port; every decoded message is re-encoded
// and broadcast to all other connections.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/midiwire-io/midiwire/internal/logging"
	"github.com/midiwire-io/midiwire/internal/metrics"
	"github.com/midiwire-io/midiwire/internal/midi"
	"github.com/midiwire-io/midiwire/internal/port"
	"github.com/midiwire-io/midiwire/internal/transport"
)

// ErrServerClosed is returned when operations are attempted on a closed server.
var ErrServerClosed = errors.New("server closed")

// Config holds the TCP hub configuration.
type Config struct {
	ListenAddr string
	ReadPoll   time.Duration
	Port       port.Config
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":5004",
		ReadPoll:   transport.DefaultPollInterval,
		Port:       port.DefaultConfig(),
	}
}

// client is one hub participant: a TCP connection or an attached transport,
// reduced to the writable end broadcasts fan out to.
type client struct {
	id int64
	w  io.Writer

	// close tears down the participant's byte source, or is nil when the
	// relay loop owns teardown itself.
	close func() error

	// writeMu serializes broadcast writes from other participants' goroutines.
	writeMu sync.Mutex
}

// Server accepts raw MIDI streams over TCP and relays messages between them.
type Server struct {
	cfg      Config
	logger   *logging.Logger
	registry *midi.Registry
	listener net.Listener

	connMetrics *metrics.ConnectionMetrics
	portMetrics *metrics.PortMetrics

	mu       sync.Mutex
	conns    map[int64]*client
	stopping atomic.Bool
	closed   atomic.Bool
	connWg   sync.WaitGroup
	connID   atomic.Int64
}

// New creates a new Server with the given configuration.
func New(cfg Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	if cfg.ReadPoll <= 0 {
		cfg.ReadPoll = transport.DefaultPollInterval
	}
	return &Server{
		cfg:      cfg,
		logger:   logger,
		registry: midi.Builtin(),
		conns:    make(map[int64]*client),
	}
}

// WithConnectionMetrics sets the connection metrics for the server.
// Returns the server for method chaining.
func (s *Server) WithConnectionMetrics(m *metrics.ConnectionMetrics) *Server {
	s.connMetrics = m
	return s
}

// WithPortMetrics sets the port metrics shared by all connections.
// Returns the server for method chaining.
func (s *Server) WithPortMetrics(m *metrics.PortMetrics) *Server {
	s.portMetrics = m
	return s
}

// ListenAndServe starts the hub on the configured address.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on the given listener.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.Infof("hub listening", map[string]any{"addr": ln.Addr().String()})

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.stopping.Load() || s.closed.Load() {
				return ErrServerClosed
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				s.logger.Warnf("temporary accept error", map[string]any{"error": err.Error()})
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept error: %w", err)
		}

		s.connWg.Add(1)
		go s.handleConn(conn)
	}
}

// Addr returns the listener's address, or nil if not listening.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close shuts down the hub immediately, dropping every connection.
func (s *Server) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrServerClosed
	}
	s.stopping.Store(true)

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	for _, c := range s.conns {
		if c.close != nil {
			c.close()
		}
	}
	s.mu.Unlock()

	s.connWg.Wait()
	return nil
}

// Shutdown stops accepting new connections, then waits for the existing ones
// to drain or the context to expire, whichever comes first.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.closed.Load() {
		return ErrServerClosed
	}
	s.stopping.Store(true)

	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.connWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	s.mu.Lock()
	for _, c := range s.conns {
		if c.close != nil {
			c.close()
		}
	}
	s.mu.Unlock()

	s.connWg.Wait()
	s.closed.Store(true)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// Attach adds a transport-backed participant to the hub: a serial MIDI
// device, an in-memory pipe end, anything speaking the Transport contract.
// The attached stream is decoded and relayed exactly like a TCP connection.
// The relay goroutine runs until the server stops; if t is an io.Closer it is
// closed on teardown.
func (s *Server) Attach(name string, t transport.Transport) error {
	if s.stopping.Load() || s.closed.Load() {
		return ErrServerClosed
	}

	c := &client{
		id: s.connID.Add(1),
		w:  t,
	}
	if closer, ok := t.(io.Closer); ok {
		c.close = closer.Close
	}

	logger := s.logger.With(map[string]any{
		"connId":    c.id,
		"transport": name,
	})

	p, err := port.New(t, s.cfg.Port)
	if err != nil {
		return fmt.Errorf("attach %s: %w", name, err)
	}
	p = p.WithLogger(logger)
	if s.portMetrics != nil {
		p = p.WithMetrics(s.portMetrics)
	}

	s.register(c)
	logger.Info("transport attached")

	s.connWg.Add(1)
	go func() {
		defer s.connWg.Done()
		defer s.unregister(c)
		if c.close != nil {
			defer c.close()
		}
		// Unlike Conn, a raw transport's ReadInto returns immediately when
		// idle; pace the poll loop so it does not spin.
		s.relay(c, p, logger, s.cfg.ReadPoll)
	}()
	return nil
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()

	if s.connMetrics != nil {
		s.connMetrics.ConnectionOpened()
	}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()

	if s.connMetrics != nil {
		s.connMetrics.ConnectionClosed()
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.connWg.Done()
	defer conn.Close()

	c := &client{
		id:    s.connID.Add(1),
		w:     conn,
		close: conn.Close,
	}
	s.register(c)
	defer s.unregister(c)

	logger := s.logger.With(map[string]any{
		"connId":     c.id,
		"remoteAddr": conn.RemoteAddr().String(),
	})
	logger.Debug("connection accepted")

	p, err := port.New(transport.NewConn(conn, s.cfg.ReadPoll), s.cfg.Port)
	if err != nil {
		logger.Errorf("port setup failed", map[string]any{"error": err.Error()})
		return
	}
	p = p.WithLogger(logger)
	if s.portMetrics != nil {
		p = p.WithMetrics(s.portMetrics)
	}

	// Conn paces its own reads with a deadline.
	s.relay(c, p, logger, 0)
}

// relay is the shared receive loop: decode one message at a time from the
// participant's port and fan it out. A positive pace inserts an idle sleep
// for transports whose reads return immediately when nothing is buffered.
func (s *Server) relay(c *client, p *port.Port, logger *logging.Logger, pace time.Duration) {
	for {
		if s.stopping.Load() || s.closed.Load() {
			logger.Debug("connection closed")
			return
		}

		msg, ch, err := p.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || s.closed.Load() {
				logger.Debug("connection closed")
				return
			}
			if isConnReset(err) {
				logger.Debug("connection reset by peer")
				return
			}
			logger.Warnf("read error", map[string]any{"error": err.Error()})
			return
		}
		if msg == nil {
			if pace > 0 {
				time.Sleep(pace)
			}
			continue
		}

		if bad, ok := msg.(midi.BadEvent); ok {
			logger.Warnf("undecodable event dropped", map[string]any{
				"bytes": len(bad.Data),
				"error": bad.Err.Error(),
			})
			continue
		}

		s.broadcast(c, msg, ch, logger)
	}
}

// broadcast re-encodes the message and writes it to every participant except
// the source. System messages carry no channel; they go out on channel 0,
// which the encoder ignores for them.
func (s *Server) broadcast(from *client, msg midi.Message, ch int, logger *logging.Logger) {
	if ch == midi.NoChannel {
		ch = 0
	}
	wire, err := s.registry.Encode(msg, ch)
	if err != nil {
		logger.Warnf("re-encode failed", map[string]any{"error": err.Error()})
		return
	}

	s.mu.Lock()
	peers := make([]*client, 0, len(s.conns))
	for _, c := range s.conns {
		if c.id != from.id {
			peers = append(peers, c)
		}
	}
	s.mu.Unlock()

	for _, peer := range peers {
		peer.writeMu.Lock()
		_, err := peer.w.Write(wire)
		peer.writeMu.Unlock()
		if err != nil {
			if s.connMetrics != nil {
				s.connMetrics.RecordBroadcastError()
			}
			logger.Warnf("broadcast write failed", map[string]any{
				"peerConnId": peer.id,
				"error":      err.Error(),
			})
		}
	}
}

func isConnReset(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	return strings.Contains(err.Error(), "connection reset by peer") ||
		strings.Contains(err.Error(), "use of closed network connection")
}
