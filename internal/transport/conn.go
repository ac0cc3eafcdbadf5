package transport

import (
	"net"
	"time"
)

// DefaultPollInterval is the read deadline quantum for Conn when none is
// configured.
const DefaultPollInterval = 5 * time.Millisecond

// Conn adapts a net.Conn to the non-blocking Transport contract. Each
// ReadInto waits at most one poll interval for bytes; a deadline expiry is
// reported as (0, nil), everything else (EOF, reset) as an error.
type Conn struct {
	conn net.Conn
	poll time.Duration
}

// NewConn wraps conn. A non-positive pollInterval selects
// DefaultPollInterval.
func NewConn(conn net.Conn, pollInterval time.Duration) *Conn {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Conn{conn: conn, poll: pollInterval}
}

// ReadInto reads whatever arrives within one poll interval.
func (t *Conn) ReadInto(p []byte) (int, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(t.poll)); err != nil {
		return 0, err
	}
	n, err := t.conn.Read(p)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, nil
		}
		return n, err
	}
	return n, nil
}

// Write writes p to the connection.
func (t *Conn) Write(p []byte) (int, error) {
	return t.conn.Write(p)
}

// Close closes the underlying connection.
func (t *Conn) Close() error {
	return t.conn.Close()
}
