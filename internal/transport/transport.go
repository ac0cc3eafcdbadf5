// Package transport defines the byte transport contract a MIDI port drives,
// plus the concrete transports: an in-memory pipe, a net.Conn adapter, and a
// non-blocking serial device (linux).
package transport

// Transport moves raw bytes to and from a MIDI stream peer.
//
// ReadInto is non-blocking by contract: it copies whatever bytes are
// currently available into p and returns how many, returning (0, nil) when
// nothing is available. Implementations may pace the caller's poll loop by
// waiting up to a short quantum, but must never wait for a full buffer.
//
// Write is a best-effort synchronous write of the whole slice.
type Transport interface {
	ReadInto(p []byte) (int, error)
	Write(p []byte) (int, error)
}
