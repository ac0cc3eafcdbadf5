// Package ring provides a fixed-capacity circular byte buffer.
//
// The buffer is a FIFO: bytes go in with Append and come out, oldest first,
// with PopFront. It never grows, never shrinks, and never overwrites: a full
// buffer rejects appends with ErrFull so the caller learns it is not draining
// fast enough. The buffer is owned by a single goroutine; there is no internal
// locking.
package ring

import "errors"

var (
	// ErrFull is returned by Append when the buffer is at capacity.
	ErrFull = errors.New("ring: buffer full")

	// ErrEmpty is returned by PopFront when the buffer holds no bytes.
	ErrEmpty = errors.New("ring: buffer empty")

	// ErrRange is returned by At and Slice for out-of-bounds access.
	ErrRange = errors.New("ring: index out of range")
)

// Buffer is a fixed-capacity circular byte store.
type Buffer struct {
	buf   []byte
	start int
	size  int
}

// New creates a Buffer with the given capacity. Capacity must be positive;
// New panics otherwise since a zero-capacity buffer is a programming error,
// not a runtime condition.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	return &Buffer{buf: make([]byte, capacity)}
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return b.size }

// Cap returns the fixed capacity.
func (b *Buffer) Cap() int { return len(b.buf) }

// Append adds one byte at the tail. Returns ErrFull when the buffer is at
// capacity; the byte is not stored.
func (b *Buffer) Append(v byte) error {
	if b.size == len(b.buf) {
		return ErrFull
	}
	b.buf[(b.start+b.size)%len(b.buf)] = v
	b.size++
	return nil
}

// PopFront removes and returns the oldest byte. Returns ErrEmpty when the
// buffer holds no bytes.
func (b *Buffer) PopFront() (byte, error) {
	if b.size == 0 {
		return 0, ErrEmpty
	}
	v := b.buf[b.start]
	b.start = (b.start + 1) % len(b.buf)
	b.size--
	return v, nil
}

// At returns the i-th oldest buffered byte without removing it.
// Returns ErrRange unless 0 <= i < Len().
func (b *Buffer) At(i int) (byte, error) {
	if i < 0 || i >= b.size {
		return 0, ErrRange
	}
	return b.buf[(b.start+i)%len(b.buf)], nil
}

// Slice materializes a contiguous copy of the logical window [start, stop)
// taking every step-th byte. step must be positive. The window must lie
// within [0, Len()]; otherwise Slice returns ErrRange. The buffer is not
// mutated.
func (b *Buffer) Slice(start, stop, step int) ([]byte, error) {
	if step <= 0 {
		return nil, ErrRange
	}
	if start < 0 || stop < start || stop > b.size {
		return nil, ErrRange
	}
	out := make([]byte, 0, (stop-start+step-1)/step)
	for i := start; i < stop; i += step {
		v, err := b.At(i)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
