package transport

import (
	"io"
	"sync"
)

// pipeQueue is one direction of a Pipe: an unbounded byte queue with a
// closed flag.
type pipeQueue struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func (q *pipeQueue) push(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return 0, io.ErrClosedPipe
	}
	q.data = append(q.data, p...)
	return len(p), nil
}

func (q *pipeQueue) pull(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.data) == 0 {
		if q.closed {
			return 0, io.EOF
		}
		return 0, nil
	}
	n := copy(p, q.data)
	q.data = q.data[n:]
	return n, nil
}

func (q *pipeQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
}

// Pipe is one end of an in-memory transport pair. Reads see what the other
// end wrote, in order. A Pipe end is safe for concurrent use.
type Pipe struct {
	rd *pipeQueue
	wr *pipeQueue
}

// NewPipe returns two cross-connected in-memory transport ends.
func NewPipe() (*Pipe, *Pipe) {
	a := &pipeQueue{}
	b := &pipeQueue{}
	return &Pipe{rd: a, wr: b}, &Pipe{rd: b, wr: a}
}

// ReadInto copies available bytes into p, returning (0, nil) when the other
// end has written nothing new and io.EOF once the peer closed and the queue
// drained.
func (t *Pipe) ReadInto(p []byte) (int, error) {
	return t.rd.pull(p)
}

// Write makes p visible to the other end's reads.
func (t *Pipe) Write(p []byte) (int, error) {
	return t.wr.push(p)
}

// Close shuts both directions; the peer's reads drain and then see io.EOF.
func (t *Pipe) Close() error {
	t.rd.close()
	t.wr.close()
	return nil
}
