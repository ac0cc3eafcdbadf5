//go:build linux

package transport

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// A FIFO opened O_RDWR|O_NONBLOCK behaves like an idle character device:
// reads fail with EAGAIN until something is written.
func openTestFifo(t *testing.T) *Serial {
	t.Helper()
	path := filepath.Join(t.TempDir(), "midi.fifo")
	require.NoError(t, unix.Mkfifo(path, 0o600))

	s, err := OpenSerial(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSerial_ReadIntoIdleReturnsZero(t *testing.T) {
	s := openTestFifo(t)

	buf := make([]byte, 8)
	n, err := s.ReadInto(buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSerial_ReadBackWrittenBytes(t *testing.T) {
	s := openTestFifo(t)

	wire := []byte{0x90, 0x3C, 0x64}
	n, err := s.Write(wire)
	require.NoError(t, err)
	require.Equal(t, len(wire), n)

	buf := make([]byte, 8)
	n, err = s.ReadInto(buf)
	require.NoError(t, err)
	assert.Equal(t, wire, buf[:n])

	// Drained again: back to the idle contract.
	n, err = s.ReadInto(buf)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenSerial_MissingDevice(t *testing.T) {
	_, err := OpenSerial(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
