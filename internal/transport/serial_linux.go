//go:build linux

package transport

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Serial is a non-blocking character-device transport (a UART or USB-MIDI
// device node such as /dev/ttyUSB0 or /dev/snd/midiC0D0).
type Serial struct {
	fd   int
	path string
}

// OpenSerial opens the device O_NONBLOCK so reads return immediately with
// whatever bytes the driver has buffered.
func OpenSerial(path string) (*Serial, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, fmt.Errorf("transport: open %s: %w", path, err)
	}
	return &Serial{fd: fd, path: path}, nil
}

// ReadInto reads available bytes; EAGAIN means nothing is buffered yet.
func (t *Serial) ReadInto(p []byte) (int, error) {
	n, err := unix.Read(t.fd, p)
	if err != nil {
		if err == unix.EAGAIN {
			return 0, nil
		}
		return 0, fmt.Errorf("transport: read %s: %w", t.path, err)
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// Write writes p to the device.
func (t *Serial) Write(p []byte) (int, error) {
	n, err := unix.Write(t.fd, p)
	if err != nil {
		return n, fmt.Errorf("transport: write %s: %w", t.path, err)
	}
	return n, nil
}

// Close closes the device.
func (t *Serial) Close() error {
	return unix.Close(t.fd)
}
