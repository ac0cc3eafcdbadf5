//go:build !linux

package transport

import "errors"

// Serial is only implemented on linux.
type Serial struct{}

// OpenSerial fails on non-linux platforms.
func OpenSerial(path string) (*Serial, error) {
	return nil, errors.New("transport: serial devices are only supported on linux")
}

// ReadInto is unreachable on non-linux platforms.
func (t *Serial) ReadInto(p []byte) (int, error) {
	return 0, errors.New("transport: serial devices are only supported on linux")
}

// Write is unreachable on non-linux platforms.
func (t *Serial) Write(p []byte) (int, error) {
	return 0, errors.New("transport: serial devices are only supported on linux")
}

// Close is unreachable on non-linux platforms.
func (t *Serial) Close() error { return nil }
