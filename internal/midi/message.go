package midi

import "errors"

// Status byte values for the standard message variants. Channel-voice
// statuses carry the channel in the low nibble; the constants here have the
// channel bits zeroed.
const (
	StatusNoteOff            byte = 0x80
	StatusNoteOn             byte = 0x90
	StatusPolyphonicPressure byte = 0xA0
	StatusControlChange      byte = 0xB0
	StatusProgramChange      byte = 0xC0
	StatusChannelPressure    byte = 0xD0
	StatusPitchBend          byte = 0xE0
	StatusSystemExclusive    byte = 0xF0
	StatusSongPosition       byte = 0xF2
	StatusSongSelect         byte = 0xF3
	StatusTuneRequest        byte = 0xF6
	StatusEndOfExclusive     byte = 0xF7
	StatusTimingClock        byte = 0xF8
	StatusStart              byte = 0xFA
	StatusContinue           byte = 0xFB
	StatusStop               byte = 0xFC
	StatusActiveSensing      byte = 0xFE
	StatusSystemReset        byte = 0xFF
)

const (
	maxDataByte = 0x7F
	maxFourteen = 0x3FFF
	statusBit   = 0x80
	channelMask = 0x0F
	maxChannel  = 15
)

var (
	// ErrOutOfRange is returned when a message field value does not fit the
	// wire format (data bytes 0-127, 14-bit composites 0-16383).
	ErrOutOfRange = errors.New("midi: value out of range")

	// ErrInvalidChannel is returned for channels outside 0-15.
	ErrInvalidChannel = errors.New("midi: invalid channel")

	// ErrUnregistered is returned when encoding a message whose status
	// pattern is not in the registry.
	ErrUnregistered = errors.New("midi: unregistered message type")
)

// Message is a decoded MIDI protocol message. Status returns the message's
// status discriminator with channel bits zeroed for channel-voice types;
// it is the key used for registry dispatch.
type Message interface {
	Status() byte
}

// BadEvent is produced by the decoder when a structurally complete message
// fails field validation (for example a data byte with the top bit set where
// the wire format requires 0-127). It carries the raw message bytes and the
// validation error. BadEvent is never registered and cannot be encoded.
type BadEvent struct {
	Data []byte
	Err  error
}

// Status returns 0: a BadEvent has no registered discriminator.
func (BadEvent) Status() byte { return 0 }

func dataByteOK(v int) bool { return v >= 0 && v <= maxDataByte }

func channelOK(c int) bool { return c >= 0 && c <= maxChannel }

// split14 splits a 14-bit value into its wire order: low 7 bits first.
func split14(v int) (lo, hi byte) {
	return byte(v & maxDataByte), byte(v >> 7 & maxDataByte)
}

// join14 reassembles a 14-bit value from its two wire bytes.
func join14(lo, hi byte) int {
	return int(lo&maxDataByte) | int(hi&maxDataByte)<<7
}
