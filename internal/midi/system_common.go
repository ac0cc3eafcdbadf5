package midi

import "fmt"

// SongPositionPointer holds the playback position in MIDI beats (sixteenth
// notes) as a 14-bit value, low 7 bits first on the wire.
type SongPositionPointer struct {
	Beats int
}

// NewSongPositionPointer builds a SongPositionPointer, rejecting values
// outside 0-16383.
func NewSongPositionPointer(beats int) (SongPositionPointer, error) {
	if beats < 0 || beats > maxFourteen {
		return SongPositionPointer{}, fmt.Errorf("%w: song position %d", ErrOutOfRange, beats)
	}
	return SongPositionPointer{Beats: beats}, nil
}

// Status implements Message.
func (SongPositionPointer) Status() byte { return StatusSongPosition }

func songPositionDescriptor() Descriptor {
	return Descriptor{
		Name:   "SongPositionPointer",
		Status: StatusSongPosition,
		Mask:   MaskExact,
		Length: 3,
		Decode: func(raw []byte) (Message, error) {
			if !dataByteOK(int(raw[1])) || !dataByteOK(int(raw[2])) {
				return nil, fmt.Errorf("%w: song position data %#02x %#02x", ErrOutOfRange, raw[1], raw[2])
			}
			return SongPositionPointer{Beats: join14(raw[1], raw[2])}, nil
		},
		Encode: func(msg Message, _ int) ([]byte, error) {
			m, ok := msg.(SongPositionPointer)
			if !ok {
				return nil, fmt.Errorf("midi: encode SongPositionPointer: got %T", msg)
			}
			if m.Beats < 0 || m.Beats > maxFourteen {
				return nil, fmt.Errorf("%w: song position %d", ErrOutOfRange, m.Beats)
			}
			lo, hi := split14(m.Beats)
			return []byte{StatusSongPosition, lo, hi}, nil
		},
	}
}

// SongSelect chooses a song or sequence by number.
type SongSelect struct {
	Song uint8
}

// NewSongSelect builds a SongSelect, rejecting out-of-range fields.
func NewSongSelect(song int) (SongSelect, error) {
	if !dataByteOK(song) {
		return SongSelect{}, fmt.Errorf("%w: song select %d", ErrOutOfRange, song)
	}
	return SongSelect{Song: uint8(song)}, nil
}

// Status implements Message.
func (SongSelect) Status() byte { return StatusSongSelect }

func songSelectDescriptor() Descriptor {
	return Descriptor{
		Name:   "SongSelect",
		Status: StatusSongSelect,
		Mask:   MaskExact,
		Length: 2,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewSongSelect(int(raw[1]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, _ int) ([]byte, error) {
			m, ok := msg.(SongSelect)
			if !ok {
				return nil, fmt.Errorf("midi: encode SongSelect: got %T", msg)
			}
			if !dataByteOK(int(m.Song)) {
				return nil, fmt.Errorf("%w: song select %d", ErrOutOfRange, m.Song)
			}
			return []byte{StatusSongSelect, m.Song}, nil
		},
	}
}

// TuneRequest asks analog synthesizers to tune their oscillators.
type TuneRequest struct{}

// Status implements Message.
func (TuneRequest) Status() byte { return StatusTuneRequest }

func tuneRequestDescriptor() Descriptor {
	return statusOnlyDescriptor("TuneRequest", StatusTuneRequest, TuneRequest{})
}
