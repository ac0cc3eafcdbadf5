package midi

import "fmt"

// NoteOn starts sounding a note. A velocity of 0 is a legal value and is
// treated by many devices as a note off; this package does not rewrite it.
type NoteOn struct {
	Note     uint8
	Velocity uint8
}

// NewNoteOn builds a NoteOn, rejecting out-of-range fields.
func NewNoteOn(note, velocity int) (NoteOn, error) {
	if !dataByteOK(note) || !dataByteOK(velocity) {
		return NoteOn{}, fmt.Errorf("%w: note on %d/%d", ErrOutOfRange, note, velocity)
	}
	return NoteOn{Note: uint8(note), Velocity: uint8(velocity)}, nil
}

// Status implements Message.
func (NoteOn) Status() byte { return StatusNoteOn }

func noteOnDescriptor() Descriptor {
	return Descriptor{
		Name:         "NoteOn",
		Status:       StatusNoteOn,
		Mask:         MaskChannelVoice,
		Length:       3,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewNoteOn(int(raw[1]), int(raw[2]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(NoteOn)
			if !ok {
				return nil, fmt.Errorf("midi: encode NoteOn: got %T", msg)
			}
			if !dataByteOK(int(m.Note)) || !dataByteOK(int(m.Velocity)) {
				return nil, fmt.Errorf("%w: note on %d/%d", ErrOutOfRange, m.Note, m.Velocity)
			}
			return []byte{StatusNoteOn | byte(channel), m.Note, m.Velocity}, nil
		},
	}
}
