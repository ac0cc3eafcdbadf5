package midi

import "fmt"

// NoteOff stops sounding a note. The velocity carries the release speed.
type NoteOff struct {
	Note     uint8
	Velocity uint8
}

// NewNoteOff builds a NoteOff, rejecting out-of-range fields.
func NewNoteOff(note, velocity int) (NoteOff, error) {
	if !dataByteOK(note) || !dataByteOK(velocity) {
		return NoteOff{}, fmt.Errorf("%w: note off %d/%d", ErrOutOfRange, note, velocity)
	}
	return NoteOff{Note: uint8(note), Velocity: uint8(velocity)}, nil
}

// Status implements Message.
func (NoteOff) Status() byte { return StatusNoteOff }

func noteOffDescriptor() Descriptor {
	return Descriptor{
		Name:         "NoteOff",
		Status:       StatusNoteOff,
		Mask:         MaskChannelVoice,
		Length:       3,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewNoteOff(int(raw[1]), int(raw[2]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(NoteOff)
			if !ok {
				return nil, fmt.Errorf("midi: encode NoteOff: got %T", msg)
			}
			if !dataByteOK(int(m.Note)) || !dataByteOK(int(m.Velocity)) {
				return nil, fmt.Errorf("%w: note off %d/%d", ErrOutOfRange, m.Note, m.Velocity)
			}
			return []byte{StatusNoteOff | byte(channel), m.Note, m.Velocity}, nil
		},
	}
}
