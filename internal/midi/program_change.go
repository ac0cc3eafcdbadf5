package midi

import "fmt"

// ProgramChange selects the instrument program for a channel. It is one of
// the two-byte channel-voice messages.
type ProgramChange struct {
	Program uint8
}

// NewProgramChange builds a ProgramChange, rejecting out-of-range fields.
func NewProgramChange(program int) (ProgramChange, error) {
	if !dataByteOK(program) {
		return ProgramChange{}, fmt.Errorf("%w: program change %d", ErrOutOfRange, program)
	}
	return ProgramChange{Program: uint8(program)}, nil
}

// Status implements Message.
func (ProgramChange) Status() byte { return StatusProgramChange }

func programChangeDescriptor() Descriptor {
	return Descriptor{
		Name:         "ProgramChange",
		Status:       StatusProgramChange,
		Mask:         MaskChannelVoice,
		Length:       2,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewProgramChange(int(raw[1]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(ProgramChange)
			if !ok {
				return nil, fmt.Errorf("midi: encode ProgramChange: got %T", msg)
			}
			if !dataByteOK(int(m.Program)) {
				return nil, fmt.Errorf("%w: program change %d", ErrOutOfRange, m.Program)
			}
			return []byte{StatusProgramChange | byte(channel), m.Program}, nil
		},
	}
}
