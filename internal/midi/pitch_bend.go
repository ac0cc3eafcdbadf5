package midi

import "fmt"

// PitchBendCenter is the no-bend value of the 14-bit pitch bend range.
const PitchBendCenter = 0x2000

// PitchBend carries a 14-bit pitch wheel position. 8192 is center (no bend),
// lower values bend down, higher values bend up.
type PitchBend struct {
	Value int
}

// NewPitchBend builds a PitchBend, rejecting values outside 0-16383.
func NewPitchBend(value int) (PitchBend, error) {
	if value < 0 || value > maxFourteen {
		return PitchBend{}, fmt.Errorf("%w: pitch bend %d", ErrOutOfRange, value)
	}
	return PitchBend{Value: value}, nil
}

// Status implements Message.
func (PitchBend) Status() byte { return StatusPitchBend }

func pitchBendDescriptor() Descriptor {
	return Descriptor{
		Name:         "PitchBend",
		Status:       StatusPitchBend,
		Mask:         MaskChannelVoice,
		Length:       3,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			if !dataByteOK(int(raw[1])) || !dataByteOK(int(raw[2])) {
				return nil, fmt.Errorf("%w: pitch bend data %#02x %#02x", ErrOutOfRange, raw[1], raw[2])
			}
			return PitchBend{Value: join14(raw[1], raw[2])}, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(PitchBend)
			if !ok {
				return nil, fmt.Errorf("midi: encode PitchBend: got %T", msg)
			}
			if m.Value < 0 || m.Value > maxFourteen {
				return nil, fmt.Errorf("%w: pitch bend %d", ErrOutOfRange, m.Value)
			}
			lo, hi := split14(m.Value)
			return []byte{StatusPitchBend | byte(channel), lo, hi}, nil
		},
	}
}
