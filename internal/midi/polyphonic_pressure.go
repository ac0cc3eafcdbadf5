package midi

import "fmt"

// PolyphonicPressure is per-note aftertouch.
type PolyphonicPressure struct {
	Note     uint8
	Pressure uint8
}

// NewPolyphonicPressure builds a PolyphonicPressure, rejecting out-of-range
// fields.
func NewPolyphonicPressure(note, pressure int) (PolyphonicPressure, error) {
	if !dataByteOK(note) || !dataByteOK(pressure) {
		return PolyphonicPressure{}, fmt.Errorf("%w: polyphonic pressure %d/%d", ErrOutOfRange, note, pressure)
	}
	return PolyphonicPressure{Note: uint8(note), Pressure: uint8(pressure)}, nil
}

// Status implements Message.
func (PolyphonicPressure) Status() byte { return StatusPolyphonicPressure }

func polyphonicPressureDescriptor() Descriptor {
	return Descriptor{
		Name:         "PolyphonicPressure",
		Status:       StatusPolyphonicPressure,
		Mask:         MaskChannelVoice,
		Length:       3,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewPolyphonicPressure(int(raw[1]), int(raw[2]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(PolyphonicPressure)
			if !ok {
				return nil, fmt.Errorf("midi: encode PolyphonicPressure: got %T", msg)
			}
			if !dataByteOK(int(m.Note)) || !dataByteOK(int(m.Pressure)) {
				return nil, fmt.Errorf("%w: polyphonic pressure %d/%d", ErrOutOfRange, m.Note, m.Pressure)
			}
			return []byte{StatusPolyphonicPressure | byte(channel), m.Note, m.Pressure}, nil
		},
	}
}
