package midi

import "fmt"

// ControlChange sets a controller (modulation wheel, sustain pedal, ...) to
// a value.
type ControlChange struct {
	Control uint8
	Value   uint8
}

// NewControlChange builds a ControlChange, rejecting out-of-range fields.
func NewControlChange(control, value int) (ControlChange, error) {
	if !dataByteOK(control) || !dataByteOK(value) {
		return ControlChange{}, fmt.Errorf("%w: control change %d/%d", ErrOutOfRange, control, value)
	}
	return ControlChange{Control: uint8(control), Value: uint8(value)}, nil
}

// Status implements Message.
func (ControlChange) Status() byte { return StatusControlChange }

func controlChangeDescriptor() Descriptor {
	return Descriptor{
		Name:         "ControlChange",
		Status:       StatusControlChange,
		Mask:         MaskChannelVoice,
		Length:       3,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewControlChange(int(raw[1]), int(raw[2]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(ControlChange)
			if !ok {
				return nil, fmt.Errorf("midi: encode ControlChange: got %T", msg)
			}
			if !dataByteOK(int(m.Control)) || !dataByteOK(int(m.Value)) {
				return nil, fmt.Errorf("%w: control change %d/%d", ErrOutOfRange, m.Control, m.Value)
			}
			return []byte{StatusControlChange | byte(channel), m.Control, m.Value}, nil
		},
	}
}
