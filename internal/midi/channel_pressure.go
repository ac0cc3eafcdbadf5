package midi

import "fmt"

// ChannelPressure is channel-wide aftertouch.
type ChannelPressure struct {
	Pressure uint8
}

// NewChannelPressure builds a ChannelPressure, rejecting out-of-range fields.
func NewChannelPressure(pressure int) (ChannelPressure, error) {
	if !dataByteOK(pressure) {
		return ChannelPressure{}, fmt.Errorf("%w: channel pressure %d", ErrOutOfRange, pressure)
	}
	return ChannelPressure{Pressure: uint8(pressure)}, nil
}

// Status implements Message.
func (ChannelPressure) Status() byte { return StatusChannelPressure }

func channelPressureDescriptor() Descriptor {
	return Descriptor{
		Name:         "ChannelPressure",
		Status:       StatusChannelPressure,
		Mask:         MaskChannelVoice,
		Length:       2,
		ChannelVoice: true,
		Decode: func(raw []byte) (Message, error) {
			m, err := NewChannelPressure(int(raw[1]))
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, channel int) ([]byte, error) {
			m, ok := msg.(ChannelPressure)
			if !ok {
				return nil, fmt.Errorf("midi: encode ChannelPressure: got %T", msg)
			}
			if !dataByteOK(int(m.Pressure)) {
				return nil, fmt.Errorf("%w: channel pressure %d", ErrOutOfRange, m.Pressure)
			}
			return []byte{StatusChannelPressure | byte(channel), m.Pressure}, nil
		},
	}
}
