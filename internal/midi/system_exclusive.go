package midi

import "fmt"

// SystemExclusive carries vendor-defined data. On the wire it starts at 0xF0
// and runs until the 0xF7 terminator; every payload byte must have the top
// bit clear. SystemExclusive is not addressed to a channel and bypasses
// channel filtering.
type SystemExclusive struct {
	Data []byte
}

// NewSystemExclusive builds a SystemExclusive, rejecting payload bytes with
// the top bit set. The payload is copied.
func NewSystemExclusive(data []byte) (SystemExclusive, error) {
	for i, b := range data {
		if b&statusBit != 0 {
			return SystemExclusive{}, fmt.Errorf("%w: sysex data byte %#02x at %d", ErrOutOfRange, b, i)
		}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return SystemExclusive{Data: cp}, nil
}

// Status implements Message.
func (SystemExclusive) Status() byte { return StatusSystemExclusive }

func systemExclusiveDescriptor() Descriptor {
	return Descriptor{
		Name:      "SystemExclusive",
		Status:    StatusSystemExclusive,
		Mask:      MaskExact,
		Length:    VariableLength,
		EndStatus: StatusEndOfExclusive,
		Decode: func(raw []byte) (Message, error) {
			// raw is 0xF0 ... 0xF7 inclusive; the decoder guarantees both
			// delimiters are present.
			m, err := NewSystemExclusive(raw[1 : len(raw)-1])
			if err != nil {
				return nil, err
			}
			return m, nil
		},
		Encode: func(msg Message, _ int) ([]byte, error) {
			m, ok := msg.(SystemExclusive)
			if !ok {
				return nil, fmt.Errorf("midi: encode SystemExclusive: got %T", msg)
			}
			for i, b := range m.Data {
				if b&statusBit != 0 {
					return nil, fmt.Errorf("%w: sysex data byte %#02x at %d", ErrOutOfRange, b, i)
				}
			}
			out := make([]byte, 0, len(m.Data)+2)
			out = append(out, StatusSystemExclusive)
			out = append(out, m.Data...)
			out = append(out, StatusEndOfExclusive)
			return out, nil
		},
	}
}
