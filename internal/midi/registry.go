package midi

import (
	"fmt"
	"sync"
)

// Discriminator masks. Channel-voice statuses are identified by their top
// nibble, system and realtime statuses by the full byte.
const (
	MaskChannelVoice byte = 0xF0
	MaskExact        byte = 0xFF
)

// VariableLength marks a Descriptor whose encoded size is determined by a
// terminator byte rather than a fixed count.
const VariableLength = -1

// Descriptor ties a status-byte pattern to a message variant's wire contract.
type Descriptor struct {
	// Name is the human-readable variant name, used in logs and metrics.
	Name string

	// Status is the status pattern. For MaskChannelVoice entries the low
	// nibble must be zero.
	Status byte

	// Mask selects how much of an incoming status byte participates in the
	// match: MaskChannelVoice or MaskExact.
	Mask byte

	// Length is the total encoded size including the status byte, or
	// VariableLength for terminator-delimited types.
	Length int

	// EndStatus is the terminator byte for VariableLength types.
	EndStatus byte

	// ChannelVoice reports whether the low nibble of the status byte
	// addresses one of the 16 channels.
	ChannelVoice bool

	// Decode builds a message value from the complete raw message bytes
	// (status byte included). It fails when a field is out of range.
	Decode func(raw []byte) (Message, error)

	// Encode produces the complete wire bytes for msg on the given channel.
	// The channel is ignored for non-channel-voice types.
	Encode func(msg Message, channel int) ([]byte, error)
}

// Registry maps status discriminators to descriptors. Lookups are by status
// byte only; a nil result means the byte cannot start any known message.
type Registry struct {
	voice  map[byte]*Descriptor // keyed by top nibble pattern (0x80..0xE0)
	system map[byte]*Descriptor // keyed by exact status byte (0xF0..0xFF)
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		voice:  make(map[byte]*Descriptor),
		system: make(map[byte]*Descriptor),
	}
}

// Register adds a descriptor. Registering the same (status, mask) pair with
// the same name again is a no-op; registering a different variant under an
// already-taken pattern is an error. The zero parts of the contract are
// validated up front so a bad descriptor fails at startup, not mid-stream.
func (r *Registry) Register(d Descriptor) error {
	if d.Status&statusBit == 0 {
		return fmt.Errorf("midi: descriptor %q: status %#02x has top bit clear", d.Name, d.Status)
	}
	if d.Decode == nil || d.Encode == nil {
		return fmt.Errorf("midi: descriptor %q: missing decode or encode", d.Name)
	}
	if d.Length != VariableLength && d.Length < 1 {
		return fmt.Errorf("midi: descriptor %q: bad length %d", d.Name, d.Length)
	}
	if d.Length == VariableLength && d.EndStatus&statusBit == 0 {
		return fmt.Errorf("midi: descriptor %q: variable length requires a terminator status", d.Name)
	}

	var table map[byte]*Descriptor
	switch d.Mask {
	case MaskChannelVoice:
		if d.Status&channelMask != 0 {
			return fmt.Errorf("midi: descriptor %q: channel-voice status %#02x has channel bits set", d.Name, d.Status)
		}
		table = r.voice
	case MaskExact:
		table = r.system
	default:
		return fmt.Errorf("midi: descriptor %q: unsupported mask %#02x", d.Name, d.Mask)
	}

	if existing, ok := table[d.Status]; ok {
		if existing.Name == d.Name {
			return nil
		}
		return fmt.Errorf("midi: status %#02x already registered as %q", d.Status, existing.Name)
	}
	desc := d
	table[d.Status] = &desc
	return nil
}

// Lookup returns the descriptor matching the given status byte, or nil when
// the byte has the top bit clear or matches no registered pattern.
func (r *Registry) Lookup(status byte) *Descriptor {
	if status&statusBit == 0 {
		return nil
	}
	if status >= 0xF0 {
		return r.system[status]
	}
	return r.voice[status&MaskChannelVoice]
}

// descriptorFor resolves the descriptor for an already-decoded message value.
func (r *Registry) descriptorFor(msg Message) *Descriptor {
	return r.Lookup(msg.Status())
}

// Encode produces the wire bytes for msg. For channel-voice types the
// channel must be 0-15; it is ignored otherwise.
func (r *Registry) Encode(msg Message, channel int) ([]byte, error) {
	d := r.descriptorFor(msg)
	if d == nil {
		return nil, fmt.Errorf("%w: status %#02x", ErrUnregistered, msg.Status())
	}
	if d.ChannelVoice && !channelOK(channel) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	return d.Encode(msg, channel)
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the process-wide registry populated with every standard
// message variant. The registry is built once on first use.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtin = NewRegistry()
		for _, d := range builtinDescriptors() {
			if err := builtin.Register(d); err != nil {
				panic(err)
			}
		}
	})
	return builtin
}

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		noteOffDescriptor(),
		noteOnDescriptor(),
		polyphonicPressureDescriptor(),
		controlChangeDescriptor(),
		programChangeDescriptor(),
		channelPressureDescriptor(),
		pitchBendDescriptor(),
		systemExclusiveDescriptor(),
		songPositionDescriptor(),
		songSelectDescriptor(),
		tuneRequestDescriptor(),
		timingClockDescriptor(),
		startDescriptor(),
		continueDescriptor(),
		stopDescriptor(),
		activeSensingDescriptor(),
		systemResetDescriptor(),
	}
}
