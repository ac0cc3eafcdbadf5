// Package port orchestrates one MIDI stream: it pulls bytes from a transport
// into a ring buffer, decodes them one message per call, and encodes outgoing
// messages back onto the transport.
package port

import (
	"fmt"

	"github.com/midiwire-io/midiwire/internal/logging"
	"github.com/midiwire-io/midiwire/internal/metrics"
	"github.com/midiwire-io/midiwire/internal/midi"
	"github.com/midiwire-io/midiwire/internal/ring"
	"github.com/midiwire-io/midiwire/internal/transport"
)

// Config holds the tunables for one port.
type Config struct {
	// InBufferSize is the ring buffer capacity. Size it for the longest
	// expected burst between Receive calls (a monster SysEx included).
	InBufferSize int

	// ScratchSize is the per-Receive transport read size.
	ScratchSize int

	// InChannels filters incoming channel-voice messages. The zero value
	// accepts every channel.
	InChannels midi.ChannelFilter

	// OutChannel is the default channel for Send. Must be 0-15.
	OutChannel int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		InBufferSize: 64,
		ScratchSize:  32,
		InChannels:   midi.AnyChannel(),
		OutChannel:   0,
	}
}

// Port drives a single MIDI stream over one transport. A Port is owned by
// one goroutine; it holds no locks.
type Port struct {
	transport transport.Transport
	registry  *midi.Registry
	in        *ring.Buffer
	scratch   []byte
	filter    midi.ChannelFilter
	outCh     int
	skipped   int64
	logger    *logging.Logger
	metrics   *metrics.PortMetrics
}

// New creates a Port on the given transport. Invalid configuration fails
// here, never during streaming.
func New(t transport.Transport, cfg Config) (*Port, error) {
	if cfg.InBufferSize <= 0 {
		cfg.InBufferSize = DefaultConfig().InBufferSize
	}
	if cfg.ScratchSize <= 0 {
		cfg.ScratchSize = DefaultConfig().ScratchSize
	}
	if cfg.OutChannel < 0 || cfg.OutChannel > 15 {
		return nil, fmt.Errorf("port: %w: out channel %d", midi.ErrInvalidChannel, cfg.OutChannel)
	}
	return &Port{
		transport: t,
		registry:  midi.Builtin(),
		in:        ring.New(cfg.InBufferSize),
		scratch:   make([]byte, cfg.ScratchSize),
		filter:    cfg.InChannels,
		outCh:     cfg.OutChannel,
		logger:    logging.Global(),
	}, nil
}

// WithLogger sets the port's logger. Returns the port for method chaining.
func (p *Port) WithLogger(l *logging.Logger) *Port {
	p.logger = l
	return p
}

// WithMetrics sets the port metrics. Returns the port for method chaining.
func (p *Port) WithMetrics(m *metrics.PortMetrics) *Port {
	p.metrics = m
	return p
}

// WithRegistry replaces the message-type registry (the builtin one by
// default). Returns the port for method chaining.
func (p *Port) WithRegistry(r *midi.Registry) *Port {
	p.registry = r
	return p
}

// Receive pulls available bytes from the transport, buffers them, and
// decodes at most one message. It never blocks: when no complete message is
// buffered it returns (nil, midi.NoChannel, nil). Call it repeatedly to
// drain a stream.
//
// A full ring buffer is an error: it means Receive is not being called fast
// enough for the configured capacity, and the unbuffered bytes are lost.
func (p *Port) Receive() (midi.Message, int, error) {
	n, err := p.transport.ReadInto(p.scratch)
	if err != nil {
		return nil, midi.NoChannel, fmt.Errorf("port: read: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := p.in.Append(p.scratch[i]); err != nil {
			if p.metrics != nil {
				p.metrics.RecordOverflow()
			}
			return nil, midi.NoChannel, fmt.Errorf("port: buffer %d/%d bytes: %w", i, n, err)
		}
	}

	res := p.registry.DecodeNext(p.in, p.filter)
	for i := 0; i < res.Consumed; i++ {
		if _, err := p.in.PopFront(); err != nil {
			return nil, midi.NoChannel, fmt.Errorf("port: retire consumed bytes: %w", err)
		}
	}

	p.skipped += int64(res.Skipped)
	if p.metrics != nil {
		p.metrics.RecordSkipped(res.Skipped)
		if res.Filtered {
			p.metrics.RecordFiltered()
		}
		if res.Message != nil {
			if d := p.registry.Lookup(res.Message.Status()); d != nil {
				p.metrics.RecordDecoded(d.Name)
			}
		}
	}
	if res.Skipped > 0 {
		p.logger.Debugf("resynchronized", map[string]any{"skipped": res.Skipped})
	}

	return res.Message, res.Channel, nil
}

// Send encodes the messages on the default output channel and writes them to
// the transport in a single call.
func (p *Port) Send(msgs ...midi.Message) error {
	return p.SendOn(p.outCh, msgs...)
}

// SendOn encodes the messages on the given channel and writes them to the
// transport in a single call. Encoding is all-or-nothing: a validation
// failure on any message means nothing is written.
func (p *Port) SendOn(channel int, msgs ...midi.Message) error {
	if channel < 0 || channel > 15 {
		return fmt.Errorf("port: %w: %d", midi.ErrInvalidChannel, channel)
	}
	var data []byte
	for _, m := range msgs {
		wire, err := p.registry.Encode(m, channel)
		if err != nil {
			return fmt.Errorf("port: encode: %w", err)
		}
		data = append(data, wire...)
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := p.transport.Write(data); err != nil {
		return fmt.Errorf("port: write: %w", err)
	}
	if p.metrics != nil {
		for _, m := range msgs {
			if d := p.registry.Lookup(m.Status()); d != nil {
				p.metrics.RecordSent(d.Name)
			}
		}
	}
	return nil
}

// NoteOn sends a Note On for the given note and velocity on the default
// channel. Out-of-range arguments fail before anything is written.
func (p *Port) NoteOn(note, velocity int) error {
	m, err := midi.NewNoteOn(note, velocity)
	if err != nil {
		return err
	}
	return p.Send(m)
}

// NoteOff sends a Note Off for the given note and velocity on the default
// channel.
func (p *Port) NoteOff(note, velocity int) error {
	m, err := midi.NewNoteOff(note, velocity)
	if err != nil {
		return err
	}
	return p.Send(m)
}

// ControlChange sends a controller update on the default channel.
func (p *Port) ControlChange(control, value int) error {
	m, err := midi.NewControlChange(control, value)
	if err != nil {
		return err
	}
	return p.Send(m)
}

// ProgramChange sends a program select on the default channel.
func (p *Port) ProgramChange(program int) error {
	m, err := midi.NewProgramChange(program)
	if err != nil {
		return err
	}
	return p.Send(m)
}

// PitchBend sends a 14-bit pitch wheel position on the default channel.
func (p *Port) PitchBend(value int) error {
	m, err := midi.NewPitchBend(value)
	if err != nil {
		return err
	}
	return p.Send(m)
}

// SkippedBytes returns the cumulative count of bytes discarded during
// resynchronization since the port was created.
func (p *Port) SkippedBytes() int64 { return p.skipped }

// Buffered returns the number of bytes currently held in the ring buffer.
func (p *Port) Buffered() int { return p.in.Len() }
