package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/midiwire-io/midiwire/internal/ring"
)

func fill(t *testing.T, b *ring.Buffer, data []byte) {
	t.Helper()
	for _, v := range data {
		require.NoError(t, b.Append(v))
	}
}

func drain(t *testing.T, b *ring.Buffer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := b.PopFront()
		require.NoError(t, err)
	}
}

func TestDecodeNext_EmptyBuffer(t *testing.T) {
	buf := ring.New(8)
	res := Builtin().DecodeNext(buf, AnyChannel())
	assert.Nil(t, res.Message)
	assert.Equal(t, 0, res.Consumed)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, NoChannel, res.Channel)
}

func TestDecodeNext_NoteOnChannel2(t *testing.T) {
	// Note On, channel 2, note 60, velocity 100.
	buf := ring.New(8)
	fill(t, buf, []byte{0x92, 0x3C, 0x64})

	res := Builtin().DecodeNext(buf, AnyChannel())
	require.IsType(t, NoteOn{}, res.Message)
	m := res.Message.(NoteOn)
	assert.Equal(t, uint8(60), m.Note)
	assert.Equal(t, uint8(100), m.Velocity)
	assert.Equal(t, 2, res.Channel)
	assert.Equal(t, 3, res.Consumed)
	assert.Equal(t, 0, res.Skipped)

	drain(t, buf, res.Consumed)
	assert.Equal(t, 0, buf.Len())
}

func TestDecodeNext_ResyncPastStrayByte(t *testing.T) {
	// One stray 0xFF would be a System Reset, which is registered; use a
	// registry without realtime types to exercise the unknown-status skip,
	// and a plain data byte for the registered-registry case.
	t.Run("stray data byte", func(t *testing.T) {
		buf := ring.New(8)
		fill(t, buf, []byte{0x42, 0x80, 0x3C, 0x40})

		res := Builtin().DecodeNext(buf, AnyChannel())
		require.IsType(t, NoteOff{}, res.Message)
		m := res.Message.(NoteOff)
		assert.Equal(t, uint8(60), m.Note)
		assert.Equal(t, uint8(64), m.Velocity)
		assert.Equal(t, 0, res.Channel)
		assert.Equal(t, 4, res.Consumed)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("stray unregistered status byte", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(noteOffDescriptor()))

		// 0xFF is not registered here, so it is a resync skip.
		buf := ring.New(8)
		fill(t, buf, []byte{0xFF, 0x80, 0x3C, 0x40})

		res := r.DecodeNext(buf, AnyChannel())
		require.IsType(t, NoteOff{}, res.Message)
		assert.Equal(t, 0, res.Channel)
		assert.Equal(t, 4, res.Consumed)
		assert.Equal(t, 1, res.Skipped)
	})

	t.Run("many invalid leading bytes", func(t *testing.T) {
		buf := ring.New(16)
		garbage := []byte{0x01, 0x22, 0x7F, 0x10, 0x05}
		fill(t, buf, garbage)
		fill(t, buf, []byte{0xB3, 0x07, 0x64})

		res := Builtin().DecodeNext(buf, AnyChannel())
		require.IsType(t, ControlChange{}, res.Message)
		assert.Equal(t, 3, res.Channel)
		assert.Equal(t, len(garbage), res.Skipped)
		assert.Equal(t, len(garbage)+3, res.Consumed)
	})

	t.Run("only garbage", func(t *testing.T) {
		buf := ring.New(8)
		fill(t, buf, []byte{0x01, 0x02, 0x03})

		res := Builtin().DecodeNext(buf, AnyChannel())
		assert.Nil(t, res.Message)
		assert.Equal(t, 3, res.Consumed)
		assert.Equal(t, 3, res.Skipped)
		assert.Equal(t, NoChannel, res.Channel)
	})
}

func TestDecodeNext_PartialMessageLeftBuffered(t *testing.T) {
	buf := ring.New(8)
	fill(t, buf, []byte{0x92, 0x3C})

	res := Builtin().DecodeNext(buf, AnyChannel())
	assert.Nil(t, res.Message)
	assert.Equal(t, 0, res.Consumed)
	assert.Equal(t, 0, res.Skipped)

	// The missing byte arrives; the same buffer now decodes.
	fill(t, buf, []byte{0x64})
	res = Builtin().DecodeNext(buf, AnyChannel())
	require.IsType(t, NoteOn{}, res.Message)
	assert.Equal(t, 3, res.Consumed)
}

// TestDecodeNext_FragmentationInvariance feeds each message split at every
// byte boundary and expects the same final decode as one-shot delivery, with
// no skips along the way.
func TestDecodeNext_FragmentationInvariance(t *testing.T) {
	r := Builtin()
	wires := map[string][]byte{
		"note on":       {0x95, 0x40, 0x7F},
		"program":       {0xC1, 0x09},
		"pitch bend":    {0xE0, 0x00, 0x40},
		"sysex":         {0xF0, 0x01, 0x02, 0x03, 0xF7},
		"song position": {0xF2, 0x7F, 0x7F},
	}

	for name, wire := range wires {
		t.Run(name, func(t *testing.T) {
			want := func() DecodeResult {
				buf := ring.New(16)
				fill(t, buf, wire)
				return r.DecodeNext(buf, AnyChannel())
			}()
			require.NotNil(t, want.Message)

			for split := 1; split < len(wire); split++ {
				buf := ring.New(16)
				fill(t, buf, wire[:split])

				res := r.DecodeNext(buf, AnyChannel())
				require.Nil(t, res.Message, "split %d decoded early", split)
				require.Equal(t, 0, res.Skipped, "split %d", split)
				drain(t, buf, res.Consumed)

				fill(t, buf, wire[split:])
				res = r.DecodeNext(buf, AnyChannel())
				require.Equal(t, want.Message, res.Message, "split %d", split)
				require.Equal(t, want.Channel, res.Channel, "split %d", split)
				require.Equal(t, 0, res.Skipped, "split %d", split)
				require.Equal(t, len(wire), res.Consumed, "split %d", split)
			}
		})
	}
}

func TestDecodeNext_ChannelFilter(t *testing.T) {
	r := Builtin()
	wire := []byte{0x92, 0x3C, 0x64} // channel 2

	t.Run("matching channel passes", func(t *testing.T) {
		f, err := SingleChannel(2)
		require.NoError(t, err)
		buf := ring.New(8)
		fill(t, buf, wire)

		res := r.DecodeNext(buf, f)
		require.IsType(t, NoteOn{}, res.Message)
		assert.Equal(t, 2, res.Channel)
	})

	t.Run("other channel is consumed silently", func(t *testing.T) {
		f, err := SingleChannel(5)
		require.NoError(t, err)
		buf := ring.New(8)
		fill(t, buf, wire)

		res := r.DecodeNext(buf, f)
		assert.Nil(t, res.Message)
		assert.Equal(t, 3, res.Consumed)
		assert.Equal(t, 0, res.Skipped)
		assert.Equal(t, NoChannel, res.Channel)
		assert.True(t, res.Filtered)
	})

	t.Run("channel set", func(t *testing.T) {
		f, err := Channels(1, 2, 3)
		require.NoError(t, err)
		buf := ring.New(8)
		fill(t, buf, wire)

		res := r.DecodeNext(buf, f)
		require.IsType(t, NoteOn{}, res.Message)
	})

	t.Run("system messages bypass the filter", func(t *testing.T) {
		f, err := SingleChannel(5)
		require.NoError(t, err)
		buf := ring.New(8)
		fill(t, buf, []byte{0xF8})

		res := r.DecodeNext(buf, f)
		require.IsType(t, TimingClock{}, res.Message)
		assert.Equal(t, NoChannel, res.Channel)
	})
}

func TestDecodeNext_SystemExclusive(t *testing.T) {
	r := Builtin()

	t.Run("complete", func(t *testing.T) {
		buf := ring.New(16)
		fill(t, buf, []byte{0xF0, 0x7D, 0x01, 0x02, 0xF7})

		res := r.DecodeNext(buf, AnyChannel())
		require.IsType(t, SystemExclusive{}, res.Message)
		m := res.Message.(SystemExclusive)
		assert.Equal(t, []byte{0x7D, 0x01, 0x02}, m.Data)
		assert.Equal(t, 5, res.Consumed)
		assert.Equal(t, NoChannel, res.Channel)
	})

	t.Run("unterminated waits for more bytes", func(t *testing.T) {
		buf := ring.New(16)
		fill(t, buf, []byte{0xF0, 0x01, 0x02})

		res := r.DecodeNext(buf, AnyChannel())
		assert.Nil(t, res.Message)
		assert.Equal(t, 0, res.Consumed)
		assert.Equal(t, 3, buf.Len())
	})

	t.Run("abnormal termination resyncs at foreign status", func(t *testing.T) {
		buf := ring.New(16)
		// SysEx aborted by a Note On; the Note On must survive.
		fill(t, buf, []byte{0xF0, 0x01, 0x02, 0x90, 0x3C, 0x64})

		res := r.DecodeNext(buf, AnyChannel())
		assert.Nil(t, res.Message)
		assert.Equal(t, 3, res.Consumed)
		assert.Equal(t, 0, res.Skipped)
		drain(t, buf, res.Consumed)

		res = r.DecodeNext(buf, AnyChannel())
		require.IsType(t, NoteOn{}, res.Message)
		assert.Equal(t, 0, res.Channel)
		assert.Equal(t, 3, res.Consumed)
	})
}

func TestDecodeNext_BadEvent(t *testing.T) {
	// A status byte where a data byte belongs means the original message was
	// truncated on the wire. The fixed-length window decodes to a BadEvent
	// carrying the raw bytes.
	buf := ring.New(8)
	fill(t, buf, []byte{0x90, 0x3C, 0xC5})

	res := Builtin().DecodeNext(buf, AnyChannel())
	require.IsType(t, BadEvent{}, res.Message)
	m := res.Message.(BadEvent)
	assert.Equal(t, []byte{0x90, 0x3C, 0xC5}, m.Data)
	assert.ErrorIs(t, m.Err, ErrOutOfRange)
	assert.Equal(t, 3, res.Consumed)
	assert.Equal(t, 0, res.Channel)
}

func TestDecodeNext_SinglePassPerCall(t *testing.T) {
	buf := ring.New(16)
	fill(t, buf, []byte{0xF8, 0x92, 0x3C, 0x64})

	r := Builtin()
	res := r.DecodeNext(buf, AnyChannel())
	require.IsType(t, TimingClock{}, res.Message)
	assert.Equal(t, 1, res.Consumed)
	drain(t, buf, res.Consumed)

	res = r.DecodeNext(buf, AnyChannel())
	require.IsType(t, NoteOn{}, res.Message)
	assert.Equal(t, 3, res.Consumed)
}

// TestDecodeNext_RoundTrip encodes every variant across the full legal field
// space and decodes the bytes back.
func TestDecodeNext_RoundTrip(t *testing.T) {
	r := Builtin()

	roundTrip := func(t *testing.T, msg Message, channel int) {
		t.Helper()
		wire, err := r.Encode(msg, channel)
		require.NoError(t, err)

		buf := ring.New(len(wire) + 1)
		fill(t, buf, wire)
		res := r.DecodeNext(buf, AnyChannel())
		require.Equal(t, msg, res.Message)
		if d := r.descriptorFor(msg); d.ChannelVoice {
			require.Equal(t, channel, res.Channel)
		} else {
			require.Equal(t, NoChannel, res.Channel)
		}
		require.Equal(t, len(wire), res.Consumed)
	}

	t.Run("three byte channel voice", func(t *testing.T) {
		for ch := 0; ch < 16; ch++ {
			for v := 0; v <= 127; v++ {
				m, err := NewNoteOn(v, 127-v)
				require.NoError(t, err)
				roundTrip(t, m, ch)

				off, err := NewNoteOff(127-v, v)
				require.NoError(t, err)
				roundTrip(t, off, ch)

				cc, err := NewControlChange(v, v)
				require.NoError(t, err)
				roundTrip(t, cc, ch)

				pp, err := NewPolyphonicPressure(v, v)
				require.NoError(t, err)
				roundTrip(t, pp, ch)
			}
		}
	})

	t.Run("two byte channel voice", func(t *testing.T) {
		for ch := 0; ch < 16; ch++ {
			for v := 0; v <= 127; v++ {
				pc, err := NewProgramChange(v)
				require.NoError(t, err)
				roundTrip(t, pc, ch)

				cp, err := NewChannelPressure(v)
				require.NoError(t, err)
				roundTrip(t, cp, ch)
			}
		}
	})

	t.Run("pitch bend", func(t *testing.T) {
		for ch := 0; ch < 16; ch++ {
			for _, v := range []int{0, 1, 127, 128, 8191, 8192, 8193, 16383} {
				m, err := NewPitchBend(v)
				require.NoError(t, err)
				roundTrip(t, m, ch)
			}
		}
		// Exhaustive over the 14-bit space on one channel.
		for v := 0; v <= 16383; v++ {
			m, err := NewPitchBend(v)
			require.NoError(t, err)
			roundTrip(t, m, 0)
		}
	})

	t.Run("system common", func(t *testing.T) {
		for _, v := range []int{0, 8192, 16383} {
			m, err := NewSongPositionPointer(v)
			require.NoError(t, err)
			roundTrip(t, m, 0)
		}
		for v := 0; v <= 127; v++ {
			m, err := NewSongSelect(v)
			require.NoError(t, err)
			roundTrip(t, m, 0)
		}
		roundTrip(t, TuneRequest{}, 0)
	})

	t.Run("realtime", func(t *testing.T) {
		for _, m := range []Message{TimingClock{}, Start{}, Continue{}, Stop{}, ActiveSensing{}, SystemReset{}} {
			roundTrip(t, m, 0)
		}
	})

	t.Run("sysex", func(t *testing.T) {
		for _, data := range [][]byte{nil, {0x00}, {0x7F, 0x00, 0x7F}, make([]byte, 64)} {
			m, err := NewSystemExclusive(data)
			require.NoError(t, err)
			roundTrip(t, m, 0)
		}
	})
}
