package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors_RejectOutOfRange(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"note on note", errOf(NewNoteOn(128, 0))},
		{"note on velocity", errOf(NewNoteOn(0, 128))},
		{"note on negative", errOf(NewNoteOn(-1, 0))},
		{"note off", errOf(NewNoteOff(0, 300))},
		{"polyphonic pressure", errOf(NewPolyphonicPressure(128, 0))},
		{"control change", errOf(NewControlChange(0, 128))},
		{"program change", errOf(NewProgramChange(-5))},
		{"channel pressure", errOf(NewChannelPressure(1000))},
		{"pitch bend high", errOf(NewPitchBend(16384))},
		{"pitch bend negative", errOf(NewPitchBend(-1))},
		{"song position", errOf(NewSongPositionPointer(16384))},
		{"song select", errOf(NewSongSelect(128))},
		{"sysex data", errOf(NewSystemExclusive([]byte{0x01, 0x80}))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, ErrOutOfRange)
		})
	}
}

func errOf(_ any, err error) error { return err }

func TestConstructors_BoundaryValues(t *testing.T) {
	_, err := NewNoteOn(0, 0)
	assert.NoError(t, err)
	_, err = NewNoteOn(127, 127)
	assert.NoError(t, err)
	_, err = NewPitchBend(0)
	assert.NoError(t, err)
	_, err = NewPitchBend(16383)
	assert.NoError(t, err)
	_, err = NewSystemExclusive(nil)
	assert.NoError(t, err)
}

func TestSystemExclusive_CopiesData(t *testing.T) {
	src := []byte{1, 2, 3}
	m, err := NewSystemExclusive(src)
	require.NoError(t, err)
	src[0] = 99
	assert.Equal(t, []byte{1, 2, 3}, m.Data)
}

func TestFourteenBitSplit(t *testing.T) {
	// A center pitch bend splits into low 7 bits first.
	lo, hi := split14(8192)
	assert.Equal(t, byte(0x00), lo)
	assert.Equal(t, byte(0x40), hi)
	assert.Equal(t, 8192, join14(lo, hi))

	for _, v := range []int{0, 1, 127, 128, 8191, 8193, 16383} {
		lo, hi := split14(v)
		assert.Equal(t, v, join14(lo, hi), "value %d", v)
	}
}

func TestNoteNumber(t *testing.T) {
	cases := []struct {
		name string
		want int
	}{
		{"C4", 60},
		{"C#4", 61},
		{"c4", 60},
		{"Db4", 61},
		{"A4", 57}, // octave numbering runs A..G, matching NoteNumber's offset table
		{"G9", 127},
		{"C-1", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NoteNumber(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("malformed", func(t *testing.T) {
		for _, bad := range []string{"", "C", "H4", "C##4", "C#"} {
			_, err := NoteNumber(bad)
			assert.Error(t, err, "input %q", bad)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := NoteNumber("C10")
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}
