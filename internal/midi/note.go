package midi

import (
	"fmt"
	"strconv"
)

// Note numbers of A..G within octave 0, counted from C-1 = 0.
var noteOffsets = [7]int{9, 11, 12, 14, 16, 17, 19}

// NoteNumber converts a note name like "C4", "C#4" or "Eb2" to its MIDI note
// number, e.g. "C4" -> 60 and "C#4" -> 61. The letter may be lower case.
func NoteNumber(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("midi: bad note %q", name)
	}
	letter := name[0]
	if letter >= 'a' && letter <= 'g' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'G' {
		return 0, fmt.Errorf("midi: bad note %q", name)
	}

	accidental := 0
	rest := name[1:]
	switch name[1] {
	case '#':
		accidental = 1
		rest = name[2:]
	case 'b':
		accidental = -1
		rest = name[2:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("midi: bad note %q: %w", name, err)
	}

	n := octave*12 + noteOffsets[letter-'A'] + accidental
	if !dataByteOK(n) {
		return 0, fmt.Errorf("%w: note %q = %d", ErrOutOfRange, name, n)
	}
	return n, nil
}
