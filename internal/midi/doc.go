// Package midi implements encoding and decoding of MIDI wire protocol
// messages from a fragmented byte stream.
//
// The package is organized around a message-type registry: each message
// variant (NoteOn, PitchBend, SystemExclusive, ...) is described by a
// Descriptor that ties a status-byte pattern to decode/encode functions and
// a length rule. Builtin() returns a registry populated with all standard
// variants; new types are added by registering another Descriptor, not by
// touching the decoder.
//
// Decoding is re-entrant by construction. DecodeNext is a pure function of
// the current buffer contents: it never blocks waiting for bytes, and a
// partially received message is left in the buffer so a later call can
// complete it. Corrupted or misaligned input is handled by resynchronization:
// leading bytes that cannot start any registered message are counted in
// DecodeResult.Skipped and discarded, never surfaced as errors.
//
// Usage:
//
//	buf := ring.New(64)
//	// ... append received bytes ...
//	res := midi.Builtin().DecodeNext(buf, midi.AnyChannel())
//	for i := 0; i < res.Consumed; i++ {
//		buf.PopFront()
//	}
//	if note, ok := res.Message.(midi.NoteOn); ok {
//		// note.Note, note.Velocity, res.Channel
//	}
//
// Channel is not a field of channel-voice message values. It is supplied at
// encode time and reported separately at decode time, so the same value can
// be sent on any channel.
package midi
