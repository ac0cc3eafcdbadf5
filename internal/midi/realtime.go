package midi

import "fmt"

// The realtime messages are all single status bytes with no data. They may
// legally appear at any point in the stream and are never filtered by
// channel.

// TimingClock is the 24-per-quarter-note sync tick.
type TimingClock struct{}

// Status implements Message.
func (TimingClock) Status() byte { return StatusTimingClock }

// Start begins playback from the top.
type Start struct{}

// Status implements Message.
func (Start) Status() byte { return StatusStart }

// Continue resumes playback from the current song position.
type Continue struct{}

// Status implements Message.
func (Continue) Status() byte { return StatusContinue }

// Stop halts playback.
type Stop struct{}

// Status implements Message.
func (Stop) Status() byte { return StatusStop }

// ActiveSensing is the keep-alive some devices emit every 300ms.
type ActiveSensing struct{}

// Status implements Message.
func (ActiveSensing) Status() byte { return StatusActiveSensing }

// SystemReset asks receivers to return to their power-up state.
type SystemReset struct{}

// Status implements Message.
func (SystemReset) Status() byte { return StatusSystemReset }

// statusOnlyDescriptor builds the descriptor for a dataless single-byte
// message.
func statusOnlyDescriptor(name string, status byte, value Message) Descriptor {
	return Descriptor{
		Name:   name,
		Status: status,
		Mask:   MaskExact,
		Length: 1,
		Decode: func([]byte) (Message, error) {
			return value, nil
		},
		Encode: func(msg Message, _ int) ([]byte, error) {
			if msg.Status() != status {
				return nil, fmt.Errorf("midi: encode %s: got %T", name, msg)
			}
			return []byte{status}, nil
		},
	}
}

func timingClockDescriptor() Descriptor {
	return statusOnlyDescriptor("TimingClock", StatusTimingClock, TimingClock{})
}

func startDescriptor() Descriptor {
	return statusOnlyDescriptor("Start", StatusStart, Start{})
}

func continueDescriptor() Descriptor {
	return statusOnlyDescriptor("Continue", StatusContinue, Continue{})
}

func stopDescriptor() Descriptor {
	return statusOnlyDescriptor("Stop", StatusStop, Stop{})
}

func activeSensingDescriptor() Descriptor {
	return statusOnlyDescriptor("ActiveSensing", StatusActiveSensing, ActiveSensing{})
}

func systemResetDescriptor() Descriptor {
	return statusOnlyDescriptor("SystemReset", StatusSystemReset, SystemReset{})
}
