package midi

import "github.com/midiwire-io/midiwire/internal/ring"

// DecodeResult reports the outcome of one DecodeNext call. The fields are
// independent: Skipped can be nonzero with a nil Message (resynchronization
// without a complete message yet), and Consumed always covers the skipped
// bytes plus, when a message matched, its full encoded length.
type DecodeResult struct {
	// Message is the decoded message, or nil when the buffer holds no
	// complete message or the message was discarded by the channel filter.
	Message Message

	// Consumed is the number of bytes the caller must pop from the buffer
	// head before the next call.
	Consumed int

	// Skipped counts leading bytes discarded because they could not start
	// any registered message. Filtered messages do not count as skipped.
	Skipped int

	// Channel is the channel the message was addressed to, or NoChannel.
	Channel int

	// Filtered reports that a structurally valid message was consumed but
	// discarded by the channel filter.
	Filtered bool
}

// DecodeNext finds and decodes the first complete message at the buffer
// head. It is a pure function of the current buffer contents: it never
// blocks, never mutates the buffer, and leaves a partially received message
// buffered so a later call can complete it. One call decodes at most one
// message; the caller pops Consumed bytes and calls again.
func (r *Registry) DecodeNext(buf *ring.Buffer, filter ChannelFilter) DecodeResult {
	res := DecodeResult{Channel: NoChannel}
	n := buf.Len()

	// Resynchronize: discard leading bytes until one can start a registered
	// message. Data bytes (top bit clear) and unregistered status bytes are
	// both skipped.
	i := 0
	var desc *Descriptor
	var status byte
	for i < n {
		b, err := buf.At(i)
		if err != nil {
			break
		}
		if b&statusBit != 0 {
			if d := r.Lookup(b); d != nil {
				desc, status = d, b
				break
			}
		}
		i++
		res.Skipped++
	}
	if desc == nil {
		res.Consumed = res.Skipped
		return res
	}

	var end int
	if desc.Length != VariableLength {
		if n-i < desc.Length {
			// Partial message: leave it buffered, consume only the skips.
			res.Consumed = res.Skipped
			return res
		}
		end = i + desc.Length
	} else {
		end = -1
		for j := i + 1; j < n; j++ {
			b, err := buf.At(j)
			if err != nil || b&statusBit == 0 {
				continue
			}
			if b != desc.EndStatus {
				// Abnormal termination: a foreign status byte inside a
				// variable-length message aborts it. The aborted bytes are
				// consumed; the foreign byte is the next resync point.
				res.Consumed = res.Skipped + (j - i)
				return res
			}
			end = j + 1
			break
		}
		if end < 0 {
			// Terminator not buffered yet.
			res.Consumed = res.Skipped
			return res
		}
	}

	channel := NoChannel
	if desc.ChannelVoice {
		channel = int(status & channelMask)
		if !filter.Accepts(channel) {
			// Structurally valid but addressed elsewhere: fully consumed,
			// not reported, not counted as skipped.
			res.Consumed = res.Skipped + (end - i)
			res.Filtered = true
			return res
		}
	}

	raw, err := buf.Slice(i, end, 1)
	if err != nil {
		res.Consumed = res.Skipped
		return res
	}

	msg, err := desc.Decode(raw)
	if err != nil {
		msg = BadEvent{Data: raw, Err: err}
	}
	res.Message = msg
	res.Channel = channel
	res.Consumed = res.Skipped + (end - i)
	return res
}
