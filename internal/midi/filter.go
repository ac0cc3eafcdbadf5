package midi

import (
	"fmt"
	"strconv"
	"strings"
)

// NoChannel is the DecodeResult.Channel value for messages that are not
// addressed to a channel.
const NoChannel = -1

type filterMode uint8

const (
	filterAny filterMode = iota
	filterSingle
	filterSet
)

// ChannelFilter selects which channels a port listens to. It applies only to
// channel-voice messages; system and realtime messages always pass. The zero
// value accepts every channel.
type ChannelFilter struct {
	mode   filterMode
	single int
	set    uint16 // bit i set means channel i accepted
}

// AnyChannel returns a filter that accepts every channel (no filtering
// configured).
func AnyChannel() ChannelFilter { return ChannelFilter{} }

// AllChannels returns the "ALL" sentinel filter. It accepts every channel,
// same as AnyChannel; the distinct constructor mirrors the configuration
// surface where "all" is an explicit choice.
func AllChannels() ChannelFilter { return ChannelFilter{} }

// SingleChannel returns a filter accepting only the given channel.
// The channel must be 0-15.
func SingleChannel(c int) (ChannelFilter, error) {
	if !channelOK(c) {
		return ChannelFilter{}, fmt.Errorf("%w: %d", ErrInvalidChannel, c)
	}
	return ChannelFilter{mode: filterSingle, single: c}, nil
}

// Channels returns a filter accepting exactly the given set of channels.
// Every channel must be 0-15 and at least one must be given.
func Channels(cs ...int) (ChannelFilter, error) {
	if len(cs) == 0 {
		return ChannelFilter{}, fmt.Errorf("%w: empty channel set", ErrInvalidChannel)
	}
	var set uint16
	for _, c := range cs {
		if !channelOK(c) {
			return ChannelFilter{}, fmt.Errorf("%w: %d", ErrInvalidChannel, c)
		}
		set |= 1 << uint(c)
	}
	return ChannelFilter{mode: filterSet, set: set}, nil
}

// Accepts reports whether a channel-voice message on channel c passes the
// filter.
func (f ChannelFilter) Accepts(c int) bool {
	switch f.mode {
	case filterSingle:
		return c == f.single
	case filterSet:
		return channelOK(c) && f.set&(1<<uint(c)) != 0
	default:
		return true
	}
}

// ParseChannelFilter builds a filter from its configuration string form:
// "" or "all" accept every channel, "7" a single channel, "1,2,3" a set.
// Invalid input fails here, at configuration time, never during decoding.
func ParseChannelFilter(s string) (ChannelFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return AllChannels(), nil
	}
	parts := strings.Split(s, ",")
	cs := make([]int, 0, len(parts))
	for _, p := range parts {
		c, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ChannelFilter{}, fmt.Errorf("midi: bad channel spec %q: %w", s, err)
		}
		cs = append(cs, c)
	}
	if len(cs) == 1 {
		return SingleChannel(cs[0])
	}
	return Channels(cs...)
}
