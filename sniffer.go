package fastimage

import (
	"errors"

	"fastimage/formats"
)

// DefaultMaxBufferSize bounds the bytes a Sniffer keeps while looking for a
// header. JPEG files may carry several 64 KiB metadata segments before the
// frame header.
const DefaultMaxBufferSize = 1 << 20

// ErrSniffDone is returned by Sniffer.Write once a terminal state has been
// reached, so that io.Copy and friends stop pulling data.
var ErrSniffDone = errors.New("fastimage: sniff complete")

// State is the state of a Sniffer.
type State int

const (
	StateEmpty State = iota
	StateAccumulating
	StateResolved
	StateUnsupported
	StateTruncated
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateAccumulating:
		return "accumulating"
	case StateResolved:
		return "resolved"
	case StateUnsupported:
		return "unsupported"
	case StateTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further input can change the state.
func (s State) Terminal() bool {
	return s == StateResolved || s == StateUnsupported || s == StateTruncated
}

// Sniffer accumulates the leading bytes of a resource and re-runs the format
// detectors on every chunk until one of them resolves, all of them give up,
// the buffer cap is hit, or the input ends.
//
// A Sniffer belongs to a single analysis and is not safe for concurrent use.
type Sniffer struct {
	buf      []byte
	max      int
	state    State
	outcome  formats.Outcome
	consumed uint64
	onDone   func(State)
}

// NewSniffer returns a Sniffer that never buffers more than maxBuffer bytes.
// A non-positive maxBuffer selects DefaultMaxBufferSize.
func NewSniffer(maxBuffer int) *Sniffer {
	if maxBuffer <= 0 {
		maxBuffer = DefaultMaxBufferSize
	}
	initial := 512
	if maxBuffer < initial {
		initial = maxBuffer
	}
	return &Sniffer{buf: make([]byte, 0, initial), max: maxBuffer}
}

// OnTerminal registers fn to be called once, synchronously, at the moment the
// Sniffer enters a terminal state. Readers use it to release the underlying
// file or connection without waiting for the rest of the data.
func (s *Sniffer) OnTerminal(fn func(State)) {
	s.onDone = fn
}

// Feed appends p and re-evaluates the buffer. Bytes past the buffer cap are
// counted as consumed but not stored. Feeding a terminal Sniffer is a no-op.
func (s *Sniffer) Feed(p []byte) State {
	if s.state.Terminal() || len(p) == 0 {
		return s.state
	}
	s.consumed += uint64(len(p))

	if room := s.max - len(s.buf); len(p) > room {
		p = p[:room]
	}
	s.buf = append(s.buf, p...)

	s.outcome = formats.Detect(s.buf)
	switch {
	case s.outcome.Status == formats.Resolved:
		s.finish(StateResolved)
	case s.outcome.Status == formats.NoMatch:
		s.finish(StateUnsupported)
	case len(s.buf) >= s.max:
		s.finish(StateUnsupported)
	default:
		s.state = StateAccumulating
	}
	return s.state
}

// Close signals the end of the input. A Sniffer still waiting for a detector
// becomes Truncated; one that never saw a byte becomes Unsupported.
func (s *Sniffer) Close() State {
	switch s.state {
	case StateEmpty:
		s.finish(StateUnsupported)
	case StateAccumulating:
		s.finish(StateTruncated)
	}
	return s.state
}

// Write implements io.Writer on top of Feed.
func (s *Sniffer) Write(p []byte) (int, error) {
	if s.Feed(p).Terminal() {
		return len(p), ErrSniffDone
	}
	return len(p), nil
}

func (s *Sniffer) finish(state State) {
	s.state = state
	if s.onDone != nil {
		fn := s.onDone
		s.onDone = nil
		fn(state)
	}
}

// State returns the current state.
func (s *Sniffer) State() State {
	return s.state
}

// Outcome returns the last detector outcome. It is only meaningful once the
// state is StateResolved.
func (s *Sniffer) Outcome() formats.Outcome {
	return s.outcome
}

// Len returns the number of buffered bytes.
func (s *Sniffer) Len() int {
	return len(s.buf)
}

// Consumed returns the number of bytes offered to the Sniffer before it
// reached a terminal state.
func (s *Sniffer) Consumed() uint64 {
	return s.consumed
}
