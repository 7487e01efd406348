// Package throttle coalesces a stream of small text deltas into a small
// number of bounded-size progress messages, emitting at most one per
// configured interval unless a newline or an oversized buffer forces an
// earlier flush. Cadence is gated by golang.org/x/time/rate.
package throttle

import (
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultInterval is the minimum spacing between throttled emissions.
	DefaultInterval = 900 * time.Millisecond

	// DefaultHardFlushSize forces an emit once the buffer grows past this
	// many characters, regardless of the interval.
	DefaultHardFlushSize = 500

	// DefaultTailWindow bounds the size of every emit: only the last
	// TailWindow runes of an over-long buffer are returned.
	DefaultTailWindow = 400
)

// State buffers deltas between emissions.
type State struct {
	Interval       time.Duration
	HardFlushSize  int
	TailWindow     int

	buf     strings.Builder
	limiter *rate.Limiter
}

// New constructs a throttler with the default cadence and sizing.
func New() *State {
	return NewWithParams(DefaultInterval, DefaultHardFlushSize, DefaultTailWindow)
}

// NewWithParams constructs a throttler with explicit cadence and sizing,
// primarily for tests that need a tighter interval than production defaults.
func NewWithParams(interval time.Duration, hardFlushSize, tailWindow int) *State {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	// The bucket starts full; drain it so the first interval-based emit
	// comes no sooner than one interval after construction.
	limiter.Allow()
	return &State{
		Interval:      interval,
		HardFlushSize: hardFlushSize,
		TailWindow:    tailWindow,
		limiter:       limiter,
	}
}

// Offer appends delta to the internal buffer and, if an emission is due,
// returns the text to forward to the parent and true. Otherwise it returns
// ("", false).
func (s *State) Offer(delta string) (string, bool) {
	s.buf.WriteString(delta)

	hasNewline := strings.ContainsRune(delta, '\n')
	oversized := s.buf.Len() > s.HardFlushSize
	intervalElapsed := s.limiter.Allow()

	if !hasNewline && !oversized && !intervalElapsed {
		return "", false
	}
	return s.flush(), true
}

// OfferFinal unconditionally flushes the buffer (plus text, if any) and
// returns the emission, used for whole-message events that always surface.
func (s *State) OfferFinal(text string) string {
	s.buf.WriteString(text)
	return s.flush()
}

func (s *State) flush() string {
	out := s.buf.String()
	if runeLen := []rune(out); len(runeLen) > s.TailWindow {
		out = string(runeLen[len(runeLen)-s.TailWindow:])
	}
	s.buf.Reset()
	return out
}
