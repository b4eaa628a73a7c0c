package stopwatch

import (
	"errors"
	"fmt"

	"github.com/psantana5/tictoc/pkg/clock"
	"github.com/psantana5/tictoc/pkg/timespec"
)

// ErrNotReady is returned when Measure or Lap is called before both
// Start and Stop have recorded an instant.
var ErrNotReady = errors.New("stopwatch not ready: start and stop must be called first")

// Stopwatch records a start instant, a stop instant, and a derived
// elapsed interval. Zero-initialized on construction; Measure and Lap
// fail fast instead of exposing instants that were never recorded.
//
// A Stopwatch has no internal locking. Use one per goroutine or
// serialize access externally.
type Stopwatch struct {
	clk           clock.Clock
	measureOnStop bool

	tic     timespec.Timespec
	toc     timespec.Timespec
	elapsed timespec.Timespec

	started bool
	stopped bool
}

// Option configures a Stopwatch at construction.
type Option func(*Stopwatch)

// WithClock substitutes the monotonic time source. Used by tests and
// by callers that centralize clock access.
func WithClock(c clock.Clock) Option {
	return func(s *Stopwatch) {
		s.clk = c
	}
}

// WithMeasureOnStop makes Stop also measure the elapsed interval, so
// callers that only ever want the last interval can skip Measure.
func WithMeasureOnStop() Option {
	return func(s *Stopwatch) {
		s.measureOnStop = true
	}
}

// New creates a stopped, zeroed stopwatch.
func New(opts ...Option) *Stopwatch {
	s := &Stopwatch{clk: clock.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start records the current monotonic instant as the start time.
// Calling Start again restarts timing and discards any previous stop.
func (s *Stopwatch) Start() error {
	now, err := s.clk.Now()
	if err != nil {
		return fmt.Errorf("stopwatch start: %w", err)
	}
	s.tic = now
	s.started = true
	s.stopped = false
	return nil
}

// Stop records the current monotonic instant as the stop time. When
// the stopwatch was built with WithMeasureOnStop, Stop also measures.
func (s *Stopwatch) Stop() error {
	now, err := s.clk.Now()
	if err != nil {
		return fmt.Errorf("stopwatch stop: %w", err)
	}
	s.toc = now
	s.stopped = true
	if s.measureOnStop {
		return s.Measure()
	}
	return nil
}

// Measure overwrites the elapsed interval with stop minus start. Safe
// to call repeatedly on a stopped stopwatch; the result only changes
// if Start or Stop runs in between.
func (s *Stopwatch) Measure() error {
	if !s.started || !s.stopped {
		return ErrNotReady
	}
	s.elapsed = timespec.Sub(s.tic, s.toc)
	return nil
}

// Lap adds stop minus start to the elapsed interval, accumulating
// totals across repeated Start/Stop cycles. Call Reset before the
// first Lap of a sequence; Lap itself never clears the accumulator.
func (s *Stopwatch) Lap() error {
	if !s.started || !s.stopped {
		return ErrNotReady
	}
	s.elapsed = timespec.Add(s.elapsed, timespec.Sub(s.tic, s.toc))
	return nil
}

// Reset zeroes the elapsed interval. Start and stop instants are kept.
func (s *Stopwatch) Reset() {
	s.elapsed = timespec.Timespec{}
}

// Elapsed returns the last measured or accumulated interval.
func (s *Stopwatch) Elapsed() timespec.Timespec {
	return s.elapsed
}

// StartedAt returns the recorded start instant and whether Start has
// run since construction.
func (s *Stopwatch) StartedAt() (timespec.Timespec, bool) {
	return s.tic, s.started
}

// StoppedAt returns the recorded stop instant and whether Stop has run
// since the last Start.
func (s *Stopwatch) StoppedAt() (timespec.Timespec, bool) {
	return s.toc, s.stopped
}
