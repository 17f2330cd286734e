package flipbook

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidArgument is returned for zero frame counts, non-positive
	// durations, mismatched duration tables and out of range frame indices.
	ErrInvalidArgument = errors.New("flipbook: invalid argument")

	// ErrInvalidState is returned when operating on a released Sequencer or Anime.
	ErrInvalidState = errors.New("flipbook: invalid state")
)

// State is the playback state of a Sequencer.
type State uint8

const (
	Empty State = iota
	Playing
	HeldAtStart
	HeldAtEnd
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Playing:
		return "playing"
	case HeldAtStart:
		return "held at start"
	case HeldAtEnd:
		return "held at end"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// Sequencer tracks which frame of a flip-book animation is active.
//
// Time only moves through Advance and the seek methods, using deltas supplied
// by the caller. A frame boundary belongs to the next frame: once the elapsed
// time in a frame reaches its duration, playback moves on. Without looping,
// playback holds on the last frame with the elapsed time pinned at its
// duration, or on the first frame with zero elapsed time when rewinding.
//
// After Release the Sequencer is empty. Methods that return an error report
// ErrInvalidState, Advance, Rewind and SetLoop do nothing, and queries return
// zero values.
//
// A Sequencer is not safe for concurrent use.
type Sequencer struct {
	durations []time.Duration
	total     time.Duration
	index     int
	elapsed   time.Duration
	loop      bool
	held      State
}

// New returns a Sequencer of frameCount frames, each displayed for duration.
func New(frameCount int, duration time.Duration, loop bool) (*Sequencer, error) {
	if frameCount <= 0 {
		return nil, fmt.Errorf("frame count %d: %w", frameCount, ErrInvalidArgument)
	}
	durations := make([]time.Duration, frameCount)
	for i := range durations {
		durations[i] = duration
	}
	return NewWithDurations(durations, loop)
}

// NewWithDurations returns a Sequencer with one frame per entry of durations.
// The slice is copied.
func NewWithDurations(durations []time.Duration, loop bool) (*Sequencer, error) {
	s := &Sequencer{loop: loop}
	if err := s.setDurations(durations); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sequencer) setDurations(durations []time.Duration) error {
	if len(durations) == 0 {
		return fmt.Errorf("empty duration table: %w", ErrInvalidArgument)
	}
	var total time.Duration
	for i, d := range durations {
		if d <= 0 {
			return fmt.Errorf("frame %d duration %v: %w", i, d, ErrInvalidArgument)
		}
		if total > math.MaxInt64-d {
			return fmt.Errorf("total duration overflows: %w", ErrInvalidArgument)
		}
		total += d
	}
	s.durations = append(make([]time.Duration, 0, len(durations)), durations...)
	s.total = total
	s.index = 0
	s.elapsed = 0
	s.held = Playing
	return nil
}

// SetDurations replaces the duration table and rewinds. The frame count of
// the strip cannot change.
func (s *Sequencer) SetDurations(durations []time.Duration) error {
	if s.isEmpty() {
		return ErrInvalidState
	}
	if len(durations) != len(s.durations) {
		return fmt.Errorf("duration table has %d entries, want %d: %w",
			len(durations), len(s.durations), ErrInvalidArgument)
	}
	return s.setDurations(durations)
}

// SetDuration gives every frame the same duration and rewinds.
func (s *Sequencer) SetDuration(duration time.Duration) error {
	if s.isEmpty() {
		return ErrInvalidState
	}
	durations := make([]time.Duration, len(s.durations))
	for i := range durations {
		durations[i] = duration
	}
	return s.setDurations(durations)
}

// Advance moves playback forward by delta, or backward when delta is negative.
// Any number of frame boundaries may be crossed in one call.
func (s *Sequencer) Advance(delta time.Duration) {
	if s.isEmpty() || delta == 0 {
		return
	}
	if s.loop && (delta >= s.total || delta <= -s.total) {
		delta %= s.total
	}
	// On overflow a looping sequencer is one lap behind, which settles to the
	// same frame; otherwise elapsed saturates at total and holds at the end.
	if delta > 0 && s.elapsed > math.MaxInt64-delta {
		if s.loop {
			s.elapsed = s.elapsed - s.total + delta
		} else {
			s.elapsed = s.total
		}
	} else {
		s.elapsed += delta
	}
	s.settle()
}

// settle walks index and elapsed back into [0, durations[index]).
func (s *Sequencer) settle() {
	last := len(s.durations) - 1
	s.held = Playing
	for s.elapsed >= s.durations[s.index] {
		if !s.loop && s.index == last {
			s.elapsed = s.durations[last]
			s.held = HeldAtEnd
			return
		}
		s.elapsed -= s.durations[s.index]
		s.index++
		if s.index > last {
			s.index = 0
		}
	}
	for s.elapsed < 0 {
		if !s.loop && s.index == 0 {
			s.elapsed = 0
			s.held = HeldAtStart
			return
		}
		s.index--
		if s.index < 0 {
			s.index = last
		}
		s.elapsed += s.durations[s.index]
	}
}

// SeekTo jumps to frame index and then advances by residual, so a residual
// longer than the frame rolls over into the following frames.
func (s *Sequencer) SeekTo(index int, residual time.Duration) error {
	if s.isEmpty() {
		return ErrInvalidState
	}
	if index < 0 || index >= len(s.durations) {
		return fmt.Errorf("frame index %d out of range [0, %d): %w",
			index, len(s.durations), ErrInvalidArgument)
	}
	s.index = index
	s.elapsed = 0
	s.held = Playing
	s.Advance(residual)
	return nil
}

// SetPosition seeks to t measured from the start of frame 0.
func (s *Sequencer) SetPosition(t time.Duration) error {
	return s.SeekTo(0, t)
}

// Rewind returns to the start of frame 0.
func (s *Sequencer) Rewind() {
	if s.isEmpty() {
		return
	}
	s.index = 0
	s.elapsed = 0
	s.held = Playing
}

// SetLoop changes the playback policy. Switching a held animation to looping
// resumes it from the same point in time.
func (s *Sequencer) SetLoop(loop bool) {
	if s.isEmpty() {
		return
	}
	s.loop = loop
	if loop {
		s.settle()
	}
}

// Loop reports whether playback wraps around.
func (s *Sequencer) Loop() bool { return s.loop }

// Index returns the active frame.
func (s *Sequencer) Index() int { return s.index }

// Elapsed returns the time spent in the active frame.
func (s *Sequencer) Elapsed() time.Duration { return s.elapsed }

// FrameCount returns the number of frames, or 0 once released.
func (s *Sequencer) FrameCount() int { return len(s.durations) }

// TotalDuration returns the length of one pass over all frames.
func (s *Sequencer) TotalDuration() time.Duration { return s.total }

// Durations returns a copy of the duration table.
func (s *Sequencer) Durations() []time.Duration {
	return append([]time.Duration(nil), s.durations...)
}

// Position returns the time since the start of frame 0.
func (s *Sequencer) Position() time.Duration {
	t := s.elapsed
	for _, d := range s.durations[:s.index] {
		t += d
	}
	return t
}

// State reports whether the sequencer is playing, held at either end, or released.
func (s *Sequencer) State() State {
	if s.isEmpty() {
		return Empty
	}
	return s.held
}

// Region returns the strip region of the active frame.
func (s *Sequencer) Region() (Region, error) {
	if s.isEmpty() {
		return Region{}, ErrInvalidState
	}
	return FrameRegion(len(s.durations), s.index)
}

// Release drops the duration table. It is safe to call more than once.
func (s *Sequencer) Release() {
	s.durations = nil
	s.total = 0
	s.index = 0
	s.elapsed = 0
	s.held = Empty
}

func (s *Sequencer) isEmpty() bool {
	return len(s.durations) == 0
}

func (s *Sequencer) String() string {
	return fmt.Sprintf(debugFormat,
		s.index,
		s.FrameCount(),
		s.elapsed,
		s.Position(),
		s.loop,
		s.State())
}

const debugFormat = `-- Sequencer --
Frame: %d/%d
Elapsed: %v
Position: %v
Loop: %v
State: %v`
