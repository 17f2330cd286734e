package flipbook

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"
)

const ms = time.Millisecond

func mustNew(t *testing.T, durations []time.Duration, loop bool) *Sequencer {
	t.Helper()
	s, err := NewWithDurations(durations, loop)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func checkPos(t *testing.T, s *Sequencer, index int, elapsed time.Duration) {
	t.Helper()
	if s.Index() != index || s.Elapsed() != elapsed {
		t.Errorf("got frame %d elapsed %v, want frame %d elapsed %v",
			s.Index(), s.Elapsed(), index, elapsed)
	}
}

func TestConstruction(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
	}{
		{"empty", nil},
		{"zero", []time.Duration{100 * ms, 0}},
		{"negative", []time.Duration{-ms}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWithDurations(tt.durations, true)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("got %v, want ErrInvalidArgument", err)
			}
		})
	}

	t.Run("uniform", func(t *testing.T) {
		if _, err := New(0, 100*ms, true); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("zero frames: got %v", err)
		}
		if _, err := New(4, 0, true); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("zero duration: got %v", err)
		}
		s, err := New(4, 100*ms, true)
		if err != nil {
			t.Fatal(err)
		}
		if s.FrameCount() != 4 || s.TotalDuration() != 400*ms {
			t.Errorf("got %d frames totalling %v", s.FrameCount(), s.TotalDuration())
		}
		checkPos(t, s, 0, 0)
		if s.State() != Playing {
			t.Errorf("initial state %v", s.State())
		}
	})

	t.Run("table is copied", func(t *testing.T) {
		d := []time.Duration{100 * ms, 200 * ms}
		s := mustNew(t, d, true)
		d[0] = time.Hour
		if s.Durations()[0] != 100*ms {
			t.Errorf("duration table aliases caller slice")
		}
	})
}

func TestUniformLoop(t *testing.T) {
	s, err := New(4, 100*ms, true)
	if err != nil {
		t.Fatal(err)
	}
	s.Advance(50 * ms)
	checkPos(t, s, 0, 50*ms)
	s.Advance(60 * ms)
	checkPos(t, s, 1, 10*ms)
	s.Advance(12 * 100 * ms)
	checkPos(t, s, 1, 10*ms)

	s.Rewind()
	s.Advance(8 * 100 * ms)
	checkPos(t, s, 0, 0)
	s.Advance(10 * 100 * ms)
	checkPos(t, s, 2, 0)

	s.Advance(0)
	checkPos(t, s, 2, 0)
}

func TestClampAtEnd(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 200 * ms, 300 * ms}, false)
	s.Advance(10 * time.Second)
	checkPos(t, s, 2, 300*ms)
	if s.State() != HeldAtEnd {
		t.Errorf("state %v, want %v", s.State(), HeldAtEnd)
	}
	s.Advance(time.Second)
	checkPos(t, s, 2, 300*ms)

	s.Advance(-50 * ms)
	checkPos(t, s, 2, 250*ms)
	if s.State() != Playing {
		t.Errorf("state %v after rewinding, want %v", s.State(), Playing)
	}
}

func TestClampAtStart(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 200 * ms, 300 * ms}, false)
	s.Advance(-time.Second)
	checkPos(t, s, 0, 0)
	if s.State() != HeldAtStart {
		t.Errorf("state %v, want %v", s.State(), HeldAtStart)
	}
	s.Advance(150 * ms)
	checkPos(t, s, 1, 50*ms)
	if s.State() != Playing {
		t.Errorf("state %v, want %v", s.State(), Playing)
	}
}

func TestReverseLoop(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 200 * ms, 300 * ms}, true)
	s.Advance(-10 * ms)
	checkPos(t, s, 2, 290*ms)
	s.Advance(-390 * ms)
	checkPos(t, s, 1, 100*ms)
	s.Advance(-2*600*ms - ms)
	checkPos(t, s, 1, 99*ms)
}

func TestBoundary(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 500 * ms, 100 * ms, 500 * ms}, true)
	s.Advance(99 * ms)
	checkPos(t, s, 0, 99*ms)
	s.Advance(ms)
	checkPos(t, s, 1, 0)

	s.Rewind()
	s.Advance(100 * ms)
	checkPos(t, s, 1, 0)
	s.Advance(600 * ms)
	checkPos(t, s, 3, 0)
	s.Advance(500 * ms)
	checkPos(t, s, 0, 0)
}

func TestSeek(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 500 * ms, 100 * ms, 500 * ms}, true)

	if err := s.SeekTo(2, 50*ms); err != nil {
		t.Fatal(err)
	}
	checkPos(t, s, 2, 50*ms)

	if err := s.SeekTo(2, 150*ms); err != nil {
		t.Fatal(err)
	}
	checkPos(t, s, 3, 50*ms)

	if err := s.SetPosition(650 * ms); err != nil {
		t.Fatal(err)
	}
	checkPos(t, s, 2, 50*ms)
	if s.Position() != 650*ms {
		t.Errorf("position %v", s.Position())
	}

	for _, i := range []int{-1, 4} {
		if err := s.SeekTo(i, 0); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("seek to %d: got %v", i, err)
		}
	}
	checkPos(t, s, 2, 50*ms)
}

func TestRelease(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 200 * ms}, true)
	s.Advance(150 * ms)
	s.Release()
	s.Release()

	if s.FrameCount() != 0 || s.State() != Empty {
		t.Errorf("got %d frames in state %v", s.FrameCount(), s.State())
	}
	s.Advance(time.Second)
	s.Rewind()
	s.SetLoop(false)
	checkPos(t, s, 0, 0)

	if err := s.SeekTo(0, 0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("seek: got %v", err)
	}
	if _, err := s.Region(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("region: got %v", err)
	}
	if err := s.SetDuration(ms); !errors.Is(err, ErrInvalidState) {
		t.Errorf("set duration: got %v", err)
	}
}

func TestSumInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := mustNew(t, []time.Duration{30 * ms, 70 * ms, 10 * ms, 90 * ms, 45 * ms}, true)
	if err := s.SeekTo(3, 20*ms); err != nil {
		t.Fatal(err)
	}
	total := s.TotalDuration()

	for k := 0; k < 50; k++ {
		var sum time.Duration
		for i := 0; i < 20; i++ {
			d := time.Duration(rng.Int63n(int64(2*total))) - total/2
			sum += d
			s.Advance(d)
		}
		s.Advance(time.Duration(k)*total - sum)
		checkPos(t, s, 3, 20*ms)
	}
}

// Position must follow the absolute time model: clamped without looping,
// wrapped with looping.
func TestAbsoluteTimeEquivalence(t *testing.T) {
	durations := []time.Duration{100 * ms, 500 * ms, 100 * ms, 500 * ms}
	for _, loop := range []bool{true, false} {
		rng := rand.New(rand.NewSource(7))
		s := mustNew(t, durations, loop)
		total := s.TotalDuration()
		var want time.Duration
		for i := 0; i < 500; i++ {
			d := time.Duration(rng.Int63n(int64(total))) - total/3
			s.Advance(d)
			want += d
			if loop {
				want = ((want % total) + total) % total
			} else {
				want = min(max(want, 0), total)
			}
			if s.Position() != want {
				t.Fatalf("loop=%v step %d: position %v, want %v", loop, i, s.Position(), want)
			}
		}
	}
}

func TestSetLoop(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 200 * ms}, false)
	s.Advance(time.Second)
	checkPos(t, s, 1, 200*ms)

	s.SetLoop(true)
	checkPos(t, s, 0, 0)
	if !s.Loop() || s.State() != Playing {
		t.Errorf("loop %v state %v", s.Loop(), s.State())
	}
	s.Advance(-ms)
	checkPos(t, s, 1, 199*ms)
}

func TestSetDurations(t *testing.T) {
	s := mustNew(t, []time.Duration{100 * ms, 200 * ms}, true)
	s.Advance(150 * ms)

	if err := s.SetDurations([]time.Duration{ms}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("length mismatch: got %v", err)
	}
	if err := s.SetDurations([]time.Duration{50 * ms, 50 * ms}); err != nil {
		t.Fatal(err)
	}
	checkPos(t, s, 0, 0)
	if s.TotalDuration() != 100*ms {
		t.Errorf("total %v", s.TotalDuration())
	}
	if err := s.SetDuration(10 * ms); err != nil {
		t.Fatal(err)
	}
	s.Advance(15 * ms)
	checkPos(t, s, 1, 5*ms)
}

func TestStateString(t *testing.T) {
	if HeldAtEnd.String() != "held at end" || State(9).String() != "State(9)" {
		t.Errorf("got %q, %q", HeldAtEnd, State(9))
	}
}

func TestAdvanceOverflow(t *testing.T) {
	t.Run("hold", func(t *testing.T) {
		s := mustNew(t, []time.Duration{100 * ms, 200 * ms, 300 * ms}, false)
		s.Advance(50 * ms)
		s.Advance(math.MaxInt64)
		checkPos(t, s, 2, 300*ms)
		if s.State() != HeldAtEnd {
			t.Errorf("state %v, want %v", s.State(), HeldAtEnd)
		}
		s.Advance(math.MaxInt64)
		checkPos(t, s, 2, 300*ms)
	})

	t.Run("loop", func(t *testing.T) {
		half := time.Duration(math.MaxInt64 / 2)
		s := mustNew(t, []time.Duration{half, half}, true)
		s.Advance(half - 1)
		checkPos(t, s, 0, half-1)
		s.Advance(half + 5)
		checkPos(t, s, 0, 4)
	})

	t.Run("total", func(t *testing.T) {
		_, err := NewWithDurations([]time.Duration{math.MaxInt64, 1}, true)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("got %v", err)
		}
	})
}
