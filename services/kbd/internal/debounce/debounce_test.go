package debounce

import (
	"math/rand"
	"testing"
	"time"

	"keymatrix-go/types"
)

var t0 = time.Unix(1_700_000_000, 0)

func tick(i int) time.Time { return t0.Add(time.Duration(i) * time.Millisecond) }

func TestSettleCountConfirmsAfterThreshold(t *testing.T) {
	s := New(1, 1, types.DebounceConfig{Algorithm: types.DebounceSettleCount, Count: 3})
	p := types.Pos(0, 0)

	for i := 0; i < 2; i++ {
		if _, ok := s.Sample(p, true, tick(i)); ok {
			t.Fatalf("emitted after %d samples", i+1)
		}
	}
	tr, ok := s.Sample(p, true, tick(2))
	if !ok || tr.Dir != types.Pressed || tr.Pos != p || !tr.TS.Equal(tick(2)) {
		t.Fatalf("want press at third sample, got %+v ok=%v", tr, ok)
	}
	for i := 3; i < 10; i++ {
		if _, ok := s.Sample(p, true, tick(i)); ok {
			t.Fatal("duplicate transition for confirmed state")
		}
	}
	if !s.Confirmed(p) {
		t.Fatal("Confirmed should be true")
	}
}

func TestSettleCountFlickerRejection(t *testing.T) {
	const count = 4
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		s := New(1, 1, types.DebounceConfig{Algorithm: types.DebounceSettleCount, Count: count})
		p := types.Pos(0, 0)
		i := 0
		// Runs of "pressed" shorter than count separated by "released".
		for run := 0; run < 20; run++ {
			n := rng.Intn(count) // 0..count-1
			for k := 0; k < n; k++ {
				if _, ok := s.Sample(p, true, tick(i)); ok {
					t.Fatalf("trial %d: flicker of %d samples emitted", trial, n)
				}
				i++
			}
			if _, ok := s.Sample(p, false, tick(i)); ok {
				t.Fatalf("trial %d: release emitted without press", trial)
			}
			i++
		}
	}
}

func TestTimeWindow(t *testing.T) {
	s := New(1, 1, types.DebounceConfig{Algorithm: types.DebounceTimeWindow, Window: 5 * time.Millisecond})
	p := types.Pos(0, 0)

	// Bounce shorter than the window.
	s.Sample(p, true, tick(0))
	s.Sample(p, true, tick(3))
	if _, ok := s.Sample(p, false, tick(4)); ok {
		t.Fatal("unexpected emit")
	}
	// Stable from t=6 onwards.
	for i := 6; i < 11; i++ {
		if _, ok := s.Sample(p, true, tick(i)); ok {
			t.Fatalf("emitted at %dms, before window elapsed", i)
		}
	}
	tr, ok := s.Sample(p, true, tick(11))
	if !ok || tr.Dir != types.Pressed {
		t.Fatalf("want press at 11ms, got %+v ok=%v", tr, ok)
	}
	if _, ok := s.Sample(p, true, tick(12)); ok {
		t.Fatal("duplicate transition")
	}
}

func TestEagerLockout(t *testing.T) {
	s := New(1, 1, types.DebounceConfig{Algorithm: types.DebounceEager, Window: 5 * time.Millisecond})
	p := types.Pos(0, 0)

	tr, ok := s.Sample(p, true, tick(0))
	if !ok || tr.Dir != types.Pressed {
		t.Fatalf("eager should emit immediately, got %+v ok=%v", tr, ok)
	}
	// Chatter inside the lockout is ignored.
	if _, ok := s.Sample(p, false, tick(1)); ok {
		t.Fatal("emitted during lockout")
	}
	if _, ok := s.Sample(p, true, tick(2)); ok {
		t.Fatal("duplicate press")
	}
	tr, ok = s.Sample(p, false, tick(6))
	if !ok || tr.Dir != types.Released {
		t.Fatalf("want release after lockout, got %+v ok=%v", tr, ok)
	}
}

func TestPositionsAreIndependentAndSequenced(t *testing.T) {
	s := New(2, 2, types.DebounceConfig{Algorithm: types.DebounceSettleCount, Count: 2})
	a, b := types.Pos(0, 1), types.Pos(1, 0)

	s.Sample(a, true, tick(0))
	s.Sample(b, true, tick(0))
	ta, okA := s.Sample(a, true, tick(1))
	tb, okB := s.Sample(b, true, tick(1))
	if !okA || !okB {
		t.Fatal("both positions should confirm")
	}
	if tb.Seq != ta.Seq+1 {
		t.Fatalf("seq a=%d b=%d", ta.Seq, tb.Seq)
	}
	if s.Confirmed(types.Pos(1, 1)) {
		t.Fatal("untouched position confirmed")
	}
	if _, ok := s.Sample(types.Pos(5, 5), true, tick(2)); ok {
		t.Fatal("out-of-range position emitted")
	}
}

func TestLastSampleWins(t *testing.T) {
	s := New(1, 1, types.DebounceConfig{Algorithm: types.DebounceSettleCount, Count: 2})
	p := types.Pos(0, 0)
	// Conflicting reads within the same tick: the later one counts.
	s.Sample(p, true, tick(0))
	s.Sample(p, false, tick(0))
	if _, ok := s.Sample(p, true, tick(1)); ok {
		t.Fatal("the reset by the later read should require a fresh run")
	}
	if tr, ok := s.Sample(p, true, tick(2)); !ok || tr.Dir != types.Pressed {
		t.Fatalf("want press, got %+v ok=%v", tr, ok)
	}
}
