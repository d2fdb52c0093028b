// services/kbd/internal/debounce/debounce.go
package debounce

import (
	"time"

	"keymatrix-go/types"
)

// Sampler filters raw switch levels into confirmed transitions. It owns one
// state record per matrix position and is not safe for concurrent use.
type Sampler struct {
	alg    types.DebounceAlgorithm
	count  int
	window time.Duration

	rows, cols int
	st         []state
	seq        uint32
}

type state struct {
	confirmed bool

	// settle-count: consecutive samples disagreeing with confirmed.
	// eager: samples seen since the last transition.
	n int
	// time-window: when the current disagreement started.
	since    time.Time
	diverged bool
	// eager: time of the last emitted transition.
	last time.Time
}

// New returns a Sampler for a rows x cols matrix. A zero Count is treated as
// one sample.
func New(rows, cols int, cfg types.DebounceConfig) *Sampler {
	if cfg.Count < 1 {
		cfg.Count = 1
	}
	if cfg.Window < 0 {
		cfg.Window = 0
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = types.DebounceSettleCount
	}
	return &Sampler{
		alg:    cfg.Algorithm,
		count:  cfg.Count,
		window: cfg.Window,
		rows:   rows,
		cols:   cols,
		st:     make([]state, rows*cols),
	}
}

// Sample feeds one raw reading. It returns a transition only when the
// reading changes the confirmed state under the configured algorithm.
// Repeated readings of an already confirmed state never emit. Positions
// outside the matrix are ignored.
func (s *Sampler) Sample(p types.Position, raw bool, now time.Time) (types.Transition, bool) {
	if int(p.Row) >= s.rows || int(p.Col) >= s.cols {
		return types.Transition{}, false
	}
	st := &s.st[p.Index(s.cols)]

	var confirm bool
	switch s.alg {
	case types.DebounceEager:
		confirm = s.eager(st, raw, now)
	case types.DebounceTimeWindow:
		confirm = s.timeWindow(st, raw, now)
	default:
		confirm = s.settle(st, raw)
	}
	if !confirm {
		return types.Transition{}, false
	}

	st.confirmed = raw
	st.n = 0
	st.diverged = false
	st.last = now
	s.seq++
	dir := types.Released
	if raw {
		dir = types.Pressed
	}
	return types.Transition{Pos: p, Dir: dir, TS: now, Seq: s.seq}, true
}

// eager emits on the first disagreeing sample, then ignores changes until
// the lockout (count samples and window) has passed.
func (s *Sampler) eager(st *state, raw bool, now time.Time) bool {
	if st.n < s.count {
		st.n++
	}
	if raw == st.confirmed {
		return false
	}
	if !st.last.IsZero() {
		if st.n < s.count || now.Sub(st.last) < s.window {
			return false
		}
	}
	return true
}

func (s *Sampler) settle(st *state, raw bool) bool {
	if raw == st.confirmed {
		st.n = 0
		return false
	}
	st.n++
	return st.n >= s.count
}

func (s *Sampler) timeWindow(st *state, raw bool, now time.Time) bool {
	if raw == st.confirmed {
		st.diverged = false
		return false
	}
	if !st.diverged {
		st.diverged = true
		st.since = now
	}
	return now.Sub(st.since) >= s.window
}

// Confirmed returns the last confirmed level at p.
func (s *Sampler) Confirmed(p types.Position) bool {
	if int(p.Row) >= s.rows || int(p.Col) >= s.cols {
		return false
	}
	return s.st[p.Index(s.cols)].confirmed
}
