// services/kbd/internal/report/builder.go
package report

import (
	"keymatrix-go/keycode"
	"keymatrix-go/services/kbd/internal/layers"
	"keymatrix-go/types"
	"keymatrix-go/x/timex"
)

// Builder keeps the held key set and modifier byte and produces report
// snapshots. Press and release are idempotent.
type Builder struct {
	slots  int
	policy types.RolloverPolicy

	mods uint8
	// keys holds non-modifier keys in press order. Only under the
	// report-rollover-error policy may it grow beyond slots.
	keys []keycode.Code

	cur       types.Report
	seq       uint32
	rollovers uint32
}

// New returns a Builder with the given slot count and rollover policy.
func New(slots int, policy types.RolloverPolicy) *Builder {
	if slots < 1 {
		slots = types.DefaultReportSlots
	}
	if policy == "" {
		policy = types.RolloverDropNewest
	}
	return &Builder{
		slots:  slots,
		policy: policy,
		keys:   make([]keycode.Code, 0, slots),
		cur:    types.Report{Keys: []keycode.Code{}},
	}
}

// Apply folds one delta into the held set. It returns the current report and
// whether it differs from the previous snapshot.
func (b *Builder) Apply(d layers.Delta) (types.Report, bool) {
	if d.Code == keycode.None {
		return b.cur, false
	}
	if bit := d.Code.ModifierBit(); bit != 0 {
		if d.Pressed {
			b.mods |= bit
		} else {
			b.mods &^= bit
		}
	} else if d.Pressed {
		b.press(d.Code)
	} else {
		b.release(d.Code)
	}

	next := b.snapshot()
	if next.Equal(b.cur) {
		return b.cur, false
	}
	b.seq++
	next.Seq = b.seq
	next.TSms = timex.Ms(d.TS)
	b.cur = next
	return next, true
}

func (b *Builder) press(c keycode.Code) {
	if b.index(c) >= 0 {
		return
	}
	if len(b.keys) >= b.slots {
		b.rollovers++
		switch b.policy {
		case types.RolloverReplaceOldest:
			copy(b.keys, b.keys[1:])
			b.keys = b.keys[:len(b.keys)-1]
		case types.RolloverReportError:
			// tracked beyond capacity; snapshot reports the error state
		default:
			return
		}
	}
	b.keys = append(b.keys, c)
}

func (b *Builder) release(c keycode.Code) {
	i := b.index(c)
	if i < 0 {
		return
	}
	b.keys = append(b.keys[:i], b.keys[i+1:]...)
}

func (b *Builder) index(c keycode.Code) int {
	for i, k := range b.keys {
		if k == c {
			return i
		}
	}
	return -1
}

func (b *Builder) snapshot() types.Report {
	r := types.Report{Modifiers: b.mods}
	if len(b.keys) > b.slots {
		r.Rollover = true
		r.Keys = make([]keycode.Code, b.slots)
		for i := range r.Keys {
			r.Keys[i] = keycode.ErrorRollOver
		}
		return r
	}
	r.Keys = append(make([]keycode.Code, 0, len(b.keys)), b.keys...)
	return r
}

// Report returns the latest snapshot.
func (b *Builder) Report() types.Report { return b.cur }

// Rollovers counts presses that exceeded the slot count.
func (b *Builder) Rollovers() uint32 { return b.rollovers }

// Held returns the number of tracked non-modifier keys.
func (b *Builder) Held() int { return len(b.keys) }
