// services/kbd/internal/layers/engine.go
package layers

import (
	"time"

	"keymatrix-go/keycode"
	"keymatrix-go/keymap"
	"keymatrix-go/types"
)

// Delta is one press or release handed to the report builder. Deltas from a
// single transition share its TS and Seq and are ordered by Step.
type Delta struct {
	Code    keycode.Code
	Pressed bool
	TS      time.Time
	Seq     uint32
	Step    uint16
}

type entryKind uint8

const (
	entryHold entryKind = iota
	entryToggle
)

type entry struct {
	layer uint8
	kind  entryKind
	owner types.Position // hold entries only
}

// Engine resolves transitions against the keymap and the active layer stack.
// A position is held from its press until its release; the action recorded
// at press time is the one reversed on release.
type Engine struct {
	km    *keymap.Keymap
	stack []entry
	held  map[types.Position]keymap.Action
}

// New returns an Engine with only the base layer active.
func New(km *keymap.Keymap) *Engine {
	return &Engine{
		km:   km,
		held: make(map[types.Position]keymap.Action),
	}
}

// Resolve applies one transition and appends the resulting deltas to dst.
func (e *Engine) Resolve(tr types.Transition, dst []Delta) []Delta {
	if tr.Dir == types.Pressed {
		return e.press(tr, dst)
	}
	return e.release(tr, dst)
}

func (e *Engine) press(tr types.Transition, dst []Delta) []Delta {
	if _, busy := e.held[tr.Pos]; busy {
		return dst // duplicate press
	}
	a := e.lookup(tr.Pos)
	e.held[tr.Pos] = a

	switch a.Kind {
	case keymap.KindKey, keymap.KindModifier:
		dst = append(dst, Delta{Code: a.Code, Pressed: true, TS: tr.TS, Seq: tr.Seq})
	case keymap.KindLayerHold:
		e.stack = append(e.stack, entry{layer: a.Layer, kind: entryHold, owner: tr.Pos})
	case keymap.KindLayerToggle:
		e.toggle(a.Layer)
	case keymap.KindMacro:
		var step uint16
		dst = expand(a, tr, &step, dst)
	}
	return dst
}

func (e *Engine) release(tr types.Transition, dst []Delta) []Delta {
	a, busy := e.held[tr.Pos]
	if !busy {
		return dst // release without press
	}
	delete(e.held, tr.Pos)

	switch a.Kind {
	case keymap.KindKey, keymap.KindModifier:
		dst = append(dst, Delta{Code: a.Code, Pressed: false, TS: tr.TS, Seq: tr.Seq})
	case keymap.KindLayerHold:
		e.popOwned(tr.Pos)
	}
	return dst
}

// lookup walks active layers from the top; Transparent falls through and
// the base layer ends the walk.
func (e *Engine) lookup(p types.Position) keymap.Action {
	for i := len(e.stack) - 1; i >= 0; i-- {
		a := e.km.At(int(e.stack[i].layer), p)
		if a.Kind != keymap.KindTransparent {
			return a
		}
	}
	a := e.km.At(0, p)
	if a.Kind == keymap.KindTransparent {
		return keymap.NoOp()
	}
	return a
}

// popOwned removes the hold entry pushed by p, wherever it sits.
func (e *Engine) popOwned(p types.Position) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if en := e.stack[i]; en.kind == entryHold && en.owner == p {
			e.stack = append(e.stack[:i], e.stack[i+1:]...)
			return
		}
	}
}

func (e *Engine) toggle(layer uint8) {
	for i, en := range e.stack {
		if en.kind == entryToggle && en.layer == layer {
			e.stack = append(e.stack[:i], e.stack[i+1:]...)
			return
		}
	}
	e.stack = append(e.stack, entry{layer: layer, kind: entryToggle})
}

// expand taps each macro step in order: press then release.
func expand(a keymap.Action, tr types.Transition, step *uint16, dst []Delta) []Delta {
	for _, s := range a.Steps {
		switch s.Kind {
		case keymap.KindKey, keymap.KindModifier:
			dst = append(dst,
				Delta{Code: s.Code, Pressed: true, TS: tr.TS, Seq: tr.Seq, Step: *step},
				Delta{Code: s.Code, Pressed: false, TS: tr.TS, Seq: tr.Seq, Step: *step + 1},
			)
			*step += 2
		case keymap.KindMacro:
			dst = expand(s, tr, step, dst)
		}
	}
	return dst
}

// Active appends the active layers, bottom to top, to dst. The base layer is
// always first.
func (e *Engine) Active(dst []uint8) []uint8 {
	dst = append(dst, 0)
	for _, en := range e.stack {
		dst = append(dst, en.layer)
	}
	return dst
}

// Depth returns the number of stack entries above the base layer.
func (e *Engine) Depth() int { return len(e.stack) }
