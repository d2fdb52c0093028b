// Package keymap maps (layer, matrix position) to the action a key performs.
//
// A Keymap is built once at startup through a Builder, which checks that every
// binding is in range, bound at most once, and refers only to layers that
// exist. Positions that were never bound resolve to NoOp.
package keymap

import (
	"strconv"
	"strings"

	"keymatrix-go/keycode"
)

// Kind discriminates Action variants.
type Kind uint8

const (
	KindNoOp Kind = iota
	// KindTransparent defers to the next lower active layer.
	KindTransparent
	KindKey
	KindModifier
	KindLayerHold
	KindLayerToggle
	KindMacro
)

// Action is what a key does when pressed. Only the fields relevant to Kind
// are meaningful.
type Action struct {
	Kind  Kind
	Code  keycode.Code // KindKey, KindModifier
	Layer uint8        // KindLayerHold, KindLayerToggle
	Steps []Action     // KindMacro
}

func NoOp() Action                 { return Action{Kind: KindNoOp} }
func Transparent() Action          { return Action{Kind: KindTransparent} }
func Key(c keycode.Code) Action    { return Action{Kind: KindKey, Code: c} }
func Mod(c keycode.Code) Action    { return Action{Kind: KindModifier, Code: c} }
func Hold(layer uint8) Action      { return Action{Kind: KindLayerHold, Layer: layer} }
func Toggle(layer uint8) Action    { return Action{Kind: KindLayerToggle, Layer: layer} }
func Macro(steps ...Action) Action { return Action{Kind: KindMacro, Steps: steps} }

// Equal reports deep equality.
func (a Action) Equal(b Action) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindKey, KindModifier:
		return a.Code == b.Code
	case KindLayerHold, KindLayerToggle:
		return a.Layer == b.Layer
	case KindMacro:
		if len(a.Steps) != len(b.Steps) {
			return false
		}
		for i := range a.Steps {
			if !a.Steps[i].Equal(b.Steps[i]) {
				return false
			}
		}
	}
	return true
}

// String renders the action in the same grammar ParseAction accepts.
func (a Action) String() string {
	switch a.Kind {
	case KindNoOp:
		return "NO"
	case KindTransparent:
		return "TRNS"
	case KindKey, KindModifier:
		return a.Code.String()
	case KindLayerHold:
		return "MO(" + strconv.Itoa(int(a.Layer)) + ")"
	case KindLayerToggle:
		return "TG(" + strconv.Itoa(int(a.Layer)) + ")"
	case KindMacro:
		parts := make([]string, len(a.Steps))
		for i, s := range a.Steps {
			parts[i] = s.String()
		}
		return "MACRO(" + strings.Join(parts, ",") + ")"
	}
	return "?"
}
