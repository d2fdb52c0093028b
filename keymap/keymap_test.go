package keymap

import (
	"errors"
	"testing"

	"keymatrix-go/errcode"
	"keymatrix-go/keycode"
	"keymatrix-go/types"
)

func TestUnboundPositionsAreNoOp(t *testing.T) {
	b := NewBuilder(2, 2, 3)
	if err := b.Set(0, types.Pos(0, 0), Key(keycode.A)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	km, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a := km.At(0, types.Pos(0, 0)); !a.Equal(Key(keycode.A)) {
		t.Fatalf("At(0,0,0) = %v", a)
	}
	for l := 0; l < 2; l++ {
		for r := 0; r < 2; r++ {
			for c := 0; c < 3; c++ {
				if l == 0 && r == 0 && c == 0 {
					continue
				}
				if a := km.At(l, types.Pos(r, c)); a.Kind != KindNoOp {
					t.Fatalf("At(%d,%d,%d) = %v, want NO", l, r, c, a)
				}
			}
		}
	}
	if a := km.At(5, types.Pos(0, 0)); a.Kind != KindNoOp {
		t.Fatalf("out-of-range layer = %v", a)
	}
	if a := km.At(0, types.Pos(9, 9)); a.Kind != KindNoOp {
		t.Fatalf("out-of-range position = %v", a)
	}
}

func TestDuplicateBindingRejected(t *testing.T) {
	b := NewBuilder(1, 1, 1)
	_ = b.Set(0, types.Pos(0, 0), Key(keycode.A))
	err := b.Set(0, types.Pos(0, 0), Key(keycode.B))
	if !errors.Is(err, errcode.DuplicateBinding) {
		t.Fatalf("err = %v, want duplicate_binding", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("Build should keep the first error")
	}
}

func TestOverrideReplaces(t *testing.T) {
	b := NewBuilder(2, 5, 15)
	_ = b.Set(0, types.Pos(4, 12), Key(keycode.Left))
	if err := b.Override(0, types.Pos(4, 12), Hold(1)); err != nil {
		t.Fatalf("Override: %v", err)
	}
	km, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if a := km.At(0, types.Pos(4, 12)); !a.Equal(Hold(1)) {
		t.Fatalf("At = %v, want MO(1)", a)
	}
}

func TestBuildValidation(t *testing.T) {
	cases := []struct {
		name string
		a    Action
		want errcode.Code
	}{
		{"hold missing layer", Hold(3), errcode.UnknownLayer},
		{"toggle missing layer", Toggle(2), errcode.UnknownLayer},
		{"layer inside macro", Macro(Key(keycode.A), Hold(1)), errcode.InvalidMacro},
		{"transparent inside macro", Macro(Transparent()), errcode.InvalidMacro},
		{"macro too deep", Macro(Macro(Macro(Macro(Macro(Key(keycode.A)))))), errcode.InvalidMacro},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBuilder(2, 1, 1)
			_ = b.Set(0, types.Pos(0, 0), tc.a)
			_, err := b.Build()
			if errcode.Of(err) != tc.want {
				t.Fatalf("err = %v, want %s", err, tc.want)
			}
		})
	}
}

func TestRangeAndShapeErrors(t *testing.T) {
	b := NewBuilder(1, 2, 2)
	if err := b.Set(0, types.Pos(2, 0), Key(keycode.A)); errcode.Of(err) != errcode.PositionOutOfRange {
		t.Fatalf("row out of range: %v", err)
	}
	b = NewBuilder(1, 2, 2)
	if err := b.Set(1, types.Pos(0, 0), Key(keycode.A)); errcode.Of(err) != errcode.UnknownLayer {
		t.Fatalf("layer out of range: %v", err)
	}
	b = NewBuilder(1, 2, 3)
	if err := b.SetRow(0, 0, []Action{Key(keycode.A)}); errcode.Of(err) != errcode.InvalidKeymap {
		t.Fatalf("short row: %v", err)
	}
	if _, err := NewBuilder(0, 1, 1).Build(); errcode.Of(err) != errcode.InvalidKeymap {
		t.Fatalf("zero layers: %v", err)
	}
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
	}{
		{"A", Key(keycode.A)},
		{"KC.N1", Key(keycode.N1)},
		{"LSFT", Mod(keycode.LeftShift)},
		{"____", NoOp()},
		{"NO", NoOp()},
		{"TRNS", Transparent()},
		{"MO(1)", Hold(1)},
		{"KC.MO(2)", Hold(2)},
		{"TG(3)", Toggle(3)},
		{"MACRO(H,I)", Macro(Key(keycode.H), Key(keycode.I))},
		{"MACRO(LSFT, A, MACRO(B,C))", Macro(Mod(keycode.LeftShift), Key(keycode.A), Macro(Key(keycode.B), Key(keycode.C)))},
	}
	for _, tc := range cases {
		got, err := ParseAction(tc.in)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseAction(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"BOGUS", "MO(x)", "MO(-1)", "FOO(1)", "MACRO(A,NOPE)"} {
		if _, err := ParseAction(bad); err == nil {
			t.Fatalf("ParseAction(%q) should fail", bad)
		}
	}
}

func TestActionStringRoundTrip(t *testing.T) {
	for _, a := range []Action{NoOp(), Transparent(), Key(keycode.F2), Mod(keycode.RightAlt), Hold(1), Toggle(2), Macro(Key(keycode.A), Mod(keycode.LeftCtrl))} {
		back, err := ParseAction(a.String())
		if err != nil || !back.Equal(a) {
			t.Fatalf("%v -> %q -> %v (%v)", a, a.String(), back, err)
		}
	}
}
