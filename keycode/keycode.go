// Package keycode holds USB HID keyboard usage IDs (usage page 0x07) and the
// short key names used in keymap tables.
package keycode

// Code is a keyboard-page usage ID.
type Code uint8

// Reserved usages.
const (
	None          Code = 0x00
	ErrorRollOver Code = 0x01
)

// Letters.
const (
	A Code = 0x04 + iota
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
)

// Top-row digits.
const (
	N1 Code = 0x1E + iota
	N2
	N3
	N4
	N5
	N6
	N7
	N8
	N9
	N0
)

const (
	Enter      Code = 0x28
	Escape     Code = 0x29
	Backspace  Code = 0x2A
	Tab        Code = 0x2B
	Space      Code = 0x2C
	Minus      Code = 0x2D
	Equal      Code = 0x2E
	LeftBrace  Code = 0x2F
	RightBrace Code = 0x30
	Backslash  Code = 0x31
	NonUSHash  Code = 0x32
	Semicolon  Code = 0x33
	Quote      Code = 0x34
	Grave      Code = 0x35
	Comma      Code = 0x36
	Dot        Code = 0x37
	Slash      Code = 0x38
	CapsLock   Code = 0x39
)

const (
	F1 Code = 0x3A + iota
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
)

const (
	PrintScreen Code = 0x46
	ScrollLock  Code = 0x47
	Pause       Code = 0x48
	Insert      Code = 0x49
	Home        Code = 0x4A
	PageUp      Code = 0x4B
	Delete      Code = 0x4C
	End         Code = 0x4D
	PageDown    Code = 0x4E
	Right       Code = 0x4F
	Left        Code = 0x50
	Down        Code = 0x51
	Up          Code = 0x52
	NumLock     Code = 0x53
	Application Code = 0x65
)

// Modifier usages. Each maps to one bit of the report modifier byte.
const (
	LeftCtrl   Code = 0xE0
	LeftShift  Code = 0xE1
	LeftAlt    Code = 0xE2
	LeftGUI    Code = 0xE3
	RightCtrl  Code = 0xE4
	RightShift Code = 0xE5
	RightAlt   Code = 0xE6
	RightGUI   Code = 0xE7
)

// IsModifier reports whether c is one of the eight modifier usages.
func (c Code) IsModifier() bool { return c >= LeftCtrl && c <= RightGUI }

// ModifierBit returns the report bitmask for a modifier usage, or 0.
func (c Code) ModifierBit() uint8 {
	if !c.IsModifier() {
		return 0
	}
	return 1 << (c - LeftCtrl)
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	const hexd = "0123456789ABCDEF"
	return string([]byte{'0', 'x', hexd[c>>4], hexd[c&0xF]})
}
