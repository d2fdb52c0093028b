// services/hidout/usb_rp2.go
//go:build rp2040 || rp2350

package hidout

import (
	"machine/usb/hid/keyboard"

	"keymatrix-go/keycode"
	"keymatrix-go/types"
)

// USBSink drives the TinyGo USB HID keyboard. The port keeps its own key
// state, so successive reports are diffed into Up and Down calls.
type USBSink struct {
	kb   *keyboard.Keyboard
	prev types.Report
}

func NewUSBSink() *USBSink {
	return &USBSink{kb: keyboard.Port()}
}

// TinyGo keycodes: 0xE000|bit is a modifier mask, 0xF000|usage a raw usage.
func usbModifier(bit uint8) keyboard.Keycode { return keyboard.Keycode(0xE000 | uint16(bit)) }
func usbKey(c keycode.Code) keyboard.Keycode  { return keyboard.Keycode(0xF000 | uint16(c)) }

func (s *USBSink) Send(r types.Report) error {
	next := r
	if r.Rollover {
		next.Keys = []keycode.Code{keycode.ErrorRollOver}
	}
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}

	// Releases first so a full port has room for the new keys.
	for bit := uint8(1); bit != 0; bit <<= 1 {
		if s.prev.Modifiers&bit != 0 && next.Modifiers&bit == 0 {
			keep(s.kb.Up(usbModifier(bit)))
		}
	}
	for _, k := range s.prev.Keys {
		if !next.Holds(k) {
			keep(s.kb.Up(usbKey(k)))
		}
	}
	for bit := uint8(1); bit != 0; bit <<= 1 {
		if next.Modifiers&bit != 0 && s.prev.Modifiers&bit == 0 {
			keep(s.kb.Down(usbModifier(bit)))
		}
	}
	for _, k := range next.Keys {
		if !s.prev.Holds(k) {
			keep(s.kb.Down(usbKey(k)))
		}
	}
	s.prev = next
	return first
}
