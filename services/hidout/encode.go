// services/hidout/encode.go
package hidout

import (
	"keymatrix-go/keycode"
	"keymatrix-go/types"
)

// BootReportLen is the size of a boot-protocol keyboard input report.
const BootReportLen = 8

const bootSlots = 6

// Encode packs r as a boot-protocol keyboard report: modifier byte, reserved
// byte, six key slots. A report that overflowed, or holds more keys than the
// boot layout has slots, is sent as the ErrorRollOver phantom state.
func Encode(r types.Report) [BootReportLen]byte {
	var b [BootReportLen]byte
	b[0] = r.Modifiers
	if r.Rollover || len(r.Keys) > bootSlots {
		for i := 2; i < BootReportLen; i++ {
			b[i] = byte(keycode.ErrorRollOver)
		}
		return b
	}
	for i, k := range r.Keys {
		b[2+i] = byte(k)
	}
	return b
}
