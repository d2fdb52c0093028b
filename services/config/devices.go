package config

import (
	"time"

	"keymatrix-go/keymap"
	"keymatrix-go/types"
)

// Embedded device configurations keyed by device ID (the value placed in ctx
// under CtxDeviceKey).
var embeddedConfigs = map[string]func() (Device, error){
	"keycool84": Keycool84,
}

// Keycool 84 on a Raspberry Pi Pico: 6x15 matrix, rows on GP0..GP5, columns
// on GP6..GP20, diodes column to row. Cells without a switch are NO.

const ____ = "NO"

var keycool84Base = [][]string{
	{"ESC", "N1", "N2", "N3", "N4", "N5", "N6", "N7", "N8", "N9", "N0", "MINS", "EQL", "BSPC", "INS"},
	{"TAB", "Q", "W", "E", "R", "T", "Y", "U", "I", "O", "P", "LBRC", "RBRC", "BSLS", "DEL"},
	{"CAPS", "A", "S", "D", "F", "G", "H", "J", "K", "L", "SCLN", "QUOT", "ENT", ____, ____},
	{"LSFT", "Z", "X", "C", "V", "B", "N", "M", "COMM", "DOT", "SLSH", "RSFT", "UP", ____, ____},
	{"LCTL", "LGUI", "LALT", ____, "SPC", "SPC", "SPC", ____, "RALT", "RGUI", "APP", "RCTL", "LEFT", "DOWN", "RGHT"},
	{____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____},
}

var keycool84Fn = [][]string{
	{____, "F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12", ____, ____},
	{____, ____, ____, ____, ____, ____, ____, ____, "PSCR", "SLCK", "PAUS", ____, ____, ____, ____},
	{____, ____, ____, ____, ____, ____, "LEFT", "DOWN", "UP", "RGHT", ____, ____, ____, ____, ____},
	{____, ____, ____, ____, ____, ____, "HOME", "PGDN", "PGUP", "END", ____, ____, ____, ____, ____},
	{____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____},
	{____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____, ____},
}

// Keycool84FnKey holds the Fn layer. It sits on row 4, third column from
// the right, in place of LEFT on the base layer.
var Keycool84FnKey = types.Pos(4, 12)

// Keycool84 builds the Keycool 84 device configuration.
func Keycool84() (Device, error) {
	b := keymap.NewBuilder(2, 6, 15)
	b.Name(0, "base").Name(1, "fn")
	for layer, rows := range [][][]string{keycool84Base, keycool84Fn} {
		for r, names := range rows {
			if err := b.SetNames(layer, r, names); err != nil {
				return Device{}, err
			}
		}
	}
	if err := b.Override(0, Keycool84FnKey, keymap.Hold(1)); err != nil {
		return Device{}, err
	}
	km, err := b.Build()
	if err != nil {
		return Device{}, err
	}

	return Device{
		Keyboard: types.KeyboardConfig{
			Name: "keycool84",
			Matrix: types.MatrixConfig{
				Rows:        []int{0, 1, 2, 3, 4, 5},
				Cols:        []int{6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20},
				Orientation: types.Col2Row,
				Interval:    2 * time.Millisecond,
				Driver:      types.DriverGPIO,
			},
			Debounce: types.DebounceConfig{Algorithm: types.DebounceSettleCount, Count: 3},
			Queue:    types.QueueConfig{Capacity: 64},
			Report:   types.ReportConfig{Slots: 6, Rollover: types.RolloverDropNewest},
		},
		Keymap: km,
		Diag:   types.DiagConfig{Interval: 5 * time.Second},
	}, nil
}
