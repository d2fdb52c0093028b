// services/kbd/config.go
package kbd

import (
	"strconv"
	"time"

	"keymatrix-go/errcode"
	"keymatrix-go/keymap"
	"keymatrix-go/types"
	"keymatrix-go/x/mathx"
)

// Normalise fills defaults and clamps numeric knobs into their working
// ranges. Line lists are left alone; Validate checks them.
func Normalise(cfg types.KeyboardConfig) types.KeyboardConfig {
	m := &cfg.Matrix
	if m.Orientation == "" {
		m.Orientation = types.Col2Row
	}
	if m.Driver == "" {
		m.Driver = types.DriverGPIO
	}
	m.Interval = mathx.Clamp(mathx.OrDefault(m.Interval, types.DefaultScanInterval), 100*time.Microsecond, time.Second)

	d := &cfg.Debounce
	if d.Algorithm == "" {
		d.Algorithm = types.DebounceSettleCount
	}
	d.Count = mathx.Clamp(mathx.OrDefault(d.Count, types.DefaultSettleCount), 1, 255)
	d.Window = mathx.OrDefault(d.Window, types.DefaultDebounceWindow)

	cfg.Queue.Capacity = mathx.Clamp(mathx.OrDefault(cfg.Queue.Capacity, types.DefaultQueueCapacity), 1, 4096)

	r := &cfg.Report
	r.Slots = mathx.Clamp(mathx.OrDefault(r.Slots, types.DefaultReportSlots), 1, types.MaxReportSlots)
	if r.Rollover == "" {
		r.Rollover = types.RolloverDropNewest
	}

	cfg.DiagInterval = mathx.Max(mathx.OrDefault(cfg.DiagInterval, types.DefaultDiagInterval), 100*time.Millisecond)
	return cfg
}

// Validate checks a normalised config on its own and, when km is non-nil,
// against the keymap shape.
func Validate(cfg types.KeyboardConfig, km *keymap.Keymap) error {
	m := cfg.Matrix
	if len(m.Rows) == 0 || len(m.Cols) == 0 {
		return errcode.Wrap(errcode.InvalidConfig, "config", "matrix needs rows and cols", nil)
	}
	if len(m.Rows) > types.MaxMatrixLines || len(m.Cols) > types.MaxMatrixLines {
		return errcode.Wrap(errcode.InvalidConfig, "config", "more than "+strconv.Itoa(types.MaxMatrixLines)+" lines", nil)
	}
	switch m.Orientation {
	case types.Col2Row, types.Row2Col:
	default:
		return errcode.Wrap(errcode.InvalidConfig, "config", "orientation "+string(m.Orientation), nil)
	}
	switch cfg.Debounce.Algorithm {
	case types.DebounceEager, types.DebounceSettleCount, types.DebounceTimeWindow:
	default:
		return errcode.Wrap(errcode.InvalidConfig, "config", "debounce "+string(cfg.Debounce.Algorithm), nil)
	}
	switch cfg.Report.Rollover {
	case types.RolloverDropNewest, types.RolloverReplaceOldest, types.RolloverReportError:
	default:
		return errcode.Wrap(errcode.InvalidConfig, "config", "rollover "+string(cfg.Report.Rollover), nil)
	}
	if km == nil {
		return nil
	}
	if km.Rows() != len(m.Rows) || km.Cols() != len(m.Cols) {
		return errcode.Wrap(errcode.InvalidConfig, "config",
			"keymap is "+strconv.Itoa(km.Rows())+"x"+strconv.Itoa(km.Cols())+
				", matrix is "+strconv.Itoa(len(m.Rows))+"x"+strconv.Itoa(len(m.Cols)), nil)
	}
	return nil
}
