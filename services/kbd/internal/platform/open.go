// services/kbd/internal/platform/open.go
package platform

import (
	"strconv"

	"keymatrix-go/errcode"
	"keymatrix-go/services/kbd/internal/matrix"
	"keymatrix-go/types"
)

// Open builds the matrix lines for cfg. Strobe lines are the rows for
// col2row diodes and the columns for row2col.
func Open(cfg types.MatrixConfig, pins PinFactory, i2c I2CBusFactory) (matrix.Lines, error) {
	strobe, sense := cfg.Rows, cfg.Cols
	if cfg.Orientation == types.Row2Col {
		strobe, sense = cfg.Cols, cfg.Rows
	}
	if err := distinct(strobe, sense); err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case "", types.DriverGPIO:
		if pins == nil {
			return nil, errcode.Wrap(errcode.NotReady, "open", "no pin factory", nil)
		}
		sp, err := claim(pins, strobe)
		if err != nil {
			return nil, err
		}
		ip, err := claim(pins, sense)
		if err != nil {
			return nil, err
		}
		return NewPinLines(sp, ip, cfg.ActiveHigh)

	case types.DriverMCP23017:
		id := cfg.I2C
		if id == "" {
			id = "i2c0"
		}
		if i2c == nil {
			return nil, errcode.Wrap(errcode.UnknownBus, "open", id, nil)
		}
		bus, ok := i2c.ByID(id)
		if !ok {
			return nil, errcode.Wrap(errcode.UnknownBus, "open", id, nil)
		}
		return NewExpanderLines(bus, cfg.I2CAddr, strobe, sense, cfg.ActiveHigh)
	}
	return nil, errcode.Wrap(errcode.Unsupported, "open", "driver "+cfg.Driver, nil)
}

func claim(f PinFactory, nums []int) ([]GPIOPin, error) {
	out := make([]GPIOPin, 0, len(nums))
	for _, n := range nums {
		p, ok := f.ByNumber(n)
		if !ok {
			return nil, errcode.Wrap(errcode.UnknownPin, "open", "pin "+strconv.Itoa(n), nil)
		}
		out = append(out, p)
	}
	return out, nil
}

func distinct(a, b []int) error {
	seen := make(map[int]bool, len(a)+len(b))
	for _, list := range [][]int{a, b} {
		for _, n := range list {
			if seen[n] {
				return errcode.Wrap(errcode.PinInUse, "open", "pin "+strconv.Itoa(n), nil)
			}
			seen[n] = true
		}
	}
	return nil
}
