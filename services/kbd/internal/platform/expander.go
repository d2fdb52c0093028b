// services/kbd/internal/platform/expander.go
package platform

import (
	"strconv"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp23017"

	"keymatrix-go/errcode"
)

// DefaultExpanderAddr is the MCP23017 address with A0..A2 tied low.
const DefaultExpanderAddr = 0x20

const expanderPins = 16

// ExpanderLines drives a matrix wired to an MCP23017 port expander. The
// whole GPIO register pair is read once per strobed line and cached until
// the next strobe, so one scan costs one write and one read per strobe line.
type ExpanderLines struct {
	dev        *mcp23017.Device
	strobe     []int
	sense      []int
	activeHigh bool

	cached bool
	pins   mcp23017.Pins
}

// NewExpanderLines configures expander pin modes and parks every strobe pin
// at its idle level.
func NewExpanderLines(bus drivers.I2C, addr uint8, strobe, sense []int, activeHigh bool) (*ExpanderLines, error) {
	if addr == 0 {
		addr = DefaultExpanderAddr
	}
	for _, n := range append(append([]int(nil), strobe...), sense...) {
		if n < 0 || n >= expanderPins {
			return nil, errcode.Wrap(errcode.UnknownPin, "expander", "pin "+strconv.Itoa(n), nil)
		}
	}
	dev, err := mcp23017.NewI2C(bus, addr)
	if err != nil {
		return nil, errcode.Wrap(errcode.NotReady, "expander", "probe", err)
	}

	modes := make([]mcp23017.PinMode, expanderPins)
	for i := range modes {
		modes[i] = mcp23017.Input
	}
	if !activeHigh {
		for _, n := range sense {
			modes[n] = mcp23017.Input | mcp23017.Pullup
		}
	}
	var mask, idle mcp23017.Pins
	for _, n := range strobe {
		modes[n] = mcp23017.Output
		mask |= 1 << uint(n)
		if !activeHigh {
			idle |= 1 << uint(n)
		}
	}
	if err := dev.SetModes(modes); err != nil {
		return nil, errcode.Wrap(errcode.Error, "expander", "set modes", err)
	}
	if err := dev.SetPins(idle, mask); err != nil {
		return nil, errcode.Wrap(errcode.Error, "expander", "idle strobes", err)
	}
	return &ExpanderLines{dev: dev, strobe: strobe, sense: sense, activeHigh: activeHigh}, nil
}

func (l *ExpanderLines) Strobe(line int, active bool) error {
	if line < 0 || line >= len(l.strobe) {
		return errcode.InvalidParams
	}
	l.cached = false
	bit := mcp23017.Pins(1) << uint(l.strobe[line])
	var level mcp23017.Pins
	if active == l.activeHigh {
		level = bit
	}
	return l.dev.SetPins(level, bit)
}

func (l *ExpanderLines) Read(line int) (bool, error) {
	if line < 0 || line >= len(l.sense) {
		return false, errcode.InvalidParams
	}
	if !l.cached {
		p, err := l.dev.GetPins()
		if err != nil {
			return false, err
		}
		l.pins, l.cached = p, true
	}
	high := l.pins&(mcp23017.Pins(1)<<uint(l.sense[line])) != 0
	return high == l.activeHigh, nil
}
