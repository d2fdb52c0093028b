// services/kbd/internal/platform/lines.go
package platform

import (
	"strconv"

	"keymatrix-go/errcode"
)

// PinLines drives a matrix wired straight to GPIO pins. Strobe pins are
// outputs that idle inactive; sense pins are inputs pulled to the inactive
// level. The default convention is active-low.
type PinLines struct {
	strobe     []GPIOPin
	sense      []GPIOPin
	activeHigh bool
}

// NewPinLines configures the pins and returns the line set.
func NewPinLines(strobe, sense []GPIOPin, activeHigh bool) (*PinLines, error) {
	pull := PullUp
	if activeHigh {
		pull = PullDown
	}
	for _, p := range strobe {
		if err := p.ConfigureOutput(!activeHigh); err != nil {
			return nil, errcode.Wrap(errcode.Error, "lines", "strobe pin "+strconv.Itoa(p.Number()), err)
		}
	}
	for _, p := range sense {
		if err := p.ConfigureInput(pull); err != nil {
			return nil, errcode.Wrap(errcode.Error, "lines", "sense pin "+strconv.Itoa(p.Number()), err)
		}
	}
	return &PinLines{strobe: strobe, sense: sense, activeHigh: activeHigh}, nil
}

func (l *PinLines) Strobe(line int, active bool) error {
	if line < 0 || line >= len(l.strobe) {
		return errcode.InvalidParams
	}
	l.strobe[line].Set(active == l.activeHigh)
	return nil
}

func (l *PinLines) Read(line int) (bool, error) {
	if line < 0 || line >= len(l.sense) {
		return false, errcode.InvalidParams
	}
	return l.sense[line].Get() == l.activeHigh, nil
}
