// services/kbd/internal/platform/factories_rp2xxx.go
//go:build rp2040 || rp2350

package platform

import (
	"machine"

	"tinygo.org/x/drivers"
)

// DefaultI2CFactory returns the RP2 I²C buses. A bus is configured at
// 400 kHz on its board-default pins the first time it is asked for, so
// keyboards without an expander leave those pins free for the matrix.
func DefaultI2CFactory() I2CBusFactory { return &rp2I2CFactory{} }

// DefaultPinFactory maps logical numbers directly to machine.Pin(n). This
// matches Pico/Pico 2 GP numbering.
func DefaultPinFactory() PinFactory { return rp2PinFactory{} }

type rp2I2CFactory struct {
	i2c0, i2c1 bool
}

func (f *rp2I2CFactory) ByID(id string) (drivers.I2C, bool) {
	switch id {
	case "i2c0":
		if !f.i2c0 {
			_ = machine.I2C0.Configure(machine.I2CConfig{
				Frequency: 400 * machine.KHz,
				SDA:       machine.I2C0_SDA_PIN,
				SCL:       machine.I2C0_SCL_PIN,
			})
			f.i2c0 = true
		}
		return machine.I2C0, true
	case "i2c1":
		if !f.i2c1 {
			_ = machine.I2C1.Configure(machine.I2CConfig{
				Frequency: 400 * machine.KHz,
				SDA:       machine.I2C1_SDA_PIN,
				SCL:       machine.I2C1_SCL_PIN,
			})
			f.i2c1 = true
		}
		return machine.I2C1, true
	}
	return nil, false
}

type rp2PinFactory struct{}

func (rp2PinFactory) ByNumber(n int) (GPIOPin, bool) {
	// GP0..GP28 are the user GPIOs on both chips.
	if n < 0 || n > 28 {
		return nil, false
	}
	return &rp2Pin{p: machine.Pin(n), n: n}, true
}

type rp2Pin struct {
	p machine.Pin
	n int
}

func (r *rp2Pin) ConfigureInput(pull Pull) error {
	var mode machine.PinMode
	switch pull {
	case PullUp:
		mode = machine.PinInputPullup
	case PullDown:
		mode = machine.PinInputPulldown
	default:
		mode = machine.PinInput
	}
	r.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (r *rp2Pin) ConfigureOutput(initial bool) error {
	r.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	r.p.Set(initial)
	return nil
}

func (r *rp2Pin) Set(level bool) { r.p.Set(level) }
func (r *rp2Pin) Get() bool      { return r.p.Get() }
func (r *rp2Pin) Number() int    { return r.n }
