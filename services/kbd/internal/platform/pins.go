// services/kbd/internal/platform/pins.go
package platform

import "tinygo.org/x/drivers"

type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// GPIOPin is the subset of a pin the matrix drivers need.
type GPIOPin interface {
	ConfigureInput(pull Pull) error
	ConfigureOutput(initial bool) error
	Set(level bool)
	Get() bool
	Number() int
}

// PinFactory supplies GPIO pins by board number.
type PinFactory interface {
	ByNumber(n int) (GPIOPin, bool)
}

// I2CBusFactory supplies configured I²C buses by id ("i2c0", "i2c1").
// Uses the TinyGo drivers.I2C interface so MCU buses plug in directly.
type I2CBusFactory interface {
	ByID(id string) (drivers.I2C, bool)
}
