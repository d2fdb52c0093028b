package types

import "time"

// Keyboard configuration supplied on topic "config/kbd". The keymap itself
// travels separately on "config/keymap".

type KeyboardConfig struct {
	Name     string         `yaml:"name"`
	Matrix   MatrixConfig   `yaml:"matrix"`
	Debounce DebounceConfig `yaml:"debounce"`
	Queue    QueueConfig    `yaml:"queue"`
	Report   ReportConfig   `yaml:"report"`

	// Concurrent runs the scanner on its own goroutine; the queue is then the
	// only state shared with the resolver.
	Concurrent bool `yaml:"concurrent,omitempty"`

	// DiagInterval controls how often diagnostics are published (0 = 1s).
	DiagInterval time.Duration `yaml:"diag_interval,omitempty"`
}

// Matrix drivers.
const (
	DriverGPIO     = "gpio"
	DriverMCP23017 = "mcp23017"
)

type MatrixConfig struct {
	// Rows and Cols hold line numbers (GPIO numbers, or expander pins).
	// Their lengths define the matrix shape.
	Rows        []int            `yaml:"rows"`
	Cols        []int            `yaml:"cols"`
	Orientation DiodeOrientation `yaml:"orientation"`
	Interval    time.Duration    `yaml:"interval"`

	// ActiveHigh inverts the default active-low electrical convention.
	ActiveHigh bool `yaml:"active_high,omitempty"`

	Driver  string `yaml:"driver,omitempty"`
	I2C     string `yaml:"i2c,omitempty"`      // bus id for expander drivers
	I2CAddr uint8  `yaml:"i2c_addr,omitempty"` // 7-bit address
}

// DebounceAlgorithm names a debounce filter.
type DebounceAlgorithm string

const (
	DebounceEager       DebounceAlgorithm = "eager"
	DebounceSettleCount DebounceAlgorithm = "settle-count"
	DebounceTimeWindow  DebounceAlgorithm = "time-window"
)

type DebounceConfig struct {
	Algorithm DebounceAlgorithm `yaml:"algorithm"`
	// Count is the number of consecutive samples (settle-count) or the
	// post-transition lockout in samples (eager).
	Count int `yaml:"count,omitempty"`
	// Window is the stable duration (time-window) or the post-transition
	// lockout (eager).
	Window time.Duration `yaml:"window,omitempty"`
}

type QueueConfig struct {
	Capacity int `yaml:"capacity"`
}

// RolloverPolicy decides what happens when more keys are held than the
// report has slots for.
type RolloverPolicy string

const (
	RolloverDropNewest    RolloverPolicy = "drop-newest"
	RolloverReplaceOldest RolloverPolicy = "replace-oldest"
	RolloverReportError   RolloverPolicy = "report-rollover-error"
)

type ReportConfig struct {
	Slots    int            `yaml:"slots"`
	Rollover RolloverPolicy `yaml:"rollover"`
}

// Defaults applied by kbd.Normalise.
const (
	DefaultScanInterval   = 2 * time.Millisecond
	DefaultQueueCapacity  = 64
	DefaultReportSlots    = 6
	MaxReportSlots        = 32
	DefaultSettleCount    = 5
	DefaultDebounceWindow = 5 * time.Millisecond
	DefaultDiagInterval   = time.Second
	MaxMatrixLines        = 32

	// DefaultReportQueue sizes the hand-off between the keyboard service
	// and the host transport.
	DefaultReportQueue = 128
)

// DiagConfig is supplied on topic "config/diag".
type DiagConfig struct {
	Interval time.Duration `yaml:"interval"`
}
