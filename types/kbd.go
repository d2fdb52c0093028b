package types

import "keymatrix-go/keycode"

// ---- Keyboard service state (retained on kbd/state) ----

type KbdState struct {
	Level  string // "idle", "ready", "degraded", "stopped"
	Status string // short code
	Error  string
	TS     int64 // Unix ms
}

// Report is a snapshot of the keys currently held, as handed to the host
// transport. Keys never holds more entries than the configured slot count.
type Report struct {
	Modifiers uint8
	Keys      []keycode.Code
	// Rollover is set when held keys exceed the slots under the
	// report-rollover-error policy; Keys then carries ErrorRollOver.
	Rollover bool
	Seq      uint32
	TSms     int64
}

// Holds reports whether k is present in the report.
func (r Report) Holds(k keycode.Code) bool {
	for _, c := range r.Keys {
		if c == k {
			return true
		}
	}
	return false
}

// Equal compares the host-visible content (ignores Seq and TSms).
func (r Report) Equal(o Report) bool {
	if r.Modifiers != o.Modifiers || r.Rollover != o.Rollover || len(r.Keys) != len(o.Keys) {
		return false
	}
	for i := range r.Keys {
		if r.Keys[i] != o.Keys[i] {
			return false
		}
	}
	return true
}

// LayerState is published on kbd/layers whenever the active stack changes.
// Layers lists active layers bottom to top, always starting with base 0.
type LayerState struct {
	Layers []uint8
	TS     int64
}

// Diagnostics are monotonic counters surfaced on kbd/diag.
type Diagnostics struct {
	Ticks          uint64
	Transitions    uint64
	QueueDropped   uint32
	ScanErrors     uint32
	RolloverEvents uint32
	Reports        uint64
	ActiveLayers   int

	// ReportsDropped counts snapshots lost between the pipeline and the
	// host transport.
	ReportsDropped uint32
}
