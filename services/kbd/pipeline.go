// services/kbd/pipeline.go
package kbd

import (
	"sync/atomic"
	"time"

	"keymatrix-go/keymap"
	"keymatrix-go/services/kbd/internal/debounce"
	"keymatrix-go/services/kbd/internal/layers"
	"keymatrix-go/services/kbd/internal/matrix"
	"keymatrix-go/services/kbd/internal/report"
	"keymatrix-go/types"
	"keymatrix-go/x/ring"
)

// Lines is the electrical interface of a switch matrix.
type Lines = matrix.Lines

// Pipeline wires scanner, debounce, event queue, layer engine and report
// builder together. Scan is the producer half and Process the consumer
// half; they may run on different goroutines, sharing only the queue.
// Everything else belongs to the consumer.
type Pipeline struct {
	cfg     types.KeyboardConfig
	scanner *matrix.Scanner
	queue   *ring.Ring[types.Transition]
	engine  *layers.Engine
	builder *report.Builder

	// producer scratch
	found []types.Transition

	// consumer scratch
	batch  []types.Transition
	deltas []layers.Delta
	active []uint8
	probe  []uint8

	ticks       atomic.Uint64
	transitions atomic.Uint64
	scanErrs    atomic.Uint32
	reports     uint64
}

// NewPipeline normalises and validates cfg and builds the stages over lines.
func NewPipeline(cfg types.KeyboardConfig, km *keymap.Keymap, lines Lines) (*Pipeline, error) {
	cfg = Normalise(cfg)
	if err := Validate(cfg, km); err != nil {
		return nil, err
	}
	rows, cols := len(cfg.Matrix.Rows), len(cfg.Matrix.Cols)
	sampler := debounce.New(rows, cols, cfg.Debounce)
	p := &Pipeline{
		cfg:     cfg,
		scanner: matrix.New(lines, rows, cols, cfg.Matrix.Orientation, sampler),
		queue:   ring.New[types.Transition](cfg.Queue.Capacity),
		engine:  layers.New(km),
		builder: report.New(cfg.Report.Slots, cfg.Report.Rollover),
		found:   make([]types.Transition, 0, rows*cols),
		batch:   make([]types.Transition, 0, cfg.Queue.Capacity),
	}
	p.active = p.engine.Active(nil)
	return p, nil
}

// Config returns the normalised configuration.
func (p *Pipeline) Config() types.KeyboardConfig { return p.cfg }

// Scan runs one matrix pass and queues the confirmed transitions. It never
// blocks on the consumer: a full queue loses its oldest transition.
func (p *Pipeline) Scan(now time.Time) error {
	var err error
	p.found, err = p.scanner.ScanTick(now, p.found[:0])
	for _, tr := range p.found {
		p.queue.Push(tr)
	}
	p.ticks.Add(1)
	p.transitions.Add(uint64(len(p.found)))
	if err != nil {
		p.scanErrs.Add(1)
	}
	return err
}

// Process drains the queue in FIFO order, resolves every transition and
// hands each changed report to emit. It reports whether the active layer
// set changed.
func (p *Pipeline) Process(emit func(types.Report)) bool {
	p.batch = p.queue.Drain(p.batch[:0])
	for _, tr := range p.batch {
		p.deltas = p.engine.Resolve(tr, p.deltas[:0])
		for _, d := range p.deltas {
			if r, changed := p.builder.Apply(d); changed {
				p.reports++
				if emit != nil {
					emit(r)
				}
			}
		}
	}
	if len(p.batch) == 0 {
		return false
	}
	p.probe = p.engine.Active(p.probe[:0])
	if sameLayers(p.probe, p.active) {
		return false
	}
	p.active, p.probe = p.probe, p.active
	return true
}

// Tick is one cooperative cycle: scan, drain, resolve, emit.
func (p *Pipeline) Tick(now time.Time, emit func(types.Report)) (layersChanged bool, err error) {
	err = p.Scan(now)
	return p.Process(emit), err
}

// Readable fires when the queue goes from empty to non-empty.
func (p *Pipeline) Readable() <-chan struct{} { return p.queue.Readable() }

// Report returns the latest report snapshot.
func (p *Pipeline) Report() types.Report { return p.builder.Report() }

// Layers returns the active layers bottom to top, base first.
func (p *Pipeline) Layers() []uint8 { return append([]uint8(nil), p.active...) }

// Diagnostics snapshots the counters. Call it from the consumer side.
func (p *Pipeline) Diagnostics() types.Diagnostics {
	return types.Diagnostics{
		Ticks:          p.ticks.Load(),
		Transitions:    p.transitions.Load(),
		QueueDropped:   p.queue.Drops(),
		ScanErrors:     p.scanErrs.Load(),
		RolloverEvents: p.builder.Rollovers(),
		Reports:        p.reports,
		ActiveLayers:   len(p.active),
	}
}

func sameLayers(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
