package kbd

import (
	"errors"
	"testing"
	"time"

	"keymatrix-go/errcode"
	"keymatrix-go/keycode"
	"keymatrix-go/keymap"
	"keymatrix-go/types"
)

const testRows, testCols = 5, 8

var (
	fnKey  = types.Pos(4, 6)
	numKey = types.Pos(0, 1)
)

func testKeymap(t *testing.T) *keymap.Keymap {
	t.Helper()
	b := keymap.NewBuilder(2, testRows, testCols)
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.Set(0, types.Pos(0, 0), keymap.Key(keycode.A)))
	must(b.Set(0, numKey, keymap.Key(keycode.N1)))
	must(b.Set(1, numKey, keymap.Key(keycode.F2)))
	must(b.SetRow(0, 1, []keymap.Action{
		keymap.Key(keycode.Q), keymap.Key(keycode.W), keymap.Key(keycode.E), keymap.Key(keycode.R),
		keymap.Key(keycode.T), keymap.Key(keycode.Y), keymap.Key(keycode.U), keymap.NoOp(),
	}))
	must(b.Set(0, types.Pos(3, 0), keymap.Mod(keycode.LeftShift)))
	must(b.Set(0, fnKey, keymap.Hold(1)))
	must(b.Set(1, fnKey, keymap.Transparent()))
	km, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return km
}

func testConfig() types.KeyboardConfig {
	return types.KeyboardConfig{
		Name: "test",
		Matrix: types.MatrixConfig{
			Rows:        []int{0, 1, 2, 3, 4},
			Cols:        []int{5, 6, 7, 8, 9, 10, 11, 12},
			Orientation: types.Col2Row,
			Interval:    time.Millisecond,
		},
		Debounce: types.DebounceConfig{Algorithm: types.DebounceSettleCount, Count: 2},
		Report:   types.ReportConfig{Slots: 6, Rollover: types.RolloverDropNewest},
	}
}

type rig struct {
	t       *testing.T
	p       *Pipeline
	m       *FakeMatrix
	now     time.Time
	reports []types.Report
}

func newRig(t *testing.T, cfg types.KeyboardConfig) *rig {
	t.Helper()
	m := NewFakeMatrix(testRows, testCols, cfg.Matrix.Orientation)
	p, err := NewPipeline(cfg, testKeymap(t), m)
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return &rig{t: t, p: p, m: m, now: time.Unix(1_700_000_000, 0)}
}

// tick runs n cooperative cycles and returns the last scan error.
func (r *rig) tick(n int) error {
	var err error
	for i := 0; i < n; i++ {
		r.now = r.now.Add(2 * time.Millisecond)
		_, err = r.p.Tick(r.now, func(rep types.Report) { r.reports = append(r.reports, rep) })
	}
	return err
}

func (r *rig) settle() {
	r.t.Helper()
	if err := r.tick(2); err != nil {
		r.t.Fatalf("tick: %v", err)
	}
}

func (r *rig) last() types.Report {
	if len(r.reports) == 0 {
		return types.Report{}
	}
	return r.reports[len(r.reports)-1]
}

func wantKeys(t *testing.T, rep types.Report, want ...keycode.Code) {
	t.Helper()
	if len(rep.Keys) != len(want) {
		t.Fatalf("keys = %v, want %v", rep.Keys, want)
	}
	for i := range want {
		if rep.Keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", rep.Keys, want)
		}
	}
}

func TestPressResolvesThroughBaseLayer(t *testing.T) {
	r := newRig(t, testConfig())
	r.m.Press(types.Pos(0, 0))

	_ = r.tick(1)
	if len(r.reports) != 0 {
		t.Fatal("report before debounce threshold")
	}
	_ = r.tick(1)
	if len(r.reports) != 1 {
		t.Fatalf("reports = %d, want 1", len(r.reports))
	}
	wantKeys(t, r.last(), keycode.A)
	if r.last().Modifiers != 0 {
		t.Fatalf("modifiers = %#x", r.last().Modifiers)
	}
}

func TestHoldLayerScenario(t *testing.T) {
	r := newRig(t, testConfig())

	r.m.Press(fnKey)
	r.settle()
	if got := r.p.Layers(); len(got) != 2 || got[1] != 1 {
		t.Fatalf("layers = %v, want [0 1]", got)
	}
	if len(r.reports) != 0 {
		t.Fatal("layer hold should not change the report")
	}

	r.m.Press(numKey)
	r.settle()
	wantKeys(t, r.last(), keycode.F2)
	r.m.Release(numKey)
	r.settle()
	wantKeys(t, r.last())

	r.m.Release(fnKey)
	r.settle()
	if got := r.p.Layers(); len(got) != 1 {
		t.Fatalf("layers = %v, want [0]", got)
	}

	r.m.Press(numKey)
	r.settle()
	wantKeys(t, r.last(), keycode.N1)
}

func TestSevenKeysDropNewest(t *testing.T) {
	r := newRig(t, testConfig())
	for c := 0; c < 7; c++ {
		r.m.Press(types.Pos(1, c))
	}
	r.settle()
	wantKeys(t, r.last(), keycode.Q, keycode.W, keycode.E, keycode.R, keycode.T, keycode.Y)
	if d := r.p.Diagnostics(); d.RolloverEvents != 1 || d.Transitions != 7 {
		t.Fatalf("diag = %+v", d)
	}
}

func TestModifierAndKeyShareReport(t *testing.T) {
	r := newRig(t, testConfig())
	r.m.Press(types.Pos(3, 0))
	r.m.Press(types.Pos(0, 0))
	r.settle()
	rep := r.last()
	if rep.Modifiers != keycode.LeftShift.ModifierBit() {
		t.Fatalf("modifiers = %#x", rep.Modifiers)
	}
	wantKeys(t, rep, keycode.A)
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	cfg := testConfig()
	cfg.Queue.Capacity = 4
	r := newRig(t, cfg)
	for c := 0; c < 7; c++ {
		r.m.Press(types.Pos(1, c))
	}
	r.now = r.now.Add(time.Millisecond)
	_ = r.p.Scan(r.now)
	r.now = r.now.Add(time.Millisecond)
	_ = r.p.Scan(r.now)

	if d := r.p.Diagnostics(); d.QueueDropped != 3 {
		t.Fatalf("dropped = %d, want 3", d.QueueDropped)
	}
	r.p.Process(func(rep types.Report) { r.reports = append(r.reports, rep) })
	wantKeys(t, r.last(), keycode.R, keycode.T, keycode.Y, keycode.U)
}

func TestScanFailureRetainsState(t *testing.T) {
	r := newRig(t, testConfig())
	r.m.Press(types.Pos(0, 0))
	r.settle()
	wantKeys(t, r.last(), keycode.A)

	// col2row: sense line 0 is column 0.
	r.m.FailRead(0)
	r.m.Release(types.Pos(0, 0))
	for i := 0; i < 3; i++ {
		if err := r.tick(1); !errors.Is(err, errcode.ScanFailed) {
			t.Fatalf("tick err = %v, want scan_failed", err)
		}
	}
	wantKeys(t, r.last(), keycode.A)

	r.m.Heal(0)
	r.settle()
	wantKeys(t, r.last())
	if d := r.p.Diagnostics(); d.ScanErrors != 3 {
		t.Fatalf("scan errors = %d, want 3", d.ScanErrors)
	}
}

func TestProcessReportsLayerChange(t *testing.T) {
	r := newRig(t, testConfig())
	r.m.Press(fnKey)
	_ = r.p.Scan(r.now.Add(time.Millisecond))
	_ = r.p.Scan(r.now.Add(2 * time.Millisecond))
	if !r.p.Process(nil) {
		t.Fatal("expected layer change")
	}
	if r.p.Process(nil) {
		t.Fatal("empty drain reported a layer change")
	}
}

func TestNewPipelineRejectsShapeMismatch(t *testing.T) {
	cfg := testConfig()
	cfg.Matrix.Rows = cfg.Matrix.Rows[:4]
	_, err := NewPipeline(cfg, testKeymap(t), NewFakeMatrix(4, testCols, types.Col2Row))
	if errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("err = %v, want invalid_config", err)
	}
}

func TestNormaliseDefaults(t *testing.T) {
	cfg := Normalise(types.KeyboardConfig{})
	if cfg.Matrix.Interval != types.DefaultScanInterval ||
		cfg.Matrix.Orientation != types.Col2Row ||
		cfg.Queue.Capacity != types.DefaultQueueCapacity ||
		cfg.Report.Slots != types.DefaultReportSlots ||
		cfg.Report.Rollover != types.RolloverDropNewest ||
		cfg.Debounce.Algorithm != types.DebounceSettleCount ||
		cfg.DiagInterval != types.DefaultDiagInterval {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	cfg = Normalise(types.KeyboardConfig{Report: types.ReportConfig{Slots: 99}})
	if cfg.Report.Slots != types.MaxReportSlots {
		t.Fatalf("slots = %d, want clamp to %d", cfg.Report.Slots, types.MaxReportSlots)
	}
}

func TestValidateRejectsUnknownPolicy(t *testing.T) {
	cfg := Normalise(testConfig())
	cfg.Report.Rollover = "shrug"
	if err := Validate(cfg, nil); errcode.Of(err) != errcode.InvalidConfig {
		t.Fatalf("err = %v", err)
	}
}
