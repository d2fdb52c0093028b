package keymap

import (
	"strconv"

	"keymatrix-go/errcode"
	"keymatrix-go/types"
)

// Limits.
const (
	MaxLayers     = 32
	MaxMacroDepth = 4
)

// Keymap is a dense (layer, row, col) table. Read-only once built.
type Keymap struct {
	layers, rows, cols int
	names              []string
	table              []Action
}

func (k *Keymap) Layers() int { return k.layers }
func (k *Keymap) Rows() int   { return k.rows }
func (k *Keymap) Cols() int   { return k.cols }

// LayerName returns the configured name, or the layer number.
func (k *Keymap) LayerName(layer int) string {
	if layer >= 0 && layer < len(k.names) && k.names[layer] != "" {
		return k.names[layer]
	}
	return strconv.Itoa(layer)
}

// At returns the action bound at (layer, p). Out-of-range lookups are NoOp.
func (k *Keymap) At(layer int, p types.Position) Action {
	if layer < 0 || layer >= k.layers || int(p.Row) >= k.rows || int(p.Col) >= k.cols {
		return NoOp()
	}
	return k.table[k.index(layer, p)]
}

func (k *Keymap) index(layer int, p types.Position) int {
	return layer*k.rows*k.cols + p.Index(k.cols)
}

// ---- Builder ----

// Builder assembles a Keymap. Every position may be bound once per layer;
// Override replaces a binding deliberately.
type Builder struct {
	km    Keymap
	bound []bool
	err   error
}

// NewBuilder starts an empty keymap of the given shape.
func NewBuilder(layers, rows, cols int) *Builder {
	b := &Builder{}
	if layers < 1 || layers > MaxLayers || rows < 1 || rows > types.MaxMatrixLines || cols < 1 || cols > types.MaxMatrixLines {
		b.err = errcode.Wrap(errcode.InvalidKeymap, "keymap", "bad shape "+dims(layers, rows, cols), nil)
		return b
	}
	n := layers * rows * cols
	b.km = Keymap{
		layers: layers,
		rows:   rows,
		cols:   cols,
		names:  make([]string, layers),
		table:  make([]Action, n),
	}
	b.bound = make([]bool, n)
	return b
}

// Name labels a layer.
func (b *Builder) Name(layer int, name string) *Builder {
	if b.err == nil && layer >= 0 && layer < b.km.layers {
		b.km.names[layer] = name
	}
	return b
}

// Set binds a once. A second Set of the same cell is DuplicateBinding.
func (b *Builder) Set(layer int, p types.Position, a Action) error {
	return b.put(layer, p, a, false)
}

// Override binds a, replacing any earlier binding of the cell.
func (b *Builder) Override(layer int, p types.Position, a Action) error {
	return b.put(layer, p, a, true)
}

// SetRow binds a whole row from a layout table; len(acts) must equal the
// column count.
func (b *Builder) SetRow(layer, row int, acts []Action) error {
	if b.err != nil {
		return b.err
	}
	if len(acts) != b.km.cols {
		return b.fail(errcode.InvalidKeymap, "layer "+strconv.Itoa(layer)+" row "+strconv.Itoa(row)+
			" has "+strconv.Itoa(len(acts))+" entries, want "+strconv.Itoa(b.km.cols))
	}
	for c, a := range acts {
		if err := b.Set(layer, types.Pos(row, c), a); err != nil {
			return err
		}
	}
	return nil
}

// SetNames is SetRow for a row of action names in ParseAction syntax.
func (b *Builder) SetNames(layer, row int, names []string) error {
	if b.err != nil {
		return b.err
	}
	acts := make([]Action, len(names))
	for c, n := range names {
		a, err := ParseAction(n)
		if err != nil {
			return b.fail(errcode.Of(err), where(layer, types.Pos(row, c))+" "+strconv.Quote(n))
		}
		acts[c] = a
	}
	return b.SetRow(layer, row, acts)
}

func (b *Builder) put(layer int, p types.Position, a Action, override bool) error {
	if b.err != nil {
		return b.err
	}
	if layer < 0 || layer >= b.km.layers {
		return b.fail(errcode.UnknownLayer, "layer "+strconv.Itoa(layer))
	}
	if int(p.Row) >= b.km.rows || int(p.Col) >= b.km.cols {
		return b.fail(errcode.PositionOutOfRange, where(layer, p))
	}
	i := b.km.index(layer, p)
	if b.bound[i] && !override {
		return b.fail(errcode.DuplicateBinding, where(layer, p))
	}
	b.km.table[i] = a
	b.bound[i] = true
	return nil
}

func (b *Builder) fail(c errcode.Code, msg string) error {
	b.err = errcode.Wrap(c, "keymap", msg, nil)
	return b.err
}

// Build validates every binding and returns the finished Keymap. The
// Builder must not be reused afterwards.
func (b *Builder) Build() (*Keymap, error) {
	if b.err != nil {
		return nil, b.err
	}
	km := b.km
	for l := 0; l < km.layers; l++ {
		for r := 0; r < km.rows; r++ {
			for c := 0; c < km.cols; c++ {
				p := types.Pos(r, c)
				a := km.table[km.index(l, p)]
				if err := validate(a, km.layers, 0); err != nil {
					return nil, errcode.Wrap(errcode.Of(err), "keymap", where(l, p)+" "+a.String(), nil)
				}
			}
		}
	}
	return &km, nil
}

func validate(a Action, layers, depth int) error {
	switch a.Kind {
	case KindNoOp, KindTransparent, KindKey, KindModifier:
		return nil
	case KindLayerHold, KindLayerToggle:
		if depth > 0 {
			return errcode.InvalidMacro
		}
		if int(a.Layer) >= layers {
			return errcode.UnknownLayer
		}
		return nil
	case KindMacro:
		if depth >= MaxMacroDepth {
			return errcode.InvalidMacro
		}
		for _, s := range a.Steps {
			if s.Kind == KindTransparent {
				return errcode.InvalidMacro
			}
			if err := validate(s, layers, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return errcode.InvalidKeymap
}

func where(layer int, p types.Position) string {
	return "layer " + strconv.Itoa(layer) + " (" + strconv.Itoa(int(p.Row)) + "," + strconv.Itoa(int(p.Col)) + ")"
}

func dims(l, r, c int) string {
	return strconv.Itoa(l) + "x" + strconv.Itoa(r) + "x" + strconv.Itoa(c)
}
