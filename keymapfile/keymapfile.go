// Package keymapfile loads keyboard definitions (matrix config plus layered
// keymap) from YAML for host tooling.
package keymapfile

import (
	"bytes"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"keymatrix-go/errcode"
	"keymatrix-go/keymap"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
)

// File is a parsed keyboard definition.
type File struct {
	Config types.KeyboardConfig
	Keymap *keymap.Keymap
}

type document struct {
	types.KeyboardConfig `yaml:",inline"`

	Layers   []layerDoc   `yaml:"layers"`
	Bindings []bindingDoc `yaml:"bindings"`
}

type layerDoc struct {
	Name string     `yaml:"name"`
	Rows [][]string `yaml:"rows"`
}

// bindingDoc places one action explicitly, replacing whatever the layer
// table put there.
type bindingDoc struct {
	Layer  int    `yaml:"layer"`
	Row    int    `yaml:"row"`
	Col    int    `yaml:"col"`
	Action string `yaml:"action"`
}

// Load reads and parses a keyboard definition file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errcode.Wrap(errcode.Of(err), "load", path, err)
	}
	return f, nil
}

// Parse decodes a keyboard definition. Unknown fields are rejected. The
// returned config is normalised and checked against the keymap shape.
func Parse(data []byte) (*File, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "parse", "yaml", err)
	}

	cfg := kbd.Normalise(doc.KeyboardConfig)
	if err := kbd.Validate(cfg, nil); err != nil {
		return nil, err
	}
	if len(doc.Layers) == 0 {
		return nil, errcode.Wrap(errcode.InvalidKeymap, "parse", "no layers", nil)
	}

	rows, cols := len(cfg.Matrix.Rows), len(cfg.Matrix.Cols)
	b := keymap.NewBuilder(len(doc.Layers), rows, cols)
	for l, layer := range doc.Layers {
		b.Name(l, layer.Name)
		if len(layer.Rows) > rows {
			return nil, errcode.Wrap(errcode.InvalidKeymap, "parse",
				"layer "+strconv.Itoa(l)+" has "+strconv.Itoa(len(layer.Rows))+" rows, matrix has "+strconv.Itoa(rows), nil)
		}
		for r, names := range layer.Rows {
			if err := b.SetNames(l, r, names); err != nil {
				return nil, err
			}
		}
	}
	for i, bd := range doc.Bindings {
		a, err := keymap.ParseAction(bd.Action)
		if err != nil {
			return nil, errcode.Wrap(errcode.Of(err), "parse", "binding "+strconv.Itoa(i), err)
		}
		if bd.Row < 0 || bd.Col < 0 || bd.Row > 255 || bd.Col > 255 {
			return nil, errcode.Wrap(errcode.PositionOutOfRange, "parse", "binding "+strconv.Itoa(i), nil)
		}
		if err := b.Override(bd.Layer, types.Pos(bd.Row, bd.Col), a); err != nil {
			return nil, errcode.Wrap(errcode.Of(err), "parse", "binding "+strconv.Itoa(i), err)
		}
	}
	km, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &File{Config: cfg, Keymap: km}, nil
}
