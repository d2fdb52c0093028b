package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"keymatrix-go/errcode"
	"keymatrix-go/keymap"
	"keymatrix-go/keymapfile"
	"keymatrix-go/types"
)

var layoutCmd = &cobra.Command{
	Use:   "layout FILE",
	Short: "Print each layer as a row/column grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		layer, _ := cmd.Flags().GetInt("layer")
		f, err := keymapfile.Load(args[0])
		if err != nil {
			return err
		}
		return printLayout(cmd.OutOrStdout(), f.Keymap, layer)
	},
}

func init() {
	layoutCmd.Flags().Int("layer", -1, "Only print this layer")
	rootCmd.AddCommand(layoutCmd)
}

// printLayout writes one grid per layer; layer < 0 prints all of them.
func printLayout(w io.Writer, km *keymap.Keymap, layer int) error {
	if layer >= km.Layers() {
		return errcode.Wrap(errcode.UnknownLayer, "layout", fmt.Sprintf("layer %d of %d", layer, km.Layers()), nil)
	}
	for l := 0; l < km.Layers(); l++ {
		if layer >= 0 && l != layer {
			continue
		}
		printLayer(w, km, l)
	}
	return nil
}

func printLayer(w io.Writer, km *keymap.Keymap, l int) {
	cells := make([][]string, km.Rows())
	width := 2
	for r := range cells {
		cells[r] = make([]string, km.Cols())
		for c := range cells[r] {
			s := km.At(l, types.Pos(r, c)).String()
			cells[r][c] = s
			width = max(width, len(s))
		}
	}

	fmt.Fprintf(w, "layer %d (%s)\n", l, km.LayerName(l))
	var b strings.Builder
	b.WriteString("    ")
	for c := 0; c < km.Cols(); c++ {
		fmt.Fprintf(&b, " %-*d", width, c)
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	for r, row := range cells {
		b.Reset()
		fmt.Fprintf(&b, "%3d ", r)
		for _, s := range row {
			fmt.Fprintf(&b, " %-*s", width, s)
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	fmt.Fprintln(w)
}
