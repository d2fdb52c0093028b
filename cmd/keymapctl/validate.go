package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"keymatrix-go/keymapfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Load and check a keyboard definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, path string) error {
	f, err := keymapfile.Load(path)
	if err != nil {
		return err
	}
	cfg, km := f.Config, f.Keymap
	fmt.Fprintf(w, "%s: %dx%d matrix, %d layers, %s driver, %s\n",
		cfg.Name, km.Rows(), km.Cols(), km.Layers(), cfg.Matrix.Driver, cfg.Matrix.Orientation)
	fmt.Fprintf(w, "scan %v, debounce %s/%d, queue %d, %d slots %s\n",
		cfg.Matrix.Interval, cfg.Debounce.Algorithm, cfg.Debounce.Count,
		cfg.Queue.Capacity, cfg.Report.Slots, cfg.Report.Rollover)
	return nil
}
