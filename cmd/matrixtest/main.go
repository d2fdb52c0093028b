//go:build rp2040 || rp2350

// matrixtest scans the raw switch matrix without debounce and prints every
// closure and release as "row,col". Use it to find which physical switch
// sits at a matrix position.
package main

import (
	"time"

	"keymatrix-go/services/config"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
	"keymatrix-go/x/conv"
)

const scanEvery = 1 * time.Millisecond

func main() {
	time.Sleep(2 * time.Second)

	dev, err := config.Keycool84()
	if err != nil {
		println("[matrixtest] config:", err.Error())
		return
	}
	mc := dev.Keyboard.Matrix
	lines, err := kbd.PlatformLines()(mc)
	if err != nil {
		println("[matrixtest] open:", err.Error())
		return
	}

	rows, cols := len(mc.Rows), len(mc.Cols)
	strobes, senses := rows, cols
	if mc.Orientation == types.Row2Col {
		strobes, senses = cols, rows
	}
	println("[matrixtest] scanning", rows, "x", cols)

	prev := make([]bool, rows*cols)
	buf := make([]byte, 0, 16)
	for {
		for s := 0; s < strobes; s++ {
			if err := lines.Strobe(s, true); err != nil {
				println("[matrixtest] strobe", s, err.Error())
				continue
			}
			for k := 0; k < senses; k++ {
				on, err := lines.Read(k)
				if err != nil {
					continue
				}
				r, c := s, k
				if mc.Orientation == types.Row2Col {
					r, c = k, s
				}
				i := r*cols + c
				if on == prev[i] {
					continue
				}
				prev[i] = on
				buf = conv.AppendUint(buf[:0], uint64(r))
				buf = append(buf, ',')
				buf = conv.AppendUint(buf, uint64(c))
				if on {
					buf = append(buf, " down"...)
				} else {
					buf = append(buf, " up"...)
				}
				println(string(buf))
			}
			_ = lines.Strobe(s, false)
		}
		time.Sleep(scanEvery)
	}
}
