//go:build rp2040 || rp2350

package main

import (
	"context"
	"machine"
	"runtime"
	"time"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"keymatrix-go/bus"
	"keymatrix-go/services/config"
	"keymatrix-go/services/diag"
	"keymatrix-go/services/hidout"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
)

const (
	deviceID = "keycool84"

	// Report mirror on UART0. GP0..GP20 belong to the matrix.
	mirrorUART = true
	mirrorTX   = machine.GP28
	mirrorBaud = 115200
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot", deviceID)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)

	b := bus.NewBus(8)

	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	reports := kbd.NewReportQueue(types.DefaultReportQueue)
	go kbd.New(b.NewConnection("kbd"), nil).WithOutput(reports).Run(ctx)

	sinks := hidout.Fanout{hidout.NewUSBSink()}
	if mirrorUART {
		sinks = append(sinks, hidout.NewUARTMirror(uartx.UART0, mirrorTX, mirrorBaud))
	}
	go hidout.RunQueued(ctx, reports, sinks)

	if err := diag.New().Start(ctx, b.NewConnection("diag")); err != nil {
		println("[main] diag start failed:", err.Error())
	}

	println("[main] running")
	for {
		time.Sleep(30 * time.Second)
		printMem()
	}
}

// printMem prints a compact snapshot of TinyGo runtime memory stats.
func printMem() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	println(
		"[mem]",
		"alloc:", uint32(ms.Alloc),
		"heapInuse:", uint32(ms.HeapInuse),
		"mallocs:", uint32(ms.Mallocs),
		"frees:", uint32(ms.Frees),
	)
}
