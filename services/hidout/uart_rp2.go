// services/hidout/uart_rp2.go
//go:build rp2040 || rp2350

package hidout

import (
	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"

	"keymatrix-go/types"
	"keymatrix-go/x/conv"
)

// UARTMirror writes every report as a hex line ("R 02 00 04 00 00 00 00 00")
// to a UART for bring-up on boards where USB is busy with the host.
type UARTMirror struct {
	u   *uartx.UART
	buf []byte
}

// NewUARTMirror configures u for TX on the given pin. RX is left unused.
func NewUARTMirror(u *uartx.UART, tx machine.Pin, baud uint32) *UARTMirror {
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: baud,
		TX:       tx,
		RX:       machine.NoPin,
	})
	return &UARTMirror{u: u, buf: make([]byte, 0, 32)}
}

func (m *UARTMirror) Send(r types.Report) error {
	b := Encode(r)
	m.buf = append(m.buf[:0], 'R', ' ')
	m.buf = conv.AppendHex(m.buf, b[:], ' ')
	m.buf = append(m.buf, '\r', '\n')
	_, err := m.u.Write(m.buf)
	return err
}
