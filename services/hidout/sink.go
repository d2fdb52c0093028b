// services/hidout/sink.go
package hidout

import (
	"io"

	"keymatrix-go/types"
)

// Sink hands one report snapshot to the host.
type Sink interface {
	Send(r types.Report) error
}

// WriterSink writes every report as a raw 8-byte boot report.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Send(r types.Report) error {
	b := Encode(r)
	_, err := s.W.Write(b[:])
	return err
}

// Fanout sends to every sink in order and returns the first error.
type Fanout []Sink

func (f Fanout) Send(r types.Report) error {
	var first error
	for _, s := range f {
		if err := s.Send(r); err != nil && first == nil {
			first = err
		}
	}
	return first
}
