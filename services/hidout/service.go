// services/hidout/service.go
package hidout

import (
	"context"
	"sync/atomic"

	"keymatrix-go/bus"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
)

// Service forwards report snapshots to a Sink in order. It reads either a
// kbd.ReportQueue (every snapshot) or the retained kbd/report topic (latest
// snapshots only, for observers).
type Service struct {
	conn *bus.Connection
	q    *kbd.ReportQueue
	sink Sink

	sent     atomic.Uint64
	failures atomic.Uint32
}

func New(conn *bus.Connection, sink Sink) *Service {
	return &Service{conn: conn, sink: sink}
}

// NewQueued reads snapshots from q, the queue the keyboard service was
// given with WithOutput.
func NewQueued(q *kbd.ReportQueue, sink Sink) *Service {
	return &Service{q: q, sink: sink}
}

// Run blocks until ctx is done.
func Run(ctx context.Context, conn *bus.Connection, sink Sink) {
	New(conn, sink).Run(ctx)
}

// RunQueued blocks until ctx is done.
func RunQueued(ctx context.Context, q *kbd.ReportQueue, sink Sink) {
	NewQueued(q, sink).Run(ctx)
}

func (s *Service) Run(ctx context.Context) {
	if s.q != nil {
		s.drainLoop(ctx)
		return
	}
	sub := s.conn.Subscribe(kbd.TopicReport)
	defer s.conn.Unsubscribe(sub)

	var (
		last    types.Report
		started bool
	)
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			r, ok := msg.Payload.(types.Report)
			if !ok {
				continue
			}
			// A resubscribe replays the retained snapshot; don't send it twice.
			if started && r.Seq == last.Seq && r.Equal(last) {
				continue
			}
			started, last = true, r
			s.send(r)
		}
	}
}

func (s *Service) drainLoop(ctx context.Context) {
	var batch []types.Report
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.q.Readable():
			batch = s.q.Drain(batch[:0])
			for _, r := range batch {
				s.send(r)
			}
		}
	}
}

func (s *Service) send(r types.Report) {
	if err := s.sink.Send(r); err != nil {
		if n := s.failures.Add(1); n == 1 || n%100 == 0 {
			println("[hidout] send failed:", err.Error(), "count", n)
		}
		return
	}
	s.sent.Add(1)
}

// Sent counts reports the sink accepted.
func (s *Service) Sent() uint64 { return s.sent.Load() }

// Failures counts sink errors.
func (s *Service) Failures() uint32 { return s.failures.Load() }
