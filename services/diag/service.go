package diag

import (
	"context"
	"time"

	"keymatrix-go/bus"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
)

var topicConfigDiag = bus.T("config", "diag")

// Service prints the latest keyboard diagnostics on a fixed period and warns
// whenever the loss counters move.
type Service struct {
	last    types.Diagnostics
	printed types.Diagnostics
	seen    bool
	out     func(line ...any)
}

func New() *Service {
	return &Service{out: func(a ...any) { printLine(a...) }}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigDiag)
	diagSub := conn.Subscribe(kbd.TopicDiag)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(diagSub)

	tick := time.NewTicker(types.DefaultDiagInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[diag] stopping")
			return
		case <-tick.C:
			s.report()
		case msg := <-diagSub.Channel():
			if d, ok := msg.Payload.(types.Diagnostics); ok {
				s.last, s.seen = d, true
			}
		case msg := <-cfgSub.Channel():
			if c, ok := msg.Payload.(types.DiagConfig); ok && c.Interval > 0 {
				tick.Reset(c.Interval)
				println("[diag] interval set to", int(c.Interval/time.Millisecond), "ms")
			}
		}
	}
}

// report prints one line per period, plus a warning when keys were lost.
func (s *Service) report() {
	if !s.seen {
		return
	}
	d := s.last
	s.out("[diag] ticks", d.Ticks, "transitions", d.Transitions, "reports", d.Reports,
		"layers", d.ActiveLayers, "drops", d.QueueDropped, "scan_errs", d.ScanErrors,
		"rollovers", d.RolloverEvents, "report_drops", d.ReportsDropped)
	if d.QueueDropped > s.printed.QueueDropped {
		s.out("[diag] WARN queue overflow lost", d.QueueDropped-s.printed.QueueDropped, "transitions")
	}
	if d.RolloverEvents > s.printed.RolloverEvents {
		s.out("[diag] WARN rollover dropped", d.RolloverEvents-s.printed.RolloverEvents, "presses")
	}
	if d.ReportsDropped > s.printed.ReportsDropped {
		s.out("[diag] WARN transport lost", d.ReportsDropped-s.printed.ReportsDropped, "reports")
	}
	s.printed = d
}

// Start the diagnostics service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
