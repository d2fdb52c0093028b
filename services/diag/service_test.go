package diag

import (
	"context"
	"testing"
	"time"

	"keymatrix-go/bus"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
)

func capture(s *Service) *[][]any {
	var lines [][]any
	s.out = func(a ...any) { lines = append(lines, a) }
	return &lines
}

func TestReportWarnsOnNewLosses(t *testing.T) {
	s := New()
	lines := capture(s)

	s.report()
	if len(*lines) != 0 {
		t.Fatal("printed before any diagnostics arrived")
	}

	s.last, s.seen = types.Diagnostics{Ticks: 10, QueueDropped: 2}, true
	s.report()
	if len(*lines) != 2 {
		t.Fatalf("lines = %d, want summary + drop warning", len(*lines))
	}

	s.report()
	if len(*lines) != 3 {
		t.Fatalf("lines = %d, unchanged counters should print only the summary", len(*lines))
	}

	s.last.RolloverEvents = 1
	s.report()
	if len(*lines) != 5 {
		t.Fatalf("lines = %d, want summary + rollover warning", len(*lines))
	}

	s.last.ReportsDropped = 3
	s.report()
	if len(*lines) != 7 {
		t.Fatalf("lines = %d, want summary + transport warning", len(*lines))
	}
	if got := (*lines)[6][1]; got != uint32(3) {
		t.Fatalf("transport warning count = %v, want 3", got)
	}
}

func TestServiceTracksLatestDiagnostics(t *testing.T) {
	b := bus.NewBus(8)
	conn := b.NewConnection("test")
	s := New()
	done := make(chan struct{})
	s.out = func(a ...any) {
		select {
		case done <- struct{}{}:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn.Publish(conn.NewMessage(topicConfigDiag, types.DiagConfig{Interval: 20 * time.Millisecond}, true))
	_ = s.Start(ctx, b.NewConnection("diag"))

	// kbd/diag is not retained; keep publishing until the service has
	// subscribed and printed.
	deadline := time.After(2 * time.Second)
	for {
		conn.Publish(conn.NewMessage(kbd.TopicDiag, types.Diagnostics{Ticks: 42}, false))
		select {
		case <-done:
			return
		case <-deadline:
			t.Fatal("no diagnostics line printed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
