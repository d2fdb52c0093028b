// services/kbd/service.go
package kbd

import (
	"context"
	"time"

	"keymatrix-go/bus"
	"keymatrix-go/errcode"
	"keymatrix-go/keymap"
	"keymatrix-go/services/kbd/internal/platform"
	"keymatrix-go/types"
	"keymatrix-go/x/timex"
)

var (
	TopicConfig = bus.T("config", "kbd")
	TopicKeymap = bus.T("config", "keymap")

	TopicState  = bus.T("kbd", "state")
	TopicReport = bus.T("kbd", "report")
	TopicLayers = bus.T("kbd", "layers")
	TopicDiag   = bus.T("kbd", "diag")
)

// LinesOpener builds matrix lines for a matrix config.
type LinesOpener func(cfg types.MatrixConfig) (Lines, error)

// PlatformLines opens matrix lines on the board GPIO and I²C buses.
func PlatformLines() LinesOpener {
	pins, buses := platform.DefaultPinFactory(), platform.DefaultI2CFactory()
	return func(cfg types.MatrixConfig) (Lines, error) {
		return platform.Open(cfg, pins, buses)
	}
}

// Run starts the keyboard service and blocks until ctx is done. A nil
// opener uses PlatformLines.
func Run(ctx context.Context, conn *bus.Connection, open LinesOpener) {
	New(conn, open).Run(ctx)
}

type Service struct {
	conn *bus.Connection
	open LinesOpener

	cfg *types.KeyboardConfig
	km  *keymap.Keymap
	p   *Pipeline
	out *ReportQueue

	failing    bool
	lastErrLog time.Time
	scanState  chan error
}

func New(conn *bus.Connection, open LinesOpener) *Service {
	if open == nil {
		open = PlatformLines()
	}
	return &Service{conn: conn, open: open, scanState: make(chan error, 1)}
}

// WithOutput pushes every report snapshot onto q in addition to the
// retained kbd/report topic. The transport should read from q: a bus
// subscriber only sees the latest few snapshots.
func (s *Service) WithOutput(q *ReportQueue) *Service {
	s.out = q
	return s
}

func (s *Service) Run(ctx context.Context) {
	cfgSub := s.conn.Subscribe(TopicConfig)
	kmSub := s.conn.Subscribe(TopicKeymap)
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(kmSub)

	s.publishState("idle", "awaiting_config", nil)

	var (
		tickC    <-chan time.Time
		diagC    <-chan time.Time
		readable <-chan struct{}
		ticker   *time.Ticker
		diag     *time.Ticker
	)
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		if diag != nil {
			diag.Stop()
		}
	}()

	start := func() {
		if s.p != nil || s.cfg == nil || s.km == nil {
			return
		}
		if err := s.build(); err != nil {
			println("[kbd] start failed:", err.Error())
			s.publishState("error", string(errcode.Of(err)), err)
			return
		}
		cfg := s.p.Config()
		if cfg.Concurrent {
			readable = s.p.Readable()
			go s.scanLoop(ctx, cfg.Matrix.Interval)
		} else {
			ticker = time.NewTicker(cfg.Matrix.Interval)
			tickC = ticker.C
		}
		diag = time.NewTicker(cfg.DiagInterval)
		diagC = diag.C
		s.publishReport(s.p.Report())
		s.publishLayers()
		println("[kbd] ready:", cfg.Name, len(cfg.Matrix.Rows), "x", len(cfg.Matrix.Cols), "layers", s.km.Layers())
		s.publishState("ready", "scanning", nil)
	}

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			if s.cfg != nil {
				println("[kbd] config already applied; ignoring update")
				continue
			}
			cfg, ok := msg.Payload.(types.KeyboardConfig)
			if !ok {
				s.publishState("error", "config_wrong_type", nil)
				continue
			}
			s.cfg = &cfg
			start()

		case msg := <-kmSub.Channel():
			if s.km != nil {
				println("[kbd] keymap already applied; ignoring update")
				continue
			}
			km, ok := msg.Payload.(*keymap.Keymap)
			if !ok || km == nil {
				s.publishState("error", "keymap_wrong_type", nil)
				continue
			}
			s.km = km
			start()

		case now := <-tickC:
			changed, err := s.p.Tick(now, s.publishReport)
			if changed {
				s.publishLayers()
			}
			s.noteScan(now, err)

		case <-readable:
			if s.p.Process(s.publishReport) {
				s.publishLayers()
			}

		case err := <-s.scanState:
			s.noteScan(time.Now(), err)

		case <-diagC:
			s.conn.Publish(s.conn.NewMessage(TopicDiag, s.diagnostics(), false))
		}
	}
}

func (s *Service) build() error {
	cfg := Normalise(*s.cfg)
	if err := Validate(cfg, s.km); err != nil {
		return err
	}
	lines, err := s.open(cfg.Matrix)
	if err != nil {
		return err
	}
	p, err := NewPipeline(cfg, s.km, lines)
	if err != nil {
		return err
	}
	s.p = p
	return nil
}

// scanLoop is the producer in concurrent mode. Only the failing/healthy
// edge is forwarded to the service loop.
func (s *Service) scanLoop(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	failing := false
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			err := s.p.Scan(now)
			if (err != nil) == failing {
				continue
			}
			failing = err != nil
			select {
			case s.scanState <- err:
			case <-ctx.Done():
				return
			}
		}
	}
}

// noteScan tracks the degraded state and rate-limits scan error logs to one
// per diagnostics interval.
func (s *Service) noteScan(now time.Time, err error) {
	if err == nil {
		if s.failing {
			s.failing = false
			println("[kbd] scan recovered")
			s.publishState("ready", "scanning", nil)
		}
		return
	}
	if !s.failing {
		s.failing = true
		s.publishState("degraded", string(errcode.Of(err)), err)
	}
	if now.Sub(s.lastErrLog) >= s.p.Config().DiagInterval {
		s.lastErrLog = now
		println("[kbd] scan error:", err.Error())
	}
}

func (s *Service) diagnostics() types.Diagnostics {
	d := s.p.Diagnostics()
	if s.out != nil {
		d.ReportsDropped = s.out.Drops()
	}
	return d
}

func (s *Service) publishReport(r types.Report) {
	if s.out != nil {
		s.out.Push(r)
	}
	s.conn.Publish(s.conn.NewMessage(TopicReport, r, true))
}

func (s *Service) publishLayers() {
	pl := types.LayerState{Layers: s.p.Layers(), TS: timex.NowMs()}
	s.conn.Publish(s.conn.NewMessage(TopicLayers, pl, true))
}

func (s *Service) publishState(level, status string, err error) {
	pl := types.KbdState{Level: level, Status: status, TS: timex.NowMs()}
	if err != nil {
		pl.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(TopicState, pl, true))
}
