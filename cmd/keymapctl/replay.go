package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/shlex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"keymatrix-go/errcode"
	"keymatrix-go/keymapfile"
	"keymatrix-go/promdiag"
	"keymatrix-go/services/kbd"
	"keymatrix-go/types"
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Drive the scan pipeline from a key script",
	Long: `Runs the pipeline against a simulated matrix. Script steps, one per line:

  down ROW COL    close the switch at ROW,COL
  up ROW COL      open it again
  tick [N]        advance N scan intervals (default 1)
  fail SENSE      make reads of a sense line fail
  heal SENSE      clear a read failure

Lines starting with # are ignored. Every emitted report is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scriptPath, _ := cmd.Flags().GetString("script")
		addr, _ := cmd.Flags().GetString("metrics-addr")

		f, err := keymapfile.Load(args[0])
		if err != nil {
			return err
		}
		script, err := os.Open(scriptPath)
		if err != nil {
			return err
		}
		defer script.Close()

		r, err := newReplayer(f, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := r.run(script); err != nil {
			return err
		}
		if addr == "" {
			return nil
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return serveMetrics(ctx, addr, r.diagnostics)
	},
}

func init() {
	replayCmd.Flags().String("script", "", "Key script to replay")
	replayCmd.Flags().String("metrics-addr", "", "Serve /metrics on this address after the replay")
	_ = replayCmd.MarkFlagRequired("script")
	rootCmd.AddCommand(replayCmd)
}

type replayer struct {
	p   *kbd.Pipeline
	m   *kbd.FakeMatrix
	out io.Writer
	now time.Time

	mu   sync.Mutex
	diag types.Diagnostics
}

func newReplayer(f *keymapfile.File, out io.Writer) (*replayer, error) {
	cfg := f.Config
	m := kbd.NewFakeMatrix(len(cfg.Matrix.Rows), len(cfg.Matrix.Cols), cfg.Matrix.Orientation)
	p, err := kbd.NewPipeline(cfg, f.Keymap, m)
	if err != nil {
		return nil, err
	}
	return &replayer{p: p, m: m, out: out, now: time.Unix(0, 0)}, nil
}

func (r *replayer) run(script io.Reader) error {
	sc := bufio.NewScanner(script)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shlex.Split(line)
		if err != nil {
			return errcode.Wrap(errcode.InvalidParams, "replay", "line "+strconv.Itoa(n), err)
		}
		if err := r.step(args); err != nil {
			return errcode.Wrap(errcode.Of(err), "replay", "line "+strconv.Itoa(n), err)
		}
	}
	return sc.Err()
}

func (r *replayer) step(args []string) error {
	slog.Debug("step", "args", args)
	switch args[0] {
	case "down", "up":
		pos, err := position(args[1:], r.m.Rows(), r.m.Cols())
		if err != nil {
			return err
		}
		if args[0] == "down" {
			r.m.Press(pos)
		} else {
			r.m.Release(pos)
		}
	case "tick":
		n := 1
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil || v < 1 {
				return errcode.Wrap(errcode.InvalidParams, "tick", strconv.Quote(args[1]), nil)
			}
			n = v
		}
		for i := 0; i < n; i++ {
			r.tick()
		}
	case "fail", "heal":
		if len(args) != 2 {
			return errcode.Wrap(errcode.InvalidParams, args[0], "want SENSE", nil)
		}
		line, err := strconv.Atoi(args[1])
		if err != nil || line < 0 {
			return errcode.Wrap(errcode.InvalidParams, args[0], strconv.Quote(args[1]), nil)
		}
		if args[0] == "fail" {
			r.m.FailRead(line)
		} else {
			r.m.Heal(line)
		}
	default:
		return errcode.Wrap(errcode.InvalidParams, "replay", "unknown step "+strconv.Quote(args[0]), nil)
	}
	return nil
}

func (r *replayer) tick() {
	r.now = r.now.Add(r.p.Config().Matrix.Interval)
	changed, err := r.p.Tick(r.now, func(rep types.Report) {
		fmt.Fprintln(r.out, formatReport(rep))
	})
	if err != nil {
		slog.Warn("scan failed", "error", err)
	}
	if changed {
		fmt.Fprintf(r.out, "layers %v\n", r.p.Layers())
	}
	r.mu.Lock()
	r.diag = r.p.Diagnostics()
	r.mu.Unlock()
}

func (r *replayer) diagnostics() types.Diagnostics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.diag
}

func position(args []string, rows, cols int) (types.Position, error) {
	if len(args) != 2 {
		return types.Position{}, errcode.Wrap(errcode.InvalidParams, "position", "want ROW COL", nil)
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return types.Position{}, errcode.Wrap(errcode.InvalidParams, "position", strings.Join(args, " "), nil)
	}
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return types.Position{}, errcode.Wrap(errcode.PositionOutOfRange, "position", fmt.Sprintf("(%d,%d)", row, col), nil)
	}
	return types.Pos(row, col), nil
}

func formatReport(rep types.Report) string {
	names := make([]string, len(rep.Keys))
	for i, k := range rep.Keys {
		names[i] = k.String()
	}
	s := fmt.Sprintf("report %d mods=%02x keys=[%s]", rep.Seq, rep.Modifiers, strings.Join(names, " "))
	if rep.Rollover {
		s += " rollover"
	}
	return s
}

func serveMetrics(ctx context.Context, addr string, source func() types.Diagnostics) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(promdiag.NewCollector(source))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
