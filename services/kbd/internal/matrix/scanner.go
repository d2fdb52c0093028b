// services/kbd/internal/matrix/scanner.go
package matrix

import (
	"strconv"
	"time"

	"keymatrix-go/errcode"
	"keymatrix-go/services/kbd/internal/debounce"
	"keymatrix-go/types"
)

// Lines is the electrical interface the scanner drives. Strobe lines are the
// driven side of the matrix, sense lines are read back; which physical side
// is which depends on diode orientation. Read reports a closed switch on the
// currently strobed line as true. Both calls are bounded-latency.
type Lines interface {
	Strobe(line int, active bool) error
	Read(line int) (bool, error)
}

// Scanner strobes the matrix, feeds every cell through the debounce Sampler
// and returns confirmed transitions in row-major ascending order.
type Scanner struct {
	lines   Lines
	sampler *debounce.Sampler

	rows, cols int
	rowStrobe  bool // strobe rows, sense cols

	frame []bool // last read level per cell
	valid []bool // cell read successfully this tick
	errs  uint32
}

// New builds a Scanner for a rows x cols matrix.
func New(lines Lines, rows, cols int, orient types.DiodeOrientation, s *debounce.Sampler) *Scanner {
	return &Scanner{
		lines:     lines,
		sampler:   s,
		rows:      rows,
		cols:      cols,
		rowStrobe: orient != types.Row2Col,
		frame:     make([]bool, rows*cols),
		valid:     make([]bool, rows*cols),
	}
}

func (s *Scanner) Rows() int { return s.rows }
func (s *Scanner) Cols() int { return s.cols }

// ScanTick performs one full matrix pass and appends confirmed transitions
// to dst. A strobe or read failure leaves the affected cells at their last
// confirmed state for this tick; the remaining cells are still scanned and
// the first failure is returned as a transient scan_failed error.
func (s *Scanner) ScanTick(now time.Time, dst []types.Transition) ([]types.Transition, error) {
	var firstErr error
	failed := 0

	nStrobe, nSense := s.rows, s.cols
	if !s.rowStrobe {
		nStrobe, nSense = s.cols, s.rows
	}

	for i := range s.valid {
		s.valid[i] = false
	}

	for st := 0; st < nStrobe; st++ {
		if err := s.lines.Strobe(st, true); err != nil {
			failed += nSense
			if firstErr == nil {
				firstErr = errcode.Wrap(errcode.ScanFailed, "scan", "strobe "+strconv.Itoa(st), err)
			}
			_ = s.lines.Strobe(st, false)
			continue
		}
		for se := 0; se < nSense; se++ {
			closed, err := s.lines.Read(se)
			if err != nil {
				failed++
				if firstErr == nil {
					firstErr = errcode.Wrap(errcode.ScanFailed, "scan", "sense "+strconv.Itoa(se), err)
				}
				continue
			}
			i := s.cell(st, se)
			s.frame[i] = closed
			s.valid[i] = true
		}
		if err := s.lines.Strobe(st, false); err != nil {
			failed++
			if firstErr == nil {
				firstErr = errcode.Wrap(errcode.ScanFailed, "scan", "release "+strconv.Itoa(st), err)
			}
		}
	}

	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			i := r*s.cols + c
			if !s.valid[i] {
				continue
			}
			if tr, ok := s.sampler.Sample(types.Pos(r, c), s.frame[i], now); ok {
				dst = append(dst, tr)
			}
		}
	}

	if failed > 0 {
		s.errs++
	}
	return dst, firstErr
}

// Errors returns the number of ticks that saw at least one line failure.
func (s *Scanner) Errors() uint32 { return s.errs }

// cell maps (strobe, sense) line indices to a row-major cell offset.
func (s *Scanner) cell(strobe, sense int) int {
	if s.rowStrobe {
		return strobe*s.cols + sense
	}
	return sense*s.cols + strobe
}
