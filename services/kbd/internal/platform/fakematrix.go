// services/kbd/internal/platform/fakematrix.go
package platform

import (
	"errors"
	"sync"

	"keymatrix-go/errcode"
	"keymatrix-go/types"
)

var errFakeRead = errors.New("injected read failure")

// FakeMatrix is a simulated switch matrix implementing matrix.Lines. Tests
// and the replay tool close and open switches by position; sense lines can
// be made to fail.
type FakeMatrix struct {
	mu        sync.Mutex
	rows      int
	cols      int
	rowStrobe bool
	closed    []bool
	failing   map[int]bool
	strobed   int
}

func NewFakeMatrix(rows, cols int, orient types.DiodeOrientation) *FakeMatrix {
	return &FakeMatrix{
		rows:      rows,
		cols:      cols,
		rowStrobe: orient != types.Row2Col,
		closed:    make([]bool, rows*cols),
		failing:   make(map[int]bool),
		strobed:   -1,
	}
}

func (m *FakeMatrix) Rows() int { return m.rows }
func (m *FakeMatrix) Cols() int { return m.cols }

// Press closes the switch at p. Out-of-range positions are ignored.
func (m *FakeMatrix) Press(p types.Position) { m.set(p, true) }

// Release opens the switch at p.
func (m *FakeMatrix) Release(p types.Position) { m.set(p, false) }

func (m *FakeMatrix) set(p types.Position, v bool) {
	if int(p.Row) >= m.rows || int(p.Col) >= m.cols {
		return
	}
	m.mu.Lock()
	m.closed[p.Index(m.cols)] = v
	m.mu.Unlock()
}

// FailRead makes every read of the given sense line fail until Heal.
func (m *FakeMatrix) FailRead(sense int) {
	m.mu.Lock()
	m.failing[sense] = true
	m.mu.Unlock()
}

func (m *FakeMatrix) Heal(sense int) {
	m.mu.Lock()
	delete(m.failing, sense)
	m.mu.Unlock()
}

func (m *FakeMatrix) Strobe(line int, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if line < 0 || line >= m.strobeLines() {
		return errcode.InvalidParams
	}
	if active {
		m.strobed = line
	} else if m.strobed == line {
		m.strobed = -1
	}
	return nil
}

func (m *FakeMatrix) Read(line int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing[line] {
		return false, errFakeRead
	}
	if m.strobed < 0 {
		return false, nil
	}
	r, c := m.strobed, line
	if !m.rowStrobe {
		r, c = line, m.strobed
	}
	if r >= m.rows || c >= m.cols {
		return false, errcode.InvalidParams
	}
	return m.closed[r*m.cols+c], nil
}

func (m *FakeMatrix) strobeLines() int {
	if m.rowStrobe {
		return m.rows
	}
	return m.cols
}
