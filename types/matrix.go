package types

import "time"

// Position identifies one physical switch by its matrix intersection.
type Position struct {
	Row uint8 `yaml:"row"`
	Col uint8 `yaml:"col"`
}

// Pos is shorthand for Position{Row: r, Col: c}.
func Pos(r, c int) Position { return Position{Row: uint8(r), Col: uint8(c)} }

// Index returns the row-major offset of p in a matrix with cols columns.
func (p Position) Index(cols int) int { return int(p.Row)*cols + int(p.Col) }

// Direction of a confirmed switch transition.
type Direction uint8

const (
	Released Direction = iota
	Pressed
)

func (d Direction) String() string {
	if d == Pressed {
		return "pressed"
	}
	return "released"
}

// Transition is a debounced key change. Immutable once emitted.
type Transition struct {
	Pos Position
	Dir Direction
	TS  time.Time
	// Seq increases by one per transition emitted by a scanner.
	Seq uint32
}

// DiodeOrientation selects which matrix lines are strobed.
type DiodeOrientation string

const (
	// Col2Row strobes rows and reads columns.
	Col2Row DiodeOrientation = "col2row"
	// Row2Col strobes columns and reads rows.
	Row2Col DiodeOrientation = "row2col"
)
