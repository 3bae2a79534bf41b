// Package geometry provides the small shared vocabulary of the layout
// engine: axes, sides, directions, and integer/float points.
//
// Integer points address nodes of the refinement grid as (row, column)
// pairs; float points are absolute drawing coordinates.
package geometry

import "fmt"

// Axis is one of the two orthogonal directions of the grid.
type Axis int

const (
	// Horizontal runs along a row (coordinates vary in X).
	Horizontal Axis = iota
	// Vertical runs along a column (coordinates vary in Y).
	Vertical
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Side is one of the four sides of a block.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

// AllSides lists the sides in their canonical order.
var AllSides = []Side{Top, Bottom, Left, Right}

// ParseSide converts a lower-case side name to a Side.
func ParseSide(s string) (Side, bool) {
	switch s {
	case "top":
		return Top, true
	case "bottom":
		return Bottom, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// Axis returns the axis of a segment passing through this side: a segment
// entering through the top or bottom runs vertically, one entering through
// the left or right runs horizontally.
func (s Side) Axis() Axis {
	if s == Left || s == Right {
		return Horizontal
	}
	return Vertical
}

// Outward returns the direction leaving a block through this side.
func (s Side) Outward() Direction {
	switch s {
	case Top:
		return Up
	case Bottom:
		return Down
	case Left:
		return LeftWard
	default:
		return RightWard
	}
}

// Inward returns the direction entering a block through this side.
func (s Side) Inward() Direction {
	switch s {
	case Top:
		return Down
	case Bottom:
		return Up
	case Left:
		return RightWard
	default:
		return LeftWard
	}
}

// Direction is a unit step on the refinement grid.
type Direction int

const (
	Up Direction = iota
	Down
	LeftWard
	RightWard
)

// Axis returns the axis the direction moves along.
func (d Direction) Axis() Axis {
	if d == LeftWard || d == RightWard {
		return Horizontal
	}
	return Vertical
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case LeftWard:
		return "left"
	case RightWard:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// IntPoint is a node position on the refinement grid, row first.
type IntPoint struct {
	I int // row
	J int // column
}

// Step returns the neighbouring point one unit away in the given direction.
func (p IntPoint) Step(d Direction) IntPoint {
	switch d {
	case Up:
		return IntPoint{I: p.I - 1, J: p.J}
	case Down:
		return IntPoint{I: p.I + 1, J: p.J}
	case LeftWard:
		return IntPoint{I: p.I, J: p.J - 1}
	default:
		return IntPoint{I: p.I, J: p.J + 1}
	}
}

// DirectionTo returns the direction from p to an orthogonal neighbour q.
// The second result is false if q is not an orthogonal neighbour.
func (p IntPoint) DirectionTo(q IntPoint) (Direction, bool) {
	switch {
	case q.I == p.I-1 && q.J == p.J:
		return Up, true
	case q.I == p.I+1 && q.J == p.J:
		return Down, true
	case q.I == p.I && q.J == p.J-1:
		return LeftWard, true
	case q.I == p.I && q.J == p.J+1:
		return RightWard, true
	}
	return 0, false
}

// Less orders points lexicographically, rows first. Used for deterministic
// tie-breaking.
func (p IntPoint) Less(q IntPoint) bool {
	if p.I != q.I {
		return p.I < q.I
	}
	return p.J < q.J
}

func (p IntPoint) String() string {
	return fmt.Sprintf("(%d,%d)", p.I, p.J)
}

// Point is an absolute drawing coordinate.
type Point struct {
	X float64
	Y float64
}

// IntBounds is an inclusive rectangle of grid positions.
type IntBounds struct {
	MinRow int
	MinCol int
	MaxRow int
	MaxCol int
}

// Contains reports whether the cell (row, col) lies within the bounds.
func (b IntBounds) Contains(row, col int) bool {
	return row >= b.MinRow && row <= b.MaxRow && col >= b.MinCol && col <= b.MaxCol
}

// Expand grows the bounds to include the cell (row, col).
func (b IntBounds) Expand(row, col int) IntBounds {
	if row < b.MinRow {
		b.MinRow = row
	}
	if row > b.MaxRow {
		b.MaxRow = row
	}
	if col < b.MinCol {
		b.MinCol = col
	}
	if col > b.MaxCol {
		b.MaxCol = col
	}
	return b
}

// Rows returns the number of rows covered.
func (b IntBounds) Rows() int {
	return b.MaxRow - b.MinRow + 1
}

// Cols returns the number of columns covered.
func (b IntBounds) Cols() int {
	return b.MaxCol - b.MinCol + 1
}

// Cells returns the number of cells covered.
func (b IntBounds) Cells() int {
	return b.Rows() * b.Cols()
}

// Overlaps reports whether two bounds share at least one cell.
func (b IntBounds) Overlaps(o IntBounds) bool {
	return b.MinRow <= o.MaxRow && o.MinRow <= b.MaxRow &&
		b.MinCol <= o.MaxCol && o.MinCol <= b.MaxCol
}
