// Package layout turns a validated diagram into routed connection
// geometry: it refines the logical grid into a lattice of routing
// nodes, finds an orthogonal route for every connection, and assigns
// overlapping parallel segments to distinct offset slots.
package layout

import (
	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
)

// DefaultRefinement is the default number of tracks per logical row and
// column: one interior track with a channel track on each side.
const DefaultRefinement = 3

// Grid is the refinement grid: every logical row and column of the
// diagram is split into K tracks, giving a lattice of routing nodes.
// Node positions are geometry.IntPoint values in refinement
// coordinates; node (i, j) belongs to logical cell (i/K, j/K).
type Grid struct {
	K int

	// LogicalRows and LogicalCols are the dimensions of the diagram
	// grid; NodeRows and NodeCols are the refinement lattice dimensions.
	LogicalRows int
	LogicalCols int
	NodeRows    int
	NodeCols    int

	diagram *define.Diagram
	areas   []blockArea
}

// blockArea holds a block's footprint in refinement coordinates. The
// interior rectangle spans the interior tracks of the cover; the ring
// is the border rectangle one node outside it.
type blockArea struct {
	interior geometry.IntBounds
	ring     geometry.IntBounds
}

// NewGrid builds the refinement grid for a diagram. The refinement
// factor k must be at least 3 so that every logical row and column has
// an interior track with at least one channel track on each side.
func NewGrid(d *define.Diagram, k int) (*Grid, error) {
	if k < 3 {
		return nil, errors.New(errors.ErrCodeLayout,
			"refinement factor %d is too small, need at least 3", k)
	}
	g := &Grid{
		K:           k,
		LogicalRows: d.Grid.Rows,
		LogicalCols: d.Grid.Cols,
		NodeRows:    d.Grid.Rows * k,
		NodeCols:    d.Grid.Cols * k,
		diagram:     d,
		areas:       make([]blockArea, len(d.Blocks)),
	}
	h := g.interiorSub()
	for _, b := range d.Blocks {
		interior := geometry.IntBounds{
			MinRow: b.Cover.MinRow*k + h,
			MinCol: b.Cover.MinCol*k + h,
			MaxRow: b.Cover.MaxRow*k + h,
			MaxCol: b.Cover.MaxCol*k + h,
		}
		ring := geometry.IntBounds{
			MinRow: interior.MinRow - 1,
			MinCol: interior.MinCol - 1,
			MaxRow: interior.MaxRow + 1,
			MaxCol: interior.MaxCol + 1,
		}
		g.areas[b.Index] = blockArea{interior: interior, ring: ring}
	}
	return g, nil
}

// interiorSub is the sub-index of the interior track within a logical
// row or column.
func (g *Grid) interiorSub() int {
	return g.K / 2
}

// Contains reports whether the node lies on the lattice.
func (g *Grid) Contains(p geometry.IntPoint) bool {
	return p.I >= 0 && p.I < g.NodeRows && p.J >= 0 && p.J < g.NodeCols
}

// LineSub splits a refinement line index into its logical index and
// track sub-index.
func (g *Grid) LineSub(line int) (logical, sub int) {
	return line / g.K, line % g.K
}

// Traversable reports whether a connection may pass through the node.
// Nodes inside a block are off limits unless the block is pass-through
// or an endpoint of the connection; border and free nodes are open to
// everyone.
func (g *Grid) Traversable(p geometry.IntPoint, conn *define.Connection) bool {
	for _, b := range g.diagram.Blocks {
		if !g.areas[b.Index].interior.Contains(p.I, p.J) {
			continue
		}
		if b.Attrs.PassThrough {
			continue
		}
		if b.Index == conn.Start.Index || b.Index == conn.End.Index {
			continue
		}
		return false
	}
	return true
}

// SideNodes returns the border nodes of a block on the given side, in
// ascending coordinate order, corners excluded. When cellTag is not
// empty only nodes in front of cells carrying that tag are returned.
func (g *Grid) SideNodes(b *define.Block, side geometry.Side, cellTag string) []geometry.IntPoint {
	ring := g.areas[b.Index].ring
	var out []geometry.IntPoint
	switch side {
	case geometry.Top, geometry.Bottom:
		row := ring.MinRow
		cellRow := b.Cover.MinRow
		if side == geometry.Bottom {
			row = ring.MaxRow
			cellRow = b.Cover.MaxRow
		}
		for j := ring.MinCol + 1; j <= ring.MaxCol-1; j++ {
			if cellTag != "" && g.diagram.Grid.Tag(cellRow, j/g.K) != cellTag {
				continue
			}
			out = append(out, geometry.IntPoint{I: row, J: j})
		}
	case geometry.Left, geometry.Right:
		col := ring.MinCol
		cellCol := b.Cover.MinCol
		if side == geometry.Right {
			col = ring.MaxCol
			cellCol = b.Cover.MaxCol
		}
		for i := ring.MinRow + 1; i <= ring.MaxRow-1; i++ {
			if cellTag != "" && g.diagram.Grid.Tag(i/g.K, cellCol) != cellTag {
				continue
			}
			out = append(out, geometry.IntPoint{I: i, J: col})
		}
	}
	return out
}
