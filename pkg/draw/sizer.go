package draw

import (
	"fmt"
	"sort"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/layout"
	"github.com/yorgath/orthogram/pkg/solver"
)

// frame holds the coordinate variables of one axis of the diagram. The
// rows frame produces Y coordinates for row lines, the columns frame X
// coordinates for column lines. Every logical index contributes four
// boundary variables; refinement lines that carry wires or terminal
// stubs get their own variables between them.
type frame struct {
	lineAxis geometry.Axis
	k, h     int
	count    int

	outer      []*solver.Variable
	innerBegin []*solver.Variable
	innerEnd   []*solver.Variable

	// slots maps a refinement line to the variables of its offset
	// slots; base holds the stub attachment variable of lines that
	// terminal stubs run along.
	slots map[int]map[int]*solver.Variable
	base  map[int]*solver.Variable

	// lastBefore and firstAfter are the wire variables nearest to the
	// inner boundaries of each logical index, used to anchor block
	// margins. Nil when the region carries no wires.
	lastBefore []*solver.Variable
	firstAfter []*solver.Variable
}

// wireInfo aggregates the drawing footprint of all segments sharing
// one offset slot: the widest stroke and buffer, plus the clearance
// claimed by labels beside those segments.
type wireInfo struct {
	stroke    float64
	buffer    float64
	clearance float64
}

// sizer assembles and solves the linear constraint system that turns
// the routed layout into absolute coordinates.
type sizer struct {
	l *layout.Layout
	s *solver.Solver

	rows *frame
	cols *frame

	wires       map[layout.LineKey]map[int]wireInfo
	baseNeeded  map[layout.LineKey]bool
	blockLabels []textBlock
	relax       bool

	vars []*solver.Variable
}

// coordinates is the solved geometry: frames with final variable
// values, the drawing size, and the offset centering the content.
type coordinates struct {
	rows, cols *frame

	Width  float64
	Height float64
	dx     float64
	dy     float64
}

func newSizer(l *layout.Layout, routeLabels map[int][]placedLabel, blockLabels []textBlock, relax bool) *sizer {
	z := &sizer{
		l:           l,
		s:           solver.New(),
		wires:       make(map[layout.LineKey]map[int]wireInfo),
		baseNeeded:  make(map[layout.LineKey]bool),
		blockLabels: blockLabels,
		relax:       relax,
	}
	z.collectWires(routeLabels)
	z.collectStubs()
	return z
}

// run builds the constraint system and solves it.
func (z *sizer) run() (*coordinates, error) {
	z.rows = z.buildFrame(geometry.Horizontal, z.l.Grid.LogicalRows, "row")
	z.cols = z.buildFrame(geometry.Vertical, z.l.Grid.LogicalCols, "col")
	if err := z.blockConstraints(); err != nil {
		return nil, err
	}
	for _, v := range z.vars {
		if err := z.s.Suggest(v, 0, solver.Weak); err != nil {
			return nil, err
		}
	}
	z.s.Solve()

	attrs := &z.l.Diagram.Attrs
	contentW := z.cols.outer[z.cols.count].Value()
	contentH := z.rows.outer[z.rows.count].Value()
	width := contentW
	if attrs.MinWidth > width {
		width = attrs.MinWidth
	}
	height := contentH
	if attrs.MinHeight > height {
		height = attrs.MinHeight
	}
	return &coordinates{
		rows:   z.rows,
		cols:   z.cols,
		Width:  width,
		Height: height,
		dx:     (width - contentW) / 2,
		dy:     (height - contentH) / 2,
	}, nil
}

// collectWires aggregates stroke, buffer and label clearance per
// refinement line and slot.
func (z *sizer) collectWires(routeLabels map[int][]placedLabel) {
	clearance := make(map[*layout.Segment]float64)
	for _, labels := range routeLabels {
		for i := range labels {
			p := &labels[i]
			if c := p.clearance(); c > clearance[p.Segment] {
				clearance[p.Segment] = c
			}
		}
	}
	for key, segments := range z.l.Lines {
		info := make(map[int]wireInfo)
		for _, s := range segments {
			w := info[s.Slot]
			a := &s.Conn.Attrs
			if a.StrokeWidth > w.stroke {
				w.stroke = a.StrokeWidth
			}
			if a.BufferWidth > w.buffer {
				w.buffer = a.BufferWidth
			}
			if c := clearance[s]; c > w.clearance {
				w.clearance = c
			}
			info[s.Slot] = w
		}
		z.wires[key] = info
	}
}

// collectStubs records the lines that terminal stubs run along: when a
// route's terminal segment runs parallel to the block side it attaches
// to, a short perpendicular stub connects the block edge to it.
func (z *sizer) collectStubs() {
	note := func(side geometry.Side, seg *layout.Segment, node geometry.IntPoint) {
		if seg.Axis == side.Axis() {
			return
		}
		if side.Axis() == geometry.Vertical {
			// Stub through a top or bottom edge runs along a column.
			z.baseNeeded[layout.LineKey{Axis: geometry.Vertical, Line: node.J}] = true
		} else {
			z.baseNeeded[layout.LineKey{Axis: geometry.Horizontal, Line: node.I}] = true
		}
	}
	for _, r := range z.l.Routes {
		note(r.ExitSide, r.Segments[0], r.Nodes[0])
		note(r.EntranceSide, r.Segments[len(r.Segments)-1], r.Nodes[len(r.Nodes)-1])
	}
}

func (z *sizer) variable(name string) *solver.Variable {
	v := solver.NewVariable(name)
	z.vars = append(z.vars, v)
	return v
}

func (z *sizer) require(c *solver.Constraint) {
	// The system is a chain of lower bounds, so required constraints
	// added here cannot conflict; a failure is a programming error.
	if err := z.s.AddConstraint(c); err != nil {
		panic(fmt.Sprintf("sizer: %v: %v", err, c))
	}
}

// gap adds the required constraint to - from >= min.
func (z *sizer) gap(from, to *solver.Variable, min float64) {
	z.require(solver.NewConstraint(
		solver.Expr(-min, solver.T(to, 1), solver.T(from, -1)), solver.GE, solver.Required))
}

// buildFrame creates the variables and ordering constraints of one
// axis.
func (z *sizer) buildFrame(lineAxis geometry.Axis, count int, prefix string) *frame {
	f := &frame{
		lineAxis:   lineAxis,
		k:          z.l.Grid.K,
		h:          z.l.Grid.K / 2,
		count:      count,
		outer:      make([]*solver.Variable, count+1),
		innerBegin: make([]*solver.Variable, count),
		innerEnd:   make([]*solver.Variable, count),
		slots:      make(map[int]map[int]*solver.Variable),
		base:       make(map[int]*solver.Variable),
		lastBefore: make([]*solver.Variable, count),
		firstAfter: make([]*solver.Variable, count),
	}
	for i := 0; i <= count; i++ {
		f.outer[i] = z.variable(fmt.Sprintf("%s%d.outer", prefix, i))
	}
	z.require(solver.NewConstraint(
		solver.Expr(0, solver.T(f.outer[0], 1)), solver.EQ, solver.Required))

	cd := z.l.Diagram.Attrs.ConnectionDistance
	for i := 0; i < count; i++ {
		f.innerBegin[i] = z.variable(fmt.Sprintf("%s%d.innerBegin", prefix, i))
		f.innerEnd[i] = z.variable(fmt.Sprintf("%s%d.innerEnd", prefix, i))

		before, interior, after := z.regionLines(lineAxis, i, f.k, f.h)
		_, f.lastBefore[i] = z.chainRegion(f, prefix, f.outer[i], f.innerBegin[i], before, cd)
		z.chainRegion(f, prefix, f.innerBegin[i], f.innerEnd[i], interior, cd)
		f.firstAfter[i], _ = z.chainRegion(f, prefix, f.innerEnd[i], f.outer[i+1], after, cd)
	}
	return f
}

// regionLines splits the refinement lines of one logical index into
// the before-interior, interior and after-interior regions, keeping
// only lines that carry wires or stubs.
func (z *sizer) regionLines(lineAxis geometry.Axis, logical, k, h int) (before, interior, after []int) {
	used := make(map[int]bool)
	for key := range z.wires {
		if key.Axis == lineAxis && key.Line/k == logical {
			used[key.Line] = true
		}
	}
	for key := range z.baseNeeded {
		if key.Axis == lineAxis && key.Line/k == logical {
			used[key.Line] = true
		}
	}
	lines := make([]int, 0, len(used))
	for line := range used {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	for _, line := range lines {
		switch sub := line % k; {
		case sub < h:
			before = append(before, line)
		case sub == h:
			interior = append(interior, line)
		default:
			after = append(after, line)
		}
	}
	return before, interior, after
}

// chainRegion orders the wire variables of one region between its two
// boundary variables, spacing adjacent wires by the connection
// distance plus their strokes, buffers and label clearances. It
// returns the first and last wire variable of the region, nil when the
// region carries none.
func (z *sizer) chainRegion(f *frame, prefix string, from, to *solver.Variable, lines []int, cd float64) (first, last *solver.Variable) {
	prev := from
	prevInfo := wireInfo{}
	boundary := true
	for _, line := range lines {
		key := layout.LineKey{Axis: f.lineAxis, Line: line}
		count := z.l.SlotCount[key]
		if count > 0 {
			slotVars := make(map[int]*solver.Variable, count)
			for slot := 0; slot < count; slot++ {
				v := z.variable(fmt.Sprintf("%s.line%d.slot%d", prefix, line, slot))
				info := z.wires[key][slot]
				z.gap(prev, v, wireGap(cd, prevInfo, info, boundary))
				slotVars[slot] = v
				prev, prevInfo, boundary = v, info, false
				if first == nil {
					first = v
				}
				last = v
			}
			f.slots[line] = slotVars
		}
		if z.baseNeeded[key] {
			v := z.variable(fmt.Sprintf("%s.line%d.base", prefix, line))
			z.gap(from, v, 0)
			z.gap(v, to, 0)
			// Stubs sit in the middle of their region, softly.
			z.require(solver.NewConstraint(
				solver.Expr(0, solver.T(v, 2), solver.T(from, -1), solver.T(to, -1)),
				solver.EQ, solver.Weak))
			f.base[line] = v
		}
	}
	z.gap(prev, to, wireGap(cd, prevInfo, wireInfo{}, true))
	return first, last
}

// wireGap is the minimum distance between two adjacent wires, or
// between a wire and a region boundary.
func wireGap(cd float64, a, b wireInfo, boundary bool) float64 {
	if boundary && a == (wireInfo{}) && b == (wireInfo{}) {
		return 0
	}
	maxOf := func(x, y float64) float64 {
		if x > y {
			return x
		}
		return y
	}
	return cd + maxOf(a.stroke, b.stroke) + maxOf(a.buffer, b.buffer) + maxOf(a.clearance, b.clearance)
}

// blockConstraints sizes every block: minimum dimensions, room for the
// label and padding, and margins to the nearest wires, widened where
// arrowheads land on a side.
func (z *sizer) blockConstraints() error {
	arrows := z.l.ArrowRoom
	for _, b := range z.l.Diagram.Blocks {
		a := &b.Attrs
		cover := b.Cover
		top := z.rows.innerBegin[cover.MinRow]
		bottom := z.rows.innerEnd[cover.MaxRow]
		left := z.cols.innerBegin[cover.MinCol]
		right := z.cols.innerEnd[cover.MaxCol]

		label := z.blockLabels[b.Index]
		minW := a.PaddingLeft + a.PaddingRight + label.Width
		minH := a.PaddingTop + a.PaddingBottom + label.Height
		if !z.relax {
			if a.MinWidth > minW {
				minW = a.MinWidth
			}
			if a.MinHeight > minH {
				minH = a.MinHeight
			}
		}
		z.gap(left, right, minW)
		z.gap(top, bottom, minH)

		margin := func(side geometry.Side) float64 {
			m := a.Margin(side)
			if room := arrows[b.Index][side]; room > m {
				m = room
			}
			return m
		}
		topAnchor := z.rows.lastBefore[cover.MinRow]
		if topAnchor == nil {
			topAnchor = z.rows.outer[cover.MinRow]
		}
		z.gap(topAnchor, top, margin(geometry.Top))

		bottomAnchor := z.rows.firstAfter[cover.MaxRow]
		if bottomAnchor == nil {
			bottomAnchor = z.rows.outer[cover.MaxRow+1]
		}
		z.gap(bottom, bottomAnchor, margin(geometry.Bottom))

		leftAnchor := z.cols.lastBefore[cover.MinCol]
		if leftAnchor == nil {
			leftAnchor = z.cols.outer[cover.MinCol]
		}
		z.gap(leftAnchor, left, margin(geometry.Left))

		rightAnchor := z.cols.firstAfter[cover.MaxCol]
		if rightAnchor == nil {
			rightAnchor = z.cols.outer[cover.MaxCol+1]
		}
		z.gap(right, rightAnchor, margin(geometry.Right))
	}
	return nil
}

// solveCoordinates runs the sizer, retrying once with relaxed minimum
// sizes before giving up.
func solveCoordinates(l *layout.Layout, routeLabels map[int][]placedLabel, blockLabels []textBlock) (*coordinates, error) {
	coords, err := sizeOnce(l, routeLabels, blockLabels, false)
	if err == nil {
		return coords, nil
	}
	coords, err = sizeOnce(l, routeLabels, blockLabels, true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSizing, err,
			"layout constraints are infeasible even with relaxed minimum sizes")
	}
	return coords, nil
}

func sizeOnce(l *layout.Layout, routeLabels map[int][]placedLabel, blockLabels []textBlock, relax bool) (coords *coordinates, err error) {
	defer func() {
		if r := recover(); r != nil {
			coords = nil
			err = errors.New(errors.ErrCodeSizing, "%v", r)
		}
	}()
	z := newSizer(l, routeLabels, blockLabels, relax)
	return z.run()
}

// Coordinate accessors. Row lines produce Y values, column lines X
// values; the content offset centers the layout on the drawing.

func (c *coordinates) slotCoord(key layout.LineKey, slot int) float64 {
	if key.Axis == geometry.Horizontal {
		return c.rows.slots[key.Line][slot].Value() + c.dy
	}
	return c.cols.slots[key.Line][slot].Value() + c.dx
}

func (c *coordinates) baseCoord(key layout.LineKey) float64 {
	if key.Axis == geometry.Horizontal {
		return c.rows.base[key.Line].Value() + c.dy
	}
	return c.cols.base[key.Line].Value() + c.dx
}

// blockBox returns the absolute rectangle of a block.
func (c *coordinates) blockBox(b *define.Block) (left, top, right, bottom float64) {
	left = c.cols.innerBegin[b.Cover.MinCol].Value() + c.dx
	top = c.rows.innerBegin[b.Cover.MinRow].Value() + c.dy
	right = c.cols.innerEnd[b.Cover.MaxCol].Value() + c.dx
	bottom = c.rows.innerEnd[b.Cover.MaxRow].Value() + c.dy
	return left, top, right, bottom
}

// sideCoord returns the coordinate of a block edge on the given side:
// a Y value for top and bottom, an X value for left and right.
func (c *coordinates) sideCoord(b *define.Block, side geometry.Side) float64 {
	left, top, right, bottom := c.blockBox(b)
	switch side {
	case geometry.Top:
		return top
	case geometry.Bottom:
		return bottom
	case geometry.Left:
		return left
	default:
		return right
	}
}
