// Package draw sizes a routed layout and turns it into an ordered list
// of drawing primitives. The constraint sizer computes absolute
// coordinates for every block edge and wire channel; the composer
// walks the diagram in drawing order and records the rectangles,
// polylines, arrowheads and text runs a back-end must paint.
package draw

import (
	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/layout"
	"github.com/yorgath/orthogram/pkg/render"
)

// Drawing is a finished diagram: its size, scale, and paint operations
// in back-to-front order.
type Drawing struct {
	Width  float64
	Height float64
	Scale  float64

	ops []op
}

// Render paints the drawing on a canvas and writes it to path.
func (d *Drawing) Render(c render.Canvas, path string) error {
	if err := c.Begin(d.Width, d.Height, d.Scale); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "opening drawing surface")
	}
	for _, o := range d.ops {
		if err := o.paint(c); err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "painting diagram")
		}
	}
	if err := c.End(path); err != nil {
		return errors.Wrap(errors.ErrCodeRender, err, "writing %s", path)
	}
	return nil
}

type op interface {
	paint(c render.Canvas) error
}

type rectOp struct {
	x, y, w, h float64
	fill       *define.Color
	stroke     render.Stroke
}

func (o rectOp) paint(c render.Canvas) error {
	return c.Rectangle(o.x, o.y, o.w, o.h, o.fill, o.stroke)
}

type polylineOp struct {
	points []geometry.Point
	stroke render.Stroke
}

func (o polylineOp) paint(c render.Canvas) error {
	return c.Polyline(o.points, o.stroke)
}

type arrowOp struct {
	tip           geometry.Point
	dir           geometry.Direction
	length, width float64
	fill          *define.Color
}

func (o arrowOp) paint(c render.Canvas) error {
	return c.Arrowhead(o.tip, o.dir, o.length, o.width, o.fill)
}

type textOp struct {
	at       geometry.Point
	block    textBlock
	vertical bool
}

func (o textOp) paint(c render.Canvas) error {
	return c.Text(o.at, o.block.Text, o.block.Style, o.vertical)
}

// composer assembles the drawing from the layout and the solved
// coordinates.
type composer struct {
	l      *layout.Layout
	coords *coordinates
	m      render.Measurer

	routeLabels map[int][]placedLabel
	blockLabels []textBlock

	drawing *Drawing
}

// Compose sizes the layout and builds its drawing. The measurer
// provides text extents for label sizing before any canvas exists.
func Compose(l *layout.Layout, m render.Measurer) (*Drawing, error) {
	d := l.Diagram

	routeLabels := make(map[int][]placedLabel)
	for _, r := range l.Routes {
		labels, err := connectionLabels(m, r)
		if err != nil {
			return nil, err
		}
		if len(labels) > 0 {
			routeLabels[r.Conn.Index] = labels
		}
	}
	blockLabels := make([]textBlock, len(d.Blocks))
	for _, b := range d.Blocks {
		tb, err := measureText(m, b.Label(), b.Attrs.Text, false)
		if err != nil {
			return nil, err
		}
		blockLabels[b.Index] = tb
	}

	coords, err := solveCoordinates(l, routeLabels, blockLabels)
	if err != nil {
		return nil, err
	}

	c := &composer{
		l:           l,
		coords:      coords,
		m:           m,
		routeLabels: routeLabels,
		blockLabels: blockLabels,
		drawing: &Drawing{
			Width:  coords.Width,
			Height: coords.Height,
			Scale:  d.Attrs.Scale,
		},
	}
	if err := c.compose(); err != nil {
		return nil, err
	}
	return c.drawing, nil
}

func (c *composer) add(o op) {
	c.drawing.ops = append(c.drawing.ops, o)
}

func (c *composer) compose() error {
	d := c.l.Diagram

	c.add(rectOp{
		x: 0, y: 0, w: c.drawing.Width, h: c.drawing.Height,
		fill: d.Attrs.Fill,
	})

	for _, b := range d.DrawOrder() {
		c.block(b)
	}

	// Routes arrive with groupmates contiguous; each run of them is
	// one drawn group, an ungrouped route a group of its own.
	routes := c.l.Routes
	for start := 0; start < len(routes); {
		end := start + 1
		group := routes[start].Conn.Attrs.Group
		for group != "" && end < len(routes) && routes[end].Conn.Attrs.Group == group {
			end++
		}
		c.connectionGroup(routes[start:end])
		start = end
	}
	return c.diagramLabel()
}

// connectionGroup draws a run of groupmates in two passes: every
// buffer first, then every wire with its arrows and labels. Groupmates
// share slots and junctions, so a buffer emitted after a wire would
// notch the shared track instead of backing the whole bundle.
func (c *composer) connectionGroup(routes []*layout.Route) {
	points := make([][]geometry.Point, len(routes))
	extents := make([]map[*layout.Segment][2]float64, len(routes))
	for i, r := range routes {
		points[i], extents[i] = c.wire(r)
	}
	for i, r := range routes {
		a := &r.Conn.Attrs
		if a.BufferWidth > 0 && a.BufferFill != nil {
			c.add(polylineOp{points: points[i], stroke: render.Stroke{
				Color: a.BufferFill,
				Width: a.WireWidth(),
			}})
		}
	}
	for i, r := range routes {
		c.connection(r, points[i], extents[i])
	}
}

func (c *composer) block(b *define.Block) {
	a := &b.Attrs
	left, top, right, bottom := c.coords.blockBox(b)
	c.add(rectOp{
		x: left, y: top, w: right - left, h: bottom - top,
		fill: a.Fill,
		stroke: render.Stroke{
			Color: a.Stroke,
			Width: a.StrokeWidth,
			Dash:  a.StrokeDash,
		},
	})

	label := c.blockLabels[b.Index]
	if label.Text == "" {
		return
	}
	innerLeft := left + a.PaddingLeft
	innerTop := top + a.PaddingTop
	innerRight := right - a.PaddingRight
	innerBottom := bottom - a.PaddingBottom

	var x, y float64
	switch a.LabelPosition {
	case define.PositionTopLeft, define.PositionBottomLeft:
		x = innerLeft
	case define.PositionTopRight, define.PositionBottomRight:
		x = innerRight - label.Width
	default:
		x = (innerLeft + innerRight - label.Width) / 2
	}
	switch a.LabelPosition {
	case define.PositionTop, define.PositionTopLeft, define.PositionTopRight:
		y = innerTop
	case define.PositionBottom, define.PositionBottomLeft, define.PositionBottomRight:
		y = innerBottom - label.Height
	default:
		y = (innerTop + innerBottom - label.Height) / 2
	}
	c.add(textOp{at: geometry.Point{X: x, Y: y}, block: label})
}

// wire computes the absolute polyline of a route, including the
// terminal stubs that tie segments running parallel to a block side to
// the block edge. It also records each segment's extent along its axis
// for label placement.
func (c *composer) wire(r *layout.Route) ([]geometry.Point, map[*layout.Segment][2]float64) {
	segments := r.Segments
	lineCoord := func(s *layout.Segment) float64 {
		return c.coords.slotCoord(layout.LineKey{Axis: s.Axis, Line: s.Line}, s.Slot)
	}
	// point places a position on a segment: along is the coordinate
	// that varies along the segment's axis.
	point := func(s *layout.Segment, along float64) geometry.Point {
		if s.Axis == geometry.Horizontal {
			return geometry.Point{X: along, Y: lineCoord(s)}
		}
		return geometry.Point{X: lineCoord(s), Y: along}
	}
	attach := func(s *layout.Segment, along, edge float64) geometry.Point {
		if s.Axis == geometry.Horizontal {
			return geometry.Point{X: along, Y: edge}
		}
		return geometry.Point{X: edge, Y: along}
	}

	extents := make(map[*layout.Segment][2]float64, len(segments))
	var points []geometry.Point

	first, last := segments[0], segments[len(segments)-1]
	startEdge := c.coords.sideCoord(r.Conn.Start, r.ExitSide)
	endEdge := c.coords.sideCoord(r.Conn.End, r.EntranceSide)

	var startAlong float64
	if first.Axis == r.ExitSide.Axis() {
		startAlong = startEdge
		points = append(points, point(first, startEdge))
	} else {
		key := stubKey(r.ExitSide, r.Nodes[0])
		base := c.coords.baseCoord(key)
		startAlong = base
		points = append(points, attach(first, base, startEdge), point(first, base))
	}

	for k := 1; k < len(segments); k++ {
		// The corner between two segments lies on both their lines.
		points = append(points, point(segments[k-1], lineCoord(segments[k])))
	}

	var endAlong float64
	if last.Axis == r.EntranceSide.Axis() {
		endAlong = endEdge
		points = append(points, point(last, endEdge))
	} else {
		key := stubKey(r.EntranceSide, r.Nodes[len(r.Nodes)-1])
		base := c.coords.baseCoord(key)
		endAlong = base
		points = append(points, point(last, base), attach(last, base, endEdge))
	}

	// A segment's extent along its axis runs from the line of its
	// predecessor to the line of its successor, terminals aside.
	for k, s := range segments {
		lo := startAlong
		if k > 0 {
			lo = lineCoord(segments[k-1])
		}
		hi := endAlong
		if k < len(segments)-1 {
			hi = lineCoord(segments[k+1])
		}
		extents[s] = [2]float64{lo, hi}
	}
	return points, extents
}

// stubKey is the line a terminal stub runs along: the column of the
// attach node for top and bottom sides, its row for left and right.
func stubKey(side geometry.Side, node geometry.IntPoint) layout.LineKey {
	if side.Axis() == geometry.Vertical {
		return layout.LineKey{Axis: geometry.Vertical, Line: node.J}
	}
	return layout.LineKey{Axis: geometry.Horizontal, Line: node.I}
}

func (c *composer) connection(r *layout.Route, points []geometry.Point, extents map[*layout.Segment][2]float64) {
	a := &r.Conn.Attrs

	c.add(polylineOp{points: points, stroke: render.Stroke{
		Color: a.Stroke,
		Width: a.StrokeWidth,
		Dash:  a.StrokeDash,
	}})

	if a.ArrowBack {
		c.add(arrowOp{
			tip:    points[0],
			dir:    r.ExitSide.Inward(),
			length: a.ArrowLength(),
			width:  a.ArrowWidth(),
			fill:   a.Stroke,
		})
	}
	if a.ArrowForward {
		c.add(arrowOp{
			tip:    points[len(points)-1],
			dir:    r.EntranceSide.Inward(),
			length: a.ArrowLength(),
			width:  a.ArrowWidth(),
			fill:   a.Stroke,
		})
	}

	for _, p := range c.routeLabels[r.Conn.Index] {
		c.connectionLabel(r, p, extents)
	}
}

// connectionLabel places one label beside its segment: above a
// horizontal run, left of a vertical one. Start and end labels shift
// from the terminal towards the middle, past the arrowhead.
func (c *composer) connectionLabel(r *layout.Route, p placedLabel, extents map[*layout.Segment][2]float64) {
	s := p.Segment
	line := c.coords.slotCoord(layout.LineKey{Axis: s.Axis, Line: s.Line}, s.Slot)
	ext := extents[s]

	alongSize := p.Block.Width
	if s.Axis == geometry.Vertical {
		alongSize = p.Block.Height
	}
	var along float64
	switch p.Kind {
	case labelMiddle:
		along = (ext[0] + ext[1]) / 2
	case labelStart:
		along = shiftFrom(ext[0], ext[1], r.Conn.Attrs.ArrowLength()+p.Distance+alongSize/2)
	case labelEnd:
		along = shiftFrom(ext[1], ext[0], r.Conn.Attrs.ArrowLength()+p.Distance+alongSize/2)
	}

	var at geometry.Point
	if s.Axis == geometry.Horizontal {
		at = geometry.Point{
			X: along - p.Block.Width/2,
			Y: line - p.Distance - p.Block.Height,
		}
	} else {
		at = geometry.Point{
			X: line - p.Distance - p.Block.Width,
			Y: along - p.Block.Height/2,
		}
	}
	c.add(textOp{at: at, block: p.Block, vertical: p.Block.Vertical})
}

// shiftFrom moves a coordinate from one end of an extent towards the
// other by the given amount, clamped to the far end.
func shiftFrom(from, towards, by float64) float64 {
	if towards >= from {
		if from+by > towards {
			return towards
		}
		return from + by
	}
	if from-by < towards {
		return towards
	}
	return from - by
}

func (c *composer) diagramLabel() error {
	a := &c.l.Diagram.Attrs
	if a.Label == "" {
		return nil
	}
	tb, err := measureText(c.m, a.Label, a.Text, false)
	if err != nil {
		return err
	}
	x := (c.drawing.Width - tb.Width) / 2
	var y float64
	switch a.LabelPosition {
	case define.PositionBottom, define.PositionBottomLeft, define.PositionBottomRight:
		y = c.drawing.Height - a.LabelDistance - tb.Height
	case define.PositionCenter:
		y = (c.drawing.Height - tb.Height) / 2
	default:
		y = a.LabelDistance
	}
	switch a.LabelPosition {
	case define.PositionTopLeft, define.PositionBottomLeft:
		x = a.LabelDistance
	case define.PositionTopRight, define.PositionBottomRight:
		x = c.drawing.Width - a.LabelDistance - tb.Width
	}
	c.add(textOp{at: geometry.Point{X: x, Y: y}, block: tb})
	return nil
}
