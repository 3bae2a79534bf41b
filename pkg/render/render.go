// Package render defines the drawing back-end contract of the engine:
// a Canvas measures text and paints the rectangles, polylines,
// arrowheads and text runs that make up a finished diagram. Concrete
// back-ends live in the raster and svg subpackages.
package render

import (
	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/geometry"
)

// Extent is the measured size of a text run.
type Extent struct {
	Width    float64
	Height   float64
	Baseline float64
}

// Measurer measures text extents without drawing anything. The sizer
// needs measurements before any canvas exists, so this is split from
// Canvas.
type Measurer interface {
	MeasureText(content string, style define.TextStyle) (Extent, error)
}

// Stroke describes how a line or outline is drawn.
type Stroke struct {
	Color *define.Color
	Width float64
	Dash  []float64
}

// Canvas is a 2D drawing surface. Begin opens the surface at the given
// size, the drawing calls paint in order, and End writes the result to
// a file. Implementations are single-use: one Begin/End cycle each.
type Canvas interface {
	Measurer

	Begin(width, height, scale float64) error

	// Rectangle paints an axis-aligned rectangle, filled and/or
	// stroked; nil colors skip the respective pass.
	Rectangle(x, y, w, h float64, fill *define.Color, stroke Stroke) error

	// Polyline strokes an open orthogonal path.
	Polyline(points []geometry.Point, stroke Stroke) error

	// Arrowhead fills a triangular arrowhead with its tip at the given
	// point, pointing in the given direction.
	Arrowhead(tip geometry.Point, dir geometry.Direction, length, width float64, fill *define.Color) error

	// Text paints a text run whose anchor is the top-left corner of
	// its extent box; vertical runs read top to bottom.
	Text(at geometry.Point, content string, style define.TextStyle, vertical bool) error

	End(path string) error
}
