package define

import (
	"github.com/yorgath/orthogram/pkg/geometry"
)

// LabelPosition anchors a label inside its reference rectangle.
type LabelPosition int

const (
	PositionCenter LabelPosition = iota
	PositionTop
	PositionTopLeft
	PositionTopRight
	PositionBottom
	PositionBottomLeft
	PositionBottomRight
)

// ParseLabelPosition converts a DDF value to a LabelPosition.
func ParseLabelPosition(s string) (LabelPosition, bool) {
	switch s {
	case "center":
		return PositionCenter, true
	case "top":
		return PositionTop, true
	case "top_left":
		return PositionTopLeft, true
	case "top_right":
		return PositionTopRight, true
	case "bottom":
		return PositionBottom, true
	case "bottom_left":
		return PositionBottomLeft, true
	case "bottom_right":
		return PositionBottomRight, true
	}
	return 0, false
}

// TextOrientation controls how label text is rotated.
type TextOrientation int

const (
	// OrientationFollow matches the orientation of the segment the label
	// sits on.
	OrientationFollow TextOrientation = iota
	OrientationHorizontal
	OrientationVertical
)

// ParseTextOrientation converts a DDF value to a TextOrientation.
func ParseTextOrientation(s string) (TextOrientation, bool) {
	switch s {
	case "follow":
		return OrientationFollow, true
	case "horizontal":
		return OrientationHorizontal, true
	case "vertical":
		return OrientationVertical, true
	}
	return 0, false
}

// FontStyle is the slant of a font.
type FontStyle int

const (
	StyleNormal FontStyle = iota
	StyleItalic
	StyleOblique
)

// ParseFontStyle converts a DDF value to a FontStyle.
func ParseFontStyle(s string) (FontStyle, bool) {
	switch s {
	case "normal":
		return StyleNormal, true
	case "italic":
		return StyleItalic, true
	case "oblique":
		return StyleOblique, true
	}
	return 0, false
}

// FontWeight is the weight of a font.
type FontWeight int

const (
	WeightNormal FontWeight = iota
	WeightBold
)

// ParseFontWeight converts a DDF value to a FontWeight.
func ParseFontWeight(s string) (FontWeight, bool) {
	switch s {
	case "normal":
		return WeightNormal, true
	case "bold":
		return WeightBold, true
	}
	return 0, false
}

// Attributes is the raw, partially-set attribute record attached to
// diagrams, blocks, connections, groups, and styles. Nil fields are unset
// and inherit through Merge; styles are folded left to right with later
// values overriding earlier ones.
type Attributes struct {
	Fill            *Color
	Stroke          *Color
	StrokeWidth     *float64
	StrokeDashArray []float64

	Label         *string
	LabelPosition *LabelPosition
	LabelDistance *float64

	TextFill        *Color
	TextLineHeight  *float64
	TextOrientation *TextOrientation
	FontFamily      *string
	FontSize        *float64
	FontStyle       *FontStyle
	FontWeight      *FontWeight

	ArrowForward *bool
	ArrowBack    *bool
	ArrowBase    *float64
	ArrowAspect  *float64

	BufferFill  *Color
	BufferWidth *float64

	MarginTop    *float64
	MarginBottom *float64
	MarginLeft   *float64
	MarginRight  *float64

	PaddingTop    *float64
	PaddingBottom *float64
	PaddingLeft   *float64
	PaddingRight  *float64

	MinWidth  *float64
	MinHeight *float64

	ConnectionDistance  *float64
	CollapseConnections *bool
	Scale               *float64

	DrawingPriority *int
	Group           *string
	Entrances       []geometry.Side
	Exits           []geometry.Side
	PassThrough     *bool
}

// Merge overlays o onto a: every field set in o overrides the value in a.
func (a *Attributes) Merge(o *Attributes) {
	if o == nil {
		return
	}
	if o.Fill != nil {
		a.Fill = o.Fill
	}
	if o.Stroke != nil {
		a.Stroke = o.Stroke
	}
	if o.StrokeWidth != nil {
		a.StrokeWidth = o.StrokeWidth
	}
	if o.StrokeDashArray != nil {
		a.StrokeDashArray = o.StrokeDashArray
	}
	if o.Label != nil {
		a.Label = o.Label
	}
	if o.LabelPosition != nil {
		a.LabelPosition = o.LabelPosition
	}
	if o.LabelDistance != nil {
		a.LabelDistance = o.LabelDistance
	}
	if o.TextFill != nil {
		a.TextFill = o.TextFill
	}
	if o.TextLineHeight != nil {
		a.TextLineHeight = o.TextLineHeight
	}
	if o.TextOrientation != nil {
		a.TextOrientation = o.TextOrientation
	}
	if o.FontFamily != nil {
		a.FontFamily = o.FontFamily
	}
	if o.FontSize != nil {
		a.FontSize = o.FontSize
	}
	if o.FontStyle != nil {
		a.FontStyle = o.FontStyle
	}
	if o.FontWeight != nil {
		a.FontWeight = o.FontWeight
	}
	if o.ArrowForward != nil {
		a.ArrowForward = o.ArrowForward
	}
	if o.ArrowBack != nil {
		a.ArrowBack = o.ArrowBack
	}
	if o.ArrowBase != nil {
		a.ArrowBase = o.ArrowBase
	}
	if o.ArrowAspect != nil {
		a.ArrowAspect = o.ArrowAspect
	}
	if o.BufferFill != nil {
		a.BufferFill = o.BufferFill
	}
	if o.BufferWidth != nil {
		a.BufferWidth = o.BufferWidth
	}
	if o.MarginTop != nil {
		a.MarginTop = o.MarginTop
	}
	if o.MarginBottom != nil {
		a.MarginBottom = o.MarginBottom
	}
	if o.MarginLeft != nil {
		a.MarginLeft = o.MarginLeft
	}
	if o.MarginRight != nil {
		a.MarginRight = o.MarginRight
	}
	if o.PaddingTop != nil {
		a.PaddingTop = o.PaddingTop
	}
	if o.PaddingBottom != nil {
		a.PaddingBottom = o.PaddingBottom
	}
	if o.PaddingLeft != nil {
		a.PaddingLeft = o.PaddingLeft
	}
	if o.PaddingRight != nil {
		a.PaddingRight = o.PaddingRight
	}
	if o.MinWidth != nil {
		a.MinWidth = o.MinWidth
	}
	if o.MinHeight != nil {
		a.MinHeight = o.MinHeight
	}
	if o.ConnectionDistance != nil {
		a.ConnectionDistance = o.ConnectionDistance
	}
	if o.CollapseConnections != nil {
		a.CollapseConnections = o.CollapseConnections
	}
	if o.Scale != nil {
		a.Scale = o.Scale
	}
	if o.DrawingPriority != nil {
		a.DrawingPriority = o.DrawingPriority
	}
	if o.Group != nil {
		a.Group = o.Group
	}
	if o.Entrances != nil {
		a.Entrances = o.Entrances
	}
	if o.Exits != nil {
		a.Exits = o.Exits
	}
	if o.PassThrough != nil {
		a.PassThrough = o.PassThrough
	}
}

// Built-in defaults. Values not set anywhere fall back to these.
const (
	defaultBlockMargin    = 24.0
	defaultBlockMinWidth  = 96.0
	defaultBlockMinHeight = 48.0
	defaultBlockPadding   = 8.0

	defaultStrokeWidth   = 2.0
	defaultArrowBase     = 3.0
	defaultArrowAspect   = 1.5
	defaultLabelDistance = 4.0

	defaultFontFamily = "Go"
	defaultFontSize   = 14.0
	defaultLineHeight = 1.2

	defaultDiagramMinWidth      = 256.0
	defaultDiagramMinHeight     = 256.0
	defaultConnectionDistance   = 4.0
	defaultScale                = 1.0
	defaultDiagramLabelDistance = 6.0
)

// TextStyle is the resolved set of font attributes used for drawing and
// measuring a label.
type TextStyle struct {
	Fill       Color
	LineHeight float64
	FontFamily string
	FontSize   float64
	FontStyle  FontStyle
	FontWeight FontWeight
}

// DiagramAttributes is the resolved attribute set of the whole diagram.
type DiagramAttributes struct {
	Fill                *Color
	Label               string
	LabelPosition       LabelPosition
	LabelDistance       float64
	Text                TextStyle
	MinWidth            float64
	MinHeight           float64
	ConnectionDistance  float64
	CollapseConnections bool
	Scale               float64
	StrokeWidth         float64
}

// BlockAttributes is the resolved attribute set of one block.
type BlockAttributes struct {
	Fill        *Color
	Stroke      *Color
	StrokeWidth float64
	StrokeDash  []float64

	Label         string
	LabelSet      bool
	LabelPosition LabelPosition
	LabelDistance float64
	Text          TextStyle

	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	PaddingTop    float64
	PaddingBottom float64
	PaddingLeft   float64
	PaddingRight  float64

	MinWidth  float64
	MinHeight float64

	PassThrough     bool
	DrawingPriority int
}

// Margin returns the block margin on the given side.
func (b *BlockAttributes) Margin(s geometry.Side) float64 {
	switch s {
	case geometry.Top:
		return b.MarginTop
	case geometry.Bottom:
		return b.MarginBottom
	case geometry.Left:
		return b.MarginLeft
	default:
		return b.MarginRight
	}
}

// ConnectionAttributes is the resolved attribute set of one connection.
type ConnectionAttributes struct {
	Stroke      *Color
	StrokeWidth float64
	StrokeDash  []float64

	ArrowForward bool
	ArrowBack    bool
	ArrowBase    float64
	ArrowAspect  float64

	BufferFill  *Color
	BufferWidth float64

	DrawingPriority int
	Group           string
	Entrances       []geometry.Side
	Exits           []geometry.Side

	LabelDistance float64
	Orientation   TextOrientation
	Text          TextStyle
}

// ArrowLength returns the length of an arrowhead along the wire.
func (c *ConnectionAttributes) ArrowLength() float64 {
	return c.StrokeWidth * c.ArrowBase * c.ArrowAspect
}

// ArrowWidth returns the width of an arrowhead base across the wire.
func (c *ConnectionAttributes) ArrowWidth() float64 {
	return c.StrokeWidth * c.ArrowBase
}

// WireWidth returns the total footprint of the drawn wire including its
// buffer on both sides.
func (c *ConnectionAttributes) WireWidth() float64 {
	return c.StrokeWidth + 2*c.BufferWidth
}

// resolveDiagram applies built-in defaults over the merged diagram
// attributes.
func resolveDiagram(a *Attributes) DiagramAttributes {
	d := DiagramAttributes{
		Fill:                colorPtr(White()),
		LabelPosition:       PositionTop,
		LabelDistance:       defaultDiagramLabelDistance,
		Text:                resolveText(a),
		MinWidth:            defaultDiagramMinWidth,
		MinHeight:           defaultDiagramMinHeight,
		ConnectionDistance:  defaultConnectionDistance,
		CollapseConnections: false,
		Scale:               defaultScale,
		StrokeWidth:         defaultStrokeWidth,
	}
	if a == nil {
		return d
	}
	if a.Fill != nil {
		d.Fill = a.Fill
	}
	if a.Label != nil {
		d.Label = *a.Label
	}
	if a.LabelPosition != nil {
		d.LabelPosition = *a.LabelPosition
	}
	if a.LabelDistance != nil {
		d.LabelDistance = *a.LabelDistance
	}
	if a.MinWidth != nil {
		d.MinWidth = *a.MinWidth
	}
	if a.MinHeight != nil {
		d.MinHeight = *a.MinHeight
	}
	if a.ConnectionDistance != nil {
		d.ConnectionDistance = *a.ConnectionDistance
	}
	if a.CollapseConnections != nil {
		d.CollapseConnections = *a.CollapseConnections
	}
	if a.Scale != nil {
		d.Scale = *a.Scale
	}
	if a.StrokeWidth != nil {
		d.StrokeWidth = *a.StrokeWidth
	}
	return d
}

// resolveBlock applies built-in defaults over the merged block attributes.
// Diagram-level text attributes act as the fallback layer.
func resolveBlock(a *Attributes, diagram *DiagramAttributes) BlockAttributes {
	b := BlockAttributes{
		Stroke:        colorPtr(Black()),
		StrokeWidth:   diagram.StrokeWidth,
		LabelPosition: PositionCenter,
		LabelDistance: defaultLabelDistance,
		Text:          resolveTextOver(a, diagram.Text),
		MarginTop:     defaultBlockMargin,
		MarginBottom:  defaultBlockMargin,
		MarginLeft:    defaultBlockMargin,
		MarginRight:   defaultBlockMargin,
		PaddingTop:    defaultBlockPadding,
		PaddingBottom: defaultBlockPadding,
		PaddingLeft:   defaultBlockPadding,
		PaddingRight:  defaultBlockPadding,
		MinWidth:      defaultBlockMinWidth,
		MinHeight:     defaultBlockMinHeight,
	}
	if a == nil {
		return b
	}
	if a.Fill != nil {
		b.Fill = a.Fill
	}
	if a.Stroke != nil {
		b.Stroke = a.Stroke
	}
	if a.StrokeWidth != nil {
		b.StrokeWidth = *a.StrokeWidth
	}
	if a.StrokeDashArray != nil {
		b.StrokeDash = a.StrokeDashArray
	}
	if a.Label != nil {
		b.Label = *a.Label
		b.LabelSet = true
	}
	if a.LabelPosition != nil {
		b.LabelPosition = *a.LabelPosition
	}
	if a.LabelDistance != nil {
		b.LabelDistance = *a.LabelDistance
	}
	if a.MarginTop != nil {
		b.MarginTop = *a.MarginTop
	}
	if a.MarginBottom != nil {
		b.MarginBottom = *a.MarginBottom
	}
	if a.MarginLeft != nil {
		b.MarginLeft = *a.MarginLeft
	}
	if a.MarginRight != nil {
		b.MarginRight = *a.MarginRight
	}
	if a.PaddingTop != nil {
		b.PaddingTop = *a.PaddingTop
	}
	if a.PaddingBottom != nil {
		b.PaddingBottom = *a.PaddingBottom
	}
	if a.PaddingLeft != nil {
		b.PaddingLeft = *a.PaddingLeft
	}
	if a.PaddingRight != nil {
		b.PaddingRight = *a.PaddingRight
	}
	if a.MinWidth != nil {
		b.MinWidth = *a.MinWidth
	}
	if a.MinHeight != nil {
		b.MinHeight = *a.MinHeight
	}
	if a.PassThrough != nil {
		b.PassThrough = *a.PassThrough
	}
	if a.DrawingPriority != nil {
		b.DrawingPriority = *a.DrawingPriority
	}
	return b
}

// resolveConnection applies built-in defaults over the merged connection
// attributes.
func resolveConnection(a *Attributes, diagram *DiagramAttributes) ConnectionAttributes {
	c := ConnectionAttributes{
		Stroke:        colorPtr(Black()),
		StrokeWidth:   defaultStrokeWidth,
		ArrowForward:  true,
		ArrowBase:     defaultArrowBase,
		ArrowAspect:   defaultArrowAspect,
		BufferFill:    colorPtr(White()),
		Entrances:     geometry.AllSides,
		Exits:         geometry.AllSides,
		LabelDistance: defaultLabelDistance,
		Orientation:   OrientationFollow,
		Text:          resolveTextOver(a, diagram.Text),
	}
	if a == nil {
		return c
	}
	if a.Stroke != nil {
		c.Stroke = a.Stroke
	}
	if a.StrokeWidth != nil {
		c.StrokeWidth = *a.StrokeWidth
	}
	if a.StrokeDashArray != nil {
		c.StrokeDash = a.StrokeDashArray
	}
	if a.ArrowForward != nil {
		c.ArrowForward = *a.ArrowForward
	}
	if a.ArrowBack != nil {
		c.ArrowBack = *a.ArrowBack
	}
	if a.ArrowBase != nil {
		c.ArrowBase = *a.ArrowBase
	}
	if a.ArrowAspect != nil {
		c.ArrowAspect = *a.ArrowAspect
	}
	if a.BufferFill != nil {
		c.BufferFill = a.BufferFill
	}
	if a.BufferWidth != nil {
		c.BufferWidth = *a.BufferWidth
	}
	if a.DrawingPriority != nil {
		c.DrawingPriority = *a.DrawingPriority
	}
	if a.Group != nil {
		c.Group = *a.Group
	}
	if a.Entrances != nil {
		c.Entrances = a.Entrances
	}
	if a.Exits != nil {
		c.Exits = a.Exits
	}
	if a.LabelDistance != nil {
		c.LabelDistance = *a.LabelDistance
	}
	if a.TextOrientation != nil {
		c.Orientation = *a.TextOrientation
	}
	return c
}

// resolveText builds a TextStyle from raw attributes with built-in
// fallbacks.
func resolveText(a *Attributes) TextStyle {
	return resolveTextOver(a, TextStyle{
		Fill:       Black(),
		LineHeight: defaultLineHeight,
		FontFamily: defaultFontFamily,
		FontSize:   defaultFontSize,
	})
}

// resolveTextOver builds a TextStyle from raw attributes over a fallback
// style.
func resolveTextOver(a *Attributes, base TextStyle) TextStyle {
	t := base
	if a == nil {
		return t
	}
	if a.TextFill != nil {
		t.Fill = *a.TextFill
	}
	if a.TextLineHeight != nil {
		t.LineHeight = *a.TextLineHeight
	}
	if a.FontFamily != nil {
		t.FontFamily = *a.FontFamily
	}
	if a.FontSize != nil {
		t.FontSize = *a.FontSize
	}
	if a.FontStyle != nil {
		t.FontStyle = *a.FontStyle
	}
	if a.FontWeight != nil {
		t.FontWeight = *a.FontWeight
	}
	return t
}

func colorPtr(c Color) *Color {
	return &c
}
