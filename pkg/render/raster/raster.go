// Package raster renders drawings to PNG files through fogleman/gg.
package raster

import (
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/fonts"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/render"
)

// Canvas paints onto an in-memory raster image and saves it as PNG.
// The zero value is not usable; call New.
type Canvas struct {
	catalog *fonts.Catalog
	dc      *gg.Context
}

func New() *Canvas {
	return &Canvas{catalog: fonts.NewCatalog()}
}

func (c *Canvas) MeasureText(content string, style define.TextStyle) (render.Extent, error) {
	return c.catalog.MeasureText(content, style)
}

// Begin allocates the image. The scale multiplies the pixel resolution
// while the drawing keeps working in unscaled coordinates.
func (c *Canvas) Begin(width, height, scale float64) error {
	if c.dc != nil {
		return errors.New(errors.ErrCodeRender, "canvas already started")
	}
	if width <= 0 || height <= 0 || scale <= 0 {
		return errors.New(errors.ErrCodeRender,
			"invalid canvas geometry %gx%g at scale %g", width, height, scale)
	}
	c.dc = gg.NewContext(int(math.Ceil(width*scale)), int(math.Ceil(height*scale)))
	c.dc.Scale(scale, scale)
	return nil
}

func (c *Canvas) setColor(col *define.Color) {
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
}

func (c *Canvas) applyStroke(stroke render.Stroke) bool {
	if stroke.Color == nil || stroke.Width <= 0 {
		return false
	}
	c.setColor(stroke.Color)
	c.dc.SetLineWidth(stroke.Width)
	if len(stroke.Dash) > 0 {
		c.dc.SetDash(stroke.Dash...)
	} else {
		c.dc.SetDash()
	}
	return true
}

func (c *Canvas) Rectangle(x, y, w, h float64, fill *define.Color, stroke render.Stroke) error {
	if fill != nil {
		c.setColor(fill)
		c.dc.DrawRectangle(x, y, w, h)
		c.dc.Fill()
	}
	if c.applyStroke(stroke) {
		c.dc.DrawRectangle(x, y, w, h)
		c.dc.Stroke()
	}
	return nil
}

func (c *Canvas) Polyline(points []geometry.Point, stroke render.Stroke) error {
	if len(points) < 2 || !c.applyStroke(stroke) {
		return nil
	}
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.Stroke()
	return nil
}

func (c *Canvas) Arrowhead(tip geometry.Point, dir geometry.Direction, length, width float64, fill *define.Color) error {
	if fill == nil {
		return nil
	}
	base := tip
	var px, py float64
	switch dir {
	case geometry.Up:
		base.Y += length
		px = width / 2
	case geometry.Down:
		base.Y -= length
		px = width / 2
	case geometry.LeftWard:
		base.X += length
		py = width / 2
	case geometry.RightWard:
		base.X -= length
		py = width / 2
	}
	c.setColor(fill)
	c.dc.MoveTo(tip.X, tip.Y)
	c.dc.LineTo(base.X-px, base.Y-py)
	c.dc.LineTo(base.X+px, base.Y+py)
	c.dc.ClosePath()
	c.dc.Fill()
	return nil
}

// Text paints a possibly multi-line run with its top-left corner at
// the anchor. Lines are centered within the widest line; a vertical
// run is the horizontal run rotated a quarter turn clockwise, so it
// reads top to bottom.
func (c *Canvas) Text(at geometry.Point, content string, style define.TextStyle, vertical bool) error {
	if content == "" {
		return nil
	}
	face, err := c.catalog.Face(style)
	if err != nil {
		return err
	}
	c.dc.SetFontFace(face)
	c.setColor(&style.Fill)

	lines := strings.Split(content, "\n")
	lineHeight := style.FontSize * style.LineHeight
	var widths []float64
	var longest float64
	for _, line := range lines {
		ext, err := c.catalog.MeasureText(line, style)
		if err != nil {
			return err
		}
		widths = append(widths, ext.Width)
		if ext.Width > longest {
			longest = ext.Width
		}
	}
	baseline, err := c.catalog.MeasureText("", style)
	if err != nil {
		return err
	}

	if vertical {
		boxHeight := float64(len(lines)) * lineHeight
		c.dc.Push()
		c.dc.Translate(at.X+boxHeight, at.Y)
		c.dc.Rotate(math.Pi / 2)
		at = geometry.Point{}
		defer c.dc.Pop()
	}
	for i, line := range lines {
		x := at.X + (longest-widths[i])/2
		y := at.Y + float64(i)*lineHeight + baseline.Baseline
		c.dc.DrawString(line, x, y)
	}
	return nil
}

func (c *Canvas) End(path string) error {
	if c.dc == nil {
		return errors.New(errors.ErrCodeRender, "canvas never started")
	}
	if err := c.dc.SavePNG(path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "writing %s", path)
	}
	return nil
}
