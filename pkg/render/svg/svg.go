// Package svg renders drawings to standalone SVG documents. Text is
// measured with the same embedded Go faces the raster back-end draws
// with, so both back-ends agree on layout even though an SVG viewer
// may substitute fonts.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/fonts"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/render"
)

type Canvas struct {
	catalog *fonts.Catalog
	buf     bytes.Buffer
	started bool
}

func New() *Canvas {
	return &Canvas{catalog: fonts.NewCatalog()}
}

func (c *Canvas) MeasureText(content string, style define.TextStyle) (render.Extent, error) {
	return c.catalog.MeasureText(content, style)
}

func (c *Canvas) Begin(width, height, scale float64) error {
	if c.started {
		return errors.New(errors.ErrCodeRender, "canvas already started")
	}
	if width <= 0 || height <= 0 || scale <= 0 {
		return errors.New(errors.ErrCodeRender,
			"invalid canvas geometry %gx%g at scale %g", width, height, scale)
	}
	c.started = true
	fmt.Fprintf(&c.buf,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(width), num(height), num(width*scale), num(height*scale))
	return nil
}

func (c *Canvas) Rectangle(x, y, w, h float64, fill *define.Color, stroke render.Stroke) error {
	fmt.Fprintf(&c.buf, `  <rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
		num(x), num(y), num(w), num(h), fillAttrs(fill), strokeAttrs(stroke))
	return nil
}

func (c *Canvas) Polyline(points []geometry.Point, stroke render.Stroke) error {
	if len(points) < 2 {
		return nil
	}
	var pts strings.Builder
	for i, p := range points {
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%s,%s", num(p.X), num(p.Y))
	}
	fmt.Fprintf(&c.buf,
		`  <polyline points="%s" fill="none" stroke-linejoin="round"%s/>`+"\n",
		pts.String(), strokeAttrs(stroke))
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
	fmt.Fprintf(&c.buf, `  <path d="M %s %s L %s %s L %s %s Z"%s/>`+"\n",
		num(tip.X), num(tip.Y),
		num(base.X-px), num(base.Y-py),
		num(base.X+px), num(base.Y+py),
		fillAttrs(fill))
	return nil
}

func (c *Canvas) Text(at geometry.Point, content string, style define.TextStyle, vertical bool) error {
	if content == "" {
		return nil
	}
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
	metrics, err := c.catalog.MeasureText("", style)
	if err != nil {
		return err
	}

	var transform string
	if vertical {
		boxHeight := float64(len(lines)) * lineHeight
		transform = fmt.Sprintf(` transform="translate(%s,%s) rotate(90)"`,
			num(at.X+boxHeight), num(at.Y))
		at = geometry.Point{}
	}
	for i, line := range lines {
		x := at.X + (longest-widths[i])/2
		y := at.Y + float64(i)*lineHeight + metrics.Baseline
		fmt.Fprintf(&c.buf, `  <text x="%s" y="%s"%s%s>%s</text>`+"\n",
			num(x), num(y), textAttrs(style), transform, escape(line))
	}
	return nil
}

func (c *Canvas) End(path string) error {
	if !c.started {
		return errors.New(errors.ErrCodeRender, "canvas never started")
	}
	c.buf.WriteString("</svg>\n")
	if err := os.WriteFile(path, c.buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "writing %s", path)
	}
	return nil
}

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

func fillAttrs(fill *define.Color) string {
	if fill == nil {
		return ` fill="none"`
	}
	s := fmt.Sprintf(` fill="%s"`, fill.SVG())
	if fill.A < 1 {
		s += fmt.Sprintf(` fill-opacity="%s"`, num(fill.A))
	}
	return s
}

func strokeAttrs(stroke render.Stroke) string {
	if stroke.Color == nil || stroke.Width <= 0 {
		return ""
	}
	s := fmt.Sprintf(` stroke="%s" stroke-width="%s"`, stroke.Color.SVG(), num(stroke.Width))
	if stroke.Color.A < 1 {
		s += fmt.Sprintf(` stroke-opacity="%s"`, num(stroke.Color.A))
	}
	if len(stroke.Dash) > 0 {
		var dashes []string
		for _, d := range stroke.Dash {
			dashes = append(dashes, num(d))
		}
		s += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(dashes, " "))
	}
	return s
}

func textAttrs(style define.TextStyle) string {
	s := fmt.Sprintf(` font-family="%s" font-size="%s" fill="%s"`,
		escape(style.FontFamily), num(style.FontSize), style.Fill.SVG())
	switch style.FontStyle {
	case define.StyleItalic:
		s += ` font-style="italic"`
	case define.StyleOblique:
		s += ` font-style="oblique"`
	}
	if style.FontWeight == define.WeightBold {
		s += ` font-weight="bold"`
	}
	return s
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
