package svg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/render"
)

func renderDoc(t *testing.T, paint func(c *Canvas)) string {
	t.Helper()
	c := New()
	if err := c.Begin(200, 100, 1); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	paint(c)
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := c.End(path); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	return string(data)
}

func TestDocumentFrame(t *testing.T) {
	doc := renderDoc(t, func(c *Canvas) {})
	if !strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 100"`) {
		t.Errorf("missing svg header: %q", doc[:60])
	}
	if !strings.HasSuffix(doc, "</svg>\n") {
		t.Error("missing closing tag")
	}
}

func TestScaleAffectsSizeNotViewBox(t *testing.T) {
	c := New()
	if err := c.Begin(200, 100, 2); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := c.End(path); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	doc := string(data)
	if !strings.Contains(doc, `viewBox="0 0 200 100"`) {
		t.Error("viewBox should stay in drawing units")
	}
	if !strings.Contains(doc, `width="400" height="200"`) {
		t.Error("width and height should carry the scale")
	}
}

func TestRectangleFillAndStroke(t *testing.T) {
	black := define.Color{A: 1}
	doc := renderDoc(t, func(c *Canvas) {
		c.Rectangle(10, 20, 30, 40, &define.Color{R: 1, G: 1, B: 1, A: 1},
			render.Stroke{Color: &black, Width: 2})
	})
	want := `<rect x="10" y="20" width="30" height="40" fill="rgb(255,255,255)" stroke="rgb(0,0,0)" stroke-width="2"/>`
	if !strings.Contains(doc, want) {
		t.Errorf("document missing %q:\n%s", want, doc)
	}
}

func TestPolylineNeverFilled(t *testing.T) {
	black := define.Color{A: 1}
	doc := renderDoc(t, func(c *Canvas) {
		c.Polyline([]geometry.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
			render.Stroke{Color: &black, Width: 1, Dash: []float64{4, 2}})
	})
	if !strings.Contains(doc, `points="0,0 10,0 10,10" fill="none"`) {
		t.Errorf("polyline points or fill wrong:\n%s", doc)
	}
	if !strings.Contains(doc, `stroke-dasharray="4 2"`) {
		t.Errorf("missing dash array:\n%s", doc)
	}
}

func TestArrowheadTriangle(t *testing.T) {
	black := define.Color{A: 1}
	doc := renderDoc(t, func(c *Canvas) {
		c.Arrowhead(geometry.Point{X: 50, Y: 50}, geometry.RightWard, 9, 6, &black)
	})
	want := `<path d="M 50 50 L 41 47 L 41 53 Z"`
	if !strings.Contains(doc, want) {
		t.Errorf("document missing %q:\n%s", want, doc)
	}
}

func TestTextEscaping(t *testing.T) {
	doc := renderDoc(t, func(c *Canvas) {
		style := define.TextStyle{
			Fill: define.Color{A: 1}, FontFamily: "Go", FontSize: 14, LineHeight: 1.2,
		}
		c.Text(geometry.Point{X: 5, Y: 5}, "a < b & c", style, false)
	})
	if !strings.Contains(doc, "a &lt; b &amp; c") {
		t.Errorf("text not escaped:\n%s", doc)
	}
}

func TestVerticalTextRotates(t *testing.T) {
	doc := renderDoc(t, func(c *Canvas) {
		style := define.TextStyle{
			Fill: define.Color{A: 1}, FontFamily: "Go", FontSize: 10, LineHeight: 1.2,
		}
		c.Text(geometry.Point{X: 5, Y: 5}, "up", style, true)
	})
	if !strings.Contains(doc, `rotate(90)`) {
		t.Errorf("vertical text not rotated:\n%s", doc)
	}
}

func TestBoldItalicAttributes(t *testing.T) {
	doc := renderDoc(t, func(c *Canvas) {
		style := define.TextStyle{
			Fill: define.Color{A: 1}, FontFamily: "Go", FontSize: 14, LineHeight: 1.2,
			FontStyle: define.StyleItalic, FontWeight: define.WeightBold,
		}
		c.Text(geometry.Point{X: 5, Y: 5}, "x", style, false)
	})
	if !strings.Contains(doc, `font-style="italic"`) || !strings.Contains(doc, `font-weight="bold"`) {
		t.Errorf("missing font attributes:\n%s", doc)
	}
}

func TestBeginTwiceFails(t *testing.T) {
	c := New()
	if err := c.Begin(100, 100, 1); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if err := c.Begin(100, 100, 1); err == nil {
		t.Error("second Begin() should fail")
	}
}
