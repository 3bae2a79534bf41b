package raster

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/render"
)

func TestBeginEndWritesPNG(t *testing.T) {
	c := New()
	if err := c.Begin(100, 50, 1); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	white := define.Color{R: 1, G: 1, B: 1, A: 1}
	if err := c.Rectangle(0, 0, 100, 50, &white, render.Stroke{}); err != nil {
		t.Fatalf("Rectangle() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.End(path); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("image = %dx%d, want 100x50", b.Dx(), b.Dy())
	}
	r, g, bl, _ := img.At(50, 25).RGBA()
	if r != 0xffff || g != 0xffff || bl != 0xffff {
		t.Errorf("center pixel = (%v,%v,%v), want white", r, g, bl)
	}
}

func TestScaleMultipliesResolution(t *testing.T) {
	c := New()
	if err := c.Begin(100, 50, 2); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.End(path); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Errorf("image = %dx%d, want 200x100", cfg.Width, cfg.Height)
	}
}

func TestPolylinePaintsStroke(t *testing.T) {
	c := New()
	if err := c.Begin(20, 20, 1); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	white := define.Color{R: 1, G: 1, B: 1, A: 1}
	black := define.Color{A: 1}
	c.Rectangle(0, 0, 20, 20, &white, render.Stroke{})
	err := c.Polyline(
		[]geometry.Point{{X: 2, Y: 10}, {X: 18, Y: 10}},
		render.Stroke{Color: &black, Width: 2},
	)
	if err != nil {
		t.Fatalf("Polyline() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.End(path); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	f, _ := os.Open(path)
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	r, g, b, _ := img.At(10, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("wire pixel = (%v,%v,%v), want black", r, g, b)
	}
}

func TestTextDarkensPixels(t *testing.T) {
	c := New()
	if err := c.Begin(60, 30, 1); err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	white := define.Color{R: 1, G: 1, B: 1, A: 1}
	c.Rectangle(0, 0, 60, 30, &white, render.Stroke{})
	style := define.TextStyle{
		Fill: define.Color{A: 1}, FontFamily: "Go", FontSize: 14, LineHeight: 1.2,
	}
	if err := c.Text(geometry.Point{X: 4, Y: 4}, "XX", style, false); err != nil {
		t.Fatalf("Text() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.png")
	if err := c.End(path); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	f, _ := os.Open(path)
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	found := false
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y && !found; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if r < 0x8000 {
				found = true
				break
			}
		}
	}
	if !found {
		t.Error("no dark pixels after drawing text")
	}
}

func TestEndWithoutBeginFails(t *testing.T) {
	c := New()
	if err := c.End("nowhere.png"); err == nil {
		t.Error("End() before Begin() should fail")
	}
}
