package fonts

import (
	"testing"

	"github.com/yorgath/orthogram/pkg/define"
)

func style(family string, size float64) define.TextStyle {
	return define.TextStyle{FontFamily: family, FontSize: size, LineHeight: 1.2}
}

func TestMeasureTextProportional(t *testing.T) {
	c := NewCatalog()
	wide, err := c.MeasureText("mmmm", style("Go", 14))
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	narrow, err := c.MeasureText("iiii", style("Go", 14))
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	if wide.Width <= narrow.Width {
		t.Errorf("width(mmmm) = %v, want wider than width(iiii) = %v",
			wide.Width, narrow.Width)
	}
}

func TestMeasureTextMonospace(t *testing.T) {
	c := NewCatalog()
	a, err := c.MeasureText("mmmm", style("Go Mono", 14))
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	b, err := c.MeasureText("iiii", style("Go Mono", 14))
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	if a.Width != b.Width {
		t.Errorf("monospace widths differ: %v vs %v", a.Width, b.Width)
	}
}

func TestMonoFamilyAliases(t *testing.T) {
	tests := []struct {
		family string
		want   bool
	}{
		{"Go Mono", true},
		{"mono", true},
		{"monospace", true},
		{"Go", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			if got := variantOf(style(tt.family, 14)).mono; got != tt.want {
				t.Errorf("mono for family %q = %v, want %v", tt.family, got, tt.want)
			}
		})
	}
}

func TestMeasureTextMetrics(t *testing.T) {
	c := NewCatalog()
	ext, err := c.MeasureText("Label", style("Go", 14))
	if err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
	if ext.Width <= 0 || ext.Height <= 0 {
		t.Errorf("extent = %+v, want positive", ext)
	}
	if ext.Baseline <= 0 || ext.Baseline >= ext.Height {
		t.Errorf("baseline = %v, want within (0, %v)", ext.Baseline, ext.Height)
	}
}

func TestFaceCaching(t *testing.T) {
	c := NewCatalog()
	first, err := c.Face(style("Go", 14))
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	second, err := c.Face(style("Go", 14))
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	if first != second {
		t.Error("same style returned distinct faces")
	}
	bold := style("Go", 14)
	bold.FontWeight = define.WeightBold
	third, err := c.Face(bold)
	if err != nil {
		t.Fatalf("Face() error = %v", err)
	}
	if third == first {
		t.Error("bold style shares the regular face")
	}
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	c := NewCatalog()
	if _, err := c.MeasureText("x", style("Comic Sans MS", 14)); err != nil {
		t.Fatalf("MeasureText() error = %v", err)
	}
}
