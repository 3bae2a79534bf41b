package define

import (
	"fmt"

	"github.com/yorgath/orthogram/pkg/errors"
)

// Color is an RGBA colour with components in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// Black returns opaque black.
func Black() Color {
	return Color{A: 1}
}

// White returns opaque white.
func White() Color {
	return Color{R: 1, G: 1, B: 1, A: 1}
}

// RGB returns an opaque colour.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// SVG returns the colour as an SVG rgb() value, ignoring alpha.
func (c Color) SVG() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(v*255 + 0.5)
}

// decodeColor converts a DDF value into a colour. Accepted forms are
// [r,g,b] and [r,g,b,a] with components in [0, 1], or nil for "no colour".
// A nil result with a nil error means the colour is explicitly absent.
func decodeColor(v any) (*Color, error) {
	if v == nil {
		return nil, nil
	}
	seq, ok := v.([]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeDefinition, "color must be a sequence of 3 or 4 numbers, got %T", v)
	}
	if len(seq) != 3 && len(seq) != 4 {
		return nil, errors.New(errors.ErrCodeDefinition, "color must have 3 or 4 components, got %d", len(seq))
	}
	comps := make([]float64, len(seq))
	for i, item := range seq {
		f, err := toFloat(item)
		if err != nil {
			return nil, errors.New(errors.ErrCodeDefinition, "color component %d: %v", i, err)
		}
		if f < 0 || f > 1 {
			return nil, errors.New(errors.ErrCodeDefinition, "color component %d out of range [0,1]: %g", i, f)
		}
		comps[i] = f
	}
	c := Color{R: comps[0], G: comps[1], B: comps[2], A: 1}
	if len(comps) == 4 {
		c.A = comps[3]
	}
	return &c, nil
}
