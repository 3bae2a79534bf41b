// Package fonts selects and caches font faces for text measurement
// and raster rendering.
//
// The Go font family ships embedded via golang.org/x/image/font/gofont,
// so diagrams render identically everywhere without font files on
// disk. Unknown families fall back to the Go sans-serif faces; the SVG
// back-end still emits the requested family name and lets the viewer
// substitute.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/render"
)

// variant identifies one member of a font family.
type variant struct {
	mono   bool
	bold   bool
	italic bool
}

func variantOf(style define.TextStyle) variant {
	return variant{
		mono:   monoFamily(style.FontFamily),
		bold:   style.FontWeight == define.WeightBold,
		italic: style.FontStyle != define.StyleNormal,
	}
}

func monoFamily(family string) bool {
	switch family {
	case "Go Mono", "mono", "monospace":
		return true
	}
	return false
}

func (v variant) data() []byte {
	switch v {
	case variant{mono: true, bold: true, italic: true}:
		return gomonobolditalic.TTF
	case variant{mono: true, bold: true}:
		return gomonobold.TTF
	case variant{mono: true, italic: true}:
		return gomonoitalic.TTF
	case variant{mono: true}:
		return gomono.TTF
	case variant{bold: true, italic: true}:
		return gobolditalic.TTF
	case variant{bold: true}:
		return gobold.TTF
	case variant{italic: true}:
		return goitalic.TTF
	}
	return goregular.TTF
}

type faceKey struct {
	variant variant
	size    float64
}

// Catalog parses fonts lazily and caches the resulting faces. A single
// Catalog is safe for concurrent use.
type Catalog struct {
	mu    sync.Mutex
	fonts map[variant]*truetype.Font
	faces map[faceKey]font.Face
}

func NewCatalog() *Catalog {
	return &Catalog{
		fonts: make(map[variant]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

// Face returns a cached font face matching the style.
func (c *Catalog) Face(style define.TextStyle) (font.Face, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faceKey{variant: variantOf(style), size: style.FontSize}
	if face, ok := c.faces[key]; ok {
		return face, nil
	}
	fnt, ok := c.fonts[key.variant]
	if !ok {
		parsed, err := truetype.Parse(key.variant.data())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRender, err, "parsing embedded font")
		}
		fnt = parsed
		c.fonts[key.variant] = fnt
	}
	face := truetype.NewFace(fnt, &truetype.Options{
		Size:    style.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	c.faces[key] = face
	return face, nil
}

// MeasureText reports the extent of a single line of text. The height
// is the face height (ascent plus descent) and the baseline is the
// ascent, both independent of the content.
func (c *Catalog) MeasureText(content string, style define.TextStyle) (render.Extent, error) {
	face, err := c.Face(style)
	if err != nil {
		return render.Extent{}, err
	}
	metrics := face.Metrics()
	return render.Extent{
		Width:    fixedToFloat(font.MeasureString(face, content)),
		Height:   fixedToFloat(metrics.Ascent + metrics.Descent),
		Baseline: fixedToFloat(metrics.Ascent),
	}, nil
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
