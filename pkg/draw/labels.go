package draw

import (
	"strings"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
	"github.com/yorgath/orthogram/pkg/layout"
	"github.com/yorgath/orthogram/pkg/render"
)

// textBlock is a measured, possibly multi-line text run. Width and
// Height are the extents of the box as drawn, so a vertical run has
// them swapped relative to its reading order.
type textBlock struct {
	Text     string
	Style    define.TextStyle
	Vertical bool
	Width    float64
	Height   float64
}

// measureText measures a text run line by line: the box is as wide as
// the longest line and as tall as the line count times the line height.
func measureText(m render.Measurer, text string, style define.TextStyle, vertical bool) (textBlock, error) {
	tb := textBlock{Text: text, Style: style, Vertical: vertical}
	if text == "" {
		return tb, nil
	}
	lines := strings.Split(text, "\n")
	var longest float64
	for _, line := range lines {
		ext, err := m.MeasureText(line, style)
		if err != nil {
			return tb, errors.Wrap(errors.ErrCodeRender, err, "measuring label %q", line)
		}
		if ext.Width > longest {
			longest = ext.Width
		}
	}
	tb.Width = longest
	tb.Height = float64(len(lines)) * style.FontSize * style.LineHeight
	if vertical {
		tb.Width, tb.Height = tb.Height, tb.Width
	}
	return tb, nil
}

// labelKind tells which terminal of a connection a label belongs to.
type labelKind int

const (
	labelStart labelKind = iota
	labelMiddle
	labelEnd
)

// placedLabel ties a measured connection label to the segment it sits
// beside.
type placedLabel struct {
	Kind     labelKind
	Label    *define.Label
	Segment  *layout.Segment
	Block    textBlock
	Distance float64
}

// connectionLabels resolves and measures the labels of one route. The
// middle label goes on the middle segment; with follow orientation and
// a degenerate middle segment it falls back to the longest segment,
// and to a horizontal run when every segment is degenerate.
func connectionLabels(m render.Measurer, r *layout.Route) ([]placedLabel, error) {
	var out []placedLabel
	add := func(kind labelKind, label *define.Label, seg *layout.Segment) error {
		if label == nil || label.Text == "" {
			return nil
		}
		vertical := labelVertical(label.Orientation, seg)
		tb, err := measureText(m, label.Text, label.Style, vertical)
		if err != nil {
			return err
		}
		out = append(out, placedLabel{
			Kind:     kind,
			Label:    label,
			Segment:  seg,
			Block:    tb,
			Distance: label.Distance,
		})
		return nil
	}

	conn := r.Conn
	first := r.Segments[0]
	last := r.Segments[len(r.Segments)-1]
	if err := add(labelStart, conn.StartLabel, first); err != nil {
		return nil, err
	}
	if err := add(labelMiddle, conn.MiddleLabel, middleSegment(r, conn.MiddleLabel)); err != nil {
		return nil, err
	}
	if err := add(labelEnd, conn.EndLabel, last); err != nil {
		return nil, err
	}
	return out, nil
}

// middleSegment picks the segment carrying the middle label.
func middleSegment(r *layout.Route, label *define.Label) *layout.Segment {
	seg := r.Segments[len(r.Segments)/2]
	if label == nil || label.Orientation != define.OrientationFollow || seg.Lo != seg.Hi {
		return seg
	}
	var longest *layout.Segment
	for _, s := range r.Segments {
		if s.Lo == s.Hi {
			continue
		}
		if longest == nil || s.Hi-s.Lo > longest.Hi-longest.Lo {
			longest = s
		}
	}
	if longest != nil {
		return longest
	}
	return seg
}

// labelVertical decides whether a connection label reads top to
// bottom: only with vertical orientation, or follow orientation on a
// vertical segment. A degenerate follow segment falls back to
// horizontal.
func labelVertical(o define.TextOrientation, seg *layout.Segment) bool {
	switch o {
	case define.OrientationVertical:
		return true
	case define.OrientationFollow:
		return seg.Axis == geometry.Vertical && seg.Lo != seg.Hi
	}
	return false
}

// clearance is the room a label claims perpendicular to its segment:
// the label distance plus the label extent across the segment.
func (p *placedLabel) clearance() float64 {
	if p.Segment.Axis == geometry.Horizontal {
		return p.Distance + p.Block.Height
	}
	return p.Distance + p.Block.Width
}
