package define

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
)

func parseDoc(t *testing.T, src string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	return doc
}

func TestBuildUnknownTopLevelKey(t *testing.T) {
	doc := parseDoc(t, `
rows:
  - [a]
widgets: []
`)
	_, err := Build(doc)
	if !errors.Is(err, errors.ErrCodeDefinition) {
		t.Fatalf("Build() error = %v, want DEFINITION_ERROR", err)
	}
}

func TestBuildUnknownAttribute(t *testing.T) {
	doc := parseDoc(t, `
blocks:
  - name: a
    colour: [1, 0, 0]
`)
	_, err := Build(doc)
	if !errors.Is(err, errors.ErrCodeDefinition) {
		t.Fatalf("Build() error = %v, want DEFINITION_ERROR", err)
	}
}

func TestBuildRows(t *testing.T) {
	doc := parseDoc(t, `
rows:
  - [a, b]
  - [~, c]
  - []
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := [][]string{{"a", "b"}, {"", "c"}, {}}
	if len(def.Rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(def.Rows), len(want))
	}
	for i, row := range want {
		if len(def.Rows[i]) != len(row) {
			t.Fatalf("row %d length = %d, want %d", i, len(def.Rows[i]), len(row))
		}
		for j, tag := range row {
			if def.Rows[i][j] != tag {
				t.Errorf("row %d cell %d = %q, want %q", i, j, def.Rows[i][j], tag)
			}
		}
	}
}

func TestBuildNumericTags(t *testing.T) {
	doc := parseDoc(t, `
rows:
  - [1, 2]
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if def.Rows[0][0] != "1" || def.Rows[0][1] != "2" {
		t.Errorf("numeric tags = %v, want [1 2]", def.Rows[0])
	}
}

func TestBuildConnectionCartesian(t *testing.T) {
	doc := parseDoc(t, `
connections:
  - start: [a, b]
    end: [c, d]
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(def.Connections) != 4 {
		t.Fatalf("connections = %d, want 4", len(def.Connections))
	}
	wantPairs := [][2]string{{"a", "c"}, {"a", "d"}, {"b", "c"}, {"b", "d"}}
	for i, want := range wantPairs {
		c := def.Connections[i]
		if c.Start.Block != want[0] || c.End.Block != want[1] {
			t.Errorf("connection %d = %s->%s, want %s->%s",
				i, c.Start.Block, c.End.Block, want[0], want[1])
		}
	}
}

func TestBuildTerminalMapping(t *testing.T) {
	doc := parseDoc(t, `
connections:
  - start: {tank: inlet}
    end: pump
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c := def.Connections[0]
	if c.Start.Block != "tank" || c.Start.Cell != "inlet" {
		t.Errorf("start = %+v, want block tank cell inlet", c.Start)
	}
	if c.End.Block != "pump" || c.End.Cell != "" {
		t.Errorf("end = %+v, want block pump", c.End)
	}
}

func TestBuildLabelAlias(t *testing.T) {
	doc := parseDoc(t, `
connections:
  - start: a
    end: b
    label: flow
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c := def.Connections[0]
	if c.MiddleLabel == nil || c.MiddleLabel.Text != "flow" {
		t.Errorf("MiddleLabel = %+v, want text flow", c.MiddleLabel)
	}
	if c.StartLabel != nil || c.EndLabel != nil {
		t.Error("start/end labels should be unset")
	}
}

func TestBuildLabelMapping(t *testing.T) {
	doc := parseDoc(t, `
connections:
  - start: a
    end: b
    middle_label:
      label: flow
      font_size: 10
      text_orientation: horizontal
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	ld := def.Connections[0].MiddleLabel
	if ld == nil {
		t.Fatal("MiddleLabel is nil")
	}
	if ld.Text != "flow" {
		t.Errorf("Text = %q, want flow", ld.Text)
	}
	if ld.Attrs.FontSize == nil || *ld.Attrs.FontSize != 10 {
		t.Errorf("FontSize = %v, want 10", ld.Attrs.FontSize)
	}
	if ld.Attrs.TextOrientation == nil || *ld.Attrs.TextOrientation != OrientationHorizontal {
		t.Errorf("TextOrientation = %v, want horizontal", ld.Attrs.TextOrientation)
	}
}

func TestBuildConnectionSides(t *testing.T) {
	doc := parseDoc(t, `
connections:
  - start: a
    end: b
    exits: [right]
    entrances: [left, top]
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c := def.Connections[0]
	if len(c.Attrs.Exits) != 1 || c.Attrs.Exits[0] != geometry.Right {
		t.Errorf("Exits = %v, want [right]", c.Attrs.Exits)
	}
	if len(c.Attrs.Entrances) != 2 {
		t.Errorf("Entrances = %v, want two sides", c.Attrs.Entrances)
	}
}

func TestBuildStyleMustNotNest(t *testing.T) {
	doc := parseDoc(t, `
styles:
  fancy:
    style: other
`)
	_, err := Build(doc)
	if !errors.Is(err, errors.ErrCodeDefinition) {
		t.Fatalf("Build() error = %v, want DEFINITION_ERROR", err)
	}
}

func TestBuildMissingStart(t *testing.T) {
	doc := parseDoc(t, `
connections:
  - end: b
`)
	_, err := Build(doc)
	if !errors.Is(err, errors.ErrCodeDefinition) {
		t.Fatalf("Build() error = %v, want DEFINITION_ERROR", err)
	}
}

func TestBuildGroupFoldsStyles(t *testing.T) {
	doc := parseDoc(t, `
styles:
  thick:
    stroke_width: 6
groups:
  water:
    style: thick
    buffer_width: 2
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	g := def.Groups["water"]
	if g == nil {
		t.Fatal("group water missing")
	}
	if g.StrokeWidth == nil || *g.StrokeWidth != 6 {
		t.Errorf("StrokeWidth = %v, want 6 via style", g.StrokeWidth)
	}
	if g.BufferWidth == nil || *g.BufferWidth != 2 {
		t.Errorf("BufferWidth = %v, want 2", g.BufferWidth)
	}
}

func TestBuildColorAttribute(t *testing.T) {
	doc := parseDoc(t, `
blocks:
  - name: a
    fill: [1, 0.5, 0]
    stroke: ~
`)
	def, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	b := def.Blocks[0]
	if b.Attrs.Fill == nil {
		t.Fatal("Fill is nil")
	}
	want := Color{R: 1, G: 0.5, B: 0, A: 1}
	if *b.Attrs.Fill != want {
		t.Errorf("Fill = %+v, want %+v", *b.Attrs.Fill, want)
	}
	if b.Attrs.Stroke != nil {
		t.Error("null stroke should stay unset")
	}
}

func TestBuildBadColor(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "too many components",
			src:  "blocks:\n  - name: a\n    fill: [1, 0, 0, 1, 0]\n",
		},
		{
			name: "out of range",
			src:  "blocks:\n  - name: a\n    fill: [2, 0, 0]\n",
		},
		{
			name: "not a sequence",
			src:  "blocks:\n  - name: a\n    fill: red\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(parseDoc(t, tt.src))
			if !errors.Is(err, errors.ErrCodeDefinition) {
				t.Fatalf("Build() error = %v, want DEFINITION_ERROR", err)
			}
		})
	}
}
