package geometry

import "testing"

func TestParseSide(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Side
		ok    bool
	}{
		{
			name:  "top",
			input: "top",
			want:  Top,
			ok:    true,
		},
		{
			name:  "bottom",
			input: "bottom",
			want:  Bottom,
			ok:    true,
		},
		{
			name:  "left",
			input: "left",
			want:  Left,
			ok:    true,
		},
		{
			name:  "right",
			input: "right",
			want:  Right,
			ok:    true,
		},
		{
			name:  "unknown",
			input: "north",
			ok:    false,
		},
		{
			name:  "empty",
			input: "",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseSide(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseSide(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseSide(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSideAxis(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want Axis
	}{
		{
			name: "top is vertical",
			side: Top,
			want: Vertical,
		},
		{
			name: "bottom is vertical",
			side: Bottom,
			want: Vertical,
		},
		{
			name: "left is horizontal",
			side: Left,
			want: Horizontal,
		},
		{
			name: "right is horizontal",
			side: Right,
			want: Horizontal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.side.Axis(); got != tt.want {
				t.Errorf("Axis() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIntPointStep(t *testing.T) {
	tests := []struct {
		name string
		from IntPoint
		dir  Direction
		want IntPoint
	}{
		{
			name: "up",
			from: IntPoint{I: 3, J: 2},
			dir:  Up,
			want: IntPoint{I: 2, J: 2},
		},
		{
			name: "down",
			from: IntPoint{I: 3, J: 2},
			dir:  Down,
			want: IntPoint{I: 4, J: 2},
		},
		{
			name: "left",
			from: IntPoint{I: 3, J: 2},
			dir:  LeftWard,
			want: IntPoint{I: 3, J: 1},
		},
		{
			name: "right",
			from: IntPoint{I: 3, J: 2},
			dir:  RightWard,
			want: IntPoint{I: 3, J: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Step(tt.dir); got != tt.want {
				t.Errorf("Step(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestIntPointDirectionTo(t *testing.T) {
	p := IntPoint{I: 1, J: 1}

	tests := []struct {
		name string
		to   IntPoint
		want Direction
		ok   bool
	}{
		{
			name: "up neighbour",
			to:   IntPoint{I: 0, J: 1},
			want: Up,
			ok:   true,
		},
		{
			name: "right neighbour",
			to:   IntPoint{I: 1, J: 2},
			want: RightWard,
			ok:   true,
		},
		{
			name: "diagonal is not a neighbour",
			to:   IntPoint{I: 2, J: 2},
			ok:   false,
		},
		{
			name: "same point is not a neighbour",
			to:   IntPoint{I: 1, J: 1},
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.DirectionTo(tt.to)
			if ok != tt.ok {
				t.Fatalf("DirectionTo(%v) ok = %v, want %v", tt.to, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("DirectionTo(%v) = %v, want %v", tt.to, got, tt.want)
			}
		})
	}
}

func TestIntBounds(t *testing.T) {
	b := IntBounds{MinRow: 1, MinCol: 1, MaxRow: 2, MaxCol: 3}

	if got := b.Rows(); got != 2 {
		t.Errorf("Rows() = %d, want 2", got)
	}
	if got := b.Cols(); got != 3 {
		t.Errorf("Cols() = %d, want 3", got)
	}
	if got := b.Cells(); got != 6 {
		t.Errorf("Cells() = %d, want 6", got)
	}
	if !b.Contains(2, 3) {
		t.Error("Contains(2, 3) = false, want true")
	}
	if b.Contains(3, 1) {
		t.Error("Contains(3, 1) = true, want false")
	}

	grown := b.Expand(0, 5)
	want := IntBounds{MinRow: 0, MinCol: 1, MaxRow: 2, MaxCol: 5}
	if grown != want {
		t.Errorf("Expand(0, 5) = %+v, want %+v", grown, want)
	}
}

func TestIntBoundsOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b IntBounds
		want bool
	}{
		{
			name: "disjoint columns",
			a:    IntBounds{MinRow: 0, MinCol: 0, MaxRow: 0, MaxCol: 1},
			b:    IntBounds{MinRow: 0, MinCol: 2, MaxRow: 0, MaxCol: 3},
			want: false,
		},
		{
			name: "shared cell",
			a:    IntBounds{MinRow: 0, MinCol: 0, MaxRow: 1, MaxCol: 1},
			b:    IntBounds{MinRow: 1, MinCol: 1, MaxRow: 2, MaxCol: 2},
			want: true,
		},
		{
			name: "nested",
			a:    IntBounds{MinRow: 0, MinCol: 0, MaxRow: 3, MaxCol: 3},
			b:    IntBounds{MinRow: 1, MinCol: 1, MaxRow: 2, MaxCol: 2},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
		})
	}
}
