package define

import (
	"sort"

	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
)

// Grid is the logical grid of tagged cells, padded to a common width.
type Grid struct {
	Rows int
	Cols int

	cells [][]string
}

// Tag returns the tag of the cell at (row, col), empty for anonymous
// cells.
func (g *Grid) Tag(row, col int) string {
	return g.cells[row][col]
}

// CellsWithTag returns the positions of all cells carrying the tag, in
// row-major order.
func (g *Grid) CellsWithTag(tag string) []geometry.IntPoint {
	var out []geometry.IntPoint
	for i := 0; i < g.Rows; i++ {
		for j := 0; j < g.Cols; j++ {
			if g.cells[i][j] == tag {
				out = append(out, geometry.IntPoint{I: i, J: j})
			}
		}
	}
	return out
}

// Block is a named rectangle on the logical grid.
type Block struct {
	// Index is the block's position in Diagram.Blocks; routes and
	// segments refer to blocks by index.
	Index int

	// Name is the block name; for autoblocks it is the leftover tag.
	Name string

	// Auto marks blocks synthesized from leftover tags.
	Auto bool

	// Tags are the grid tags claimed by this block.
	Tags []string

	// Cover is the rectangular grid area the block occupies.
	Cover geometry.IntBounds

	// Attrs are the resolved block attributes.
	Attrs BlockAttributes
}

// Label returns the text drawn inside the block: the label attribute when
// set, the block name otherwise.
func (b *Block) Label() string {
	if b.Attrs.LabelSet {
		return b.Attrs.Label
	}
	return b.Name
}

// HasTag reports whether the block claims the given tag.
func (b *Block) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Label is a resolved text label of a connection or the diagram.
type Label struct {
	Text        string
	Distance    float64
	Orientation TextOrientation
	Style       TextStyle
}

// Connection is a resolved, expanded connection between two blocks.
type Connection struct {
	// Index is the connection's position in Diagram.Connections;
	// definition order drives routing and tie-breaking.
	Index int

	Start *Block
	End   *Block

	// StartCell and EndCell optionally narrow the attachment to the
	// cells of the endpoint block carrying this tag.
	StartCell string
	EndCell   string

	Attrs ConnectionAttributes

	StartLabel  *Label
	MiddleLabel *Label
	EndLabel    *Label
}

// Diagram is the validated diagram model: grid, blocks and connections
// with all attribute inheritance resolved.
type Diagram struct {
	Attrs       DiagramAttributes
	Grid        *Grid
	Blocks      []*Block
	Connections []*Connection

	byName map[string]*Block
}

// BlockByName returns the block with the given name, or nil.
func (d *Diagram) BlockByName(name string) *Block {
	return d.byName[name]
}

// DrawOrder returns the blocks in drawing order: autoblocks first in tag
// first-appearance order, then explicit blocks by ascending drawing
// priority, ties broken by definition order.
func (d *Diagram) DrawOrder() []*Block {
	out := make([]*Block, len(d.Blocks))
	copy(out, d.Blocks)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Auto != out[b].Auto {
			return out[a].Auto
		}
		return out[a].Attrs.DrawingPriority < out[b].Attrs.DrawingPriority
	})
	return out
}

// NewDiagram builds and validates the diagram model from a Definition.
func NewDiagram(def *Definition) (*Diagram, error) {
	grid := buildGrid(def.Rows)
	d := &Diagram{
		Attrs:  resolveDiagram(&def.Diagram),
		Grid:   grid,
		byName: make(map[string]*Block),
	}

	if err := d.buildBlocks(def); err != nil {
		return nil, err
	}
	if err := d.buildConnections(def); err != nil {
		return nil, err
	}
	return d, nil
}

func buildGrid(rows [][]string) *Grid {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		padded := make([]string, cols)
		copy(padded, row)
		cells[i] = padded
	}
	return &Grid{Rows: len(rows), Cols: cols, cells: cells}
}

func (d *Diagram) buildBlocks(def *Definition) error {
	// Tags explicitly claimed by some block definition, used for the
	// foreign-cell check and leftover detection.
	claimed := make(map[string]struct{})
	names := make(map[string]struct{})
	for _, bd := range def.Blocks {
		if bd.Name != "" {
			if _, dup := names[bd.Name]; dup {
				return errors.New(errors.ErrCodeLayout, "duplicate block name %q", bd.Name)
			}
			names[bd.Name] = struct{}{}
			claimed[bd.Name] = struct{}{}
		}
		for _, tag := range bd.Tags {
			claimed[tag] = struct{}{}
		}
	}
	for _, bd := range def.Blocks {
		for _, tag := range bd.Tags {
			if _, isName := names[tag]; isName && tag != bd.Name {
				return errors.New(errors.ErrCodeLayout,
					"tag %q of block %q is the name of another block", tag, bd.Name)
			}
		}
	}

	// Leftover tags become autoblocks, ordered by first appearance.
	var leftovers []string
	seen := make(map[string]struct{})
	for i := 0; i < d.Grid.Rows; i++ {
		for j := 0; j < d.Grid.Cols; j++ {
			tag := d.Grid.Tag(i, j)
			if tag == "" {
				continue
			}
			if _, ok := claimed[tag]; ok {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			leftovers = append(leftovers, tag)
		}
	}

	defaultBlock := def.Style("default_block")

	for _, tag := range leftovers {
		attrs := &Attributes{}
		attrs.Merge(defaultBlock)
		block := &Block{
			Index: len(d.Blocks),
			Name:  tag,
			Auto:  true,
			Tags:  []string{tag},
			Attrs: resolveBlock(attrs, &d.Attrs),
		}
		cover, err := d.coverFor(block, claimed)
		if err != nil {
			return err
		}
		block.Cover = cover
		d.Blocks = append(d.Blocks, block)
		d.byName[tag] = block
	}

	for i, bd := range def.Blocks {
		attrs := &Attributes{}
		attrs.Merge(defaultBlock)
		for _, ref := range bd.Styles {
			styleAttrs := def.Style(ref)
			if styleAttrs == nil {
				return errors.New(errors.ErrCodeDefinition,
					"block %q references unknown style %q", bd.Name, ref)
			}
			attrs.Merge(styleAttrs)
		}
		own := bd.Attrs
		attrs.Merge(&own)

		tags := make([]string, 0, len(bd.Tags)+1)
		if bd.Name != "" {
			tags = append(tags, bd.Name)
		}
		tags = append(tags, bd.Tags...)

		block := &Block{
			Index: len(d.Blocks),
			Name:  bd.Name,
			Tags:  tags,
			Attrs: resolveBlock(attrs, &d.Attrs),
		}
		cover, err := d.coverFor(block, claimed)
		if err != nil {
			if bd.Name == "" {
				return errors.Wrap(errors.ErrCodeLayout, err, "block at position %d", i)
			}
			return err
		}
		block.Cover = cover
		d.Blocks = append(d.Blocks, block)
		if bd.Name != "" {
			d.byName[bd.Name] = block
		}
	}
	return nil
}

// coverFor computes and validates the rectangular cover of a block: the
// bounding rectangle of all cells carrying its tags. Anonymous and
// leftover cells inside the rectangle are absorbed; cells claimed by a
// different block are foreign and rejected.
func (d *Diagram) coverFor(block *Block, claimed map[string]struct{}) (geometry.IntBounds, error) {
	var cover geometry.IntBounds
	found := false
	for i := 0; i < d.Grid.Rows; i++ {
		for j := 0; j < d.Grid.Cols; j++ {
			if !block.HasTag(d.Grid.Tag(i, j)) || d.Grid.Tag(i, j) == "" {
				continue
			}
			if !found {
				cover = geometry.IntBounds{MinRow: i, MinCol: j, MaxRow: i, MaxCol: j}
				found = true
			} else {
				cover = cover.Expand(i, j)
			}
		}
	}
	if !found {
		return cover, errors.New(errors.ErrCodeLayout, "block %q covers no cells", block.Name)
	}
	for i := cover.MinRow; i <= cover.MaxRow; i++ {
		for j := cover.MinCol; j <= cover.MaxCol; j++ {
			tag := d.Grid.Tag(i, j)
			if tag == "" || block.HasTag(tag) {
				continue
			}
			if _, foreign := claimed[tag]; foreign {
				return cover, errors.New(errors.ErrCodeLayout,
					"cover of block %q is not rectangular: cell (%d,%d) belongs to %q",
					block.Name, i, j, tag)
			}
		}
	}
	return cover, nil
}

func (d *Diagram) buildConnections(def *Definition) error {
	defaultConnection := def.Style("default_connection")

	for i, cd := range def.Connections {
		attrs := &Attributes{}
		attrs.Merge(defaultConnection)
		if cd.Group != "" {
			if groupAttrs, ok := def.Groups[cd.Group]; ok {
				attrs.Merge(groupAttrs)
			}
		}
		for _, ref := range cd.Styles {
			styleAttrs := def.Style(ref)
			if styleAttrs == nil {
				return errors.New(errors.ErrCodeDefinition,
					"connection %d references unknown style %q", i, ref)
			}
			attrs.Merge(styleAttrs)
		}
		own := cd.Attrs
		attrs.Merge(&own)
		resolved := resolveConnection(attrs, &d.Attrs)
		resolved.Group = cd.Group
		if attrs.Group != nil {
			resolved.Group = *attrs.Group
		}

		start, err := d.resolveTerminal(cd.Start, i)
		if err != nil {
			return err
		}
		end, err := d.resolveTerminal(cd.End, i)
		if err != nil {
			return err
		}
		if start.Cover.Overlaps(end.Cover) {
			return errors.New(errors.ErrCodeLayout,
				"connection %d: blocks %q and %q overlap", i, start.Name, end.Name)
		}

		conn := &Connection{
			Index:       len(d.Connections),
			Start:       start,
			End:         end,
			StartCell:   cd.Start.Cell,
			EndCell:     cd.End.Cell,
			Attrs:       resolved,
			StartLabel:  resolveLabel(cd.StartLabel, &resolved),
			MiddleLabel: resolveLabel(cd.MiddleLabel, &resolved),
			EndLabel:    resolveLabel(cd.EndLabel, &resolved),
		}
		d.Connections = append(d.Connections, conn)
	}
	return nil
}

func (d *Diagram) resolveTerminal(t Terminal, connIndex int) (*Block, error) {
	block := d.byName[t.Block]
	if block == nil {
		return nil, errors.New(errors.ErrCodeLayout,
			"connection %d references unknown block %q", connIndex, t.Block)
	}
	if t.Cell != "" {
		cells := d.Grid.CellsWithTag(t.Cell)
		if len(cells) == 0 {
			return nil, errors.New(errors.ErrCodeLayout,
				"connection %d: no cell tagged %q in block %q", connIndex, t.Cell, t.Block)
		}
		for _, cell := range cells {
			if !block.Cover.Contains(cell.I, cell.J) {
				return nil, errors.New(errors.ErrCodeLayout,
					"connection %d: cell tagged %q at %v lies outside block %q",
					connIndex, t.Cell, cell, t.Block)
			}
		}
	}
	return block, nil
}

// resolveLabel builds a resolved label from its definition, layering the
// label's own attributes over the connection's text attributes.
func resolveLabel(ld *LabelDef, conn *ConnectionAttributes) *Label {
	if ld == nil {
		return nil
	}
	label := &Label{
		Text:        ld.Text,
		Distance:    conn.LabelDistance,
		Orientation: conn.Orientation,
		Style:       conn.Text,
	}
	a := &ld.Attrs
	if a.LabelDistance != nil {
		label.Distance = *a.LabelDistance
	}
	if a.TextOrientation != nil {
		label.Orientation = *a.TextOrientation
	}
	label.Style = resolveTextOver(a, label.Style)
	return label
}
