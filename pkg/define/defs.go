package define

// Definition is the merged content of a diagram definition file and all of
// its includes, decoded and type-checked but not yet laid out on the grid.
type Definition struct {
	// Diagram holds the attributes of the diagram section.
	Diagram Attributes

	// Rows is the logical grid, row by row. The empty string marks an
	// anonymous cell. Rows may have different lengths; the grid builder
	// pads them.
	Rows [][]string

	// Blocks lists the explicit block definitions in declaration order.
	Blocks []BlockDef

	// Connections lists the connection definitions in declaration order,
	// already expanded to one record per start×end pair.
	Connections []ConnectionDef

	// Styles maps style names to their attributes. StyleOrder preserves
	// declaration order for deterministic diagnostics.
	Styles     map[string]*Attributes
	StyleOrder []string

	// Groups maps group names to attributes shared by the group's
	// connections.
	Groups     map[string]*Attributes
	GroupOrder []string
}

// Style returns the named style, or nil if absent.
func (d *Definition) Style(name string) *Attributes {
	if d.Styles == nil {
		return nil
	}
	return d.Styles[name]
}

// BlockDef is one entry of the blocks section.
type BlockDef struct {
	// Name is the block name; it doubles as a grid tag. Empty for
	// anonymous blocks.
	Name string

	// Tags are additional grid tags claimed by this block.
	Tags []string

	// Styles are the named styles referenced by this block, in order.
	Styles []string

	// Attrs are the attributes set directly on this definition.
	Attrs Attributes
}

// Terminal is one endpoint of a connection definition.
type Terminal struct {
	// Block is the name of the target block.
	Block string

	// Cell optionally narrows the attachment to the cells of the block
	// carrying this tag.
	Cell string
}

// LabelDef is a start/middle/end label of a connection.
type LabelDef struct {
	// Text is the label content. May be empty when only attributes are
	// given; the renderer then falls back to the connection label.
	Text string

	// Attrs carry per-label text attribute overrides.
	Attrs Attributes
}

// ConnectionDef is one expanded connection record: exactly one start and
// one end terminal.
type ConnectionDef struct {
	Start Terminal
	End   Terminal

	// Group is the connection group name, empty for ungrouped.
	Group string

	// Styles are the named styles referenced by this connection.
	Styles []string

	// Attrs are the attributes set directly on the definition.
	Attrs Attributes

	StartLabel  *LabelDef
	MiddleLabel *LabelDef
	EndLabel    *LabelDef
}
