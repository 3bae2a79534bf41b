package define

import (
	"fmt"
	"sort"

	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
)

// Build converts a decoded DDF document into a Definition. The document is
// the merged result of include resolution; any remaining "include" key is
// ignored here.
//
// Unknown top-level keys and unknown attribute keys are definition errors.
func Build(doc map[string]any) (*Definition, error) {
	def := &Definition{
		Styles: make(map[string]*Attributes),
		Groups: make(map[string]*Attributes),
	}
	b := &builder{def: def}

	for _, key := range sortedKeys(doc) {
		switch key {
		case "diagram", "rows", "blocks", "connections", "styles", "groups", "include":
		default:
			return nil, errors.New(errors.ErrCodeDefinition, "unknown top-level key %q", key)
		}
	}

	// Styles first: blocks, connections and labels resolve against them.
	if v, ok := doc["styles"]; ok {
		if err := b.parseStyles(v); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["groups"]; ok {
		if err := b.parseGroups(v); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["diagram"]; ok {
		if err := b.parseDiagram(v); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["rows"]; ok {
		if err := b.parseRows(v); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["blocks"]; ok {
		if err := b.parseBlocks(v); err != nil {
			return nil, err
		}
	}
	if v, ok := doc["connections"]; ok {
		if err := b.parseConnections(v); err != nil {
			return nil, err
		}
	}

	return def, nil
}

type builder struct {
	def *Definition
}

func (b *builder) parseDiagram(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "diagram section must be a mapping, got %T", v)
	}
	attrs, err := decodeAttributes(m, diagramAttrKeys, nil, "diagram")
	if err != nil {
		return err
	}
	b.def.Diagram = *attrs
	return nil
}

func (b *builder) parseRows(v any) error {
	seq, ok := v.([]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "rows section must be a sequence, got %T", v)
	}
	for i, rowVal := range seq {
		cells, ok := rowVal.([]any)
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "row %d must be a sequence, got %T", i, rowVal)
		}
		row := make([]string, len(cells))
		for j, cellVal := range cells {
			tag, err := cellString(cellVal)
			if err != nil {
				return errors.New(errors.ErrCodeDefinition, "row %d cell %d: %v", i, j, err)
			}
			row[j] = tag
		}
		b.def.Rows = append(b.def.Rows, row)
	}
	return nil
}

func (b *builder) parseStyles(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "styles section must be a mapping, got %T", v)
	}
	for _, name := range sortedKeys(m) {
		body, ok := m[name].(map[string]any)
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "style %q must be a mapping, got %T", name, m[name])
		}
		if _, ok := body["style"]; ok {
			return errors.New(errors.ErrCodeDefinition, "style %q must not reference other styles", name)
		}
		attrs, err := decodeAttributes(body, styleAttrKeys, nil, fmt.Sprintf("style %q", name))
		if err != nil {
			return err
		}
		b.def.Styles[name] = attrs
		b.def.StyleOrder = append(b.def.StyleOrder, name)
	}
	return nil
}

func (b *builder) parseGroups(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "groups section must be a mapping, got %T", v)
	}
	for _, name := range sortedKeys(m) {
		body, ok := m[name].(map[string]any)
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "group %q must be a mapping, got %T", name, m[name])
		}
		styleRefs, err := styleRefList(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDefinition, err, "group %q", name)
		}
		attrs := &Attributes{}
		for _, ref := range styleRefs {
			styleAttrs := b.def.Style(ref)
			if styleAttrs == nil {
				return errors.New(errors.ErrCodeDefinition, "group %q references unknown style %q", name, ref)
			}
			attrs.Merge(styleAttrs)
		}
		own, err := decodeAttributes(body, connectionAttrKeys, structuralStyleKeys, fmt.Sprintf("group %q", name))
		if err != nil {
			return err
		}
		attrs.Merge(own)
		b.def.Groups[name] = attrs
		b.def.GroupOrder = append(b.def.GroupOrder, name)
	}
	return nil
}

func (b *builder) parseBlocks(v any) error {
	seq, ok := v.([]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "blocks section must be a sequence, got %T", v)
	}
	for i, item := range seq {
		body, ok := item.(map[string]any)
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "block %d must be a mapping, got %T", i, item)
		}
		bd := BlockDef{}
		if nameVal, ok := body["name"]; ok {
			name, err := cellString(nameVal)
			if err != nil {
				return errors.New(errors.ErrCodeDefinition, "block %d name: %v", i, err)
			}
			bd.Name = name
		}
		where := fmt.Sprintf("block %d", i)
		if bd.Name != "" {
			where = fmt.Sprintf("block %q", bd.Name)
		}
		if err := errors.ValidateEntityName(bd.Name); err != nil {
			return err
		}
		if tagsVal, ok := body["tags"]; ok {
			tags, err := toStringList(tagsVal)
			if err != nil {
				return errors.New(errors.ErrCodeDefinition, "%s tags: %v", where, err)
			}
			bd.Tags = tags
		}
		styleRefs, err := styleRefList(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDefinition, err, "%s", where)
		}
		bd.Styles = styleRefs
		attrs, err := decodeAttributes(body, blockAttrKeys, structuralBlockKeys, where)
		if err != nil {
			return err
		}
		bd.Attrs = *attrs
		b.def.Blocks = append(b.def.Blocks, bd)
	}
	return nil
}

func (b *builder) parseConnections(v any) error {
	seq, ok := v.([]any)
	if !ok {
		return errors.New(errors.ErrCodeDefinition, "connections section must be a sequence, got %T", v)
	}
	for i, item := range seq {
		body, ok := item.(map[string]any)
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "connection %d must be a mapping, got %T", i, item)
		}
		where := fmt.Sprintf("connection %d", i)

		startVal, ok := body["start"]
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "%s: missing start", where)
		}
		endVal, ok := body["end"]
		if !ok {
			return errors.New(errors.ErrCodeDefinition, "%s: missing end", where)
		}
		starts, err := decodeTerminals(startVal)
		if err != nil {
			return errors.New(errors.ErrCodeDefinition, "%s start: %v", where, err)
		}
		ends, err := decodeTerminals(endVal)
		if err != nil {
			return errors.New(errors.ErrCodeDefinition, "%s end: %v", where, err)
		}

		var group string
		if groupVal, ok := body["group"]; ok && groupVal != nil {
			group, err = toString(groupVal)
			if err != nil {
				return errors.New(errors.ErrCodeDefinition, "%s group: %v", where, err)
			}
		}
		styleRefs, err := styleRefList(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeDefinition, err, "%s", where)
		}
		attrs, err := decodeAttributes(body, connectionAttrKeys, structuralConnectionKeys, where)
		if err != nil {
			return err
		}

		var startLabel, middleLabel, endLabel *LabelDef
		if lv, ok := body["start_label"]; ok {
			if startLabel, err = b.decodeLabelDef(lv); err != nil {
				return errors.Wrap(errors.ErrCodeDefinition, err, "%s start_label", where)
			}
		}
		if lv, ok := body["middle_label"]; ok {
			if middleLabel, err = b.decodeLabelDef(lv); err != nil {
				return errors.Wrap(errors.ErrCodeDefinition, err, "%s middle_label", where)
			}
		}
		if lv, ok := body["end_label"]; ok {
			if endLabel, err = b.decodeLabelDef(lv); err != nil {
				return errors.Wrap(errors.ErrCodeDefinition, err, "%s end_label", where)
			}
		}
		// "label" is an alias for the middle label.
		if lv, ok := body["label"]; ok && middleLabel == nil {
			if middleLabel, err = b.decodeLabelDef(lv); err != nil {
				return errors.Wrap(errors.ErrCodeDefinition, err, "%s label", where)
			}
		}

		// Cartesian product of starts and ends, declaration order.
		for _, start := range starts {
			for _, end := range ends {
				b.def.Connections = append(b.def.Connections, ConnectionDef{
					Start:       start,
					End:         end,
					Group:       group,
					Styles:      styleRefs,
					Attrs:       *attrs,
					StartLabel:  startLabel,
					MiddleLabel: middleLabel,
					EndLabel:    endLabel,
				})
			}
		}
	}
	return nil
}

// decodeLabelDef parses a connection label: null, a plain string, or a
// mapping with a label text, style references, and text attributes.
func (b *builder) decodeLabelDef(v any) (*LabelDef, error) {
	switch val := v.(type) {
	case nil:
		return &LabelDef{}, nil
	case string:
		return &LabelDef{Text: val}, nil
	case map[string]any:
		ld := &LabelDef{}
		styleRefs, err := styleRefList(val)
		if err != nil {
			return nil, err
		}
		attrs := &Attributes{}
		for _, ref := range styleRefs {
			styleAttrs := b.def.Style(ref)
			if styleAttrs == nil {
				return nil, errors.New(errors.ErrCodeDefinition, "unknown style %q", ref)
			}
			attrs.Merge(styleAttrs)
		}
		own, err := decodeAttributes(val, labelAttrKeys, structuralStyleKeys, "label")
		if err != nil {
			return nil, err
		}
		attrs.Merge(own)
		if attrs.Label != nil {
			ld.Text = *attrs.Label
			attrs.Label = nil
		}
		ld.Attrs = *attrs
		return ld, nil
	default:
		return nil, errors.New(errors.ErrCodeDefinition, "label must be a string or mapping, got %T", v)
	}
}

// decodeTerminals parses a connection start or end: a block name, a
// sequence of block names, or a mapping from block names to cell tags.
func decodeTerminals(v any) ([]Terminal, error) {
	switch val := v.(type) {
	case string:
		return []Terminal{{Block: val}}, nil
	case []any:
		terminals := make([]Terminal, 0, len(val))
		for _, item := range val {
			name, err := toString(item)
			if err != nil {
				return nil, err
			}
			terminals = append(terminals, Terminal{Block: name})
		}
		if len(terminals) == 0 {
			return nil, fmt.Errorf("empty terminal list")
		}
		return terminals, nil
	case map[string]any:
		terminals := make([]Terminal, 0, len(val))
		for _, name := range sortedKeys(val) {
			tag, err := toString(val[name])
			if err != nil {
				return nil, err
			}
			terminals = append(terminals, Terminal{Block: name, Cell: tag})
		}
		if len(terminals) == 0 {
			return nil, fmt.Errorf("empty terminal mapping")
		}
		return terminals, nil
	default:
		return nil, fmt.Errorf("must be a block name, a sequence of names, or a mapping of name to cell tag, got %T", v)
	}
}

// Attribute key applicability per entity kind.
var (
	textAttrNames = []string{
		"text_fill", "text_line_height", "font_family",
		"font_size", "font_style", "font_weight",
	}

	diagramAttrKeys = keySet(append([]string{
		"fill", "label", "label_position", "label_distance",
		"min_width", "min_height", "connection_distance",
		"collapse_connections", "scale", "stroke_width",
	}, textAttrNames...))

	blockAttrKeys = keySet(append([]string{
		"fill", "stroke", "stroke_width", "stroke_dasharray",
		"label", "label_position", "label_distance",
		"margin_top", "margin_bottom", "margin_left", "margin_right",
		"padding_top", "padding_bottom", "padding_left", "padding_right",
		"min_width", "min_height", "pass_through", "drawing_priority",
	}, textAttrNames...))

	connectionAttrKeys = keySet(append([]string{
		"stroke", "stroke_width", "stroke_dasharray",
		"arrow_forward", "arrow_back", "arrow_base", "arrow_aspect",
		"buffer_fill", "buffer_width", "drawing_priority",
		"entrances", "exits", "label_distance", "text_orientation",
	}, textAttrNames...))

	labelAttrKeys = keySet(append([]string{
		"label", "label_distance", "text_orientation",
	}, textAttrNames...))

	styleAttrKeys = union(diagramAttrKeys, blockAttrKeys, connectionAttrKeys)

	structuralBlockKeys      = keySet([]string{"name", "tags", "style"})
	structuralConnectionKeys = keySet([]string{
		"start", "end", "group", "style",
		"label", "start_label", "middle_label", "end_label",
	})
	structuralStyleKeys = keySet([]string{"style"})
)

// decodeAttributes decodes the attribute keys of m into an Attributes
// record. Keys listed in skip are structural and handled by the caller;
// anything else not in allowed is a definition error.
func decodeAttributes(m map[string]any, allowed, skip map[string]struct{}, where string) (*Attributes, error) {
	a := &Attributes{}
	for _, key := range sortedKeys(m) {
		if skip != nil {
			if _, ok := skip[key]; ok {
				continue
			}
		}
		if _, ok := allowed[key]; !ok {
			return nil, errors.New(errors.ErrCodeDefinition, "unknown key %q in %s", key, where)
		}
		if err := decodeAttribute(a, key, m[key]); err != nil {
			return nil, errors.New(errors.ErrCodeDefinition, "%s: attribute %q: %v", where, key, err)
		}
	}
	return a, nil
}

func decodeAttribute(a *Attributes, key string, v any) error {
	var err error
	switch key {
	case "fill":
		a.Fill, err = decodeColor(v)
	case "stroke":
		a.Stroke, err = decodeColor(v)
	case "stroke_width":
		a.StrokeWidth, err = floatPtr(v)
	case "stroke_dasharray":
		a.StrokeDashArray, err = toFloatList(v)
	case "label":
		var s string
		if s, err = cellString(v); err == nil {
			a.Label = &s
		}
	case "label_position":
		a.LabelPosition, err = labelPositionPtr(v)
	case "label_distance":
		a.LabelDistance, err = floatPtr(v)
	case "text_fill":
		a.TextFill, err = decodeColor(v)
	case "text_line_height":
		a.TextLineHeight, err = floatPtr(v)
	case "text_orientation":
		a.TextOrientation, err = textOrientationPtr(v)
	case "font_family":
		var s string
		if s, err = toString(v); err == nil {
			a.FontFamily = &s
		}
	case "font_size":
		a.FontSize, err = floatPtr(v)
	case "font_style":
		a.FontStyle, err = fontStylePtr(v)
	case "font_weight":
		a.FontWeight, err = fontWeightPtr(v)
	case "arrow_forward":
		a.ArrowForward, err = boolPtr(v)
	case "arrow_back":
		a.ArrowBack, err = boolPtr(v)
	case "arrow_base":
		a.ArrowBase, err = floatPtr(v)
	case "arrow_aspect":
		a.ArrowAspect, err = floatPtr(v)
	case "buffer_fill":
		a.BufferFill, err = decodeColor(v)
	case "buffer_width":
		a.BufferWidth, err = floatPtr(v)
	case "margin_top":
		a.MarginTop, err = floatPtr(v)
	case "margin_bottom":
		a.MarginBottom, err = floatPtr(v)
	case "margin_left":
		a.MarginLeft, err = floatPtr(v)
	case "margin_right":
		a.MarginRight, err = floatPtr(v)
	case "padding_top":
		a.PaddingTop, err = floatPtr(v)
	case "padding_bottom":
		a.PaddingBottom, err = floatPtr(v)
	case "padding_left":
		a.PaddingLeft, err = floatPtr(v)
	case "padding_right":
		a.PaddingRight, err = floatPtr(v)
	case "min_width":
		a.MinWidth, err = floatPtr(v)
	case "min_height":
		a.MinHeight, err = floatPtr(v)
	case "connection_distance":
		a.ConnectionDistance, err = floatPtr(v)
	case "collapse_connections":
		a.CollapseConnections, err = boolPtr(v)
	case "scale":
		a.Scale, err = floatPtr(v)
	case "drawing_priority":
		a.DrawingPriority, err = intPtr(v)
	case "entrances":
		a.Entrances, err = decodeSides(v)
	case "exits":
		a.Exits, err = decodeSides(v)
	case "pass_through":
		a.PassThrough, err = boolPtr(v)
	default:
		err = fmt.Errorf("unhandled attribute")
	}
	return err
}

// styleRefList extracts the "style" key: a single style name or a list.
func styleRefList(m map[string]any) ([]string, error) {
	v, ok := m["style"]
	if !ok || v == nil {
		return nil, nil
	}
	refs, err := toStringList(v)
	if err != nil {
		return nil, fmt.Errorf("style: %v", err)
	}
	return refs, nil
}

// Scalar decoding helpers. YAML numbers arrive as int or float64.

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	}
	return 0, fmt.Errorf("expected an integer, got %T", v)
}

func toBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("expected a boolean, got %T", v)
}

func toString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}

// cellString converts a grid cell or label value to a string. Null means
// anonymous; scalars are stringified the way they appear in the file.
func cellString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case int, int64, float64, bool:
		return fmt.Sprint(val), nil
	}
	return "", fmt.Errorf("expected a scalar, got %T", v)
}

func toStringList(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, err := toString(item)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("expected a string or sequence of strings, got %T", v)
}

func toFloatList(v any) ([]float64, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence of numbers, got %T", v)
	}
	out := make([]float64, 0, len(seq))
	for _, item := range seq {
		f, err := toFloat(item)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func decodeSides(v any) ([]geometry.Side, error) {
	names, err := toStringList(v)
	if err != nil {
		return nil, err
	}
	sides := make([]geometry.Side, 0, len(names))
	for _, name := range names {
		side, ok := geometry.ParseSide(name)
		if !ok {
			return nil, fmt.Errorf("unknown side %q", name)
		}
		sides = append(sides, side)
	}
	if len(sides) == 0 {
		return nil, fmt.Errorf("empty side list")
	}
	return sides, nil
}

func floatPtr(v any) (*float64, error) {
	f, err := toFloat(v)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func intPtr(v any) (*int, error) {
	n, err := toInt(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func boolPtr(v any) (*bool, error) {
	b, err := toBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func labelPositionPtr(v any) (*LabelPosition, error) {
	s, err := toString(v)
	if err != nil {
		return nil, err
	}
	p, ok := ParseLabelPosition(s)
	if !ok {
		return nil, fmt.Errorf("unknown label position %q", s)
	}
	return &p, nil
}

func textOrientationPtr(v any) (*TextOrientation, error) {
	s, err := toString(v)
	if err != nil {
		return nil, err
	}
	o, ok := ParseTextOrientation(s)
	if !ok {
		return nil, fmt.Errorf("unknown text orientation %q", s)
	}
	return &o, nil
}

func fontStylePtr(v any) (*FontStyle, error) {
	s, err := toString(v)
	if err != nil {
		return nil, err
	}
	fs, ok := ParseFontStyle(s)
	if !ok {
		return nil, fmt.Errorf("unknown font style %q", s)
	}
	return &fs, nil
}

func fontWeightPtr(v any) (*FontWeight, error) {
	s, err := toString(v)
	if err != nil {
		return nil, err
	}
	fw, ok := ParseFontWeight(s)
	if !ok {
		return nil, fmt.Errorf("unknown font weight %q", s)
	}
	return &fw, nil
}

func keySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func union(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, set := range sets {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
