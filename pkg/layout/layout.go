package layout

import (
	"sort"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/geometry"
)

// Layout is the routed diagram: every connection has a route over the
// refinement grid and every segment an offset slot on its line.
type Layout struct {
	Diagram *define.Diagram
	Grid    *Grid

	// Routes are in drawing order: groups contiguous, ordered by
	// ascending effective priority, definition order otherwise.
	Routes []*Route

	// Lines maps each used refinement line to its segments; SlotCount
	// is the number of offset slots the line needs.
	Lines     map[LineKey][]*Segment
	SlotCount map[LineKey]int

	// ArrowRoom is the room each block side must reserve for
	// arrowheads, keyed by block index.
	ArrowRoom map[int]map[geometry.Side]float64
}

// New routes every connection of the diagram and optimizes the result
// for drawing. The refinement factor k controls how many tracks each
// logical row and column contributes; DefaultRefinement fits most
// diagrams.
func New(d *define.Diagram, k int) (*Layout, error) {
	grid, err := NewGrid(d, k)
	if err != nil {
		return nil, err
	}

	r := &router{grid: grid}
	routes := make([]*Route, 0, len(d.Connections))
	for _, conn := range d.Connections {
		route, err := r.route(conn)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	o := &optimizer{routes: routes}
	routes = o.reorder()
	o.routes = routes
	o.adoptPriorities()
	sort.SliceStable(routes, func(a, b int) bool {
		return routes[a].Priority < routes[b].Priority
	})

	l := &Layout{
		Diagram:   d,
		Grid:      grid,
		Routes:    routes,
		Lines:     o.collectLines(),
		SlotCount: make(map[LineKey]int),
		ArrowRoom: reserveArrows(routes),
	}
	for key, segments := range l.Lines {
		intervals := buildIntervals(segments, d.Attrs.CollapseConnections)
		l.SlotCount[key] = assignSlots(intervals)
	}
	return l, nil
}

// LineKeys returns the used refinement lines in a fixed order: rows
// before columns, ascending line index.
func (l *Layout) LineKeys() []LineKey {
	keys := make([]LineKey, 0, len(l.Lines))
	for key := range l.Lines {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].Axis != keys[b].Axis {
			return keys[a].Axis < keys[b].Axis
		}
		return keys[a].Line < keys[b].Line
	})
	return keys
}
