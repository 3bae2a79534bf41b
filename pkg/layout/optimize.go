package layout

import (
	"sort"

	"github.com/yorgath/orthogram/pkg/geometry"
)

// LineKey identifies one refinement line of the lattice: a row line
// carrying horizontal segments or a column line carrying vertical ones.
type LineKey struct {
	Axis geometry.Axis
	Line int
}

// optimizer rearranges routed connections for drawing: it pulls group
// members together, makes them adopt the group's top priority, merges
// collapsible segments and spreads the rest over offset slots.
type optimizer struct {
	routes []*Route
}

// reorder returns the routes with every group contiguous, anchored at
// the position of the group's first member. Definition order is kept
// inside each group and among the anchors.
func (o *optimizer) reorder() []*Route {
	byGroup := make(map[string][]*Route)
	for _, r := range o.routes {
		g := r.Conn.Attrs.Group
		if g != "" {
			byGroup[g] = append(byGroup[g], r)
		}
	}
	out := make([]*Route, 0, len(o.routes))
	emitted := make(map[string]bool)
	for _, r := range o.routes {
		g := r.Conn.Attrs.Group
		if g == "" {
			out = append(out, r)
			continue
		}
		if emitted[g] {
			continue
		}
		emitted[g] = true
		out = append(out, byGroup[g]...)
	}
	return out
}

// adoptPriorities sets every route's effective priority to the maximum
// drawing priority of its group.
func (o *optimizer) adoptPriorities() {
	max := make(map[string]int)
	for _, r := range o.routes {
		g := r.Conn.Attrs.Group
		if g == "" {
			continue
		}
		if cur, ok := max[g]; !ok || r.Conn.Attrs.DrawingPriority > cur {
			max[g] = r.Conn.Attrs.DrawingPriority
		}
	}
	for _, r := range o.routes {
		if g := r.Conn.Attrs.Group; g != "" {
			r.Priority = max[g]
		}
	}
}

// interval is a slot-assignment unit on one line: either a single
// segment or several collapsed segments spanning their union.
type interval struct {
	lo, hi  int
	members []*Segment
	// order is the definition index of the earliest member, used to
	// keep slot assignment stable under connection order.
	order int
}

// collectLines gathers the segments of every route per refinement
// line, in route order.
func (o *optimizer) collectLines() map[LineKey][]*Segment {
	lines := make(map[LineKey][]*Segment)
	for _, r := range o.routes {
		for _, s := range r.Segments {
			key := LineKey{Axis: s.Axis, Line: s.Line}
			lines[key] = append(lines[key], s)
		}
	}
	return lines
}

// buildIntervals turns the segments of one line into slot-assignment
// intervals. With collapsing enabled, overlapping segments of the same
// named group are merged into a single interval spanning their union.
func buildIntervals(segments []*Segment, collapse bool) []*interval {
	var intervals []*interval
	if collapse {
		merged := make(map[*Segment]bool)
		for i, s := range segments {
			if merged[s] {
				continue
			}
			iv := &interval{lo: s.Lo, hi: s.Hi, members: []*Segment{s}, order: s.Conn.Index}
			if g := s.Conn.Attrs.Group; g != "" {
				// Keep absorbing overlapping group mates until the
				// union stops growing.
				for grew := true; grew; {
					grew = false
					for _, t := range segments[i+1:] {
						if merged[t] || t.Conn.Attrs.Group != g {
							continue
						}
						if t.Lo > iv.hi || t.Hi < iv.lo {
							continue
						}
						merged[t] = true
						iv.members = append(iv.members, t)
						if t.Lo < iv.lo {
							iv.lo = t.Lo
							grew = true
						}
						if t.Hi > iv.hi {
							iv.hi = t.Hi
							grew = true
						}
					}
				}
			}
			intervals = append(intervals, iv)
		}
	} else {
		for _, s := range segments {
			intervals = append(intervals, &interval{
				lo: s.Lo, hi: s.Hi, members: []*Segment{s}, order: s.Conn.Index,
			})
		}
	}
	return intervals
}

// assignSlots colours the intervals of one line so that overlapping
// intervals get distinct slots: a greedy sweep in ascending extent
// order that always picks the lowest free slot. Returns the number of
// slots used.
func assignSlots(intervals []*interval) int {
	sort.SliceStable(intervals, func(a, b int) bool {
		if intervals[a].lo != intervals[b].lo {
			return intervals[a].lo < intervals[b].lo
		}
		return intervals[a].order < intervals[b].order
	})
	count := 0
	for i, iv := range intervals {
		used := make(map[int]bool)
		for _, other := range intervals[:i] {
			if other.lo <= iv.hi && iv.lo <= other.hi {
				used[other.slot()] = true
			}
		}
		slot := 0
		for used[slot] {
			slot++
		}
		for _, s := range iv.members {
			s.Slot = slot
		}
		if slot+1 > count {
			count = slot + 1
		}
	}
	return count
}

func (iv *interval) slot() int {
	return iv.members[0].Slot
}

// reserveArrows computes the extra room each block side needs for the
// arrowheads of terminating connections: arrow length plus half the
// stroke width, the maximum over all arrows on that side.
func reserveArrows(routes []*Route) map[int]map[geometry.Side]float64 {
	out := make(map[int]map[geometry.Side]float64)
	add := func(blockIndex int, side geometry.Side, need float64) {
		sides := out[blockIndex]
		if sides == nil {
			sides = make(map[geometry.Side]float64)
			out[blockIndex] = sides
		}
		if need > sides[side] {
			sides[side] = need
		}
	}
	for _, r := range routes {
		a := &r.Conn.Attrs
		need := a.ArrowLength() + a.StrokeWidth/2
		if a.ArrowBack {
			add(r.Conn.Start.Index, r.ExitSide, need)
		}
		if a.ArrowForward {
			add(r.Conn.End.Index, r.EntranceSide, need)
		}
	}
	return out
}
