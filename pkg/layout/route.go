package layout

import (
	"container/heap"

	"github.com/yorgath/orthogram/pkg/define"
	"github.com/yorgath/orthogram/pkg/errors"
	"github.com/yorgath/orthogram/pkg/geometry"
)

// Route is the orthogonal path of one connection over the refinement
// grid, from a border node of the start block to a border node of the
// end block.
type Route struct {
	Conn *define.Connection

	Nodes    []geometry.IntPoint
	Segments []*Segment

	ExitSide     geometry.Side
	EntranceSide geometry.Side

	// Priority is the effective drawing priority: the connection's own
	// priority until the optimizer makes every group member adopt the
	// group maximum.
	Priority int
}

// Segment is a straight run of a route. Line is the refinement line
// the segment lies on (a row line for horizontal segments, a column
// line for vertical ones); Lo and Hi bound its extent along that line.
type Segment struct {
	Conn *define.Connection

	Axis geometry.Axis
	Line int
	Lo   int
	Hi   int

	// Reversed is true when the route travels the segment from Hi
	// towards Lo.
	Reversed bool

	// Slot is the offset slot on the line, assigned by the optimizer.
	// Segments collapsed together share a slot.
	Slot int
}

// cost orders candidate routes lexicographically: shorter first, then
// fewer bends, then the smaller side-preference bias. The bias of a
// route is the sum of the positions of its exit and entrance sides in
// the connection's permitted side lists, so earlier-listed sides win
// among otherwise equal routes.
type cost struct {
	length int
	bends  int
	bias   int
}

func (c cost) plus(length, bends int) cost {
	c.length += length
	c.bends += bends
	return c
}

func (c cost) less(o cost) bool {
	if c.length != o.length {
		return c.length < o.length
	}
	if c.bends != o.bends {
		return c.bends < o.bends
	}
	return c.bias < o.bias
}

// state is a search state: a node reached while travelling in a
// direction. Bends are charged on direction changes, so the direction
// is part of the state.
type state struct {
	node geometry.IntPoint
	dir  geometry.Direction
}

type queueItem struct {
	state state
	cost  cost
}

// searchQueue is a min-heap of search states with deterministic
// ordering: cost first, node position and direction as tie-breaks.
type searchQueue []queueItem

func (q searchQueue) Len() int { return len(q) }

func (q searchQueue) Less(a, b int) bool {
	if q[a].cost != q[b].cost {
		return q[a].cost.less(q[b].cost)
	}
	if q[a].state.node != q[b].state.node {
		return q[a].state.node.Less(q[b].state.node)
	}
	return q[a].state.dir < q[b].state.dir
}

func (q searchQueue) Swap(a, b int) { q[a], q[b] = q[b], q[a] }

func (q *searchQueue) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *searchQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var searchDirections = []geometry.Direction{
	geometry.Up, geometry.Down, geometry.LeftWard, geometry.RightWard,
}

func opposite(d geometry.Direction) geometry.Direction {
	switch d {
	case geometry.Up:
		return geometry.Down
	case geometry.Down:
		return geometry.Up
	case geometry.LeftWard:
		return geometry.RightWard
	default:
		return geometry.LeftWard
	}
}

// router runs the shortest-route search for one connection at a time.
// Each search owns its distance maps; the grid is shared and read-only.
type router struct {
	grid *Grid
}

// route finds the best route for a connection: a uniform-cost search
// over (node, direction) states seeded on every permitted exit-side
// border node of the start block and finalized on every permitted
// entrance-side border node of the end block.
func (r *router) route(conn *define.Connection) (*Route, error) {
	dist := make(map[state]cost)
	prev := make(map[state]state)
	origin := make(map[state]geometry.Side)

	var queue searchQueue
	for si, side := range conn.Attrs.Exits {
		for _, node := range r.grid.SideNodes(conn.Start, side, conn.StartCell) {
			st := state{node: node, dir: side.Outward()}
			c := cost{bias: si}
			if best, ok := dist[st]; ok && !c.less(best) {
				continue
			}
			dist[st] = c
			origin[st] = side
			heap.Push(&queue, queueItem{state: st, cost: c})
		}
	}

	for queue.Len() > 0 {
		item := heap.Pop(&queue).(queueItem)
		st, c := item.state, item.cost
		if best, ok := dist[st]; !ok || best.less(c) {
			continue
		}
		for _, d := range searchDirections {
			if d == opposite(st.dir) {
				continue
			}
			next := st.node.Step(d)
			if !r.grid.Contains(next) || !r.grid.Traversable(next, conn) {
				continue
			}
			bend := 0
			if d != st.dir {
				bend = 1
			}
			nc := c.plus(1, bend)
			ns := state{node: next, dir: d}
			if best, ok := dist[ns]; ok && !nc.less(best) {
				continue
			}
			dist[ns] = nc
			prev[ns] = st
			heap.Push(&queue, queueItem{state: ns, cost: nc})
		}
	}

	// Finalize on every settled entrance state: entering against the
	// side's inward direction costs one more bend, and the entrance
	// side's list position joins the bias.
	var (
		found     bool
		bestCost  cost
		bestState state
		bestSide  geometry.Side
		bestIdx   int
	)
	for ei, side := range conn.Attrs.Entrances {
		in := side.Inward()
		for _, node := range r.grid.SideNodes(conn.End, side, conn.EndCell) {
			for _, d := range searchDirections {
				if d == side.Outward() {
					// Arriving while moving away from the block means
					// the route crossed it and came out the far side.
					continue
				}
				st := state{node: node, dir: d}
				c, ok := dist[st]
				if !ok {
					continue
				}
				bend := 0
				if d != in {
					bend = 1
				}
				final := c.plus(0, bend)
				final.bias += ei
				better := !found || final.less(bestCost)
				if !better && final == bestCost {
					if ei != bestIdx {
						better = ei < bestIdx
					} else if st.node != bestState.node {
						better = st.node.Less(bestState.node)
					} else {
						better = st.dir < bestState.dir
					}
				}
				if better {
					found = true
					bestCost = final
					bestState = st
					bestSide = side
					bestIdx = ei
				}
			}
		}
	}
	if !found {
		return nil, errors.New(errors.ErrCodeRouting,
			"no route from %q to %q satisfies the side constraints",
			conn.Start.Name, conn.End.Name)
	}

	var nodes []geometry.IntPoint
	st := bestState
	for {
		nodes = append(nodes, st.node)
		p, ok := prev[st]
		if !ok {
			break
		}
		st = p
	}
	for a, b := 0, len(nodes)-1; a < b; a, b = a+1, b-1 {
		nodes[a], nodes[b] = nodes[b], nodes[a]
	}

	route := &Route{
		Conn:         conn,
		Nodes:        nodes,
		ExitSide:     origin[st],
		EntranceSide: bestSide,
		Priority:     conn.Attrs.DrawingPriority,
	}
	route.Segments = segmentize(route)
	return route, nil
}

// segmentize collapses consecutive collinear nodes into segments. A
// single-node route degenerates to one zero-length segment lying on
// the axis of its exit side.
func segmentize(route *Route) []*Segment {
	nodes := route.Nodes
	if len(nodes) == 1 {
		p := nodes[0]
		seg := &Segment{Conn: route.Conn, Axis: route.ExitSide.Axis()}
		if seg.Axis == geometry.Horizontal {
			seg.Line, seg.Lo, seg.Hi = p.I, p.J, p.J
		} else {
			seg.Line, seg.Lo, seg.Hi = p.J, p.I, p.I
		}
		return []*Segment{seg}
	}

	var segments []*Segment
	start := 0
	dir, _ := nodes[0].DirectionTo(nodes[1])
	for i := 1; i <= len(nodes); i++ {
		if i < len(nodes) {
			d, _ := nodes[i-1].DirectionTo(nodes[i])
			if d == dir {
				continue
			}
			segments = append(segments, newSegment(route.Conn, nodes[start], nodes[i-1]))
			start = i - 1
			dir = d
			continue
		}
		segments = append(segments, newSegment(route.Conn, nodes[start], nodes[i-1]))
	}
	return segments
}

func newSegment(conn *define.Connection, from, to geometry.IntPoint) *Segment {
	seg := &Segment{Conn: conn}
	if from.I == to.I {
		seg.Axis = geometry.Horizontal
		seg.Line = from.I
		seg.Lo, seg.Hi = from.J, to.J
	} else {
		seg.Axis = geometry.Vertical
		seg.Line = from.J
		seg.Lo, seg.Hi = from.I, to.I
	}
	if seg.Lo > seg.Hi {
		seg.Lo, seg.Hi = seg.Hi, seg.Lo
		seg.Reversed = true
	}
	return seg
}

// Overlaps reports whether two segments on the same line share at
// least one node.
func (s *Segment) Overlaps(o *Segment) bool {
	return s.Lo <= o.Hi && o.Lo <= s.Hi
}
