package ilp

import (
	"container/heap"
	"math"
	"sort"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/logging"
	"github.com/gridwright/poleplan/polegraph"
)

// DistanceConnectivity biases a Problem's solve toward a cover that stays
// reachable from a root cluster of poles near a chosen point in the
// solve area, rather than one that is merely cheap. Without this, the
// set-cover objective has no preference between a compact, connectable
// layout and one scattered across disconnected islands the wiring pass
// could never join.
type DistanceConnectivity struct {
	// RootLocation is a 0..1 ratio along the bounding box of all
	// candidate positions (0 = min corner, 1 = max corner, 0.5 = center)
	// picking the point root poles are chosen nearest to.
	RootLocation float64
}

func centerOf(g *polegraph.Graph, indices []polegraph.NodeIndex) geom.MapPoint {
	if len(indices) == 0 {
		return geom.MapPoint{}
	}
	positions := make([]geom.MapPoint, len(indices))
	for i, idx := range indices {
		positions[i] = g.Node(idx).Position
	}
	box := geom.BoundingMapBox(positions)
	return geom.MapPoint{X: (box.Min.X + box.Max.X) / 2, Y: (box.Min.Y + box.Max.Y) / 2}
}

// findRootPoles picks a maximal clique of mutually-adjacent poles near
// the configured root point: candidates are visited nearest-first and
// greedily added whenever they are adjacent to every pole already in the
// clique.
func (dc DistanceConnectivity) findRootPoles(g *polegraph.Graph) []polegraph.NodeIndex {
	indices := g.NodeIndices()
	if len(indices) == 0 {
		return nil
	}
	positions := make([]geom.MapPoint, len(indices))
	for i, idx := range indices {
		positions[i] = g.Node(idx).Position
	}
	box := geom.BoundingMapBox(positions)
	pt := geom.MapPoint{
		X: box.Min.X + (box.Max.X-box.Min.X)*dc.RootLocation,
		Y: box.Min.Y + (box.Max.Y-box.Min.Y)*dc.RootLocation,
	}

	sort.Slice(indices, func(i, j int) bool {
		return scaledSquareDistance(g.Node(indices[i]).Position, pt) <
			scaledSquareDistance(g.Node(indices[j]).Position, pt)
	})

	var clique []polegraph.NodeIndex
	for _, c := range indices {
		adjacentToAll := true
		for _, m := range clique {
			if !g.HasEdge(c, m) {
				adjacentToAll = false
				break
			}
		}
		if adjacentToAll {
			clique = append(clique, c)
		}
	}
	return clique
}

// scaledSquareDistance rounds the squared distance scaled by 64² to an
// integer, giving a deterministic tie-break order independent of minor
// floating point jitter.
func scaledSquareDistance(a, b geom.MapPoint) uint64 {
	return uint64(math.Round(a.SquareDistanceTo(b) * 64 * 64))
}

// addConstraints emits, for every non-root pole reachable from the root
// clique, a constraint requiring that pole's variable to be no more
// "selected" than the sum of its neighbors strictly closer to the root —
// a selected pole must have a path back to the root through other
// selected poles.
func (dc DistanceConnectivity) addConstraints(g *polegraph.Graph, vars map[polegraph.NodeIndex]VarIndex, solver Solver) {
	roots := dc.findRootPoles(g)
	if len(roots) == 0 {
		return
	}
	rootSet := make(map[polegraph.NodeIndex]struct{}, len(roots))
	for _, r := range roots {
		rootSet[r] = struct{}{}
	}
	dist := dijkstraFromRoot(g, roots[0], rootSet)

	for _, idx := range g.NodeIndices() {
		if _, isRoot := rootSet[idx]; isRoot {
			continue
		}
		d, ok := dist[idx]
		if !ok {
			logging.Warning("candidate pole unreachable from root cluster", "node", idx)
			continue
		}
		var terms []Term
		for _, n := range g.Neighbors(idx) {
			nd, ok := dist[n]
			if ok && nd < d {
				terms = append(terms, Term{Var: vars[n], Coeff: -1})
			}
		}
		if len(terms) == 0 {
			continue
		}
		terms = append([]Term{{Var: vars[idx], Coeff: 1}}, terms...)
		solver.AddConstraint(terms, LE, 0)
	}
}

// dijkstraFromRoot computes single-source shortest path distances from
// source using an edge cost that makes stepping directly into the root
// clique free and every other step cost its geometric weight plus a
// fixed 3.0 bias — preserved from the original heuristic's tuning, which
// favors routes that reach the root clique over routes that merely stay
// short.
func dijkstraFromRoot(g *polegraph.Graph, source polegraph.NodeIndex, rootSet map[polegraph.NodeIndex]struct{}) map[polegraph.NodeIndex]float64 {
	dist := map[polegraph.NodeIndex]float64{source: 0}
	visited := make(map[polegraph.NodeIndex]bool)

	pq := &distHeap{{node: source, dist: 0}}
	for pq.Len() > 0 {
		top := heap.Pop(pq).(distItem)
		if visited[top.node] {
			continue
		}
		visited[top.node] = true

		for _, n := range g.Neighbors(top.node) {
			w, _ := g.EdgeWeight(top.node, n)
			cost := w + 3.0
			if _, isRoot := rootSet[n]; isRoot {
				cost = 0.0
			}
			nd := dist[top.node] + cost
			if old, ok := dist[n]; !ok || nd < old {
				dist[n] = nd
				heap.Push(pq, distItem{node: n, dist: nd})
			}
		}
	}
	return dist
}

type distItem struct {
	node polegraph.NodeIndex
	dist float64
}

type distHeap []distItem

func (h distHeap) Len() int            { return len(h) }
func (h distHeap) Less(i, j int) bool  { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *distHeap) Push(x interface{}) { *h = append(*h, x.(distItem)) }
func (h *distHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
