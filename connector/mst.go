package connector

import (
	"container/heap"

	"github.com/gridwright/poleplan/polegraph"
)

// degreeMult penalizes picking an edge that would raise either endpoint's
// degree further: a pole with many cables already is a worse place to
// route yet another one through, even if the edge itself is short. Index
// is the higher of the two endpoints' current degrees.
var degreeMult = [5]float64{1.0, 1.0, 1.0, 1.5, 5.0}

// WeightedMSTConnector builds a minimum spanning tree over the candidate
// graph's distance weights, but reweights each candidate edge by how
// congested its endpoints already are before accepting it: a classic
// Kruskal/Prim hybrid (binary-heap pop, union-find merge) with lazy
// decrease-key, where the "decrease" is actually a degree-driven increase
// applied the moment an edge is popped.
type WeightedMSTConnector struct {
	// MaxDegree caps how many cables may terminate at one pole. Zero means
	// DefaultMaxDegree.
	MaxDegree int
}

func (c WeightedMSTConnector) maxDegree() int {
	if c.MaxDegree <= 0 {
		return DefaultMaxDegree
	}
	return c.MaxDegree
}

// ConnectPoles implements Connector. It copies every node of graph into a
// fresh result graph (same node indices, same order) with no edges, then
// runs the degree-penalized MST search over graph's candidate edges.
func (c WeightedMSTConnector) ConnectPoles(graph *polegraph.Graph) *polegraph.Graph {
	result := copyNodes(graph)
	maxDeg := c.maxDegree()

	uf := newUnionFind(result.NodeCount())
	h := &edgeHeap{}
	heap.Init(h)
	for _, e := range graph.AllEdges() {
		heap.Push(h, heapItem{key: e.Weight, orig: e.Weight, a: e.A, b: e.B})
	}

	for h.Len() > 0 {
		item := heap.Pop(h).(heapItem)
		if uf.find(int(item.a)) == uf.find(int(item.b)) {
			continue
		}
		deg := result.Degree(item.a)
		if d := result.Degree(item.b); d > deg {
			deg = d
		}
		if deg >= maxDeg {
			continue
		}
		mult := degreeMult[len(degreeMult)-1]
		if deg < len(degreeMult) {
			mult = degreeMult[deg]
		}
		actual := item.orig * mult
		if actual > item.key {
			heap.Push(h, heapItem{key: actual, orig: item.orig, a: item.a, b: item.b})
			continue
		}
		if uf.union(int(item.a), int(item.b)) {
			result.AddEdge(item.a, item.b, item.orig)
		}
	}
	return result
}

// copyNodes returns a new graph with the same nodes as graph, in the same
// order (so NodeIndex values line up between the two), and no edges.
func copyNodes(graph *polegraph.Graph) *polegraph.Graph {
	result := polegraph.New()
	for _, idx := range graph.NodeIndices() {
		result.AddNode(*graph.Node(idx))
	}
	return result
}

type heapItem struct {
	key  float64 // current, possibly degree-penalized priority
	orig float64 // the real cable distance, preserved across reweights
	a, b polegraph.NodeIndex
}

type edgeHeap []heapItem

func (h edgeHeap) Len() int            { return len(h) }
func (h edgeHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h edgeHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *edgeHeap) Push(x interface{}) { *h = append(*h, x.(heapItem)) }
func (h *edgeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type unionFind struct {
	parent, rank []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union merges the sets containing a and b, returning false if they were
// already in the same set.
func (uf *unionFind) union(a, b int) bool {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return false
	}
	switch {
	case uf.rank[ra] < uf.rank[rb]:
		ra, rb = rb, ra
	case uf.rank[ra] == uf.rank[rb]:
		uf.rank[ra]++
	}
	uf.parent[rb] = ra
	return true
}
