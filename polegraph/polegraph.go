// Package polegraph builds undirected graphs over the poles in a model:
// nodes are poles (annotated with which power consumers they cover),
// edges are candidate or actual cable connections weighted by distance.
// The graph itself is a small int-indexed adjacency structure, closer to
// petgraph's NodeIndex-based UnGraph than to a string-vertex-keyed graph
// library, since nodes here are always dense, pole-derived integers.
package polegraph

import (
	"sort"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/proto"
	"github.com/gridwright/poleplan/window"
)

// NodeIndex identifies a node within one Graph. Indices are dense and
// assigned in AddNode order, starting at 0.
type NodeIndex int

// EdgeIndex identifies an edge within one Graph, in AddEdge order.
type EdgeIndex int

// Node is a pole node: a snapshot of the pole entity it was built from,
// plus the set of power consumers it would cover if placed.
type Node struct {
	EntityID        model.EntityID
	Prototype       proto.Handle
	Position        geom.MapPoint
	Direction       uint8
	PoweredEntities map[model.EntityID]struct{}
}

type edgeRecord struct {
	A, B   NodeIndex
	Weight float64
}

// Edge is a materialized (a, b, weight) edge.
type Edge struct {
	A, B   NodeIndex
	Weight float64
}

// Graph is an undirected, int-indexed graph of pole nodes.
type Graph struct {
	nodes []Node
	adj   []map[NodeIndex]EdgeIndex
	edges []edgeRecord
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends n and returns its index.
func (g *Graph) AddNode(n Node) NodeIndex {
	idx := NodeIndex(len(g.nodes))
	g.nodes = append(g.nodes, n)
	g.adj = append(g.adj, make(map[NodeIndex]EdgeIndex))
	return idx
}

// Node returns a pointer to the node at idx.
func (g *Graph) Node(idx NodeIndex) *Node { return &g.nodes[idx] }

// NodeCount returns the number of nodes in g.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in g.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodeIndices returns every node index in g, in AddNode order.
func (g *Graph) NodeIndices() []NodeIndex {
	out := make([]NodeIndex, len(g.nodes))
	for i := range g.nodes {
		out[i] = NodeIndex(i)
	}
	return out
}

// AddEdge adds an edge between a and b with the given weight. Adding a
// second edge between the same pair creates a parallel edge; use
// UpdateEdge to avoid that.
func (g *Graph) AddEdge(a, b NodeIndex, weight float64) EdgeIndex {
	idx := EdgeIndex(len(g.edges))
	g.edges = append(g.edges, edgeRecord{A: a, B: b, Weight: weight})
	g.adj[a][b] = idx
	g.adj[b][a] = idx
	return idx
}

// UpdateEdge sets the weight of the edge between a and b, creating it if
// it does not already exist.
func (g *Graph) UpdateEdge(a, b NodeIndex, weight float64) EdgeIndex {
	if idx, ok := g.adj[a][b]; ok {
		g.edges[idx].Weight = weight
		return idx
	}
	return g.AddEdge(a, b, weight)
}

// HasEdge reports whether an edge exists between a and b.
func (g *Graph) HasEdge(a, b NodeIndex) bool {
	_, ok := g.adj[a][b]
	return ok
}

// EdgeWeight returns the weight of the edge between a and b, if one exists.
func (g *Graph) EdgeWeight(a, b NodeIndex) (float64, bool) {
	idx, ok := g.adj[a][b]
	if !ok {
		return 0, false
	}
	return g.edges[idx].Weight, true
}

// Neighbors returns the neighbors of idx in ascending index order.
func (g *Graph) Neighbors(idx NodeIndex) []NodeIndex {
	out := make([]NodeIndex, 0, len(g.adj[idx]))
	for n := range g.adj[idx] {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Degree returns the number of edges incident to idx.
func (g *Graph) Degree(idx NodeIndex) int { return len(g.adj[idx]) }

// AllEdges returns every edge in g, in AddEdge order.
func (g *Graph) AllEdges() []Edge {
	out := make([]Edge, len(g.edges))
	for i, e := range g.edges {
		out[i] = Edge{A: e.A, B: e.B, Weight: e.Weight}
	}
	return out
}

// Disconnected builds a graph with one node per pole in m and no edges.
func Disconnected(m *model.Model) (*Graph, map[model.EntityID]NodeIndex) {
	g := New()
	idMap := make(map[model.EntityID]NodeIndex)
	for _, e := range m.AllEntities() {
		if !e.IsPole() {
			continue
		}
		powered := m.PoweredEntities(e.Position, *e.Prototype.Pole)
		poweredSet := make(map[model.EntityID]struct{}, len(powered))
		for _, p := range powered {
			poweredSet[p.ID] = struct{}{}
		}
		idx := g.AddNode(Node{
			EntityID:        e.ID,
			Prototype:       e.Prototype,
			Position:        e.Position,
			Direction:       e.Direction,
			PoweredEntities: poweredSet,
		})
		idMap[e.ID] = idx
	}
	return g, idMap
}

// Current builds a graph of the poles in m with edges for every cable
// connection that already exists between them.
func Current(m *model.Model) (*Graph, map[model.EntityID]NodeIndex) {
	g, idMap := Disconnected(m)
	for _, e := range m.AllEntities() {
		if !e.IsPole() {
			continue
		}
		idx := idMap[e.ID]
		for otherID := range e.Connections() {
			if otherID < e.ID {
				continue
			}
			otherIdx := idMap[otherID]
			other, _ := m.Get(otherID)
			g.AddEdge(idx, otherIdx, e.Position.DistanceTo(other.Position))
		}
	}
	return g, idMap
}

// MaximallyConnected builds a graph of the poles in m with an edge
// between every pair of poles within cable reach of each other,
// regardless of whether a cable currently connects them.
func MaximallyConnected(m *model.Model) (*Graph, map[model.EntityID]NodeIndex) {
	g, idMap := Disconnected(m)
	MaximallyConnectPoles(g, m, idMap)
	return g, idMap
}

// MaximallyConnectPoles adds an edge to g between every pair of poles in
// m within cable reach of each other that idMap has an entry for,
// updating any existing edge's weight rather than duplicating it.
//
// Entities are visited in tile order and a wire-reach window cache is
// used to find nearby poles: because consecutive poles in tile order are
// usually adjacent tiles apart, the window amortizes to O(size) per pole
// instead of rescanning the full wire-reach box from scratch.
func MaximallyConnectPoles(g *Graph, m *model.Model, idMap map[model.EntityID]NodeIndex) {
	src := window.FuncSource[model.EntityID](func(pos geom.TilePos) []model.EntityID {
		entities := m.GetAtTile(pos)
		ids := make([]model.EntityID, len(entities))
		for i, e := range entities {
			ids[i] = e.ID
		}
		return ids
	})
	windows := window.NewPoleWindows[model.EntityID](src, window.WireReach)

	for _, e := range m.AllEntitiesGridOrder() {
		if !e.IsPole() {
			continue
		}
		idx, ok := idMap[e.ID]
		if !ok {
			continue
		}
		w := windows.GetWindowFor(e.Prototype, e.Position)
		for _, otherID := range w.CurItems() {
			if otherID <= e.ID {
				continue
			}
			other, ok := m.Get(otherID)
			if !ok || !m.IsConnectablePole(e.Position, *e.Prototype.Pole, other) {
				continue
			}
			otherIdx, ok := idMap[otherID]
			if !ok {
				continue
			}
			g.UpdateEdge(idx, otherIdx, e.Position.DistanceTo(other.Position))
		}
	}
}

// AddFromPoleGraph merges every node of g into m as a new entity
// (skipping any that would overlap an existing one) and recreates every
// edge of g as a cable connection between the corresponding entities.
func AddFromPoleGraph(m *model.Model, g *Graph) {
	addedIDs := make(map[NodeIndex]model.EntityID, g.NodeCount())
	for _, idx := range g.NodeIndices() {
		n := g.Node(idx)
		id, ok := m.AddNoOverlap(n.Prototype, n.Position, n.Direction)
		if ok {
			addedIDs[idx] = id
		}
	}
	for _, e := range g.AllEdges() {
		aID, aOK := addedIDs[e.A]
		bID, bOK := addedIDs[e.B]
		if aOK && bOK {
			m.AddCableConnection(aID, bID)
		}
	}
}
