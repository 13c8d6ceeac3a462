package ilp

import (
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/gridwright/poleplan/polegraph"
)

// ConnectedComponents groups g's nodes into connected components. Useful
// after a solve as a diagnostic: a connectivity-constrained solve should
// normally produce a single component (plus any isolated poles the
// connector intentionally leaves disconnected because no candidate edge
// reaches them within reach).
func ConnectedComponents(g *polegraph.Graph) [][]polegraph.NodeIndex {
	sg := simple.NewUndirectedGraph()
	for _, idx := range g.NodeIndices() {
		sg.AddNode(simple.Node(int64(idx)))
	}
	for _, e := range g.AllEdges() {
		sg.SetEdge(sg.NewEdge(simple.Node(int64(e.A)), simple.Node(int64(e.B))))
	}

	components := topo.ConnectedComponents(sg)
	out := make([][]polegraph.NodeIndex, len(components))
	for i, comp := range components {
		nodes := make([]polegraph.NodeIndex, len(comp))
		for j, n := range comp {
			nodes[j] = polegraph.NodeIndex(n.ID())
		}
		out[i] = nodes
	}
	return out
}
