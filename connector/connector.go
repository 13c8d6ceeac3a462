// Package connector turns a maximally connected candidate pole graph
// (every pole paired with an edge to every other pole it could cable to)
// into the sparse set of cables an actual layout should use: first a
// degree-penalized minimum spanning tree so every pole is reachable, then
// an optional greedy pass that adds extra edges a human layout would
// recognize as "pretty" — no crossing cables, no cable bent back on
// itself at too sharp an angle.
package connector

import "github.com/gridwright/poleplan/polegraph"

// DefaultMaxDegree is the degree cap both connectors apply unless
// configured otherwise: Factorio's medium/big poles physically only
// expose a handful of wire connection points before it gets visually
// unreadable.
const DefaultMaxDegree = 5

// Connector turns a candidate graph into a connected subgraph of cables.
type Connector interface {
	ConnectPoles(graph *polegraph.Graph) *polegraph.Graph
}
