package connector

import (
	"math"
	"sort"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/polegraph"
)

// PrettyPoleConnector runs WeightedMSTConnector first to guarantee
// connectivity, then greedily adds extra candidate edges preferring ones
// that run parallel to the grid axes, skipping any edge that would cross
// an already-accepted one or leave too sharp an angle at either endpoint.
type PrettyPoleConnector struct {
	// MaxDegree caps how many cables may terminate at one pole. Zero means
	// DefaultMaxDegree.
	MaxDegree int
	// MinAngle is the minimum allowed angle, in radians, between a new
	// edge and any cable already connected at either of its endpoints.
	// Zero means the default of 30 degrees.
	MinAngle float64
	// MinAdjacentAngle is the minimum allowed angle, in radians, between
	// the two cables immediately clockwise and counter-clockwise of a new
	// edge's direction at either endpoint. Zero means the default of 100
	// degrees.
	MinAdjacentAngle float64
}

const (
	defaultMinAngle         = 30 * math.Pi / 180
	defaultMinAdjacentAngle = 100 * math.Pi / 180
)

func (p PrettyPoleConnector) maxDegree() int {
	if p.MaxDegree <= 0 {
		return DefaultMaxDegree
	}
	return p.MaxDegree
}

func (p PrettyPoleConnector) minAngle() float64 {
	if p.MinAngle <= 0 {
		return defaultMinAngle
	}
	return p.MinAngle
}

func (p PrettyPoleConnector) minAdjacentAngle() float64 {
	if p.MinAdjacentAngle <= 0 {
		return defaultMinAdjacentAngle
	}
	return p.MinAdjacentAngle
}

// ConnectPoles implements Connector.
func (p PrettyPoleConnector) ConnectPoles(graph *polegraph.Graph) *polegraph.Graph {
	result := (WeightedMSTConnector{MaxDegree: p.MaxDegree}).ConnectPoles(graph)

	type candidateEdge struct {
		prettyWeight float64
		origWeight   float64
		a, b         polegraph.NodeIndex
	}
	raw := graph.AllEdges()
	candidates := make([]candidateEdge, len(raw))
	for i, e := range raw {
		posA := graph.Node(e.A).Position
		posB := graph.Node(e.B).Position
		candidates[i] = candidateEdge{
			prettyWeight: edgeWeight(e.Weight, posA, posB),
			origWeight:   e.Weight,
			a:            e.A,
			b:            e.B,
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].prettyWeight < candidates[j].prettyWeight })

	for _, c := range candidates {
		if p.canConnect(graph, result, c.a, c.b) {
			result.UpdateEdge(c.a, c.b, c.origWeight)
		}
	}
	return result
}

// edgeWeight discounts the weight of edges that run close to parallel
// with a grid axis, so the greedy pass prefers tidy horizontal/vertical
// cable runs over diagonal ones of similar length.
func edgeWeight(origWeight float64, src, tgt geom.MapPoint) float64 {
	vec := tgt.Sub(src).Normalize()
	axisAlignment := math.Abs(vec.X) - math.Abs(vec.Y)
	axisAlignment *= axisAlignment
	return origWeight / (1 + 2*axisAlignment)
}

// orientation returns the signed area (twice) of the triangle a, b, c:
// positive when c is to the left of the directed line a->b.
func orientation(a, b, c geom.MapPoint) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// isLeft reports whether b lies to the left of the directed line from
// base to a.
func isLeft(base, a, b geom.MapPoint) bool {
	return orientation(base, a, b) > 0
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// lineSegIntersects reports whether segment a-b properly crosses segment
// c-d, via the standard orientation-sign test.
func lineSegIntersects(a, b, c, d geom.MapPoint) bool {
	o1 := sign(orientation(a, b, c))
	o2 := sign(orientation(a, b, d))
	o3 := sign(orientation(c, d, a))
	o4 := sign(orientation(c, d, b))
	return o1 != o2 && o3 != o4
}

// canConnect reports whether adding the candidate edge a-b to result is
// allowed: it must not duplicate an existing edge, must not push either
// endpoint's degree past the cap, must not geometrically cross an
// existing edge between two candidate neighbors of either endpoint, and
// must not leave
// too sharp an angle at either endpoint against an already-connected
// cable.
func (p PrettyPoleConnector) canConnect(cand, result *polegraph.Graph, a, b polegraph.NodeIndex) bool {
	if result.HasEdge(a, b) {
		return false
	}
	maxDeg := p.maxDegree()
	if result.Degree(a) >= maxDeg || result.Degree(b) >= maxDeg {
		return false
	}

	posA := cand.Node(a).Position
	posB := cand.Node(b).Position

	neighborSet := make(map[polegraph.NodeIndex]struct{})
	for _, n := range cand.Neighbors(a) {
		neighborSet[n] = struct{}{}
	}
	for _, n := range cand.Neighbors(b) {
		neighborSet[n] = struct{}{}
	}
	delete(neighborSet, a)
	delete(neighborSet, b)

	var left, right []polegraph.NodeIndex
	for n := range neighborSet {
		if isLeft(posA, posB, cand.Node(n).Position) {
			left = append(left, n)
		} else {
			right = append(right, n)
		}
	}
	for _, l := range left {
		for _, r := range right {
			if !result.HasEdge(l, r) {
				continue
			}
			if lineSegIntersects(posA, posB, cand.Node(l).Position, cand.Node(r).Position) {
				return false
			}
		}
	}

	endpoints := [2]struct {
		node polegraph.NodeIndex
		pos  geom.MapPoint
		dir  geom.MapPoint
	}{
		{a, posA, posB.Sub(posA)},
		{b, posB, posA.Sub(posB)},
	}
	for _, ep := range endpoints {
		neighbors := result.Neighbors(ep.node)
		if len(neighbors) == 0 {
			continue
		}
		hasNeg, hasPos := false, false
		var nMax, pMin float64
		for _, n := range neighbors {
			ac := cand.Node(n).Position.Sub(ep.pos)
			angle := ep.dir.AngleTo(ac)
			if math.Abs(angle) < p.minAngle() {
				return false
			}
			if angle < 0 {
				if !hasNeg || angle > nMax {
					nMax, hasNeg = angle, true
				}
			} else {
				if !hasPos || angle < pMin {
					pMin, hasPos = angle, true
				}
			}
		}
		if hasNeg && hasPos && math.Abs(pMin-nMax) < p.minAdjacentAngle() {
			return false
		}
	}
	return true
}
