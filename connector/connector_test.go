package connector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/polegraph"
	"github.com/gridwright/poleplan/proto"
)

func testPolePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "electric-pole",
		Name:         "test-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &proto.PoleData{WireDistance: 50, SupplyRadius: 2.5},
	}
}

func TestIsLeft(t *testing.T) {
	origin := geom.MapPoint{X: 0, Y: 0}
	require.True(t, isLeft(origin, geom.MapPoint{X: 1, Y: 0}, geom.MapPoint{X: 0, Y: 1}))
	require.False(t, isLeft(origin, geom.MapPoint{X: 1, Y: 0}, geom.MapPoint{X: 0, Y: -1}))
}

type intersectingSeg struct{ a, b, c, d geom.TilePos }

var intersectingSegs = []intersectingSeg{
	{geom.TilePos{X: 0, Y: 0}, geom.TilePos{X: 1, Y: 1}, geom.TilePos{X: 0, Y: 1}, geom.TilePos{X: 1, Y: 0}},
	{geom.TilePos{X: 2, Y: 2}, geom.TilePos{X: 2, Y: 5}, geom.TilePos{X: 0, Y: -1}, geom.TilePos{X: 3, Y: 6}},
}

func TestLineSegIntersects(t *testing.T) {
	for _, seg := range intersectingSegs {
		a := seg.a.CenterMapPos()
		b := seg.b.CenterMapPos()
		c := seg.c.CenterMapPos()
		d := seg.d.CenterMapPos()
		require.True(t, lineSegIntersects(a, b, c, d))
		require.False(t, lineSegIntersects(a, c, b, d))
	}
}

func TestDoesNotAllowCrossing(t *testing.T) {
	for _, seg := range intersectingSegs {
		m := model.New()
		pole := testPolePrototype()
		idA := m.AddOverlap(pole, seg.a.CenterMapPos(), 0)
		idB := m.AddOverlap(pole, seg.b.CenterMapPos(), 0)
		idC := m.AddOverlap(pole, seg.c.CenterMapPos(), 0)
		idD := m.AddOverlap(pole, seg.d.CenterMapPos(), 0)
		require.True(t, m.AddCableConnection(idA, idB))

		cur, idMap := polegraph.Current(m)

		cand := polegraph.New()
		for _, idx := range cur.NodeIndices() {
			cand.AddNode(*cur.Node(idx))
		}
		polegraph.MaximallyConnectPoles(cand, m, idMap)

		connector := PrettyPoleConnector{}
		res := connector.canConnect(cand, cur, idMap[idC], idMap[idD])
		require.False(t, res)
	}
}

func TestConnectPolesConnectsEverything(t *testing.T) {
	m := model.New()
	pole := testPolePrototype()
	var ids []model.EntityID
	for i := 0; i < 5; i++ {
		ids = append(ids, m.AddOverlap(pole, geom.TilePos{X: i * 3, Y: 0}.CenterMapPos(), 0))
	}

	g, idMap := polegraph.MaximallyConnected(m)

	pretty := PrettyPoleConnector{}
	result := pretty.ConnectPoles(g)
	require.Equal(t, g.NodeCount(), result.NodeCount())

	for _, id := range ids {
		require.NotZero(t, result.Degree(idMap[id]))
	}
}

// denseHubModel places a cluster of poles all within wire distance of one
// another: a center pole surrounded by two rings, so every pole is a
// candidate neighbor of many others and the max-degree cap has something
// to actually bind against.
func denseHubModel() *model.Model {
	m := model.New()
	pole := testPolePrototype()
	m.AddOverlap(pole, geom.TilePos{X: 0, Y: 0}.CenterMapPos(), 0)
	for ring := 1; ring <= 2; ring++ {
		for i := 0; i < 8; i++ {
			angle := float64(i) * math.Pi / 4
			x := int(math.Round(float64(ring*3) * math.Cos(angle)))
			y := int(math.Round(float64(ring*3) * math.Sin(angle)))
			m.AddOverlap(pole, geom.TilePos{X: x, Y: y}.CenterMapPos(), 0)
		}
	}
	return m
}

func TestConnectPolesRespectsMaxDegree(t *testing.T) {
	m := denseHubModel()
	g, _ := polegraph.MaximallyConnected(m)

	result := PrettyPoleConnector{}.ConnectPoles(g)
	for _, idx := range result.NodeIndices() {
		require.LessOrEqual(t, result.Degree(idx), DefaultMaxDegree)
	}
}

func TestConnectPolesIsIdempotent(t *testing.T) {
	m := denseHubModel()
	g, _ := polegraph.MaximallyConnected(m)

	pretty := PrettyPoleConnector{}
	first := pretty.ConnectPoles(g)
	second := pretty.ConnectPoles(first)

	require.Equal(t, first.EdgeCount(), second.EdgeCount())
	for _, e := range first.AllEdges() {
		require.True(t, second.HasEdge(e.A, e.B))
	}
	for _, e := range second.AllEdges() {
		require.True(t, first.HasEdge(e.A, e.B))
	}
}
