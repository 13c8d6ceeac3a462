package ilp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/ilp/bbsolver"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/polegraph"
	"github.com/gridwright/poleplan/proto"
)

func testBox() geom.MapBox {
	return geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}}
}

func testPolePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "electric-pole",
		Name:         "test-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: testBox(),
		Pole:         &proto.PoleData{WireDistance: 7.5, SupplyRadius: 2.5},
	}
}

func testPowerablePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "generator",
		Name:         "solar-panel",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: testBox(),
		UsesPower:    true,
	}
}

func TestSetCoverCoversAllConsumers(t *testing.T) {
	m := model.New()
	consumer := testPowerablePrototype()
	c1 := m.AddOverlap(consumer, geom.MapPoint{X: 0.5, Y: 0.5}, 0)
	c2 := m.AddOverlap(consumer, geom.MapPoint{X: 5.5, Y: 0.5}, 0)
	c3 := m.AddOverlap(consumer, geom.MapPoint{X: 0.5, Y: 5.5}, 0)

	pole := testPolePrototype()
	m.AddOverlap(pole, geom.MapPoint{X: 0.5, Y: 0.5}, 0)
	m.AddOverlap(pole, geom.MapPoint{X: 5.5, Y: 0.5}, 0)
	m.AddOverlap(pole, geom.MapPoint{X: 0.5, Y: 5.5}, 0)

	g, _ := polegraph.MaximallyConnected(m)

	problem := &Problem{
		Graph: g,
		Cost:  func(*polegraph.Node) float64 { return 1.0 },
	}

	solver := bbsolver.New()
	selected, err := problem.Solve(context.Background(), solver)
	require.NoError(t, err)

	covered := make(map[model.EntityID]struct{})
	for idx, on := range selected {
		if !on {
			continue
		}
		for id := range g.Node(idx).PoweredEntities {
			covered[id] = struct{}{}
		}
	}
	require.Contains(t, covered, c1)
	require.Contains(t, covered, c2)
	require.Contains(t, covered, c3)
}
