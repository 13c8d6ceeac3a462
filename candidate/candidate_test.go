package candidate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/proto"
)

func testPowerablePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "generator",
		Name:         "solar-panel",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		UsesPower:    true,
	}
}

func testPolePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "electric-pole",
		Name:         "test-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &proto.PoleData{WireDistance: 7.5, SupplyRadius: 2.5},
	}
}

func TestEnumerate(t *testing.T) {
	m := model.New()
	e1 := m.AddOverlap(testPowerablePrototype(), geom.TilePos{X: 0, Y: 0}.CenterMapPos(), 0)
	e2 := m.AddOverlap(testPowerablePrototype(), geom.TilePos{X: 1, Y: 1}.CenterMapPos(), 0)

	area := geom.NewTileBox(geom.TilePos{X: 0, Y: 0}, 2, 2)
	pole := testPolePrototype()
	out := Enumerate(m, area, []proto.Handle{pole})

	at00 := out.GetAtTile(geom.TilePos{X: 0, Y: 0})
	require.Len(t, at00, 1)
	require.Equal(t, e1, at00[0].ID)

	at11 := out.GetAtTile(geom.TilePos{X: 1, Y: 1})
	require.Len(t, at11, 1)
	require.Equal(t, e2, at11[0].ID)

	at10 := out.GetAtTile(geom.TilePos{X: 1, Y: 0})
	require.Len(t, at10, 1)
	require.Same(t, pole, at10[0].Prototype)
	require.Equal(t, geom.TilePos{X: 1, Y: 0}.CenterMapPos(), at10[0].Position)

	at01 := out.GetAtTile(geom.TilePos{X: 0, Y: 1})
	require.Len(t, at01, 1)
	require.Same(t, pole, at01[0].Prototype)
	require.Equal(t, geom.TilePos{X: 0, Y: 1}.CenterMapPos(), at01[0].Position)
}

func TestEnumeratePanicsOnNonSquare(t *testing.T) {
	m := model.New()
	pole := &proto.Prototype{
		Name:       "big-pole",
		TileWidth:  2,
		TileHeight: 1,
		Pole:       &proto.PoleData{WireDistance: 7.5, SupplyRadius: 2.5},
	}
	area := geom.NewTileBox(geom.TilePos{}, 2, 2)
	require.Panics(t, func() { Enumerate(m, area, []proto.Handle{pole}) })
}
