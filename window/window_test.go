package window

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/proto"
)

func smallPolePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "electric-pole",
		Name:         "test-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &proto.PoleData{WireDistance: 7.5, SupplyRadius: 2.5},
	}
}

func powerablePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "generator",
		Name:         "solar-panel",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		UsesPower:    true,
	}
}

func makeTestModel() *model.Model {
	m := model.New()
	pole := smallPolePrototype()
	powerable := powerablePrototype()
	for x := -1; x < 9; x++ {
		for y := -1; y < 9; y++ {
			pos := geom.TilePos{X: x, Y: y}
			if x+mod(y, 4) < 2 {
				m.AddNoOverlap(powerable, pos.CenterMapPos(), 0)
			}
			if (x*2+mod(3*y, 7))%2 == 0 {
				m.AddOverlap(pole, pos.CenterMapPos(), 0)
			}
		}
	}
	return m
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func idSource(m *model.Model) Source[model.EntityID] {
	return FuncSource[model.EntityID](func(pos geom.TilePos) []model.EntityID {
		entities := m.GetAtTile(pos)
		ids := make([]model.EntityID, len(entities))
		for i, e := range entities {
			ids[i] = e.ID
		}
		return ids
	})
}

func groundTruth(m *model.Model, topLeft geom.TilePos, size int) map[model.EntityID]struct{} {
	out := make(map[model.EntityID]struct{})
	geom.NewTileBox(topLeft, size, size).IterTiles(func(t geom.TilePos) {
		for _, e := range m.GetAtTile(t) {
			out[e.ID] = struct{}{}
		}
	})
	return out
}

func requireWindowMatches(t *testing.T, w *Moving2DWindow[model.EntityID], m *model.Model, expectedPos geom.TilePos) {
	t.Helper()
	require.Equal(t, expectedPos, w.TopLeft())
	want := groundTruth(m, expectedPos, w.Size())
	got := make(map[model.EntityID]struct{})
	for _, id := range w.CurItems() {
		got[id] = struct{}{}
	}
	require.Equal(t, want, got)
}

func TestMovingWindow(t *testing.T) {
	m := makeTestModel()
	w := New(idSource(m), geom.TilePos{X: 0, Y: 0}, 3)
	requireWindowMatches(t, w, m, geom.TilePos{X: 0, Y: 0})

	for x := 0; x < 9; x++ {
		w.MoveTo(geom.TilePos{X: x, Y: 0})
		requireWindowMatches(t, w, m, geom.TilePos{X: x, Y: 0})
	}
	for x := 8; x >= 0; x-- {
		w.MoveTo(geom.TilePos{X: x, Y: 1})
		requireWindowMatches(t, w, m, geom.TilePos{X: x, Y: 1})
	}
	w.MoveTo(geom.TilePos{X: 3, Y: 6})
	requireWindowMatches(t, w, m, geom.TilePos{X: 3, Y: 6})

	for y := 0; y < 9; y++ {
		pos := geom.TilePos{X: 3, Y: y + 5}
		w.MoveTo(pos)
		requireWindowMatches(t, w, m, pos)
	}
	for y := 8; y >= 0; y-- {
		pos := geom.TilePos{X: 4, Y: y + 5}
		w.MoveTo(pos)
		requireWindowMatches(t, w, m, pos)
	}

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		var newPos geom.TilePos
		if r.Float64() < 0.5 {
			newPos = w.TopLeft().Add(r.Intn(4)-2, r.Intn(4)-2)
		} else {
			newPos = geom.TilePos{X: r.Intn(28) - 14, Y: r.Intn(28) - 14}
		}
		w.MoveTo(newPos)
		requireWindowMatches(t, w, m, newPos)
	}
}

func TestWindowParams(t *testing.T) {
	pd := proto.PoleData{SupplyRadius: 2.0, WireDistance: 3.0}
	require.Equal(t, 3.0, WireReach(pd))
	require.Equal(t, 2.0, PoleCoverage(pd))
}

func TestPoleWindows(t *testing.T) {
	prototype := smallPolePrototype()
	m := model.New()
	wireWindows := NewPoleWindows[model.EntityID](idSource(m), WireReach)
	coverageWindows := NewPoleWindows[model.EntityID](idSource(m), PoleCoverage)
	pos := geom.MapPoint{X: 1.5, Y: 2.5}

	wireWindow := wireWindows.GetWindowFor(prototype, pos)
	require.Equal(t, 15, wireWindow.Size())
	require.Equal(t, geom.TilePosOf(pos.Add(-7.5, -7.5)), wireWindow.TopLeft())

	coverageWindow := coverageWindows.GetWindowFor(prototype, pos)
	require.Equal(t, 5, coverageWindow.Size())
	require.Equal(t, geom.TilePosOf(pos.Add(-2.5, -2.5)), coverageWindow.TopLeft())
}
