package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/proto"
)

func testPolePrototype() *proto.Prototype {
	return &proto.Prototype{
		Type:         "electric-pole",
		Name:         "test-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &proto.PoleData{WireDistance: 20, SupplyRadius: 2.5},
	}
}

func TestDrawModelProducesSVG(t *testing.T) {
	m := model.New()
	pole := testPolePrototype()
	a := m.AddOverlap(pole, geom.MapPoint{X: 0.5, Y: 0.5}, 0)
	b := m.AddOverlap(pole, geom.MapPoint{X: 4.5, Y: 0.5}, 0)
	require.True(t, m.AddCableConnection(a, b))

	var buf bytes.Buffer
	area := geom.TileBox{Min: geom.TilePos{X: -1, Y: -1}, Max: geom.TilePos{X: 10, Y: 10}}
	d := New(&buf, area, 16, 4)
	d.DrawModel(m)
	d.End()

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<?xml"))
	require.Contains(t, out, "<svg")
	require.Contains(t, out, "</svg>")
	require.Contains(t, out, poleColor)
	require.Contains(t, out, poleGraphColor)
}
