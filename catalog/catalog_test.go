package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/proto"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	pole := &proto.Prototype{
		Type:         "electric-pole",
		Name:         "small-electric-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &proto.PoleData{WireDistance: 7.5, SupplyRadius: 2.5},
	}
	generator := &proto.Prototype{
		Type:         "generator",
		Name:         "solar-panel",
		TileWidth:    3,
		TileHeight:   3,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -1.5, Y: -1.5}, Max: geom.MapPoint{X: 1.5, Y: 1.5}},
		UsesPower:    true,
	}
	c := proto.NewCatalog([]*proto.Prototype{pole, generator})

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, Save(path, c))

	loaded, err := Load(path)
	require.NoError(t, err)

	lp, ok := loaded.Lookup("small-electric-pole")
	require.True(t, ok)
	require.True(t, lp.IsPole())
	require.Equal(t, pole.Pole.WireDistance, lp.Pole.WireDistance)
	require.Equal(t, pole.CollisionBox, lp.CollisionBox)

	lg, ok := loaded.Lookup("solar-panel")
	require.True(t, ok)
	require.False(t, lg.IsPole())
	require.True(t, lg.UsesPower)
	require.Equal(t, 3, lg.TileWidth)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
