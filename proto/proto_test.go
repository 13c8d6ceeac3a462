package proto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/geom"
)

func smallPole() *Prototype {
	return &Prototype{
		Type:         "electric-pole",
		Name:         "small-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &PoleData{SupplyRadius: 2.5, WireDistance: 7.5},
	}
}

func powerable() *Prototype {
	return &Prototype{
		Type:         "assembling-machine",
		Name:         "powerable",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: geom.MapBox{Min: geom.MapPoint{X: -0.5, Y: -0.5}, Max: geom.MapPoint{X: 0.5, Y: 0.5}},
		UsesPower:    true,
	}
}

func TestIsPole(t *testing.T) {
	require.True(t, smallPole().IsPole())
	require.False(t, powerable().IsPole())
}

func TestCatalogLookup(t *testing.T) {
	pole := smallPole()
	mach := powerable()
	c := NewCatalog([]*Prototype{pole, mach})

	got, ok := c.Lookup("small-pole")
	require.True(t, ok)
	require.Same(t, pole, got)

	_, ok = c.Lookup("missing")
	require.False(t, ok)

	require.ElementsMatch(t, []Handle{pole, mach}, c.All())
}

func TestCatalogDuplicateOverwrites(t *testing.T) {
	first := smallPole()
	second := smallPole()
	c := NewCatalog([]*Prototype{first, second})
	got, _ := c.Lookup("small-pole")
	require.Same(t, second, got)
}
