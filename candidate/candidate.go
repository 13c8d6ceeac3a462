// Package candidate enumerates every tile position within an area at
// which a pole prototype could be placed without overlapping an existing
// entity, producing a model that contains the original entities plus one
// candidate pole entity per valid position.
package candidate

import (
	"fmt"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/proto"
)

// Enumerate returns a clone of m with a candidate pole entity added for
// every tile position in area at which each of poleProtos could be
// placed without overlapping an existing entity. Candidates from
// different prototypes may overlap each other even though no candidate
// may overlap an entity already present in m.
//
// Enumerate panics if any prototype in poleProtos has a non-square
// footprint (TileWidth != TileHeight): the placement grid this package
// generates assumes a single side length per prototype.
func Enumerate(m *model.Model, area geom.TileBox, poleProtos []proto.Handle) *model.Model {
	out := m.Clone()
	for _, p := range poleProtos {
		if p.TileWidth != p.TileHeight {
			panic(fmt.Sprintf("candidate: non-square pole prototype %q (%dx%d) not supported", p.Name, p.TileWidth, p.TileHeight))
		}
		width := p.TileWidth
		possibleArea := area.ContractMax(width - 1)
		half := float64(width) / 2.0
		possibleArea.IterTiles(func(topLeft geom.TilePos) {
			pos := topLeft.CornerMapPos().Add(half, half)
			if m.CanPlace(p, pos, 0) {
				out.AddOverlap(p, pos, 0)
			}
		})
	}
	return out
}
