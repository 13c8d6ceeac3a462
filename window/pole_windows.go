package window

import (
	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/proto"
)

// RadiusFunc picks the relevant radius out of a prototype's pole data —
// either its wire distance (for cable-reach windows) or its supply
// radius (for power-coverage windows).
type RadiusFunc func(proto.PoleData) float64

// WireReach selects a pole's cable reach.
func WireReach(pd proto.PoleData) float64 { return pd.WireDistance }

// PoleCoverage selects a pole's power supply radius.
func PoleCoverage(pd proto.PoleData) float64 { return pd.SupplyRadius }

// PoleWindows caches one Moving2DWindow per prototype, reusing it across
// calls for poles sharing a prototype and relying on MoveTo's incremental
// path to stay fast as long as callers query tile-sorted positions.
type PoleWindows[Id comparable] struct {
	source         Source[Id]
	radius         RadiusFunc
	windowsByProto map[proto.Handle]*Moving2DWindow[Id]
}

// NewPoleWindows returns an empty window cache backed by source, using
// radius to pick which pole-data field sizes each window.
func NewPoleWindows[Id comparable](source Source[Id], radius RadiusFunc) *PoleWindows[Id] {
	return &PoleWindows[Id]{
		source:         source,
		radius:         radius,
		windowsByProto: make(map[proto.Handle]*Moving2DWindow[Id]),
	}
}

func windowTopLeft(radius float64, pos geom.MapPoint) geom.TilePos {
	return geom.TilePosOf(pos.Add(-radius, -radius))
}

func windowSize(prototype proto.Handle, radius float64) int {
	repCenter := geom.MapPoint{
		X: float64(prototype.TileWidth%2) / 2.0,
		Y: float64(prototype.TileHeight%2) / 2.0,
	}
	box := geom.AroundPoint(repCenter, radius).RoundOutToTiles()
	dx := box.Max.X - box.Min.X
	dy := box.Max.Y - box.Min.Y
	size := dx
	if dy > size {
		size = dy
	}
	return size
}

// GetWindowFor returns the window tracking the region around pos for a
// pole of the given prototype, creating it if this is the first pole of
// that prototype seen, and always repositioning it to pos first.
func (pw *PoleWindows[Id]) GetWindowFor(prototype proto.Handle, pos geom.MapPoint) *Moving2DWindow[Id] {
	poleData := *prototype.Pole
	radius := pw.radius(poleData)
	topLeft := windowTopLeft(radius, pos)

	w, ok := pw.windowsByProto[prototype]
	if !ok {
		size := windowSize(prototype, radius)
		w = New(pw.source, topLeft, size)
		pw.windowsByProto[prototype] = w
	}
	w.MoveTo(topLeft)
	return w
}
