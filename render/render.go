// Package render draws a model and its pole graph to SVG: poles in one
// color, power consumers in another, everything else as a plain blocker,
// and cable connections as lines between pole centers. Grounded on
// original_source/src/draw.rs's Drawing type, translated from plotters'
// bitmap canvas onto an SVG one since no example repo in the pack pulls
// in a raster-image plotting library but github.com/ajstarks/svgo (from
// the beads_viewer dependency stack) covers the same "draw shapes to a
// file" need as a vector format.
package render

import (
	"io"
	"math"
	"strconv"

	"github.com/ajstarks/svgo"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/polegraph"
)

const (
	poleColor       = "fill:#cc1a0d"
	blockerColor    = "fill:#00619a"
	powerableColor  = "fill:#1e8f26"
	backgroundColor = "#50505a"
	poleGraphColor  = "stroke:#14d4ff"
	outlineColor    = "stroke:#000000"
)

// Drawing renders entities and cables onto an SVG canvas covering a fixed
// tile area, at a fixed number of pixels per tile.
type Drawing struct {
	canvas *svg.SVG

	tileShift geom.MapPoint
	scale     float64
	padding   float64
}

// New starts an SVG document on w covering area, at pixelsPerTile pixels
// per map tile, with padding extra pixels on every side.
func New(w io.Writer, area geom.TileBox, pixelsPerTile, padding int) *Drawing {
	corner := area.Min.CornerMapPos()
	width := (area.Max.X-area.Min.X)*pixelsPerTile + padding*2
	height := (area.Max.Y-area.Min.Y)*pixelsPerTile + padding*2

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+backgroundColor)

	return &Drawing{
		canvas:    canvas,
		tileShift: corner,
		scale:     float64(pixelsPerTile),
		padding:   float64(padding),
	}
}

// mapPos converts a map-space point to a pixel coordinate on the canvas.
func (d *Drawing) mapPos(pt geom.MapPoint) (x, y int) {
	px := (pt.X-d.tileShift.X)*d.scale + d.padding
	py := (pt.Y-d.tileShift.Y)*d.scale + d.padding
	return int(math.Round(px)), int(math.Round(py))
}

// DrawEntity draws one entity's world bounding box, colored by kind.
func (d *Drawing) DrawEntity(e *model.Entity) {
	bbox := e.WorldBBox()
	x0, y0 := d.mapPos(bbox.Min)
	x1, y1 := d.mapPos(bbox.Max)
	w, h := x1-x0, y1-y0

	style := blockerColor
	switch {
	case e.IsPole():
		style = poleColor
	case e.UsesPower():
		style = powerableColor
	}

	d.canvas.Rect(x0, y0, w, h, style)
	d.canvas.Rect(x0, y0, w, h, "fill:none;"+outlineColor+";stroke-width:1")
}

// DrawAllEntities draws every entity in entities.
func (d *Drawing) DrawAllEntities(entities []*model.Entity) {
	for _, e := range entities {
		d.DrawEntity(e)
	}
}

// DrawPoleGraph draws every edge of g as a line between its two nodes'
// positions, at the given stroke width in map-space units.
func (d *Drawing) DrawPoleGraph(g *polegraph.Graph, width float64) {
	strokeWidth := int(math.Ceil(width * d.scale))
	if strokeWidth < 1 {
		strokeWidth = 1
	}
	style := poleGraphColor + ";stroke-width:" + strconv.Itoa(strokeWidth)
	for _, e := range g.AllEdges() {
		x0, y0 := d.mapPos(g.Node(e.A).Position)
		x1, y1 := d.mapPos(g.Node(e.B).Position)
		d.canvas.Line(x0, y0, x1, y1, style)
	}
}

// DrawModel draws every entity in m plus its current cable connections.
func (d *Drawing) DrawModel(m *model.Model) {
	d.DrawAllEntities(m.AllEntities())
	g, _ := polegraph.Current(m)
	d.DrawPoleGraph(g, 0.2)
}

// End finishes the SVG document. The canvas is unusable afterward.
func (d *Drawing) End() {
	d.canvas.End()
}
