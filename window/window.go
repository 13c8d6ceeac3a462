// Package window implements a sliding 2D tile window: a cache of "what
// occupies this square region" that can be moved incrementally as the
// region's top-left corner changes, rather than rescanned from scratch
// every time. Maximal pole-graph construction (polegraph) uses this to
// stay fast when iterating tile-sorted entities at a fixed
// window size — each step typically moves the window by one tile, and an
// incremental move costs O(size) instead of the O(size²) a full rescan
// would cost.
package window

import "github.com/gridwright/poleplan/geom"

// Source answers "what IDs occupy this tile" for a Moving2DWindow to
// track. Id is left generic (rather than fixed to a model.EntityID) so
// this package has no dependency on the entity model.
type Source[Id comparable] interface {
	GetAtTile(pos geom.TilePos) []Id
}

// FuncSource adapts a plain function into a Source.
type FuncSource[Id comparable] func(pos geom.TilePos) []Id

// GetAtTile implements Source.
func (f FuncSource[Id]) GetAtTile(pos geom.TilePos) []Id { return f(pos) }

// Moving2DWindow tracks, for a square tile region, how many of the
// region's tiles currently contribute each ID — an ID is "in" the window
// iff its count is nonzero. Moving the window by one tile only touches
// the row or column being entered and left, rather than rescanning the
// whole square.
type Moving2DWindow[Id comparable] struct {
	source  Source[Id]
	topLeft geom.TilePos
	size    int
	counts  map[Id]int
}

// New creates a Moving2DWindow of the given size with its top-left corner
// at topLeft, populated from source.
func New[Id comparable](source Source[Id], topLeft geom.TilePos, size int) *Moving2DWindow[Id] {
	w := &Moving2DWindow[Id]{
		source: source,
		size:   size,
		counts: make(map[Id]int),
	}
	w.jumpTo(topLeft)
	return w
}

// CurItems returns every ID currently present in the window, in
// unspecified order.
func (w *Moving2DWindow[Id]) CurItems() []Id {
	out := make([]Id, 0, len(w.counts))
	for id := range w.counts {
		out = append(out, id)
	}
	return out
}

// TopLeft returns the window's current top-left tile.
func (w *Moving2DWindow[Id]) TopLeft() geom.TilePos { return w.topLeft }

// Size returns the window's side length in tiles.
func (w *Moving2DWindow[Id]) Size() int { return w.size }

func (w *Moving2DWindow[Id]) decAt(pos geom.TilePos) {
	for _, id := range w.source.GetAtTile(pos) {
		count, ok := w.counts[id]
		if !ok {
			continue
		}
		if count <= 1 {
			delete(w.counts, id)
		} else {
			w.counts[id] = count - 1
		}
	}
}

func (w *Moving2DWindow[Id]) incAt(pos geom.TilePos) {
	for _, id := range w.source.GetAtTile(pos) {
		w.counts[id]++
	}
}

func (w *Moving2DWindow[Id]) moveIncX() {
	for y := 0; y < w.size; y++ {
		w.incAt(w.topLeft.Add(w.size, y))
		w.decAt(w.topLeft.Add(0, y))
	}
	w.topLeft.X++
}

func (w *Moving2DWindow[Id]) moveIncY() {
	for x := 0; x < w.size; x++ {
		w.incAt(w.topLeft.Add(x, w.size))
		w.decAt(w.topLeft.Add(x, 0))
	}
	w.topLeft.Y++
}

func (w *Moving2DWindow[Id]) moveDecX() {
	w.topLeft.X--
	for y := 0; y < w.size; y++ {
		w.incAt(w.topLeft.Add(0, y))
		w.decAt(w.topLeft.Add(w.size, y))
	}
}

func (w *Moving2DWindow[Id]) moveDecY() {
	w.topLeft.Y--
	for x := 0; x < w.size; x++ {
		w.incAt(w.topLeft.Add(x, 0))
		w.decAt(w.topLeft.Add(x, w.size))
	}
}

func (w *Moving2DWindow[Id]) moveRel(dx, dy int) {
	if dx > 0 {
		for i := 0; i < dx; i++ {
			w.moveIncX()
		}
	} else {
		for i := 0; i < -dx; i++ {
			w.moveDecX()
		}
	}
	if dy > 0 {
		for i := 0; i < dy; i++ {
			w.moveIncY()
		}
	} else {
		for i := 0; i < -dy; i++ {
			w.moveDecY()
		}
	}
}

// MoveTo repositions the window's top-left corner to newTopLeft, choosing
// whichever of a full rescan or an incremental step-by-step move does
// less work: a jump costs size², an incremental move costs
// 2*size*(|dx|+|dy|).
func (w *Moving2DWindow[Id]) MoveTo(newTopLeft geom.TilePos) {
	if w.topLeft == newTopLeft {
		return
	}
	dx := newTopLeft.X - w.topLeft.X
	dy := newTopLeft.Y - w.topLeft.Y
	workJump := w.size * w.size
	workMove := 2 * (abs(dx)*w.size + abs(dy)*w.size)
	if workJump <= workMove {
		w.jumpTo(newTopLeft)
	} else {
		w.moveRel(dx, dy)
	}
}

func (w *Moving2DWindow[Id]) jumpTo(newTopLeft geom.TilePos) {
	w.topLeft = newTopLeft
	for id := range w.counts {
		delete(w.counts, id)
	}
	for x := 0; x < w.size; x++ {
		for y := 0; y < w.size; y++ {
			w.incAt(newTopLeft.Add(x, y))
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
