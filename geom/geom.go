// Package geom defines the two coordinate spaces used throughout the pole
// planner: map space (real-valued, y grows downward, where entities are
// positioned) and tile space (integer-valued, where the spatial index and
// candidate enumeration operate).
//
// Go has no phantom-type unit parameters, so the two spaces are kept apart
// by using two structurally distinct point/box types (MapPoint/MapBox vs
// TilePos/TileBox) rather than a single generic Point[Unit] — callers can't
// accidentally mix a tile coordinate into map-space arithmetic because the
// types simply don't match.
package geom

import "math"

// epsilon is the floating point tolerance used for "covers center" and
// wire/supply-radius boundary comparisons throughout the planner.
const epsilon = 1e-6

// MapPoint is a position in map space: real-valued, +x right, +y down.
type MapPoint struct {
	X, Y float64
}

// Add returns p translated by (dx, dy).
func (p MapPoint) Add(dx, dy float64) MapPoint { return MapPoint{p.X + dx, p.Y + dy} }

// Sub returns the vector from o to p.
func (p MapPoint) Sub(o MapPoint) MapPoint { return MapPoint{p.X - o.X, p.Y - o.Y} }

// DistanceTo returns the Euclidean distance between p and o.
func (p MapPoint) DistanceTo(o MapPoint) float64 {
	return math.Sqrt(p.SquareDistanceTo(o))
}

// SquareDistanceTo avoids the sqrt when only comparisons are needed.
func (p MapPoint) SquareDistanceTo(o MapPoint) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	return dx*dx + dy*dy
}

// Cross returns the 2D cross product of vectors p and o (treating both as
// vectors from the origin).
func (p MapPoint) Cross(o MapPoint) float64 { return p.X*o.Y - p.Y*o.X }

// Length returns the Euclidean norm of p treated as a vector.
func (p MapPoint) Length() float64 { return math.Sqrt(p.X*p.X + p.Y*p.Y) }

// Normalize returns p scaled to unit length. Returns the zero vector if p
// is the zero vector.
func (p MapPoint) Normalize() MapPoint {
	l := p.Length()
	if l == 0 {
		return MapPoint{}
	}
	return MapPoint{p.X / l, p.Y / l}
}

// AngleTo returns the signed angle (radians, in (-pi, pi]) from vector p to
// vector o, positive counter-clockwise in a +y-down coordinate system
// (matching euclid::Vector2D::angle_to's convention as used by the original
// implementation).
func (p MapPoint) AngleTo(o MapPoint) float64 {
	return math.Atan2(p.Cross(o), p.X*o.X+p.Y*o.Y)
}

// TilePos is a position in tile space: integer-valued, +x right, +y down.
type TilePos struct {
	X, Y int
}

// Add returns t translated by (dx, dy).
func (t TilePos) Add(dx, dy int) TilePos { return TilePos{t.X + dx, t.Y + dy} }

// CenterMapPos returns the map-space center of tile t.
func (t TilePos) CenterMapPos() MapPoint {
	return MapPoint{float64(t.X) + 0.5, float64(t.Y) + 0.5}
}

// CornerMapPos returns the map-space top-left corner of tile t.
func (t TilePos) CornerMapPos() MapPoint {
	return MapPoint{float64(t.X), float64(t.Y)}
}

// TilePosOf returns the tile containing map point p (floor rounding).
func TilePosOf(p MapPoint) TilePos {
	return TilePos{int(math.Floor(p.X)), int(math.Floor(p.Y))}
}

// MapBox is an axis-aligned bounding box in map space, half-open on [Min, Max).
type MapBox struct {
	Min, Max MapPoint
}

// NewMapBox builds a MapBox, normalizing so Min <= Max componentwise.
func NewMapBox(a, b MapPoint) MapBox {
	return MapBox{
		Min: MapPoint{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: MapPoint{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Translate returns b shifted by v.
func (b MapBox) Translate(v MapPoint) MapBox {
	return MapBox{b.Min.Add(v.X, v.Y), b.Max.Add(v.X, v.Y)}
}

// AroundPoint returns the square box of the given radius centered on center.
func AroundPoint(center MapPoint, radius float64) MapBox {
	return MapBox{
		Min: MapPoint{center.X - radius, center.Y - radius},
		Max: MapPoint{center.X + radius, center.Y + radius},
	}
}

// RoundOutToTiles expands b to the smallest TileBox fully containing it.
func (b MapBox) RoundOutToTiles() TileBox {
	return TileBox{
		Min: TilePos{int(math.Floor(b.Min.X)), int(math.Floor(b.Min.Y))},
		Max: TilePos{int(math.Ceil(b.Max.X)), int(math.Ceil(b.Max.Y))},
	}
}

// RoundToTilesCoveringCenter expands b by epsilon on every side before
// rounding to the nearest integer, so that a boundary exactly on a tile
// line (e.g. a pole exactly wire_distance away) is included rather than
// excluded by floating point error. A coordinate that lands exactly on a
// half-integer (x.5) is considered inside both adjacent tiles.
func (b MapBox) RoundToTilesCoveringCenter() TileBox {
	return TileBox{
		Min: TilePos{
			int(math.Round(b.Min.X - epsilon)),
			int(math.Round(b.Min.Y - epsilon)),
		},
		Max: TilePos{
			int(math.Round(b.Max.X + epsilon)),
			int(math.Round(b.Max.Y + epsilon)),
		},
	}
}

// Direction is a cardinal direction in the +y-down plane.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// DirectionFromRaw folds a raw 0..7 Factorio-style direction value down to
// one of the four cardinals: 0,1 -> North; 2,3 -> East; 4,5 -> South; 6,7 -> West.
func DirectionFromRaw(raw uint8) Direction {
	return Direction((raw % 8) / 2)
}

// Rotate rotates point p by direction d, assuming +y points down.
func (d Direction) Rotate(p MapPoint) MapPoint {
	switch d {
	case North:
		return p
	case East:
		return MapPoint{-p.Y, p.X}
	case South:
		return MapPoint{-p.X, -p.Y}
	case West:
		return MapPoint{p.Y, -p.X}
	default:
		return p
	}
}

// RotateBox rotates box b by direction d, assuming +y points down.
func (d Direction) RotateBox(b MapBox) MapBox {
	switch d {
	case North:
		return b
	case East:
		return NewMapBox(
			MapPoint{-b.Max.Y, b.Min.X},
			MapPoint{-b.Min.Y, b.Max.X},
		)
	case South:
		return NewMapBox(
			MapPoint{-b.Max.X, -b.Max.Y},
			MapPoint{-b.Min.X, -b.Min.Y},
		)
	case West:
		return NewMapBox(
			MapPoint{b.Min.Y, -b.Max.X},
			MapPoint{b.Max.Y, -b.Min.X},
		)
	default:
		return b
	}
}

// TileBox is an axis-aligned bounding box in tile space, half-open on [Min, Max).
type TileBox struct {
	Min, Max TilePos
}

// NewTileBox builds a TileBox from origin and size.
func NewTileBox(origin TilePos, width, height int) TileBox {
	return TileBox{Min: origin, Max: TilePos{origin.X + width, origin.Y + height}}
}

// ContractMax shrinks the box's max corner by amt on both axes (used to
// contract a placement area so a footprint of a given size fits inside it).
func (b TileBox) ContractMax(amt int) TileBox {
	return TileBox{Min: b.Min, Max: TilePos{b.Max.X - amt, b.Max.Y - amt}}
}

// Expand inflates b by n tiles on every side.
func (b TileBox) Expand(n int) TileBox {
	return TileBox{
		Min: TilePos{b.Min.X - n, b.Min.Y - n},
		Max: TilePos{b.Max.X + n, b.Max.Y + n},
	}
}

// IterTiles calls fn for every tile in [Min, Max), in deterministic
// column-major order (x outer, y inner), matching the original
// implementation's iteration order.
func (b TileBox) IterTiles(fn func(TilePos)) {
	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			fn(TilePos{x, y})
		}
	}
}

// Tiles materializes IterTiles into a slice, in the same deterministic order.
func (b TileBox) Tiles() []TilePos {
	out := make([]TilePos, 0, (b.Max.X-b.Min.X)*(b.Max.Y-b.Min.Y))
	b.IterTiles(func(t TilePos) { out = append(out, t) })
	return out
}

// BoundingTileBox returns the box spanning every tile in pts, with Min the
// smallest and Max the largest X and Y found in pts. Max is inclusive here,
// so under TileBox's half-open convention the last column and row of pts
// lie outside the result; add one to Max to cover them. Returns the zero
// TileBox if pts is empty.
func BoundingTileBox(pts []TilePos) TileBox {
	if len(pts) == 0 {
		return TileBox{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := pts[0].X, pts[0].Y
	for _, p := range pts[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return TileBox{Min: TilePos{minX, minY}, Max: TilePos{maxX, maxY}}
}

// BoundingMapBox returns the smallest MapBox containing every point in pts.
func BoundingMapBox(pts []MapPoint) MapBox {
	if len(pts) == 0 {
		return MapBox{}
	}
	b := MapBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}
