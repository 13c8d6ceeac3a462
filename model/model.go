// Package model holds the in-memory entity store for a blueprint: the set
// of placed entities, indexed by the tiles they occupy so that overlap
// checks, cable-reach queries, and supply-radius queries can all be
// answered without scanning every entity.
//
// A Model is single-owner and not safe for concurrent use. Nothing in the
// planner shares a *Model across goroutines, so no locking is carried
// here.
package model

import (
	"fmt"
	"sort"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/proto"
)

// EntityID uniquely identifies an entity within one Model. IDs are assigned
// in insertion order starting at 1 and are never reused, even after Remove.
type EntityID int

// Entity is a single placed entity: a prototype, a position, and (for
// poles) the set of other poles it is cable-connected to.
type Entity struct {
	ID        EntityID
	Prototype proto.Handle
	Position  geom.MapPoint
	Direction uint8

	// connections is non-nil iff Prototype.IsPole(). Mutated only through
	// Model.AddCableConnection and Model.Remove.
	connections map[EntityID]struct{}
}

func newEntity(id EntityID, prototype proto.Handle, pos geom.MapPoint, dir uint8) *Entity {
	e := &Entity{ID: id, Prototype: prototype, Position: pos, Direction: dir}
	if prototype.IsPole() {
		e.connections = make(map[EntityID]struct{})
	}
	return e
}

// LocalBBox returns the entity's collision box in its own local space,
// rotated by Direction but not yet translated to Position.
func (e *Entity) LocalBBox() geom.MapBox {
	dir := geom.DirectionFromRaw(e.Direction)
	return dir.RotateBox(e.Prototype.CollisionBox)
}

// WorldBBox returns the entity's collision box translated to its placed
// position.
func (e *Entity) WorldBBox() geom.MapBox {
	return e.LocalBBox().Translate(e.Position)
}

// UsesPower reports whether this entity is a power consumer. Poles never
// use power even if their prototype happens to set UsesPower.
func (e *Entity) UsesPower() bool {
	return !e.Prototype.IsPole() && e.Prototype.UsesPower
}

// IsPole reports whether this entity is an electric pole.
func (e *Entity) IsPole() bool { return e.Prototype.IsPole() }

// Connections returns the set of entity IDs this pole is cable-connected
// to. Returns nil if the entity is not a pole. The returned map must not
// be mutated by the caller.
func (e *Entity) Connections() map[EntityID]struct{} { return e.connections }

// Model is the tile-indexed entity store.
type Model struct {
	byTile   map[geom.TilePos][]EntityID
	entities map[EntityID]*Entity
	nextID   EntityID
}

// New returns an empty Model.
func New() *Model {
	return &Model{
		byTile:   make(map[geom.TilePos][]EntityID),
		entities: make(map[EntityID]*Entity),
		nextID:   1,
	}
}

func (m *Model) addInternal(e *Entity) {
	for _, tile := range e.WorldBBox().RoundOutToTiles().Tiles() {
		m.byTile[tile] = append(m.byTile[tile], e.ID)
	}
	if _, exists := m.entities[e.ID]; exists {
		panic(fmt.Sprintf("model: entity with id %d already exists", e.ID))
	}
	m.entities[e.ID] = e
}

// AddOverlap places an entity without checking for collisions, and
// returns its newly assigned ID.
func (m *Model) AddOverlap(prototype proto.Handle, pos geom.MapPoint, dir uint8) EntityID {
	id := m.nextID
	m.nextID++
	m.addInternal(newEntity(id, prototype, pos, dir))
	return id
}

// CanPlace reports whether an entity with the given footprint could be
// placed at pos without overlapping any existing entity's occupied tiles.
func (m *Model) CanPlace(prototype proto.Handle, pos geom.MapPoint, dir uint8) bool {
	box := geom.DirectionFromRaw(dir).RotateBox(prototype.CollisionBox).Translate(pos)
	for _, tile := range box.RoundOutToTiles().Tiles() {
		if m.Occupied(tile) {
			return false
		}
	}
	return true
}

// AddNoOverlap places an entity iff it does not overlap any existing
// entity, returning its ID and true on success, or false if the placement
// was rejected.
func (m *Model) AddNoOverlap(prototype proto.Handle, pos geom.MapPoint, dir uint8) (EntityID, bool) {
	if !m.CanPlace(prototype, pos, dir) {
		return 0, false
	}
	return m.AddOverlap(prototype, pos, dir), true
}

// AddCableConnection connects two poles by cable, provided both exist,
// both are poles, and the distance between them does not exceed the
// smaller of their two wire distances. Returns false if the connection
// was rejected or either ID does not name a pole.
func (m *Model) AddCableConnection(id, otherID EntityID) bool {
	this, ok := m.entities[id]
	if !ok || !this.IsPole() {
		return false
	}
	other, ok := m.entities[otherID]
	if !ok || !other.IsPole() {
		return false
	}
	maxDist := this.Prototype.Pole.WireDistance
	if other.Prototype.Pole.WireDistance < maxDist {
		maxDist = other.Prototype.Pole.WireDistance
	}
	if this.Position.SquareDistanceTo(other.Position) > maxDist*maxDist {
		return false
	}
	this.connections[otherID] = struct{}{}
	other.connections[id] = struct{}{}
	return true
}

// Remove deletes an entity by ID, pruning any tile bucket that becomes
// empty as a result. Remove panics if id does not name a live entity,
// since callers always hold IDs the Model itself handed out.
func (m *Model) Remove(id EntityID) {
	e, ok := m.entities[id]
	if !ok {
		panic(fmt.Sprintf("model: remove of unknown entity id %d", id))
	}
	delete(m.entities, id)
	for _, tile := range e.WorldBBox().RoundOutToTiles().Tiles() {
		ids := m.byTile[tile]
		ids = removeID(ids, id)
		if len(ids) == 0 {
			delete(m.byTile, tile)
		} else {
			m.byTile[tile] = ids
		}
	}
}

func removeID(ids []EntityID, target EntityID) []EntityID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Retain removes every entity for which keep returns false.
func (m *Model) Retain(keep func(*Entity) bool) {
	var toRemove []EntityID
	for id, e := range m.entities {
		if !keep(e) {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		m.Remove(id)
	}
}

// Occupied reports whether any entity occupies tile.
func (m *Model) Occupied(tile geom.TilePos) bool {
	return len(m.byTile[tile]) > 0
}

// AllEntities returns every entity in the model, in unspecified order.
func (m *Model) AllEntities() []*Entity {
	out := make([]*Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	return out
}

// AllEntitiesGridOrder returns every entity in the model, ordered by
// tile position (x first, then y, over the tile-bucket keys) with
// duplicates collapsed, matching the iteration order maximal pole-graph
// construction relies on for window amortization.
func (m *Model) AllEntitiesGridOrder() []*Entity {
	tiles := make([]geom.TilePos, 0, len(m.byTile))
	for t := range m.byTile {
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].X != tiles[j].X {
			return tiles[i].X < tiles[j].X
		}
		return tiles[i].Y < tiles[j].Y
	})
	seen := make(map[EntityID]struct{}, len(m.entities))
	out := make([]*Entity, 0, len(m.entities))
	for _, t := range tiles {
		for _, id := range m.byTile[t] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, m.entities[id])
		}
	}
	return out
}

// Clone returns a deep copy of m: entities and tile buckets are copied,
// so mutating the clone never affects the original.
func (m *Model) Clone() *Model {
	out := &Model{
		byTile:   make(map[geom.TilePos][]EntityID, len(m.byTile)),
		entities: make(map[EntityID]*Entity, len(m.entities)),
		nextID:   m.nextID,
	}
	for tile, ids := range m.byTile {
		cp := make([]EntityID, len(ids))
		copy(cp, ids)
		out.byTile[tile] = cp
	}
	for id, e := range m.entities {
		ec := *e
		if e.connections != nil {
			ec.connections = make(map[EntityID]struct{}, len(e.connections))
			for other := range e.connections {
				ec.connections[other] = struct{}{}
			}
		}
		out.entities[id] = &ec
	}
	return out
}

// Get returns the entity with the given ID, if it exists.
func (m *Model) Get(id EntityID) (*Entity, bool) {
	e, ok := m.entities[id]
	return e, ok
}

// GetAtTile returns every entity whose world bounding box covers tile.
func (m *Model) GetAtTile(tile geom.TilePos) []*Entity {
	ids := m.byTile[tile]
	if len(ids) == 0 {
		return nil
	}
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.entities[id])
	}
	return out
}

// BoundingBox returns the smallest tile box covering every occupied tile,
// expanded by one tile on the max corner to make it usable as a half-open
// placement area.
func (m *Model) BoundingBox() geom.TileBox {
	tiles := make([]geom.TilePos, 0, len(m.byTile))
	for t := range m.byTile {
		tiles = append(tiles, t)
	}
	box := geom.BoundingTileBox(tiles)
	return geom.TileBox{Min: box.Min, Max: geom.TilePos{X: box.Max.X + 1, Y: box.Max.Y + 1}}
}

// IsConnectablePole reports whether target is a pole reachable by cable
// from a pole positioned at polePos with the given pole data.
func (m *Model) IsConnectablePole(polePos geom.MapPoint, poleData proto.PoleData, target *Entity) bool {
	const eps = 1e-6
	if !target.IsPole() {
		return false
	}
	maxDist := poleData.WireDistance
	if target.Prototype.Pole.WireDistance < maxDist {
		maxDist = target.Prototype.Pole.WireDistance
	}
	return polePos.SquareDistanceTo(target.Position) <= maxDist*maxDist+eps
}

// ConnectablePoles returns every pole within cable reach of a pole
// positioned at polePos with the given pole data, deduplicated by ID.
func (m *Model) ConnectablePoles(polePos geom.MapPoint, poleData proto.PoleData) []*Entity {
	box := geom.AroundPoint(polePos, poleData.WireDistance).RoundToTilesCoveringCenter()
	seen := make(map[EntityID]struct{})
	var out []*Entity
	box.IterTiles(func(tile geom.TilePos) {
		for _, e := range m.GetAtTile(tile) {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			if m.IsConnectablePole(polePos, poleData, e) {
				seen[e.ID] = struct{}{}
				out = append(out, e)
			}
		}
	})
	return out
}

// PoweredEntities returns every power-consuming entity that occupies a
// tile of the square reaching SupplyRadius from polePos on every side,
// rounded out to whole tiles, deduplicated by ID. No Euclidean distance
// check is made.
func (m *Model) PoweredEntities(polePos geom.MapPoint, poleData proto.PoleData) []*Entity {
	box := geom.AroundPoint(polePos, poleData.SupplyRadius).RoundOutToTiles()
	seen := make(map[EntityID]struct{})
	var out []*Entity
	box.IterTiles(func(tile geom.TilePos) {
		for _, e := range m.GetAtTile(tile) {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			if e.UsesPower() {
				seen[e.ID] = struct{}{}
				out = append(out, e)
			}
		}
	})
	return out
}
