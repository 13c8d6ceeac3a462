// Package proto holds entity prototype data: the static, catalog-level
// facts about an entity kind (its footprint, whether it consumes power,
// and — for poles — its wire reach and supply radius). Prototypes are
// loaded once from a catalog and referenced by pointer for the rest of a
// run; a *Prototype pointer already hashes and compares by address, which
// is all the identity the rest of the module needs.
package proto

import "github.com/gridwright/poleplan/geom"

// Handle identifies a prototype by pointer. Two handles are equal iff they
// point at the same Prototype value; Go's built-in pointer identity makes
// this free, unlike languages where a reference-counted pointer's default
// equality is structural and must be overridden to get pointer semantics.
type Handle = *Prototype

// PoleData holds the pole-specific attributes of a prototype. A
// prototype with no PoleData is not a pole.
type PoleData struct {
	// SupplyRadius is the half-width, in map-space units, of the square
	// around the pole within which it powers consumers.
	SupplyRadius float64
	// WireDistance is the maximum map-space distance over which this
	// pole can form a cable connection to another pole.
	WireDistance float64
}

// Prototype is the immutable, catalog-level description of an entity kind.
type Prototype struct {
	Type string
	Name string

	// TileWidth and TileHeight give the footprint size in tiles. The
	// planner requires TileWidth == TileHeight for any prototype used as
	// a candidate pole (see candidate.Enumerate).
	TileWidth  int
	TileHeight int

	// CollisionBox is the entity's local-space collision box, centered
	// on its placement position before rotation.
	CollisionBox geom.MapBox

	// UsesPower marks an entity as a power consumer: something that
	// needs to fall within a pole's SupplyRadius to be considered
	// powered. A pole itself never uses power.
	UsesPower bool

	// Pole is non-nil iff this prototype is an electric pole.
	Pole *PoleData
}

// IsPole reports whether p is an electric pole prototype.
func (p *Prototype) IsPole() bool { return p.Pole != nil }

// Catalog is a lookup table from prototype name to Handle.
type Catalog struct {
	byName map[string]Handle
}

// NewCatalog builds a Catalog from a list of prototypes. Later entries
// with a duplicate name overwrite earlier ones.
func NewCatalog(protos []*Prototype) *Catalog {
	c := &Catalog{byName: make(map[string]Handle, len(protos))}
	for _, p := range protos {
		c.byName[p.Name] = p
	}
	return c
}

// Lookup returns the prototype registered under name, and whether it
// was found.
func (c *Catalog) Lookup(name string) (Handle, bool) {
	h, ok := c.byName[name]
	return h, ok
}

// All returns every prototype in the catalog, in unspecified order.
func (c *Catalog) All() []Handle {
	out := make([]Handle, 0, len(c.byName))
	for _, h := range c.byName {
		out = append(out, h)
	}
	return out
}
