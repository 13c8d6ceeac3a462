// Package blueprint decodes and encodes Factorio's blueprint-string
// format: a version byte followed by base64 of zlib-compressed JSON. The
// core planner only cares about entity name, position, direction and
// cable neighbours, so the decoded shape here is a deliberately reduced
// projection of the full blueprint schema rather than a complete
// round-trip of every entity field Factorio itself supports (circuit
// network connections, recipes, inventories, and the like) — placement
// planning never touches those.
package blueprint

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/proto"
)

// version is the blueprint-string format version Factorio currently
// emits. Decode rejects any other leading byte.
const version byte = '0'

// Entity is one entity of a blueprint, reduced to the fields the planner
// reads or writes.
type Entity struct {
	Number     int      `json:"entity_number"`
	Name       string   `json:"name"`
	Position   Position `json:"position"`
	Direction  uint8    `json:"direction,omitempty"`
	Neighbours []int    `json:"neighbours,omitempty"`
}

// Position is a blueprint entity's map-space position, in the JSON shape
// Factorio itself emits.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type body struct {
	Item     string   `json:"item"`
	Label    string   `json:"label,omitempty"`
	Entities []Entity `json:"entities,omitempty"`
	Version  int64    `json:"version"`
}

type wrapper struct {
	Blueprint body `json:"blueprint"`
}

// Blueprint is a decoded blueprint string, reduced to what the planner
// consumes.
type Blueprint struct {
	Item     string
	Label    string
	Version  int64
	Entities []Entity
}

// Decode parses a Factorio blueprint string (version byte + base64 +
// zlib + JSON) into a Blueprint.
func Decode(s string) (*Blueprint, error) {
	if len(s) == 0 {
		return nil, fmt.Errorf("blueprint: empty string")
	}
	if s[0] != version {
		return nil, fmt.Errorf("blueprint: unsupported version byte %q", s[0])
	}
	raw, err := base64.StdEncoding.DecodeString(s[1:])
	if err != nil {
		return nil, fmt.Errorf("blueprint: base64 decode: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("blueprint: zlib decode: %w", err)
	}
	defer zr.Close()
	var w wrapper
	if err := json.NewDecoder(zr).Decode(&w); err != nil {
		return nil, fmt.Errorf("blueprint: json decode: %w", err)
	}
	return &Blueprint{
		Item:     w.Blueprint.Item,
		Label:    w.Blueprint.Label,
		Version:  w.Blueprint.Version,
		Entities: w.Blueprint.Entities,
	}, nil
}

// Encode serializes bp back into a Factorio blueprint string.
func Encode(bp *Blueprint) (string, error) {
	w := wrapper{Blueprint: body{
		Item:     bp.Item,
		Label:    bp.Label,
		Entities: bp.Entities,
		Version:  bp.Version,
	}}
	var jsonBuf bytes.Buffer
	if err := json.NewEncoder(&jsonBuf).Encode(w); err != nil {
		return "", fmt.Errorf("blueprint: json encode: %w", err)
	}

	var zbuf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&zbuf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("blueprint: zlib writer: %w", err)
	}
	if _, err := io.Copy(zw, &jsonBuf); err != nil {
		return "", fmt.Errorf("blueprint: zlib write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("blueprint: zlib close: %w", err)
	}

	return string(version) + base64.StdEncoding.EncodeToString(zbuf.Bytes()), nil
}

// ToModel imports bp's entities into a fresh model, looking each one up
// in catalog by name. Entities whose prototype is unknown to catalog are
// skipped rather than rejecting the whole blueprint, since a catalog is
// expected to cover only the prototypes the planner cares about
// (generally: poles and power-using buildings), not every entity
// Factorio ships.
func ToModel(bp *Blueprint, catalog *proto.Catalog) *model.Model {
	m := model.New()
	idByNumber := make(map[int]model.EntityID, len(bp.Entities))
	for _, be := range bp.Entities {
		p, ok := catalog.Lookup(be.Name)
		if !ok {
			continue
		}
		pos := geom.MapPoint{X: be.Position.X, Y: be.Position.Y}
		id := m.AddOverlap(p, pos, be.Direction)
		idByNumber[be.Number] = id
	}
	for _, be := range bp.Entities {
		src, ok := idByNumber[be.Number]
		if !ok {
			continue
		}
		for _, n := range be.Neighbours {
			dst, ok := idByNumber[n]
			if !ok || dst < src {
				continue
			}
			m.AddCableConnection(src, dst)
		}
	}
	return m
}

// FromModel exports every entity in m as a blueprint with the given item
// name (normally "blueprint").
func FromModel(m *model.Model, item string) *Blueprint {
	entities := m.AllEntitiesGridOrder()
	numberByID := make(map[model.EntityID]int, len(entities))
	out := make([]Entity, 0, len(entities))
	for i, e := range entities {
		number := i + 1
		numberByID[e.ID] = number
		out = append(out, Entity{
			Number:    number,
			Name:      e.Prototype.Name,
			Position:  Position{X: e.Position.X, Y: e.Position.Y},
			Direction: e.Direction,
		})
	}
	for i, e := range entities {
		if len(e.Connections()) == 0 {
			continue
		}
		neighbours := make([]int, 0, len(e.Connections()))
		for otherID := range e.Connections() {
			neighbours = append(neighbours, numberByID[otherID])
		}
		out[i].Neighbours = neighbours
	}
	return &Blueprint{Item: item, Version: 0, Entities: out}
}
