// Package catalog loads and saves the prototype catalog the planner runs
// against: for each entity kind it cares about, its footprint, whether it
// draws power, and (for poles) its wire reach and supply radius. On disk
// this is one YAML document, a reduced analogue of the "data raw" dump
// original_source/src/prototype_data.rs reads from the game and caches to
// JSON.
package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/proto"
)

type fileEntry struct {
	Type         string    `yaml:"type"`
	Name         string    `yaml:"name"`
	TileWidth    int       `yaml:"tile_width"`
	TileHeight   int       `yaml:"tile_height"`
	CollisionBox box       `yaml:"collision_box"`
	UsesPower    bool      `yaml:"uses_power"`
	Pole         *poleYAML `yaml:"pole,omitempty"`
}

type box struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type poleYAML struct {
	SupplyRadius float64 `yaml:"supply_radius"`
	WireDistance float64 `yaml:"wire_distance"`
}

// Load reads a YAML catalog file from path and returns the parsed
// prototype catalog.
func Load(path string) (*proto.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	var entries []fileEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	protos := make([]*proto.Prototype, 0, len(entries))
	for _, e := range entries {
		width, height := e.TileWidth, e.TileHeight
		if width == 0 {
			width = 1
		}
		if height == 0 {
			height = 1
		}
		p := &proto.Prototype{
			Type:       e.Type,
			Name:       e.Name,
			TileWidth:  width,
			TileHeight: height,
			CollisionBox: geom.MapBox{
				Min: geom.MapPoint{X: e.CollisionBox.MinX, Y: e.CollisionBox.MinY},
				Max: geom.MapPoint{X: e.CollisionBox.MaxX, Y: e.CollisionBox.MaxY},
			},
			UsesPower: e.UsesPower,
		}
		if e.Pole != nil {
			p.Pole = &proto.PoleData{SupplyRadius: e.Pole.SupplyRadius, WireDistance: e.Pole.WireDistance}
		}
		protos = append(protos, p)
	}
	return proto.NewCatalog(protos), nil
}

// Save writes every prototype in c to path as YAML, sorted by name for a
// stable diff.
func Save(path string, c *proto.Catalog) error {
	all := c.All()
	entries := make([]fileEntry, len(all))
	for i, p := range all {
		e := fileEntry{
			Type:       p.Type,
			Name:       p.Name,
			TileWidth:  p.TileWidth,
			TileHeight: p.TileHeight,
			CollisionBox: box{
				MinX: p.CollisionBox.Min.X,
				MinY: p.CollisionBox.Min.Y,
				MaxX: p.CollisionBox.Max.X,
				MaxY: p.CollisionBox.Max.Y,
			},
			UsesPower: p.UsesPower,
		}
		if p.Pole != nil {
			e.Pole = &poleYAML{SupplyRadius: p.Pole.SupplyRadius, WireDistance: p.Pole.WireDistance}
		}
		entries[i] = e
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("catalog: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("catalog: write %s: %w", path, err)
	}
	return nil
}
