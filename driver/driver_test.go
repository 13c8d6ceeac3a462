package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridwright/poleplan/blueprint"
	"github.com/gridwright/poleplan/catalog"
	"github.com/gridwright/poleplan/config"
	poleplanGeom "github.com/gridwright/poleplan/geom"
	"github.com/gridwright/poleplan/proto"
)

func writeTestCatalog(t *testing.T, path string) {
	t.Helper()
	pole := &proto.Prototype{
		Type:         "electric-pole",
		Name:         "small-electric-pole",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: poleplanGeom.MapBox{Min: poleplanGeom.MapPoint{X: -0.5, Y: -0.5}, Max: poleplanGeom.MapPoint{X: 0.5, Y: 0.5}},
		Pole:         &proto.PoleData{WireDistance: 7.5, SupplyRadius: 5},
	}
	consumer := &proto.Prototype{
		Type:         "generator",
		Name:         "solar-panel",
		TileWidth:    1,
		TileHeight:   1,
		CollisionBox: poleplanGeom.MapBox{Min: poleplanGeom.MapPoint{X: -0.5, Y: -0.5}, Max: poleplanGeom.MapPoint{X: 0.5, Y: 0.5}},
		UsesPower:    true,
	}
	c := proto.NewCatalog([]*proto.Prototype{pole, consumer})
	require.NoError(t, catalog.Save(path, c))
}

func writeTestInputBlueprint(t *testing.T, path string) {
	t.Helper()
	bp := &blueprint.Blueprint{
		Item: "blueprint",
		Entities: []blueprint.Entity{
			{Number: 1, Name: "solar-panel", Position: blueprint.Position{X: 2.5, Y: 2.5}},
		},
	}
	s, err := blueprint.Encode(bp)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(s), 0o644))
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	inputPath := filepath.Join(dir, "input.txt")
	outputPath := filepath.Join(dir, "output.txt")
	renderPath := filepath.Join(dir, "layout.svg")

	writeTestCatalog(t, catalogPath)
	writeTestInputBlueprint(t, inputPath)

	cfg := config.DefaultConfig()
	cfg.Paths.CatalogFile = catalogPath
	cfg.Paths.InputBlueprintFile = inputPath
	cfg.Paths.OutputBlueprintFile = outputPath
	cfg.Paths.RenderFile = renderPath
	cfg.Candidates.PolePrototypes = []string{"small-electric-pole"}
	cfg.Candidates.PaddingTiles = 3
	cfg.Solver.UseConnectivityHeuristic = false
	cfg.Logging.ConsoleEnabled = false

	result, err := Run(cfg)
	require.NoError(t, err)
	require.Equal(t, 1, result.EntitiesLoaded)
	require.GreaterOrEqual(t, result.PolesPlaced, 1)

	outBytes, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	outBP, err := blueprint.Decode(string(outBytes))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(outBP.Entities), 2)

	svgBytes, err := os.ReadFile(renderPath)
	require.NoError(t, err)
	require.Contains(t, string(svgBytes), "<svg")
}
