package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), c)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
solver:
  distance_cost_factor: 2.5
  time_limit_seconds: 60
candidates:
  pole_prototypes: ["big-electric-pole"]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2.5, c.Solver.DistanceCostFactor)
	require.Equal(t, 60, c.Solver.TimeLimitSeconds)
	require.Equal(t, []string{"big-electric-pole"}, c.Candidates.PolePrototypes)
	// unset fields keep their defaults
	require.Equal(t, "catalog.yaml", c.Paths.CatalogFile)
	require.True(t, c.Solver.UseConnectivityHeuristic)
}
