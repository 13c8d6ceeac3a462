// Package config loads the driver's run configuration from YAML.
// Grounded on lawnchairsociety-OpenTowerMUD/server/internal/config:
// same defaults-then-overlay loading shape, adapted from a server's
// runtime settings to a single planner run's inputs and tuning knobs.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridwright/poleplan/logging"
)

// Config is the top-level configuration for one planner run.
type Config struct {
	Paths      PathsConfig      `yaml:"paths"`
	Candidates CandidatesConfig `yaml:"candidates"`
	Solver     SolverConfig     `yaml:"solver"`
	Connector  ConnectorConfig  `yaml:"connector"`
	Logging    logging.Config   `yaml:"logging"`
}

// PathsConfig holds the on-disk locations a run reads from and writes to.
type PathsConfig struct {
	CatalogFile         string `yaml:"catalog_file"`
	InputBlueprintFile  string `yaml:"input_blueprint_file"`
	OutputBlueprintFile string `yaml:"output_blueprint_file"`
	RenderFile          string `yaml:"render_file"`
}

// CandidatesConfig controls where and with which prototypes candidate
// poles are enumerated.
type CandidatesConfig struct {
	// PolePrototypes lists the catalog prototype names eligible to be
	// placed as a candidate pole, in preference order.
	PolePrototypes []string `yaml:"pole_prototypes"`

	// PaddingTiles expands the model's bounding box by this many tiles on
	// every side before enumerating candidates, so poles can be placed
	// just outside the existing layout's footprint.
	PaddingTiles int `yaml:"padding_tiles"`
}

// SolverConfig tunes the set-cover ILP solve.
type SolverConfig struct {
	// DistanceCostFactor weights a candidate pole's distance from the
	// center of the candidate poles' bounding box into its cost,
	// discouraging placements far from the
	// layout's center when several candidates cover the same consumers
	// equally well.
	DistanceCostFactor float64 `yaml:"distance_cost_factor"`

	// UseConnectivityHeuristic enables the distance-biased Dijkstra
	// connectivity constraints, trading solve time for fewer disconnected
	// pole clusters in the chosen set.
	UseConnectivityHeuristic bool `yaml:"use_connectivity_heuristic"`

	// RootLocation positions the connectivity heuristic's root point
	// along the diagonal of the candidate poles' bounding box: 0 is the
	// min corner, 1 is
	// the max corner, 0.5 is the center.
	RootLocation float64 `yaml:"root_location"`

	// TimeLimitSeconds caps how long the solver searches before returning
	// its best solution so far. 0 means no limit.
	TimeLimitSeconds int `yaml:"time_limit_seconds"`

	// UseLPSolve selects the lp_solve-backed production solver instead of
	// the pure-Go branch-and-bound default.
	UseLPSolve bool `yaml:"use_lp_solve"`

	// Verbose turns on the solver backend's own solve-progress logging.
	Verbose bool `yaml:"verbose"`
}

// ConnectorConfig tunes the cable-routing pass after solving.
type ConnectorConfig struct {
	// Pretty enables the greedy pretty-edge pass on top of the
	// degree-penalized MST. False means the MST alone.
	Pretty bool `yaml:"pretty"`

	// MinAngleDegrees and MinAdjacentAngleDegrees override
	// connector.PrettyPoleConnector's angular-clearance defaults. Zero
	// means use the connector package's own defaults.
	MinAngleDegrees         float64 `yaml:"min_angle_degrees"`
	MinAdjacentAngleDegrees float64 `yaml:"min_adjacent_angle_degrees"`
}

// DefaultConfig returns the configuration a run falls back to when no
// config file is given or a field is left unset.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			CatalogFile:         "catalog.yaml",
			InputBlueprintFile:  "input.txt",
			OutputBlueprintFile: "output.txt",
			RenderFile:          "layout.svg",
		},
		Candidates: CandidatesConfig{
			PolePrototypes: []string{"medium-electric-pole", "small-electric-pole"},
			PaddingTiles:   5,
		},
		Solver: SolverConfig{
			DistanceCostFactor:       1.0,
			UseConnectivityHeuristic: true,
			RootLocation:             0.5,
			TimeLimitSeconds:         30,
		},
		Connector: ConnectorConfig{
			Pretty: true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configuration from a YAML file at path, overlaying it onto
// DefaultConfig. A missing file is not an error: the defaults are
// returned as-is.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	return config, nil
}
