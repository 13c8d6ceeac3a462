// Package driver wires every other package into one end-to-end run:
// decode a blueprint, strip its existing poles, enumerate candidate
// poles over its footprint, solve a set-cover ILP for which candidates
// to keep, route cables between the chosen poles, and encode the result
// back out. Grounded on original_source/src/main.rs's pipeline, expanded
// from a fixed "read file, draw PNG" script into a configurable run
// driven by config.Config.
package driver

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gridwright/poleplan/blueprint"
	"github.com/gridwright/poleplan/candidate"
	"github.com/gridwright/poleplan/catalog"
	"github.com/gridwright/poleplan/config"
	"github.com/gridwright/poleplan/connector"
	"github.com/gridwright/poleplan/ilp"
	"github.com/gridwright/poleplan/ilp/bbsolver"
	"github.com/gridwright/poleplan/ilp/lpsolve"
	"github.com/gridwright/poleplan/logging"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/polegraph"
	"github.com/gridwright/poleplan/proto"
	"github.com/gridwright/poleplan/render"
)

// Result summarizes one completed run.
type Result struct {
	EntitiesLoaded  int
	CandidatesTried int
	PolesPlaced     int
	CablesPlaced    int
}

// Run executes one full planning pass according to cfg.
func Run(cfg *config.Config) (*Result, error) {
	if err := logging.Initialize(cfg.Logging); err != nil {
		return nil, fmt.Errorf("driver: initialize logging: %w", err)
	}

	cat, err := catalog.Load(cfg.Paths.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("driver: load catalog: %w", err)
	}

	raw, err := os.ReadFile(cfg.Paths.InputBlueprintFile)
	if err != nil {
		return nil, fmt.Errorf("driver: read input blueprint: %w", err)
	}
	bp, err := blueprint.Decode(string(raw))
	if err != nil {
		return nil, fmt.Errorf("driver: decode input blueprint: %w", err)
	}

	baseModel := blueprint.ToModel(bp, cat)
	logging.Info("loaded blueprint", "entities", len(baseModel.AllEntities()))

	consumers := baseModel.Clone()
	consumers.Retain(func(e *model.Entity) bool { return !e.IsPole() })

	poleProtos, costByProto := resolvePolePrototypes(cat, cfg.Candidates.PolePrototypes)
	if len(poleProtos) == 0 {
		return nil, fmt.Errorf("driver: no configured pole prototype found in catalog")
	}

	area := consumers.BoundingBox().Expand(cfg.Candidates.PaddingTiles)
	withCandidates := candidate.Enumerate(consumers, area, poleProtos)
	candidatesAdded := len(withCandidates.AllEntities()) - len(consumers.AllEntities())

	graph, _ := polegraph.MaximallyConnected(withCandidates)

	var consumerIDs []model.EntityID
	for _, e := range consumers.AllEntities() {
		if e.UsesPower() {
			consumerIDs = append(consumerIDs, e.ID)
		}
	}

	problem := &ilp.Problem{
		Graph: graph,
		Cost: func(n *polegraph.Node) float64 {
			return costByProto[n.Prototype]
		},
		Config:    ilp.Config{DistanceCostFactor: cfg.Solver.DistanceCostFactor},
		Consumers: consumerIDs,
	}
	if cfg.Solver.UseConnectivityHeuristic {
		problem.Config.Connectivity = &ilp.DistanceConnectivity{RootLocation: cfg.Solver.RootLocation}
	}

	solver := newSolver(cfg)
	if cfg.Solver.TimeLimitSeconds > 0 {
		solver.SetTimeLimit(time.Duration(cfg.Solver.TimeLimitSeconds) * time.Second)
	}

	ctx := context.Background()
	selected, err := problem.Solve(ctx, solver)
	if err != nil {
		return nil, fmt.Errorf("driver: solve candidate selection: %w", err)
	}

	resultModel := consumers.Clone()
	placed := 0
	for idx, on := range selected {
		if !on {
			continue
		}
		n := graph.Node(idx)
		resultModel.AddOverlap(n.Prototype, n.Position, n.Direction)
		placed++
	}
	logging.Info("solved candidate selection", "candidates", candidatesAdded, "poles_placed", placed)

	cablesPlaced := connectPoles(cfg, resultModel)

	outBP := blueprint.FromModel(resultModel, bp.Item)
	encoded, err := blueprint.Encode(outBP)
	if err != nil {
		return nil, fmt.Errorf("driver: encode output blueprint: %w", err)
	}
	if err := os.WriteFile(cfg.Paths.OutputBlueprintFile, []byte(encoded), 0o644); err != nil {
		return nil, fmt.Errorf("driver: write output blueprint: %w", err)
	}

	if cfg.Paths.RenderFile != "" {
		if err := renderModel(cfg, resultModel); err != nil {
			return nil, fmt.Errorf("driver: render layout: %w", err)
		}
	}

	return &Result{
		EntitiesLoaded:  len(baseModel.AllEntities()),
		CandidatesTried: candidatesAdded,
		PolesPlaced:     placed,
		CablesPlaced:    cablesPlaced,
	}, nil
}

// resolvePolePrototypes looks up each configured prototype name in cat,
// skipping any not found, and assigns each a base cost by its position in
// names (earlier entries are cheaper, so the solver prefers them when a
// consumer could be covered equally well by more than one pole kind).
func resolvePolePrototypes(cat *proto.Catalog, names []string) ([]proto.Handle, map[proto.Handle]float64) {
	var protos []proto.Handle
	cost := make(map[proto.Handle]float64, len(names))
	for i, name := range names {
		p, ok := cat.Lookup(name)
		if !ok || !p.IsPole() {
			logging.Warning("configured pole prototype not found in catalog", "name", name)
			continue
		}
		protos = append(protos, p)
		cost[p] = float64(i + 1)
	}
	return protos, cost
}

func newSolver(cfg *config.Config) ilp.Solver {
	var s ilp.Solver
	if cfg.Solver.UseLPSolve {
		s = lpsolve.New()
	} else {
		s = bbsolver.New()
	}
	s.SetVerbose(cfg.Solver.Verbose)
	return s
}

// connectPoles builds a pole graph over the poles already placed in m and
// routes cables between them, recording every chosen edge as a cable
// connection in m. It returns the number of cables added.
func connectPoles(cfg *config.Config, m *model.Model) int {
	g, _ := polegraph.Disconnected(m)
	idMap := make(map[model.EntityID]polegraph.NodeIndex)
	for _, idx := range g.NodeIndices() {
		idMap[g.Node(idx).EntityID] = idx
	}
	polegraph.MaximallyConnectPoles(g, m, idMap)

	var conn connector.Connector
	if cfg.Connector.Pretty {
		conn = connector.PrettyPoleConnector{
			MinAngle:         degreesToRadians(cfg.Connector.MinAngleDegrees),
			MinAdjacentAngle: degreesToRadians(cfg.Connector.MinAdjacentAngleDegrees),
		}
	} else {
		conn = connector.WeightedMSTConnector{}
	}
	connected := conn.ConnectPoles(g)

	count := 0
	for _, e := range connected.AllEdges() {
		aID := connected.Node(e.A).EntityID
		bID := connected.Node(e.B).EntityID
		if m.AddCableConnection(aID, bID) {
			count++
		}
	}
	return count
}

func degreesToRadians(deg float64) float64 {
	if deg <= 0 {
		return 0
	}
	return deg * math.Pi / 180
}

func renderModel(cfg *config.Config, m *model.Model) error {
	f, err := os.Create(cfg.Paths.RenderFile)
	if err != nil {
		return err
	}
	defer f.Close()

	area := m.BoundingBox().Expand(2)
	d := render.New(f, area, 16, 8)
	d.DrawModel(m)
	d.End()
	return nil
}
