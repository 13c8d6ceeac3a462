// Package ilp formulates pole placement as a weighted set-cover integer
// program: each candidate pole is a binary variable, each power consumer
// contributes a "cover me" constraint, and the objective favors cheap,
// centrally-located poles. Solving is delegated to a pluggable Solver so
// the same problem construction can run against a pure-Go
// branch-and-bound backend (ilp/bbsolver) or a production MIP backend
// (ilp/lpsolve) without this package knowing which.
package ilp

import (
	"context"
	"time"

	"github.com/gridwright/poleplan/logging"
	"github.com/gridwright/poleplan/model"
	"github.com/gridwright/poleplan/polegraph"
)

// VarIndex identifies a decision variable within one Solver instance, in
// AddBinaryVar call order.
type VarIndex int

// Relation is the comparison a linear constraint enforces.
type Relation int

const (
	LE Relation = iota
	GE
)

// Term is one coefficient*variable addend of a linear constraint or
// objective.
type Term struct {
	Var   VarIndex
	Coeff float64
}

// Solution is the result of a successful solve: the value assigned to
// each variable (0 or 1 for a binary variable at optimality, though a
// backend that times out before proving optimality may report a
// feasible-but-fractional-looking value for the incumbent it found).
type Solution struct {
	Values map[VarIndex]float64
}

// Solver is the minimal interface a 0/1 integer programming backend must
// implement to solve a set-cover Problem.
type Solver interface {
	// AddBinaryVar registers a new 0/1 decision variable with the given
	// linear objective coefficient (to be minimized) and returns its index.
	AddBinaryVar(cost float64) VarIndex

	// AddConstraint adds a linear constraint sum(terms) REL rhs.
	AddConstraint(terms []Term, rel Relation, rhs float64)

	// SetTimeLimit bounds how long Solve may run before returning its
	// best incumbent. A zero duration means no limit.
	SetTimeLimit(d time.Duration)

	// SetMIPGap bounds the acceptable optimality gap: Solve may stop
	// early once it can prove the incumbent is within abs or rel (a
	// fraction of the incumbent's cost) of optimal. Either may be zero
	// to disable that criterion.
	SetMIPGap(abs, rel float64)

	// SetVerbose toggles the backend's own solve-progress logging
	// (branch-and-bound node counts, simplex iteration chatter, and the
	// like). Off by default.
	SetVerbose(verbose bool)

	// Solve runs the solver and returns the best solution found. It
	// returns an error only if no feasible solution could be produced at
	// all (an infeasible problem, or a backend failure) — timing out
	// with a feasible incumbent in hand is not an error.
	Solve(ctx context.Context) (Solution, error)
}

// CostFunc assigns a base placement cost to a candidate pole node,
// independent of its position relative to the area being solved.
type CostFunc func(node *polegraph.Node) float64

// Config tunes how a Problem is built on top of a polegraph.Graph.
type Config struct {
	// DistanceCostFactor scales a small tie-breaking term added to every
	// candidate's cost, proportional to its distance from the area's
	// center. This nudges the solver toward centrally-located poles
	// among otherwise-equal candidates without materially changing the
	// cover it picks.
	DistanceCostFactor float64

	// Connectivity, if non-nil, adds constraints that bias the solver
	// toward choosing poles that stay connected to a root cluster,
	// rather than accepting disjoint islands the wiring pass could never
	// physically connect.
	Connectivity *DistanceConnectivity
}

// Problem is a weighted set-cover instance built from a maximally
// connected candidate pole graph: which poles to select so that every
// power consumer is covered by at least one selected pole.
type Problem struct {
	Graph  *polegraph.Graph
	Cost   CostFunc
	Config Config

	// Consumers lists every power-consumer entity the solve is meant to
	// cover. It is used only to detect and log consumers no candidate
	// pole can reach (Graph's nodes otherwise only ever mention consumers
	// that some candidate already covers, so an uncoverable consumer
	// would go unnoticed without this list).
	Consumers []model.EntityID
}

// Solve builds the set-cover constraints from p onto solver and runs it,
// returning which of the graph's nodes were selected.
func (p *Problem) Solve(ctx context.Context, solver Solver) (map[polegraph.NodeIndex]bool, error) {
	indices := p.Graph.NodeIndices()
	vars := make(map[polegraph.NodeIndex]VarIndex, len(indices))

	center := centerOf(p.Graph, indices)
	for _, idx := range indices {
		node := p.Graph.Node(idx)
		cost := p.Cost(node)
		if p.Config.DistanceCostFactor != 0 {
			cost += node.Position.DistanceTo(center) / 10000.0 * p.Config.DistanceCostFactor
		}
		vars[idx] = solver.AddBinaryVar(cost)
	}

	covering := coverageDict(p.Graph)
	for _, covered := range covering {
		terms := make([]Term, len(covered))
		for i, idx := range covered {
			terms[i] = Term{Var: vars[idx], Coeff: 1}
		}
		solver.AddConstraint(terms, GE, 1)
	}
	for _, consumer := range p.Consumers {
		if _, ok := covering[consumer]; !ok {
			logging.Warning("uncoverable consumer: no candidate pole can reach it", "entity_id", consumer)
		}
	}

	if p.Config.Connectivity != nil {
		p.Config.Connectivity.addConstraints(p.Graph, vars, solver)
	}

	if components := ConnectedComponents(p.Graph); len(components) > 1 {
		logging.Warning("candidate pole graph is disconnected", "components", len(components))
	}

	sol, err := solver.Solve(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[polegraph.NodeIndex]bool, len(indices))
	for _, idx := range indices {
		result[idx] = sol.Values[vars[idx]] > 0.5
	}
	return result, nil
}

// coverageDict groups candidate node indices by the power-consumer
// entity each would cover.
func coverageDict(g *polegraph.Graph) map[model.EntityID][]polegraph.NodeIndex {
	out := make(map[model.EntityID][]polegraph.NodeIndex)
	for _, idx := range g.NodeIndices() {
		for consumer := range g.Node(idx).PoweredEntities {
			out[consumer] = append(out[consumer], idx)
		}
	}
	return out
}
