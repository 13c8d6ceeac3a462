// Package bbsolver is the default ilp.Solver backend: an exact
// depth-first branch-and-bound search over general 0/1 linear programs,
// with deterministic branching and a soft time budget. It needs no cgo
// and no external solver binary, so it is always available — at the
// cost of being impractical for instances with many thousands of
// variables, where ilp/lpsolve should be used instead.
package bbsolver

import (
	"context"
	"time"

	"github.com/gridwright/poleplan/ilp"
	"github.com/gridwright/poleplan/logging"
)

type constraint struct {
	terms []ilp.Term
	ge    bool // true: sum >= rhs; false: sum <= rhs
	rhs   float64
}

// Solver is a bbsolver instance. The zero value is not usable; construct
// with New.
type Solver struct {
	costs       []float64
	constraints []constraint

	timeLimit time.Duration
	absGap    float64
	relGap    float64
	verbose   bool

	// search state, populated by Solve
	assigned  []int8 // -1 unassigned, 0 or 1 once branched
	steps     int
	deadline  time.Time
	hasDead   bool
	best      []int8
	bestCost  float64
	foundAny  bool
	rootBound float64
}

// New returns an empty branch-and-bound solver.
func New() *Solver {
	return &Solver{}
}

// AddBinaryVar implements ilp.Solver.
func (s *Solver) AddBinaryVar(cost float64) ilp.VarIndex {
	idx := ilp.VarIndex(len(s.costs))
	s.costs = append(s.costs, cost)
	return idx
}

// AddConstraint implements ilp.Solver.
func (s *Solver) AddConstraint(terms []ilp.Term, rel ilp.Relation, rhs float64) {
	s.constraints = append(s.constraints, constraint{terms: terms, ge: rel == ilp.GE, rhs: rhs})
}

// SetTimeLimit implements ilp.Solver.
func (s *Solver) SetTimeLimit(d time.Duration) { s.timeLimit = d }

// SetMIPGap implements ilp.Solver.
func (s *Solver) SetMIPGap(abs, rel float64) {
	s.absGap = abs
	s.relGap = rel
}

// SetVerbose implements ilp.Solver. When enabled, Solve logs every new
// incumbent it finds and the final node count.
func (s *Solver) SetVerbose(verbose bool) { s.verbose = verbose }

// Solve implements ilp.Solver.
func (s *Solver) Solve(ctx context.Context) (ilp.Solution, error) {
	n := len(s.costs)
	s.assigned = make([]int8, n)
	for i := range s.assigned {
		s.assigned[i] = -1
	}
	s.best = nil
	s.bestCost = infinity
	s.foundAny = false
	s.steps = 0

	if s.timeLimit > 0 {
		s.hasDead = true
		s.deadline = time.Now().Add(s.timeLimit)
	} else {
		s.hasDead = false
	}

	s.rootBound = s.minAdditional(0, n)
	s.dfs(0, 0.0)

	if s.verbose {
		logging.Info("bbsolver finished", "nodes_visited", s.steps, "best_cost", s.bestCost, "found", s.foundAny)
	}

	if !s.foundAny {
		return ilp.Solution{}, ErrInfeasible
	}

	values := make(map[ilp.VarIndex]float64, n)
	for i, v := range s.best {
		values[ilp.VarIndex(i)] = float64(v)
	}
	return ilp.Solution{Values: values}, nil
}

const infinity = 1e18

// deadlineReached performs a rare deadline check, matching the sparse
// check cadence of a branch-and-bound search whose node count can run
// into the millions.
func (s *Solver) deadlineReached() bool {
	s.steps++
	if !s.hasDead || s.steps&4095 != 0 {
		return false
	}
	return time.Now().After(s.deadline)
}

// minAdditional is an admissible lower bound on the extra objective cost
// contributed by variables [from, to), since each unassigned variable
// contributes at least min(0, cost).
func (s *Solver) minAdditional(from, to int) float64 {
	var sum float64
	for i := from; i < to; i++ {
		if s.costs[i] < 0 {
			sum += s.costs[i]
		}
	}
	return sum
}

// feasibleSoFar checks every constraint's necessary bound given which
// variables are still unassigned: a constraint is only pruned once it is
// provably impossible to satisfy, never merely unlikely.
func (s *Solver) feasibleSoFar() bool {
	for _, c := range s.constraints {
		var sum, minRest, maxRest float64
		for _, t := range c.terms {
			switch s.assigned[t.Var] {
			case 1:
				sum += t.Coeff
			case 0:
				// contributes nothing
			default:
				if t.Coeff > 0 {
					maxRest += t.Coeff
				} else {
					minRest += t.Coeff
				}
			}
		}
		if c.ge {
			if sum+maxRest < c.rhs {
				return false
			}
		} else {
			if sum+minRest > c.rhs {
				return false
			}
		}
	}
	return true
}

func (s *Solver) gapSatisfied() bool {
	if !s.foundAny {
		return false
	}
	gap := s.bestCost - s.rootBound
	if s.absGap > 0 && gap <= s.absGap {
		return true
	}
	if s.relGap > 0 && s.bestCost != 0 && gap/s.bestCost <= s.relGap {
		return true
	}
	return false
}

// dfs assigns variable `depth` to 0 then 1, in that order (cheaper first,
// since every cost here is non-negative so 0 never increases the
// objective), pruning whenever the partial cost already proves this
// branch cannot beat the incumbent or satisfy every constraint.
func (s *Solver) dfs(depth int, costSoFar float64) {
	if s.deadlineReached() || s.gapSatisfied() {
		return
	}

	n := len(s.costs)
	lb := costSoFar + s.minAdditional(depth, n)
	if s.foundAny && lb >= s.bestCost {
		return
	}
	if !s.feasibleSoFar() {
		return
	}

	if depth == n {
		if !s.foundAny || costSoFar < s.bestCost {
			s.foundAny = true
			s.bestCost = costSoFar
			s.best = append([]int8(nil), s.assigned...)
			if s.verbose {
				logging.Info("bbsolver found incumbent", "nodes_visited", s.steps, "cost", s.bestCost)
			}
		}
		return
	}

	for _, v := range [2]int8{0, 1} {
		s.assigned[depth] = v
		add := 0.0
		if v == 1 {
			add = s.costs[depth]
		}
		s.dfs(depth+1, costSoFar+add)
		s.assigned[depth] = -1
	}
}
