// Package lpsolve wraps github.com/draffensperger/golp (a Go binding
// for the lp_solve MIP library) behind the ilp.Solver port, for runs
// where the instance is too large for bbsolver's exact pure-Go search to
// finish in a reasonable time. It is not exercised by this module's own
// tests, since pulling in lp_solve's native library is a deployment
// concern rather than a correctness one; bbsolver is what the test suite
// runs against.
package lpsolve

import (
	"context"
	"time"

	"github.com/draffensperger/golp"

	"github.com/gridwright/poleplan/ilp"
)

// Solver is an ilp.Solver backed by lp_solve.
type Solver struct {
	costs       []float64
	constraints []constraint

	timeLimit time.Duration
	absGap    float64
	relGap    float64
	verbose   bool
}

type constraint struct {
	coeffs map[int]float64
	ge     bool
	rhs    float64
}

// New returns an empty lp_solve-backed solver.
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
	coeffs := make(map[int]float64, len(terms))
	for _, t := range terms {
		coeffs[int(t.Var)] += t.Coeff
	}
	s.constraints = append(s.constraints, constraint{coeffs: coeffs, ge: rel == ilp.GE, rhs: rhs})
}

// SetTimeLimit implements ilp.Solver.
func (s *Solver) SetTimeLimit(d time.Duration) { s.timeLimit = d }

// SetMIPGap implements ilp.Solver.
func (s *Solver) SetMIPGap(abs, rel float64) {
	s.absGap = abs
	s.relGap = rel
}

// SetVerbose implements ilp.Solver by toggling lp_solve's own verbosity
// level between NEUTRAL (silent) and FULL (every simplex/branch-and-bound
// message).
func (s *Solver) SetVerbose(verbose bool) { s.verbose = verbose }

// Solve implements ilp.Solver by translating the accumulated variables
// and constraints into an lp_solve model and invoking its MIP solver.
func (s *Solver) Solve(ctx context.Context) (ilp.Solution, error) {
	n := len(s.costs)
	lp := golp.NewLP(0, n)
	defer lp.Delete()

	lp.SetMinimize()
	lp.SetObjFn(s.costs)
	if s.verbose {
		lp.SetVerbose(golp.FULL)
	} else {
		lp.SetVerbose(golp.NEUTRAL)
	}
	for i := 0; i < n; i++ {
		lp.SetBinary(i, true)
	}

	for _, c := range s.constraints {
		row := make([]float64, n)
		for col, coeff := range c.coeffs {
			row[col] = coeff
		}
		if c.ge {
			lp.AddConstraint(row, golp.GE, c.rhs)
		} else {
			lp.AddConstraint(row, golp.LE, c.rhs)
		}
	}

	if s.timeLimit > 0 {
		lp.SetTimeout(int(s.timeLimit / time.Second))
	}
	if s.relGap > 0 {
		lp.SetMipGapRel(s.relGap)
	}
	if s.absGap > 0 {
		lp.SetMipGapAbs(s.absGap)
	}

	status := lp.Solve()
	if status != golp.OPTIMAL && status != golp.SUBOPTIMAL {
		return ilp.Solution{}, ErrNoSolution
	}

	values := make(map[ilp.VarIndex]float64, n)
	vars := lp.Variables()
	for i, v := range vars {
		values[ilp.VarIndex(i)] = v
	}
	return ilp.Solution{Values: values}, nil
}
