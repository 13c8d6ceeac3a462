package lpsolve

import "errors"

// ErrNoSolution is returned when lp_solve cannot certify even a
// suboptimal feasible solution.
var ErrNoSolution = errors.New("lpsolve: no solution found")
