package bbsolver

import "errors"

// ErrInfeasible is returned when no assignment of the decision variables
// satisfies every constraint.
var ErrInfeasible = errors.New("bbsolver: no feasible solution")
