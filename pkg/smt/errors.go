package smt

import "errors"

// ErrNoSolution is returned by callers that exhaust every action count in
// range without finding a satisfying assignment — a normal planning
// outcome, not a fault, per §7 ("Search failure").
var ErrNoSolution = errors.New("smt: no solution found within the given action-count range")
