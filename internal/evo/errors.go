package evo

import "errors"

var (
	// ErrDimensionMismatch marks vectors of inconsistent length anywhere in
	// the repair or evaluation path. It indicates a configuration bug and
	// is never retried.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInfeasibleProblem marks repair that cannot reach feasibility
	// within its policy, e.g. degenerate capacity or weight data. It aborts
	// the generation step that triggered it.
	ErrInfeasibleProblem = errors.New("infeasible problem")
)
