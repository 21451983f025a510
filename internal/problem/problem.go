package problem

import "context"

// Problem evaluates whole batches of decision vectors. Evaluate returns
// one objective value and one non-negative constraint violation per row of
// x; a violation of zero marks the row feasible. Implementations must not
// retain x.
type Problem interface {
	Name() string
	Dim() int
	Evaluate(ctx context.Context, x [][]float64) (f []float64, cv []float64, err error)
}

// Bounded is implemented by problems with box constraints on the decision
// variables. Repair operators that clamp to bounds discover it by
// assertion on the problem instance.
type Bounded interface {
	Bounds() (lower, upper []float64)
}
