package evo

import "mendel/internal/model"

// Ranker orders individuals for mating and survival selection under
// constraint handling. Less reports whether a should be preferred over b.
// Both individuals must already be evaluated.
type Ranker interface {
	Name() string
	Less(a, b *model.Individual) bool
}

// FeasibilityFirstRanker prefers feasible over infeasible, lower violation
// among infeasible, and lower objective among feasible. With a repair
// operator installed the whole population is feasible and ordering reduces
// to the objective alone.
type FeasibilityFirstRanker struct{}

func (FeasibilityFirstRanker) Name() string {
	return "feasibility_first"
}

func (FeasibilityFirstRanker) Less(a, b *model.Individual) bool {
	af, bf := a.Feasible(), b.Feasible()
	if af != bf {
		return af
	}
	if !af {
		return a.CV < b.CV
	}
	return a.F < b.F
}

// PenaltyRanker orders by objective plus a linear violation penalty. An
// alternative for runs without repair where some pressure through the
// infeasible region is wanted.
type PenaltyRanker struct {
	Coefficient float64
}

func (PenaltyRanker) Name() string {
	return "penalty"
}

func (r PenaltyRanker) Less(a, b *model.Individual) bool {
	coeff := r.Coefficient
	if coeff <= 0 {
		coeff = 1
	}
	return a.F+coeff*a.CV < b.F+coeff*b.CV
}
