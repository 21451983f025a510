package evo

import (
	"fmt"
	"math/rand"

	"mendel/internal/model"
	"mendel/internal/problem"
)

// Repair transforms a batch of possibly infeasible individuals into
// feasible ones using problem-specific knowledge. Implementations must
// preserve population size, ordering, and per-slot identity, change only
// the decision vectors, and leave already feasible individuals untouched.
// Feasibility checks inside Repair are computed fresh from X and problem
// data; cached F/CV values reflect a pre-repair vector and must not be
// consulted. An error for any single individual aborts the whole batch.
type Repair interface {
	Name() string
	Repair(rng *rand.Rand, prob problem.Problem, pop model.Population) error
}

// NoopRepair returns the population unchanged. The engine default when no
// repair is configured.
type NoopRepair struct{}

func (NoopRepair) Name() string {
	return "none"
}

func (NoopRepair) Repair(_ *rand.Rand, _ problem.Problem, _ model.Population) error {
	return nil
}

// ClampRepair projects each decision vector onto the box constraints of a
// problem.Bounded instance. Vectors already inside the box are untouched.
type ClampRepair struct{}

func (ClampRepair) Name() string {
	return "clamp_to_bounds"
}

func (ClampRepair) Repair(_ *rand.Rand, prob problem.Problem, pop model.Population) error {
	bounded, ok := prob.(problem.Bounded)
	if !ok {
		return fmt.Errorf("problem %s does not expose bounds", prob.Name())
	}
	lower, upper := bounded.Bounds()
	if len(lower) != prob.Dim() || len(upper) != prob.Dim() {
		return fmt.Errorf("%w: bounds have lengths %d/%d, problem dimension is %d",
			ErrDimensionMismatch, len(lower), len(upper), prob.Dim())
	}
	for i, ind := range pop {
		if len(ind.X) != prob.Dim() {
			return fmt.Errorf("%w: individual %d has %d variables, problem dimension is %d",
				ErrDimensionMismatch, i, len(ind.X), prob.Dim())
		}
		for j := range ind.X {
			if ind.X[j] < lower[j] {
				ind.X[j] = lower[j]
			} else if ind.X[j] > upper[j] {
				ind.X[j] = upper[j]
			}
		}
	}
	return nil
}
