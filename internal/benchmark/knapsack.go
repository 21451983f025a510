package benchmark

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"mendel/internal/evo"
	"mendel/internal/model"
	"mendel/internal/problem"
)

// Knapsack is a capacity-constrained binary selection problem: maximize
// total item value (expressed as negated minimization) subject to total
// item weight staying at or below the capacity.
type Knapsack struct {
	values   []float64
	weights  []float64
	capacity float64
}

func NewKnapsack(values, weights []float64, capacity float64) (*Knapsack, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}
	if len(values) != len(weights) {
		return nil, fmt.Errorf("%w: %d values and %d weights", evo.ErrDimensionMismatch, len(values), len(weights))
	}
	return &Knapsack{
		values:   append([]float64(nil), values...),
		weights:  append([]float64(nil), weights...),
		capacity: capacity,
	}, nil
}

// RandomKnapsack builds a reproducible instance with dim items, integer
// values and weights in [1, 10], and a capacity tight enough that random
// binary sampling is mostly infeasible.
func RandomKnapsack(dim int, seed int64) (*Knapsack, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be > 0")
	}
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, dim)
	weights := make([]float64, dim)
	total := 0.0
	for j := range values {
		values[j] = float64(1 + rng.Intn(10))
		weights[j] = float64(1 + rng.Intn(10))
		total += weights[j]
	}
	return NewKnapsack(values, weights, 0.35*total)
}

func (k *Knapsack) Name() string { return "knapsack" }
func (k *Knapsack) Dim() int     { return len(k.values) }

// Capacity and Weights expose the constraint data the capacity repair
// reads from the problem instance it is handed.
func (k *Knapsack) Capacity() float64 { return k.capacity }
func (k *Knapsack) Weights() []float64 {
	return append([]float64(nil), k.weights...)
}
func (k *Knapsack) Values() []float64 {
	return append([]float64(nil), k.values...)
}

func (k *Knapsack) Evaluate(_ context.Context, x [][]float64) ([]float64, []float64, error) {
	f := make([]float64, len(x))
	cv := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(k.values) {
			return nil, nil, fmt.Errorf("%w: row %d has %d variables, want %d",
				evo.ErrDimensionMismatch, i, len(row), len(k.values))
		}
		f[i] = -floats.Dot(row, k.values)
		usage := floats.Dot(row, k.weights)
		if usage > k.capacity {
			cv[i] = usage - k.capacity
		}
	}
	return f, cv, nil
}

// CapacityConstrained is the slice of problem surface the capacity repair
// needs: a scalar capacity and a per-item weight vector.
type CapacityConstrained interface {
	Capacity() float64
	Weights() []float64
}

// CapacityRepair restores feasibility of binary selections by deselecting
// uniformly random chosen items until usage fits the capacity. Individuals
// already within capacity are left untouched. Removal count per individual
// is bounded by the number of selected items, so the repair cannot loop;
// if the bound is exhausted with usage still above capacity the problem
// data is degenerate and the whole batch fails.
type CapacityRepair struct{}

func (CapacityRepair) Name() string {
	return "capacity_random_removal"
}

func (CapacityRepair) Repair(rng *rand.Rand, prob problem.Problem, pop model.Population) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	constrained, ok := prob.(CapacityConstrained)
	if !ok {
		return fmt.Errorf("problem %s does not expose capacity data", prob.Name())
	}

	weights := constrained.Weights()
	capacity := constrained.Capacity()
	if len(weights) != prob.Dim() {
		return fmt.Errorf("%w: weight vector has length %d, problem dimension is %d",
			evo.ErrDimensionMismatch, len(weights), prob.Dim())
	}
	for j, w := range weights {
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v at item %d", evo.ErrInfeasibleProblem, w, j)
		}
	}
	if capacity < 0 {
		return fmt.Errorf("%w: capacity %v is below the empty selection", evo.ErrInfeasibleProblem, capacity)
	}

	for i, ind := range pop {
		if len(ind.X) != len(weights) {
			return fmt.Errorf("%w: individual %d has %d variables, want %d",
				evo.ErrDimensionMismatch, i, len(ind.X), len(weights))
		}
		usage := floats.Dot(ind.X, weights)
		if usage <= capacity {
			continue
		}

		selected := make([]int, 0, len(ind.X))
		for j, v := range ind.X {
			if v != 0 {
				selected = append(selected, j)
			}
		}
		for usage > capacity && len(selected) > 0 {
			k := rng.Intn(len(selected))
			j := selected[k]
			ind.X[j] = 0
			usage -= weights[j]
			selected[k] = selected[len(selected)-1]
			selected = selected[:len(selected)-1]
		}
		if usage > capacity {
			return fmt.Errorf("%w: individual %d still uses %v of capacity %v after emptying the selection",
				evo.ErrInfeasibleProblem, i, usage, capacity)
		}
	}
	return nil
}
