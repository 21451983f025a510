package evo

import (
	"fmt"
	"math/rand"

	"mendel/internal/model"
)

// Sampler produces the initial population for a run.
type Sampler interface {
	Name() string
	Sample(rng *rand.Rand, n, dim int) (model.Population, error)
}

// Crossover recombines two parent decision vectors into two children. The
// returned vectors are freshly allocated; parents are never modified.
type Crossover interface {
	Name() string
	Cross(rng *rand.Rand, a, b []float64) ([]float64, []float64, error)
}

// Mutation perturbs one decision vector in place.
type Mutation interface {
	Name() string
	Mutate(rng *rand.Rand, x []float64) error
}

// BinarySampler draws each decision variable as 0 or 1 uniformly.
type BinarySampler struct{}

func (BinarySampler) Name() string {
	return "binary_random"
}

func (BinarySampler) Sample(rng *rand.Rand, n, dim int) (model.Population, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	pop := model.NewPopulation(n, dim)
	for _, ind := range pop {
		for j := range ind.X {
			ind.X[j] = float64(rng.Intn(2))
		}
	}
	return pop, nil
}

// UniformRealSampler draws each variable uniformly inside [Lower, Upper].
type UniformRealSampler struct {
	Lower []float64
	Upper []float64
}

func (UniformRealSampler) Name() string {
	return "uniform_real"
}

func (s UniformRealSampler) Sample(rng *rand.Rand, n, dim int) (model.Population, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(s.Lower) != dim || len(s.Upper) != dim {
		return nil, fmt.Errorf("%w: bounds have lengths %d/%d, want %d", ErrDimensionMismatch, len(s.Lower), len(s.Upper), dim)
	}
	pop := model.NewPopulation(n, dim)
	for _, ind := range pop {
		for j := range ind.X {
			ind.X[j] = s.Lower[j] + rng.Float64()*(s.Upper[j]-s.Lower[j])
		}
	}
	return pop, nil
}

// UniformCrossover swaps each variable between the parents independently
// with probability Prob (default 0.5). Works for binary and real encodings.
type UniformCrossover struct {
	Prob float64
}

func (UniformCrossover) Name() string {
	return "uniform_crossover"
}

func (c UniformCrossover) Cross(rng *rand.Rand, a, b []float64) ([]float64, []float64, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("random source is required")
	}
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("%w: parents have lengths %d and %d", ErrDimensionMismatch, len(a), len(b))
	}
	prob := c.Prob
	if prob <= 0 {
		prob = 0.5
	}
	c1 := append([]float64(nil), a...)
	c2 := append([]float64(nil), b...)
	for j := range c1 {
		if rng.Float64() < prob {
			c1[j], c2[j] = c2[j], c1[j]
		}
	}
	return c1, c2, nil
}

// TwoPointCrossover exchanges the segment between two cut points.
type TwoPointCrossover struct{}

func (TwoPointCrossover) Name() string {
	return "two_point_crossover"
}

func (TwoPointCrossover) Cross(rng *rand.Rand, a, b []float64) ([]float64, []float64, error) {
	if rng == nil {
		return nil, nil, fmt.Errorf("random source is required")
	}
	if len(a) != len(b) {
		return nil, nil, fmt.Errorf("%w: parents have lengths %d and %d", ErrDimensionMismatch, len(a), len(b))
	}
	c1 := append([]float64(nil), a...)
	c2 := append([]float64(nil), b...)
	if len(a) < 2 {
		return c1, c2, nil
	}
	lo := rng.Intn(len(a))
	hi := rng.Intn(len(a))
	if lo > hi {
		lo, hi = hi, lo
	}
	for j := lo; j <= hi; j++ {
		c1[j], c2[j] = c2[j], c1[j]
	}
	return c1, c2, nil
}

// BitflipMutation flips each binary variable with probability Prob
// (default 1/len).
type BitflipMutation struct {
	Prob float64
}

func (BitflipMutation) Name() string {
	return "bitflip"
}

func (m BitflipMutation) Mutate(rng *rand.Rand, x []float64) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	if len(x) == 0 {
		return nil
	}
	prob := m.Prob
	if prob <= 0 {
		prob = 1 / float64(len(x))
	}
	for j := range x {
		if rng.Float64() < prob {
			x[j] = 1 - x[j]
		}
	}
	return nil
}

// GaussianMutation adds zero-mean gaussian noise with deviation Sigma to
// each variable with probability Prob (default 1/len).
type GaussianMutation struct {
	Prob  float64
	Sigma float64
}

func (GaussianMutation) Name() string {
	return "gaussian"
}

func (m GaussianMutation) Mutate(rng *rand.Rand, x []float64) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	if len(x) == 0 {
		return nil
	}
	prob := m.Prob
	if prob <= 0 {
		prob = 1 / float64(len(x))
	}
	sigma := m.Sigma
	if sigma <= 0 {
		sigma = 0.1
	}
	for j := range x {
		if rng.Float64() < prob {
			x[j] += rng.NormFloat64() * sigma
		}
	}
	return nil
}
