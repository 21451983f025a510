package benchmark

import (
	"context"
	"fmt"
	"math"

	"mendel/internal/evo"
)

// Sphere is the unconstrained quadratic bowl on [-5.12, 5.12]^dim with its
// optimum at the origin.
type Sphere struct {
	dim int
}

func NewSphere(dim int) (*Sphere, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be > 0")
	}
	return &Sphere{dim: dim}, nil
}

func (s *Sphere) Name() string { return "sphere" }
func (s *Sphere) Dim() int     { return s.dim }

func (s *Sphere) Bounds() ([]float64, []float64) {
	return boxBounds(s.dim, 5.12)
}

func (s *Sphere) Evaluate(_ context.Context, x [][]float64) ([]float64, []float64, error) {
	f := make([]float64, len(x))
	cv := make([]float64, len(x))
	for i, row := range x {
		if len(row) != s.dim {
			return nil, nil, fmt.Errorf("%w: row %d has %d variables, want %d",
				evo.ErrDimensionMismatch, i, len(row), s.dim)
		}
		sum := 0.0
		for _, v := range row {
			sum += v * v
		}
		f[i] = sum
	}
	return f, cv, nil
}

// Rastrigin is the standard highly multimodal benchmark on [-5.12, 5.12]^dim.
type Rastrigin struct {
	dim int
}

func NewRastrigin(dim int) (*Rastrigin, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be > 0")
	}
	return &Rastrigin{dim: dim}, nil
}

func (r *Rastrigin) Name() string { return "rastrigin" }
func (r *Rastrigin) Dim() int     { return r.dim }

func (r *Rastrigin) Bounds() ([]float64, []float64) {
	return boxBounds(r.dim, 5.12)
}

func (r *Rastrigin) Evaluate(_ context.Context, x [][]float64) ([]float64, []float64, error) {
	f := make([]float64, len(x))
	cv := make([]float64, len(x))
	for i, row := range x {
		if len(row) != r.dim {
			return nil, nil, fmt.Errorf("%w: row %d has %d variables, want %d",
				evo.ErrDimensionMismatch, i, len(row), r.dim)
		}
		sum := 10 * float64(r.dim)
		for _, v := range row {
			sum += v*v - 10*math.Cos(2*math.Pi*v)
		}
		f[i] = sum
	}
	return f, cv, nil
}

func boxBounds(dim int, limit float64) ([]float64, []float64) {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for j := range lower {
		lower[j] = -limit
		upper[j] = limit
	}
	return lower, upper
}
