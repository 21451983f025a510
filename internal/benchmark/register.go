package benchmark

import "mendel/internal/problem"

const defaultDim = 30

func init() {
	problem.MustRegister("knapsack", func(spec problem.Spec) (problem.Problem, error) {
		dim := spec.Dim
		if dim <= 0 {
			dim = defaultDim
		}
		return RandomKnapsack(dim, spec.Seed)
	})
	problem.MustRegister("sphere", func(spec problem.Spec) (problem.Problem, error) {
		dim := spec.Dim
		if dim <= 0 {
			dim = defaultDim
		}
		return NewSphere(dim)
	})
	problem.MustRegister("rastrigin", func(spec problem.Spec) (problem.Problem, error) {
		dim := spec.Dim
		if dim <= 0 {
			dim = defaultDim
		}
		return NewRastrigin(dim)
	})
}
