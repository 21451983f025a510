package model

import "fmt"

// Population is an ordered collection of individuals. The engine keeps its
// length fixed at the configured population size across generation
// boundaries; repair and evaluation address it through the bulk accessors
// below so whole batches move through each stage at once.
type Population []*Individual

// NewPopulation allocates n individuals with dim-length zero vectors.
func NewPopulation(n, dim int) Population {
	pop := make(Population, n)
	for i := range pop {
		pop[i] = &Individual{X: make([]float64, dim)}
	}
	return pop
}

// Clone returns a deep copy of the population.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	for i, ind := range p {
		out[i] = ind.Clone()
	}
	return out
}

// XMatrix returns a copy of every decision vector, indexed by individual.
func (p Population) XMatrix() [][]float64 {
	out := make([][]float64, len(p))
	for i, ind := range p {
		out[i] = append([]float64(nil), ind.X...)
	}
	return out
}

// SetXMatrix writes a batch of decision vectors back, slot by slot, and
// invalidates the cached evaluations of every touched individual.
func (p Population) SetXMatrix(x [][]float64) error {
	if len(x) != len(p) {
		return fmt.Errorf("decision matrix has %d rows, population has %d individuals", len(x), len(p))
	}
	for i, row := range x {
		if len(row) != len(p[i].X) {
			return fmt.Errorf("decision vector %d has length %d, want %d", i, len(row), len(p[i].X))
		}
		copy(p[i].X, row)
		p[i].ResetEvaluation()
	}
	return nil
}

// Objectives returns every cached objective value, indexed by individual.
func (p Population) Objectives() []float64 {
	out := make([]float64, len(p))
	for i, ind := range p {
		out[i] = ind.F
	}
	return out
}

// Violations returns every cached constraint violation, indexed by individual.
func (p Population) Violations() []float64 {
	out := make([]float64, len(p))
	for i, ind := range p {
		out[i] = ind.CV
	}
	return out
}

// FeasibleCount counts evaluated individuals with zero violation.
func (p Population) FeasibleCount() int {
	n := 0
	for _, ind := range p {
		if ind.Feasible() {
			n++
		}
	}
	return n
}
