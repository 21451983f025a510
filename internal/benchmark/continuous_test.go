package benchmark

import (
	"context"
	"errors"
	"math"
	"testing"

	"mendel/internal/evo"
	"mendel/internal/problem"
)

func TestSphereEvaluate(t *testing.T) {
	sphere, err := NewSphere(3)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	f, cv, err := sphere.Evaluate(context.Background(), [][]float64{
		{0, 0, 0},
		{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if f[0] != 0 || f[1] != 14 {
		t.Fatalf("f = %v, want [0 14]", f)
	}
	if cv[0] != 0 || cv[1] != 0 {
		t.Fatalf("sphere is unconstrained, cv = %v", cv)
	}
}

func TestRastriginOptimumAtOrigin(t *testing.T) {
	rastrigin, err := NewRastrigin(4)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	f, _, err := rastrigin.Evaluate(context.Background(), [][]float64{{0, 0, 0, 0}, {1, 0, 0, 0}})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if math.Abs(f[0]) > 1e-9 {
		t.Fatalf("f(origin) = %v, want 0", f[0])
	}
	if f[1] <= f[0] {
		t.Fatalf("f(1,0,0,0) = %v, expected above the optimum", f[1])
	}
}

func TestContinuousProblemsRejectDimensionMismatch(t *testing.T) {
	sphere, _ := NewSphere(2)
	if _, _, err := sphere.Evaluate(context.Background(), [][]float64{{1}}); !errors.Is(err, evo.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	rastrigin, _ := NewRastrigin(2)
	if _, _, err := rastrigin.Evaluate(context.Background(), [][]float64{{1, 2, 3}}); !errors.Is(err, evo.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestBuiltinProblemsAreRegistered(t *testing.T) {
	for _, name := range []string{"knapsack", "rastrigin", "sphere"} {
		prob, err := problem.Resolve(name, problem.Spec{Dim: 10, Seed: 1})
		if err != nil {
			t.Fatalf("resolve %s: %v", name, err)
		}
		if prob.Dim() != 10 {
			t.Fatalf("%s dimension = %d, want 10", name, prob.Dim())
		}
	}
}

func TestBuiltinDefaultDimension(t *testing.T) {
	prob, err := problem.Resolve("knapsack", problem.Spec{Seed: 2})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if prob.Dim() != defaultDim {
		t.Fatalf("dimension = %d, want %d", prob.Dim(), defaultDim)
	}
}

func TestRandomKnapsackIsReproducible(t *testing.T) {
	a, err := RandomKnapsack(12, 99)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	b, err := RandomKnapsack(12, 99)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	if a.Capacity() != b.Capacity() {
		t.Fatal("capacities differ for the same seed")
	}
	aw, bw := a.Weights(), b.Weights()
	for j := range aw {
		if aw[j] != bw[j] {
			t.Fatalf("weights differ at item %d", j)
		}
	}
}
