package problem

import (
	"context"
	"errors"
	"testing"
)

type stubProblem struct {
	name string
	dim  int
}

func (p stubProblem) Name() string { return p.name }
func (p stubProblem) Dim() int     { return p.dim }

func (p stubProblem) Evaluate(_ context.Context, x [][]float64) ([]float64, []float64, error) {
	f := make([]float64, len(x))
	cv := make([]float64, len(x))
	return f, cv, nil
}

func TestRegisterAndResolve(t *testing.T) {
	resetRegistryForTests()

	err := Register("stub", func(spec Spec) (Problem, error) {
		return stubProblem{name: "stub", dim: spec.Dim}, nil
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	prob, err := Resolve("stub", Spec{Dim: 4})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if prob.Dim() != 4 {
		t.Fatalf("dim = %d, want 4", prob.Dim())
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	resetRegistryForTests()

	factory := func(spec Spec) (Problem, error) {
		return stubProblem{name: "dup", dim: 1}, nil
	}
	if err := Register("dup", factory); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := Register("dup", factory); !errors.Is(err, ErrProblemExists) {
		t.Fatalf("expected ErrProblemExists, got %v", err)
	}
}

func TestResolveUnknownProblem(t *testing.T) {
	resetRegistryForTests()

	if _, err := Resolve("missing", Spec{Dim: 1}); !errors.Is(err, ErrProblemNotFound) {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
	}
}

func TestResolveRejectsNonPositiveDimension(t *testing.T) {
	resetRegistryForTests()

	_ = Register("flat", func(spec Spec) (Problem, error) {
		return stubProblem{name: "flat", dim: 0}, nil
	})
	if _, err := Resolve("flat", Spec{}); err == nil {
		t.Fatal("expected dimension error")
	}
}

func TestListIsSorted(t *testing.T) {
	resetRegistryForTests()

	factory := func(spec Spec) (Problem, error) {
		return stubProblem{dim: 1}, nil
	}
	_ = Register("b", factory)
	_ = Register("a", factory)

	names := List()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("list = %v, want [a b]", names)
	}
}
