package evo

import (
	"math/rand"
	"testing"

	"mendel/internal/model"
)

func evaluated(f, cv float64) *model.Individual {
	ind := &model.Individual{X: []float64{0}}
	ind.SetEvaluation(f, cv)
	return ind
}

func TestTournamentSelectorPrefersFeasibleLowObjective(t *testing.T) {
	pop := model.Population{
		evaluated(5, 0),
		evaluated(1, 0),
		evaluated(-10, 3),
	}
	rng := rand.New(rand.NewSource(9))
	selector := TournamentSelector{Size: len(pop)}

	wins := map[float64]int{}
	for i := 0; i < 200; i++ {
		parent, err := selector.PickParent(rng, pop, FeasibilityFirstRanker{})
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		wins[parent.F]++
	}
	if wins[1] < wins[5] || wins[1] < wins[-10] {
		t.Fatalf("expected the feasible low-objective parent to dominate, got %v", wins)
	}
	// The infeasible individual never wins a full tournament even with the
	// best raw objective.
	if wins[-10] > wins[1] {
		t.Fatalf("infeasible individual won too often: %v", wins)
	}
}

func TestTournamentSelectorRequiresInputs(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	selector := TournamentSelector{}
	if _, err := selector.PickParent(nil, model.Population{evaluated(0, 0)}, FeasibilityFirstRanker{}); err == nil {
		t.Fatal("expected error for nil rng")
	}
	if _, err := selector.PickParent(rng, nil, FeasibilityFirstRanker{}); err == nil {
		t.Fatal("expected error for empty population")
	}
	if _, err := selector.PickParent(rng, model.Population{evaluated(0, 0)}, nil); err == nil {
		t.Fatal("expected error for nil ranker")
	}
}

func TestRandomSelectorCoversPopulation(t *testing.T) {
	pop := model.Population{evaluated(1, 0), evaluated(2, 0), evaluated(3, 0)}
	rng := rand.New(rand.NewSource(11))

	seen := map[float64]bool{}
	for i := 0; i < 100; i++ {
		parent, err := RandomSelector{}.PickParent(rng, pop, nil)
		if err != nil {
			t.Fatalf("pick parent: %v", err)
		}
		seen[parent.F] = true
	}
	if len(seen) != 3 {
		t.Fatalf("random selector covered %d of 3 individuals", len(seen))
	}
}
