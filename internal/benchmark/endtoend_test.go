package benchmark

import (
	"context"
	"testing"

	"mendel/internal/evo"
)

func knapsackEngineConfig(t *testing.T, repair evo.Repair) evo.Config {
	t.Helper()
	ks, err := RandomKnapsack(30, 42)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	return evo.Config{
		Problem:        ks,
		PopulationSize: 200,
		Generations:    10,
		Sampler:        evo.BinarySampler{},
		Selector:       evo.TournamentSelector{Size: 2},
		Crossover:      evo.UniformCrossover{},
		Mutation:       evo.BitflipMutation{},
		Repair:         repair,
		Seed:           42,
	}
}

func TestKnapsackRunWithRepairStaysFeasibleEveryGeneration(t *testing.T) {
	engine, err := evo.NewEngine(knapsackEngineConfig(t, CapacityRepair{}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.History) != 11 {
		t.Fatalf("history length = %d, want 11 (generation 0 plus 10 steps)", len(result.History))
	}
	for _, stats := range result.History {
		if stats.MinViolation != 0 || stats.MeanViolation != 0 {
			t.Fatalf("generation %d: min=%v mean=%v violation, want exactly 0",
				stats.Generation, stats.MinViolation, stats.MeanViolation)
		}
		if stats.FeasibleCount != 200 {
			t.Fatalf("generation %d: %d feasible of 200", stats.Generation, stats.FeasibleCount)
		}
		if stats.BestFeasible == nil {
			t.Fatalf("generation %d: missing best feasible", stats.Generation)
		}
	}

	// Elitist survival makes the per-generation best non-increasing in
	// negated-maximization terms.
	prev := *result.History[0].BestFeasible
	for _, stats := range result.History[1:] {
		if *stats.BestFeasible > prev {
			t.Fatalf("generation %d: best %v regressed above %v", stats.Generation, *stats.BestFeasible, prev)
		}
		prev = *stats.BestFeasible
	}

	if result.Best == nil {
		t.Fatal("expected a feasible best individual")
	}
}

func TestKnapsackRunWithoutRepairStartsInfeasible(t *testing.T) {
	// Capacity below the lightest item: only the empty selection is
	// feasible, which random binary sampling does not produce.
	values := make([]float64, 30)
	weights := make([]float64, 30)
	for j := range values {
		values[j] = float64(j%10 + 1)
		weights[j] = float64(j%5 + 1)
	}
	ks, err := NewKnapsack(values, weights, 0.5)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}

	cfg := knapsackEngineConfig(t, nil)
	cfg.Problem = ks
	engine, err := evo.NewEngine(cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, stats := range result.History[:2] {
		if stats.MinViolation <= 0 {
			t.Fatalf("generation %d min violation = %v, want > 0 without repair", stats.Generation, stats.MinViolation)
		}
		if stats.MeanViolation <= 0 {
			t.Fatalf("generation %d mean violation = %v, want > 0 without repair", stats.Generation, stats.MeanViolation)
		}
	}
	// The loop still completes all generations despite infeasibility.
	if result.Generations != 10 {
		t.Fatalf("generations = %d, want 10", result.Generations)
	}
}

func TestSphereRunWithClampRepairConverges(t *testing.T) {
	sphere, err := NewSphere(5)
	if err != nil {
		t.Fatalf("instance: %v", err)
	}
	lower, upper := sphere.Bounds()
	engine, err := evo.NewEngine(evo.Config{
		Problem:        sphere,
		PopulationSize: 50,
		Generations:    30,
		Sampler:        evo.UniformRealSampler{Lower: lower, Upper: upper},
		Selector:       evo.TournamentSelector{Size: 2},
		Crossover:      evo.UniformCrossover{},
		Mutation:       evo.GaussianMutation{Sigma: 0.5},
		Repair:         evo.ClampRepair{},
		Seed:           7,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	result, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if result.Best == nil {
		t.Fatal("sphere is unconstrained, best must exist")
	}
	start := *result.History[0].BestFeasible
	if result.Best.F >= start {
		t.Fatalf("best did not improve: start %v, final %v", start, result.Best.F)
	}
	for j, v := range result.Best.X {
		if v < lower[j] || v > upper[j] {
			t.Fatalf("best violates bounds at position %d: %v", j, v)
		}
	}
}
