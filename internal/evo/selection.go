package evo

import (
	"fmt"
	"math/rand"

	"mendel/internal/model"
)

// Selector picks one parent from the current population for mating.
type Selector interface {
	Name() string
	PickParent(rng *rand.Rand, pop model.Population, ranker Ranker) (*model.Individual, error)
}

// TournamentSelector samples Size candidates uniformly and keeps the one
// the ranker prefers.
type TournamentSelector struct {
	Size int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, pop model.Population, ranker Ranker) (*model.Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(pop) == 0 {
		return nil, fmt.Errorf("population is empty")
	}
	if ranker == nil {
		return nil, fmt.Errorf("ranker is required")
	}

	size := s.Size
	if size <= 0 {
		size = 2
	}
	if size > len(pop) {
		size = len(pop)
	}

	best := pop[rng.Intn(len(pop))]
	for i := 1; i < size; i++ {
		candidate := pop[rng.Intn(len(pop))]
		if ranker.Less(candidate, best) {
			best = candidate
		}
	}
	return best, nil
}

// RandomSelector picks parents uniformly, ignoring fitness. Useful as a
// neutral baseline in operator tests.
type RandomSelector struct{}

func (RandomSelector) Name() string {
	return "random"
}

func (RandomSelector) PickParent(rng *rand.Rand, pop model.Population, _ Ranker) (*model.Individual, error) {
	if rng == nil {
		return nil, fmt.Errorf("random source is required")
	}
	if len(pop) == 0 {
		return nil, fmt.Errorf("population is empty")
	}
	return pop[rng.Intn(len(pop))], nil
}
