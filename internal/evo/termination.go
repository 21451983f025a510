package evo

import "mendel/internal/model"

// Status is the engine state handed to a termination criterion once per
// generation, after survival selection.
type Status struct {
	Generation   int
	Evaluations  int
	Population   model.Population
	BestFeasible *model.Individual
}

// Termination decides when the generational loop stops. Implementations
// may keep state across calls; the engine queries exactly once per
// generation boundary.
type Termination interface {
	Name() string
	IsSatisfied(s Status) bool
}

// ObjectiveGoal stops once a feasible individual reaches the goal value.
type ObjectiveGoal struct {
	Goal float64
}

func (ObjectiveGoal) Name() string {
	return "objective_goal"
}

func (t ObjectiveGoal) IsSatisfied(s Status) bool {
	return s.BestFeasible != nil && s.BestFeasible.F <= t.Goal
}

// NoImprovement stops after Window consecutive generations in which the
// best feasible objective improved by less than MinDelta.
type NoImprovement struct {
	Window   int
	MinDelta float64

	stalled  int
	lastBest float64
	seen     bool
}

func (*NoImprovement) Name() string {
	return "no_improvement"
}

func (t *NoImprovement) IsSatisfied(s Status) bool {
	window := t.Window
	if window <= 0 {
		window = 10
	}
	if s.BestFeasible == nil {
		return false
	}
	best := s.BestFeasible.F
	if !t.seen {
		t.seen = true
		t.lastBest = best
		t.stalled = 0
		return false
	}
	if t.lastBest-best <= t.MinDelta {
		t.stalled++
	} else {
		t.stalled = 0
	}
	if best < t.lastBest {
		t.lastBest = best
	}
	return t.stalled >= window
}
