package evo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"mendel/internal/model"
	"mendel/internal/problem"
)

// State tracks the engine lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateTerminated
)

// Stop reasons recorded in Result. Exhausting a generation or evaluation
// budget is a normal terminal condition, not an error.
const (
	StopTermination    = "termination"
	StopMaxGenerations = "max_generations"
	StopMaxEvaluations = "max_evaluations"
)

// Duplicate offspring are rejected and re-mated at most this many times
// per generation before duplicates are accepted as-is.
const dedupAttemptsPerGeneration = 100

// Config drives one engine run. Problem, PopulationSize, Generations,
// Sampler, Selector, Crossover, and Mutation are required; everything else
// has a default.
type Config struct {
	Problem        problem.Problem
	PopulationSize int
	Generations    int
	MaxEvaluations int

	Sampler   Sampler
	Selector  Selector
	Crossover Crossover
	Mutation  Mutation

	// Repair is applied to every batch, the initial population included,
	// before that batch is ever evaluated. Defaults to NoopRepair.
	Repair Repair

	Ranker      Ranker
	Termination Termination

	EliminateDuplicates bool
	Seed                int64
	Logger              *zap.Logger
}

// Result is the outcome of a completed run. Best is the best feasible
// individual found across all generations, or nil when the run never
// produced a feasible individual.
type Result struct {
	Best        *model.Individual
	Generations int
	Evaluations int
	StopReason  string
	History     []model.GenerationStats
	Final       model.Population
}

// Engine is the single-objective generational loop. One seeded random
// source is owned by the engine and consumed in a fixed order (sampling,
// then per generation: mating draws, then repair draws in individual index
// order) so a fixed seed reproduces a run bit for bit.
type Engine struct {
	cfg  Config
	rng  *rand.Rand
	log  *zap.Logger
	gen  int
	eval int

	state State
	pop   model.Population
	best  *model.Individual
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Problem == nil {
		return nil, fmt.Errorf("problem is required")
	}
	if cfg.Problem.Dim() <= 0 {
		return nil, fmt.Errorf("problem dimension must be > 0")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if cfg.MaxEvaluations < 0 {
		return nil, fmt.Errorf("max evaluations must be >= 0")
	}
	if cfg.Sampler == nil {
		return nil, fmt.Errorf("sampler is required")
	}
	if cfg.Selector == nil {
		return nil, fmt.Errorf("selector is required")
	}
	if cfg.Crossover == nil {
		return nil, fmt.Errorf("crossover is required")
	}
	if cfg.Mutation == nil {
		return nil, fmt.Errorf("mutation is required")
	}
	if cfg.Repair == nil {
		cfg.Repair = NoopRepair{}
	}
	if cfg.Ranker == nil {
		cfg.Ranker = FeasibilityFirstRanker{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Engine{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		log:   cfg.Logger,
		state: StateUninitialized,
	}, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Run executes the generational loop until a termination criterion fires
// or a budget is exhausted. Cancellation is honored at generation
// boundaries only; a generation in flight always completes.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if e.state != StateUninitialized {
		return Result{}, fmt.Errorf("engine has already run")
	}

	history := make([]model.GenerationStats, 0, e.cfg.Generations+1)

	if err := e.initialize(ctx); err != nil {
		return Result{}, err
	}
	history = append(history, e.summarize())
	e.logGeneration(history[len(history)-1])

	reason, done := e.stopReason()
	for !done {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		if err := e.step(ctx); err != nil {
			return Result{}, err
		}
		history = append(history, e.summarize())
		e.logGeneration(history[len(history)-1])
		reason, done = e.stopReason()
	}
	e.state = StateTerminated

	var best *model.Individual
	if e.best != nil {
		best = e.best.Clone()
	}
	e.log.Info("run finished",
		zap.Int("generations", e.gen),
		zap.Int("evaluations", e.eval),
		zap.String("stop_reason", reason),
		zap.Bool("feasible_found", best != nil),
	)
	return Result{
		Best:        best,
		Generations: e.gen,
		Evaluations: e.eval,
		StopReason:  reason,
		History:     history,
		Final:       e.pop,
	}, nil
}

// initialize samples generation zero, repairs it, and evaluates it.
func (e *Engine) initialize(ctx context.Context) error {
	pop, err := e.cfg.Sampler.Sample(e.rng, e.cfg.PopulationSize, e.cfg.Problem.Dim())
	if err != nil {
		return fmt.Errorf("sample initial population: %w", err)
	}
	if len(pop) != e.cfg.PopulationSize {
		return fmt.Errorf("sampler returned %d individuals, want %d", len(pop), e.cfg.PopulationSize)
	}
	for i, ind := range pop {
		if len(ind.X) != e.cfg.Problem.Dim() {
			return fmt.Errorf("%w: sampled individual %d has %d variables, problem dimension is %d",
				ErrDimensionMismatch, i, len(ind.X), e.cfg.Problem.Dim())
		}
	}

	if err := e.repairAndEvaluate(ctx, pop); err != nil {
		return err
	}
	e.pop = pop
	e.trackBest(pop)
	e.state = StateRunning
	return nil
}

// step runs one generation: variation, repair, evaluation, survival.
func (e *Engine) step(ctx context.Context) error {
	offspring, err := e.variate()
	if err != nil {
		return err
	}
	if err := e.repairAndEvaluate(ctx, offspring); err != nil {
		return err
	}
	e.trackBest(offspring)

	merged := make(model.Population, 0, len(e.pop)+len(offspring))
	merged = append(merged, e.pop...)
	merged = append(merged, offspring...)
	ranker := e.cfg.Ranker
	sort.SliceStable(merged, func(i, j int) bool {
		return ranker.Less(merged[i], merged[j])
	})
	e.pop = merged[:e.cfg.PopulationSize]
	e.gen++
	return nil
}

// repairAndEvaluate enforces the core invariant: no individual reaches the
// problem's objective function while still violating a constraint the
// configured repair eliminates.
func (e *Engine) repairAndEvaluate(ctx context.Context, pop model.Population) error {
	if err := e.cfg.Repair.Repair(e.rng, e.cfg.Problem, pop); err != nil {
		return fmt.Errorf("repair %s: %w", e.cfg.Repair.Name(), err)
	}
	if len(pop) != e.cfg.PopulationSize {
		return fmt.Errorf("repair %s changed population size to %d, want %d",
			e.cfg.Repair.Name(), len(pop), e.cfg.PopulationSize)
	}
	return e.evaluate(ctx, pop)
}

func (e *Engine) evaluate(ctx context.Context, pop model.Population) error {
	f, cv, err := e.cfg.Problem.Evaluate(ctx, pop.XMatrix())
	if err != nil {
		return fmt.Errorf("evaluate problem %s: %w", e.cfg.Problem.Name(), err)
	}
	if len(f) != len(pop) || len(cv) != len(pop) {
		return fmt.Errorf("%w: problem %s returned %d objectives and %d violations for %d individuals",
			ErrDimensionMismatch, e.cfg.Problem.Name(), len(f), len(cv), len(pop))
	}
	for i, ind := range pop {
		if cv[i] < 0 {
			return fmt.Errorf("problem %s returned negative violation %v for individual %d",
				e.cfg.Problem.Name(), cv[i], i)
		}
		ind.SetEvaluation(f[i], cv[i])
	}
	e.eval += len(pop)
	return nil
}

// variate produces a full offspring batch through mating selection,
// crossover, and mutation. With duplicate elimination enabled, offspring
// whose decision vector already exists among parents or accepted siblings
// are discarded and re-mated, up to a bounded attempt count.
func (e *Engine) variate() (model.Population, error) {
	n := e.cfg.PopulationSize
	offspring := make(model.Population, 0, n)

	var seen map[string]struct{}
	if e.cfg.EliminateDuplicates {
		seen = make(map[string]struct{}, 2*n)
		for _, ind := range e.pop {
			seen[Fingerprint(ind.X)] = struct{}{}
		}
	}

	rejected := 0
	for len(offspring) < n {
		p1, err := e.cfg.Selector.PickParent(e.rng, e.pop, e.cfg.Ranker)
		if err != nil {
			return nil, fmt.Errorf("select parent: %w", err)
		}
		p2, err := e.cfg.Selector.PickParent(e.rng, e.pop, e.cfg.Ranker)
		if err != nil {
			return nil, fmt.Errorf("select parent: %w", err)
		}

		c1, c2, err := e.cfg.Crossover.Cross(e.rng, p1.X, p2.X)
		if err != nil {
			return nil, fmt.Errorf("crossover %s: %w", e.cfg.Crossover.Name(), err)
		}
		for _, x := range [][]float64{c1, c2} {
			if len(offspring) >= n {
				break
			}
			if err := e.cfg.Mutation.Mutate(e.rng, x); err != nil {
				return nil, fmt.Errorf("mutation %s: %w", e.cfg.Mutation.Name(), err)
			}
			if seen != nil {
				key := Fingerprint(x)
				if _, dup := seen[key]; dup && rejected < dedupAttemptsPerGeneration {
					rejected++
					continue
				}
				seen[key] = struct{}{}
			}
			offspring = append(offspring, &model.Individual{X: x})
		}
	}
	return offspring, nil
}

func (e *Engine) trackBest(pop model.Population) {
	for _, ind := range pop {
		if !ind.Feasible() {
			continue
		}
		if e.best == nil || ind.F < e.best.F {
			e.best = ind.Clone()
		}
	}
}

func (e *Engine) summarize() model.GenerationStats {
	violations := e.pop.Violations()
	minCV := violations[0]
	for _, v := range violations[1:] {
		if v < minCV {
			minCV = v
		}
	}

	stats := model.GenerationStats{
		Generation:    e.gen,
		Evaluations:   e.eval,
		MinViolation:  minCV,
		MeanViolation: stat.Mean(violations, nil),
		FeasibleCount: e.pop.FeasibleCount(),
	}

	feasible := make([]float64, 0, len(e.pop))
	for _, ind := range e.pop {
		if ind.Feasible() {
			feasible = append(feasible, ind.F)
		}
	}
	if len(feasible) > 0 {
		best := feasible[0]
		for _, f := range feasible[1:] {
			if f < best {
				best = f
			}
		}
		mean := stat.Mean(feasible, nil)
		stats.BestFeasible = &best
		stats.MeanFeasible = &mean
	}
	return stats
}

func (e *Engine) stopReason() (string, bool) {
	if e.cfg.Termination != nil && e.cfg.Termination.IsSatisfied(e.status()) {
		return StopTermination, true
	}
	if e.cfg.MaxEvaluations > 0 && e.eval >= e.cfg.MaxEvaluations {
		return StopMaxEvaluations, true
	}
	if e.gen >= e.cfg.Generations {
		return StopMaxGenerations, true
	}
	return "", false
}

func (e *Engine) status() Status {
	return Status{
		Generation:   e.gen,
		Evaluations:  e.eval,
		Population:   e.pop,
		BestFeasible: e.best,
	}
}

func (e *Engine) logGeneration(s model.GenerationStats) {
	fields := []zap.Field{
		zap.Int("generation", s.Generation),
		zap.Int("evaluations", s.Evaluations),
		zap.Float64("min_violation", s.MinViolation),
		zap.Float64("mean_violation", s.MeanViolation),
		zap.Int("feasible", s.FeasibleCount),
	}
	if s.BestFeasible != nil {
		fields = append(fields, zap.Float64("best_feasible", *s.BestFeasible))
	}
	e.log.Debug("generation complete", fields...)
}
