package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mendel/internal/benchmark"
	"mendel/internal/evo"
	"mendel/internal/model"
	"mendel/internal/problem"
	"mendel/internal/stats"
	"mendel/internal/storage"
)

// Ranking mode names accepted in RunRequest.
const (
	RankingFeasibilityFirst = "feasibility_first"
	RankingPenalty          = "penalty"
)

// createdAtLayout pads nanoseconds to fixed width so the stores'
// lexicographic ordering of CreatedAtUTC is chronological, runs created
// within the same second included.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Config struct {
	Store storage.Store
	// ArtifactsDir enables per-run artifact files when non-empty.
	ArtifactsDir string
	Logger       *zap.Logger
}

// Lab owns the store and artifact directory and turns run requests into
// persisted engine runs. All experiment entry points go through it.
type Lab struct {
	store        storage.Store
	artifactsDir string
	log          *zap.Logger

	mu      sync.Mutex
	started bool
}

func NewLab(cfg Config) (*Lab, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Lab{
		store:        cfg.Store,
		artifactsDir: cfg.ArtifactsDir,
		log:          cfg.Logger,
	}, nil
}

func (l *Lab) Init(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return nil
	}
	if err := l.store.Init(ctx); err != nil {
		return err
	}
	l.started = true
	return nil
}

// Reset drops all persisted runs. It may be the first store call in a
// fresh process, so the store is opened before it is cleared.
func (l *Lab) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Init(ctx); err != nil {
		return err
	}
	if err := l.store.Reset(ctx); err != nil {
		return err
	}
	l.started = true
	return nil
}

func (l *Lab) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}

// RunRequest describes one experiment. Problem is a registered problem
// name; operators and repair are chosen from the problem's capabilities.
type RunRequest struct {
	Problem        string
	Dimension      int
	PopulationSize int
	Generations    int
	MaxEvaluations int
	Seed           int64

	// RunID is assigned when empty.
	RunID string

	// DisableRepair replaces the problem's repair with a no-op. The run
	// then carries whatever constraint violations variation produces.
	DisableRepair bool

	Ranking             string
	PenaltyCoefficient  float64
	EliminateDuplicates bool

	// Goal, when set, terminates the run once a feasible individual
	// reaches it.
	Goal *float64
	// StallWindow, when positive, terminates the run after that many
	// consecutive generations without best-feasible improvement.
	StallWindow int
}

// RunOutcome is what RunExperiment persisted.
type RunOutcome struct {
	Record  model.RunRecord
	History []model.GenerationStats
	Best    model.BestRecord
	// RunDir is the artifact directory, empty when artifacts are disabled.
	RunDir string
}

// RunExperiment resolves the problem, builds an engine for it, runs it to
// completion, and persists the record, history, and best individual.
func (l *Lab) RunExperiment(ctx context.Context, req RunRequest) (RunOutcome, error) {
	if !l.Started() {
		return RunOutcome{}, fmt.Errorf("lab is not initialized")
	}
	if req.Problem == "" {
		return RunOutcome{}, fmt.Errorf("problem name is required")
	}

	prob, err := problem.Resolve(req.Problem, problem.Spec{Dim: req.Dimension, Seed: req.Seed})
	if err != nil {
		return RunOutcome{}, err
	}

	cfg, err := l.engineConfig(prob, req)
	if err != nil {
		return RunOutcome{}, err
	}
	engine, err := evo.NewEngine(cfg)
	if err != nil {
		return RunOutcome{}, err
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	l.log.Info("experiment start",
		zap.String("run_id", runID),
		zap.String("problem", prob.Name()),
		zap.Int("dimension", prob.Dim()),
		zap.Int64("seed", req.Seed),
		zap.Bool("repair", !req.DisableRepair),
	)

	result, err := engine.Run(ctx)
	if err != nil {
		return RunOutcome{}, fmt.Errorf("run %s: %w", runID, err)
	}

	record := model.RunRecord{
		RunID:          runID,
		CreatedAtUTC:   time.Now().UTC().Format(createdAtLayout),
		Problem:        prob.Name(),
		Dimension:      prob.Dim(),
		PopulationSize: cfg.PopulationSize,
		Generations:    result.Generations,
		Evaluations:    result.Evaluations,
		Seed:           req.Seed,
		RepairEnabled:  !req.DisableRepair,
		Repair:         cfg.Repair.Name(),
		Ranking:        cfg.Ranker.Name(),
		StopReason:     result.StopReason,
	}
	best := model.BestRecord{RunID: runID}
	if result.Best != nil {
		f := result.Best.F
		record.BestFeasible = &f
		best.Found = true
		best.Individual = *result.Best
	}
	storage.Stamp(&record.VersionedRecord)
	storage.Stamp(&best.VersionedRecord)

	if err := l.store.SaveRunRecord(ctx, record); err != nil {
		return RunOutcome{}, err
	}
	if err := l.store.SaveHistory(ctx, runID, result.History); err != nil {
		return RunOutcome{}, err
	}
	if err := l.store.SaveBest(ctx, best); err != nil {
		return RunOutcome{}, err
	}

	outcome := RunOutcome{Record: record, History: result.History, Best: best}
	if l.artifactsDir != "" {
		runDir, err := stats.WriteRunArtifacts(l.artifactsDir, stats.RunArtifacts{
			Record:  record,
			History: result.History,
			Best:    best,
		})
		if err != nil {
			return RunOutcome{}, fmt.Errorf("write artifacts for run %s: %w", runID, err)
		}
		outcome.RunDir = runDir
	}
	return outcome, nil
}

// engineConfig maps a problem's capabilities to operators: binary
// variation plus capacity repair for knapsack-style problems, real-coded
// variation plus bound clamping for box-bounded ones.
func (l *Lab) engineConfig(prob problem.Problem, req RunRequest) (evo.Config, error) {
	cfg := evo.Config{
		Problem:             prob,
		PopulationSize:      req.PopulationSize,
		Generations:         req.Generations,
		MaxEvaluations:      req.MaxEvaluations,
		Selector:            evo.TournamentSelector{},
		Crossover:           evo.UniformCrossover{},
		EliminateDuplicates: req.EliminateDuplicates,
		Seed:                req.Seed,
		Logger:              l.log,
	}

	switch {
	case isCapacityConstrained(prob):
		cfg.Sampler = evo.BinarySampler{}
		cfg.Mutation = evo.BitflipMutation{}
		cfg.Repair = benchmark.CapacityRepair{}
	case isBounded(prob):
		lower, upper := prob.(problem.Bounded).Bounds()
		cfg.Sampler = evo.UniformRealSampler{Lower: lower, Upper: upper}
		cfg.Mutation = evo.GaussianMutation{}
		cfg.Repair = evo.ClampRepair{}
	default:
		return evo.Config{}, fmt.Errorf("problem %s declares no variable encoding", prob.Name())
	}
	if req.DisableRepair {
		cfg.Repair = evo.NoopRepair{}
	}

	switch req.Ranking {
	case "", RankingFeasibilityFirst:
		cfg.Ranker = evo.FeasibilityFirstRanker{}
	case RankingPenalty:
		cfg.Ranker = evo.PenaltyRanker{Coefficient: req.PenaltyCoefficient}
	default:
		return evo.Config{}, fmt.Errorf("unknown ranking: %s", req.Ranking)
	}

	var terms []evo.Termination
	if req.Goal != nil {
		terms = append(terms, evo.ObjectiveGoal{Goal: *req.Goal})
	}
	if req.StallWindow > 0 {
		terms = append(terms, &evo.NoImprovement{Window: req.StallWindow})
	}
	switch len(terms) {
	case 0:
	case 1:
		cfg.Termination = terms[0]
	default:
		cfg.Termination = anyTermination(terms)
	}
	return cfg, nil
}

func isCapacityConstrained(p problem.Problem) bool {
	_, ok := p.(benchmark.CapacityConstrained)
	return ok
}

func isBounded(p problem.Problem) bool {
	_, ok := p.(problem.Bounded)
	return ok
}

type anyTermination []evo.Termination

func (anyTermination) Name() string {
	return "any"
}

func (t anyTermination) IsSatisfied(s evo.Status) bool {
	for _, term := range t {
		if term.IsSatisfied(s) {
			return true
		}
	}
	return false
}
