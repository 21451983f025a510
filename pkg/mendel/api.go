// Package mendel is the public client for running and inspecting
// evolutionary optimization experiments. It wraps the internal lab,
// store, and artifact layers behind one handle.
package mendel

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"mendel/internal/model"
	"mendel/internal/platform"
	"mendel/internal/stats"
	"mendel/internal/storage"

	_ "mendel/internal/benchmark"
)

const (
	defaultArtifactsDir = "artifacts"
	defaultExportsDir   = "exports"
	defaultDBPath       = "mendel.db"

	defaultProblem    = "knapsack"
	defaultPopulation = 100
	defaultGens       = 50
)

type Options struct {
	StoreKind    string
	DBPath       string
	ArtifactsDir string
	ExportsDir   string
	Logger       *zap.Logger
}

type Client struct {
	store storage.Store
	lab   *platform.Lab

	artifactsDir string
	exportsDir   string
	log          *zap.Logger
}

type RunRequest struct {
	Problem             string
	Dimension           int
	Population          int
	Generations         int
	MaxEvaluations      int
	Seed                int64
	NoRepair            bool
	Ranking             string
	PenaltyCoefficient  float64
	EliminateDuplicates bool
	Goal                *float64
	StallWindow         int
}

type RunSummary struct {
	RunID        string
	ArtifactsDir string
	Record       model.RunRecord
	History      []model.GenerationStats
	Best         model.BestRecord
}

type CompareSummary struct {
	WithRepair           RunSummary
	WithoutRepair        RunSummary
	MeanViolationWith    float64
	MeanViolationWithout float64
	BestDelta            *float64
}

type RunsRequest struct {
	Limit int
}

type HistoryRequest struct {
	RunID  string
	Latest bool
	Limit  int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	artifactsDir := opts.ArtifactsDir
	if artifactsDir == "" {
		artifactsDir = defaultArtifactsDir
	}
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}
	lab, err := platform.NewLab(platform.Config{
		Store:        store,
		ArtifactsDir: artifactsDir,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		store:        store,
		lab:          lab,
		artifactsDir: artifactsDir,
		exportsDir:   exportsDir,
		log:          logger,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.lab.Init(ctx)
}

// Reset drops all persisted runs.
func (c *Client) Reset(ctx context.Context) error {
	return c.lab.Reset(ctx)
}

func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	if err := c.lab.Init(ctx); err != nil {
		return RunSummary{}, err
	}
	outcome, err := c.lab.RunExperiment(ctx, labRequest(req))
	if err != nil {
		return RunSummary{}, err
	}
	return runSummary(outcome), nil
}

// Compare runs the request twice on the same seed, with and without the
// problem's repair, and reports the violation averages side by side.
func (c *Client) Compare(ctx context.Context, req RunRequest) (CompareSummary, error) {
	if err := c.lab.Init(ctx); err != nil {
		return CompareSummary{}, err
	}
	cmp, err := c.lab.CompareRepair(ctx, labRequest(req))
	if err != nil {
		return CompareSummary{}, err
	}
	return CompareSummary{
		WithRepair:           runSummary(cmp.WithRepair),
		WithoutRepair:        runSummary(cmp.WithoutRepair),
		MeanViolationWith:    cmp.MeanViolationWith,
		MeanViolationWithout: cmp.MeanViolationWithout,
		BestDelta:            cmp.BestDelta,
	}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunRecord, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if req.Limit == 0 {
		req.Limit = 20
	}
	if err := c.lab.Init(ctx); err != nil {
		return nil, err
	}
	records, err := c.lab.Runs(ctx)
	if err != nil {
		return nil, err
	}
	// Newest last in the store; the listing shows newest first.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	if len(records) > req.Limit {
		records = records[:req.Limit]
	}
	return records, nil
}

func (c *Client) History(ctx context.Context, req HistoryRequest) ([]model.GenerationStats, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if err := c.lab.Init(ctx); err != nil {
		return nil, err
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return nil, err
	}
	history, ok, err := c.lab.History(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("history not found for run id: %s", runID)
	}
	if req.Limit > 0 && len(history) > req.Limit {
		history = history[:req.Limit]
	}
	return history, nil
}

func (c *Client) Best(ctx context.Context, runID string) (model.BestRecord, error) {
	if err := c.lab.Init(ctx); err != nil {
		return model.BestRecord{}, err
	}
	best, ok, err := c.lab.Best(ctx, runID)
	if err != nil {
		return model.BestRecord{}, err
	}
	if !ok {
		return model.BestRecord{}, fmt.Errorf("best not found for run id: %s", runID)
	}
	return best, nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.RunID != "" && req.Latest {
		return ExportSummary{}, errors.New("use either run id or latest")
	}
	if req.RunID == "" && !req.Latest {
		return ExportSummary{}, errors.New("export requires run id or latest")
	}
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	if err := c.lab.Init(ctx); err != nil {
		return ExportSummary{}, err
	}
	runID, err := c.resolveRunID(ctx, req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}
	exportedDir, err := stats.ExportRunArtifacts(c.artifactsDir, runID, req.OutDir)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: runID, Directory: filepath.Clean(exportedDir)}, nil
}

func (c *Client) resolveRunID(ctx context.Context, runID string, latest bool) (string, error) {
	if runID != "" && latest {
		return "", errors.New("use either run id or latest")
	}
	if runID != "" {
		return runID, nil
	}
	if !latest {
		return "", errors.New("run id or latest is required")
	}
	records, err := c.lab.Runs(ctx)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", errors.New("no runs available")
	}
	return records[len(records)-1].RunID, nil
}

func labRequest(req RunRequest) platform.RunRequest {
	if req.Problem == "" {
		req.Problem = defaultProblem
	}
	if req.Population <= 0 {
		req.Population = defaultPopulation
	}
	if req.Generations <= 0 {
		req.Generations = defaultGens
	}
	return platform.RunRequest{
		Problem:             req.Problem,
		Dimension:           req.Dimension,
		PopulationSize:      req.Population,
		Generations:         req.Generations,
		MaxEvaluations:      req.MaxEvaluations,
		Seed:                req.Seed,
		DisableRepair:       req.NoRepair,
		Ranking:             req.Ranking,
		PenaltyCoefficient:  req.PenaltyCoefficient,
		EliminateDuplicates: req.EliminateDuplicates,
		Goal:                req.Goal,
		StallWindow:         req.StallWindow,
	}
}

func runSummary(outcome platform.RunOutcome) RunSummary {
	return RunSummary{
		RunID:        outcome.Record.RunID,
		ArtifactsDir: filepath.Clean(outcome.RunDir),
		Record:       outcome.Record,
		History:      outcome.History,
		Best:         outcome.Best,
	}
}
