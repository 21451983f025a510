package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"mendel/internal/problem"
	"mendel/internal/stats"
	"mendel/internal/storage"
	"mendel/pkg/mendel"

	_ "mendel/internal/benchmark"
)

const (
	artifactsDir = "artifacts"
	exportsDir   = "exports"
	defaultDB    = "mendel.db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "compare":
		return runCompare(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "history":
		return runHistory(ctx, args[1:])
	case "best":
		return runBest(ctx, args[1:])
	case "problems":
		return runProblems(ctx, args[1:])
	case "export":
		return runExport(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: mendelctl <init|reset|run|compare|runs|history|best|problems|export> [flags]", msg)
}

func storeFlags(fs *flag.FlagSet) (storeKind, dbPath *string) {
	storeKind = fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath = fs.String("db-path", defaultDB, "sqlite database path")
	return storeKind, dbPath
}

func newClient(storeKind, dbPath, logLevel string) (*mendel.Client, error) {
	logger, err := buildLogger(logLevel)
	if err != nil {
		return nil, err
	}
	return mendel.New(mendel.Options{
		StoreKind:    storeKind,
		DBPath:       dbPath,
		ArtifactsDir: artifactsDir,
		ExportsDir:   exportsDir,
		Logger:       logger,
	})
}

func buildLogger(level string) (*zap.Logger, error) {
	if level == "" || level == "off" {
		return zap.NewNop(), nil
	}
	parsed, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = parsed
	return cfg.Build()
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}
	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "run config file (JSON or YAML)")
	problemName := fs.String("problem", "knapsack", "registered problem name")
	dimension := fs.Int("dim", 0, "problem dimension (0 uses the problem default)")
	population := fs.Int("pop", 100, "population size")
	generations := fs.Int("gens", 50, "generation count")
	maxEvals := fs.Int("max-evals", 0, "total evaluation budget (0 disables)")
	seed := fs.Int64("seed", 1, "rng seed")
	noRepair := fs.Bool("no-repair", false, "disable the problem's repair operator")
	ranking := fs.String("ranking", "", "ranking mode: feasibility_first|penalty")
	penalty := fs.Float64("penalty", 0, "penalty coefficient for ranking=penalty")
	dedup := fs.Bool("dedup", false, "reject duplicate offspring within a generation")
	goal := fs.Float64("goal", 0, "early-stop objective goal (unset when flag is omitted)")
	stall := fs.Int("stall-window", 0, "early-stop after N generations without improvement (0 disables)")
	logLevel := fs.String("log-level", "", "structured log level: debug|info|warn|error (empty disables)")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := buildRunRequest(*configPath, setFlags, flagRequest{
		Problem:     *problemName,
		Dimension:   *dimension,
		Population:  *population,
		Generations: *generations,
		MaxEvals:    *maxEvals,
		Seed:        *seed,
		NoRepair:    *noRepair,
		Ranking:     *ranking,
		Penalty:     *penalty,
		Dedup:       *dedup,
		Goal:        *goal,
		Stall:       *stall,
	})
	if err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, *logLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}
	fmt.Print(stats.FormatRunSummary(summary.Record))
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(summary.ArtifactsDir))
	return nil
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	configPath := fs.String("config", "", "run config file (JSON or YAML)")
	problemName := fs.String("problem", "knapsack", "registered problem name")
	dimension := fs.Int("dim", 0, "problem dimension (0 uses the problem default)")
	population := fs.Int("pop", 100, "population size")
	generations := fs.Int("gens", 50, "generation count")
	seed := fs.Int64("seed", 1, "rng seed")
	logLevel := fs.String("log-level", "", "structured log level: debug|info|warn|error (empty disables)")
	jsonOut := fs.Bool("json", false, "emit the comparison as JSON")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	setFlags := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	req, err := buildRunRequest(*configPath, setFlags, flagRequest{
		Problem:     *problemName,
		Dimension:   *dimension,
		Population:  *population,
		Generations: *generations,
		Seed:        *seed,
	})
	if err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, *logLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	cmp, err := client.Compare(ctx, req)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cmp)
	}

	fmt.Printf("compare problem=%s seed=%d pop=%d gens=%d\n",
		cmp.WithRepair.Record.Problem, req.Seed, req.Population, req.Generations)
	fmt.Printf("with_repair    run_id=%s mean_violation=%.6f best=%s\n",
		cmp.WithRepair.RunID, cmp.MeanViolationWith, formatBest(cmp.WithRepair.Record.BestFeasible))
	fmt.Printf("without_repair run_id=%s mean_violation=%.6f best=%s\n",
		cmp.WithoutRepair.RunID, cmp.MeanViolationWithout, formatBest(cmp.WithoutRepair.Record.BestFeasible))
	if cmp.BestDelta != nil {
		fmt.Printf("best_delta=%+.6f\n", *cmp.BestDelta)
	}
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	jsonOut := fs.Bool("json", false, "emit runs list as JSON")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(*storeKind, *dbPath, "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	records, err := client.Runs(ctx, mendel.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no runs found")
		return nil
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	fmt.Print(stats.FormatRunTable(records))
	return nil
}

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "show history for the most recent run")
	limit := fs.Int("limit", 0, "max generations to print (<=0 for all)")
	jsonOut := fs.Bool("json", false, "emit history as JSON")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	history, err := client.History(ctx, mendel.HistoryRequest{
		RunID:  *runID,
		Latest: *latest,
		Limit:  *limit,
	})
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	for _, s := range history {
		best := "n/a"
		if s.BestFeasible != nil {
			best = fmt.Sprintf("%.6f", *s.BestFeasible)
		}
		fmt.Printf("generation=%d evaluations=%d min_violation=%.6f mean_violation=%.6f feasible=%d best_feasible=%s\n",
			s.Generation, s.Evaluations, s.MinViolation, s.MeanViolation, s.FeasibleCount, best)
	}
	return nil
}

func runBest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("best", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	jsonOut := fs.Bool("json", false, "emit the best individual as JSON")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("best requires --run-id")
	}

	client, err := newClient(*storeKind, *dbPath, "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	best, err := client.Best(ctx, *runID)
	if err != nil {
		return err
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(best)
	}
	if !best.Found {
		fmt.Printf("run_id=%s no feasible individual found\n", best.RunID)
		return nil
	}
	fmt.Printf("run_id=%s objective=%.6f violation=%.6f variables=%d\n",
		best.RunID, best.Individual.F, best.Individual.CV, len(best.Individual.X))
	return nil
}

func runProblems(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("problems", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range problem.List() {
		fmt.Println(name)
	}
	return nil
}

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run id")
	latest := fs.Bool("latest", false, "export the most recent run")
	outDir := fs.String("out", "", "destination directory (default exports/)")
	storeKind, dbPath := storeFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := newClient(*storeKind, *dbPath, "")
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	exported, err := client.Export(ctx, mendel.ExportRequest{
		RunID:  *runID,
		Latest: *latest,
		OutDir: *outDir,
	})
	if err != nil {
		return err
	}
	fmt.Printf("exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
	return nil
}

func formatBest(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", *v)
}
