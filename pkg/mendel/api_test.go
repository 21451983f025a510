package mendel

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	dir := t.TempDir()
	client, err := New(Options{
		StoreKind:    "memory",
		ArtifactsDir: filepath.Join(dir, "artifacts"),
		ExportsDir:   filepath.Join(dir, "exports"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRunAppliesDefaults(t *testing.T) {
	client := newTestClient(t)

	summary, err := client.Run(context.Background(), RunRequest{Seed: 3, Generations: 3})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Record.Problem != "knapsack" {
		t.Fatalf("problem = %q, want knapsack", summary.Record.Problem)
	}
	if summary.Record.PopulationSize != defaultPopulation {
		t.Fatalf("population = %d, want %d", summary.Record.PopulationSize, defaultPopulation)
	}
	if summary.ArtifactsDir == "" {
		t.Fatal("artifacts dir not reported")
	}
	if _, err := os.Stat(filepath.Join(summary.ArtifactsDir, "history.csv")); err != nil {
		t.Fatalf("history.csv missing: %v", err)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for seed := int64(1); seed <= 3; seed++ {
		if _, err := client.Run(ctx, RunRequest{Seed: seed, Population: 20, Generations: 2}); err != nil {
			t.Fatalf("Run seed %d: %v", seed, err)
		}
	}

	records, err := client.Runs(ctx, RunsRequest{Limit: 2})
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Seed != 3 {
		t.Fatalf("newest record seed = %d, want 3", records[0].Seed)
	}
}

func TestHistoryLatest(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if _, err := client.Run(ctx, RunRequest{Seed: 5, Population: 20, Generations: 4}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	history, err := client.History(ctx, HistoryRequest{Latest: true})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 5 {
		t.Fatalf("history length = %d, want 5", len(history))
	}

	limited, err := client.History(ctx, HistoryRequest{Latest: true, Limit: 2})
	if err != nil {
		t.Fatalf("History with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("limited history length = %d, want 2", len(limited))
	}

	if _, err := client.History(ctx, HistoryRequest{RunID: "x", Latest: true}); err == nil {
		t.Fatal("expected error for run id plus latest")
	}
	if _, err := client.History(ctx, HistoryRequest{}); err == nil {
		t.Fatal("expected error for neither run id nor latest")
	}
}

func TestCompareSharesSeed(t *testing.T) {
	client := newTestClient(t)

	cmp, err := client.Compare(context.Background(), RunRequest{Seed: 7, Population: 30, Generations: 3})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.WithRepair.Record.Seed != cmp.WithoutRepair.Record.Seed {
		t.Fatal("compared runs must share the seed")
	}
	if cmp.MeanViolationWith != 0 {
		t.Fatalf("repaired mean violation = %v, want 0", cmp.MeanViolationWith)
	}
}

func TestExportLatest(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := client.Run(ctx, RunRequest{Seed: 9, Population: 20, Generations: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	exported, err := client.Export(ctx, ExportRequest{Latest: true})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if exported.RunID != summary.RunID {
		t.Fatalf("exported run id = %q, want %q", exported.RunID, summary.RunID)
	}
	for _, name := range []string{"config.json", "history.json", "history.csv", "best.json"} {
		if _, err := os.Stat(filepath.Join(exported.Directory, name)); err != nil {
			t.Fatalf("missing exported file %s: %v", name, err)
		}
	}

	if _, err := client.Export(ctx, ExportRequest{RunID: summary.RunID, Latest: true}); err == nil {
		t.Fatal("expected error for run id plus latest")
	}
	if _, err := client.Export(ctx, ExportRequest{}); err == nil {
		t.Fatal("expected error for neither run id nor latest")
	}
}

func TestBestNotFound(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Best(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown run id")
	}
}
