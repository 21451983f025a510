package stats

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mendel/internal/model"
)

func sampleArtifacts(runID string) RunArtifacts {
	best := -42.0
	return RunArtifacts{
		Record: model.RunRecord{
			VersionedRecord: model.VersionedRecord{SchemaVersion: 1, CodecVersion: 1},
			RunID:           runID,
			CreatedAtUTC:    "2026-08-30T12:00:00Z",
			Problem:         "knapsack",
			Dimension:       30,
			PopulationSize:  200,
			Generations:     10,
			Evaluations:     2200,
			Seed:            42,
			RepairEnabled:   true,
			Repair:          "capacity_random_removal",
			Ranking:         "feasibility_first",
			StopReason:      "max_generations",
			BestFeasible:    &best,
		},
		History: []model.GenerationStats{
			{Generation: 0, Evaluations: 200, FeasibleCount: 200, BestFeasible: &best},
			{Generation: 1, Evaluations: 400, FeasibleCount: 200, BestFeasible: &best},
		},
		Best: model.BestRecord{
			RunID: runID,
			Found: true,
			Individual: model.Individual{
				X:         []float64{1, 0, 1},
				F:         best,
				Evaluated: true,
			},
		},
	}
}

func TestWriteRunArtifacts(t *testing.T) {
	dir := t.TempDir()

	runDir, err := WriteRunArtifacts(dir, sampleArtifacts("run-1"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "run-1"), runDir)

	for _, name := range []string{"config.json", "history.json", "history.csv", "best.json"} {
		_, err := os.Stat(filepath.Join(runDir, name))
		assert.NoError(t, err, name)
	}

	file, err := os.Open(filepath.Join(runDir, "history.csv"))
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "generation", rows[0][0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "200", rows[1][1])
}

func TestWriteRunArtifactsRequiresRunID(t *testing.T) {
	_, err := WriteRunArtifacts(t.TempDir(), RunArtifacts{})
	assert.Error(t, err)
}

func TestRunIndexAppendAndUpdate(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteRunArtifacts(dir, sampleArtifacts("run-1"))
	require.NoError(t, err)
	_, err = WriteRunArtifacts(dir, sampleArtifacts("run-2"))
	require.NoError(t, err)

	entries, err := ReadRunIndex(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "run-2", entries[1].RunID)

	// Re-writing the same run updates its entry in place.
	updated := sampleArtifacts("run-1")
	updated.Record.Evaluations = 9999
	_, err = WriteRunArtifacts(dir, updated)
	require.NoError(t, err)

	entries, err = ReadRunIndex(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].RunID)
}

func TestReadRunIndexMissing(t *testing.T) {
	entries, err := ReadRunIndex(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFormatRunTable(t *testing.T) {
	a := sampleArtifacts("0123456789abcdef")
	out := FormatRunTable([]model.RunRecord{a.Record})
	assert.Contains(t, out, "01234567")
	assert.Contains(t, out, "knapsack")
	assert.Contains(t, out, "2,200")
	assert.Contains(t, out, "capacity_random_removal")
}

func TestFormatRunSummaryNoBest(t *testing.T) {
	a := sampleArtifacts("run-1")
	a.Record.BestFeasible = nil
	out := FormatRunSummary(a.Record)
	assert.True(t, strings.Contains(out, "best feasible: none"))
}
