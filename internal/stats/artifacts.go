package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"mendel/internal/model"
)

const runIndexFile = "run_index.json"

// RunArtifacts is everything one run leaves on disk for external
// reporting and plotting tools.
type RunArtifacts struct {
	Record  model.RunRecord         `json:"record"`
	History []model.GenerationStats `json:"history"`
	Best    model.BestRecord        `json:"best"`
}

// RunIndexEntry is one line of the cross-run index kept next to the
// per-run directories.
type RunIndexEntry struct {
	RunID         string   `json:"run_id"`
	CreatedAtUTC  string   `json:"created_at_utc"`
	Problem       string   `json:"problem"`
	Seed          int64    `json:"seed"`
	Population    int      `json:"population"`
	Generations   int      `json:"generations"`
	RepairEnabled bool     `json:"repair_enabled"`
	BestFeasible  *float64 `json:"best_feasible,omitempty"`
}

// WriteRunArtifacts writes config.json, history.json, history.csv and
// best.json under baseDir/<run id> and appends the run to the index.
// It returns the per-run directory.
func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Record.RunID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Record.RunID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "config.json"), artifacts.Record); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "history.json"), artifacts.History); err != nil {
		return "", err
	}
	if err := writeHistoryCSV(filepath.Join(runDir, "history.csv"), artifacts.History); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "best.json"), artifacts.Best); err != nil {
		return "", err
	}
	if err := appendRunIndex(baseDir, RunIndexEntry{
		RunID:         artifacts.Record.RunID,
		CreatedAtUTC:  artifacts.Record.CreatedAtUTC,
		Problem:       artifacts.Record.Problem,
		Seed:          artifacts.Record.Seed,
		Population:    artifacts.Record.PopulationSize,
		Generations:   artifacts.Record.Generations,
		RepairEnabled: artifacts.Record.RepairEnabled,
		BestFeasible:  artifacts.Record.BestFeasible,
	}); err != nil {
		return "", err
	}
	return runDir, nil
}

// ReadRunIndex loads the cross-run index; a missing index is an empty one.
func ReadRunIndex(baseDir string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var entries []RunIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runIndexFile, err)
	}
	return entries, nil
}

func appendRunIndex(baseDir string, entry RunIndexEntry) error {
	entries, err := ReadRunIndex(baseDir)
	if err != nil {
		return err
	}
	updated := false
	for i := range entries {
		if entries[i].RunID == entry.RunID {
			entries[i] = entry
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, entry)
	}
	return writeJSON(filepath.Join(baseDir, runIndexFile), entries)
}

func writeHistoryCSV(path string, history []model.GenerationStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"generation", "evaluations", "min_violation", "mean_violation", "feasible_count", "best_feasible", "mean_feasible"}); err != nil {
		return err
	}
	for _, s := range history {
		row := []string{
			strconv.Itoa(s.Generation),
			strconv.Itoa(s.Evaluations),
			formatFloat(s.MinViolation),
			formatFloat(s.MeanViolation),
			strconv.Itoa(s.FeasibleCount),
			formatOptional(s.BestFeasible),
			formatOptional(s.MeanFeasible),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// ExportRunArtifacts copies a run's artifact files into outDir/<run id>.
func ExportRunArtifacts(baseDir, runID, outDir string) (string, error) {
	if runID == "" {
		return "", fmt.Errorf("run id is required")
	}
	runDir := filepath.Join(baseDir, runID)
	info, err := os.Stat(runDir)
	if err != nil {
		return "", fmt.Errorf("run artifacts not found: %s", runID)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("run artifacts path is not a directory: %s", runDir)
	}

	destDir := filepath.Join(outDir, runID)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(runDir, entry.Name()))
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(destDir, entry.Name()), data, 0o644); err != nil {
			return "", err
		}
	}
	return destDir, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
