package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestBuildRunRequestFromFlags(t *testing.T) {
	req, err := buildRunRequest("", map[string]bool{"goal": true}, flagRequest{
		Problem:     "sphere",
		Dimension:   10,
		Population:  40,
		Generations: 20,
		Seed:        5,
		Goal:        0.01,
	})
	if err != nil {
		t.Fatalf("buildRunRequest: %v", err)
	}
	if req.Problem != "sphere" || req.Dimension != 10 || req.Seed != 5 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Goal == nil || *req.Goal != 0.01 {
		t.Fatalf("goal = %v", req.Goal)
	}
}

func TestBuildRunRequestGoalUnsetWithoutFlag(t *testing.T) {
	req, err := buildRunRequest("", map[string]bool{}, flagRequest{Goal: 0.01})
	if err != nil {
		t.Fatalf("buildRunRequest: %v", err)
	}
	if req.Goal != nil {
		t.Fatalf("goal should be unset, got %v", *req.Goal)
	}
}

func TestBuildRunRequestJSONConfig(t *testing.T) {
	path := writeConfig(t, "run.json", `{
  "problem": "knapsack",
  "dimension": 30,
  "population": 200,
  "generations": 10,
  "seed": 42,
  "eliminate_duplicates": true
}`)

	req, err := buildRunRequest(path, map[string]bool{}, flagRequest{})
	if err != nil {
		t.Fatalf("buildRunRequest: %v", err)
	}
	if req.Problem != "knapsack" || req.Population != 200 || req.Seed != 42 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !req.EliminateDuplicates {
		t.Fatal("eliminate_duplicates not loaded")
	}
}

func TestBuildRunRequestYAMLConfig(t *testing.T) {
	path := writeConfig(t, "run.yaml", `
problem: sphere
dimension: 5
population: 30
generations: 15
seed: 7
ranking: penalty
penalty_coefficient: 2.5
goal: 0.001
`)

	req, err := buildRunRequest(path, map[string]bool{}, flagRequest{})
	if err != nil {
		t.Fatalf("buildRunRequest: %v", err)
	}
	if req.Problem != "sphere" || req.Ranking != "penalty" || req.PenaltyCoefficient != 2.5 {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.Goal == nil || *req.Goal != 0.001 {
		t.Fatalf("goal = %v", req.Goal)
	}
}

func TestBuildRunRequestFlagOverridesFile(t *testing.T) {
	path := writeConfig(t, "run.json", `{"problem": "knapsack", "seed": 1, "population": 50}`)

	req, err := buildRunRequest(path, map[string]bool{"seed": true}, flagRequest{Seed: 99, Population: 123})
	if err != nil {
		t.Fatalf("buildRunRequest: %v", err)
	}
	if req.Seed != 99 {
		t.Fatalf("seed = %d, want flag override 99", req.Seed)
	}
	if req.Population != 50 {
		t.Fatalf("population = %d, want file value 50", req.Population)
	}
}

func TestBuildRunRequestUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "run.toml", "problem = \"knapsack\"")
	if _, err := buildRunRequest(path, map[string]bool{}, flagRequest{}); err == nil {
		t.Fatal("expected error for unsupported config format")
	}
}
