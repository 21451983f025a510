package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mendel/pkg/mendel"
)

// fileRunRequest is the on-disk run config shape, shared by the JSON and
// YAML loaders.
type fileRunRequest struct {
	Problem             string   `json:"problem" yaml:"problem"`
	Dimension           int      `json:"dimension" yaml:"dimension"`
	Population          int      `json:"population" yaml:"population"`
	Generations         int      `json:"generations" yaml:"generations"`
	MaxEvaluations      int      `json:"max_evaluations" yaml:"max_evaluations"`
	Seed                int64    `json:"seed" yaml:"seed"`
	NoRepair            bool     `json:"no_repair" yaml:"no_repair"`
	Ranking             string   `json:"ranking" yaml:"ranking"`
	PenaltyCoefficient  float64  `json:"penalty_coefficient" yaml:"penalty_coefficient"`
	EliminateDuplicates bool     `json:"eliminate_duplicates" yaml:"eliminate_duplicates"`
	Goal                *float64 `json:"goal" yaml:"goal"`
	StallWindow         int      `json:"stall_window" yaml:"stall_window"`
}

// flagRequest carries the values parsed from the CLI flags so that
// explicitly set flags can override a config file.
type flagRequest struct {
	Problem     string
	Dimension   int
	Population  int
	Generations int
	MaxEvals    int
	Seed        int64
	NoRepair    bool
	Ranking     string
	Penalty     float64
	Dedup       bool
	Goal        float64
	Stall       int
}

// buildRunRequest combines an optional config file with flag values. Flags
// win over the file only when they were set on the command line.
func buildRunRequest(configPath string, setFlags map[string]bool, flags flagRequest) (mendel.RunRequest, error) {
	req := mendel.RunRequest{
		Problem:             flags.Problem,
		Dimension:           flags.Dimension,
		Population:          flags.Population,
		Generations:         flags.Generations,
		MaxEvaluations:      flags.MaxEvals,
		Seed:                flags.Seed,
		NoRepair:            flags.NoRepair,
		Ranking:             flags.Ranking,
		PenaltyCoefficient:  flags.Penalty,
		EliminateDuplicates: flags.Dedup,
		StallWindow:         flags.Stall,
	}
	if setFlags["goal"] {
		goal := flags.Goal
		req.Goal = &goal
	}
	if configPath == "" {
		return req, nil
	}

	loaded, err := loadRunRequestFile(configPath)
	if err != nil {
		return mendel.RunRequest{}, err
	}
	fromFile := mendel.RunRequest{
		Problem:             loaded.Problem,
		Dimension:           loaded.Dimension,
		Population:          loaded.Population,
		Generations:         loaded.Generations,
		MaxEvaluations:      loaded.MaxEvaluations,
		Seed:                loaded.Seed,
		NoRepair:            loaded.NoRepair,
		Ranking:             loaded.Ranking,
		PenaltyCoefficient:  loaded.PenaltyCoefficient,
		EliminateDuplicates: loaded.EliminateDuplicates,
		Goal:                loaded.Goal,
		StallWindow:         loaded.StallWindow,
	}

	if setFlags["problem"] {
		fromFile.Problem = req.Problem
	}
	if setFlags["dim"] {
		fromFile.Dimension = req.Dimension
	}
	if setFlags["pop"] {
		fromFile.Population = req.Population
	}
	if setFlags["gens"] {
		fromFile.Generations = req.Generations
	}
	if setFlags["max-evals"] {
		fromFile.MaxEvaluations = req.MaxEvaluations
	}
	if setFlags["seed"] {
		fromFile.Seed = req.Seed
	}
	if setFlags["no-repair"] {
		fromFile.NoRepair = req.NoRepair
	}
	if setFlags["ranking"] {
		fromFile.Ranking = req.Ranking
	}
	if setFlags["penalty"] {
		fromFile.PenaltyCoefficient = req.PenaltyCoefficient
	}
	if setFlags["dedup"] {
		fromFile.EliminateDuplicates = req.EliminateDuplicates
	}
	if setFlags["goal"] {
		fromFile.Goal = req.Goal
	}
	if setFlags["stall-window"] {
		fromFile.StallWindow = req.StallWindow
	}
	return fromFile, nil
}

func loadRunRequestFile(path string) (fileRunRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileRunRequest{}, err
	}

	var req fileRunRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return fileRunRequest{}, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &req); err != nil {
			return fileRunRequest{}, fmt.Errorf("parse json config %s: %w", path, err)
		}
	default:
		return fileRunRequest{}, fmt.Errorf("unsupported config format: %s", path)
	}
	return req, nil
}
