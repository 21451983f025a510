package platform

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"mendel/internal/model"
)

// RepairComparison holds a matched pair of runs on the same problem and
// seed, one with repair and one without, plus summary deltas.
type RepairComparison struct {
	WithRepair    RunOutcome `json:"with_repair"`
	WithoutRepair RunOutcome `json:"without_repair"`

	// MeanViolationWith and MeanViolationWithout average the
	// per-generation mean constraint violation over the whole run.
	MeanViolationWith    float64 `json:"mean_violation_with"`
	MeanViolationWithout float64 `json:"mean_violation_without"`

	// BestDelta is best-without minus best-with; present only when both
	// runs found a feasible individual. Negative favors the unrepaired
	// run, positive the repaired one.
	BestDelta *float64 `json:"best_delta,omitempty"`
}

// CompareRepair runs the request twice on the same seed, once with the
// problem's repair and once with it disabled, and summarizes the
// difference in constraint pressure and final quality.
func (l *Lab) CompareRepair(ctx context.Context, req RunRequest) (RepairComparison, error) {
	withReq := req
	withReq.DisableRepair = false
	if req.RunID != "" {
		withReq.RunID = req.RunID + "-repair"
	}
	withOut, err := l.RunExperiment(ctx, withReq)
	if err != nil {
		return RepairComparison{}, fmt.Errorf("repaired run: %w", err)
	}

	withoutReq := req
	withoutReq.DisableRepair = true
	if req.RunID != "" {
		withoutReq.RunID = req.RunID + "-norepair"
	}
	withoutOut, err := l.RunExperiment(ctx, withoutReq)
	if err != nil {
		return RepairComparison{}, fmt.Errorf("unrepaired run: %w", err)
	}

	cmp := RepairComparison{
		WithRepair:           withOut,
		WithoutRepair:        withoutOut,
		MeanViolationWith:    meanViolation(withOut.History),
		MeanViolationWithout: meanViolation(withoutOut.History),
	}
	if withOut.Record.BestFeasible != nil && withoutOut.Record.BestFeasible != nil {
		delta := *withoutOut.Record.BestFeasible - *withOut.Record.BestFeasible
		cmp.BestDelta = &delta
	}
	return cmp, nil
}

func meanViolation(history []model.GenerationStats) float64 {
	if len(history) == 0 {
		return 0
	}
	means := make([]float64, 0, len(history))
	for _, s := range history {
		means = append(means, s.MeanViolation)
	}
	return stat.Mean(means, nil)
}

// Runs lists all persisted run records, oldest first.
func (l *Lab) Runs(ctx context.Context) ([]model.RunRecord, error) {
	return l.store.ListRunRecords(ctx)
}

// Run looks up one persisted run record.
func (l *Lab) Run(ctx context.Context, runID string) (model.RunRecord, bool, error) {
	return l.store.GetRunRecord(ctx, runID)
}

// History looks up the per-generation history of a run.
func (l *Lab) History(ctx context.Context, runID string) ([]model.GenerationStats, bool, error) {
	return l.store.GetHistory(ctx, runID)
}

// Best looks up the best feasible individual of a run.
func (l *Lab) Best(ctx context.Context, runID string) (model.BestRecord, bool, error) {
	return l.store.GetBest(ctx, runID)
}
