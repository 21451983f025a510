package storage

import (
	"context"

	"mendel/internal/model"
)

// Store defines persistence operations for run outcomes: the run record,
// the per-generation history, and the best feasible individual.
type Store interface {
	Init(ctx context.Context) error
	Reset(ctx context.Context) error
	SaveRunRecord(ctx context.Context, record model.RunRecord) error
	GetRunRecord(ctx context.Context, runID string) (model.RunRecord, bool, error)
	ListRunRecords(ctx context.Context) ([]model.RunRecord, error)
	SaveHistory(ctx context.Context, runID string, history []model.GenerationStats) error
	GetHistory(ctx context.Context, runID string) ([]model.GenerationStats, bool, error)
	SaveBest(ctx context.Context, best model.BestRecord) error
	GetBest(ctx context.Context, runID string) (model.BestRecord, bool, error)
}
