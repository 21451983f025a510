package storage

import (
	"context"
	"sort"
	"sync"

	"mendel/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string]model.RunRecord
	history     map[string][]model.GenerationStats
	best        map[string]model.BestRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = make(map[string]model.RunRecord)
	s.history = make(map[string][]model.GenerationStats)
	s.best = make(map[string]model.BestRecord)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	return s.Init(ctx)
}

func (s *MemoryStore) SaveRunRecord(_ context.Context, record model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.RunID] = record
	return nil
}

func (s *MemoryStore) GetRunRecord(_ context.Context, runID string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[runID]
	return record, ok, nil
}

func (s *MemoryStore) ListRunRecords(_ context.Context) ([]model.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RunRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAtUTC == out[j].CreatedAtUTC {
			return out[i].RunID < out[j].RunID
		}
		return out[i].CreatedAtUTC < out[j].CreatedAtUTC
	})
	return out, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, runID string, history []model.GenerationStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[runID] = append([]model.GenerationStats(nil), history...)
	return nil
}

func (s *MemoryStore) GetHistory(_ context.Context, runID string) ([]model.GenerationStats, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.history[runID]
	if !ok {
		return nil, false, nil
	}
	return append([]model.GenerationStats(nil), history...), true, nil
}

func (s *MemoryStore) SaveBest(_ context.Context, best model.BestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.best[best.RunID] = best
	return nil
}

func (s *MemoryStore) GetBest(_ context.Context, runID string) (model.BestRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best, ok := s.best[runID]
	return best, ok, nil
}
