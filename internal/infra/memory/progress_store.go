package memory

import (
	"context"
	"sync"

	"quiz-arcade/internal/domain"
)

// ProgressStore is the process-wide progress tracker. Entries are never evicted.
type ProgressStore struct {
	mu      sync.RWMutex
	records map[string]domain.ProgressRecord
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{records: make(map[string]domain.ProgressRecord)}
}

func (s *ProgressStore) Record(_ context.Context, record domain.ProgressRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.PlayerID] = record
	return nil
}

func (s *ProgressStore) All(_ context.Context) (map[string]domain.ProgressRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[string]domain.ProgressRecord, len(s.records))
	for player, record := range s.records {
		snapshot[player] = record
	}
	return snapshot, nil
}
