package memory

import (
	"context"
	"sync"

	"quiz-arcade/internal/domain"
)

// StreakStore holds the single streak record behind a mutex.
type StreakStore struct {
	mu    sync.Mutex
	state domain.StreakState
}

func NewStreakStore() *StreakStore {
	return &StreakStore{}
}

func (s *StreakStore) Get(_ context.Context) (domain.StreakState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, nil
}

func (s *StreakStore) Update(_ context.Context, fn func(*domain.StreakState)) (domain.StreakState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	return s.state, nil
}

func (s *StreakStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = domain.StreakState{}
	return nil
}
