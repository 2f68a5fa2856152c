package app

import (
	"context"
	"fmt"
	"time"

	"quiz-arcade/internal/domain"
)

// StreakStore persists the single streak record. Update must apply fn atomically
// with respect to other Update and Reset calls.
type StreakStore interface {
	Get(ctx context.Context) (domain.StreakState, error)
	Update(ctx context.Context, fn func(*domain.StreakState)) (domain.StreakState, error)
	Reset(ctx context.Context) error
}

// StreakService tracks whether both partners finished the quiz on the same day.
type StreakService struct {
	store StreakStore
	users [2]string
	loc   *time.Location
	now   func() time.Time
}

func NewStreakService(store StreakStore, users [2]string, loc *time.Location) *StreakService {
	return NewStreakServiceWithClock(store, users, loc, time.Now)
}

// NewStreakServiceWithClock is test-only for deterministic dates.
func NewStreakServiceWithClock(store StreakStore, users [2]string, loc *time.Location, now func() time.Time) *StreakService {
	if loc == nil {
		loc = time.Local
	}
	return &StreakService{store: store, users: users, loc: loc, now: now}
}

// Users returns the two recognized user identifiers.
func (s *StreakService) Users() [2]string {
	return s.users
}

// Complete records that userID finished today's quiz.
func (s *StreakService) Complete(ctx context.Context, userID string) (domain.StreakResult, error) {
	today := s.now().In(s.loc).Format(time.DateOnly)

	var result domain.StreakResult
	_, err := s.store.Update(ctx, func(state *domain.StreakState) {
		result = state.Complete(s.users, userID, today)
	})
	if err != nil {
		return domain.StreakResult{}, fmt.Errorf("complete streak: %w", err)
	}
	return result, nil
}

// State returns the current streak record.
func (s *StreakService) State(ctx context.Context) (domain.StreakState, error) {
	state, err := s.store.Get(ctx)
	if err != nil {
		return domain.StreakState{}, fmt.Errorf("read streak: %w", err)
	}
	return state, nil
}

// Reset clears both dates and zeroes the counter.
func (s *StreakService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset streak: %w", err)
	}
	return nil
}
