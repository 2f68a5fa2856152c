package memory

import (
	"context"
	"sync"
	"testing"

	"quiz-arcade/internal/domain"
)

func TestStreakStoreUpdateAndReset(t *testing.T) {
	ctx := context.Background()
	store := NewStreakStore()

	state, err := store.Update(ctx, func(s *domain.StreakState) {
		s.User1LastDate = "2026-10-19"
		s.StreakCount = 2
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if state.StreakCount != 2 || state.User1LastDate != "2026-10-19" {
		t.Fatalf("unexpected state %+v", state)
	}

	if err := store.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	got, _ := store.Get(ctx)
	if got != (domain.StreakState{}) {
		t.Fatalf("expected zero state after reset, got %+v", got)
	}
}

func TestStreakStoreConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	store := NewStreakStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Update(ctx, func(s *domain.StreakState) { s.StreakCount++ })
		}()
	}
	wg.Wait()

	got, _ := store.Get(ctx)
	if got.StreakCount != 100 {
		t.Fatalf("expected 100 increments, got %d", got.StreakCount)
	}
}
