package app_test

import (
	"context"
	"testing"
	"time"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/infra/memory"
)

func TestStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)
	service := app.NewStreakServiceWithClock(memory.NewStreakStore(), [2]string{"user1", "user2"}, time.UTC, func() time.Time { return day })

	r, err := service.Complete(ctx, "user1")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if r.StreakIncreased {
		t.Fatalf("one partner alone must not increase the streak")
	}
	r, _ = service.Complete(ctx, "user2")
	if !r.StreakIncreased || r.StreakCount != 1 {
		t.Fatalf("expected streak 1, got %+v", r)
	}

	service.Complete(ctx, "user1")
	r, _ = service.Complete(ctx, "user2")
	if r.StreakIncreased || r.StreakCount != 1 {
		t.Fatalf("a second pair on the same day must not count, got %+v", r)
	}

	day = day.Add(2 * time.Hour) // next calendar day
	service.Complete(ctx, "user2")
	r, _ = service.Complete(ctx, "user1")
	if !r.StreakIncreased || r.StreakCount != 2 {
		t.Fatalf("expected streak 2 on the next day, got %+v", r)
	}

	state, err := service.State(ctx)
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	if state.StreakCount != 2 {
		t.Fatalf("expected stored count 2, got %d", state.StreakCount)
	}

	if err := service.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	state, _ = service.State(ctx)
	if state.StreakCount != 0 || state.User1LastDate != "" || state.User2LastDate != "" {
		t.Fatalf("expected cleared state, got %+v", state)
	}
}

func TestStreakUsesConfiguredTimezone(t *testing.T) {
	ctx := context.Background()
	east := time.FixedZone("UTC+3", 3*60*60)
	// 22:00 UTC on the 19th is already the 20th at UTC+3.
	day := time.Date(2026, 10, 19, 22, 0, 0, 0, time.UTC)
	service := app.NewStreakServiceWithClock(memory.NewStreakStore(), [2]string{"user1", "user2"}, east, func() time.Time { return day })

	service.Complete(ctx, "user1")
	state, _ := service.State(ctx)
	if state.User1LastDate != "2026-10-20" {
		t.Fatalf("expected local date 2026-10-20, got %q", state.User1LastDate)
	}
}
