package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/domain"
	"quiz-arcade/internal/infra/memory"
)

func TestPlayQuestionRecordsProgress(t *testing.T) {
	ctx := context.Background()
	service := newQuizService()
	session := domain.Session{Player: "ada", Avatar: "🦉", Score: 2}

	step, err := service.Play(ctx, 1, session)
	if err != nil {
		t.Fatalf("play failed: %v", err)
	}
	if step.Complete() {
		t.Fatalf("expected a question step")
	}
	if step.Question.Text != "Second" {
		t.Fatalf("unexpected question %q", step.Question.Text)
	}
	if step.Total != 4 || step.Percent != 25 {
		t.Fatalf("expected 1/4 at 25%%, got total=%d percent=%v", step.Total, step.Percent)
	}

	progress, err := service.Progress(ctx)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	rec, ok := progress["ada"]
	if !ok {
		t.Fatalf("expected ada to be tracked")
	}
	if rec.Finished || rec.Score != 2 || rec.CurrentQuestion != 1 || rec.TotalQuestions != 4 || rec.Avatar != "🦉" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestPlayPastEndCompletes(t *testing.T) {
	ctx := context.Background()
	service := newQuizService()

	for _, index := range []int{4, 5, 1 << 40} {
		step, err := service.Play(ctx, index, domain.Session{Player: "bo", Avatar: "🐼", Score: 3})
		if err != nil {
			t.Fatalf("play %d failed: %v", index, err)
		}
		if !step.Complete() {
			t.Fatalf("expected completion at index %d", index)
		}
		if step.Index != 4 || step.Percent != 100 {
			t.Fatalf("expected clamped index and 100%%, got %d %v", step.Index, step.Percent)
		}
		if len(step.Leaderboard) != 1 || !step.Leaderboard[0].Finished {
			t.Fatalf("expected finished leaderboard entry, got %+v", step.Leaderboard)
		}
	}
}

func TestPlayUnknownBank(t *testing.T) {
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(nil), time.Minute)
	service := app.NewQuizService(banks, memory.NewProgressStore(), "missing")

	_, err := service.Play(context.Background(), 0, domain.Session{Player: "x"})
	if !errors.Is(err, domain.ErrBankNotFound) {
		t.Fatalf("expected ErrBankNotFound, got %v", err)
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	service := newQuizService()

	plays := []domain.Session{
		{Player: "carol", Score: 1},
		{Player: "bob", Score: 3},
		{Player: "alice", Score: 3},
		{Player: "dave", Score: 0},
	}
	for _, s := range plays {
		if _, err := service.Play(ctx, 4, s); err != nil {
			t.Fatalf("play failed: %v", err)
		}
	}

	lb, err := service.Leaderboard(ctx)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	want := []string{"alice", "bob", "carol", "dave"}
	if len(lb) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(lb))
	}
	for i, entry := range lb {
		if entry.Player != want[i] || entry.Rank != i+1 {
			t.Fatalf("position %d: expected %s rank %d, got %+v", i, want[i], i+1, entry)
		}
		if i > 0 && entry.Score > lb[i-1].Score {
			t.Fatalf("scores not non-increasing at %d", i)
		}
	}
}

func TestProgressLastWriteWins(t *testing.T) {
	ctx := context.Background()
	service := newQuizService()

	if _, err := service.Play(ctx, 4, domain.Session{Player: "ada", Score: 4}); err != nil {
		t.Fatalf("play failed: %v", err)
	}
	// Revisiting an earlier question overwrites the finished record.
	if _, err := service.Play(ctx, 0, domain.Session{Player: "ada", Score: 0}); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	progress, err := service.Progress(ctx)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if rec := progress["ada"]; rec.Finished || rec.Score != 0 || rec.Percent != 0 {
		t.Fatalf("expected latest write to win, got %+v", rec)
	}
}

func newQuizService() *app.QuizService {
	bank := domain.QuestionBank{
		ID:    "default",
		Title: "Warmup",
		Questions: []domain.Question{
			{Text: "First", Options: []string{"a", "b"}, CorrectIndex: 0},
			{Text: "Second", Options: []string{"a", "b"}, CorrectIndex: 1},
			{Text: "Third", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
			{Text: "Fourth", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	}
	banks := memory.NewBankRepository(memory.NewStaticBankLoader(map[string]domain.QuestionBank{bank.ID: bank}), time.Minute)
	return app.NewQuizService(banks, memory.NewProgressStore(), bank.ID)
}
