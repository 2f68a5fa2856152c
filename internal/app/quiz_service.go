package app

import (
	"context"
	"fmt"
	"sort"

	"quiz-arcade/internal/domain"
)

// BankRepository loads question banks (from cache/backing store).
type BankRepository interface {
	GetBank(ctx context.Context, bankID string) (domain.QuestionBank, error)
}

// ProgressStore abstracts the shared progress tracker (in-memory, Redis, etc).
// Record overwrites unconditionally; All returns a snapshot.
type ProgressStore interface {
	Record(ctx context.Context, record domain.ProgressRecord) error
	All(ctx context.Context) (map[string]domain.ProgressRecord, error)
}

// QuizService serves the question flow and keeps the progress tracker current.
type QuizService struct {
	banks    BankRepository
	progress ProgressStore
	bankID   string
}

func NewQuizService(banks BankRepository, progress ProgressStore, bankID string) *QuizService {
	return &QuizService{banks: banks, progress: progress, bankID: bankID}
}

// Step is what the player sees at a position of the quiz: a question, or the
// completion view with the leaderboard once Index reaches Total.
type Step struct {
	Session     domain.Session
	Index       int
	Total       int
	Percent     float64
	Question    *domain.Question
	Leaderboard []domain.LeaderboardEntry
}

// Complete reports whether the step is past the last question.
func (s Step) Complete() bool {
	return s.Question == nil
}

// Play resolves question index for the session and records the player's progress.
func (s *QuizService) Play(ctx context.Context, index int, session domain.Session) (Step, error) {
	bank, err := s.banks.GetBank(ctx, s.bankID)
	if err != nil {
		return Step{}, err
	}

	total := bank.Size()
	step := Step{Session: session, Index: index, Total: total}

	if index >= total {
		step.Index = total
		step.Percent = 100
		if err := s.record(ctx, step, true); err != nil {
			return Step{}, err
		}
		lb, err := s.Leaderboard(ctx)
		if err != nil {
			return Step{}, err
		}
		step.Leaderboard = lb
		return step, nil
	}

	question, err := bank.Get(index)
	if err != nil {
		return Step{}, err
	}
	step.Question = &question
	step.Percent = float64(index) / float64(total) * 100
	if err := s.record(ctx, step, false); err != nil {
		return Step{}, err
	}
	return step, nil
}

func (s *QuizService) record(ctx context.Context, step Step, finished bool) error {
	err := s.progress.Record(ctx, domain.ProgressRecord{
		PlayerID:        step.Session.Player,
		Percent:         step.Percent,
		Score:           step.Session.Score,
		Avatar:          step.Session.Avatar,
		Finished:        finished,
		CurrentQuestion: step.Index,
		TotalQuestions:  step.Total,
	})
	if err != nil {
		return fmt.Errorf("record progress: %w", err)
	}
	return nil
}

// Progress returns a snapshot of every player's last recorded progress.
func (s *QuizService) Progress(ctx context.Context) (map[string]domain.ProgressRecord, error) {
	all, err := s.progress.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	return all, nil
}

// Leaderboard ranks all tracked players by score, ties by player ID ascending.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	all, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	return rankProgress(all), nil
}

func rankProgress(all map[string]domain.ProgressRecord) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, len(all))
	for player, record := range all {
		entries = append(entries, domain.LeaderboardEntry{
			Player:   player,
			Score:    record.Score,
			Avatar:   record.Avatar,
			Finished: record.Finished,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
