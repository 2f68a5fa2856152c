package domain

import (
	"fmt"
	"time"
)

// Question models an MCQ question with exactly one correct option.
type Question struct {
	Text         string   `json:"text" yaml:"text"`
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correct_index" yaml:"correct_index"`
}

// Validate checks that the question has at least two options and a correct index inside them.
func (q Question) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %q has %d options", ErrInvalidQuestion, q.Text, len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("%w: %q correct index %d out of range", ErrInvalidQuestion, q.Text, q.CorrectIndex)
	}
	return nil
}

// QuestionBank is a fixed, ordered sequence of questions. It is never mutated after load.
type QuestionBank struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Size returns the number of questions in the bank.
func (b QuestionBank) Size() int {
	return len(b.Questions)
}

// Get returns the question at index. Callers render the completion view for
// index >= Size() instead of treating ErrQuestionNotFound as a failure.
func (b QuestionBank) Get(index int) (Question, error) {
	if index < 0 || index >= len(b.Questions) {
		return Question{}, ErrQuestionNotFound
	}
	return b.Questions[index], nil
}

// Clone returns a deep copy so callers cannot alter a shared cached bank.
func (b QuestionBank) Clone() QuestionBank {
	out := b
	out.Questions = make([]Question, len(b.Questions))
	for i, q := range b.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}

// Validate checks every question in the bank.
func (b QuestionBank) Validate() error {
	for i, q := range b.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("bank %s question %d: %w", b.ID, i, err)
		}
	}
	return nil
}

// ProgressRecord is the last known position of a player in the quiz.
type ProgressRecord struct {
	PlayerID        string  `json:"-"`
	Percent         float64 `json:"percent"`
	Score           int     `json:"score"`
	Avatar          string  `json:"avatar"`
	Finished        bool    `json:"finished"`
	CurrentQuestion int     `json:"current_question"`
	TotalQuestions  int     `json:"total_questions"`
}

// LeaderboardEntry is a ranked view of a progress record.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Player   string `json:"player"`
	Score    int    `json:"score"`
	Avatar   string `json:"avatar"`
	Finished bool   `json:"finished"`
}

// Player is a participant of a battle room.
type Player struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Avatar      string    `json:"avatar"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	LastUpdated time.Time `json:"-"`
}

// Room event types pushed to battle subscribers.
const (
	EventRoomUpdate     = "room_update"
	EventProgressUpdate = "progress_update"
	EventBattleStarted  = "battle_started"
	EventBattleFinished = "battle_finished"
)

// RoomEvent is a snapshot of a battle room tagged with what triggered it.
type RoomEvent struct {
	Type           string   `json:"-"`
	Players        []Player `json:"players"`
	TotalQuestions int      `json:"totalQuestions"`
	Winner         *Player  `json:"winner,omitempty"`
}

// RoomState is the polling view of a battle room.
type RoomState struct {
	RoomID         string    `json:"roomId"`
	Players        []Player  `json:"players"`
	TotalQuestions int       `json:"totalQuestions"`
	Started        bool      `json:"started"`
	CreatedAt      time.Time `json:"createdAt"`
}
