// Package render produces the HTML pages of the quiz. Every function is a pure
// transformation of its view; answer checking happens in the page script.
package render

import (
	"embed"
	"html/template"
	"io"

	"quiz-arcade/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// AnswerDelayMillis is how long the page shows the checked answer before navigating on.
const AnswerDelayMillis = 1500

// Avatars offered in the lobby.
var Avatars = []string{"🦊", "🐼", "🐸", "🦁", "🐙", "🦄"}

type LobbyView struct {
	Player  string
	Avatar  string
	Avatars []string
}

type QuestionView struct {
	Text         string
	Options      []string
	CorrectIndex int
	Score        int
	Percent      float64
	NextPath     string
	DelayMillis  int
}

type CompleteView struct {
	Player      string
	Score       int
	Total       int
	Leaderboard []domain.LeaderboardEntry
}

type StreakView struct {
	Users       [2]string
	StreakCount int
}

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// QuestionPage builds the view for question index of a session.
func QuestionPage(q domain.Question, session domain.Session, index int, percent float64) QuestionView {
	return QuestionView{
		Text:         q.Text,
		Options:      q.Options,
		CorrectIndex: q.CorrectIndex,
		Score:        session.Score,
		Percent:      percent,
		NextPath:     session.NextPath(index + 1),
		DelayMillis:  AnswerDelayMillis,
	}
}

func (r *Renderer) Lobby(w io.Writer, view LobbyView) error {
	if len(view.Avatars) == 0 {
		view.Avatars = Avatars
	}
	if view.Avatar == "" {
		view.Avatar = domain.DefaultAvatar
	}
	return r.tmpl.ExecuteTemplate(w, "lobby", view)
}

func (r *Renderer) Question(w io.Writer, view QuestionView) error {
	return r.tmpl.ExecuteTemplate(w, "question", view)
}

func (r *Renderer) Complete(w io.Writer, view CompleteView) error {
	return r.tmpl.ExecuteTemplate(w, "complete", view)
}

func (r *Renderer) Streak(w io.Writer, view StreakView) error {
	return r.tmpl.ExecuteTemplate(w, "streak", view)
}
