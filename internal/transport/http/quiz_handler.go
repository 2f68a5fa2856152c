package http

import (
	"bytes"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/domain"
	"quiz-arcade/internal/render"
)

// QuizHandler serves the question flow, the lobby and the progress feeds.
type QuizHandler struct {
	service *app.QuizService
	pages   *render.Renderer
	lobby   bool
	log     *slog.Logger
}

func NewQuizHandler(service *app.QuizService, pages *render.Renderer, lobby bool, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{service: service, pages: pages, lobby: lobby, log: logger}
}

func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/start", h.start)
	r.Get("/q/{index:[0-9]+}", h.question)
	r.Get("/progress", h.progress)
	r.Get("/leaderboard-data", h.leaderboardData)
}

type leaderboardView struct {
	Score    int    `json:"score"`
	Avatar   string `json:"avatar"`
	Finished bool   `json:"finished"`
}

func (h *QuizHandler) home(w http.ResponseWriter, r *http.Request) {
	if !h.lobby {
		http.Redirect(w, r, domain.SessionFromQuery(r.URL.Query()).QuestionPath(0), http.StatusFound)
		return
	}
	writePage(w, h.log, func(buf *bytes.Buffer) error {
		return h.pages.Lobby(buf, render.LobbyView{})
	})
}

func (h *QuizHandler) start(w http.ResponseWriter, r *http.Request) {
	session := domain.SessionFromQuery(r.URL.Query())
	session.Score = 0
	http.Redirect(w, r, session.QuestionPath(0), http.StatusFound)
}

func (h *QuizHandler) question(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		// Digits only by route, so this is an overflow: past every question.
		index = math.MaxInt
	}
	session := domain.SessionFromQuery(r.URL.Query())

	step, err := h.service.Play(r.Context(), index, session)
	if err != nil {
		h.log.Error("play question", "index", index, "player", session.Player, "err", err)
		respondError(w, statusFromError(err), err.Error())
		return
	}

	writePage(w, h.log, func(buf *bytes.Buffer) error {
		if step.Complete() {
			return h.pages.Complete(buf, render.CompleteView{
				Player:      session.Player,
				Score:       session.Score,
				Total:       step.Total,
				Leaderboard: step.Leaderboard,
			})
		}
		return h.pages.Question(buf, render.QuestionPage(*step.Question, session, step.Index, step.Percent))
	})
}

func (h *QuizHandler) progress(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.Progress(r.Context())
	if err != nil {
		h.log.Error("read progress", "err", err)
		respondError(w, statusFromError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, all)
}

func (h *QuizHandler) leaderboardData(w http.ResponseWriter, r *http.Request) {
	all, err := h.service.Progress(r.Context())
	if err != nil {
		h.log.Error("read leaderboard", "err", err)
		respondError(w, statusFromError(err), err.Error())
		return
	}
	out := make(map[string]leaderboardView, len(all))
	for player, rec := range all {
		out[player] = leaderboardView{Score: rec.Score, Avatar: rec.Avatar, Finished: rec.Finished}
	}
	respondJSON(w, http.StatusOK, out)
}

// writePage buffers the page so a template failure can still produce a clean 500.
func writePage(w http.ResponseWriter, logger *slog.Logger, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		logger.Error("render page", "err", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
