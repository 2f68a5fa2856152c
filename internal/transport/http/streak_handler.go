package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-arcade/internal/app"
	"quiz-arcade/internal/render"
)

// StreakHandler exposes the two-partner daily streak.
type StreakHandler struct {
	service *app.StreakService
	pages   *render.Renderer
	log     *slog.Logger
}

func NewStreakHandler(service *app.StreakService, pages *render.Renderer, logger *slog.Logger) *StreakHandler {
	return &StreakHandler{service: service, pages: pages, log: logger}
}

func (h *StreakHandler) RegisterRoutes(r chi.Router) {
	r.Get("/streak", h.page)
	r.Post("/complete_quiz", h.complete)
	r.Get("/reset", h.reset)
}

type completeRequest struct {
	UserID string `json:"user_id"`
}

func (h *StreakHandler) complete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Unreadable bodies count as an unknown user: report state, change nothing.
		h.log.Debug("complete_quiz body ignored", "err", err)
		req = completeRequest{}
	}

	result, err := h.service.Complete(r.Context(), req.UserID)
	if err != nil {
		h.log.Error("complete streak", "user_id", req.UserID, "err", err)
		respondError(w, statusFromError(err), err.Error())
		return
	}
	if result.StreakIncreased {
		h.log.Info("streak increased", "streak_count", result.StreakCount)
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *StreakHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		h.log.Error("reset streak", "err", err)
		respondError(w, statusFromError(err), err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Streak reset to 0!"))
}

func (h *StreakHandler) page(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.State(r.Context())
	if err != nil {
		h.log.Error("read streak", "err", err)
		respondError(w, statusFromError(err), err.Error())
		return
	}
	writePage(w, h.log, func(buf *bytes.Buffer) error {
		return h.pages.Streak(buf, render.StreakView{Users: h.service.Users(), StreakCount: state.StreakCount})
	})
}
