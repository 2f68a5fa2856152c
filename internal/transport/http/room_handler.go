package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"quiz-arcade/internal/app"
)

// RoomHandler creates battle rooms and reports their state for polling clients.
type RoomHandler struct {
	service *app.BattleService
}

func NewRoomHandler(service *app.BattleService) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) RegisterRoutes(r chi.Router) {
	r.Post("/create-room", h.createRoom)
	r.Get("/room/{roomID}", h.getRoom)
}

type createRoomRequest struct {
	TotalQuestions int `json:"totalQuestions"`
}

type createRoomResponse struct {
	RoomID string `json:"roomId"`
}

func (h *RoomHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	// An empty or unreadable body falls back to the default question total.
	_ = json.NewDecoder(r.Body).Decode(&req)

	roomID, err := h.service.CreateRoom(r.Context(), req.TotalQuestions)
	if err != nil {
		respondError(w, statusFromError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, createRoomResponse{RoomID: roomID})
}

func (h *RoomHandler) getRoom(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.RoomState(r.Context(), normalizeRoomID(chi.URLParam(r, "roomID")))
	if err != nil {
		respondError(w, statusFromError(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// normalizeRoomID accepts codes typed in any case.
func normalizeRoomID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
