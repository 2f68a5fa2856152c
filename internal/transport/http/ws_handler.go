package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-arcade/internal/app"
)

type WSHandler struct {
	service  *app.BattleService
	upgrader websocket.Upgrader
	log      *slog.Logger
}

func NewWSHandler(service *app.BattleService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

const (
	msgAnswerSubmitted = "answer_submitted"
	msgStartBattle     = "start_battle"
	msgError           = "error"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Correct bool `json:"correct"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func errorMessage(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: msgError, Payload: errorPayload{Message: message}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the battle room use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	roomID := normalizeRoomID(r.URL.Query().Get("roomId"))
	userID := r.URL.Query().Get("userId")
	username := r.URL.Query().Get("username")
	avatar := r.URL.Query().Get("avatar")
	if roomID == "" || userID == "" || username == "" {
		http.Error(w, "missing roomId, userId, or username", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	if _, err := h.service.Join(r.Context(), roomID, userID, username, avatar); err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	h.log.Info("player joined room", "room", roomID, "user", userID)

	updates, cancel, err := h.service.Subscribe(r.Context(), roomID)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err.Error()))
		return
	}
	defer cancel()
	defer h.service.Leave(r.Context(), roomID, userID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer: gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Warn("ws write error", "room", roomID, "user", userID, "err", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: update.Type, Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case msgAnswerSubmitted:
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply(errorMessage("invalid answer payload"))
				continue
			}
			if _, err := h.service.SubmitAnswer(r.Context(), roomID, userID, payload.Correct); err != nil {
				reply(errorMessage(err.Error()))
			}
		case msgStartBattle:
			if err := h.service.StartBattle(r.Context(), roomID); err != nil {
				reply(errorMessage(err.Error()))
			}
		default:
			reply(errorMessage("unsupported message type"))
		}
	}

	h.log.Info("player left room", "room", roomID, "user", userID)
	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
